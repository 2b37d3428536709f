package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"mkto/internal/db/models/postgres/public/model"
	"mkto/internal/optimizer"
	"mkto/internal/realtime"
	"mkto/internal/repository"
	"mkto/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApiHandler struct {
	Db                   *sql.DB
	OptimizationService  service.OptimizationService
	AssetRepository      repository.AssetRepository
	GptRepository        repository.GptRepository
	ApiRequestRepository repository.ApiRequestRepository
	EventHub             *realtime.Hub
	JwtDecodeToken       string
}

func int64Ptr(i int64) *int64 {
	return &i
}
func int32Ptr(i int32) *int32 {
	return &i
}
func strPtr(s string) *string {
	return &s
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddlware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to mkto"})
	})
	router.POST("/optimize", m.optimize)
	router.POST("/optimizeSimple", m.optimizeSimple)
	router.GET("/assets", m.listAssets)
	router.POST("/assets", m.requireAuth, m.upsertAsset)
	router.POST("/riskMetrics", m.riskMetrics)
	router.POST("/constructObjective", m.constructObjective)
	router.GET("/ws/events", m.events)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.InitializeRouterEngine().Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, statusCodeForError(err))
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	fmt.Println(err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// statusCodeForError maps the optimizer error taxonomy onto http codes;
// anything unrecognized is a 500.
func statusCodeForError(err error) int {
	switch {
	case errors.As(err, &optimizer.InvalidParameterError{}),
		errors.As(err, &optimizer.InvalidAssetError{}):
		return 400
	case errors.As(err, &optimizer.AssetNotFoundError{}):
		return 404
	case errors.As(err, &optimizer.TimeoutError{}):
		return 504
	}
	return 500
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (m ApiHandler) logRequestMiddlware(ctx *gin.Context) {
	w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: ctx.Writer}
	ctx.Writer = w

	body, err := ctx.GetRawData()
	if err != nil {
		log.Println(fmt.Errorf("failed to get raw data: %w", err))
	}
	ctx.Request.Body = io.NopCloser(bytes.NewReader(body))

	type userIdBody struct {
		UserID uuid.UUID `json:"userID"`
	}

	reqBody := userIdBody{}
	err = json.Unmarshal(body, &reqBody)
	if err != nil && len(body) > 0 {
		log.Println(fmt.Errorf("failed to get req body: %w", err))
	}
	var userID *uuid.UUID
	if reqBody.UserID != uuid.Nil {
		userID = &reqBody.UserID
	}

	start := time.Now().UTC()
	req, err := m.ApiRequestRepository.Add(m.Db, model.APIRequest{
		UserID:      userID,
		IPAddress:   strPtr(ctx.ClientIP()),
		Method:      ctx.Request.Method,
		Route:       ctx.Request.URL.Path,
		RequestBody: strPtr(string(body)),
		StartTs:     start,
	})
	if err != nil {
		log.Println(err)
	}

	ctx.Next()

	if req != nil {
		req.DurationMs = int64Ptr(time.Since(start).Milliseconds())
		req.StatusCode = int32Ptr(int32(ctx.Writer.Status()))
		req.ResponseBody = strPtr(w.body.String())

		err = m.ApiRequestRepository.Update(m.Db, *req)
		if err != nil {
			log.Println(err)
		}
	}
}
