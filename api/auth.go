package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

type AccessTokenClaims struct {
	Subject   string  `json:"sub"`
	Email     *string `json:"email"`
	ExpiresAt int64   `json:"exp"`
	IssuedAt  int64   `json:"iat"`
}

func parseAccessToken(jwtStr string, decodeToken string) (*AccessTokenClaims, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(decodeToken), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse claims")
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return nil, fmt.Errorf("error marshalling claims: %w", err)
	}

	var parsed AccessTokenClaims
	if err := json.Unmarshal(claimsJSON, &parsed); err != nil {
		return nil, fmt.Errorf("error unmarshalling claims: %w", err)
	}

	if time.Now().UTC().Unix() > parsed.ExpiresAt {
		return nil, fmt.Errorf("jwt is expired")
	}

	return &parsed, nil
}

// requireAuth guards catalog mutations. Read paths stay open.
func (m ApiHandler) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		returnErrorJsonCode(fmt.Errorf("missing bearer token"), c, 401)
		return
	}

	claims, err := parseAccessToken(strings.TrimPrefix(header, "Bearer "), m.JwtDecodeToken)
	if err != nil {
		returnErrorJsonCode(err, c, 401)
		return
	}

	c.Set("subject", claims.Subject)
	c.Next()
}
