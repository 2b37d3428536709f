package repository

import (
	"database/sql"
	"fmt"
	"time"

	"mkto/internal/db/models/postgres/public/model"
	"mkto/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

type AssetRepository interface {
	GetMany(symbols []string) (map[string]model.Asset, error)
	List() ([]model.Asset, error)
	Upsert(tx *sql.Tx, a model.Asset) (*model.Asset, error)
	UpdatePrice(symbol string, price float64) error
}

type assetRepositoryHandler struct {
	Db *sql.DB
}

func NewAssetRepository(db *sql.DB) AssetRepository {
	return assetRepositoryHandler{Db: db}
}

// GetMany returns the catalog rows for the given symbols, keyed by symbol.
// Symbols absent from the catalog are simply absent from the map - the
// caller decides whether that's fatal.
func (h assetRepositoryHandler) GetMany(symbols []string) (map[string]model.Asset, error) {
	if len(symbols) == 0 {
		return map[string]model.Asset{}, nil
	}

	symbolExpressions := make([]postgres.Expression, len(symbols))
	for i, symbol := range symbols {
		symbolExpressions[i] = postgres.String(symbol)
	}

	query := table.Asset.
		SELECT(table.Asset.AllColumns).
		WHERE(table.Asset.Symbol.IN(symbolExpressions...))

	results := []model.Asset{}
	err := query.Query(h.Db, &results)
	if err != nil {
		return nil, fmt.Errorf("failed to get assets: %w", err)
	}

	out := map[string]model.Asset{}
	for _, asset := range results {
		out[asset.Symbol] = asset
	}

	return out, nil
}

func (h assetRepositoryHandler) List() ([]model.Asset, error) {
	query := table.Asset.
		SELECT(table.Asset.AllColumns).
		ORDER_BY(table.Asset.Symbol.ASC())

	results := []model.Asset{}
	err := query.Query(h.Db, &results)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	return results, nil
}

func (h assetRepositoryHandler) Upsert(tx *sql.Tx, a model.Asset) (*model.Asset, error) {
	a.UpdatedAt = time.Now().UTC()

	query := table.Asset.
		INSERT(table.Asset.MutableColumns).
		MODEL(a).
		ON_CONFLICT(table.Asset.Symbol).DO_UPDATE(
		postgres.SET(
			table.Asset.Name.SET(table.Asset.EXCLUDED.Name),
			table.Asset.Price.SET(table.Asset.EXCLUDED.Price),
			table.Asset.ExpectedReturn.SET(table.Asset.EXCLUDED.ExpectedReturn),
			table.Asset.Risk.SET(table.Asset.EXCLUDED.Risk),
			table.Asset.UpdatedAt.SET(table.Asset.EXCLUDED.UpdatedAt),
		),
	).RETURNING(table.Asset.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.Asset{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert asset: %w", err)
	}

	return &out, nil
}

func (h assetRepositoryHandler) UpdatePrice(symbol string, price float64) error {
	query := table.Asset.
		UPDATE(table.Asset.Price, table.Asset.UpdatedAt).
		SET(
			postgres.Float(price),
			postgres.TimestampT(time.Now().UTC()),
		).
		WHERE(table.Asset.Symbol.EQ(postgres.String(symbol)))

	_, err := query.Exec(h.Db)
	if err != nil {
		return fmt.Errorf("failed to update price for %s: %w", symbol, err)
	}

	return nil
}
