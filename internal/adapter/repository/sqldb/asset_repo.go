package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
)

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	db *DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *DB) domain.AssetRepository {
	return &assetRepository{db: db}
}

// GetByTicker retrieves a catalog asset by its ticker
func (r *assetRepository) GetByTicker(ctx context.Context, ticker string) (*domain.Asset, error) {
	query := r.db.rebind(`SELECT ticker, name, category FROM assets WHERE ticker = ?`)

	var asset domain.Asset
	err := r.db.QueryRowContext(ctx, query, domain.NormalizeTicker(ticker)).Scan(
		&asset.Ticker,
		&asset.Name,
		&asset.Category,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("asset %s: %w", ticker, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get asset by ticker: %w", err)
	}

	return &asset, nil
}

// Create adds an asset to the catalog
func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	query := r.db.rebind(`INSERT INTO assets (ticker, name, category) VALUES (?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		domain.NormalizeTicker(asset.Ticker),
		asset.Name,
		string(asset.Category),
	)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}

	return nil
}

// List retrieves catalog assets, optionally filtered by category
// If category is empty, returns all assets
func (r *assetRepository) List(ctx context.Context, category domain.AssetCategory) ([]*domain.Asset, error) {
	var query string
	var args []interface{}

	if category == "" {
		query = `SELECT ticker, name, category FROM assets ORDER BY category, ticker`
	} else {
		query = r.db.rebind(`SELECT ticker, name, category FROM assets WHERE category = ? ORDER BY ticker`)
		args = append(args, string(category))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	assets := []*domain.Asset{}
	for rows.Next() {
		var asset domain.Asset
		if err := rows.Scan(&asset.Ticker, &asset.Name, &asset.Category); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, &asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}
