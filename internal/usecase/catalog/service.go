package catalog

import (
	"context"
	"fmt"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
)

// CatalogService handles asset exploration
type CatalogService struct {
	AssetRepo domain.AssetRepository
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(assetRepo domain.AssetRepository) *CatalogService {
	return &CatalogService{
		AssetRepo: assetRepo,
	}
}

// ListAssets returns the catalog, optionally restricted to one category.
// An empty category returns every asset.
func (s *CatalogService) ListAssets(ctx context.Context, category domain.AssetCategory) ([]*domain.Asset, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, category)
	}

	assets, err := s.AssetRepo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}
