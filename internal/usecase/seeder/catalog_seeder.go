package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
)

// DefaultCatalog lists the assets offered on the exploration screens
var DefaultCatalog = []domain.Asset{
	{Ticker: "AAPL", Name: "Apple Inc.", Category: domain.CategoryStocks},
	{Ticker: "GOOGL", Name: "Alphabet Inc.", Category: domain.CategoryStocks},
	{Ticker: "MSFT", Name: "Microsoft Corporation", Category: domain.CategoryStocks},
	{Ticker: "AMZN", Name: "Amazon.com Inc.", Category: domain.CategoryStocks},
	{Ticker: "TSLA", Name: "Tesla Inc.", Category: domain.CategoryStocks},
	{Ticker: "SPY", Name: "SPDR S&P 500 ETF Trust", Category: domain.CategoryIndices},
	{Ticker: "QQQ", Name: "Invesco QQQ Trust", Category: domain.CategoryIndices},
	{Ticker: "DIA", Name: "SPDR Dow Jones Industrial Average ETF", Category: domain.CategoryIndices},
	{Ticker: "BTC-USD", Name: "Bitcoin", Category: domain.CategoryCrypto},
	{Ticker: "ETH-USD", Name: "Ethereum", Category: domain.CategoryCrypto},
}

// CatalogSeeder handles seeding of the default asset catalog
type CatalogSeeder struct {
	repo   domain.AssetRepository
	assets []domain.Asset
}

// NewCatalogSeeder creates a new CatalogSeeder for the default catalog
func NewCatalogSeeder(repo domain.AssetRepository) *CatalogSeeder {
	return &CatalogSeeder{
		repo:   repo,
		assets: DefaultCatalog,
	}
}

// Seed ensures every catalog asset exists in the database.
// Existing assets are left untouched, so Seed can run on every start.
func (s *CatalogSeeder) Seed(ctx context.Context) error {
	for _, entry := range s.assets {
		_, err := s.repo.GetByTicker(ctx, entry.Ticker)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to look up asset %s: %w", entry.Ticker, err)
		}

		asset := entry
		if err := asset.Validate(); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, &asset); err != nil {
			return err
		}
	}

	return nil
}
