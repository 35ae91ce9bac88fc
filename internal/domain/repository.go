package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SimulationRepository defines the interface for saved simulation persistence operations
type SimulationRepository interface {
	// Create persists a new saved simulation together with its daily updates
	Create(ctx context.Context, sim *SavedSimulation) error

	// GetByID retrieves a saved simulation and its daily updates.
	// Returns an error wrapping ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*SavedSimulation, error)

	// ListByUser retrieves the simulations owned by a user, newest first.
	// Daily updates are not loaded.
	ListByUser(ctx context.Context, userID string) ([]*SavedSimulation, error)

	// ListDaily retrieves all open-ended simulations tracked at the given frequency
	ListDaily(ctx context.Context, frequency NotificationFrequency) ([]*SavedSimulation, error)

	// RecordDailyUpdate stores the refreshed results of sim and appends update
	// to its history atomically
	RecordDailyUpdate(ctx context.Context, sim *SavedSimulation, update DailyUpdate) error

	// Delete removes a saved simulation and its history
	Delete(ctx context.Context, id uuid.UUID) error
}

// AssetRepository defines the interface for the asset catalog
type AssetRepository interface {
	// GetByTicker retrieves an asset by its ticker
	GetByTicker(ctx context.Context, ticker string) (*Asset, error)

	// Create adds an asset to the catalog
	Create(ctx context.Context, asset *Asset) error

	// List retrieves catalog assets, optionally filtered by category.
	// If category is empty, returns all assets
	List(ctx context.Context, category AssetCategory) ([]*Asset, error)
}

// PriceProvider is the market-data collaborator
type PriceProvider interface {
	// GetPrices returns the daily closing prices of ticker between from and to
	// (inclusive). Unknown tickers fail with an error wrapping ErrNotFound.
	GetPrices(ctx context.Context, ticker string, from, to time.Time) (*AssetPriceSeries, error)
}
