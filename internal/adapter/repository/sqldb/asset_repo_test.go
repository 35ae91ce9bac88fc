package sqldb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
)

func TestAssetRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAssetRepository(newTestDB(t))

	assets := []*domain.Asset{
		{Ticker: "MSFT", Name: "Microsoft Corporation", Category: domain.CategoryStocks},
		{Ticker: "btc-usd", Name: "Bitcoin", Category: domain.CategoryCrypto},
		{Ticker: "AAPL", Name: "Apple Inc.", Category: domain.CategoryStocks},
	}
	for _, a := range assets {
		require.NoError(t, repo.Create(ctx, a))
	}

	t.Run("get by ticker is case insensitive", func(t *testing.T) {
		got, err := repo.GetByTicker(ctx, "btc-usd")
		require.NoError(t, err)
		assert.Equal(t, "BTC-USD", got.Ticker)
		assert.Equal(t, domain.CategoryCrypto, got.Category)
	})

	t.Run("unknown ticker", func(t *testing.T) {
		_, err := repo.GetByTicker(ctx, "ZZZZ")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("list by category", func(t *testing.T) {
		got, err := repo.List(ctx, domain.CategoryStocks)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "AAPL", got[0].Ticker)
		assert.Equal(t, "MSFT", got[1].Ticker)
	})

	t.Run("list all", func(t *testing.T) {
		got, err := repo.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("duplicate ticker", func(t *testing.T) {
		err := repo.Create(ctx, &domain.Asset{Ticker: "AAPL", Name: "Apple", Category: domain.CategoryStocks})
		assert.Error(t, err)
	})
}
