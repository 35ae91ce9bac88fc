package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
)

// MockAssetRepository is a mock implementation of AssetRepository
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) GetByTicker(ctx context.Context, ticker string) (*domain.Asset, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) List(ctx context.Context, category domain.AssetCategory) ([]*domain.Asset, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Asset), args.Error(1)
}

func TestListAssets(t *testing.T) {
	ctx := context.Background()
	crypto := []*domain.Asset{
		{Ticker: "BTC-USD", Name: "Bitcoin", Category: domain.CategoryCrypto},
		{Ticker: "ETH-USD", Name: "Ethereum", Category: domain.CategoryCrypto},
	}

	t.Run("filtered by category", func(t *testing.T) {
		mockRepo := new(MockAssetRepository)
		service := NewCatalogService(mockRepo)
		mockRepo.On("List", ctx, domain.CategoryCrypto).Return(crypto, nil)

		got, err := service.ListAssets(ctx, domain.CategoryCrypto)

		require.NoError(t, err)
		assert.Equal(t, crypto, got)
	})

	t.Run("empty category lists everything", func(t *testing.T) {
		mockRepo := new(MockAssetRepository)
		service := NewCatalogService(mockRepo)
		mockRepo.On("List", ctx, domain.AssetCategory("")).Return(crypto, nil)

		got, err := service.ListAssets(ctx, "")

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("unknown category", func(t *testing.T) {
		mockRepo := new(MockAssetRepository)
		service := NewCatalogService(mockRepo)

		_, err := service.ListAssets(ctx, "bonds")

		assert.True(t, errors.Is(err, domain.ErrInvalidCategory))
		mockRepo.AssertNotCalled(t, "List")
	})
}
