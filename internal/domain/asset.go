package domain

import "errors"

// AssetCategory groups assets the way the exploration screens present them
type AssetCategory string

const (
	CategoryStocks  AssetCategory = "stocks"
	CategoryIndices AssetCategory = "indices"
	CategoryCrypto  AssetCategory = "crypto"
)

// Valid reports whether c is one of the known categories
func (c AssetCategory) Valid() bool {
	switch c {
	case CategoryStocks, CategoryIndices, CategoryCrypto:
		return true
	}
	return false
}

// Asset is an entry of the explorable asset catalog
type Asset struct {
	Ticker   string
	Name     string
	Category AssetCategory
}

// Validate ensures the asset adheres to domain rules
func (a *Asset) Validate() error {
	if NormalizeTicker(a.Ticker) == "" {
		return errors.New("asset ticker cannot be empty")
	}
	if a.Name == "" {
		return errors.New("asset name cannot be empty")
	}
	if !a.Category.Valid() {
		return errors.New("asset category must be stocks, indices or crypto")
	}
	return nil
}
