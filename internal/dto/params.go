package dto

import (
	"fmt"
	"strings"

	"stonks-api/internal/models"
)

// ParseAsset builds and validates an AssetRef from path parameters.
// Asset types are case-insensitive; tickers keep their original case
// because providers resolve them themselves.
func ParseAsset(assetType, ticker string) (models.AssetRef, error) {
	asset := models.AssetRef{
		Type:   strings.ToLower(strings.TrimSpace(assetType)),
		Ticker: strings.TrimSpace(ticker),
	}
	if err := validate.Struct(asset); err != nil {
		return models.AssetRef{}, fmt.Errorf("invalid asset %s:%s: %w", assetType, ticker, err)
	}
	return asset, nil
}
