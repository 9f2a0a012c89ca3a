package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"stonks-api/internal/dto"
	"stonks-api/internal/fetch"
)

// MarketHandler serves raw market data: price history and live quotes.
type MarketHandler struct {
	service *fetch.Service
	deps    *Deps
}

func NewMarketHandler(service *fetch.Service, deps *Deps) *MarketHandler {
	return &MarketHandler{service: service, deps: deps}
}

// GetHistory returns the daily close history for one asset.
// GET /api/v1/:type/:ticker/history?period=1y
func (h *MarketHandler) GetHistory(c *gin.Context) {
	asset, err := dto.ParseAsset(c.Param("type"), c.Param("ticker"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	period := c.DefaultQuery("period", "1y")
	if !fetch.ValidPeriod(period) {
		respondError(c, http.StatusBadRequest, "invalid period "+period)
		return
	}

	history, err := h.service.FetchHistory(c.Request.Context(), asset, period)
	if err != nil {
		h.deps.Logger.WithError(err).WithField("asset", asset.ID()).Error("History fetch failed")
		respondError(c, http.StatusBadGateway, err.Error())
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetQuote returns the latest price snapshot for one asset.
// GET /api/v1/:type/:ticker/quote
func (h *MarketHandler) GetQuote(c *gin.Context) {
	asset, err := dto.ParseAsset(c.Param("type"), c.Param("ticker"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	key := "quote:" + asset.ID() + ":v1"
	h.deps.serveCached(c, "quote", key, h.deps.TTL.QuoteTTL, func(ctx context.Context) (interface{}, error) {
		return h.service.GetQuote(ctx, asset)
	})
}
