package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/pokemarket/internal/models"
	"github.com/codyseavey/pokemarket/internal/services"
)

type AuctionHandler struct {
	store        *services.GameStore
	marketWorker *services.MarketWorker
}

func NewAuctionHandler(store *services.GameStore, marketWorker *services.MarketWorker) *AuctionHandler {
	return &AuctionHandler{
		store:        store,
		marketWorker: marketWorker,
	}
}

func (h *AuctionHandler) GetAuctions(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.State().ActiveAuctions)
}

// StartAuction lists a card. The body is optional; the duration defaults to a minute.
func (h *AuctionHandler) StartAuction(c *gin.Context) {
	var req models.StartAuctionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	auction, err := h.store.StartAuction(c.Request.Context(), c.Param("id"), req.DurationSec)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, auction)
}

func (h *AuctionHandler) GetMarketStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.marketWorker.GetStatus())
}
