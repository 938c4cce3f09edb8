package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/pokemarket/internal/models"
	"github.com/codyseavey/pokemarket/internal/services"
)

type ShopHandler struct {
	store *services.GameStore
}

func NewShopHandler(store *services.GameStore) *ShopHandler {
	return &ShopHandler{store: store}
}

// GetPacks lists the pack prices and drop tables
func (h *ShopHandler) GetPacks(c *gin.Context) {
	tables := h.store.Tables()
	c.JSON(http.StatusOK, gin.H{
		"pack_costs":       tables.PackCosts,
		"standard_draw":    tables.StandardDraw,
		"guaranteed_draw":  tables.GuaranteedDraw,
		"guaranteed_base":  tables.GuaranteedBase,
		"rarities":         tables.Rarities,
		"evolution_costs":  tables.EvolutionCosts,
		"max_quantity":     models.MaxPackQuantity,
		"free_token_grant": models.FreeTokensAmount,
	})
}

func (h *ShopHandler) PurchasePack(c *gin.Context) {
	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cards, err := h.store.PurchasePack(c.Request.Context(), req.PackType, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cards":     cards,
		"requested": req.Quantity,
		"tokens":    h.store.State().Tokens,
	})
}
