package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/pokemarket/internal/models"
	"github.com/codyseavey/pokemarket/internal/services"
)

type CollectionHandler struct {
	store           *services.GameStore
	snapshotService *services.SnapshotService
}

func NewCollectionHandler(store *services.GameStore, snapshot *services.SnapshotService) *CollectionHandler {
	return &CollectionHandler{
		store:           store,
		snapshotService: snapshot,
	}
}

// GetCollection lists owned cards with optional rarity, type, search and favourite filters
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	filter := services.CollectionFilter{
		Rarity: models.Rarity(c.Query("rarity")),
		Type:   c.Query("type"),
		Search: c.Query("q"),
		Sort:   services.CollectionSort(c.DefaultQuery("sort", string(services.SortNewest))),
	}
	if filter.Rarity != "" && !filter.Rarity.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown rarity"})
		return
	}
	filter.FavoritesOnly, _ = strconv.ParseBool(c.Query("favorites"))
	filter.Ascending = c.Query("order") == "asc"

	cards := services.QueryCollection(h.store.State().Collection, filter)
	c.JSON(http.StatusOK, models.CardSearchResult{
		Cards:      cards,
		TotalCount: len(cards),
	})
}

func (h *CollectionHandler) GetDeck(c *gin.Context) {
	squad := h.store.State().DeckCards()
	c.JSON(http.StatusOK, gin.H{
		"cards":    squad,
		"power":    h.store.BattleSimulator().SquadPower(squad),
		"max_size": models.MaxDeckSize,
	})
}

func (h *CollectionHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, services.ComputeStats(h.store.State(), h.store.BattleSimulator()))
}

func (h *CollectionHandler) SellCard(c *gin.Context) {
	card, err := h.store.Sell(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sold": card, "amount": card.ResaleValue})
}

func (h *CollectionHandler) ToggleFavorite(c *gin.Context) {
	favorite, err := h.store.ToggleFavorite(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_favorite": favorite})
}

func (h *CollectionHandler) ToggleDeck(c *gin.Context) {
	inDeck, err := h.store.ToggleDeck(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"in_deck": inDeck})
}

func (h *CollectionHandler) EvolveCard(c *gin.Context) {
	card, err := h.store.Evolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// GetValueHistory returns daily portfolio snapshots for the requested period
func (h *CollectionHandler) GetValueHistory(c *gin.Context) {
	if h.snapshotService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "value history is not available"})
		return
	}
	period := c.DefaultQuery("period", "month")

	snapshots, err := h.snapshotService.GetHistory(c.Request.Context(), period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.ValueHistoryResponse{
		Snapshots: snapshots,
		Period:    period,
	})
}

// TakeSnapshot records today's portfolio snapshot now
func (h *CollectionHandler) TakeSnapshot(c *gin.Context) {
	if h.snapshotService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "value history is not available"})
		return
	}
	if err := h.snapshotService.TakeSnapshot(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.snapshotService.GetLastSnapshot(c.Request.Context()))
}
