package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/pokemarket/internal/models"
	"github.com/codyseavey/pokemarket/internal/services"
)

type GameHandler struct {
	store *services.GameStore
}

func NewGameHandler(store *services.GameStore) *GameHandler {
	return &GameHandler{store: store}
}

// GetState returns the full snapshot
func (h *GameHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.State())
}

func (h *GameHandler) ClaimFreeTokens(c *gin.Context) {
	tokens, err := h.store.ClaimFreeTokens(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

func (h *GameHandler) ToggleTheme(c *gin.Context) {
	theme, err := h.store.ToggleTheme(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

// Battle fights with the current squad
func (h *GameHandler) Battle(c *gin.Context) {
	result, err := h.store.Battle(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RecordBattleWin credits a battle fought outside the server
func (h *GameHandler) RecordBattleWin(c *gin.Context) {
	var req models.BattleWinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.store.RecordBattleWin(c.Request.Context(), req.Reward)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

func (h *GameHandler) GetMissions(c *gin.Context) {
	st := h.store.State()
	c.JSON(http.StatusOK, gin.H{
		"day":      st.MissionDay,
		"missions": st.DailyMissions,
	})
}

func (h *GameHandler) GetAchievements(c *gin.Context) {
	c.JSON(http.StatusOK, services.AchievementStatus(h.store.State()))
}

func (h *GameHandler) GetTransactions(c *gin.Context) {
	st := h.store.State()
	c.JSON(http.StatusOK, gin.H{
		"transactions":    st.TransactionHistory,
		"balance_history": st.BalanceHistory,
	})
}
