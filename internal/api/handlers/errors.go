package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/pokemarket/internal/services"
)

// statusFor maps a game rejection to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrCardNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDeckFull),
		errors.Is(err, services.ErrTerminalRarity),
		errors.Is(err, services.ErrNotAuctionable),
		errors.Is(err, services.ErrEmptySquad):
		return http.StatusConflict
	case errors.Is(err, services.ErrNoEvolution),
		errors.Is(err, services.ErrPackFailed):
		return http.StatusFailedDependency
	case errors.Is(err, services.ErrInvalidPackType),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidDuration),
		errors.Is(err, services.ErrInvalidReward):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
