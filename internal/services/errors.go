package services

import "errors"

var (
	ErrInsufficientFunds = errors.New("insufficient tokens")
	ErrCardNotFound      = errors.New("card not found in collection")
	ErrDeckFull          = errors.New("squad is full")
	ErrTerminalRarity    = errors.New("card has reached its final evolution stage")
	ErrNoEvolution       = errors.New("no known evolution for this species")
	ErrPackFailed        = errors.New("no card could be generated from the pack")
	ErrInvalidPackType   = errors.New("invalid pack type")
	ErrInvalidQuantity   = errors.New("invalid pack quantity")
	ErrInvalidDuration   = errors.New("invalid auction duration")
	ErrNotAuctionable    = errors.New("card value too low to be auctioned")
	ErrEmptySquad        = errors.New("squad is empty")
	ErrInvalidReward     = errors.New("battle reward must be positive")
)
