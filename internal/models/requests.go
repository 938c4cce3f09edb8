package models

// PurchaseRequest is the body of a pack purchase
type PurchaseRequest struct {
	PackType PackType `json:"pack_type" binding:"required"`
	Quantity int      `json:"quantity"`
}

// StartAuctionRequest is the body of an auction listing
type StartAuctionRequest struct {
	DurationSec int `json:"duration_sec"`
}

// BattleWinRequest credits an externally simulated battle
type BattleWinRequest struct {
	Reward int `json:"reward" binding:"required"`
}
