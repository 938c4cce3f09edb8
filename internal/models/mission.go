package models

import (
	"time"
)

// MissionType tags which operation advances a mission
type MissionType string

const (
	MissionBuy    MissionType = "buy"
	MissionSell   MissionType = "sell"
	MissionEvolve MissionType = "evolve"
	MissionBattle MissionType = "battle"
)

// DailyMission is a progress counter that pays Reward once when Progress reaches Goal.
type DailyMission struct {
	ID          string      `json:"id"`
	Type        MissionType `json:"type"`
	Title       string      `json:"title"`
	Goal        int         `json:"goal"`
	Progress    int         `json:"progress"`
	Reward      int         `json:"reward"`
	IsCompleted bool        `json:"is_completed"`
}

// DefaultDailyMissions returns the fresh set of missions for a new day
func DefaultDailyMissions() []DailyMission {
	return []DailyMission{
		{ID: "daily_buy", Type: MissionBuy, Title: "Open 5 cards", Goal: 5, Reward: 15},
		{ID: "daily_sell", Type: MissionSell, Title: "Sell 3 cards", Goal: 3, Reward: 10},
		{ID: "daily_evolve", Type: MissionEvolve, Title: "Evolve 2 cards", Goal: 2, Reward: 20},
		{ID: "daily_battle", Type: MissionBattle, Title: "Win 3 battles", Goal: 3, Reward: 25},
	}
}

// MissionDayKey returns the local calendar day missions are tracked against
func MissionDayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Achievement identifiers
const (
	AchievementFirstCard    = "first_card"
	AchievementCollector10  = "collector_10"
	AchievementShinyHunter  = "shiny_hunter"
	AchievementTycoon       = "tycoon"
	AchievementFireMaster   = "fire_master"
	AchievementBattleMaster = "battle_master"
)

const (
	// TycoonEarnings is the lifetime earnings threshold of the tycoon achievement
	TycoonEarnings = 500
	// FireMasterType is the elemental type counted by the fire_master achievement
	FireMasterType = "fire"
)

// Achievement describes an unlockable badge
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// AllAchievements returns every achievement in display order
func AllAchievements() []Achievement {
	return []Achievement{
		{ID: AchievementFirstCard, Title: "First Card", Description: "Own your first card"},
		{ID: AchievementCollector10, Title: "Collector", Description: "Own 10 different cards"},
		{ID: AchievementShinyHunter, Title: "Shiny Hunter", Description: "Own a shiny card"},
		{ID: AchievementTycoon, Title: "Tycoon", Description: "Earn 500 tokens in total"},
		{ID: AchievementFireMaster, Title: "Fire Master", Description: "Own 3 fire-type cards"},
		{ID: AchievementBattleMaster, Title: "Battle Master", Description: "Win a battle"},
	}
}

// AchievementByID looks up an achievement definition
func AchievementByID(id string) (Achievement, bool) {
	for _, a := range AllAchievements() {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
