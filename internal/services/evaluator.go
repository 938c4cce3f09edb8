package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/codyseavey/pokemarket/internal/models"
)

// ResetMissionsIfNewDay restarts the daily missions when the calendar day has changed.
func ResetMissionsIfNewDay(st *models.GameState, now time.Time) bool {
	day := models.MissionDayKey(now)
	if st.MissionDay == day && len(st.DailyMissions) > 0 {
		return false
	}
	st.DailyMissions = models.DefaultDailyMissions()
	st.MissionDay = day
	return true
}

// AdvanceMissions adds units of progress to every open mission of the given type. Missions that
// reach their goal are completed once and their reward is credited to st in the same transition.
func AdvanceMissions(st *models.GameState, missionType models.MissionType, units int, now time.Time) []models.DailyMission {
	if units <= 0 {
		return nil
	}

	var completed []models.DailyMission
	for i := range st.DailyMissions {
		m := &st.DailyMissions[i]
		if m.Type != missionType || m.IsCompleted {
			continue
		}
		m.Progress = min(m.Goal, m.Progress+units)
		if m.Progress < m.Goal {
			continue
		}
		m.IsCompleted = true
		st.Tokens += m.Reward
		st.TotalEarned += m.Reward
		st.RecordTransaction(models.Transaction{
			ID:        uuid.New().String(),
			Type:      models.TransactionMissionReward,
			CardName:  m.Title,
			Amount:    m.Reward,
			Timestamp: now,
		})
		completed = append(completed, *m)
	}
	return completed
}

// EvaluateAchievements unlocks every achievement whose predicate holds on st and that is not yet
// unlocked. Unlocked achievements are never re-evaluated or revoked.
func EvaluateAchievements(st *models.GameState) []models.Achievement {
	var unlocked []models.Achievement
	for _, a := range models.AllAchievements() {
		if st.HasAchievement(a.ID) || !achievementReached(st, a.ID) {
			continue
		}
		st.UnlockedAchievements = append(st.UnlockedAchievements, a.ID)
		a.Unlocked = true
		unlocked = append(unlocked, a)
	}
	return unlocked
}

func achievementReached(st *models.GameState, id string) bool {
	switch id {
	case models.AchievementFirstCard:
		return len(st.Collection) >= 1
	case models.AchievementCollector10:
		return len(st.Collection) >= 10
	case models.AchievementShinyHunter:
		for _, c := range st.Collection {
			if c.IsShiny {
				return true
			}
		}
		return false
	case models.AchievementTycoon:
		return st.TotalEarned >= models.TycoonEarnings
	case models.AchievementFireMaster:
		count := 0
		for _, c := range st.Collection {
			if c.HasType(models.FireMasterType) {
				count++
			}
		}
		return count >= 3
	case models.AchievementBattleMaster:
		return st.BattlesWon >= 1
	default:
		return false
	}
}

// AchievementStatus lists every achievement with its unlocked flag for display
func AchievementStatus(st *models.GameState) []models.Achievement {
	all := models.AllAchievements()
	for i := range all {
		all[i].Unlocked = st.HasAchievement(all[i].ID)
	}
	return all
}
