package services

import (
	"fmt"
	"math"

	"github.com/codyseavey/pokemarket/internal/models"
)

const (
	battleRounds        = 5
	battleStartHealth   = 100
	enemyPowerMin       = 150
	enemyPowerSpread    = 200
	battleBaseReward    = 15
	battleRewardDivisor = 50
)

// BattleRound is one exchange of strikes
type BattleRound struct {
	Round        int `json:"round"`
	PlayerStrike int `json:"player_strike"`
	EnemyStrike  int `json:"enemy_strike"`
	PlayerHealth int `json:"player_health"`
	EnemyHealth  int `json:"enemy_health"`
}

// BattleResult is the outcome of one fight
type BattleResult struct {
	Won        bool          `json:"won"`
	SquadPower int           `json:"squad_power"`
	EnemyPower float64       `json:"enemy_power"`
	Reward     int           `json:"reward"`
	Rounds     []BattleRound `json:"rounds"`
	Log        []string      `json:"log"`
}

// BattleSimulator fights a squad against a random opponent
type BattleSimulator struct {
	rng    RandomSource
	tables models.Tables
}

func NewBattleSimulator(rng RandomSource, tables models.Tables) *BattleSimulator {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &BattleSimulator{rng: rng, tables: tables}
}

// SquadPower sums floor(resale value × rarity multiplier) over the squad.
func (b *BattleSimulator) SquadPower(squad []models.Card) int {
	total := 0
	for _, c := range squad {
		total += int(math.Floor(float64(c.ResaleValue) * b.tables.PowerMultiplier(c.Rarity)))
	}
	return total
}

// Fight runs up to five rounds. The player wins when left with more health than the opponent.
func (b *BattleSimulator) Fight(squad []models.Card) (BattleResult, error) {
	if len(squad) == 0 {
		return BattleResult{}, ErrEmptySquad
	}

	power := b.SquadPower(squad)
	enemy := enemyPowerMin + enemyPowerSpread*b.rng.Float64()
	result := BattleResult{SquadPower: power, EnemyPower: enemy}
	result.Log = append(result.Log, fmt.Sprintf("Your squad (%d power) faces a wild opponent (%.0f power)", power, enemy))

	playerHealth, enemyHealth := battleStartHealth, battleStartHealth
	for round := 1; round <= battleRounds && playerHealth > 0 && enemyHealth > 0; round++ {
		playerStrike := b.strike(float64(power))
		enemyStrike := b.strike(enemy)
		enemyHealth = max(0, enemyHealth-playerStrike)
		playerHealth = max(0, playerHealth-enemyStrike)

		result.Rounds = append(result.Rounds, BattleRound{
			Round:        round,
			PlayerStrike: playerStrike,
			EnemyStrike:  enemyStrike,
			PlayerHealth: playerHealth,
			EnemyHealth:  enemyHealth,
		})
		result.Log = append(result.Log, fmt.Sprintf("Round %d: you deal %d, take %d (%d vs %d HP)",
			round, playerStrike, enemyStrike, playerHealth, enemyHealth))
	}

	result.Won = playerHealth > enemyHealth
	if result.Won {
		result.Reward = battleBaseReward + power/battleRewardDivisor
		result.Log = append(result.Log, fmt.Sprintf("Victory! +%d tokens", result.Reward))
	} else {
		result.Log = append(result.Log, "Defeat!")
	}
	return result, nil
}

// strike is floor(power/10 × U[0.8, 1.2))
func (b *BattleSimulator) strike(power float64) int {
	return int(math.Floor(power / 10 * (0.8 + 0.4*b.rng.Float64())))
}
