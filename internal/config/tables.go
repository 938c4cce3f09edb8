package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/codyseavey/pokemarket/internal/models"
)

// LoadTables returns the default tables with the YAML file at path merged on top.
// An empty path or a missing file yields the defaults.
func LoadTables(path string) (models.Tables, error) {
	tables := models.DefaultTables()
	if path == "" {
		return tables, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return tables, nil
		}
		return models.Tables{}, fmt.Errorf("failed to read rarity table %s: %w", path, err)
	}

	var override models.Tables
	if err := yaml.Unmarshal(b, &override); err != nil {
		return models.Tables{}, fmt.Errorf("failed to parse rarity table %s: %w", path, err)
	}

	merged := mergeTables(tables, override)
	if err := merged.Validate(); err != nil {
		return models.Tables{}, fmt.Errorf("invalid rarity table %s: %w", path, err)
	}
	return merged, nil
}

// mergeTables performs a shallow merge: 'b' overrides 'a' where non-zero/non-nil.
// Draw tables are replaced as a whole; map entries are replaced per key.
func mergeTables(a, b models.Tables) models.Tables {
	out := a
	out.PackCosts = make(map[models.PackType]int, len(a.PackCosts))
	for k, v := range a.PackCosts {
		out.PackCosts[k] = v
	}
	for k, v := range b.PackCosts {
		out.PackCosts[k] = v
	}

	out.Rarities = make(map[models.Rarity]models.RarityConfig, len(a.Rarities))
	for k, v := range a.Rarities {
		out.Rarities[k] = v
	}
	for k, v := range b.Rarities {
		cur := out.Rarities[k]
		if len(v.PossibleValues) > 0 {
			cur.PossibleValues = v.PossibleValues
		}
		if v.PowerMultiplier > 0 {
			cur.PowerMultiplier = v.PowerMultiplier
		}
		out.Rarities[k] = cur
	}

	out.EvolutionCosts = make(map[models.Rarity]int, len(a.EvolutionCosts))
	for k, v := range a.EvolutionCosts {
		out.EvolutionCosts[k] = v
	}
	for k, v := range b.EvolutionCosts {
		out.EvolutionCosts[k] = v
	}

	if len(b.StandardDraw) > 0 {
		out.StandardDraw = b.StandardDraw
	}
	if len(b.GuaranteedDraw) > 0 {
		out.GuaranteedDraw = b.GuaranteedDraw
	}
	if b.GuaranteedBase != "" {
		out.GuaranteedBase = b.GuaranteedBase
	}
	return out
}
