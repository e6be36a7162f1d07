// Package config holds the agent's strategy configuration: radii, patrol
// bands, the staged build order and the fallback production rotation. All
// numbers here are tunables, not engine rules; the compiled-in defaults are
// the tournament values and a YAML file can override them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Build categories used by stages and the fallback rotation.
const (
	CategoryMines        = "mines"
	CategoryDefenseTanks = "tanks_def"
	CategoryAttackTanks  = "tanks_att"
	CategoryShips        = "ships"
	CategoryJets         = "jets"
)

// Stage is one entry of the ordered build progression. The planner scans
// stages in declaration order and picks the first whose count is below
// Threshold. SkipIf is an optional expr guard evaluated against the base's
// current counts; when it yields true the stage is passed over.
type Stage struct {
	Category  string `yaml:"category"`
	Threshold int    `yaml:"threshold"`
	SkipIf    string `yaml:"skip_if,omitempty"`
}

// Config is the full strategy configuration for one agent.
type Config struct {
	// AlertRadius flags a base as under attack when the nearest enemy
	// vehicle is strictly closer than this.
	AlertRadius float64 `yaml:"alert_radius"`
	// InterceptRadius is how far from a base its jets will chase enemy ships.
	InterceptRadius float64 `yaml:"intercept_radius"`
	// ConvertSafeRadius: a stuck ship only converts to a base when every
	// base of every team is farther away than this.
	ConvertSafeRadius float64 `yaml:"convert_safe_radius"`

	// TankPatrol is the distance band around the owning base inside which a
	// defense tank reverses direction.
	TankPatrol Band `yaml:"tank_patrol"`
	// JetPatrol is the band of own-base distances a patrolling jet homes on.
	JetPatrol Band `yaml:"jet_patrol"`
	// JetJitterDeg is the half-width of the random heading jitter applied
	// while a jet patrols.
	JetJitterDeg float64 `yaml:"jet_jitter_deg"`

	Stages   []Stage  `yaml:"stages"`
	Rotation []string `yaml:"rotation"`
}

// Band is an open interval (Min, Max) of distances.
type Band struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Inside reports whether d lies strictly inside the band.
func (b Band) Inside(d float64) bool {
	return b.Min < d && d < b.Max
}

// Default returns the built-in strategy. The stage table front-loads
// economy and defense, takes to the water once the home island is held,
// and only then invests in air.
func Default() Config {
	return Config{
		AlertRadius:       100,
		InterceptRadius:   300,
		ConvertSafeRadius: 60,
		TankPatrol:        Band{Min: 40, Max: 50},
		JetPatrol:         Band{Min: 100, Max: 110},
		JetJitterDeg:      30,
		Stages: []Stage{
			{Category: CategoryMines, Threshold: 2},
			{Category: CategoryDefenseTanks, Threshold: 8},
			{Category: CategoryMines, Threshold: 3},
			{Category: CategoryShips, Threshold: 1},
			{Category: CategoryDefenseTanks, Threshold: 9},
			{Category: CategoryAttackTanks, Threshold: 2},
			{Category: CategoryShips, Threshold: 2},
			{Category: CategoryJets, Threshold: 1},
			// No point stockpiling a third ship before any air cover exists.
			{Category: CategoryShips, Threshold: 3, SkipIf: "Ships >= 2 && JetsBuilt == 0"},
			{Category: CategoryDefenseTanks, Threshold: 10},
			{Category: CategoryJets, Threshold: 2},
			{Category: CategoryAttackTanks, Threshold: 5},
		},
		Rotation: []string{
			CategoryDefenseTanks,
			CategoryJets,
			CategoryAttackTanks,
			CategoryShips,
		},
	}
}

// Load reads a YAML strategy file over the defaults: fields present in the
// file replace the default values, absent fields keep them.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read strategy config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse strategy config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid strategy config %s: %w", path, err)
	}
	return cfg, nil
}

var knownCategories = map[string]bool{
	CategoryMines:        true,
	CategoryDefenseTanks: true,
	CategoryAttackTanks:  true,
	CategoryShips:        true,
	CategoryJets:         true,
}

// Validate checks structural soundness. Guard expressions are compiled by
// the planner, not here, so a Config can be validated without pulling in
// the expression engine.
func (c Config) Validate() error {
	if c.AlertRadius <= 0 {
		return fmt.Errorf("alert_radius must be positive, got %v", c.AlertRadius)
	}
	if c.InterceptRadius <= 0 {
		return fmt.Errorf("intercept_radius must be positive, got %v", c.InterceptRadius)
	}
	if c.ConvertSafeRadius <= 0 {
		return fmt.Errorf("convert_safe_radius must be positive, got %v", c.ConvertSafeRadius)
	}
	for _, b := range []struct {
		name string
		band Band
	}{{"tank_patrol", c.TankPatrol}, {"jet_patrol", c.JetPatrol}} {
		if b.band.Min < 0 || b.band.Max <= b.band.Min {
			return fmt.Errorf("%s band (%v, %v) is not an ordered interval", b.name, b.band.Min, b.band.Max)
		}
	}
	for i, s := range c.Stages {
		if !knownCategories[s.Category] {
			return fmt.Errorf("stage %d: unknown category %q", i, s.Category)
		}
		if s.Threshold <= 0 {
			return fmt.Errorf("stage %d (%s): threshold must be positive, got %d", i, s.Category, s.Threshold)
		}
	}
	if len(c.Rotation) == 0 {
		return fmt.Errorf("rotation must not be empty")
	}
	for i, cat := range c.Rotation {
		if !knownCategories[cat] || cat == CategoryMines {
			return fmt.Errorf("rotation entry %d: %q is not a buildable vehicle category", i, cat)
		}
	}
	return nil
}
