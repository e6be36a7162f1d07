// Package rules contains the agent's per-tick decision logic: the staged
// production planner, threat detection, target assignment and the per-type
// movement controllers. Everything here operates on the read-only snapshot
// plus the agent's private State and issues commands only through the owned
// capability interfaces.
package rules

import (
	"math/rand"

	"github.com/chaosmonkeys/vanguard/config"
	"github.com/chaosmonkeys/vanguard/model"
)

// Env bundles everything a decision function needs for one tick. It is
// rebuilt each tick around the same long-lived State.
type Env struct {
	Team    string
	Snap    model.Snapshot
	Terrain *model.TerrainGrid
	State   *State
	Cfg     config.Config
	Rand    *rand.Rand
}

// Own returns our team's roster for this tick.
func (e Env) Own() model.Roster {
	return e.Snap[e.Team]
}

// OwnBase returns our live base with the given uid, or nil.
func (e Env) OwnBase(uid string) model.Base {
	for _, b := range e.Own().Bases {
		if b.UID() == uid {
			return b
		}
	}
	return nil
}

// EnemyBases returns every base not belonging to us, in the team iteration
// order of the snapshot.
func (e Env) EnemyBases() []model.Base {
	var out []model.Base
	for team, roster := range e.Snap {
		if team == e.Team {
			continue
		}
		out = append(out, roster.Bases...)
	}
	return out
}

// EnemyVehicles returns every tank, ship and jet not belonging to us.
func (e Env) EnemyVehicles() []model.Vehicle {
	var out []model.Vehicle
	for team, roster := range e.Snap {
		if team == e.Team {
			continue
		}
		out = append(out, roster.Vehicles()...)
	}
	return out
}

// EnemyShips returns every ship not belonging to us.
func (e Env) EnemyShips() []model.Vehicle {
	var out []model.Vehicle
	for team, roster := range e.Snap {
		if team == e.Team {
			continue
		}
		out = append(out, roster.Ships...)
	}
	return out
}

// AllBases returns every base on the map, ours included.
func (e Env) AllBases() []model.Base {
	var out []model.Base
	for _, roster := range e.Snap {
		out = append(out, roster.Bases...)
	}
	return out
}

// randHeading draws a uniform heading in [0, 360).
func randHeading(rng *rand.Rand) float64 {
	return rng.Float64() * 360
}
