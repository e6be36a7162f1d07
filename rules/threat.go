package rules

import (
	"math"

	"github.com/chaosmonkeys/vanguard/model"
)

// UpdateThreats recomputes the under-attack map: for each own base, the
// position of the nearest enemy vehicle when that vehicle is strictly
// inside the alert radius. Distance is direct euclidean; a threat that has
// to cross the map seam is someone else's problem until it shows up on
// this side. Ties keep the first minimal enemy in iteration order.
func UpdateThreats(env Env) {
	threats := make(map[string]model.Position)
	enemies := env.EnemyVehicles()
	for _, b := range env.Own().Bases {
		best := math.MaxFloat64
		var bestPos model.Position
		for _, v := range enemies {
			if d := b.Position().DistanceTo(v.Position()); d < best {
				best = d
				bestPos = v.Position()
			}
		}
		if best < env.Cfg.AlertRadius {
			threats[b.UID()] = bestPos
		}
	}
	env.State.Threats = threats
}
