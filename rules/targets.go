package rules

import (
	"math"

	"github.com/chaosmonkeys/vanguard/model"
)

// UpdateTargets recomputes enemy-base assignments: per own base by direct
// distance, and per attack-role tank by wrap-aware shortest distance (the
// tank will actually drive there, so the metric matches how goto moves).
// With no enemy bases on the map both maps come out empty and movement
// falls through to its lower-priority behaviors.
func UpdateTargets(env Env) {
	enemyBases := env.EnemyBases()

	baseTargets := make(map[string]model.Base)
	for _, b := range env.Own().Bases {
		if t := nearestBaseTo(b.Position(), enemyBases); t != nil {
			baseTargets[b.UID()] = t
		}
	}
	env.State.BaseTargets = baseTargets

	unitTargets := make(map[string]model.Base)
	for _, v := range env.Own().Tanks {
		ov, ok := v.(model.OwnedVehicle)
		if !ok {
			continue
		}
		r, ok := env.State.Rosters[v.OwnerUID()]
		if !ok || !r.AttackTanks[v.UID()] {
			continue
		}
		var best model.Base
		bestDist := math.MaxFloat64
		for _, eb := range enemyBases {
			p := eb.Position()
			if d := ov.Distance(p.X, p.Y, true); d < bestDist {
				bestDist = d
				best = eb
			}
		}
		if best != nil {
			unitTargets[v.UID()] = best
		}
	}
	env.State.UnitTargets = unitTargets
}

// NearestEnemyShip returns the enemy ship closest to the base, but only
// when it is within radius; jets use this to decide whether an intercept
// is worth leaving home for.
func NearestEnemyShip(env Env, base model.Base, radius float64) (model.Vehicle, bool) {
	var best model.Vehicle
	bestDist := math.MaxFloat64
	for _, s := range env.EnemyShips() {
		if d := base.Position().DistanceTo(s.Position()); d < bestDist {
			bestDist = d
			best = s
		}
	}
	if best == nil || bestDist >= radius {
		return nil, false
	}
	return best, true
}

func nearestBaseTo(p model.Position, bases []model.Base) model.Base {
	var best model.Base
	bestDist := math.MaxFloat64
	for _, b := range bases {
		if d := p.DistanceTo(b.Position()); d < bestDist {
			bestDist = d
			best = b
		}
	}
	return best
}
