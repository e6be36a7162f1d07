package rules

import (
	"log/slog"
	"math"

	"github.com/chaosmonkeys/vanguard/model"
)

// Steer runs the per-type movement controllers over every own vehicle and
// then refreshes the position cache. Controllers only ever issue commands;
// the effects land in next tick's snapshot.
func Steer(env Env) {
	own := env.Own()
	for _, v := range own.Tanks {
		if t, ok := v.(model.OwnedVehicle); ok {
			steerTank(env, t)
		}
	}
	for _, v := range own.Ships {
		if s, ok := v.(model.OwnedShip); ok {
			steerShip(env, s)
		}
	}
	for _, v := range own.Jets {
		if j, ok := v.(model.OwnedVehicle); ok {
			steerJet(env, j)
		}
	}
	for _, v := range own.Vehicles() {
		env.State.LastPos[v.UID()] = v.Position()
	}
}

// stuck is the "did not move" heuristic: the engine gives no blocked
// signal, so exact position equality across consecutive ticks stands in
// for one.
func stuck(env Env, v model.Vehicle) bool {
	prev, ok := env.State.LastPos[v.UID()]
	return ok && prev == v.Position()
}

func steerTank(env Env, t model.OwnedVehicle) {
	r := env.State.Roster(t.OwnerUID())
	if r.Role(t.UID()) == "" {
		// Not in any role set: bookkeeping lost it (shouldn't happen after
		// reconciliation, but a transient snapshot glitch self-heals here).
		slog.Debug("adopting untracked tank into attack role", "tank", t.UID())
		r.AttackTanks[t.UID()] = true
	}

	// A base under attack pulls its tanks in regardless of role.
	if threat, ok := env.State.Threats[t.OwnerUID()]; ok {
		t.Goto(threat.X, threat.Y)
		return
	}

	if r.DefenseTanks[t.UID()] {
		steerDefenseTank(env, t)
	} else {
		steerAttackTank(env, t)
	}
}

// steerDefenseTank keeps a tank orbiting its base: crossing into the
// patrol band reverses it, so it oscillates at the band boundary.
func steerDefenseTank(env Env, t model.OwnedVehicle) {
	if base := env.OwnBase(t.OwnerUID()); base != nil {
		p := base.Position()
		if env.Cfg.TankPatrol.Inside(t.Distance(p.X, p.Y, true)) {
			t.SetHeading(reverseHeading(t.Heading()))
			vx, vy := t.Vector()
			t.SetVector(-vx, -vy)
		}
	}
	if stuck(env, t) && !t.Stopped() {
		t.SetHeading(randHeading(env.Rand))
	}
}

func steerAttackTank(env Env, t model.OwnedVehicle) {
	if stuck(env, t) && !t.Stopped() {
		t.SetHeading(randHeading(env.Rand))
		return
	}
	if tgt, ok := env.State.BaseTargets[t.OwnerUID()]; ok {
		p := tgt.Position()
		t.Goto(p.X, p.Y)
		return
	}
	if tgt, ok := env.State.UnitTargets[t.UID()]; ok {
		p := tgt.Position()
		t.Goto(p.X, p.Y)
		return
	}
	if env.OwnBase(t.OwnerUID()) == nil {
		// Orphaned with nothing to hit: wander until a target appears.
		t.SetHeading(randHeading(env.Rand))
	}
}

// steerShip settles stuck ships: a ship that didn't move and has open
// water on all sides (no base of any team within the safety radius) founds
// a new base on the spot. One conversion attempt per qualifying tick.
func steerShip(env Env, s model.OwnedShip) {
	if !stuck(env, s) {
		return
	}
	for _, b := range env.AllBases() {
		p := b.Position()
		if s.Distance(p.X, p.Y, true) <= env.Cfg.ConvertSafeRadius {
			s.SetHeading(randHeading(env.Rand))
			return
		}
	}
	if s.ConvertToBase() {
		slog.Info("ship converted to base", "ship", s.UID())
	}
}

// steerJet works down a fixed priority ladder and takes the first rung
// that applies: defend home, intercept enemy shipping, raid the assigned
// enemy base, patrol between own bases, and failing all that shake loose
// if stuck.
func steerJet(env Env, j model.OwnedVehicle) {
	if threat, ok := env.State.Threats[j.OwnerUID()]; ok {
		j.Goto(threat.X, threat.Y)
		return
	}
	if base := env.OwnBase(j.OwnerUID()); base != nil {
		if ship, ok := NearestEnemyShip(env, base, env.Cfg.InterceptRadius); ok {
			p := ship.Position()
			j.Goto(p.X, p.Y)
			return
		}
	}
	if tgt, ok := env.State.BaseTargets[j.OwnerUID()]; ok {
		p := tgt.Position()
		j.Goto(p.X, p.Y)
		return
	}
	if patrolToNearestBase(env, j) {
		return
	}
	if stuck(env, j) {
		j.SetHeading(randHeading(env.Rand))
	}
}

// patrolToNearestBase points the jet at the nearest own base whose distance
// lies strictly inside the jet patrol band, with a little heading jitter so
// patrol routes don't degenerate into a fixed line. A single heading command
// carries both; the base direction is recomputed every tick anyway. Reports
// whether a patrol order was issued.
func patrolToNearestBase(env Env, j model.OwnedVehicle) bool {
	var best model.Base
	bestDist := math.MaxFloat64
	for _, b := range env.Own().Bases {
		p := b.Position()
		d := j.Distance(p.X, p.Y, true)
		if env.Cfg.JetPatrol.Inside(d) && d < bestDist {
			bestDist = d
			best = b
		}
	}
	if best == nil {
		return false
	}
	jitter := (env.Rand.Float64()*2 - 1) * env.Cfg.JetJitterDeg
	j.SetHeading(headingToward(env, j.Position(), best.Position()) + jitter)
	return true
}

// headingToward is the heading in degrees from one position to another,
// through the map seam when the terrain grid says that way is shorter.
func headingToward(env Env, from, to model.Position) float64 {
	dx, dy := to.X-from.X, to.Y-from.Y
	if env.Terrain != nil {
		dx, dy = model.WrapDelta(from, to, env.Terrain.Width())
	}
	return math.Atan2(dy, dx) * 180 / math.Pi
}

// reverseHeading mirrors the engine's heading-negation convention.
func reverseHeading(deg float64) float64 {
	return -deg
}
