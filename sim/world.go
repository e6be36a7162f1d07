// Package sim is a small in-process stand-in for the real game engine,
// used by tests and the demo skirmish runner. It implements the model
// capability interfaces over a wrapping square map: mines accrue crystal,
// bases spawn vehicles, tanks stall on water and ships on land (which is
// what makes the agent's stuck detection fire), and ships can settle into
// new bases near land. There is no combat; tests that need losses remove
// entities directly.
package sim

import (
	"math"

	"github.com/chaosmonkeys/vanguard/model"
)

// DefaultCosts are the build prices used unless a test overrides them.
var DefaultCosts = map[model.Item]int{
	model.ItemMine: 100,
	model.ItemTank: 60,
	model.ItemShip: 80,
	model.ItemJet:  120,
}

// World is the complete simulation state. Not safe for concurrent use;
// like the real engine it is driven strictly tick by tick.
type World struct {
	Size    float64 // square map edge length in world units
	Terrain *model.TerrainGrid
	Costs   map[model.Item]int
	// CrystalRate is crystal income per mine per second.
	CrystalRate float64

	teams map[string]bool
	bases []*Base
	units []*Vehicle
}

// NewWorld creates a world over the given terrain. The terrain's extent
// must cover the map: Cols*CellSize == size.
func NewWorld(size float64, terrain *model.TerrainGrid) *World {
	return &World{
		Size:        size,
		Terrain:     terrain,
		Costs:       DefaultCosts,
		CrystalRate: 2,
		teams:       make(map[string]bool),
	}
}

// AddTeam registers a team name so it appears in snapshots even before it
// owns anything.
func (w *World) AddTeam(name string) {
	w.teams[name] = true
}

// Snapshot assembles the per-team read-only view for one tick. A team's
// own entities satisfy the Owned interfaces; the consumer is expected to
// dispatch by type assertion exactly as with the real engine.
func (w *World) Snapshot() model.Snapshot {
	snap := make(model.Snapshot, len(w.teams))
	for name := range w.teams {
		snap[name] = model.Roster{}
	}
	for _, b := range w.bases {
		r := snap[b.team]
		r.Bases = append(r.Bases, b)
		snap[b.team] = r
	}
	for _, v := range w.units {
		r := snap[v.team]
		switch v.kind {
		case kindTank:
			r.Tanks = append(r.Tanks, v)
		case kindShip:
			r.Ships = append(r.Ships, v)
		case kindJet:
			r.Jets = append(r.Jets, v)
		}
		snap[v.team] = r
	}
	return snap
}

// Step advances the simulation by dt seconds: crystal income, then vehicle
// movement with terrain blocking and map wrap.
func (w *World) Step(dt float64) {
	for _, b := range w.bases {
		// Income accrues fractionally so small tick sizes don't truncate
		// every deposit to zero; crystal itself stays integral.
		b.income += float64(b.mines) * w.CrystalRate * dt
		if whole := int(b.income); whole > 0 {
			b.crystal += whole
			b.income -= float64(whole)
		}
	}
	for _, v := range w.units {
		w.moveVehicle(v, dt)
	}
}

func (w *World) moveVehicle(v *Vehicle, dt float64) {
	if v.stopped {
		return
	}
	var dx, dy float64
	step := v.speed * dt
	if v.goal != nil {
		gx, gy := w.shortestDelta(v.pos, *v.goal)
		dist := math.Hypot(gx, gy)
		if dist <= step {
			v.pos = *v.goal
			v.goal = nil
			return
		}
		dx, dy = gx/dist*step, gy/dist*step
		v.heading = math.Atan2(gy, gx) * 180 / math.Pi
	} else {
		vx, vy := v.Vector()
		dx, dy = vx*step, vy*step
	}
	next := model.Position{
		X: wrapCoord(v.pos.X+dx, w.Size),
		Y: wrapCoord(v.pos.Y+dy, w.Size),
	}
	if !w.passable(v.kind, next) {
		return // blocked; position holds, the agent sees it as stuck
	}
	v.pos = next
}

func (w *World) passable(kind vehicleKind, p model.Position) bool {
	if w.Terrain == nil {
		return true
	}
	switch kind {
	case kindTank:
		return w.Terrain.AtPos(p) != model.Water
	case kindShip:
		return w.Terrain.AtPos(p) != model.Land
	default:
		return true
	}
}

// shortestDelta returns the displacement from a to b taking the shorter
// way around each axis of the torus.
func (w *World) shortestDelta(a, b model.Position) (float64, float64) {
	return model.WrapDelta(a, b, w.Size)
}

// ShortestDistance is the wrap-aware distance between two positions.
func (w *World) ShortestDistance(a, b model.Position) float64 {
	dx, dy := w.shortestDelta(a, b)
	return math.Hypot(dx, dy)
}

// RemoveBase destroys a base. Vehicles built there keep their owner uid,
// pointing at nothing, which is exactly the orphan case agents must cope
// with.
func (w *World) RemoveBase(uid string) {
	for i, b := range w.bases {
		if b.uid == uid {
			w.bases = append(w.bases[:i], w.bases[i+1:]...)
			return
		}
	}
}

// RemoveVehicle destroys a vehicle outright.
func (w *World) RemoveVehicle(uid string) {
	for i, v := range w.units {
		if v.uid == uid {
			w.units = append(w.units[:i], w.units[i+1:]...)
			return
		}
	}
}

func wrapCoord(x, size float64) float64 {
	x = math.Mod(x, size)
	if x < 0 {
		x += size
	}
	return x
}
