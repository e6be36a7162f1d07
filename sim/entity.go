package sim

import (
	"math"

	"github.com/google/uuid"

	"github.com/chaosmonkeys/vanguard/model"
)

type vehicleKind uint8

const (
	kindTank vehicleKind = iota
	kindShip
	kindJet
)

// Speeds in world units per second.
var kindSpeed = map[vehicleKind]float64{
	kindTank: 10,
	kindShip: 8,
	kindJet:  20,
}

// Base implements model.OwnedBase.
type Base struct {
	w       *World
	uid     string
	team    string
	pos     model.Position
	mines   int
	crystal int
	income  float64 // fractional crystal not yet banked
}

// AddBase places a new base with one mine and the given starting crystal.
func (w *World) AddBase(team string, pos model.Position, crystal int) *Base {
	w.AddTeam(team)
	b := &Base{
		w:       w,
		uid:     uuid.NewString(),
		team:    team,
		pos:     pos,
		mines:   1,
		crystal: crystal,
	}
	w.bases = append(w.bases, b)
	return b
}

func (b *Base) UID() string              { return b.uid }
func (b *Base) Team() string             { return b.team }
func (b *Base) Position() model.Position { return b.pos }
func (b *Base) Mines() int               { return b.mines }
func (b *Base) Crystal() int             { return b.crystal }

func (b *Base) Cost(item model.Item) int { return b.w.Costs[item] }

func (b *Base) BuildMine() bool {
	cost := b.Cost(model.ItemMine)
	if b.crystal < cost {
		return false
	}
	b.crystal -= cost
	b.mines++
	return true
}

func (b *Base) BuildTank(heading float64) string { return b.spawn(kindTank, model.ItemTank, heading) }
func (b *Base) BuildShip(heading float64) string { return b.spawn(kindShip, model.ItemShip, heading) }
func (b *Base) BuildJet(heading float64) string  { return b.spawn(kindJet, model.ItemJet, heading) }

func (b *Base) spawn(kind vehicleKind, item model.Item, heading float64) string {
	cost := b.Cost(item)
	if b.crystal < cost {
		return ""
	}
	b.crystal -= cost
	v := &Vehicle{
		w:       b.w,
		uid:     uuid.NewString(),
		team:    b.team,
		owner:   b.uid,
		kind:    kind,
		pos:     b.pos,
		heading: heading,
		speed:   kindSpeed[kind],
		health:  100,
		attack:  10,
	}
	b.w.units = append(b.w.units, v)
	return v.uid
}

// Vehicle implements model.OwnedVehicle, and model.OwnedShip for ships.
type Vehicle struct {
	w       *World
	uid     string
	team    string
	owner   string
	kind    vehicleKind
	pos     model.Position
	heading float64 // degrees
	speed   float64
	health  int
	attack  int
	stopped bool
	goal    *model.Position
}

func (v *Vehicle) UID() string              { return v.uid }
func (v *Vehicle) Team() string             { return v.team }
func (v *Vehicle) Position() model.Position { return v.pos }
func (v *Vehicle) Heading() float64         { return v.heading }
func (v *Vehicle) Speed() float64           { return v.speed }
func (v *Vehicle) Health() int              { return v.health }
func (v *Vehicle) Attack() int              { return v.attack }
func (v *Vehicle) Stopped() bool            { return v.stopped }
func (v *Vehicle) OwnerUID() string         { return v.owner }

func (v *Vehicle) Vector() (float64, float64) {
	rad := v.heading * math.Pi / 180
	return math.Cos(rad), math.Sin(rad)
}

func (v *Vehicle) SetHeading(deg float64) {
	v.heading = deg
	v.goal = nil
}

func (v *Vehicle) SetVector(vx, vy float64) {
	v.heading = math.Atan2(vy, vx) * 180 / math.Pi
	v.goal = nil
}

func (v *Vehicle) Goto(x, y float64) {
	v.goal = &model.Position{X: wrapCoord(x, v.w.Size), Y: wrapCoord(y, v.w.Size)}
	v.stopped = false
}

func (v *Vehicle) Stop()  { v.stopped = true }
func (v *Vehicle) Start() { v.stopped = false }

func (v *Vehicle) Distance(x, y float64, shortest bool) float64 {
	target := model.Position{X: x, Y: y}
	if shortest {
		return v.w.ShortestDistance(v.pos, target)
	}
	return v.pos.DistanceTo(target)
}

// ConvertToBase turns a stuck settler ship into a base. Mirrors the real
// engine's rule: only succeeds with land adjacent to the ship's cell.
func (v *Vehicle) ConvertToBase() bool {
	if v.kind != kindShip {
		return false
	}
	if v.w.Terrain == nil || !v.w.Terrain.LandNear(v.pos) {
		return false
	}
	v.w.RemoveVehicle(v.uid)
	b := &Base{
		w:     v.w,
		uid:   uuid.NewString(),
		team:  v.team,
		pos:   v.pos,
		mines: 1,
	}
	v.w.bases = append(v.w.bases, b)
	return true
}
