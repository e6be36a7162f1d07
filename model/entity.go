package model

import "math"

// Item is a buildable category accepted by a base's cost lookup.
type Item string

const (
	ItemMine Item = "mine"
	ItemTank Item = "tank"
	ItemShip Item = "ship"
	ItemJet  Item = "jet"
)

// Position is a point in world coordinates. The map wraps around at the
// world edges, but positions themselves are always reported in [0, size).
type Position struct {
	X float64
	Y float64
}

// DistanceTo returns the direct euclidean distance to another position,
// ignoring wraparound.
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// WrapDelta returns the displacement from a to b taking the shorter way
// around each axis of a size-by-size wrapping map.
func WrapDelta(a, b Position, size float64) (float64, float64) {
	return wrapAxis(b.X-a.X, size), wrapAxis(b.Y-a.Y, size)
}

func wrapAxis(d, size float64) float64 {
	d = math.Mod(d, size)
	switch {
	case d > size/2:
		d -= size
	case d < -size/2:
		d += size
	}
	return d
}

// Base is the read-only view every player has of any base on the map.
type Base interface {
	UID() string
	Team() string
	Position() Position
	Mines() int
	Crystal() int
}

// OwnedBase adds the build capabilities that only the owning player holds.
// The engine hands out OwnedBase values for your own bases and plain Base
// values for everyone else's; dispatch by type assertion, never by team
// string comparison.
type OwnedBase interface {
	Base

	Cost(item Item) int
	// BuildMine reports whether a mine was added.
	BuildMine() bool
	// BuildTank, BuildShip and BuildJet spawn a vehicle facing the given
	// heading (degrees) and return its identifier, or "" if the build
	// failed (for example, insufficient crystal).
	BuildTank(heading float64) string
	BuildShip(heading float64) string
	BuildJet(heading float64) string
}

// Vehicle is the read-only view of any tank, ship or jet.
type Vehicle interface {
	UID() string
	Team() string
	Position() Position
	// Heading in degrees: 0 = east, 90 = north.
	Heading() float64
	// Vector is the heading as a unit vector (cos, sin of the heading).
	Vector() (float64, float64)
	Speed() float64
	Health() int
	Attack() int
	Stopped() bool
	// OwnerUID identifies the base the vehicle was built at. The base may
	// no longer exist.
	OwnerUID() string
}

// OwnedVehicle adds command capabilities for your own vehicles.
type OwnedVehicle interface {
	Vehicle

	SetHeading(deg float64)
	SetVector(vx, vy float64)
	Goto(x, y float64)
	Stop()
	Start()
	// Distance from the vehicle to (x, y). With shortest set, the engine
	// measures through the map boundaries when that path is shorter.
	Distance(x, y float64, shortest bool) float64
}

// OwnedShip is an owned vehicle that can settle into a new base.
type OwnedShip interface {
	OwnedVehicle

	// ConvertToBase replaces the ship with a base at its position. Only
	// succeeds when there is land close to the ship; the ship ceases to
	// exist on success.
	ConvertToBase() bool
}
