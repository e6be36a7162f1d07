package model

// Roster is one team's holdings for a single tick. Slices may be empty or
// nil when the team has no vehicles of that kind; callers must not treat a
// missing category as an error.
type Roster struct {
	Bases []Base
	Tanks []Vehicle
	Ships []Vehicle
	Jets  []Vehicle
}

// Vehicles returns the roster's tanks, ships and jets as one slice.
func (r Roster) Vehicles() []Vehicle {
	out := make([]Vehicle, 0, len(r.Tanks)+len(r.Ships)+len(r.Jets))
	out = append(out, r.Tanks...)
	out = append(out, r.Ships...)
	return append(out, r.Jets...)
}

// Snapshot is the read-only world state delivered each tick, keyed by team
// name. Your own team's bases and vehicles additionally satisfy the Owned
// interfaces.
type Snapshot map[string]Roster
