package rules

import (
	"log/slog"

	"github.com/chaosmonkeys/vanguard/model"
)

// BaseRoster gives a base's vehicles persistent identity across ticks.
// Without it the agent would re-classify units every tick and couldn't keep
// a tank on defense duty or know when a jet it paid for is gone. A uid
// belongs to at most one role set at a time; the defense and attack tank
// sets are disjoint by construction.
type BaseRoster struct {
	DefenseTanks map[string]bool
	AttackTanks  map[string]bool
	Ships        map[string]bool
	Jets         map[string]bool

	// Lifetime build counters. Unlike the sets these never shrink: a ship
	// that converts to a base leaves the set but stays counted, and the
	// "no jet built yet" stage guard needs ever-built, not currently-alive.
	DefenseTanksBuilt int
	AttackTanksBuilt  int
	ShipsBuilt        int
	JetsBuilt         int

	// Rotation indexes the fallback production cycle once every stage
	// threshold is satisfied.
	Rotation int
}

func newBaseRoster() *BaseRoster {
	return &BaseRoster{
		DefenseTanks: make(map[string]bool),
		AttackTanks:  make(map[string]bool),
		Ships:        make(map[string]bool),
		Jets:         make(map[string]bool),
	}
}

// State is the agent's private bookkeeping for one match. It is created at
// match start, mutated only inside Process, and discarded at match end.
type State struct {
	// Rosters is keyed by base uid. Entries persist after the base is
	// destroyed so orphaned vehicles keep their assignments.
	Rosters map[string]*BaseRoster
	// LastPos is the previous tick's observed position per vehicle uid,
	// the input to stuck detection.
	LastPos map[string]model.Position
	// Threats maps a base uid to the nearest enemy position when that
	// enemy is inside the alert radius. Recomputed every tick.
	Threats map[string]model.Position
	// BaseTargets and UnitTargets map base/vehicle uids to their assigned
	// enemy base. Recomputed every tick.
	BaseTargets map[string]model.Base
	UnitTargets map[string]model.Base
}

func NewState() *State {
	return &State{
		Rosters:     make(map[string]*BaseRoster),
		LastPos:     make(map[string]model.Position),
		Threats:     make(map[string]model.Position),
		BaseTargets: make(map[string]model.Base),
		UnitTargets: make(map[string]model.Base),
	}
}

// Roster returns the bookkeeping for a base uid, creating empty sets and
// zero counters the first time the base is seen.
func (s *State) Roster(baseUID string) *BaseRoster {
	r, ok := s.Rosters[baseUID]
	if !ok {
		r = newBaseRoster()
		s.Rosters[baseUID] = r
	}
	return r
}

// Reconcile aligns the agent's bookkeeping with the live roster: dead
// vehicles leave every role set and the position cache, new bases get
// zero-initialized entries, and defense tanks of destroyed bases move to
// the attack role so they stop waiting for patrol orders that will never
// matter again. Reconcile is idempotent for a given live roster.
func (s *State) Reconcile(own model.Roster) {
	for _, b := range own.Bases {
		s.Roster(b.UID())
	}

	aliveTanks := uidSet(own.Tanks)
	aliveShips := uidSet(own.Ships)
	aliveJets := uidSet(own.Jets)

	for _, r := range s.Rosters {
		prune(r.DefenseTanks, aliveTanks)
		prune(r.AttackTanks, aliveTanks)
		prune(r.Ships, aliveShips)
		prune(r.Jets, aliveJets)
	}

	aliveBases := make(map[string]bool, len(own.Bases))
	for _, b := range own.Bases {
		aliveBases[b.UID()] = true
	}
	for uid, r := range s.Rosters {
		if aliveBases[uid] || len(r.DefenseTanks) == 0 {
			continue
		}
		// Base is gone: its garrison goes on the offensive.
		slog.Debug("base lost, reassigning defense tanks to attack",
			"base", uid, "tanks", len(r.DefenseTanks))
		for tank := range r.DefenseTanks {
			r.AttackTanks[tank] = true
			delete(r.DefenseTanks, tank)
		}
	}

	alive := make(map[string]bool, len(aliveTanks)+len(aliveShips)+len(aliveJets))
	for uid := range aliveTanks {
		alive[uid] = true
	}
	for uid := range aliveShips {
		alive[uid] = true
	}
	for uid := range aliveJets {
		alive[uid] = true
	}
	for uid := range s.LastPos {
		if !alive[uid] {
			delete(s.LastPos, uid)
		}
	}
}

// Role reports which role set a tank uid currently belongs to for its base.
func (r *BaseRoster) Role(uid string) string {
	switch {
	case r.DefenseTanks[uid]:
		return "defense"
	case r.AttackTanks[uid]:
		return "attack"
	default:
		return ""
	}
}

func uidSet(vs []model.Vehicle) map[string]bool {
	s := make(map[string]bool, len(vs))
	for _, v := range vs {
		s[v.UID()] = true
	}
	return s
}

func prune(set, alive map[string]bool) {
	for uid := range set {
		if !alive[uid] {
			delete(set, uid)
		}
	}
}
