package rules

import (
	"math"
	"testing"

	"github.com/chaosmonkeys/vanguard/model"
)

// tankSnap is one own base plus one own tank registered in the given role.
func tankSnap(base *fakeBase, tank *fakeVehicle, role string) (model.Snapshot, *State) {
	snap := model.Snapshot{
		"us": {Bases: []model.Base{base}, Tanks: []model.Vehicle{tank}},
	}
	state := NewState()
	r := state.Roster(base.uid)
	switch role {
	case "defense":
		r.DefenseTanks[tank.uid] = true
	case "attack":
		r.AttackTanks[tank.uid] = true
	}
	return snap, state
}

func TestDefenseTankReversesInPatrolBand(t *testing.T) {
	base := &fakeBase{uid: "b1", team: "us", pos: model.Position{X: 0, Y: 0}}
	tank := &fakeVehicle{uid: "t1", team: "us", owner: "b1", heading: 70,
		pos: model.Position{X: 45, Y: 0}} // distance 45, inside (40, 50)
	snap, state := tankSnap(base, tank, "defense")
	env := testEnv("us", snap, state)

	Steer(env)

	if len(tank.headingsSet) != 1 || tank.headingsSet[0] != -70 {
		t.Errorf("headings set = %v, want exactly [-70]", tank.headingsSet)
	}
	if len(tank.vectorsSet) != 1 || tank.vectorsSet[0] != [2]float64{-1, 0} {
		t.Errorf("vectors set = %v, want exactly [(-1,0)]", tank.vectorsSet)
	}
}

func TestDefenseTankOutsideBandHolds(t *testing.T) {
	base := &fakeBase{uid: "b1", team: "us", pos: model.Position{X: 0, Y: 0}}
	for _, d := range []float64{40, 50, 60} { // band is open: boundary excluded
		tank := &fakeVehicle{uid: "t1", team: "us", owner: "b1",
			pos: model.Position{X: d, Y: 0}}
		snap, state := tankSnap(base, tank, "defense")
		env := testEnv("us", snap, state)

		Steer(env)

		if len(tank.headingsSet) != 0 {
			t.Errorf("distance %v: headings set = %v, want none", d, tank.headingsSet)
		}
	}
}

func TestStuckDefenseTankRandomizesHeading(t *testing.T) {
	base := &fakeBase{uid: "b1", team: "us", pos: model.Position{X: 0, Y: 0}}
	tank := &fakeVehicle{uid: "t1", team: "us", owner: "b1",
		pos: model.Position{X: 200, Y: 0}}
	snap, state := tankSnap(base, tank, "defense")
	state.LastPos["t1"] = tank.pos // unchanged since last tick
	env := testEnv("us", snap, state)

	Steer(env)

	if len(tank.headingsSet) != 1 {
		t.Fatalf("headings set = %v, want one random heading", tank.headingsSet)
	}
	if h := tank.headingsSet[0]; h < 0 || h >= 360 {
		t.Errorf("random heading %v outside [0, 360)", h)
	}
}

func TestStoppedTankIsNotReheaded(t *testing.T) {
	base := &fakeBase{uid: "b1", team: "us", pos: model.Position{X: 0, Y: 0}}
	tank := &fakeVehicle{uid: "t1", team: "us", owner: "b1", stopped: true,
		pos: model.Position{X: 200, Y: 0}}
	snap, state := tankSnap(base, tank, "defense")
	state.LastPos["t1"] = tank.pos
	env := testEnv("us", snap, state)

	Steer(env)

	if len(tank.headingsSet) != 0 {
		t.Errorf("stopped tank got heading commands: %v", tank.headingsSet)
	}
}

func TestTankUnderAttackOverride(t *testing.T) {
	base := &fakeBase{uid: "b1", team: "us", pos: model.Position{X: 0, Y: 0}}
	threat := model.Position{X: 60, Y: 80}
	for _, role := range []string{"defense", "attack"} {
		tank := &fakeVehicle{uid: "t1", team: "us", owner: "b1",
			pos: model.Position{X: 45, Y: 0}}
		snap, state := tankSnap(base, tank, role)
		state.Threats["b1"] = threat
		env := testEnv("us", snap, state)

		Steer(env)

		if len(tank.gotos) != 1 || tank.gotos[0] != threat {
			t.Errorf("%s tank gotos = %v, want [%v]", role, tank.gotos, threat)
		}
		if len(tank.headingsSet) != 0 {
			t.Errorf("%s tank should not patrol while base under attack", role)
		}
	}
}

func TestAttackTankPrefersBaseTarget(t *testing.T) {
	base := &fakeBase{uid: "b1", team: "us", pos: model.Position{X: 0, Y: 0}}
	tank := &fakeVehicle{uid: "t1", team: "us", owner: "b1", pos: model.Position{X: 10, Y: 0}}
	snap, state := tankSnap(base, tank, "attack")
	baseTgt := &fakeBase{uid: "eb", team: "them", pos: model.Position{X: 300, Y: 0}}
	unitTgt := &fakeBase{uid: "eu", team: "them", pos: model.Position{X: 0, Y: 300}}
	state.BaseTargets["b1"] = baseTgt
	state.UnitTargets["t1"] = unitTgt
	env := testEnv("us", snap, state)

	Steer(env)

	if len(tank.gotos) != 1 || tank.gotos[0] != baseTgt.pos {
		t.Errorf("gotos = %v, want base target %v", tank.gotos, baseTgt.pos)
	}
}

func TestOrphanedAttackTankUsesUnitTarget(t *testing.T) {
	// Base b1 no longer exists in the snapshot.
	tank := &fakeVehicle{uid: "t1", team: "us", owner: "b1", pos: model.Position{X: 10, Y: 0}}
	snap := model.Snapshot{"us": {Tanks: []model.Vehicle{tank}}}
	state := NewState()
	state.Roster("b1").AttackTanks["t1"] = true
	unitTgt := &fakeBase{uid: "eu", team: "them", pos: model.Position{X: 0, Y: 300}}
	state.UnitTargets["t1"] = unitTgt
	env := testEnv("us", snap, state)

	Steer(env)

	if len(tank.gotos) != 1 || tank.gotos[0] != unitTgt.pos {
		t.Errorf("gotos = %v, want unit target %v", tank.gotos, unitTgt.pos)
	}
}

func TestOrphanedTankWithNoTargetWanders(t *testing.T) {
	tank := &fakeVehicle{uid: "t1", team: "us", owner: "gone", pos: model.Position{X: 10, Y: 0}}
	snap := model.Snapshot{"us": {Tanks: []model.Vehicle{tank}}}
	state := NewState()
	state.Roster("gone").AttackTanks["t1"] = true
	env := testEnv("us", snap, state)

	Steer(env)

	if len(tank.headingsSet) != 1 {
		t.Errorf("headings set = %v, want one random heading", tank.headingsSet)
	}
	if len(tank.gotos) != 0 {
		t.Errorf("unexpected goto: %v", tank.gotos)
	}
}

func TestStuckShipConvertsInOpenWater(t *testing.T) {
	base := &fakeBase{uid: "b1", team: "us", pos: model.Position{X: 0, Y: 0}}
	ship := &fakeVehicle{uid: "s1", team: "us", owner: "b1", convertOK: true,
		pos: model.Position{X: 200, Y: 0}} // 200 from the only base, > 60
	snap := model.Snapshot{
		"us": {Bases: []model.Base{base}, Ships: []model.Vehicle{ship}},
	}
	state := NewState()
	state.Roster("b1").Ships["s1"] = true
	state.LastPos["s1"] = ship.pos
	env := testEnv("us", snap, state)

	Steer(env)

	if ship.converts != 1 {
		t.Errorf("convert calls = %d, want exactly 1", ship.converts)
	}
	if len(ship.headingsSet) != 0 {
		t.Errorf("converting ship should not be reheaded: %v", ship.headingsSet)
	}
}

func TestStuckShipNearAnyBaseReheadsInstead(t *testing.T) {
	own := &fakeBase{uid: "b1", team: "us", pos: model.Position{X: 0, Y: 0}}
	// An enemy base inside the safety radius also blocks conversion.
	enemy := &fakeBase{uid: "e1", team: "them", pos: model.Position{X: 230, Y: 0}}
	ship := &fakeVehicle{uid: "s1", team: "us", owner: "b1", convertOK: true,
		pos: model.Position{X: 200, Y: 0}} // 30 from the enemy base
	snap := model.Snapshot{
		"us":   {Bases: []model.Base{own}, Ships: []model.Vehicle{ship}},
		"them": {Bases: []model.Base{enemy}},
	}
	state := NewState()
	state.Roster("b1").Ships["s1"] = true
	state.LastPos["s1"] = ship.pos
	env := testEnv("us", snap, state)

	Steer(env)

	if ship.converts != 0 {
		t.Errorf("convert calls = %d, want 0 near a base", ship.converts)
	}
	if len(ship.headingsSet) != 1 {
		t.Errorf("headings set = %v, want one random heading", ship.headingsSet)
	}
}

func TestMovingShipIsLeftAlone(t *testing.T) {
	base := &fakeBase{uid: "b1", team: "us", pos: model.Position{X: 0, Y: 0}}
	ship := &fakeVehicle{uid: "s1", team: "us", owner: "b1", convertOK: true,
		pos: model.Position{X: 200, Y: 0}}
	snap := model.Snapshot{
		"us": {Bases: []model.Base{base}, Ships: []model.Vehicle{ship}},
	}
	state := NewState()
	state.LastPos["s1"] = model.Position{X: 190, Y: 0} // moved since last tick
	env := testEnv("us", snap, state)

	Steer(env)

	if ship.converts != 0 || len(ship.headingsSet) != 0 {
		t.Errorf("moving ship got commands: converts=%d headings=%v",
			ship.converts, ship.headingsSet)
	}
}

func jetFixture() (*fakeBase, *fakeVehicle, model.Snapshot, *State) {
	base := &fakeBase{uid: "b1", team: "us", pos: model.Position{X: 0, Y: 0}}
	jet := &fakeVehicle{uid: "j1", team: "us", owner: "b1", pos: model.Position{X: 50, Y: 0}}
	snap := model.Snapshot{
		"us": {Bases: []model.Base{base}, Jets: []model.Vehicle{jet}},
	}
	state := NewState()
	state.Roster("b1").Jets["j1"] = true
	return base, jet, snap, state
}

func TestJetDefendsBaseFirst(t *testing.T) {
	_, jet, snap, state := jetFixture()
	threat := model.Position{X: 10, Y: 10}
	state.Threats["b1"] = threat
	// An enemy ship in range and a base target are both outranked.
	snap["them"] = model.Roster{
		Bases: []model.Base{&fakeBase{uid: "eb", team: "them", pos: model.Position{X: 400, Y: 0}}},
		Ships: []model.Vehicle{&fakeVehicle{uid: "es", team: "them", pos: model.Position{X: 100, Y: 0}}},
	}
	state.BaseTargets["b1"] = snap["them"].Bases[0]
	env := testEnv("us", snap, state)

	Steer(env)

	if len(jet.gotos) != 1 || jet.gotos[0] != threat {
		t.Errorf("gotos = %v, want threat %v", jet.gotos, threat)
	}
}

func TestJetInterceptsShipOverBaseTarget(t *testing.T) {
	_, jet, snap, state := jetFixture()
	shipPos := model.Position{X: 100, Y: 0} // inside the 300 intercept radius
	snap["them"] = model.Roster{
		Bases: []model.Base{&fakeBase{uid: "eb", team: "them", pos: model.Position{X: 400, Y: 0}}},
		Ships: []model.Vehicle{&fakeVehicle{uid: "es", team: "them", pos: shipPos}},
	}
	state.BaseTargets["b1"] = snap["them"].Bases[0]
	env := testEnv("us", snap, state)

	Steer(env)

	if len(jet.gotos) != 1 || jet.gotos[0] != shipPos {
		t.Errorf("gotos = %v, want enemy ship %v (priority over base target)", jet.gotos, shipPos)
	}
}

func TestJetRaidsAssignedBase(t *testing.T) {
	_, jet, snap, state := jetFixture()
	ebPos := model.Position{X: 400, Y: 0}
	snap["them"] = model.Roster{
		Bases: []model.Base{&fakeBase{uid: "eb", team: "them", pos: ebPos}},
	}
	state.BaseTargets["b1"] = snap["them"].Bases[0]
	env := testEnv("us", snap, state)

	Steer(env)

	if len(jet.gotos) != 1 || jet.gotos[0] != ebPos {
		t.Errorf("gotos = %v, want enemy base %v", jet.gotos, ebPos)
	}
}

func TestJetPatrolsBandedBase(t *testing.T) {
	_, jet, snap, state := jetFixture()
	jet.pos = model.Position{X: 105, Y: 0} // inside jet patrol band (100, 110)
	jet.heading = 90                       // stale; must not leak into the patrol direction
	env := testEnv("us", snap, state)

	Steer(env)

	// The patrol order is a single heading command aimed at the base (180
	// from here) plus jitter. No goto may compete with it: a later heading
	// command cancels a goto, so issuing both would undo the homing.
	if len(jet.gotos) != 0 {
		t.Fatalf("gotos = %v, want none", jet.gotos)
	}
	if len(jet.headingsSet) != 1 {
		t.Fatalf("headings set = %v, want one jittered heading", jet.headingsSet)
	}
	if h := jet.headingsSet[0]; h < 150 || h > 210 {
		t.Errorf("heading %v not within 30 of the base direction 180", h)
	}
}

func TestHeadingTowardCrossesSeam(t *testing.T) {
	env := testEnv("us", model.Snapshot{}, nil)
	env.Terrain = model.NewTerrainGrid(48, 48, 10) // 480-unit wrap

	from := model.Position{X: 470, Y: 0}
	to := model.Position{X: 10, Y: 0}
	if h := headingToward(env, from, to); math.Abs(h) > 1e-9 {
		t.Errorf("heading = %v, want 0 (east through the seam)", h)
	}

	// Without a terrain grid the direct direction is used.
	env.Terrain = nil
	if h := headingToward(env, from, to); math.Abs(h-180) > 1e-9 {
		t.Errorf("heading = %v, want 180 (direct west)", h)
	}
}

func TestStuckIdleJetRandomizes(t *testing.T) {
	_, jet, snap, state := jetFixture()
	jet.pos = model.Position{X: 500, Y: 500} // far outside any band
	state.LastPos["j1"] = jet.pos
	env := testEnv("us", snap, state)

	Steer(env)

	if len(jet.gotos) != 0 {
		t.Errorf("unexpected goto: %v", jet.gotos)
	}
	if len(jet.headingsSet) != 1 {
		t.Errorf("headings set = %v, want one random heading", jet.headingsSet)
	}
}

func TestSteerRefreshesPositionCache(t *testing.T) {
	base := &fakeBase{uid: "b1", team: "us", pos: model.Position{X: 0, Y: 0}}
	tank := &fakeVehicle{uid: "t1", team: "us", owner: "b1", pos: model.Position{X: 7, Y: 9}}
	snap, state := tankSnap(base, tank, "defense")
	env := testEnv("us", snap, state)

	Steer(env)

	if got := state.LastPos["t1"]; got != tank.pos {
		t.Errorf("cached position = %v, want %v", got, tank.pos)
	}
}
