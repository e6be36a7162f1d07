package rules

import (
	"fmt"
	"math/rand"

	"github.com/chaosmonkeys/vanguard/config"
	"github.com/chaosmonkeys/vanguard/model"
)

// fakeBase implements model.OwnedBase with deterministic spawned uids and
// a record of every build call.
type fakeBase struct {
	uid     string
	team    string
	pos     model.Position
	mines   int
	crystal int
	cost    int // flat cost for every item

	builtMines int
	built      []string // uids returned by vehicle builds, in call order
}

func (b *fakeBase) UID() string              { return b.uid }
func (b *fakeBase) Team() string             { return b.team }
func (b *fakeBase) Position() model.Position { return b.pos }
func (b *fakeBase) Mines() int               { return b.mines }
func (b *fakeBase) Crystal() int             { return b.crystal }
func (b *fakeBase) Cost(model.Item) int      { return b.cost }

func (b *fakeBase) BuildMine() bool {
	b.mines++
	b.builtMines++
	return true
}

func (b *fakeBase) spawn(kind string) string {
	uid := fmt.Sprintf("%s-%s-%d", b.uid, kind, len(b.built)+1)
	b.built = append(b.built, uid)
	return uid
}

func (b *fakeBase) BuildTank(float64) string { return b.spawn("tank") }
func (b *fakeBase) BuildShip(float64) string { return b.spawn("ship") }
func (b *fakeBase) BuildJet(float64) string  { return b.spawn("jet") }

// fakeVehicle implements model.OwnedVehicle and model.OwnedShip, recording
// every command issued against it.
type fakeVehicle struct {
	uid     string
	team    string
	owner   string
	pos     model.Position
	heading float64
	stopped bool

	headingsSet []float64
	vectorsSet  [][2]float64
	gotos       []model.Position
	converts    int
	convertOK   bool
}

func (v *fakeVehicle) UID() string              { return v.uid }
func (v *fakeVehicle) Team() string             { return v.team }
func (v *fakeVehicle) Position() model.Position { return v.pos }
func (v *fakeVehicle) Heading() float64         { return v.heading }
func (v *fakeVehicle) Vector() (float64, float64) {
	return 1, 0
}
func (v *fakeVehicle) Speed() float64   { return 10 }
func (v *fakeVehicle) Health() int      { return 100 }
func (v *fakeVehicle) Attack() int      { return 10 }
func (v *fakeVehicle) Stopped() bool    { return v.stopped }
func (v *fakeVehicle) OwnerUID() string { return v.owner }

func (v *fakeVehicle) SetHeading(deg float64) {
	v.heading = deg
	v.headingsSet = append(v.headingsSet, deg)
}

func (v *fakeVehicle) SetVector(vx, vy float64) {
	v.vectorsSet = append(v.vectorsSet, [2]float64{vx, vy})
}

func (v *fakeVehicle) Goto(x, y float64) {
	v.gotos = append(v.gotos, model.Position{X: x, Y: y})
}

func (v *fakeVehicle) Stop()  { v.stopped = true }
func (v *fakeVehicle) Start() { v.stopped = false }

// Distance ignores wraparound; these tests lay fixtures out well away
// from the map seam.
func (v *fakeVehicle) Distance(x, y float64, shortest bool) float64 {
	return v.pos.DistanceTo(model.Position{X: x, Y: y})
}

func (v *fakeVehicle) ConvertToBase() bool {
	v.converts++
	return v.convertOK
}

// testEnv assembles an Env over the default config with a fixed seed.
func testEnv(team string, snap model.Snapshot, state *State) Env {
	if state == nil {
		state = NewState()
	}
	return Env{
		Team:  team,
		Snap:  snap,
		State: state,
		Cfg:   config.Default(),
		Rand:  rand.New(rand.NewSource(7)),
	}
}
