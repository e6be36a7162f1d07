// Package agent wires the decision engine to the game engine: one Agent
// per match, one Process call per tick.
package agent

import (
	"log/slog"
	"math/rand"

	"github.com/chaosmonkeys/vanguard/config"
	"github.com/chaosmonkeys/vanguard/model"
	"github.com/chaosmonkeys/vanguard/rules"
)

// Agent owns the decision-making for one team across a match. All of its
// state is private and single-owner; the engine drives it strictly one
// tick at a time, so nothing here is synchronized.
type Agent struct {
	Team    string
	Cfg     config.Config
	State   *rules.State
	Planner *rules.Planner

	rng    *rand.Rand
	events eventTracker
}

// New builds an agent for the given team. The seed feeds every random
// heading the agent ever picks; fix it to make a match reproducible.
func New(team string, cfg config.Config, seed int64) (*Agent, error) {
	planner, err := rules.NewPlanner(cfg)
	if err != nil {
		return nil, err
	}
	return &Agent{
		Team:    team,
		Cfg:     cfg,
		State:   rules.NewState(),
		Planner: planner,
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

// Process is the agent's only entry point, called by the engine once per
// tick. The stages run in a fixed order: reconcile bookkeeping against the
// live roster, issue build orders, recompute threats and targets, then
// steer every vehicle. Commands take effect in later ticks; only the uids
// of freshly built vehicles are visible within the call.
func (a *Agent) Process(t, dt float64, snap model.Snapshot, terrain *model.TerrainGrid) {
	own, ok := snap[a.Team]
	if !ok {
		// We are out of the match. Observe the empty roster so the final
		// base losses and fleet wipe still make the match log, then stand
		// down.
		a.events.observe(t, model.Roster{}, a.State)
		return
	}

	env := rules.Env{
		Team:    a.Team,
		Snap:    snap,
		Terrain: terrain,
		State:   a.State,
		Cfg:     a.Cfg,
		Rand:    a.rng,
	}

	a.State.Reconcile(own)

	for _, b := range own.Bases {
		ob, ok := b.(model.OwnedBase)
		if !ok {
			slog.Warn("own base without build capabilities", "base", b.UID())
			continue
		}
		r := a.State.Roster(b.UID())
		category := a.Planner.NextAction(b, r)
		rules.Execute(env, category, ob, r)
	}

	rules.UpdateThreats(env)
	rules.UpdateTargets(env)
	rules.Steer(env)

	a.events.observe(t, own, a.State)
}
