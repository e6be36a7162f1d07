package rules

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/chaosmonkeys/vanguard/config"
	"github.com/chaosmonkeys/vanguard/model"
)

// StageEnv is the environment stage guard expressions evaluate against:
// the current counts for one base. Live counts come from the role sets,
// the *Built counts from the lifetime counters.
type StageEnv struct {
	Mines        int
	DefenseTanks int
	AttackTanks  int
	Ships        int
	Jets         int

	DefenseTanksBuilt int
	AttackTanksBuilt  int
	ShipsBuilt        int
	JetsBuilt         int
}

func (se StageEnv) count(category string) int {
	switch category {
	case config.CategoryMines:
		return se.Mines
	case config.CategoryDefenseTanks:
		return se.DefenseTanks
	case config.CategoryAttackTanks:
		return se.AttackTanks
	case config.CategoryShips:
		return se.Ships
	case config.CategoryJets:
		return se.Jets
	}
	return 0
}

// stage is a config.Stage with its guard compiled to bytecode.
type stage struct {
	category  string
	threshold int
	skipIf    *vm.Program // nil when unguarded
}

// Planner owns the staged build order. The stage table is shared static
// configuration; all per-base progression state (the fallback rotation
// index) lives on the BaseRoster.
type Planner struct {
	stages   []stage
	rotation []string
}

// NewPlanner validates the config and compiles every stage guard. A guard
// that does not compile is a startup error, never a mid-match surprise.
func NewPlanner(cfg config.Config) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Planner{rotation: cfg.Rotation}
	for i, sc := range cfg.Stages {
		st := stage{category: sc.Category, threshold: sc.Threshold}
		if sc.SkipIf != "" {
			prog, err := expr.Compile(sc.SkipIf, expr.Env(StageEnv{}), expr.AsBool())
			if err != nil {
				return nil, fmt.Errorf("stage %d (%s): compile skip_if %q: %w", i, sc.Category, sc.SkipIf, err)
			}
			st.skipIf = prog
		}
		p.stages = append(p.stages, st)
	}
	return p, nil
}

// NextAction picks the build category for a base this tick: the first stage
// in declaration order whose count is below threshold wins. Once every
// stage is satisfied the planner falls back to the rotation, advancing the
// base's rotation index by one per call.
func (p *Planner) NextAction(base model.Base, r *BaseRoster) string {
	se := StageEnv{
		Mines:             base.Mines(),
		DefenseTanks:      len(r.DefenseTanks),
		AttackTanks:       len(r.AttackTanks),
		Ships:             len(r.Ships),
		Jets:              len(r.Jets),
		DefenseTanksBuilt: r.DefenseTanksBuilt,
		AttackTanksBuilt:  r.AttackTanksBuilt,
		ShipsBuilt:        r.ShipsBuilt,
		JetsBuilt:         r.JetsBuilt,
	}

	for _, st := range p.stages {
		if st.skipIf != nil {
			out, err := vm.Run(st.skipIf, se)
			if err != nil {
				slog.Warn("stage guard error, treating as not skipped",
					"category", st.category, "error", err)
			} else if out.(bool) {
				continue
			}
		}
		if se.count(st.category) < st.threshold {
			return st.category
		}
	}

	tag := p.rotation[r.Rotation%len(p.rotation)]
	r.Rotation++
	return tag
}

// buildAction issues at most one build call against an owned base and
// registers the result in the base's roster.
type buildAction func(env Env, base model.OwnedBase, r *BaseRoster)

// buildActions dispatches a stage category to its build call. Kept as an
// explicit table so the config stays plain data.
var buildActions = map[string]buildAction{
	config.CategoryMines:        buildMine,
	config.CategoryDefenseTanks: buildDefenseTank,
	config.CategoryAttackTanks:  buildAttackTank,
	config.CategoryShips:        buildShip,
	config.CategoryJets:         buildJet,
}

// Execute runs the chosen build action. Insufficient crystal is a no-op;
// the same stage is simply selected again next tick.
func Execute(env Env, category string, base model.OwnedBase, r *BaseRoster) {
	action, ok := buildActions[category]
	if !ok {
		slog.Warn("no build action for category", "category", category)
		return
	}
	action(env, base, r)
}

func buildMine(_ Env, base model.OwnedBase, _ *BaseRoster) {
	if base.Crystal() > base.Cost(model.ItemMine) {
		if base.BuildMine() {
			slog.Debug("built mine", "base", base.UID(), "mines", base.Mines())
		}
	}
}

func buildDefenseTank(env Env, base model.OwnedBase, r *BaseRoster) {
	if base.Crystal() <= base.Cost(model.ItemTank) {
		return
	}
	if uid := base.BuildTank(randHeading(env.Rand)); uid != "" {
		r.DefenseTanks[uid] = true
		r.DefenseTanksBuilt++
		slog.Debug("built defense tank", "base", base.UID(), "tank", uid)
	}
}

func buildAttackTank(env Env, base model.OwnedBase, r *BaseRoster) {
	if base.Crystal() <= base.Cost(model.ItemTank) {
		return
	}
	if uid := base.BuildTank(randHeading(env.Rand)); uid != "" {
		r.AttackTanks[uid] = true
		r.AttackTanksBuilt++
		slog.Debug("built attack tank", "base", base.UID(), "tank", uid)
	}
}

func buildShip(env Env, base model.OwnedBase, r *BaseRoster) {
	if base.Crystal() <= base.Cost(model.ItemShip) {
		return
	}
	if uid := base.BuildShip(randHeading(env.Rand)); uid != "" {
		r.Ships[uid] = true
		r.ShipsBuilt++
		slog.Debug("built ship", "base", base.UID(), "ship", uid)
	}
}

func buildJet(env Env, base model.OwnedBase, r *BaseRoster) {
	if base.Crystal() <= base.Cost(model.ItemJet) {
		return
	}
	if uid := base.BuildJet(randHeading(env.Rand)); uid != "" {
		r.Jets[uid] = true
		r.JetsBuilt++
		slog.Debug("built jet", "base", base.UID(), "jet", uid)
	}
}
