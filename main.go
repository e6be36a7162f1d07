package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chaosmonkeys/vanguard/agent"
	"github.com/chaosmonkeys/vanguard/config"
	"github.com/chaosmonkeys/vanguard/model"
	"github.com/chaosmonkeys/vanguard/sim"
)

const banner = `
██╗   ██╗ █████╗ ███╗   ██╗ ██████╗ ██╗   ██╗ █████╗ ██████╗ ██████╗
██║   ██║██╔══██╗████╗  ██║██╔════╝ ██║   ██║██╔══██╗██╔══██╗██╔══██╗
██║   ██║███████║██╔██╗ ██║██║  ███╗██║   ██║███████║██████╔╝██║  ██║
╚██╗ ██╔╝██╔══██║██║╚██╗██║██║   ██║██║   ██║██╔══██║██╔══██╗██║  ██║
 ╚████╔╝ ██║  ██║██║ ╚████║╚██████╔╝╚██████╔╝██║  ██║██║  ██║██████╔╝
  ╚═══╝  ╚═╝  ╚═╝╚═╝  ╚═══╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝

Crystal-Fleet Strategy Agent`

const team = "ChaosMonkeys"

func main() {
	cfgPath := flag.String("config", "", "strategy YAML (built-in defaults if empty)")
	ticks := flag.Int("ticks", 2000, "number of ticks to simulate")
	dt := flag.Float64("dt", 0.1, "seconds per tick")
	seed := flag.Int64("seed", 1, "agent RNG seed")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			slog.Error("failed to load strategy config", "error", err)
			os.Exit(1)
		}
		slog.Info("loaded strategy config", "path", *cfgPath, "stages", len(cfg.Stages))
	}

	a, err := agent.New(team, cfg, *seed)
	if err != nil {
		slog.Error("failed to build agent", "error", err)
		os.Exit(1)
	}

	world := skirmishWorld()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("starting skirmish", "team", team, "ticks", *ticks, "dt", *dt)

	t := 0.0
loop:
	for i := 0; i < *ticks; i++ {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", i)
			break loop
		default:
		}
		a.Process(t, *dt, world.Snapshot(), world.Terrain)
		world.Step(*dt)
		t += *dt
	}

	summarize(world.Snapshot())
}

// skirmishWorld lays out a two-island map: our island in the northwest,
// the opposing Drifters in the southeast, water in between so ships and
// jets have something to do. The Drifters never act; they exist to give
// the threat and targeting logic something to aim at.
func skirmishWorld() *sim.World {
	const size = 480.0
	terrain := model.NewTerrainGrid(48, 48, 10)
	for row := 0; row < 48; row++ {
		for col := 0; col < 48; col++ {
			terrain.Set(col, row, model.Water)
		}
	}
	fillIsland(terrain, 2, 2, 14, 14)
	fillIsland(terrain, 32, 32, 44, 44)

	world := sim.NewWorld(size, terrain)
	world.AddBase(team, model.Position{X: 80, Y: 80}, 400)
	drifter := world.AddBase("Drifters", model.Position{X: 380, Y: 380}, 600)
	drifter.BuildTank(45)
	drifter.BuildTank(225)
	drifter.BuildShip(90)
	return world
}

func fillIsland(g *model.TerrainGrid, c0, r0, c1, r1 int) {
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			g.Set(col, row, model.Land)
		}
	}
}

func summarize(snap model.Snapshot) {
	for name, roster := range snap {
		crystal := 0
		mines := 0
		for _, b := range roster.Bases {
			crystal += b.Crystal()
			mines += b.Mines()
		}
		slog.Info("final standing",
			"team", name,
			"bases", len(roster.Bases),
			"mines", mines,
			"crystal", crystal,
			"tanks", len(roster.Tanks),
			"ships", len(roster.Ships),
			"jets", len(roster.Jets),
		)
	}
}
