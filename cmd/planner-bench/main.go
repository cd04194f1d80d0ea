// planner-bench drives the planning service with a synthetic agent load
// over a generated maze and reports the status metrics.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/pathplan/config"
	"github.com/lixenwraith/pathplan/core"
	"github.com/lixenwraith/pathplan/gridnav"
	"github.com/lixenwraith/pathplan/maze"
	"github.com/lixenwraith/pathplan/navigation"
	"github.com/lixenwraith/pathplan/status"
)

var (
	agents   = flag.Int("agents", 200, "Concurrent agents issuing queries")
	ticks    = flag.Int("ticks", 600, "Simulation ticks to run")
	mazeSize = flag.Int("maze", 129, "Maze width/height in cells")
	braiding = flag.Float64("braid", 0.3, "Maze braiding factor 0..1")
	seed     = flag.Int64("seed", 1, "Maze and agent placement seed")
	verbose  = flag.Bool("v", false, "Debug logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load()
	if err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}

	res := maze.Generate(maze.Config{
		Width:    *mazeSize,
		Height:   *mazeSize,
		Braiding: *braiding,
		Seed:     *seed,
	})
	grid := gridnav.FromMaze(res, 1.0)

	mgr := navigation.NewPathRequestManager(cfg.ManagerConfig(), grid, log)
	mgr.Register(navigation.NewGraphSearchPlanner(grid, mgr.Status()))
	mgr.Register(navigation.NewUniformCostPlanner(grid, mgr.Status()))
	mgr.Register(navigation.NewFlowFieldPlanner(grid, mgr.Status(), log))
	mgr.SetDensityMultipliers(cfg.GraphDensityMultiplier, cfg.FlowDensityMultiplier)

	rng := rand.New(rand.NewSource(*seed))
	open := openCells(res)
	if len(open) == 0 {
		log.Error("maze has no open cells")
		os.Exit(1)
	}

	sharedGoal := grid.PositionFromCell(core.Point{X: res.End.X, Y: res.End.Y})
	world := navigation.WorldState{MapIsVeryLarge: *mazeSize >= 128}

	type agentState struct {
		pos  core.Vec3
		task *navigation.PathTask
	}
	sim := make([]agentState, *agents)
	for i := range sim {
		c := open[rng.Intn(len(open))]
		sim[i].pos = grid.PositionFromCell(c)
	}

	const dt = 1.0 / 60.0
	started := time.Now()

	for tick := 0; tick < *ticks; tick++ {
		world.DensitySpikeLevel = float64(*agents) / float64(len(open))
		mgr.SetWorldState(world)

		for i := range sim {
			a := &sim[i]
			if a.task != nil && !a.task.IsCompleted {
				continue // Still owed a result from a previous frame
			}

			q := &navigation.PathQuery{
				Start:    a.pos,
				AreaMask: navigation.AreaMaskAll,
			}
			// A third of the crowd flows to the shared goal, the rest roam
			if i%3 == 0 {
				q.Goal = sharedGoal
				q.Hints = navigation.HintManyAgentsToSameGoal
				q.GroupID = 1
			} else {
				q.Goal = grid.PositionFromCell(open[rng.Intn(len(open))])
				if i%7 == 0 {
					q.Hints = navigation.HintAvoidCrowds
				}
			}
			a.task = mgr.Enqueue(q)
		}

		// Crowd density decays, then agents stamp their cells
		grid.ClearDensity()
		for i := range sim {
			if c, ok := grid.CellFromPosition(sim[i].pos); ok {
				grid.AddDensity(c.X, c.Y, 1)
			}
		}

		mgr.Update(dt)

		// Agents hop to their first corner past the start
		for i := range sim {
			t := sim[i].task
			if t != nil && t.IsCompleted && t.Succeeded && len(t.Corners) > 1 {
				sim[i].pos = t.Corners[1]
			}
		}
	}

	elapsed := time.Since(started)
	fmt.Printf("agents=%d ticks=%d maze=%dx%d mode=%s\n",
		*agents, *ticks, *mazeSize, *mazeSize, cfg.Mode)
	fmt.Printf("elapsed=%v per-tick=%v pending=%d\n",
		elapsed, elapsed/time.Duration(*ticks), mgr.PendingCount())

	mgr.Status().Ints.Range(func(key string, ptr *atomic.Int64) {
		fmt.Printf("%-24s %d\n", key, ptr.Load())
	})
	mgr.Status().Floats.Range(func(key string, ptr *status.AtomicFloat) {
		fmt.Printf("%-24s %.3f\n", key, ptr.Get())
	})
}

func openCells(res maze.Result) []core.Point {
	var cells []core.Point
	for y := range res.Grid {
		for x := range res.Grid[y] {
			if res.Grid[y][x] == maze.Passage {
				cells = append(cells, core.Point{X: x, Y: y})
			}
		}
	}
	return cells
}
