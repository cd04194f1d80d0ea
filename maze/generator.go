// Package maze generates stochastic grid mazes for planner fixtures and
// load harnesses: a recursive-backtracker spanning tree with optional
// braiding to inject cycles.
package maze

import "math/rand"

// Cell types
const (
	Wall    = true
	Passage = false
)

type Point struct {
	X, Y int
}

type Config struct {
	Width, Height int

	// Braiding: 0.0 keeps the perfect maze (tree), 1.0 opens every dead end
	// into a loop
	Braiding float64

	// Seed fixes the RNG; 0 is a valid fixed seed, not a randomizer —
	// generation stays reproducible for test fixtures
	Seed int64
}

type Result struct {
	Grid       [][]bool
	Start, End Point
}

// Generate creates a maze; Start/End are the conventional opposite corners
func Generate(cfg Config) Result {
	rows := ensureOdd(cfg.Height)
	cols := ensureOdd(cfg.Width)

	grid := make([][]bool, rows)
	for y := range grid {
		grid[y] = make([]bool, cols)
		for x := range grid[y] {
			grid[y][x] = Wall
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	start := Point{1, 1}
	end := Point{cols - 2, rows - 2}

	carveBacktracker(grid, start, rng)

	if cfg.Braiding > 0 {
		braid(grid, cfg.Braiding, rng)
	}

	grid[start.Y][start.X] = Passage
	grid[end.Y][end.X] = Passage

	return Result{Grid: grid, Start: start, End: end}
}

// carveBacktracker carves a spanning tree over the odd-coordinate rooms
func carveBacktracker(grid [][]bool, start Point, rng *rand.Rand) {
	rows, cols := len(grid), len(grid[0])

	stack := []Point{start}
	grid[start.Y][start.X] = Passage

	jumps := [4]Point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]

		candidates := make([]Point, 0, 4)
		for _, d := range jumps {
			nx, ny := curr.X+d.X, curr.Y+d.Y
			// One-cell wall border stays intact
			if nx > 0 && nx < cols-1 && ny > 0 && ny < rows-1 && grid[ny][nx] == Wall {
				candidates = append(candidates, d)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.Intn(len(candidates))]
		grid[curr.Y+d.Y/2][curr.X+d.X/2] = Passage
		grid[curr.Y+d.Y][curr.X+d.X] = Passage
		stack = append(stack, Point{curr.X + d.X, curr.Y + d.Y})
	}
}

// braid opens dead ends into loops with the given probability, giving the
// planners alternative routes to weigh against density
func braid(grid [][]bool, probability float64, rng *rand.Rand) {
	rows, cols := len(grid), len(grid[0])
	ortho := [4]Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	jumps := [4]Point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}

	for y := 1; y < rows-1; y += 2 {
		for x := 1; x < cols-1; x += 2 {
			if grid[y][x] == Wall {
				continue
			}

			exits := 0
			for _, d := range ortho {
				if grid[y+d.Y][x+d.X] == Passage {
					exits++
				}
			}
			if exits != 1 || rng.Float64() >= probability {
				continue
			}

			// Knock through to a neighboring room behind a blocking wall
			candidates := make([]Point, 0, 4)
			for _, jd := range jumps {
				nx, ny := x+jd.X, y+jd.Y
				wx, wy := x+jd.X/2, y+jd.Y/2
				if nx > 0 && nx < cols-1 && ny > 0 && ny < rows-1 &&
					grid[ny][nx] == Passage && grid[wy][wx] == Wall {
					candidates = append(candidates, Point{wx, wy})
				}
			}
			if len(candidates) > 0 {
				c := candidates[rng.Intn(len(candidates))]
				grid[c.Y][c.X] = Passage
			}
		}
	}
}

func ensureOdd(n int) int {
	if n < 3 {
		return 3
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}
