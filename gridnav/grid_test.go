package gridnav

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/lixenwraith/pathplan/core"
	"github.com/lixenwraith/pathplan/navigation"
)

func TestCellPositionRoundTrip(t *testing.T) {
	g := New(10, 8, 2.0)

	tests := []struct {
		name     string
		pos      core.Vec3
		wantCell core.Point
		wantOK   bool
	}{
		{"Origin corner", core.Vec3{X: 0.1, Z: 0.1}, core.Point{X: 0, Y: 0}, true},
		{"Cell interior", core.Vec3{X: 5.0, Z: 3.0}, core.Point{X: 2, Y: 1}, true},
		{"Far corner", core.Vec3{X: 19.9, Z: 15.9}, core.Point{X: 9, Y: 7}, true},
		{"Negative X", core.Vec3{X: -0.1, Z: 1}, core.Point{}, false},
		{"Past east edge", core.Vec3{X: 20.1, Z: 1}, core.Point{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell, ok := g.CellFromPosition(tt.pos)
			if ok != tt.wantOK {
				t.Fatalf("CellFromPosition ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if cell != tt.wantCell {
				t.Errorf("CellFromPosition = %v, want %v", cell, tt.wantCell)
			}
			// The cell center quantizes back to the same cell
			back, ok := g.CellFromPosition(g.PositionFromCell(cell))
			if !ok || back != cell {
				t.Errorf("Round trip %v → %v", cell, back)
			}
		})
	}
}

func TestNeighborsCornerCutting(t *testing.T) {
	//  . # .
	//  . . .
	// The wall at (1,0) removes both the edge into it and the NE diagonal
	// from (1,1) that would cut its corner
	g := New(3, 2, 1.0)
	g.SetBlocked(1, 0, true)

	node := navigation.NodeID(1*3 + 0) // Cell (0,1)
	neighbors := g.Neighbors(node, navigation.AreaMaskAll, nil)

	for _, nb := range neighbors {
		if nb.To == navigation.NodeID(1) {
			t.Error("Expected no edge into the blocked cell")
		}
	}
	// Open neighbors of (0,1): north to (0,0) and east to (1,1); the NE
	// diagonal to (1,0) is the wall itself and everything south is out of
	// bounds
	want := []navigation.Neighbor{
		{To: navigation.NodeID(0), Length: 1},
		{To: navigation.NodeID(1*3 + 1), Length: 1},
	}
	if diff := cmp.Diff(want, neighbors, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Neighbors mismatch (-want +got):\n%s", diff)
	}

	// The NW diagonal from (1,1) to (0,0) would cut the wall's corner
	for _, nb := range g.Neighbors(navigation.NodeID(1*3+1), navigation.AreaMaskAll, nil) {
		if nb.To == navigation.NodeID(0) {
			t.Error("Expected corner-cutting diagonal to be excluded")
		}
	}
}

func TestNeighborsOpenCell(t *testing.T) {
	g := New(3, 3, 2.0)
	node := navigation.NodeID(1*3 + 1) // Center cell

	neighbors := g.Neighbors(node, navigation.AreaMaskAll, nil)
	if len(neighbors) != 8 {
		t.Fatalf("Expected 8 neighbors from an open center, got %d", len(neighbors))
	}

	cardinals, diagonals := 0, 0
	for _, nb := range neighbors {
		switch {
		case math.Abs(nb.Length-2.0) < 1e-9:
			cardinals++
		case math.Abs(nb.Length-2.0*math.Sqrt2) < 1e-9:
			diagonals++
		default:
			t.Errorf("Unexpected edge length %v", nb.Length)
		}
	}
	if cardinals != 4 || diagonals != 4 {
		t.Errorf("Expected 4 cardinal and 4 diagonal edges, got %d and %d", cardinals, diagonals)
	}
}

func TestLocateNodeStrict(t *testing.T) {
	g := New(4, 4, 1.0)
	g.SetBlocked(2, 2, true)
	g.SetArea(1, 1, 2)

	tests := []struct {
		name   string
		pos    core.Vec3
		mask   uint32
		wantOK bool
	}{
		{"Open cell", core.Vec3{X: 0.5, Z: 0.5}, navigation.AreaMaskAll, true},
		{"Blocked cell fails", core.Vec3{X: 2.5, Z: 2.5}, navigation.AreaMaskAll, false},
		{"Out of bounds fails", core.Vec3{X: -1, Z: 0}, navigation.AreaMaskAll, false},
		{"Mask mismatch fails", core.Vec3{X: 1.5, Z: 1.5}, 1, false},
		{"Mask match passes", core.Vec3{X: 1.5, Z: 1.5}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := g.LocateNode(tt.pos, tt.mask)
			if ok != tt.wantOK {
				t.Errorf("LocateNode ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestEdgeDensityAverages(t *testing.T) {
	g := New(2, 1, 1.0)
	g.SetDensity(0, 0, 4)
	g.SetDensity(1, 0, 2)

	if got := g.EdgeDensity(0, 1); got != 3 {
		t.Errorf("EdgeDensity = %v, want 3", got)
	}
}

func TestDensityAccumulation(t *testing.T) {
	g := New(2, 2, 1.0)

	g.AddDensity(0, 0, 2)
	g.AddDensity(0, 0, 1.5)
	if got := g.DensityAt(0, 0); got != 3.5 {
		t.Errorf("DensityAt = %v, want 3.5", got)
	}

	g.AddDensity(0, 0, -10)
	if got := g.DensityAt(0, 0); got != 0 {
		t.Errorf("Expected density clamped at zero, got %v", got)
	}

	g.SetDensity(1, 1, 7)
	g.ClearDensity()
	if got := g.DensityAt(1, 1); got != 0 {
		t.Errorf("Expected cleared density, got %v", got)
	}
}

func TestSamplePosition(t *testing.T) {
	g := New(5, 5, 1.0)
	g.SetBlocked(2, 2, true)

	tests := []struct {
		name    string
		pos     core.Vec3
		maxDist float64
		wantOK  bool
	}{
		{"Open cell snaps to own center", core.Vec3{X: 1.3, Z: 1.8}, 2, true},
		{"Blocked cell snaps to a neighbor", core.Vec3{X: 2.5, Z: 2.5}, 2, true},
		{"Overshoot past the edge snaps inward", core.Vec3{X: 5.4, Z: 2.5}, 2, true},
		{"Radius too small fails", core.Vec3{X: 2.5, Z: 2.5}, 0.1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapped, ok := g.SamplePosition(tt.pos, tt.maxDist, navigation.AreaMaskAll)
			if ok != tt.wantOK {
				t.Fatalf("SamplePosition ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			cell, ok := g.CellFromPosition(snapped)
			if !ok {
				t.Fatal("Expected snapped position to lie on the grid")
			}
			if g.Blocked(cell.X, cell.Y) {
				t.Error("Expected snapped position to be passable")
			}
			if snapped.Dist(tt.pos) > tt.maxDist {
				t.Errorf("Snap distance %v exceeds max %v", snapped.Dist(tt.pos), tt.maxDist)
			}
		})
	}
}

func TestCalculatePath(t *testing.T) {
	//  . . . . .
	//  . # # # .
	//  . . . . .
	g := New(5, 3, 1.0)
	for x := 1; x < 4; x++ {
		g.SetBlocked(x, 1, true)
	}

	start := core.Vec3{X: 0.5, Z: 1.5}
	goal := core.Vec3{X: 4.5, Z: 1.5}
	corners, st := g.CalculatePath(start, goal, navigation.AreaMaskAll)

	if st != navigation.PathStatusComplete {
		t.Fatalf("Expected complete status, got %v", st)
	}
	if corners[0] != start || corners[len(corners)-1] != goal {
		t.Error("Expected corridor bracketed by the exact endpoints")
	}
	// Every interior corner is passable and adjacent to its predecessor
	for i := 1; i < len(corners); i++ {
		cell, ok := g.CellFromPosition(corners[i])
		if !ok || g.Blocked(cell.X, cell.Y) {
			t.Errorf("Corner %d lies on a blocked or off-grid cell", i)
		}
		prev, _ := g.CellFromPosition(corners[i-1])
		dx, dy := cell.X-prev.X, cell.Y-prev.Y
		if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
			t.Errorf("Corner %d jumps more than one cell", i)
		}
	}
}

func TestCalculatePathSameCell(t *testing.T) {
	g := New(3, 3, 1.0)
	start := core.Vec3{X: 1.2, Z: 1.3}
	goal := core.Vec3{X: 1.8, Z: 1.6}

	corners, st := g.CalculatePath(start, goal, navigation.AreaMaskAll)
	if st != navigation.PathStatusComplete {
		t.Fatalf("Expected complete status, got %v", st)
	}
	want := []core.Vec3{start, goal}
	if diff := cmp.Diff(want, corners); diff != "" {
		t.Errorf("Corners mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculatePathUnreachable(t *testing.T) {
	g := New(3, 3, 1.0)
	g.SetBlocked(1, 0, true)
	g.SetBlocked(1, 1, true)
	g.SetBlocked(1, 2, true)

	_, st := g.CalculatePath(
		core.Vec3{X: 0.5, Z: 0.5},
		core.Vec3{X: 2.5, Z: 0.5},
		navigation.AreaMaskAll,
	)
	if st != navigation.PathStatusInvalid {
		t.Errorf("Expected invalid status across a full wall, got %v", st)
	}
}

// A query restricted by area mask must fail the same way through every
// path to a corridor: the planners and the direct BFS fallback agree when
// the only route crosses an excluded area class
func TestPlannersMatchFallbackOnAreaMask(t *testing.T) {
	// 5x1 corridor, middle cell in area class 2
	g := New(5, 1, 1.0)
	g.SetArea(2, 0, 2)

	start := core.Vec3{X: 0.5, Z: 0.5}
	goal := core.Vec3{X: 4.5, Z: 0.5}

	queryWith := func(mask uint32) *navigation.PathQuery {
		return &navigation.PathQuery{Start: start, Goal: goal, AreaMask: mask}
	}

	if _, st := g.CalculatePath(start, goal, 1); st != navigation.PathStatusInvalid {
		t.Fatalf("Expected fallback corridor invalid under mask 1, got %v", st)
	}

	astar := navigation.NewGraphSearchPlanner(g, nil)
	dijkstra := navigation.NewUniformCostPlanner(g, nil)
	for name, p := range map[string]navigation.Planner{"graph search": astar, "uniform cost": dijkstra} {
		task := &navigation.PathTask{}
		p.RequestPath(queryWith(1), task)
		if task.Succeeded {
			t.Errorf("%s: expected route through excluded class to fail like the fallback", name)
		}

		task = &navigation.PathTask{}
		p.RequestPath(queryWith(1|2), task)
		if !task.Succeeded {
			t.Errorf("%s: expected route to pass once the mask admits the class", name)
		}
	}
}

func TestClearanceViewFatAgent(t *testing.T) {
	//  . . . . .
	//  # # . # #
	//  . . . . .
	// The middle gap is one cell wide: fine for a thin agent, fatal for a
	// footprint wider than a cell
	g := New(5, 3, 1.0)
	g.SetBlocked(0, 1, true)
	g.SetBlocked(1, 1, true)
	g.SetBlocked(3, 1, true)
	g.SetBlocked(4, 1, true)

	thin := g.ClearanceView(0.4)
	if thin.Blocked(2, 1) {
		t.Error("Expected thin agent to fit the gap")
	}

	fat := g.ClearanceView(1.0)
	if !fat.Blocked(2, 1) {
		t.Error("Expected fat agent footprint to fail in the gap")
	}
	if !fat.Blocked(2, 0) {
		t.Error("Expected footprint centered on the border row to be blocked")
	}
}

func TestClearanceViewRecompute(t *testing.T) {
	g := New(5, 5, 1.0)
	v := g.ClearanceView(1.0)

	if v.Blocked(2, 2) {
		t.Fatal("Expected open interior for the footprint")
	}

	g.SetBlocked(2, 2, true)
	v.Recompute()
	if !v.Blocked(2, 2) {
		t.Error("Expected recompute to pick up the new wall")
	}
	if !v.Blocked(3, 2) {
		t.Error("Expected neighboring footprint to overlap the new wall")
	}
}

func TestClearanceViewBounds(t *testing.T) {
	g := New(4, 4, 1.0)
	v := g.ClearanceView(1.0)

	// A 3-cell footprint cannot center on the border
	for i := 0; i < 4; i++ {
		if !v.Blocked(i, 0) || !v.Blocked(0, i) {
			t.Fatalf("Expected border cell (%d) blocked for the footprint", i)
		}
	}
	if v.Blocked(1, 1) {
		t.Error("Expected interior cell open for the footprint")
	}
}
