package navigation

import "github.com/lixenwraith/pathplan/core"

// stubGraph is a hand-built node graph for planner tests
type stubGraph struct {
	positions []core.Vec3
	edges     map[NodeID][]Neighbor
	density   map[[2]NodeID]float64
	area      map[NodeID]uint32 // Unset nodes default to area class 1

	// snapRadius bounds LocateNode resolution; points farther from every
	// node stay off-mesh
	snapRadius float64
}

func newStubGraph(positions ...core.Vec3) *stubGraph {
	return &stubGraph{
		positions:  positions,
		edges:      make(map[NodeID][]Neighbor),
		density:    make(map[[2]NodeID]float64),
		area:       make(map[NodeID]uint32),
		snapRadius: 0.5,
	}
}

// link adds a bidirectional edge of the given length
func (g *stubGraph) link(a, b NodeID, length float64) {
	g.edges[a] = append(g.edges[a], Neighbor{To: b, Length: length})
	g.edges[b] = append(g.edges[b], Neighbor{To: a, Length: length})
}

func (g *stubGraph) setDensity(a, b NodeID, d float64) {
	g.density[[2]NodeID{a, b}] = d
	g.density[[2]NodeID{b, a}] = d
}

func (g *stubGraph) setArea(n NodeID, area uint32) {
	g.area[n] = area
}

func (g *stubGraph) areaOf(n NodeID) uint32 {
	if a, ok := g.area[n]; ok {
		return a
	}
	return 1
}

func (g *stubGraph) NodeCount() int {
	return len(g.positions)
}

func (g *stubGraph) Neighbors(n NodeID, areaMask uint32, buf []Neighbor) []Neighbor {
	if g.areaOf(n)&areaMask == 0 {
		return buf
	}
	for _, nb := range g.edges[n] {
		if g.areaOf(nb.To)&areaMask == 0 {
			continue
		}
		buf = append(buf, nb)
	}
	return buf
}

func (g *stubGraph) NodePosition(n NodeID) core.Vec3 {
	return g.positions[n]
}

func (g *stubGraph) LocateNode(p core.Vec3, areaMask uint32) (NodeID, bool) {
	best := NodeInvalid
	bestDist := g.snapRadius
	for i, pos := range g.positions {
		if g.areaOf(NodeID(i))&areaMask == 0 {
			continue
		}
		if d := pos.Dist(p); d <= bestDist {
			best = NodeID(i)
			bestDist = d
		}
	}
	return best, best != NodeInvalid
}

func (g *stubGraph) EdgeDensity(from, to NodeID) float64 {
	return g.density[[2]NodeID{from, to}]
}

// stubGrid is a wall-array cell grid for flow field tests, unit cell size
type stubGrid struct {
	w, h    int
	walls   []bool
	areas   []uint32
	density []float64
}

func newStubGrid(w, h int) *stubGrid {
	g := &stubGrid{
		w:       w,
		h:       h,
		walls:   make([]bool, w*h),
		areas:   make([]uint32, w*h),
		density: make([]float64, w*h),
	}
	for i := range g.areas {
		g.areas[i] = 1
	}
	return g
}

func (g *stubGrid) block(x, y int) {
	g.walls[y*g.w+x] = true
}

func (g *stubGrid) setArea(x, y int, area uint32) {
	g.areas[y*g.w+x] = area
}

func (g *stubGrid) GridSize() (int, int) {
	return g.w, g.h
}

func (g *stubGrid) CellFromPosition(p core.Vec3) (core.Point, bool) {
	x, y := int(p.X), int(p.Z)
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return core.Point{}, false
	}
	return core.Point{X: x, Y: y}, true
}

func (g *stubGrid) PositionFromCell(c core.Point) core.Vec3 {
	return core.Vec3{X: float64(c.X) + 0.5, Z: float64(c.Y) + 0.5}
}

func (g *stubGrid) Blocked(x, y int) bool {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return true
	}
	return g.walls[y*g.w+x]
}

func (g *stubGrid) AreaAt(x, y int) uint32 {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return 0
	}
	return g.areas[y*g.w+x]
}

func (g *stubGrid) DensityAt(x, y int) float64 {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return 0
	}
	return g.density[y*g.w+x]
}

// stubNavService records fallback calls and returns a canned corridor
type stubNavService struct {
	corners []core.Vec3
	status  PathStatus
	calls   int
}

func (s *stubNavService) SamplePosition(p core.Vec3, maxDistance float64, areaMask uint32) (core.Vec3, bool) {
	return p, true
}

func (s *stubNavService) CalculatePath(start, goal core.Vec3, areaMask uint32) ([]core.Vec3, PathStatus) {
	s.calls++
	return s.corners, s.status
}

// stubPlanner reports a fixed kind and counts requests
type stubPlanner struct {
	kind     PlannerKind
	requests int
	updates  int
}

func (p *stubPlanner) Kind() PlannerKind {
	return p.kind
}

func (p *stubPlanner) RequestPath(q *PathQuery, t *PathTask) {
	p.requests++
	t.complete([]core.Vec3{q.Start, q.Goal})
}

func (p *stubPlanner) Update(dt float64) {
	p.updates++
}
