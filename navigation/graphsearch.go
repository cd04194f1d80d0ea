package navigation

import (
	"math"
	"sync/atomic"

	"github.com/lixenwraith/pathplan/core"
	"github.com/lixenwraith/pathplan/parameter"
	"github.com/lixenwraith/pathplan/status"
)

// searchScratch is the reusable state of one graph-search planner
// Slices are sized to the graph once and cleared by epoch bump between
// searches, never reallocated on the hot path
type searchScratch struct {
	open     *BinaryHeap[NodeID]
	gScore   []float64
	cameFrom []NodeID
	touched  []uint32 // epoch when gScore/cameFrom became valid
	closed   []uint32 // epoch when node was finalized
	epoch    uint32
	nbuf     []Neighbor
}

func newSearchScratch() searchScratch {
	return searchScratch{
		open: NewBinaryHeap[NodeID](parameter.OpenSetInitialCapacity),
		nbuf: make([]Neighbor, 0, 8),
	}
}

// begin prepares scratch for a search over a graph of n nodes
func (s *searchScratch) begin(n int) {
	if len(s.gScore) < n {
		s.gScore = make([]float64, n)
		s.cameFrom = make([]NodeID, n)
		s.touched = make([]uint32, n)
		s.closed = make([]uint32, n)
	}
	s.epoch++
	s.open.Clear()
}

func (s *searchScratch) g(n NodeID) float64 {
	if s.touched[n] != s.epoch {
		return math.Inf(1)
	}
	return s.gScore[n]
}

func (s *searchScratch) relax(n, from NodeID, g float64) {
	s.gScore[n] = g
	s.cameFrom[n] = from
	s.touched[n] = s.epoch
}

// findPath runs best-first search from start to goal, expanding only edges
// traversable under areaMask
// heuristic may be nil for uniform-cost expansion; densityMult scales the
// crowd-density edge cost term. Returns false when the open set exhausts or
// the expansion cap trips before reaching goal
func (s *searchScratch) findPath(
	graph NavGraph,
	start, goal NodeID,
	areaMask uint32,
	heuristic func(n NodeID) float64,
	densityMult float64,
	expansionCap int,
) (found bool, expanded int) {
	s.begin(graph.NodeCount())

	s.relax(start, NodeInvalid, 0)
	h0 := 0.0
	if heuristic != nil {
		h0 = heuristic(start)
	}
	s.open.Push(h0, start)

	for s.open.Count() > 0 {
		cur, _ := s.open.Pop()
		if s.closed[cur] == s.epoch {
			continue // Stale entry
		}
		s.closed[cur] = s.epoch
		expanded++

		if cur == goal {
			return true, expanded
		}
		if expansionCap > 0 && expanded >= expansionCap {
			return false, expanded
		}

		curG := s.gScore[cur]
		s.nbuf = graph.Neighbors(cur, areaMask, s.nbuf[:0])
		for _, nb := range s.nbuf {
			if s.closed[nb.To] == s.epoch {
				continue
			}
			cost := nb.Length
			if densityMult != 0 {
				cost += densityMult * graph.EdgeDensity(cur, nb.To)
			}
			tentative := curG + cost
			if tentative >= s.g(nb.To) {
				continue
			}
			s.relax(nb.To, cur, tentative)
			f := tentative
			if heuristic != nil {
				f += heuristic(nb.To)
			}
			s.open.Push(f, nb.To)
		}
	}

	return false, expanded
}

// corners rebuilds the corridor polyline for a completed search
// The caller's exact start and goal points bracket the interior node chain;
// interior points collinear-adjacent to the endpoints are folded away
func (s *searchScratch) corners(graph NavGraph, q *PathQuery, goal NodeID) []core.Vec3 {
	// Walk back to start, then reverse in place
	var chain []core.Vec3
	for n := goal; n != NodeInvalid; n = s.cameFrom[n] {
		chain = append(chain, graph.NodePosition(n))
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	const snapEpsilon = 1e-6
	corners := make([]core.Vec3, 0, len(chain)+1)
	corners = append(corners, q.Start)
	for _, p := range chain {
		if p.Dist(corners[len(corners)-1]) <= snapEpsilon {
			continue
		}
		corners = append(corners, p)
	}
	// The final chain point is the center of the node q.Goal resolved to,
	// so it is always replaced by the exact goal point
	if last := len(corners) - 1; last > 0 {
		corners[last] = q.Goal
	} else {
		corners = append(corners, q.Goal)
	}
	return corners
}

// GraphSearchPlanner computes near-shortest corridors with heuristic search
// Straight-line distance to goal is the admissible estimate; a configurable
// density multiplier biases routes away from crowded regions
type GraphSearchPlanner struct {
	graph   NavGraph
	scratch searchScratch

	densityMult  float64
	expansionCap int

	statSearches *atomic.Int64
	statExpanded *atomic.Int64
	statFailed   *atomic.Int64
}

// NewGraphSearchPlanner creates a planner over the given graph
// A nil registry allocates a private one
func NewGraphSearchPlanner(graph NavGraph, reg *status.Registry) *GraphSearchPlanner {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &GraphSearchPlanner{
		graph:        graph,
		scratch:      newSearchScratch(),
		densityMult:  parameter.DefaultGraphDensityMultiplier,
		expansionCap: parameter.NodeExpansionCap,
		statSearches: reg.Ints.Get("search.astar.requests"),
		statExpanded: reg.Ints.Get("search.expanded"),
		statFailed:   reg.Ints.Get("search.failed"),
	}
}

func (p *GraphSearchPlanner) Kind() PlannerKind {
	return KindGraphSearch
}

// SetDensityMultiplier tunes the density cost term at runtime; 0 disables it
func (p *GraphSearchPlanner) SetDensityMultiplier(mult float64) {
	p.densityMult = mult
}

// SetExpansionCap bounds per-invocation work; 0 removes the bound
func (p *GraphSearchPlanner) SetExpansionCap(n int) {
	p.expansionCap = n
}

// RequestPath completes synchronously in the same call
func (p *GraphSearchPlanner) RequestPath(q *PathQuery, t *PathTask) {
	p.statSearches.Add(1)

	start, ok := p.graph.LocateNode(q.Start, q.AreaMask)
	if !ok {
		p.statFailed.Add(1)
		t.fail()
		return
	}
	goal, ok := p.graph.LocateNode(q.Goal, q.AreaMask)
	if !ok {
		p.statFailed.Add(1)
		t.fail()
		return
	}

	goalPos := p.graph.NodePosition(goal)
	heuristic := func(n NodeID) float64 {
		return p.graph.NodePosition(n).Dist(goalPos)
	}

	found, expanded := p.scratch.findPath(
		p.graph, start, goal, q.AreaMask, heuristic,
		p.effectiveDensityMult(q), p.expansionCap,
	)
	p.statExpanded.Add(int64(expanded))
	if !found {
		p.statFailed.Add(1)
		t.fail()
		return
	}
	t.complete(p.scratch.corners(p.graph, q, goal))
}

// effectiveDensityMult applies crowd-related hints to the configured multiplier
// AvoidCrowds doubles the steering term; BossCharge plows straight through
func (p *GraphSearchPlanner) effectiveDensityMult(q *PathQuery) float64 {
	switch {
	case q.Hints.Has(HintBossCharge):
		return 0
	case q.Hints.Has(HintAvoidCrowds):
		return p.densityMult * 2
	}
	return p.densityMult
}

// Update is a no-op; every search completes within RequestPath
func (p *GraphSearchPlanner) Update(dt float64) {}
