package navigation

import (
	"sync/atomic"

	"github.com/lixenwraith/pathplan/parameter"
	"github.com/lixenwraith/pathplan/status"
)

// UniformCostPlanner runs the same search machinery with no heuristic term
// Correct on graphs where straight-line distance misleads (sparse or
// irregular connectivity) and under topology churn that outpaces a
// heuristic search; slower than GraphSearchPlanner on large maps, so the
// selector only picks it when indicated
type UniformCostPlanner struct {
	graph   NavGraph
	scratch searchScratch

	densityMult  float64
	expansionCap int

	statSearches *atomic.Int64
	statExpanded *atomic.Int64
	statFailed   *atomic.Int64
}

// NewUniformCostPlanner creates a planner over the given graph
// A nil registry allocates a private one
func NewUniformCostPlanner(graph NavGraph, reg *status.Registry) *UniformCostPlanner {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &UniformCostPlanner{
		graph:        graph,
		scratch:      newSearchScratch(),
		densityMult:  parameter.DefaultGraphDensityMultiplier,
		expansionCap: parameter.NodeExpansionCap,
		statSearches: reg.Ints.Get("search.dijkstra.requests"),
		statExpanded: reg.Ints.Get("search.expanded"),
		statFailed:   reg.Ints.Get("search.failed"),
	}
}

func (p *UniformCostPlanner) Kind() PlannerKind {
	return KindUniformCost
}

// SetDensityMultiplier tunes the density cost term at runtime; 0 disables it
func (p *UniformCostPlanner) SetDensityMultiplier(mult float64) {
	p.densityMult = mult
}

// RequestPath completes synchronously in the same call
func (p *UniformCostPlanner) RequestPath(q *PathQuery, t *PathTask) {
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

	found, expanded := p.scratch.findPath(
		p.graph, start, goal, q.AreaMask, nil,
		p.densityMult, p.expansionCap,
	)
	p.statExpanded.Add(int64(expanded))
	if !found {
		p.statFailed.Add(1)
		t.fail()
		return
	}
	t.complete(p.scratch.corners(p.graph, q, goal))
}

// Update is a no-op; every search completes within RequestPath
func (p *UniformCostPlanner) Update(dt float64) {}
