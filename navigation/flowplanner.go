package navigation

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/pathplan/core"
	"github.com/lixenwraith/pathplan/parameter"
	"github.com/lixenwraith/pathplan/status"
)

// pendingFlowTask is a task owed a result once its goal's field is built
type pendingFlowTask struct {
	query *PathQuery
	task  *PathTask
}

// flowKey identifies one cached field: queries with different area masks
// flow over different traversable surfaces and never share a field
type flowKey struct {
	cell core.Point
	mask uint32
}

// flowEntry is the cached state for one quantized goal cell and mask
type flowEntry struct {
	field    *FlowField
	lastUsed uint64 // Planner tick of the last request against this goal
	building bool   // Queued for a staged build
	pending  []pendingFlowTask
}

// FlowFieldPlanner amortizes many-agents-to-one-goal planning with a shared
// per-goal direction field over the navigation grid
//
// Builds are staged across frames: a request against a missing field is
// returned incomplete and finished by Update once the field exists. At most
// parameter.FlowFieldBuildsPerTick fields build per tick, bounding the
// per-frame cost regardless of how many distinct goals appear at once
type FlowFieldPlanner struct {
	grid NavGrid

	fields     map[flowKey]*flowEntry
	buildQueue []flowKey

	densityMult float64
	evictTicks  uint64
	tick        uint64

	log *slog.Logger

	statRequests  *atomic.Int64
	statHits      *atomic.Int64
	statBuilds    *atomic.Int64
	statEvictions *atomic.Int64
	statBuildMs   *status.AtomicFloat
}

// NewFlowFieldPlanner creates a planner over the given grid
// Nil registry allocates a private one; nil logger uses slog.Default
func NewFlowFieldPlanner(grid NavGrid, reg *status.Registry, log *slog.Logger) *FlowFieldPlanner {
	if reg == nil {
		reg = status.NewRegistry()
	}
	if log == nil {
		log = slog.Default()
	}
	return &FlowFieldPlanner{
		grid:          grid,
		fields:        make(map[flowKey]*flowEntry),
		densityMult:   parameter.DefaultFlowDensityMultiplier,
		evictTicks:    parameter.FlowFieldEvictTicks,
		log:           log,
		statRequests:  reg.Ints.Get("flow.requests"),
		statHits:      reg.Ints.Get("flow.hits"),
		statBuilds:    reg.Ints.Get("flow.builds"),
		statEvictions: reg.Ints.Get("flow.evictions"),
		statBuildMs:   reg.Floats.Get("flow.last_build_ms"),
	}
}

func (p *FlowFieldPlanner) Kind() PlannerKind {
	return KindFlowField
}

// SetDensityMultiplier tunes the density term of future builds; 0 disables it
// Existing fields keep their cost surface until invalidated or rebuilt
func (p *FlowFieldPlanner) SetDensityMultiplier(mult float64) {
	p.densityMult = mult
}

// MarkDirty invalidates every cached field, forcing staged rebuilds on the
// next requests. Callers invoke it after topology changes
func (p *FlowFieldPlanner) MarkDirty() {
	for _, e := range p.fields {
		if e.field != nil {
			e.field.Invalidate()
		}
	}
}

// FieldCount returns the number of cached goal fields
func (p *FlowFieldPlanner) FieldCount() int {
	return len(p.fields)
}

// RequestPath answers from the cached field when one exists for the
// quantized goal cell and area mask; otherwise the task stays incomplete
// until a staged build finishes in a later Update
func (p *FlowFieldPlanner) RequestPath(q *PathQuery, t *PathTask) {
	p.statRequests.Add(1)

	goalCell, ok := p.grid.CellFromPosition(q.Goal)
	if !ok {
		t.fail()
		return
	}
	if _, ok := p.grid.CellFromPosition(q.Start); !ok {
		t.fail()
		return
	}

	key := flowKey{cell: goalCell, mask: q.AreaMask}
	e := p.fields[key]
	if e == nil {
		e = &flowEntry{}
		p.fields[key] = e
	}
	e.lastUsed = p.tick

	if e.field != nil && e.field.Valid {
		p.statHits.Add(1)
		p.fill(q, t, e.field)
		return
	}

	if !e.building {
		e.building = true
		p.buildQueue = append(p.buildQueue, key)
	}
	t.IsCompleted = false
	t.Succeeded = false
	e.pending = append(e.pending, pendingFlowTask{query: q, task: t})
}

// fill resolves one query against a valid field: a two-point corridor stub
// one cell step along the flow direction, or straight to the goal when the
// agent already stands in the goal cell
func (p *FlowFieldPlanner) fill(q *PathQuery, t *PathTask, field *FlowField) {
	t.PlannerData = field.Goal

	agent, ok := p.grid.CellFromPosition(q.Start)
	if !ok {
		t.fail()
		return
	}

	dir := field.DirectionAt(agent.X, agent.Y)
	switch dir {
	case DirTarget:
		t.complete([]core.Vec3{q.Start, q.Goal})
	case DirNone:
		t.fail()
	default:
		next := p.grid.PositionFromCell(core.Point{
			X: agent.X + DirVectors[dir][0],
			Y: agent.Y + DirVectors[dir][1],
		})
		t.complete([]core.Vec3{q.Start, next})
	}
}

// Update advances staged builds and evicts idle fields
func (p *FlowFieldPlanner) Update(dt float64) {
	p.tick++

	for builds := 0; builds < parameter.FlowFieldBuildsPerTick && len(p.buildQueue) > 0; builds++ {
		key := p.buildQueue[0]
		p.buildQueue = p.buildQueue[1:]
		p.build(key)
	}

	p.evictIdle()
}

func (p *FlowFieldPlanner) build(key flowKey) {
	e := p.fields[key]
	if e == nil {
		return
	}
	e.building = false

	w, h := p.grid.GridSize()
	if e.field == nil || e.field.Width != w || e.field.Height != h {
		e.field = NewFlowField(w, h)
	}

	started := time.Now()
	e.field.Compute(key.cell, p.grid, key.mask, p.densityMult)
	p.statBuildMs.Set(float64(time.Since(started)) / float64(time.Millisecond))

	if e.field.Valid {
		p.statBuilds.Add(1)
		for _, pf := range e.pending {
			p.fill(pf.query, pf.task, e.field)
		}
		e.pending = e.pending[:0]
		return
	}

	// Unreachable goal cell: fail the waiters, retain nothing
	p.log.Debug("flow field build failed",
		"goal_x", key.cell.X, "goal_y", key.cell.Y, "area_mask", key.mask)
	for _, pf := range e.pending {
		pf.task.fail()
	}
	delete(p.fields, key)
}

func (p *FlowFieldPlanner) evictIdle() {
	for key, e := range p.fields {
		if e.building || len(e.pending) > 0 {
			continue
		}
		if p.tick-e.lastUsed > p.evictTicks {
			delete(p.fields, key)
			p.statEvictions.Add(1)
		}
	}
}
