package navigation

import (
	"log/slog"
	"sync/atomic"

	"github.com/lixenwraith/pathplan/parameter"
	"github.com/lixenwraith/pathplan/status"
)

// ExecutionMode selects how Enqueue executes requests
type ExecutionMode uint8

const (
	// ModeImmediate executes each request synchronously inside Enqueue
	ModeImmediate ExecutionMode = iota

	// ModeBudgeted queues requests and drains up to the frame budgets per
	// Update tick, deferring the rest to later frames
	ModeBudgeted
)

func (m ExecutionMode) String() string {
	if m == ModeBudgeted {
		return "budgeted"
	}
	return "immediate"
}

// ManagerConfig is the construction-time configuration of the manager
// Zero budgets fall back to the parameter defaults
type ManagerConfig struct {
	Mode               ExecutionMode
	MaxPlansPerFrame   int
	MaxReplansPerFrame int
}

// pendingRequest is one queued plan awaiting frame budget
type pendingRequest struct {
	query *PathQuery
	task  *PathTask
}

// PathRequestManager is the single integration point of the planning
// service: it owns the registered planners, routes each query through the
// selector, enforces the per-frame budgets, and falls back to the external
// navigation service when no planner is registered
//
// Constructed once by the composition root and passed to every consumer;
// single-threaded, driven by the simulation's main update loop
type PathRequestManager struct {
	planners []Planner
	world    WorldState
	fallback NavService

	mode               ExecutionMode
	maxPlansPerFrame   int
	maxReplansPerFrame int

	pendingPlans   []pendingRequest
	pendingReplans []pendingRequest

	log *slog.Logger
	reg *status.Registry

	statRequests  *atomic.Int64
	statReplans   *atomic.Int64
	statCompleted *atomic.Int64
	statDeferred  *atomic.Int64
	statFailed    *atomic.Int64
	statFallbacks *atomic.Int64
}

// NewPathRequestManager creates a manager with no planners registered
// fallback may be nil only if at least one planner is registered before the
// first Enqueue; nil logger uses slog.Default
func NewPathRequestManager(cfg ManagerConfig, fallback NavService, log *slog.Logger) *PathRequestManager {
	if cfg.MaxPlansPerFrame <= 0 {
		cfg.MaxPlansPerFrame = parameter.DefaultMaxPlansPerFrame
	}
	if cfg.MaxReplansPerFrame <= 0 {
		cfg.MaxReplansPerFrame = parameter.DefaultMaxReplansPerFrame
	}
	if log == nil {
		log = slog.Default()
	}
	reg := status.NewRegistry()
	return &PathRequestManager{
		fallback:           fallback,
		mode:               cfg.Mode,
		maxPlansPerFrame:   cfg.MaxPlansPerFrame,
		maxReplansPerFrame: cfg.MaxReplansPerFrame,
		log:                log,
		reg:                reg,
		statRequests:       reg.Ints.Get("plan.requests"),
		statReplans:        reg.Ints.Get("plan.replans"),
		statCompleted:      reg.Ints.Get("plan.completed"),
		statDeferred:       reg.Ints.Get("plan.deferred"),
		statFailed:         reg.Ints.Get("plan.failed"),
		statFallbacks:      reg.Ints.Get("plan.fallbacks"),
	}
}

// Register adds a planner to the registry
// Call during setup, before the first Enqueue
func (m *PathRequestManager) Register(p Planner) {
	m.planners = append(m.planners, p)
}

// Status returns the metric registry for diagnostics
func (m *PathRequestManager) Status() *status.Registry {
	return m.reg
}

// SetWorldState replaces the selection snapshot wholesale
// The simulation loop calls it once per frame, before request submission
func (m *PathRequestManager) SetWorldState(w WorldState) {
	m.world = w
}

// WorldState returns the current selection snapshot
func (m *PathRequestManager) WorldState() WorldState {
	return m.world
}

// SetDensityMultipliers tunes the density cost terms at runtime, routed by
// planner kind
func (m *PathRequestManager) SetDensityMultipliers(graphSearch, flowField float64) {
	for _, p := range m.planners {
		tunable, ok := p.(densityTunable)
		if !ok {
			continue
		}
		switch p.Kind() {
		case KindGraphSearch, KindUniformCost:
			tunable.SetDensityMultiplier(graphSearch)
		case KindFlowField:
			tunable.SetDensityMultiplier(flowField)
		}
	}
}

// Enqueue submits a first-time plan request
// Immediate mode executes synchronously; budgeted mode returns an
// incomplete task drained under MaxPlansPerFrame by a later Update
func (m *PathRequestManager) Enqueue(q *PathQuery) *PathTask {
	m.statRequests.Add(1)
	return m.enqueue(q, &m.pendingPlans)
}

// Replan submits an invalidation-triggered replan, drained under the
// independent MaxReplansPerFrame budget in budgeted mode
func (m *PathRequestManager) Replan(q *PathQuery) *PathTask {
	m.statReplans.Add(1)
	return m.enqueue(q, &m.pendingReplans)
}

func (m *PathRequestManager) enqueue(q *PathQuery, queue *[]pendingRequest) *PathTask {
	if len(m.planners) == 0 && m.fallback == nil {
		panic("pathplan: Enqueue with no planner registered and no fallback navigation service")
	}

	task := &PathTask{}
	if m.mode == ModeImmediate {
		m.execute(q, task)
		return task
	}

	m.statDeferred.Add(1)
	*queue = append(*queue, pendingRequest{query: q, task: task})
	return task
}

// execute resolves a planner via the selector and runs the request,
// falling back to a direct external corridor query when none is registered
func (m *PathRequestManager) execute(q *PathQuery, task *PathTask) {
	p := ChoosePlanner(q, m.world, m.planners)
	if p == nil {
		m.fallbackPath(q, task)
	} else {
		p.RequestPath(q, task)
	}

	if task.IsCompleted {
		if task.Succeeded {
			m.statCompleted.Add(1)
		} else {
			m.statFailed.Add(1)
			m.log.Debug("planning failed",
				"start_x", q.Start.X, "start_z", q.Start.Z,
				"goal_x", q.Goal.X, "goal_z", q.Goal.Z,
				"hints", uint32(q.Hints))
		}
	}
}

// fallbackPath wraps the external navigation service's corridor verbatim
func (m *PathRequestManager) fallbackPath(q *PathQuery, task *PathTask) {
	m.statFallbacks.Add(1)
	corners, st := m.fallback.CalculatePath(q.Start, q.Goal, q.AreaMask)
	task.IsCompleted = true
	task.Corners = corners
	task.Succeeded = st != PathStatusInvalid && len(corners) > 0
}

// Update drives one frame: drains the pending queues up to their soft caps
// (leftover stays queued for the next frame, never dropped), then forwards
// dt to every planner for incremental work
//
// Called exactly once per simulation step, after request submission so
// planners can react to the same frame's queries
func (m *PathRequestManager) Update(dt float64) {
	if m.mode == ModeBudgeted {
		m.drain(&m.pendingPlans, m.maxPlansPerFrame)
		m.drain(&m.pendingReplans, m.maxReplansPerFrame)
	}

	for _, p := range m.planners {
		p.Update(dt)
	}
}

func (m *PathRequestManager) drain(queue *[]pendingRequest, budget int) {
	n := len(*queue)
	if n > budget {
		n = budget
	}
	for i := 0; i < n; i++ {
		req := (*queue)[i]
		m.execute(req.query, req.task)
	}

	remaining := copy(*queue, (*queue)[n:])
	for i := remaining; i < len(*queue); i++ {
		(*queue)[i] = pendingRequest{}
	}
	*queue = (*queue)[:remaining]
}

// PendingCount returns queued-but-not-yet-executed requests (budgeted mode)
func (m *PathRequestManager) PendingCount() int {
	return len(m.pendingPlans) + len(m.pendingReplans)
}
