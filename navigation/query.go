package navigation

import "github.com/lixenwraith/pathplan/core"

// AreaMaskAll is the sentinel mask accepting every traversable area class
const AreaMaskAll = ^uint32(0)

// PlannerHints are caller-supplied bitflags biasing planner selection
// Flags are orthogonal; any combination may be set
type PlannerHints uint32

// HintNone requests no selection bias
const HintNone PlannerHints = 0

const (
	// HintManyAgentsToSameGoal marks queries sharing one destination,
	// amortizable by a per-goal flow field
	HintManyAgentsToSameGoal PlannerHints = 1 << iota

	// HintHighDynamics marks queries over topology that mutates faster
	// than a heuristic search could exploit
	HintHighDynamics

	// HintNoGoodHeuristic marks graphs where straight-line distance is
	// not a usable cost-to-goal estimate
	HintNoGoodHeuristic

	// HintPreferStraight biases toward direct corridors
	HintPreferStraight

	// HintAvoidCrowds requests density-steered routing
	HintAvoidCrowds

	// HintBossCharge marks charge moves that plow through crowds
	HintBossCharge
)

// Has reports whether every flag in h is set
func (p PlannerHints) Has(h PlannerHints) bool {
	return p&h == h
}

// PathQuery describes one path request
// Immutable once submitted; the service never writes to it
type PathQuery struct {
	Start core.Vec3
	Goal  core.Vec3

	// AreaMask restricts traversable region classes; AreaMaskAll accepts all
	AreaMask uint32

	// AgentRadius is the clearance requirement of the requesting agent
	// Planners do not read it directly: clearance is resolved by the
	// navigation surface the caller supplies, e.g. a footprint-aware grid
	// view such as gridnav.ClearanceView built for this radius class
	AgentRadius float64

	Hints PlannerHints

	// GroupID correlates queries that share planner state, e.g. all agents
	// flowing to the same goal
	GroupID int32
}

// PathTask is the result container for one query
// Owned by the caller after return; planners never retain completed tasks
type PathTask struct {
	// IsCompleted is false only while an incremental planner still owes
	// a result for a later frame
	IsCompleted bool

	// Succeeded is true iff a usable path or direction was produced
	Succeeded bool

	// Corners is the route polyline, empty on failure
	// Flow-field results carry a two-point corridor stub instead
	Corners []core.Vec3

	// PlannerData is an opaque handle a planner may attach for reuse
	// Never interpreted by the manager
	PlannerData any
}

// fail marks the task completed without a result
func (t *PathTask) fail() {
	t.IsCompleted = true
	t.Succeeded = false
	t.Corners = t.Corners[:0]
}

// complete marks the task completed with the given corridor
func (t *PathTask) complete(corners []core.Vec3) {
	t.IsCompleted = true
	t.Succeeded = true
	t.Corners = corners
}

// WorldState is the process-wide selection input, rewritten wholesale by
// the simulation loop before each Update
type WorldState struct {
	// MapIsVeryLarge biases selection toward heuristic search
	MapIsVeryLarge bool

	// FrequentTopologyChanges marks worlds where carving or moving
	// obstacles invalidate cached search state between frames
	FrequentTopologyChanges bool

	// DensitySpikeLevel is the crowd density signal
	DensitySpikeLevel float64
}

// PathStatus is the outcome class of an external corridor query
type PathStatus uint8

const (
	// PathStatusComplete means the corridor reaches the goal
	PathStatusComplete PathStatus = iota

	// PathStatusPartial means the corridor ends short of the goal
	PathStatusPartial

	// PathStatusInvalid means no corridor could be produced
	PathStatusInvalid
)
