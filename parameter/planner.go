package parameter

// Planner - Graph Search
const (
	// OpenSetInitialCapacity is the starting capacity of a planner's open-set heap
	OpenSetInitialCapacity = 64

	// NodeExpansionCap bounds node expansions per search invocation
	// A search that exceeds the cap fails rather than stalling the frame
	NodeExpansionCap = 16384

	// DefaultGraphDensityMultiplier scales the crowd-density edge cost term
	// 0 disables density steering
	DefaultGraphDensityMultiplier = 1.0
)

// Planner - Flow Field
const (
	// FlowFieldBuildsPerTick is the maximum field builds per Update tick
	FlowFieldBuildsPerTick = 1

	// FlowFieldEvictTicks is the idle horizon after which a cached field
	// with no requests is discarded
	FlowFieldEvictTicks = 600

	// DefaultFlowDensityMultiplier scales cell density in field edge costs
	DefaultFlowDensityMultiplier = 1.0
)

// Manager - Frame Budgets
const (
	// DefaultMaxPlansPerFrame bounds first-time plans drained per Update in budgeted mode
	DefaultMaxPlansPerFrame = 8

	// DefaultMaxReplansPerFrame bounds invalidation-triggered replans per Update
	DefaultMaxReplansPerFrame = 4
)
