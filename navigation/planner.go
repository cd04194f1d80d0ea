package navigation

import "github.com/lixenwraith/pathplan/core"

// PlannerKind is the capability tag each planner reports
// Selection and tuning dispatch on the tag, never on concrete types
type PlannerKind uint8

const (
	KindGraphSearch PlannerKind = iota
	KindUniformCost
	KindFlowField
)

func (k PlannerKind) String() string {
	switch k {
	case KindGraphSearch:
		return "graph-search"
	case KindUniformCost:
		return "uniform-cost"
	case KindFlowField:
		return "flow-field"
	}
	return "unknown"
}

// Planner is the uniform strategy contract
// RequestPath fills the provided task; synchronous planners complete it in
// the same call, incremental planners may leave IsCompleted false and finish
// it during a later Update tick
type Planner interface {
	Kind() PlannerKind
	RequestPath(query *PathQuery, task *PathTask)

	// Update performs incremental per-frame work, called once per tick
	// by the owning manager
	Update(dt float64)
}

// densityTunable is implemented by planners that accept runtime density
// multiplier tuning
type densityTunable interface {
	SetDensityMultiplier(mult float64)
}

// NodeID identifies a node of the external navigation graph
type NodeID int32

// NodeInvalid is returned by LocateNode lookups that fail
const NodeInvalid NodeID = -1

// Neighbor is a reachable graph node with its geometric edge length
type Neighbor struct {
	To     NodeID
	Length float64
}

// NavGraph is the node/edge view of the external navigation service
// consumed by the graph-search planners
type NavGraph interface {
	// NodeCount bounds NodeID values; planners size scratch state by it
	NodeCount() int

	// Neighbors appends the out-edges of n traversable under areaMask to
	// buf and returns it
	// Callers pass a reused buffer so the hot loop does not allocate
	Neighbors(n NodeID, areaMask uint32, buf []Neighbor) []Neighbor

	// NodePosition returns the world-space position of n
	NodePosition(n NodeID) core.Vec3

	// LocateNode resolves a world position to its graph node
	// Returns false for positions off the navigable surface or excluded
	// by the area mask
	LocateNode(p core.Vec3, areaMask uint32) (NodeID, bool)

	// EdgeDensity samples the crowd density along an edge
	EdgeDensity(from, to NodeID) float64
}

// NavGrid is the cell view of the external navigation service consumed by
// the flow-field planner
type NavGrid interface {
	GridSize() (w, h int)
	CellFromPosition(p core.Vec3) (core.Point, bool)
	PositionFromCell(c core.Point) core.Vec3
	Blocked(x, y int) bool

	// AreaAt returns the area class bits of a cell; cells whose bits miss
	// a query's mask are untraversable for that query
	AreaAt(x, y int) uint32

	// DensityAt samples crowd density at a cell
	DensityAt(x, y int) float64
}

// NavService is the external navigation collaborator used directly by the
// manager when no planner is registered
type NavService interface {
	// SamplePosition snaps a point to the navigable surface within
	// maxDistance, honoring the area mask
	SamplePosition(p core.Vec3, maxDistance float64, areaMask uint32) (core.Vec3, bool)

	// CalculatePath produces a raw corridor between two points
	CalculatePath(start, goal core.Vec3, areaMask uint32) ([]core.Vec3, PathStatus)
}
