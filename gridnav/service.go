package gridnav

import (
	"github.com/lixenwraith/pathplan/core"
	"github.com/lixenwraith/pathplan/navigation"
)

// SamplePosition snaps a point to the nearest passable cell center within
// maxDistance, breadth-first outward from the containing cell
func (g *Grid) SamplePosition(p core.Vec3, maxDistance float64, areaMask uint32) (core.Vec3, bool) {
	// Clamp into the grid so edge overshoot still snaps inward
	x := int(p.X / g.cellSize)
	y := int(p.Z / g.cellSize)
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x >= g.cols {
		x = g.cols - 1
	}
	if y >= g.rows {
		y = g.rows - 1
	}

	origin := core.Point{X: x, Y: y}
	visited := map[core.Point]struct{}{origin: {}}
	queue := []core.Point{origin}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		center := g.PositionFromCell(cur)
		if center.Dist(p) > maxDistance {
			continue
		}
		if g.passable(cur.X, cur.Y, areaMask) {
			return center, true
		}

		for _, off := range neighborOffsets {
			next := core.Point{X: cur.X + off.dx, Y: cur.Y + off.dy}
			if !g.inBounds(next.X, next.Y) {
				continue
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return core.Vec3{}, false
}

// CalculatePath produces a direct corridor between two points with an
// unweighted breadth-first walk, the quality of a raw external query:
// shortest in steps, ignoring density
func (g *Grid) CalculatePath(start, goal core.Vec3, areaMask uint32) ([]core.Vec3, navigation.PathStatus) {
	sc, ok := g.CellFromPosition(start)
	if !ok || !g.passable(sc.X, sc.Y, areaMask) {
		return nil, navigation.PathStatusInvalid
	}
	gc, ok := g.CellFromPosition(goal)
	if !ok || !g.passable(gc.X, gc.Y, areaMask) {
		return nil, navigation.PathStatusInvalid
	}

	if sc == gc {
		return []core.Vec3{start, goal}, navigation.PathStatusComplete
	}

	prev := make(map[core.Point]core.Point, 64)
	prev[sc] = sc
	queue := []core.Point{sc}
	reached := false

	for len(queue) > 0 && !reached {
		cur := queue[0]
		queue = queue[1:]

		for _, off := range neighborOffsets {
			next := core.Point{X: cur.X + off.dx, Y: cur.Y + off.dy}
			if !g.passable(next.X, next.Y, areaMask) {
				continue
			}
			if off.diagonal && !g.canCutCorner(cur.X, cur.Y, off.dx, off.dy, areaMask) {
				continue
			}
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = cur
			if next == gc {
				reached = true
				break
			}
			queue = append(queue, next)
		}
	}

	if !reached {
		return nil, navigation.PathStatusInvalid
	}

	// Walk back and reverse into a corridor bracketed by the exact endpoints
	var cells []core.Point
	for c := gc; c != sc; c = prev[c] {
		cells = append(cells, c)
	}
	corners := make([]core.Vec3, 0, len(cells)+1)
	corners = append(corners, start)
	for i := len(cells) - 1; i > 0; i-- {
		corners = append(corners, g.PositionFromCell(cells[i]))
	}
	corners = append(corners, goal)
	return corners, navigation.PathStatusComplete
}
