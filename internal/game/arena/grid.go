package arena

import "github.com/cory-johannsen/hale/internal/game/host"

// chebyshev returns the king-move distance between a and b.
func chebyshev(a, b host.Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

func manhattan(a, b host.Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// neighbours lists the eight king moves in a fixed order.
var neighbours = []host.Point{
	{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0},
	{X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1},
}

func (a *Arena) inBounds(p host.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < a.width && p.Y < a.height
}

// CreatureAt returns the living creature on p, or nil.
func (a *Arena) CreatureAt(p host.Point) *Creature {
	for _, c := range a.creatures {
		if c.Alive() && c.Pos == p {
			return c
		}
	}
	return nil
}

// isEmpty reports whether p is in bounds, open and unoccupied.
func (a *Arena) isEmpty(p host.Point) bool {
	return a.inBounds(p) && !a.blocked[p] && a.CreatureAt(p) == nil
}

// ring returns the in-bounds points at exactly distance r from center, row by row.
func (a *Arena) ring(center host.Point, r int) []host.Point {
	var out []host.Point
	for y := center.Y - r; y <= center.Y+r; y++ {
		for x := center.X - r; x <= center.X+r; x++ {
			p := host.Point{X: x, Y: y}
			if a.inBounds(p) && chebyshev(center, p) == r {
				out = append(out, p)
			}
		}
	}
	return out
}

// FindClosestEmptyTile scans outward from center, ring by ring.
func (a *Arena) FindClosestEmptyTile(center host.Point, maxDistance int) (host.Point, bool) {
	for r := 0; r <= maxDistance; r++ {
		for _, p := range a.ring(center, r) {
			if a.isEmpty(p) {
				return p, true
			}
		}
	}
	return host.Point{}, false
}

// nextStep picks the open neighbour of from that gets closest to dest.
// It reports false when no neighbour reduces the distance.
func (a *Arena) nextStep(from, dest host.Point) (host.Point, bool) {
	best, found := from, false
	bestD, bestM := chebyshev(from, dest), manhattan(from, dest)
	for _, d := range neighbours {
		p := host.Point{X: from.X + d.X, Y: from.Y + d.Y}
		if !a.isEmpty(p) {
			continue
		}
		cd, md := chebyshev(p, dest), manhattan(p, dest)
		if cd < bestD || (found && cd == bestD && md < bestM) {
			best, bestD, bestM, found = p, cd, md, true
		}
	}
	return best, found
}
