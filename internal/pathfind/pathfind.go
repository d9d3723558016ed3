// Package pathfind implements movement-distance search over the board:
// single-goal A* and a layered BFS answering "fewest moves until any
// target is in range". Both run over caller-supplied tile accessors so
// they work against filtered views of the grid as well as the grid itself.
package pathfind

import (
	"github.com/talgya/hexarena/internal/board"
	"github.com/talgya/hexarena/internal/hexgrid"
)

// MaxSearchDepth bounds both algorithms: BFS stops after this many
// movement layers and A* does not expand nodes beyond this many steps.
// Generous for a 45-tile board; exists so a degenerate view can never
// loop unbounded.
const MaxSearchDepth = 20

// TileFunc resolves a coordinate to a tile. Absence means "outside the
// board" and excludes the coordinate from traversal.
type TileFunc func(hexgrid.Coord) (*board.Tile, bool)

// TraverseFunc reports whether a tile can be stepped onto.
type TraverseFunc func(*board.Tile) bool

type node struct {
	coord  hexgrid.Coord
	g, f   int
	parent *node
}

// FindPath runs A* from start to goal and returns the full coordinate
// sequence including start, or nil if the goal is unreachable. The
// heuristic is plain hex distance, which is admissible since every step
// moves one hex. The open set is scanned linearly for the minimum f:
// with at most 45 nodes a heap buys nothing.
func FindPath(at TileFunc, pass TraverseFunc, start, goal hexgrid.Coord) []hexgrid.Coord {
	if start == goal {
		return []hexgrid.Coord{start}
	}

	open := []*node{{coord: start, g: 0, f: hexgrid.Distance(start, goal)}}
	inOpen := map[hexgrid.Coord]*node{start: open[0]}
	closed := map[hexgrid.Coord]bool{}

	for len(open) > 0 {
		best := 0
		for i, n := range open {
			if n.f < open[best].f {
				best = i
			}
		}
		cur := open[best]
		open = append(open[:best], open[best+1:]...)
		delete(inOpen, cur.coord)

		if cur.coord == goal {
			return reconstruct(cur)
		}
		closed[cur.coord] = true
		if cur.g >= MaxSearchDepth {
			continue
		}

		for _, nb := range cur.coord.Neighbors() {
			if closed[nb] {
				continue
			}
			t, ok := at(nb)
			if !ok || !pass(t) {
				continue
			}
			g := cur.g + 1
			if existing, ok := inOpen[nb]; ok {
				if g < existing.g {
					existing.g = g
					existing.f = g + hexgrid.Distance(nb, goal)
					existing.parent = cur
				}
				continue
			}
			n := &node{coord: nb, g: g, f: g + hexgrid.Distance(nb, goal), parent: cur}
			open = append(open, n)
			inOpen[nb] = n
		}
	}
	return nil
}

func reconstruct(n *node) []hexgrid.Coord {
	var rev []hexgrid.Coord
	for ; n != nil; n = n.parent {
		rev = append(rev, n.coord)
	}
	out := make([]hexgrid.Coord, len(rev))
	for i, c := range rev {
		out[len(rev)-1-i] = c
	}
	return out
}

// DistanceResult describes how far a unit must move before its attack
// range covers a specific goal.
type DistanceResult struct {
	MovementDistance int  `json:"movementDistance"`
	CanReach         bool `json:"canReach"`
	DirectDistance   int  `json:"directDistance"`
}

// EffectiveDistance computes the moves needed before the goal is within
// attackRange of the unit at start. Zero moves when the goal is already
// in range; otherwise path length minus the portion the range covers.
func EffectiveDistance(at TileFunc, pass TraverseFunc, start, goal hexgrid.Coord, attackRange int) DistanceResult {
	direct := hexgrid.Distance(start, goal)
	if direct <= attackRange {
		return DistanceResult{MovementDistance: 0, CanReach: true, DirectDistance: direct}
	}
	path := FindPath(at, pass, start, goal)
	if path == nil {
		return DistanceResult{CanReach: false, DirectDistance: direct}
	}
	move := len(path) - 1 - attackRange
	if move < 0 {
		move = 0
	}
	return DistanceResult{MovementDistance: move, CanReach: true, DirectDistance: direct}
}

// RangedResult is the outcome of a multi-target search: the minimum
// number of moves before some target is in range, and every target tied
// at that minimum for downstream tie-breaking.
type RangedResult struct {
	MovementDistance int             `json:"movementDistance"`
	CanReach         bool            `json:"canReach"`
	ReachableTargets []hexgrid.Coord `json:"reachableTargets,omitempty"`
}

// RangedMovementDistance expands reachable frontiers layer by layer
// (0, 1, 2, ... moves) and stops at the first layer where any frontier
// hex has a target within attackRange. All targets within range of any
// hex of that layer are reported, not just the first found: the caller's
// tie-break needs the complete co-minimal set. Targets themselves are
// only distance-checked, never entered, so occupied target tiles do not
// block the search.
func RangedMovementDistance(at TileFunc, pass TraverseFunc, start hexgrid.Coord, targets []hexgrid.Coord, attackRange int) RangedResult {
	if len(targets) == 0 {
		return RangedResult{CanReach: false}
	}

	visited := map[hexgrid.Coord]bool{start: true}
	frontier := []hexgrid.Coord{start}

	for layer := 0; ; layer++ {
		hit := map[hexgrid.Coord]bool{}
		for _, f := range frontier {
			for _, tg := range targets {
				if hexgrid.Distance(f, tg) <= attackRange {
					hit[tg] = true
				}
			}
		}
		if len(hit) > 0 {
			// Report in the caller's target order for determinism.
			out := make([]hexgrid.Coord, 0, len(hit))
			for _, tg := range targets {
				if hit[tg] {
					out = append(out, tg)
					hit[tg] = false
				}
			}
			return RangedResult{MovementDistance: layer, CanReach: true, ReachableTargets: out}
		}
		if layer == MaxSearchDepth {
			break
		}

		var next []hexgrid.Coord
		for _, f := range frontier {
			for _, nb := range f.Neighbors() {
				if visited[nb] {
					continue
				}
				t, ok := at(nb)
				if !ok || !pass(t) {
					continue
				}
				visited[nb] = true
				next = append(next, nb)
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}
	return RangedResult{CanReach: false}
}
