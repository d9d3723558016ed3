// Package target selects which opposing unit each placed unit engages.
// One selector serves every caller; there are no per-caller branches, so
// rendering and debug overlays cannot drift apart.
package target

import (
	"github.com/talgya/hexarena/internal/board"
	"github.com/talgya/hexarena/internal/hexgrid"
	"github.com/talgya/hexarena/internal/pathfind"
)

// Engagement names the tile a unit would engage and how many hex steps
// separate them: the direct distance when the target is already in range,
// otherwise moves needed plus the range covering the rest.
type Engagement struct {
	TileID   int `json:"tileId"`
	Distance int `json:"distance"`
}

// Traversable reports whether movement may pass through a tile: blocked
// variants and occupied tiles are walls.
func Traversable(t *board.Tile) bool {
	switch t.State {
	case board.StateBlocked, board.StateBlockedBreakable:
		return false
	}
	return t.Occupant == nil
}

// TraversableTo behaves like Traversable but always admits the goal tile,
// so a unit standing on the goal is still reachable.
func TraversableTo(goal hexgrid.Coord) pathfind.TraverseFunc {
	return func(t *board.Tile) bool {
		return t.Coord == goal || Traversable(t)
	}
}

// Selector computes closest-target queries over one grid.
type Selector struct {
	grid *board.Grid
}

// New creates a selector bound to a grid.
func New(g *board.Grid) *Selector {
	return &Selector{grid: g}
}

// ClosestTarget finds the nearest engageable tile among targets for a
// unit on source with the given attack range. Ranged units (range > 1)
// use the layered BFS, which yields the minimum movement distance and
// every co-minimal target in one pass; melee units check each target
// individually with A*. Both branches end in the same deterministic
// tie-break. Returns false when no target is reachable.
func (s *Selector) ClosestTarget(source *board.Tile, targets []*board.Tile, attackRange int) (Engagement, bool) {
	if len(targets) == 0 {
		return Engagement{}, false
	}

	var candidates []*board.Tile
	var minMove int

	if attackRange > 1 {
		coords := make([]hexgrid.Coord, len(targets))
		byCoord := make(map[hexgrid.Coord]*board.Tile, len(targets))
		for i, t := range targets {
			coords[i] = t.Coord
			byCoord[t.Coord] = t
		}
		res := pathfind.RangedMovementDistance(s.grid.TileAt, Traversable, source.Coord, coords, attackRange)
		if !res.CanReach {
			return Engagement{}, false
		}
		minMove = res.MovementDistance
		for _, c := range res.ReachableTargets {
			candidates = append(candidates, byCoord[c])
		}
	} else {
		minMove = -1
		for _, tg := range targets {
			res := pathfind.EffectiveDistance(s.grid.TileAt, TraversableTo(tg.Coord), source.Coord, tg.Coord, attackRange)
			if !res.CanReach {
				continue
			}
			switch {
			case minMove < 0 || res.MovementDistance < minMove:
				minMove = res.MovementDistance
				candidates = candidates[:0]
				candidates = append(candidates, tg)
			case res.MovementDistance == minMove:
				candidates = append(candidates, tg)
			}
		}
		if minMove < 0 {
			return Engagement{}, false
		}
	}

	chosen := breakTies(source, candidates)
	direct := hexgrid.Distance(source.Coord, chosen.Coord)
	dist := direct
	if direct > attackRange {
		dist = minMove + attackRange
	}
	return Engagement{TileID: chosen.ID, Distance: dist}, true
}

// breakTies resolves co-minimal candidates in a fixed order: first prefer
// targets vertically aligned with the source (same q, a straight-line
// approach); then, row-aware, the lower tile ID; then the lower tile ID
// unconditionally. The precedence makes equidistant choices visually
// predictable instead of an accident of map iteration order.
func breakTies(source *board.Tile, candidates []*board.Tile) *board.Tile {
	if len(candidates) == 1 {
		return candidates[0]
	}

	var aligned []*board.Tile
	for _, c := range candidates {
		if c.Coord.Q == source.Coord.Q {
			aligned = append(aligned, c)
		}
	}
	if len(aligned) > 0 {
		candidates = aligned
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Row == best.Row {
			if c.ID < best.ID {
				best = c
			}
		} else if c.ID < best.ID {
			best = c
		}
	}
	return best
}

// ClosestEnemies maps each placed unit's tile ID to the enemy it would
// engage. Units with no living opponents are skipped, not errored.
// Attack ranges come from rangeByUnit; absent units default to melee.
func (s *Selector) ClosestEnemies(rangeByUnit map[string]int) map[int]Engagement {
	return s.engagementMap(rangeByUnit, func(src, other *board.Tile) bool {
		return other.Occupant.Team != src.Occupant.Team
	})
}

// ClosestAllies is the ally-facing mirror of ClosestEnemies, excluding
// the unit itself.
func (s *Selector) ClosestAllies(rangeByUnit map[string]int) map[int]Engagement {
	return s.engagementMap(rangeByUnit, func(src, other *board.Tile) bool {
		return other.Occupant.Team == src.Occupant.Team
	})
}

func (s *Selector) engagementMap(rangeByUnit map[string]int, wants func(src, other *board.Tile) bool) map[int]Engagement {
	occupied := s.grid.OccupiedTiles()
	out := make(map[int]Engagement)
	for _, src := range occupied {
		var targets []*board.Tile
		for _, other := range occupied {
			if other != src && wants(src, other) {
				targets = append(targets, other)
			}
		}
		if len(targets) == 0 {
			continue
		}
		attackRange := rangeByUnit[src.Occupant.UnitID]
		if attackRange < 1 {
			attackRange = 1
		}
		if eng, ok := s.ClosestTarget(src, targets, attackRange); ok {
			out[src.ID] = eng
		}
	}
	return out
}
