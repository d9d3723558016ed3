// Package session ties a grid to its caches and selector. Every mutation
// goes through the session so cache invalidation happens in the same
// synchronous step as the change; there is no window where a stale cache
// is observable after a mutation returns.
package session

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/hexarena/internal/board"
	"github.com/talgya/hexarena/internal/cache"
	"github.com/talgya/hexarena/internal/hexgrid"
	"github.com/talgya/hexarena/internal/pathfind"
	"github.com/talgya/hexarena/internal/target"
)

// Session owns one board plus the cache store and selector serving it.
// The caches live for the session and are purged wholesale on every
// mutation and on map switch.
type Session struct {
	ID     uuid.UUID
	Grid   *board.Grid
	Roster map[string]int // unit ID → attack range

	caches   *cache.Store
	selector *target.Selector
}

// New builds a session from a layout, a map preset, and the roster's
// attack ranges. cacheTTL of 0 disables entry expiry.
func New(layout board.Layout, preset board.MapPreset, roster map[string]int, cacheTTL time.Duration) *Session {
	g := board.BuildGrid(layout, preset)
	return &Session{
		ID:       uuid.New(),
		Grid:     g,
		Roster:   roster,
		caches:   cache.NewStore(cacheTTL),
		selector: target.New(g),
	}
}

// SwitchMap replaces the grid wholesale with a fresh one built from the
// preset. All placements are lost and every cache is purged.
func (s *Session) SwitchMap(preset board.MapPreset) {
	s.Grid = board.BuildGrid(s.Grid.Layout(), preset)
	s.selector = target.New(s.Grid)
	s.caches.InvalidateAll()
}

// Caches exposes the store for status reporting and tests.
func (s *Session) Caches() *cache.Store { return s.caches }

// Place places a unit and invalidates the caches.
func (s *Session) Place(ref board.TileRef, unitID string, team board.Team) bool {
	ok := s.Grid.PlaceUnit(ref, unitID, team)
	s.caches.InvalidateAll()
	return ok
}

// Remove removes a tile's occupant and invalidates the caches.
func (s *Session) Remove(ref board.TileRef) {
	s.Grid.RemoveUnit(ref)
	s.caches.InvalidateAll()
}

// Move relocates a unit and invalidates the caches.
func (s *Session) Move(from, to board.TileRef, unitID string) bool {
	ok := s.Grid.MoveUnit(from, to, unitID)
	s.caches.InvalidateAll()
	return ok
}

// Swap exchanges two occupants and invalidates the caches.
func (s *Session) Swap(a, b board.TileRef) bool {
	ok := s.Grid.SwapUnits(a, b)
	s.caches.InvalidateAll()
	return ok
}

// Clear removes every unit and invalidates the caches.
func (s *Session) Clear() {
	s.Grid.ClearAllUnits()
	s.caches.InvalidateAll()
}

// SetTileState overwrites a tile state (map editor) and invalidates the
// caches.
func (s *Session) SetTileState(ref board.TileRef, state board.TileState) bool {
	ok := s.Grid.SetTileState(ref, state)
	s.caches.InvalidateAll()
	return ok
}

// EnemyMap returns the closest-enemy engagement per occupied tile,
// memoized on the canonicalized board state.
func (s *Session) EnemyMap() map[int]target.Engagement {
	key := cache.BoardKey(s.Grid.Placements(), s.Roster)
	if m, ok := s.caches.EnemyMaps.Get(key); ok {
		return m
	}
	m := s.selector.ClosestEnemies(s.Roster)
	s.caches.EnemyMaps.Add(key, m)
	return m
}

// AllyMap returns the closest-ally engagement per occupied tile,
// memoized on the canonicalized board state.
func (s *Session) AllyMap() map[int]target.Engagement {
	key := cache.BoardKey(s.Grid.Placements(), s.Roster)
	if m, ok := s.caches.AllyMaps.Get(key); ok {
		return m
	}
	m := s.selector.ClosestAllies(s.Roster)
	s.caches.AllyMaps.Add(key, m)
	return m
}

// Path returns the memoized A* path between two tiles, or false if
// either tile is absent or no path exists.
func (s *Session) Path(fromID, toID int) ([]hexgrid.Coord, bool) {
	src, ok := s.Grid.TileByID(fromID)
	if !ok {
		return nil, false
	}
	dst, ok := s.Grid.TileByID(toID)
	if !ok {
		return nil, false
	}
	key := cache.PathKey(src.Coord, dst.Coord)
	if p, ok := s.caches.Paths.Get(key); ok {
		return p, p != nil
	}
	p := pathfind.FindPath(s.Grid.TileAt, target.TraversableTo(dst.Coord), src.Coord, dst.Coord)
	s.caches.Paths.Add(key, p)
	return p, p != nil
}

// Distance returns the memoized effective distance between two tiles for
// a given attack range.
func (s *Session) Distance(fromID, toID, attackRange int) (pathfind.DistanceResult, bool) {
	src, ok := s.Grid.TileByID(fromID)
	if !ok {
		return pathfind.DistanceResult{}, false
	}
	dst, ok := s.Grid.TileByID(toID)
	if !ok {
		return pathfind.DistanceResult{}, false
	}
	key := cache.DistanceKey(src.Coord, dst.Coord, attackRange)
	if r, ok := s.caches.Distances.Get(key); ok {
		return r, true
	}
	r := pathfind.EffectiveDistance(s.Grid.TileAt, target.TraversableTo(dst.Coord), src.Coord, dst.Coord, attackRange)
	s.caches.Distances.Add(key, r)
	return r, true
}

// AutoPlace fills a team's free spawn tiles with the given units, in a
// shuffled but seed-deterministic order, until the roster cap or the
// unit list runs out. Returns the number placed.
func (s *Session) AutoPlace(team board.Team, unitIDs []string, seed int64) int {
	var spawns []*board.Tile
	for _, t := range s.Grid.AllTiles() {
		if t.State == board.AvailableState(team) {
			spawns = append(spawns, t)
		}
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(spawns), func(i, j int) { spawns[i], spawns[j] = spawns[j], spawns[i] })

	placed := 0
	for _, unitID := range unitIDs {
		if placed >= len(spawns) {
			break
		}
		if s.Grid.PlaceUnit(board.At(spawns[placed].Coord), unitID, team) {
			placed++
		}
	}
	s.caches.InvalidateAll()
	return placed
}
