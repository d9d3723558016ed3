// Package cache memoizes pathfinding and engagement queries so repeated
// reads against an unchanged board cost a map lookup. Entries are never
// mutated in place, only replaced. Invalidation is whole-sale: any board
// mutation purges every instance, since over-invalidation is negligible
// at this board size.
package cache

import (
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/talgya/hexarena/internal/board"
	"github.com/talgya/hexarena/internal/hexgrid"
	"github.com/talgya/hexarena/internal/pathfind"
	"github.com/talgya/hexarena/internal/target"
)

// Capacities per cache instance.
const (
	PathCapacity     = 500
	DistanceCapacity = 500
	MapCapacity      = 100
)

// Store owns the three logical caches: raw paths, per-pair effective
// distances, and the two engagement maps. A zero TTL keeps entries until
// evicted by capacity.
type Store struct {
	Paths     *lru.LRU[string, []hexgrid.Coord]
	Distances *lru.LRU[string, pathfind.DistanceResult]
	EnemyMaps *lru.LRU[string, map[int]target.Engagement]
	AllyMaps  *lru.LRU[string, map[int]target.Engagement]
}

// NewStore creates the cache instances. ttl applies to every entry;
// pass 0 to disable expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		Paths:     lru.NewLRU[string, []hexgrid.Coord](PathCapacity, nil, ttl),
		Distances: lru.NewLRU[string, pathfind.DistanceResult](DistanceCapacity, nil, ttl),
		EnemyMaps: lru.NewLRU[string, map[int]target.Engagement](MapCapacity, nil, ttl),
		AllyMaps:  lru.NewLRU[string, map[int]target.Engagement](MapCapacity, nil, ttl),
	}
}

// InvalidateAll purges every cache instance. Called on any grid mutation
// and on map switch, in the same synchronous step as the mutation.
func (s *Store) InvalidateAll() {
	s.Paths.Purge()
	s.Distances.Purge()
	s.EnemyMaps.Purge()
	s.AllyMaps.Purge()
}

// Sizes reports entry counts per instance, for the status endpoint.
func (s *Store) Sizes() map[string]int {
	return map[string]int{
		"paths":     s.Paths.Len(),
		"distances": s.Distances.Len(),
		"enemyMaps": s.EnemyMaps.Len(),
		"allyMaps":  s.AllyMaps.Len(),
	}
}

// PathKey keys a single start→goal path query.
func PathKey(start, goal hexgrid.Coord) string {
	var b strings.Builder
	writeCoord(&b, start)
	b.WriteByte('>')
	writeCoord(&b, goal)
	return b.String()
}

// DistanceKey keys a per-pair effective distance query.
func DistanceKey(start, goal hexgrid.Coord, attackRange int) string {
	var b strings.Builder
	writeCoord(&b, start)
	b.WriteByte('>')
	writeCoord(&b, goal)
	b.WriteByte('#')
	b.WriteString(strconv.Itoa(attackRange))
	return b.String()
}

// BoardKey canonicalizes the full set of placements plus per-unit attack
// ranges. Placements arrive sorted by tile ID from the grid, so two
// structurally identical boards key identically regardless of the order
// operations were applied.
func BoardKey(placements []board.Placement, rangeByUnit map[string]int) string {
	var b strings.Builder
	for _, p := range placements {
		attackRange := rangeByUnit[p.UnitID]
		if attackRange < 1 {
			attackRange = 1
		}
		b.WriteString(strconv.Itoa(p.TileID))
		b.WriteByte('=')
		b.WriteString(p.UnitID)
		b.WriteByte(':')
		b.WriteString(p.Team.String())
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(attackRange))
		b.WriteByte(';')
	}
	return b.String()
}

func writeCoord(b *strings.Builder, c hexgrid.Coord) {
	b.WriteString(strconv.Itoa(c.Q))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(c.R))
}
