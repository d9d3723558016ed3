package cache_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/talgya/hexarena/internal/board"
	"github.com/talgya/hexarena/internal/cache"
	"github.com/talgya/hexarena/internal/hexgrid"
	"github.com/talgya/hexarena/internal/pathfind"
	"github.com/talgya/hexarena/internal/presets"
	"github.com/talgya/hexarena/internal/target"
)

func TestStoreRoundTrip(t *testing.T) {
	s := cache.NewStore(0)

	key := cache.PathKey(hexgrid.Coord{Q: 0, R: 0}, hexgrid.Coord{Q: 2, R: 3})
	path := []hexgrid.Coord{{Q: 0, R: 0}, {Q: 1, R: 0}}
	s.Paths.Add(key, path)

	got, ok := s.Paths.Get(key)
	if !ok {
		t.Fatal("stored path not found")
	}
	if len(got) != len(path) || got[0] != path[0] || got[1] != path[1] {
		t.Errorf("got %v, want %v", got, path)
	}
}

func TestInvalidateAllPurgesEveryInstance(t *testing.T) {
	s := cache.NewStore(0)
	s.Paths.Add("p", nil)
	s.Distances.Add("d", pathfind.DistanceResult{MovementDistance: 3, CanReach: true})
	s.EnemyMaps.Add("e", map[int]target.Engagement{1: {TileID: 40, Distance: 7}})
	s.AllyMaps.Add("a", map[int]target.Engagement{})

	s.InvalidateAll()

	for name, n := range s.Sizes() {
		if n != 0 {
			t.Errorf("cache %q holds %d entries after purge", name, n)
		}
	}
}

func TestCapacityEviction(t *testing.T) {
	s := cache.NewStore(0)
	for i := 0; i < cache.PathCapacity+50; i++ {
		s.Paths.Add(fmt.Sprintf("k%d", i), nil)
	}
	if n := s.Paths.Len(); n != cache.PathCapacity {
		t.Errorf("path cache holds %d entries, want capacity %d", n, cache.PathCapacity)
	}
	// Oldest entries were evicted, newest survive.
	if _, ok := s.Paths.Get("k0"); ok {
		t.Error("oldest entry survived past capacity")
	}
	if _, ok := s.Paths.Get(fmt.Sprintf("k%d", cache.PathCapacity+49)); !ok {
		t.Error("newest entry was evicted")
	}
}

func TestTTLExpiry(t *testing.T) {
	s := cache.NewStore(20 * time.Millisecond)
	s.Distances.Add("d", pathfind.DistanceResult{CanReach: true})
	if _, ok := s.Distances.Get("d"); !ok {
		t.Fatal("entry missing immediately after add")
	}
	time.Sleep(60 * time.Millisecond)
	if _, ok := s.Distances.Get("d"); ok {
		t.Error("entry survived past its TTL")
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	s := cache.NewStore(0)
	s.Distances.Add("d", pathfind.DistanceResult{CanReach: true})
	time.Sleep(30 * time.Millisecond)
	if _, ok := s.Distances.Get("d"); !ok {
		t.Error("entry expired despite zero TTL")
	}
}

func TestDistanceKeyIncludesRange(t *testing.T) {
	a := hexgrid.Coord{Q: 1, R: 2}
	b := hexgrid.Coord{Q: 3, R: 4}
	if cache.DistanceKey(a, b, 1) == cache.DistanceKey(a, b, 3) {
		t.Error("distance keys collide across attack ranges")
	}
	if cache.PathKey(a, b) == cache.PathKey(b, a) {
		t.Error("path keys collide across direction")
	}
}

func TestBoardKeyIsOrderInsensitive(t *testing.T) {
	preset, ok := presets.ByName("open")
	if !ok {
		t.Fatal("open preset missing")
	}
	ranges := map[string]int{"archer": 3}

	g1 := board.BuildGrid(presets.Standard, preset)
	g1.PlaceUnit(board.ByID(1), "warden", board.TeamA)
	g1.PlaceUnit(board.ByID(40), "archer", board.TeamB)

	g2 := board.BuildGrid(presets.Standard, preset)
	g2.PlaceUnit(board.ByID(40), "archer", board.TeamB)
	g2.PlaceUnit(board.ByID(1), "warden", board.TeamA)

	k1 := cache.BoardKey(g1.Placements(), ranges)
	k2 := cache.BoardKey(g2.Placements(), ranges)
	if k1 != k2 {
		t.Errorf("identical boards key differently:\n%s\n%s", k1, k2)
	}

	g2.RemoveUnit(board.ByID(40))
	if k3 := cache.BoardKey(g2.Placements(), ranges); k3 == k1 {
		t.Error("different boards share a key")
	}
}

func TestBoardKeyReflectsRanges(t *testing.T) {
	preset, _ := presets.ByName("open")
	g := board.BuildGrid(presets.Standard, preset)
	g.PlaceUnit(board.ByID(1), "archer", board.TeamA)

	melee := cache.BoardKey(g.Placements(), nil)
	ranged := cache.BoardKey(g.Placements(), map[string]int{"archer": 3})
	if melee == ranged {
		t.Error("attack range change did not change the board key")
	}
}
