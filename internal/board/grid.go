package board

import (
	"fmt"
	"sort"
	"strings"

	"github.com/talgya/hexarena/internal/hexgrid"
)

// Grid owns all tiles and both team rosters. It is the sole mutator of
// tile state: every placement operation either applies completely or
// leaves the grid untouched. The grid is not safe for concurrent use;
// callers serialize access at the boundary.
type Grid struct {
	layout  Layout
	mapName string

	tiles   map[hexgrid.Coord]*Tile
	byID    map[int]hexgrid.Coord
	rosters [2]map[string]struct{}
}

// BuildGrid constructs the board from a layout and a map preset. A preset
// that references a tile ID missing from the layout indicates a corrupt
// preset and panics; validate presets loaded from user files before
// calling this.
func BuildGrid(layout Layout, preset MapPreset) *Grid {
	g := &Grid{
		layout:  layout,
		mapName: preset.Name,
		tiles:   make(map[hexgrid.Coord]*Tile, layout.TileCount()),
		byID:    make(map[int]hexgrid.Coord, layout.TileCount()),
	}
	g.rosters[TeamA] = make(map[string]struct{})
	g.rosters[TeamB] = make(map[string]struct{})

	for row, ids := range layout.Rows {
		for col, id := range ids {
			if _, dup := g.byID[id]; dup {
				panic(fmt.Sprintf("board: layout %q repeats tile ID %d", layout.Name, id))
			}
			c := coordFor(row, col)
			g.tiles[c] = &Tile{Coord: c, ID: id, Row: row, State: StateDefault}
			g.byID[id] = c
		}
	}

	for id, state := range preset.States {
		c, ok := g.byID[id]
		if !ok {
			panic(fmt.Sprintf("board: map preset %q references tile ID %d absent from layout %q",
				preset.Name, id, layout.Name))
		}
		g.tiles[c].State = state
	}

	return g
}

// MapName returns the name of the preset the grid was built from.
func (g *Grid) MapName() string { return g.mapName }

// Layout returns the layout the grid was built from.
func (g *Grid) Layout() Layout { return g.layout }

func (g *Grid) resolve(ref TileRef) (*Tile, bool) {
	c := ref.coord
	if ref.byID {
		var ok bool
		c, ok = g.byID[ref.id]
		if !ok {
			return nil, false
		}
	}
	t, ok := g.tiles[c]
	return t, ok
}

// TileAt returns the tile at a coordinate. Absence is the normal case at
// board edges during traversal, not an error.
func (g *Grid) TileAt(c hexgrid.Coord) (*Tile, bool) {
	t, ok := g.tiles[c]
	return t, ok
}

// TileByID returns the tile with the given display ID.
func (g *Grid) TileByID(id int) (*Tile, bool) {
	c, ok := g.byID[id]
	if !ok {
		return nil, false
	}
	return g.tiles[c], true
}

// AllTiles returns every tile ordered by display ID.
func (g *Grid) AllTiles() []*Tile {
	out := make([]*Tile, 0, len(g.tiles))
	for _, t := range g.tiles {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OccupiedTiles returns tiles holding a unit, ordered by display ID.
func (g *Grid) OccupiedTiles() []*Tile {
	var out []*Tile
	for _, t := range g.AllTiles() {
		if t.Occupant != nil {
			out = append(out, t)
		}
	}
	return out
}

// TeamCount returns the number of units placed for a team.
func (g *Grid) TeamCount(t Team) int {
	return len(g.rosters[t])
}

// HasUnit reports whether a unit is on the given team's roster.
func (g *Grid) HasUnit(unitID string, t Team) bool {
	_, ok := g.rosters[t][unitID]
	return ok
}

// CanPlaceUnit reports whether a team has a free roster slot for the unit.
// Tile compatibility is checked separately by CanPlaceOnTile.
func (g *Grid) CanPlaceUnit(unitID string, team Team) bool {
	if g.HasUnit(unitID, team) {
		return false
	}
	return g.TeamCount(team) < MaxTeamSize
}

// CanPlaceOnTile reports whether the referenced tile accepts the team:
// its state must be the team's available or occupied variant.
func (g *Grid) CanPlaceOnTile(ref TileRef, team Team) bool {
	t, ok := g.resolve(ref)
	if !ok {
		return false
	}
	return tileAccepts(t.State, team)
}

func tileAccepts(s TileState, team Team) bool {
	return s == AvailableState(team) || s == OccupiedState(team)
}

// PlaceUnit puts a unit on a tile. Returns false without side effects if
// the roster check or the tile check fails. An existing occupant on the
// tile is displaced (removed from its roster) before the new unit lands.
func (g *Grid) PlaceUnit(ref TileRef, unitID string, team Team) bool {
	t, ok := g.resolve(ref)
	if !ok {
		return false
	}
	return g.placeAt(t, unitID, team)
}

func (g *Grid) placeAt(t *Tile, unitID string, team Team) bool {
	if !g.CanPlaceUnit(unitID, team) {
		return false
	}
	if !tileAccepts(t.State, team) {
		return false
	}
	if t.Occupant != nil {
		delete(g.rosters[t.Occupant.Team], t.Occupant.UnitID)
	}
	t.Occupant = &Occupant{UnitID: unitID, Team: team}
	t.State = OccupiedState(team)
	g.rosters[team][unitID] = struct{}{}
	return true
}

// RemoveUnit clears a tile's occupant. No-op if the tile is empty or
// absent. The tile state reverts to the team's available variant.
func (g *Grid) RemoveUnit(ref TileRef) {
	t, ok := g.resolve(ref)
	if !ok {
		return
	}
	g.removeAt(t)
}

func (g *Grid) removeAt(t *Tile) {
	if t.Occupant == nil {
		return
	}
	delete(g.rosters[t.Occupant.Team], t.Occupant.UnitID)
	t.Occupant = nil
	t.State = vacated(t.State)
}

// MoveUnit relocates a unit. The destination team is taken from the
// destination tile's state, so moving onto the other side's spawn tile
// changes the unit's team. Removal precedes placement, which is what
// keeps cross-team moves within roster capacity. Returns false without
// mutation on any failure.
func (g *Grid) MoveUnit(from, to TileRef, unitID string) bool {
	src, ok := g.resolve(from)
	if !ok {
		return false
	}
	dst, ok := g.resolve(to)
	if !ok {
		return false
	}
	if src == dst {
		return false
	}
	if src.Occupant == nil || src.Occupant.UnitID != unitID {
		return false
	}
	destTeam, ok := dst.State.Team()
	if !ok {
		return false
	}

	origTeam := src.Occupant.Team
	origState := src.State
	g.removeAt(src)

	if !g.placeAt(dst, unitID, destTeam) {
		// Restore the unit at the source exactly as it was.
		src.Occupant = &Occupant{UnitID: unitID, Team: origTeam}
		src.State = origState
		g.rosters[origTeam][unitID] = struct{}{}
		return false
	}
	return true
}

// SwapUnits exchanges the occupants of two tiles. Each unit adopts the
// team encoded by its destination tile's state. All-or-nothing: if either
// placement fails, both units are restored to their original tiles and
// teams.
func (g *Grid) SwapUnits(a, b TileRef) bool {
	ta, ok := g.resolve(a)
	if !ok {
		return false
	}
	tb, ok := g.resolve(b)
	if !ok {
		return false
	}
	if ta == tb || ta.Occupant == nil || tb.Occupant == nil {
		return false
	}

	occA, occB := *ta.Occupant, *tb.Occupant
	stateA, stateB := ta.State, tb.State
	teamForA, _ := tb.State.Team() // occupied states always carry a team
	teamForB, _ := ta.State.Team()

	g.removeAt(ta)
	g.removeAt(tb)

	if g.placeAt(tb, occA.UnitID, teamForA) && g.placeAt(ta, occB.UnitID, teamForB) {
		return true
	}

	// Roll back: drop whatever landed, reinstate the originals.
	delete(g.rosters[teamForA], occA.UnitID)
	delete(g.rosters[teamForB], occB.UnitID)
	ta.Occupant = &occA
	ta.State = stateA
	tb.Occupant = &occB
	tb.State = stateB
	g.rosters[occA.Team][occA.UnitID] = struct{}{}
	g.rosters[occB.Team][occB.UnitID] = struct{}{}
	return false
}

// ClearAllUnits removes every occupant and empties both rosters.
func (g *Grid) ClearAllUnits() {
	for _, t := range g.tiles {
		if t.Occupant != nil {
			t.Occupant = nil
			t.State = vacated(t.State)
		}
	}
	g.rosters[TeamA] = make(map[string]struct{})
	g.rosters[TeamB] = make(map[string]struct{})
}

// SetTileState overwrites a tile's state, force-removing any occupant
// first. Used by the map editor. Painting an occupied variant directly is
// rejected, since occupancy is derived from placement.
func (g *Grid) SetTileState(ref TileRef, state TileState) bool {
	if state == StateOccupiedTeamA || state == StateOccupiedTeamB {
		return false
	}
	t, ok := g.resolve(ref)
	if !ok {
		return false
	}
	g.removeAt(t)
	t.State = state
	return true
}

// Placement is one unit's position, used for persistence and cache keys.
type Placement struct {
	TileID int
	UnitID string
	Team   Team
}

// Placements returns all current placements ordered by tile ID, so two
// boards reached through different operation orders canonicalize
// identically.
func (g *Grid) Placements() []Placement {
	var out []Placement
	for _, t := range g.OccupiedTiles() {
		out = append(out, Placement{TileID: t.ID, UnitID: t.Occupant.UnitID, Team: t.Occupant.Team})
	}
	return out
}

// Snapshot renders the full board state as a canonical string, one tile
// per line. Two grids are in identical states iff their snapshots match.
func (g *Grid) Snapshot() string {
	var b strings.Builder
	for _, t := range g.AllTiles() {
		fmt.Fprintf(&b, "%d:%s", t.ID, t.State)
		if t.Occupant != nil {
			fmt.Fprintf(&b, ":%s:%s", t.Occupant.UnitID, t.Occupant.Team)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// CheckInvariants verifies occupancy/roster consistency: occupant present
// iff state is an occupied variant, occupant team matches the state, and
// per-team occupied tile counts equal roster sizes.
func (g *Grid) CheckInvariants() error {
	counts := map[Team]int{}
	for _, t := range g.tiles {
		team, isOcc := t.State.Team()
		occupiedState := t.State == StateOccupiedTeamA || t.State == StateOccupiedTeamB
		if occupiedState != (t.Occupant != nil) {
			return fmt.Errorf("tile %d: state %s inconsistent with occupant", t.ID, t.State)
		}
		if t.Occupant != nil {
			if !isOcc || t.Occupant.Team != team {
				return fmt.Errorf("tile %d: occupant team %s does not match state %s",
					t.ID, t.Occupant.Team, t.State)
			}
			if !g.HasUnit(t.Occupant.UnitID, t.Occupant.Team) {
				return fmt.Errorf("tile %d: unit %s missing from roster %s",
					t.ID, t.Occupant.UnitID, t.Occupant.Team)
			}
			counts[t.Occupant.Team]++
		}
	}
	for _, team := range []Team{TeamA, TeamB} {
		if counts[team] != g.TeamCount(team) {
			return fmt.Errorf("team %s: %d occupied tiles but %d roster entries",
				team, counts[team], g.TeamCount(team))
		}
	}
	return nil
}
