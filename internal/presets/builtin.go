// Package presets holds the declarative board tables: the standard
// layout, built-in map presets, user presets loaded from YAML, and a
// noise-driven random map generator.
package presets

import (
	"fmt"

	"github.com/talgya/hexarena/internal/board"
)

// Standard is the 45-tile battlefield: nine rows of five tiles, IDs
// assigned row-major. Rows 0–2 are team A's spawn half, rows 6–8 team
// B's; the midfield rows 3–5 (tiles 16–30) are where obstacles live.
var Standard = board.Layout{
	Name: "standard",
	Rows: [][]int{
		{1, 2, 3, 4, 5},
		{6, 7, 8, 9, 10},
		{11, 12, 13, 14, 15},
		{16, 17, 18, 19, 20},
		{21, 22, 23, 24, 25},
		{26, 27, 28, 29, 30},
		{31, 32, 33, 34, 35},
		{36, 37, 38, 39, 40},
		{41, 42, 43, 44, 45},
	},
}

// Midfield tile ID bounds for the standard layout.
const (
	midfieldFirst = 16
	midfieldLast  = 30
)

// spawnStates returns the spawn-tile assignments shared by every map on
// the standard layout.
func spawnStates() map[int]board.TileState {
	states := make(map[int]board.TileState, 30)
	for id := 1; id <= 15; id++ {
		states[id] = board.StateAvailableTeamA
	}
	for id := 31; id <= 45; id++ {
		states[id] = board.StateAvailableTeamB
	}
	return states
}

func builtinPreset(name string, blocked, breakable []int) board.MapPreset {
	states := spawnStates()
	for _, id := range blocked {
		states[id] = board.StateBlocked
	}
	for _, id := range breakable {
		states[id] = board.StateBlockedBreakable
	}
	return board.MapPreset{Name: name, States: states}
}

// Builtins returns the shipped map presets.
func Builtins() []board.MapPreset {
	return []board.MapPreset{
		builtinPreset("open", nil, nil),
		builtinPreset("ruins", []int{18, 22, 24, 28}, []int{16, 30}),
		builtinPreset("crossfire", []int{17, 23, 29}, []int{19, 25}),
	}
}

// ByName looks up a built-in preset.
func ByName(name string) (board.MapPreset, bool) {
	for _, p := range Builtins() {
		if p.Name == name {
			return p, true
		}
	}
	return board.MapPreset{}, false
}

// Validate checks a preset against a layout before grid construction:
// every referenced tile ID must exist and occupied states may not appear
// in a preset (occupancy is derived from placement, never painted).
// BuildGrid panics on corrupt presets; run loaded presets through this
// first so user files fail with an error instead.
func Validate(layout board.Layout, preset board.MapPreset) error {
	ids := make(map[int]bool, layout.TileCount())
	for _, row := range layout.Rows {
		for _, id := range row {
			ids[id] = true
		}
	}
	for id, state := range preset.States {
		if !ids[id] {
			return fmt.Errorf("preset %q: tile ID %d not in layout %q", preset.Name, id, layout.Name)
		}
		if state == board.StateOccupiedTeamA || state == board.StateOccupiedTeamB {
			return fmt.Errorf("preset %q: tile ID %d assigns occupied state %s", preset.Name, id, state)
		}
	}
	return nil
}
