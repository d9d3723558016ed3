// Package board provides the battlefield grid: tiles keyed by hex
// coordinate, team rosters, and all placement operations.
package board

import (
	"fmt"

	"github.com/talgya/hexarena/internal/hexgrid"
)

// Team identifies one of the two sides.
type Team uint8

const (
	TeamA Team = iota
	TeamB
)

// MaxTeamSize caps the number of units placed per team.
const MaxTeamSize = 5

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

func (t Team) String() string {
	if t == TeamA {
		return "A"
	}
	return "B"
}

// ParseTeam converts "A"/"B" (case-sensitive) into a Team.
func ParseTeam(s string) (Team, error) {
	switch s {
	case "A":
		return TeamA, nil
	case "B":
		return TeamB, nil
	}
	return TeamA, fmt.Errorf("unknown team %q", s)
}

// TileState is the closed set of states a tile can be in.
type TileState uint8

const (
	StateDefault TileState = iota // Neutral ground, traversable, accepts no placement
	StateAvailableTeamA           // Spawn tile for team A
	StateAvailableTeamB           // Spawn tile for team B
	StateOccupiedTeamA            // Holds a team A unit
	StateOccupiedTeamB            // Holds a team B unit
	StateBlocked                  // Impassable terrain
	StateBlockedBreakable         // Impassable until destroyed by the editor
)

var stateNames = [...]string{
	StateDefault:          "default",
	StateAvailableTeamA:   "available_a",
	StateAvailableTeamB:   "available_b",
	StateOccupiedTeamA:    "occupied_a",
	StateOccupiedTeamB:    "occupied_b",
	StateBlocked:          "blocked",
	StateBlockedBreakable: "blocked_breakable",
}

func (s TileState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// ParseTileState converts a state name back into a TileState.
func ParseTileState(name string) (TileState, error) {
	for i, n := range stateNames {
		if n == name {
			return TileState(i), nil
		}
	}
	return StateDefault, fmt.Errorf("unknown tile state %q", name)
}

// Team returns the side a tile state belongs to, if any. Default and
// blocked variants belong to neither team.
func (s TileState) Team() (Team, bool) {
	switch s {
	case StateAvailableTeamA, StateOccupiedTeamA:
		return TeamA, true
	case StateAvailableTeamB, StateOccupiedTeamB:
		return TeamB, true
	}
	return TeamA, false
}

// OccupiedState returns the occupied variant for a team.
func OccupiedState(t Team) TileState {
	if t == TeamA {
		return StateOccupiedTeamA
	}
	return StateOccupiedTeamB
}

// AvailableState returns the spawn variant for a team.
func AvailableState(t Team) TileState {
	if t == TeamA {
		return StateAvailableTeamA
	}
	return StateAvailableTeamB
}

// vacated returns the state a tile reverts to when its occupant leaves.
func vacated(s TileState) TileState {
	switch s {
	case StateOccupiedTeamA:
		return StateAvailableTeamA
	case StateOccupiedTeamB:
		return StateAvailableTeamB
	}
	return s
}

// Occupant is a unit standing on a tile.
type Occupant struct {
	UnitID string `json:"unitId"`
	Team   Team   `json:"team"`
}

// Tile is one cell of the board. ID and Row come from the layout preset;
// the ID (1..45) is used for display and tie-breaking only, never for
// coordinate math.
type Tile struct {
	Coord    hexgrid.Coord `json:"coord"`
	ID       int           `json:"id"`
	Row      int           `json:"row"`
	State    TileState     `json:"state"`
	Occupant *Occupant     `json:"occupant,omitempty"`
}
