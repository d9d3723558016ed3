// Package hexgrid provides cube/axial hex coordinate math for the battlefield.
// Coordinates are axial (q, r); the third cube coordinate s is derived,
// so q + r + s = 0 holds by construction.
package hexgrid

import "fmt"

// Coord is a position on the hex grid in axial coordinates.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (c Coord) S() int {
	return -c.Q - c.R
}

// Add returns the component-wise sum of two coordinates.
func (c Coord) Add(o Coord) Coord {
	return Coord{Q: c.Q + o.Q, R: c.R + o.R}
}

// String formats the coordinate as (q,r,s).
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.Q, c.R, c.S())
}

// Directions defines the six neighbor offsets in axial coordinates.
// Index 0 points east; subsequent entries proceed counter-clockwise.
var Directions = [6]Coord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbor returns the adjacent coordinate in the given direction (0..5).
func (c Coord) Neighbor(dir int) Coord {
	return c.Add(Directions[dir%6])
}

// Neighbors returns the six adjacent coordinates.
func (c Coord) Neighbors() [6]Coord {
	var result [6]Coord
	for i, dir := range Directions {
		result[i] = c.Add(dir)
	}
	return result
}

// Distance returns the hex distance between two coordinates:
// half the sum of the absolute cube-coordinate deltas.
func Distance(a, b Coord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return (dq + dr + ds) / 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
