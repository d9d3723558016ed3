package board

import "github.com/talgya/hexarena/internal/hexgrid"

// Layout is a declarative board shape: rows of tile IDs, row-major.
// Row i maps to axial r=i; column j within a row maps to axial
// q = j - (i - i%2)/2, the usual odd-r offset conversion. Tile IDs must
// be unique across the layout.
type Layout struct {
	Name string
	Rows [][]int
}

// TileCount returns the number of tiles the layout defines.
func (l Layout) TileCount() int {
	n := 0
	for _, row := range l.Rows {
		n += len(row)
	}
	return n
}

// coordFor converts a (row, column) cell of the layout into axial coordinates.
func coordFor(row, col int) hexgrid.Coord {
	return hexgrid.Coord{Q: col - (row-row%2)/2, R: row}
}

// MapPreset assigns initial tile states per tile ID. IDs absent from
// States start as StateDefault.
type MapPreset struct {
	Name   string
	States map[int]TileState
}

// TileRef addresses a tile either by coordinate or by display ID. Public
// Grid methods accept a TileRef and normalize it to a coordinate up front,
// so internal logic always works on one representation.
type TileRef struct {
	coord hexgrid.Coord
	id    int
	byID  bool
}

// At references a tile by its axial coordinate.
func At(c hexgrid.Coord) TileRef {
	return TileRef{coord: c}
}

// ByID references a tile by its display ID.
func ByID(id int) TileRef {
	return TileRef{id: id, byID: true}
}
