package hexgrid

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Coord
		want int
	}{
		{"Same hex", Coord{0, 0}, Coord{0, 0}, 0},
		{"Adjacent east", Coord{0, 0}, Coord{1, 0}, 1},
		{"Adjacent southeast", Coord{0, 0}, Coord{0, 1}, 1},
		{"Two along axis", Coord{0, 0}, Coord{2, 0}, 2},
		{"Diagonal", Coord{0, 0}, Coord{2, 2}, 4},
		{"Negative quadrant", Coord{-2, -1}, Coord{1, 1}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := Distance(tt.b, tt.a); got != tt.want {
				t.Errorf("Distance(%v, %v) = %d, want %d (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestDistanceIdentity(t *testing.T) {
	for q := -3; q <= 3; q++ {
		for r := -3; r <= 3; r++ {
			c := Coord{Q: q, R: r}
			if d := Distance(c, c); d != 0 {
				t.Errorf("Distance(%v, %v) = %d, want 0", c, c, d)
			}
		}
	}
}

func TestCubeInvariant(t *testing.T) {
	for q := -5; q <= 5; q++ {
		for r := -5; r <= 5; r++ {
			c := Coord{Q: q, R: r}
			if c.Q+c.R+c.S() != 0 {
				t.Errorf("coordinate %v violates q+r+s=0", c)
			}
		}
	}
}

func TestNeighbors(t *testing.T) {
	center := Coord{Q: 2, R: -1}
	seen := map[Coord]bool{}
	for _, nb := range center.Neighbors() {
		if d := Distance(center, nb); d != 1 {
			t.Errorf("neighbor %v at distance %d, want 1", nb, d)
		}
		if seen[nb] {
			t.Errorf("duplicate neighbor %v", nb)
		}
		seen[nb] = true
	}
	if len(seen) != 6 {
		t.Errorf("got %d distinct neighbors, want 6", len(seen))
	}
}

func TestNeighborDirections(t *testing.T) {
	c := Coord{Q: 0, R: 0}
	for dir := 0; dir < 6; dir++ {
		if got, want := c.Neighbor(dir), c.Add(Directions[dir]); got != want {
			t.Errorf("Neighbor(%d) = %v, want %v", dir, got, want)
		}
	}
}
