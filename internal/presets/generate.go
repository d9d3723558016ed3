package presets

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexarena/internal/board"
)

// Obstacle density thresholds for generated maps. Sampled noise is
// normalized to [0,1]; tiles above blockedLvl become walls, tiles above
// breakableLvl become breakable cover.
const (
	blockedLvl   = 0.70
	breakableLvl = 0.58
)

// GenerateMap produces a practice map with noise-scattered obstacles in
// the midfield. Spawn rows are never touched, so both teams can always
// deploy. Deterministic for a given seed.
func GenerateMap(seed int64) board.MapPreset {
	noise := opensimplex.NewNormalized(seed)
	states := spawnStates()

	for id := midfieldFirst; id <= midfieldLast; id++ {
		row := (id - 1) / 5
		col := (id - 1) % 5

		// Hex axial → cartesian for smooth sampling across rows.
		q := float64(col) - float64(row-row%2)/2
		x := q + float64(row)*0.5
		y := float64(row) * math.Sqrt(3.0) / 2.0

		n := noise.Eval2(x*0.9, y*0.9)
		switch {
		case n > blockedLvl:
			states[id] = board.StateBlocked
		case n > breakableLvl:
			states[id] = board.StateBlockedBreakable
		}
	}

	return board.MapPreset{
		Name:   fmt.Sprintf("random-%d", seed),
		States: states,
	}
}
