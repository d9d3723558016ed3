package presets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hexarena/internal/board"
)

// mapFile is the YAML shape of a user preset file:
//
//	maps:
//	  - name: canyon
//	    blocked: [17, 22, 27]
//	    breakable: [19, 24]
type mapFile struct {
	Maps []mapEntry `yaml:"maps"`
}

type mapEntry struct {
	Name      string `yaml:"name"`
	Blocked   []int  `yaml:"blocked"`
	Breakable []int  `yaml:"breakable"`
}

// LoadMaps reads user map presets from a YAML file and validates each
// against the standard layout. Obstacles are restricted to the midfield
// so a user file can never wall off a spawn row.
func LoadMaps(path string) ([]board.MapPreset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f mapFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var out []board.MapPreset
	for _, e := range f.Maps {
		if e.Name == "" {
			return nil, fmt.Errorf("%s: map entry with empty name", path)
		}
		for _, id := range append(append([]int{}, e.Blocked...), e.Breakable...) {
			if id < midfieldFirst || id > midfieldLast {
				return nil, fmt.Errorf("%s: map %q places obstacle on tile %d outside the midfield (%d..%d)",
					path, e.Name, id, midfieldFirst, midfieldLast)
			}
		}
		p := builtinPreset(e.Name, e.Blocked, e.Breakable)
		if err := Validate(Standard, p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
