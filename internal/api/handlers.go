package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexarena/internal/board"
	"github.com/talgya/hexarena/internal/presets"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, map[string]any{
		"session":  s.Session.ID.String(),
		"map":      s.Session.Grid.MapName(),
		"tiles":    humanize.Comma(int64(len(s.Session.Grid.AllTiles()))),
		"teamA":    s.Session.Grid.TeamCount(board.TeamA),
		"teamB":    s.Session.Grid.TeamCount(board.TeamB),
		"caches":   s.Session.Caches().Sizes(),
		"started":  humanize.Time(s.started),
	})
}

type tileEntry struct {
	ID       int             `json:"id"`
	Q        int             `json:"q"`
	R        int             `json:"r"`
	S        int             `json:"s"`
	Row      int             `json:"row"`
	State    string          `json:"state"`
	Occupant *board.Occupant `json:"occupant,omitempty"`
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tiles := s.Session.Grid.AllTiles()
	entries := make([]tileEntry, 0, len(tiles))
	for _, t := range tiles {
		entries = append(entries, tileEntry{
			ID:       t.ID,
			Q:        t.Coord.Q,
			R:        t.Coord.R,
			S:        t.Coord.S(),
			Row:      t.Row,
			State:    t.State.String(),
			Occupant: t.Occupant,
		})
	}
	writeJSON(w, map[string]any{"map": s.Session.Grid.MapName(), "tiles": entries})
}

// handleEngagements returns one directional indicator per placed unit:
// closest enemy by default, closest ally with ?side=ally.
func (s *Server) handleEngagements(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.URL.Query().Get("side") == "ally" {
		writeJSON(w, s.Session.AllyMap())
		return
	}
	writeJSON(w, s.Session.EnemyMap())
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	from, err := strconv.Atoi(r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "bad from tile", http.StatusBadRequest)
		return
	}
	to, err := strconv.Atoi(r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "bad to tile", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path, ok := s.Session.Path(from, to)
	writeJSON(w, map[string]any{"found": ok, "path": path})
}

func (s *Server) handleMaps(w http.ResponseWriter, r *http.Request) {
	names := []string{}
	for _, p := range presets.Builtins() {
		names = append(names, p.Name)
	}
	writeJSON(w, map[string]any{"maps": names})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeJSON(w, map[string]any{"sessions": []any{}})
		return
	}
	infos, err := s.DB.ListSessions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"sessions": infos})
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TileID int    `json:"tileId"`
		UnitID string `json:"unitId"`
		Team   string `json:"team"`
		Range  int    `json:"range"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	team, err := board.ParseTeam(req.Team)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Range >= 1 {
		s.Session.Roster[req.UnitID] = req.Range
	}
	ok := s.Session.Place(board.ByID(req.TileID), req.UnitID, team)
	writeJSON(w, map[string]any{"ok": ok})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TileID int `json:"tileId"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Session.Remove(board.ByID(req.TileID))
	writeJSON(w, map[string]any{"ok": true})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From   int    `json:"from"`
		To     int    `json:"to"`
		UnitID string `json:"unitId"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.Session.Move(board.ByID(req.From), board.ByID(req.To), req.UnitID)
	writeJSON(w, map[string]any{"ok": ok})
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		A int `json:"a"`
		B int `json:"b"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.Session.Swap(board.ByID(req.A), board.ByID(req.B))
	writeJSON(w, map[string]any{"ok": ok})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Session.Clear()
	writeJSON(w, map[string]any{"ok": true})
}

// handleTileState is the map-editor hook: paint a tile state, force-
// removing any occupant.
func (s *Server) handleTileState(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TileID int    `json:"tileId"`
		State  string `json:"state"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	state, err := board.ParseTileState(req.State)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.Session.SetTileState(board.ByID(req.TileID), state)
	writeJSON(w, map[string]any{"ok": ok})
}

func (s *Server) handleSwitchMap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Seed int64  `json:"seed"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	var preset board.MapPreset
	if req.Name == "random" {
		preset = presets.GenerateMap(req.Seed)
	} else {
		var ok bool
		preset, ok = presets.ByName(req.Name)
		if !ok {
			http.Error(w, "unknown map preset", http.StatusNotFound)
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Session.SwitchMap(preset)
	writeJSON(w, map[string]any{"ok": true, "map": preset.Name})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "persistence disabled", http.StatusServiceUnavailable)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		req.Name = "unnamed"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.DB.SaveSession(s.Session, req.Name); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "id": s.Session.ID.String()})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "persistence disabled", http.StatusServiceUnavailable)
		return
	}
	var req struct {
		ID string `json:"id"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.DB.LoadSession(req.ID, presets.Standard, presets.ByName, 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.Session = loaded
	writeJSON(w, map[string]any{"ok": true, "map": loaded.Grid.MapName()})
}
