package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/talgya/hexarena/internal/board"
	"github.com/talgya/hexarena/internal/presets"
	"github.com/talgya/hexarena/internal/session"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	preset, ok := presets.ByName("open")
	if !ok {
		t.Fatal("open preset missing")
	}
	return &Server{
		Session:  session.New(presets.Standard, preset, map[string]int{"archer": 3}, 0),
		Port:     0,
		AdminKey: "test-key",
		started:  time.Now(),
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestAdminOnly(t *testing.T) {
	s := testServer(t)
	protected := s.adminOnly(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		method string
		auth   string
		want   int
	}{
		{"GET rejected", http.MethodGet, "Bearer test-key", http.StatusMethodNotAllowed},
		{"Missing token", http.MethodPost, "", http.StatusUnauthorized},
		{"Wrong token", http.MethodPost, "Bearer wrong", http.StatusUnauthorized},
		{"Valid token", http.MethodPost, "Bearer test-key", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			protected(w, req)
			if w.Code != tt.want {
				t.Errorf("status %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAdminOnlyDisabledWithoutKey(t *testing.T) {
	s := testServer(t)
	s.AdminKey = ""
	protected := s.adminOnly(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer ")
	w := httptest.NewRecorder()
	protected(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("status %d, want 403 when no admin key is configured", w.Code)
	}
}

func TestHandleBoard(t *testing.T) {
	s := testServer(t)
	s.Session.Place(board.ByID(1), "warden", board.TeamA)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/board", nil)
	w := httptest.NewRecorder()
	s.handleBoard(w, req)

	body := decodeBody(t, w)
	if body["map"] != "open" {
		t.Errorf("map = %v, want open", body["map"])
	}
	tiles, ok := body["tiles"].([]any)
	if !ok || len(tiles) != 45 {
		t.Fatalf("board returned %d tiles, want 45", len(tiles))
	}
	first := tiles[0].(map[string]any)
	if first["id"].(float64) != 1 || first["state"] != "occupied_a" {
		t.Errorf("tile 1 = %v, want occupied_a", first)
	}
}

func TestHandlePlaceAndEngagements(t *testing.T) {
	s := testServer(t)

	w := postJSON(t, s.handlePlace, `{"tileId":1,"unitId":"warden","team":"A"}`)
	if ok := decodeBody(t, w)["ok"]; ok != true {
		t.Fatalf("place warden: ok = %v", ok)
	}
	w = postJSON(t, s.handlePlace, `{"tileId":40,"unitId":"reaver","team":"B"}`)
	if ok := decodeBody(t, w)["ok"]; ok != true {
		t.Fatalf("place reaver: ok = %v", ok)
	}
	// Placing on an enemy spawn is refused, not an HTTP error.
	w = postJSON(t, s.handlePlace, `{"tileId":2,"unitId":"spy","team":"B"}`)
	if w.Code != http.StatusOK || decodeBody(t, w)["ok"] != false {
		t.Error("placement on enemy spawn was not refused")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/engagements", nil)
	rec := httptest.NewRecorder()
	s.handleEngagements(rec, req)
	eng := decodeBody(t, rec)
	if len(eng) != 2 {
		t.Fatalf("%d engagements, want 2", len(eng))
	}
	warden := eng["1"].(map[string]any)
	if warden["tileId"].(float64) != 40 {
		t.Errorf("warden engages tile %v, want 40", warden["tileId"])
	}
}

func TestHandlePlaceUpdatesRange(t *testing.T) {
	s := testServer(t)
	postJSON(t, s.handlePlace, `{"tileId":1,"unitId":"ballista","team":"A","range":4}`)
	if s.Session.Roster["ballista"] != 4 {
		t.Errorf("roster range %d, want 4", s.Session.Roster["ballista"])
	}
}

func TestHandlePlaceBadRequests(t *testing.T) {
	s := testServer(t)
	if w := postJSON(t, s.handlePlace, `{"tileId":1,"unitId":"x","team":"C"}`); w.Code != http.StatusBadRequest {
		t.Errorf("unknown team: status %d, want 400", w.Code)
	}
	if w := postJSON(t, s.handlePlace, `not json`); w.Code != http.StatusBadRequest {
		t.Errorf("bad body: status %d, want 400", w.Code)
	}
}

func TestHandlePath(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/path?from=1&to=5", nil)
	w := httptest.NewRecorder()
	s.handlePath(w, req)
	body := decodeBody(t, w)
	if body["found"] != true {
		t.Error("open-board path not found")
	}
	if path := body["path"].([]any); len(path) != 5 {
		t.Errorf("path has %d hexes, want 5", len(path))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/path?from=x&to=5", nil)
	w = httptest.NewRecorder()
	s.handlePath(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad from: status %d, want 400", w.Code)
	}
}

func TestHandleSwitchMap(t *testing.T) {
	s := testServer(t)
	s.Session.Place(board.ByID(1), "warden", board.TeamA)

	w := postJSON(t, s.handleSwitchMap, `{"name":"ruins"}`)
	body := decodeBody(t, w)
	if body["ok"] != true || body["map"] != "ruins" {
		t.Fatalf("switch response %v", body)
	}
	if len(s.Session.Grid.OccupiedTiles()) != 0 {
		t.Error("placements survived the switch")
	}

	if w := postJSON(t, s.handleSwitchMap, `{"name":"atlantis"}`); w.Code != http.StatusNotFound {
		t.Errorf("unknown map: status %d, want 404", w.Code)
	}

	w = postJSON(t, s.handleSwitchMap, `{"name":"random","seed":9}`)
	if body := decodeBody(t, w); body["map"] != "random-9" {
		t.Errorf("random switch map = %v, want random-9", body["map"])
	}
}

func TestSaveLoadWithoutDB(t *testing.T) {
	s := testServer(t)
	if w := postJSON(t, s.handleSave, `{"name":"x"}`); w.Code != http.StatusServiceUnavailable {
		t.Errorf("save without DB: status %d, want 503", w.Code)
	}
	if w := postJSON(t, s.handleLoad, `{"id":"x"}`); w.Code != http.StatusServiceUnavailable {
		t.Errorf("load without DB: status %d, want 503", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d denied within budget", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request allowed past the budget")
	}
	if rl.RetryAfter("1.2.3.4") <= 0 {
		t.Error("no retry-after for an exhausted bucket")
	}
	// Other clients have their own bucket.
	if !rl.Allow("5.6.7.8") {
		t.Error("fresh client denied")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := RateLimitMiddleware(rl, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	w := httptest.NewRecorder()
	h(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request: status %d", w.Code)
	}
	w = httptest.NewRecorder()
	h(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("429 without Retry-After header")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"Plain remote", "10.0.0.1:5555", "", "10.0.0.1"},
		{"Forwarded single", "10.0.0.1:5555", "203.0.113.7", "203.0.113.7"},
		{"Forwarded chain", "10.0.0.1:5555", "203.0.113.7, 10.0.0.2", "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
