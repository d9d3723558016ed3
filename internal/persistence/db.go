// Package persistence stores named board sessions in SQLite. A saved
// session is just its map name plus placements; restore replays the
// placements through the grid's own methods, so every invariant is
// re-checked on load.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexarena/internal/board"
	"github.com/talgya/hexarena/internal/session"
)

// DB wraps a SQLite connection for session storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		map TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS placements (
		session_id TEXT NOT NULL,
		tile_id INTEGER NOT NULL,
		unit_id TEXT NOT NULL,
		team INTEGER NOT NULL,
		attack_range INTEGER NOT NULL,
		PRIMARY KEY (session_id, tile_id)
	);

	CREATE INDEX IF NOT EXISTS idx_placements_session ON placements(session_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SessionInfo summarizes a saved session.
type SessionInfo struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Map     string `db:"map" json:"map"`
	SavedAt int64  `db:"saved_at" json:"savedAt"`
	Units   int    `db:"units" json:"units"`
}

// SaveSession writes a session under the given display name, replacing
// any prior save with the same session ID.
func (db *DB) SaveSession(s *session.Session, name string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := s.ID.String()
	placements := s.Grid.Placements()

	if _, err := tx.Exec("DELETE FROM placements WHERE session_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO sessions (id, name, map, saved_at) VALUES (?, ?, ?, ?)",
		id, name, s.Grid.MapName(), time.Now().Unix(),
	); err != nil {
		return err
	}

	for _, p := range placements {
		attackRange := s.Roster[p.UnitID]
		if attackRange < 1 {
			attackRange = 1
		}
		if _, err := tx.Exec(
			"INSERT INTO placements (session_id, tile_id, unit_id, team, attack_range) VALUES (?, ?, ?, ?, ?)",
			id, p.TileID, p.UnitID, int(p.Team), attackRange,
		); err != nil {
			return fmt.Errorf("insert placement tile %d: %w", p.TileID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("session saved", "id", id, "name", name, "placements", len(placements))
	return nil
}

// LoadSession restores a saved session. The map preset is resolved via
// lookupPreset (normally presets.ByName) and placements are replayed
// through the grid; a placement the grid rejects means the save no
// longer fits the preset and fails the load.
func (db *DB) LoadSession(id string, layout board.Layout, lookupPreset func(string) (board.MapPreset, bool), cacheTTL time.Duration) (*session.Session, error) {
	var info SessionInfo
	if err := db.conn.Get(&info, "SELECT id, name, map, saved_at FROM sessions WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	preset, ok := lookupPreset(info.Map)
	if !ok {
		return nil, fmt.Errorf("session %s: unknown map preset %q", id, info.Map)
	}

	var rows []struct {
		TileID      int    `db:"tile_id"`
		UnitID      string `db:"unit_id"`
		Team        int    `db:"team"`
		AttackRange int    `db:"attack_range"`
	}
	if err := db.conn.Select(&rows,
		"SELECT tile_id, unit_id, team, attack_range FROM placements WHERE session_id = ? ORDER BY tile_id", id,
	); err != nil {
		return nil, fmt.Errorf("session %s placements: %w", id, err)
	}

	roster := make(map[string]int, len(rows))
	for _, r := range rows {
		roster[r.UnitID] = r.AttackRange
	}

	s := session.New(layout, preset, roster, cacheTTL)
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("session %s: bad id: %w", id, err)
	}
	s.ID = sid

	for _, r := range rows {
		if !s.Place(board.ByID(r.TileID), r.UnitID, board.Team(r.Team)) {
			return nil, fmt.Errorf("session %s: placement of %s on tile %d rejected on replay",
				id, r.UnitID, r.TileID)
		}
	}
	return s, nil
}

// ListSessions returns summaries of all saved sessions, newest first.
func (db *DB) ListSessions() ([]SessionInfo, error) {
	var out []SessionInfo
	err := db.conn.Select(&out, `
		SELECT s.id, s.name, s.map, s.saved_at, COUNT(p.tile_id) AS units
		FROM sessions s LEFT JOIN placements p ON p.session_id = s.id
		GROUP BY s.id ORDER BY s.saved_at DESC`)
	return out, err
}

// DeleteSession removes a saved session and its placements.
func (db *DB) DeleteSession(id string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM placements WHERE session_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}
