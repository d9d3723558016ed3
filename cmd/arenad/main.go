// Command arenad hosts a hex battlefield session: it builds the board,
// optionally auto-places a demo formation, prints the grid, and serves
// the HTTP API until interrupted.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/talgya/hexarena/internal/api"
	"github.com/talgya/hexarena/internal/board"
	"github.com/talgya/hexarena/internal/config"
	"github.com/talgya/hexarena/internal/persistence"
	"github.com/talgya/hexarena/internal/presets"
	"github.com/talgya/hexarena/internal/session"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config (empty = defaults)")
		mapName    = flag.String("map", "", "map preset name, or \"random\" (overrides config)")
		seed       = flag.Int64("seed", 1, "seed for random maps")
		demo       = flag.Bool("demo", false, "auto-place a demo formation for both teams")
		noDB       = flag.Bool("no-db", false, "disable session persistence")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *mapName != "" {
		cfg.Map = *mapName
	}
	if *seed != 1 {
		cfg.Seed = *seed
	}

	// ── Map preset ───────────────────────────────────────────────────
	var preset board.MapPreset
	if cfg.Map == "random" {
		preset = presets.GenerateMap(cfg.Seed)
	} else {
		var ok bool
		preset, ok = presets.ByName(cfg.Map)
		if !ok && cfg.MapsFile != "" {
			loaded, err := presets.LoadMaps(cfg.MapsFile)
			if err != nil {
				slog.Error("failed to load map presets", "error", err)
				os.Exit(1)
			}
			for _, p := range loaded {
				if p.Name == cfg.Map {
					preset, ok = p, true
					break
				}
			}
		}
		if !ok {
			slog.Error("unknown map preset", "map", cfg.Map)
			os.Exit(1)
		}
	}

	// ── Session ──────────────────────────────────────────────────────
	sess := session.New(presets.Standard, preset, cfg.Ranges(), 0)
	slog.Info("board ready",
		"map", preset.Name,
		"tiles", sess.Grid.Layout().TileCount(),
		"session", sess.ID.String(),
	)

	if *demo {
		var teamA, teamB []string
		for i, u := range cfg.Roster {
			if i%2 == 0 {
				teamA = append(teamA, u.ID)
			} else {
				teamB = append(teamB, u.ID)
			}
		}
		placedA := sess.AutoPlace(board.TeamA, teamA, cfg.Seed)
		placedB := sess.AutoPlace(board.TeamB, teamB, cfg.Seed+1)
		slog.Info("demo formation placed", "teamA", placedA, "teamB", placedB)
	}

	printBoard(sess)
	printEngagements(sess)

	// ── Database ─────────────────────────────────────────────────────
	var db *persistence.DB
	if !*noDB && cfg.DBPath != "" {
		os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
		db, err = persistence.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database opened", "path", cfg.DBPath)
	}

	// ── HTTP API ─────────────────────────────────────────────────────
	adminKey := os.Getenv("ARENAD_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("ARENAD_ADMIN_KEY not set — mutation endpoints will be disabled")
	}

	apiServer := &api.Server{
		Session:  sess,
		DB:       db,
		Port:     cfg.Port,
		AdminKey: adminKey,
	}
	apiServer.Start()

	fmt.Printf("\nBattlefield %q live with %s tiles.\n",
		preset.Name, humanize.Comma(int64(sess.Grid.Layout().TileCount())))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Port)
	fmt.Println("Serving... (Ctrl+C to stop)")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	if db != nil {
		if err := db.SaveSession(sess, "autosave"); err != nil {
			slog.Error("final save failed", "error", err)
		}
	}
}

// printBoard renders the grid row by row, colorized when stdout is a
// terminal.
func printBoard(sess *session.Session) {
	color := isatty.IsTerminal(os.Stdout.Fd())

	glyphs := map[board.TileState]string{
		board.StateDefault:          ".",
		board.StateAvailableTeamA:   "a",
		board.StateAvailableTeamB:   "b",
		board.StateOccupiedTeamA:    "A",
		board.StateOccupiedTeamB:    "B",
		board.StateBlocked:          "#",
		board.StateBlockedBreakable: "%",
	}
	colors := map[board.TileState]string{
		board.StateAvailableTeamA:   "\033[36m",
		board.StateAvailableTeamB:   "\033[33m",
		board.StateOccupiedTeamA:    "\033[1;36m",
		board.StateOccupiedTeamB:    "\033[1;33m",
		board.StateBlocked:          "\033[31m",
		board.StateBlockedBreakable: "\033[35m",
	}

	fmt.Println()
	layout := sess.Grid.Layout()
	for row, ids := range layout.Rows {
		if row%2 == 1 {
			fmt.Print(" ")
		}
		for _, id := range ids {
			t, _ := sess.Grid.TileByID(id)
			g := glyphs[t.State]
			if color {
				if c, ok := colors[t.State]; ok {
					g = c + g + "\033[0m"
				}
			}
			fmt.Print(g, " ")
		}
		fmt.Println()
	}
	fmt.Println()
}

// printEngagements logs which enemy each placed unit would engage.
func printEngagements(sess *session.Session) {
	enemies := sess.EnemyMap()
	if len(enemies) == 0 {
		return
	}
	for _, t := range sess.Grid.OccupiedTiles() {
		eng, ok := enemies[t.ID]
		if !ok {
			continue
		}
		slog.Info("engagement",
			"unit", t.Occupant.UnitID,
			"team", t.Occupant.Team.String(),
			"from", t.ID,
			"target", eng.TileID,
			"distance", eng.Distance,
		)
	}
}
