package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"gridciv.ai/internal/persistence/indexdb"
	persistlog "gridciv.ai/internal/persistence/log"
	"gridciv.ai/internal/persistence/snapshot"
	"gridciv.ai/internal/protocol"
	"gridciv.ai/internal/sim/combat"
	"gridciv.ai/internal/sim/game"
	"gridciv.ai/internal/sim/path"
	"gridciv.ai/internal/sim/ruleset"
	"gridciv.ai/internal/sim/tuning"
	"gridciv.ai/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		gameID     = flag.String("game", "game_1", "game id")
		seed       = flag.Int64("seed", 1337, "map seed (used only when starting fresh)")
		width      = flag.Int("width", 40, "map width")
		height     = flag.Int("height", 40, "map height")
		maxCivs    = flag.Int("max_civs", 8, "maximum number of civilizations")
		configDir  = flag.String("configs", "./configs", "config directory")
		schemaDir  = flag.String("schemas", "./schemas", "wire-protocol schema directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite index")

		snapPath   = flag.String("snapshot", "", "path to snapshot to load (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "load latest snapshot from data dir if present (when -snapshot is empty)")
		snapEvery  = flag.Int("snapshot_every_turns", 10, "write a snapshot every N turns (0 disables)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	rules, err := ruleset.Load(*configDir)
	if err != nil {
		logger.Fatalf("load ruleset: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune = tuning.Default()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	gameDir := filepath.Join(*dataDir, "games", *gameID)
	_ = os.MkdirAll(gameDir, 0o755)

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(gameDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(*configDir, rules, tune); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
	}

	// Fresh game or snapshot resume.
	var g *game.Game
	snapshotToLoad := strings.TrimSpace(*snapPath)
	if snapshotToLoad == "" && *loadLatest {
		snapshotToLoad = latestSnapshot(gameDir)
	}
	if snapshotToLoad != "" {
		snap, err := snapshot.ReadSnapshot(snapshotToLoad)
		if err != nil {
			logger.Fatalf("read snapshot: %v", err)
		}
		if snap.Header.GameID != "" && snap.Header.GameID != *gameID {
			logger.Fatalf("snapshot game id mismatch: flag=%s snap=%s", *gameID, snap.Header.GameID)
		}
		g, err = game.Restore(snap.State, rules, tune)
		if err != nil {
			logger.Fatalf("restore: %v", err)
		}
		if got := g.StateDigest(); snap.Digest != "" && got != snap.Digest {
			logger.Fatalf("snapshot digest mismatch: got=%s want=%s", got, snap.Digest)
		}
		logger.Printf("resumed from snapshot=%s turn=%d", filepath.Base(snapshotToLoad), g.Turn())
	} else {
		g, err = game.New(game.Config{Width: *width, Height: *height, Seed: *seed}, rules, tune)
		if err != nil {
			logger.Fatalf("game: %v", err)
		}
		g.GenerateTerrain()
	}
	g.SetPathfinder(path.New())
	g.SetCombatResolver(combat.New())

	ctx, cancel := signalContext()
	defer cancel()

	turnLog := persistlog.NewTurnLogger(gameDir)
	auditLog := persistlog.NewAuditLogger(gameDir)
	defer turnLog.Close()
	defer auditLog.Close()

	hub := ws.NewHub(g, *maxCivs)
	snapCh := make(chan snapshot.SnapshotV1, 2)
	hub.OnTurn = func(summary game.TurnSummary) {
		entry := game.TurnLogEntry{
			Turn:    summary.Turn,
			Actions: summary.Actions,
			Events:  summary.Events,
			Digest:  summary.Digest,
		}
		if err := turnLog.WriteTurn(entry); err != nil {
			logger.Printf("turn log: %v", err)
		}
		if idx != nil {
			_ = idx.WriteTurn(entry)
		}
		if *snapEvery > 0 && summary.Turn%*snapEvery == 0 {
			select {
			case snapCh <- snapshot.New(*gameID, g):
			default:
			}
		}
	}
	hub.OnAction = func(turn int, civID string, act game.Action, accepted bool) {
		entry := persistlog.AuditEntry{
			Turn:     turn,
			CivID:    civID,
			Action:   act,
			Accepted: accepted,
			Time:     time.Now().UTC().Format(time.RFC3339),
		}
		if err := auditLog.WriteAudit(entry); err != nil {
			logger.Printf("audit log: %v", err)
		}
		if idx != nil {
			_ = idx.WriteAudit(entry)
		}
	}

	// Snapshot writer.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-snapCh:
				p := filepath.Join(gameDir, "snapshots", fmt.Sprintf("%d.snap.zst", snap.Header.Turn))
				if err := snapshot.WriteSnapshot(p, snap); err != nil {
					logger.Printf("snapshot write: %v", err)
					continue
				}
				if idx != nil {
					idx.RecordSnapshot(p, snap)
				}
			}
		}
	}()

	submitValidator, err := protocol.LoadSubmitValidator(*schemaDir)
	if err != nil {
		logger.Fatalf("load submit schema: %v", err)
	}
	srv := ws.NewServer(hub, submitValidator, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP gridciv_game_turn Current game turn.\n")
		fmt.Fprintf(rw, "# TYPE gridciv_game_turn gauge\n")
		fmt.Fprintf(rw, "gridciv_game_turn{game=%q} %d\n", *gameID, g.Turn())
	})
	mux.HandleFunc("/v1/ws", srv.Handler())
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)

	httpSrv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Printf("listening on %s (game=%s seed=%d %dx%d)", *addr, *gameID, g.Seed(), g.Width(), g.Height())
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("http: %v", err)
	}
}

func latestSnapshot(gameDir string) string {
	dir := filepath.Join(gameDir, "snapshots")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var names []string
	for _, e := range ents {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".snap.zst") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Slice(names, func(i, j int) bool {
		return turnOf(names[i]) < turnOf(names[j])
	})
	return filepath.Join(dir, names[len(names)-1])
}

func turnOf(name string) int {
	n := 0
	for _, r := range strings.TrimSuffix(name, ".snap.zst") {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
