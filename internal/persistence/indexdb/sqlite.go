// Package indexdb maintains a queryable sqlite index next to the JSONL turn
// logs. Writes go through a single writer goroutine with batched commits;
// the index may drop rows under pressure since the JSONL logs remain the
// source of truth.
package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"gridciv.ai/internal/persistence/log"
	"gridciv.ai/internal/persistence/snapshot"
	"gridciv.ai/internal/sim/game"
	"gridciv.ai/internal/sim/ruleset"
	"gridciv.ai/internal/sim/tuning"
)

type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqTurn reqKind = iota + 1
	reqAudit
	reqSnapshot
)

type req struct {
	kind reqKind

	turn     game.TurnLogEntry
	audit    log.AuditEntry
	snapshot snapshotRow
}

type snapshotRow struct {
	Turn   int
	Path   string
	Seed   int64
	Civs   int
	Units  int
	Cities int
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		// High buffer: a turn with many submitted actions writes in a burst.
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	// NORMAL is a decent durability/perf tradeoff for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS turns (
			turn INTEGER PRIMARY KEY,
			digest TEXT NOT NULL,
			actions INTEGER NOT NULL,
			events INTEGER NOT NULL,
			raw_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS actions (
			turn INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			civ_id TEXT NOT NULL,
			act_json TEXT NOT NULL,
			PRIMARY KEY (turn, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_civ_turn ON actions(civ_id, turn);`,
		`CREATE TABLE IF NOT EXISTS audits (
			turn INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			civ_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			accepted INTEGER NOT NULL,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (turn, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_civ_turn ON audits(civ_id, turn);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			turn INTEGER PRIMARY KEY,
			path TEXT NOT NULL,
			seed INTEGER NOT NULL,
			civs INTEGER NOT NULL,
			units INTEGER NOT NULL,
			cities INTEGER NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) WriteTurn(entry game.TurnLogEntry) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{kind: reqTurn, turn: entry}:
	default:
		// Drop if the indexer falls behind; JSONL logs remain the source of truth.
	}
	return nil
}

func (s *SQLiteIndex) WriteAudit(entry log.AuditEntry) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{kind: reqAudit, audit: entry}:
	default:
	}
	return nil
}

func (s *SQLiteIndex) RecordSnapshot(path string, snap snapshot.SnapshotV1) {
	if s == nil || s.closed.Load() {
		return
	}
	if snap.State == nil {
		return
	}
	r := snapshotRow{
		Turn:   snap.Header.Turn,
		Path:   path,
		Seed:   snap.State.Config.Seed,
		Civs:   len(snap.State.Civs),
		Units:  len(snap.State.Units),
		Cities: len(snap.State.Cities),
	}
	select {
	case s.ch <- req{kind: reqSnapshot, snapshot: r}:
	default:
	}
}

// UpsertCatalogs stores the content tables and their digests so external
// tooling can tell which rules a game ran under.
func (s *SQLiteIndex) UpsertCatalogs(configDir string, rules *ruleset.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	raw := map[string][]byte{}
	read := func(name, path string) {
		b, err := os.ReadFile(path)
		if err != nil {
			return
		}
		raw[name] = b
	}
	if configDir != "" {
		read("units", filepath.Join(configDir, "units.json"))
		read("buildings", filepath.Join(configDir, "buildings.json"))
		read("techs", filepath.Join(configDir, "techs.json"))
		read("governments", filepath.Join(configDir, "governments.json"))
		read("improvements", filepath.Join(configDir, "improvements.json"))
		read("great_people", filepath.Join(configDir, "great_people.json"))
	}

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	rows := []kv{
		{name: "units", digest: rules.UnitsDigest, json: raw["units"]},
		{name: "buildings", digest: rules.BuildingsDigest, json: raw["buildings"]},
		{name: "techs", digest: rules.TechsDigest, json: raw["techs"]},
		{name: "governments", digest: rules.GovernmentsDigest, json: raw["governments"]},
		{name: "improvements", digest: rules.ImprovementsDigest, json: raw["improvements"]},
		{name: "great_people", digest: rules.GreatPeopleDigest, json: raw["great_people"]},
	}

	// Tuning: store the values we actually apply (canonical JSON).
	{
		b, _ := json.Marshal(tune)
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "tuning", digest: hex.EncodeToString(sum[:]), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.name == "" || r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertTurn, _ := s.db.Prepare(`INSERT OR REPLACE INTO turns(turn,digest,actions,events,raw_json) VALUES(?,?,?,?,?)`)
	insertAction, _ := s.db.Prepare(`INSERT OR REPLACE INTO actions(turn,seq,civ_id,act_json) VALUES(?,?,?,?)`)
	insertAudit, _ := s.db.Prepare(`INSERT OR REPLACE INTO audits(turn,seq,civ_id,kind,accepted,raw_json) VALUES(?,?,?,?,?,?)`)
	insertSnapshot, _ := s.db.Prepare(`INSERT OR REPLACE INTO snapshots(turn,path,seed,civs,units,cities) VALUES(?,?,?,?,?,?)`)
	defer func() {
		if insertTurn != nil {
			_ = insertTurn.Close()
		}
		if insertAction != nil {
			_ = insertAction.Close()
		}
		if insertAudit != nil {
			_ = insertAudit.Close()
		}
		if insertSnapshot != nil {
			_ = insertSnapshot.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 2000
		commitMaxWait = 2 * time.Second

		lastAuditTurn = -1
		auditSeq      int
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			// If we can't start a tx, we can't do much; sleep a bit.
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	flushIfNeeded := func() {
		if tx == nil {
			return
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqTurn:
			b, _ := json.Marshal(r.turn)
			if insertTurn != nil {
				if _, err := tx.Stmt(insertTurn).Exec(
					r.turn.Turn,
					r.turn.Digest,
					len(r.turn.Actions),
					len(r.turn.Events),
					string(b),
				); err != nil {
					rollback()
					continue
				}
				opCount++
			}
			for i, a := range r.turn.Actions {
				if insertAction == nil {
					break
				}
				actJSON, _ := json.Marshal(a.Action)
				if _, err := tx.Stmt(insertAction).Exec(r.turn.Turn, i, a.CivID, string(actJSON)); err != nil {
					rollback()
					break
				}
				opCount++
			}

		case reqAudit:
			a := r.audit
			if a.Turn != lastAuditTurn {
				lastAuditTurn = a.Turn
				auditSeq = 0
			}
			seq := auditSeq
			auditSeq++
			rawJSON, _ := json.Marshal(a)
			if insertAudit != nil {
				accepted := 0
				if a.Accepted {
					accepted = 1
				}
				if _, err := tx.Stmt(insertAudit).Exec(
					a.Turn, seq, a.CivID, a.Action.Kind, accepted, string(rawJSON),
				); err != nil {
					rollback()
					continue
				}
				opCount++
			}

		case reqSnapshot:
			sn := r.snapshot
			if insertSnapshot != nil {
				if _, err := tx.Stmt(insertSnapshot).Exec(
					sn.Turn, sn.Path, sn.Seed, sn.Civs, sn.Units, sn.Cities,
				); err != nil {
					rollback()
					continue
				}
				opCount++
			}
		}
		flushIfNeeded()
	}

	commit()
}
