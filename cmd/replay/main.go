// Command replay restores a snapshot, re-applies logged turns and verifies
// that every state digest matches the original run.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"gridciv.ai/internal/persistence/snapshot"
	"gridciv.ai/internal/sim/combat"
	"gridciv.ai/internal/sim/game"
	"gridciv.ai/internal/sim/path"
	"gridciv.ai/internal/sim/ruleset"
	"gridciv.ai/internal/sim/tuning"
)

func main() {
	var (
		snapPath   = flag.String("snapshot", "", "path to .snap.zst")
		turnsDir   = flag.String("turns", "", "turns dir containing turns-*.jsonl.zst (optional)")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		fromTurn   = flag.Int("from_turn", 0, "start verifying from turn (inclusive, optional)")
		toTurn     = flag.Int("to_turn", 0, "stop at turn (inclusive, optional)")
	)
	flag.Parse()

	if *snapPath == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot")
		os.Exit(2)
	}

	snap, err := snapshot.ReadSnapshot(*snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}

	fmt.Printf("snapshot v%d game=%s turn=%d seed=%d civs=%d units=%d cities=%d\n",
		snap.Header.Version, snap.Header.GameID, snap.Header.Turn,
		snap.State.Config.Seed, len(snap.State.Civs), len(snap.State.Units), len(snap.State.Cities))

	if *turnsDir == "" {
		return
	}

	rules, err := ruleset.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load ruleset:", err)
		os.Exit(1)
	}
	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load tuning:", err)
		os.Exit(1)
	}

	g, err := game.Restore(snap.State, rules, tune)
	if err != nil {
		fmt.Fprintln(os.Stderr, "restore:", err)
		os.Exit(1)
	}
	g.SetPathfinder(path.New())
	g.SetCombatResolver(combat.New())
	if got := g.StateDigest(); snap.Digest != "" && got != snap.Digest {
		fmt.Fprintf(os.Stderr, "snapshot digest mismatch: got=%s want=%s\n", got, snap.Digest)
		os.Exit(1)
	}

	verifyFrom := *fromTurn
	if verifyFrom == 0 {
		verifyFrom = g.Turn()
	}

	files, err := listTurnFiles(*turnsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list turns:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no turn files found in", *turnsDir)
		os.Exit(1)
	}

	var checked int
	for _, p := range files {
		if err := replayFile(g, p, verifyFrom, *toTurn, &checked); err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
		if *toTurn != 0 && g.Turn() > *toTurn {
			break
		}
	}
	fmt.Printf("replay ok: checked=%d turns (from snapshot turn=%d)\n", checked, snap.Header.Turn)
}

func listTurnFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "turns-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

func replayFile(g *game.Game, p string, verifyFrom, toTurn int, checked *int) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	for sc.Scan() {
		line := sc.Bytes()
		var entry game.TurnLogEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return fmt.Errorf("%s: unmarshal: %w", filepath.Base(p), err)
		}
		if entry.Turn < g.Turn() {
			continue
		}
		if toTurn != 0 && entry.Turn > toTurn {
			return nil
		}
		if entry.Turn != g.Turn() {
			return fmt.Errorf("turn mismatch: want=%d got=%d (file=%s)", g.Turn(), entry.Turn, filepath.Base(p))
		}

		for _, ra := range entry.Actions {
			g.SubmitActions(ra.CivID, []game.Action{ra.Action})
		}
		summary := g.AdvanceTurn()

		if summary.Turn >= verifyFrom {
			*checked++
			if summary.Digest != entry.Digest {
				return fmt.Errorf("digest mismatch at turn %d: got=%s want=%s", summary.Turn, summary.Digest, entry.Digest)
			}
		}
	}
	return sc.Err()
}
