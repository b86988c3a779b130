package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"gridciv.ai/internal/sim/game"
)

func readJSONL(t *testing.T, dir string, out func([]byte)) {
	t.Helper()
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range ents {
		if !strings.HasSuffix(e.Name(), ".jsonl.zst") {
			t.Fatalf("unexpected file %s", e.Name())
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		dec, err := zstd.NewReader(f)
		if err != nil {
			t.Fatalf("zstd: %v", err)
		}
		sc := bufio.NewScanner(dec)
		for sc.Scan() {
			out(sc.Bytes())
		}
		if err := sc.Err(); err != nil {
			t.Fatalf("scan: %v", err)
		}
		dec.Close()
		_ = f.Close()
	}
}

func TestTurnLogger_WritesReplayableEntries(t *testing.T) {
	dir := t.TempDir()
	l := NewTurnLogger(dir)
	for turn := 1; turn <= 3; turn++ {
		entry := game.TurnLogEntry{
			Turn:   turn,
			Digest: strings.Repeat("ab", 32),
			Actions: []game.RecordedAction{
				{CivID: "C1", Action: game.Action{Kind: game.ActionEstablishTradeRoute, UnitID: "U1", TargetCityID: "CITY2"}},
			},
			Events: []string{"something happened"},
		}
		if err := l.WriteTurn(entry); err != nil {
			t.Fatalf("write turn %d: %v", turn, err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var got []game.TurnLogEntry
	readJSONL(t, filepath.Join(dir, "turns"), func(line []byte) {
		var e game.TurnLogEntry
		if err := json.Unmarshal(line, &e); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		got = append(got, e)
	})
	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}
	if got[2].Turn != 3 || got[2].Actions[0].Action.TargetCityID != "CITY2" {
		t.Fatalf("last entry = %+v", got[2])
	}
}

func TestAuditLogger_RecordsRejections(t *testing.T) {
	dir := t.TempDir()
	l := NewAuditLogger(dir)
	if err := l.WriteAudit(AuditEntry{Turn: 4, CivID: "C2", Action: game.Action{Kind: game.ActionMove}, Accepted: false}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	n := 0
	readJSONL(t, filepath.Join(dir, "audit"), func(line []byte) {
		var e AuditEntry
		if err := json.Unmarshal(line, &e); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if e.Turn != 4 || e.Accepted {
			t.Fatalf("entry = %+v", e)
		}
		n++
	})
	if n != 1 {
		t.Fatalf("entries = %d, want 1", n)
	}
}
