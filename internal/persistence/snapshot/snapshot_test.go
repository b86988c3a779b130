package snapshot

import (
	"path/filepath"
	"testing"

	"gridciv.ai/internal/sim/game"
	"gridciv.ai/internal/sim/ruleset"
	"gridciv.ai/internal/sim/tuning"
)

func testGame(t *testing.T) *game.Game {
	t.Helper()
	rules, err := ruleset.Load("../../../configs")
	if err != nil {
		t.Fatalf("load ruleset: %v", err)
	}
	g, err := game.New(game.Config{Width: 10, Height: 10, Seed: 7}, rules, tuning.Default())
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	g.GenerateTerrain()
	civ := g.AddCivilization("Alpha", "A")
	if err := g.PlaceStartingUnits(civ.ID); err != nil {
		t.Fatalf("place starting units: %v", err)
	}
	return g
}

func TestWriteRead_RoundTrip(t *testing.T) {
	g := testGame(t)
	snap := New("g1", g)
	p := filepath.Join(t.TempDir(), "snapshots", "1.snap.zst")

	if err := WriteSnapshot(p, snap); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadSnapshot(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Header != snap.Header {
		t.Fatalf("header = %+v, want %+v", got.Header, snap.Header)
	}
	if got.Digest != snap.Digest {
		t.Fatalf("digest = %s, want %s", got.Digest, snap.Digest)
	}
	if got.State == nil || got.State.Turn != g.Turn() || len(got.State.Units) != 2 {
		t.Fatalf("state = %+v", got.State)
	}

	restored, err := game.Restore(got.State, g.Rules(), tuning.Default())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.StateDigest() != snap.Digest {
		t.Fatal("restored digest differs from the captured one")
	}
}

func TestReadSnapshot_MissingFile(t *testing.T) {
	if _, err := ReadSnapshot(filepath.Join(t.TempDir(), "nope.snap.zst")); err == nil {
		t.Fatal("missing snapshot read without error")
	}
}
