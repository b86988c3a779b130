package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte("max_turns: 100\nbarb_camp_gold_reward: 40\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tun, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tun.MaxTurns != 100 || tun.BarbCampGoldReward != 40 {
		t.Fatalf("overrides not applied: %+v", tun)
	}
	d := Default()
	if tun.GoldenAgeTurns != d.GoldenAgeTurns || tun.GrowthEveryTurns != d.GrowthEveryTurns {
		t.Fatalf("defaults not backfilled: %+v", tun)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}

func TestLoad_RepoFileMatchesDefaults(t *testing.T) {
	tun, err := Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tun != Default() {
		t.Fatalf("shipped tuning drifted from the defaults:\n  got  %+v\n  want %+v", tun, Default())
	}
}

func TestLoad_BadYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte("max_turns: [nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatal("bad yaml loaded without error")
	}
}
