package path

import (
	"testing"

	"gridciv.ai/internal/sim/game"
	"gridciv.ai/internal/sim/ruleset"
	"gridciv.ai/internal/sim/tuning"
)

func newGrid(t *testing.T, w, h int) *game.Game {
	t.Helper()
	rules, err := ruleset.Load("../../../configs")
	if err != nil {
		t.Fatalf("load ruleset: %v", err)
	}
	g, err := game.New(game.Config{Width: w, Height: h, Seed: 1}, rules, tuning.Default())
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func at(x, y int) game.Vec2i { return game.Vec2i{X: x, Y: y} }

func TestFindPath_StraightLine(t *testing.T) {
	g := newGrid(t, 8, 8)
	p := New().FindPath(g, at(1, 1), at(4, 1), 5, "C1")
	want := []game.Vec2i{at(2, 1), at(3, 1), at(4, 1)}
	if len(p) != len(want) {
		t.Fatalf("path = %v, want %v", p, want)
	}
	for i := range want {
		if p[i] != want[i] {
			t.Fatalf("path = %v, want %v", p, want)
		}
	}
}

func TestFindPath_RoutesAroundExpensiveTerrain(t *testing.T) {
	g := newGrid(t, 8, 8)
	g.TileAt(at(2, 1)).Terrain = game.TerrainForest

	// Through the forest costs 3; around it via row 0 costs 4.
	p := New().FindPath(g, at(1, 1), at(3, 1), 10, "C1")
	if len(p) != 2 || p[0] != at(2, 1) {
		t.Fatalf("path = %v, want the 2-step forest route", p)
	}
}

func TestFindPath_BudgetLimits(t *testing.T) {
	g := newGrid(t, 8, 8)
	if p := New().FindPath(g, at(1, 1), at(5, 1), 3, "C1"); p != nil {
		t.Fatalf("path = %v, want nil beyond the movement budget", p)
	}
	if p := New().FindPath(g, at(1, 1), at(5, 1), 4, "C1"); len(p) != 4 {
		t.Fatalf("path = %v, want 4 steps at exactly the budget", p)
	}
}

func TestFindPath_RejectsBadEndpoints(t *testing.T) {
	g := newGrid(t, 8, 8)
	g.TileAt(at(3, 3)).Terrain = game.TerrainMountain
	f := New()

	if p := f.FindPath(g, at(1, 1), at(1, 1), 5, "C1"); p != nil {
		t.Fatalf("path to self = %v", p)
	}
	if p := f.FindPath(g, at(1, 1), at(3, 3), 10, "C1"); p != nil {
		t.Fatalf("path onto a mountain = %v", p)
	}
	if p := f.FindPath(g, at(1, 1), at(9, 9), 10, "C1"); p != nil {
		t.Fatalf("path out of bounds = %v", p)
	}
}

func TestFindPath_OccupiedTilesBlock(t *testing.T) {
	g := newGrid(t, 8, 3)
	civ := g.AddCivilization("Blockers", "B")
	// Wall off column 3 completely.
	for y := 0; y < 3; y++ {
		if _, err := g.SpawnUnitAt(civ.ID, "WARRIOR", at(3, y)); err != nil {
			t.Fatalf("spawn blocker: %v", err)
		}
	}
	if p := New().FindPath(g, at(1, 1), at(5, 1), 20, "C2"); p != nil {
		t.Fatalf("path through an occupied wall = %v", p)
	}
	if p := New().FindPath(g, at(1, 1), at(3, 1), 20, "C2"); p != nil {
		t.Fatalf("path onto an occupied tile = %v", p)
	}
}

func TestFindPath_EnemyZoneOfControlStopsExpansion(t *testing.T) {
	g := newGrid(t, 8, 8)
	enemy := g.AddCivilization("Enemy", "E")
	if _, err := g.SpawnUnitAt(enemy.ID, "WARRIOR", at(3, 2)); err != nil {
		t.Fatalf("spawn enemy: %v", err)
	}
	f := New()

	// (3,1) is in the enemy ZoC: fine as a destination, never as a waypoint
	// when the only alternative detour is longer than the budget.
	if p := f.FindPath(g, at(2, 1), at(3, 1), 2, "C2"); len(p) != 1 {
		t.Fatalf("path into ZoC = %v, want a single step", p)
	}
	if p := f.FindPath(g, at(2, 1), at(4, 1), 2, "C2"); p != nil {
		t.Fatalf("path through ZoC = %v, want nil", p)
	}
	// With budget for the detour the route goes around, not through.
	p := f.FindPath(g, at(2, 1), at(4, 1), 4, "C2")
	if len(p) == 0 {
		t.Fatal("no detour found")
	}
	for _, step := range p[:len(p)-1] {
		if g.InEnemyZoC(step, "C2") {
			t.Fatalf("detour %v passes through ZoC at %v", p, step)
		}
	}
}
