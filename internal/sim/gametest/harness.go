// Package gametest drives the turn engine end to end through its public
// surface: spawn entities, submit actions, advance turns, observe state.
// Grids start as all grass so each scenario controls terrain explicitly.
package gametest

import (
	"testing"

	"gridciv.ai/internal/sim/combat"
	"gridciv.ai/internal/sim/game"
	"gridciv.ai/internal/sim/path"
	"gridciv.ai/internal/sim/ruleset"
	"gridciv.ai/internal/sim/tuning"
)

const configDir = "../../../configs"

type Harness struct {
	T     *testing.T
	Rules *ruleset.Catalogs
	Tun   tuning.Tuning
	G     *game.Game
}

func NewHarness(t *testing.T, width, height int, seed int64) *Harness {
	t.Helper()
	return NewHarnessCfg(t, game.Config{Width: width, Height: height, Seed: seed})
}

func NewHarnessCfg(t *testing.T, cfg game.Config) *Harness {
	t.Helper()
	rules, err := ruleset.Load(configDir)
	if err != nil {
		t.Fatalf("load ruleset: %v", err)
	}
	tun := tuning.Default()
	g, err := game.New(cfg, rules, tun)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	g.SetPathfinder(path.New())
	g.SetCombatResolver(combat.New())
	return &Harness{T: t, Rules: rules, Tun: tun, G: g}
}

func (h *Harness) AddCiv(name string) *game.Civilization {
	h.T.Helper()
	return h.G.AddCivilization(name, name+" Leader")
}

func (h *Harness) Spawn(civID, unitType string, x, y int) *game.Unit {
	h.T.Helper()
	u, err := h.G.SpawnUnitAt(civID, unitType, game.Vec2i{X: x, Y: y})
	if err != nil {
		h.T.Fatalf("spawn %s for %s at (%d,%d): %v", unitType, civID, x, y, err)
	}
	return u
}

func (h *Harness) MustAccept(civID string, act game.Action) []string {
	h.T.Helper()
	res := h.G.SubmitActions(civID, []game.Action{act})
	if !res[0].Accepted {
		h.T.Fatalf("%s: action %s rejected", civID, act.Kind)
	}
	return res[0].Events
}

func (h *Harness) MustReject(civID string, act game.Action) {
	h.T.Helper()
	res := h.G.SubmitActions(civID, []game.Action{act})
	if res[0].Accepted {
		h.T.Fatalf("%s: action %s accepted, want rejection", civID, act.Kind)
	}
}

func (h *Harness) EndTurn() game.TurnSummary {
	h.T.Helper()
	return h.G.AdvanceTurn()
}

func (h *Harness) EndTurns(n int) {
	h.T.Helper()
	for i := 0; i < n; i++ {
		h.G.AdvanceTurn()
	}
}

// FoundCity settles the given unit in place and returns the new city.
func (h *Harness) FoundCity(civID, unitID, name string) *game.City {
	h.T.Helper()
	u := h.G.Unit(unitID)
	if u == nil {
		h.T.Fatalf("no unit %s", unitID)
	}
	pos := u.Pos
	h.MustAccept(civID, game.Action{Kind: game.ActionFoundCity, UnitID: unitID, Name: name})
	c := h.G.City(h.G.TileAt(pos).CityID)
	if c == nil {
		h.T.Fatalf("no city at (%d,%d) after FOUND_CITY", pos.X, pos.Y)
	}
	return c
}

// SettleCity spawns a settler at (x,y) and founds a city there.
func (h *Harness) SettleCity(civID, name string, x, y int) *game.City {
	h.T.Helper()
	u := h.Spawn(civID, "SETTLER", x, y)
	return h.FoundCity(civID, u.ID, name)
}

func (h *Harness) SetTerrain(x, y int, terrain string) {
	h.G.TileAt(game.Vec2i{X: x, Y: y}).Terrain = terrain
}

func vec(x, y int) *game.Vec2i { return &game.Vec2i{X: x, Y: y} }
