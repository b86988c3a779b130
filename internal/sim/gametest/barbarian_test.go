package gametest

import (
	"testing"

	"gridciv.ai/internal/sim/game"
)

func countBarbarians(h *Harness) int {
	n := 0
	for y := 0; y < h.G.Height(); y++ {
		for x := 0; x < h.G.Width(); x++ {
			if u := h.G.UnitAt(game.Vec2i{X: x, Y: y}); u != nil && u.OwnerID == game.BarbarianFaction {
				n++
			}
		}
	}
	return n
}

func TestBarbarians_CampCaptureRewardsGold(t *testing.T) {
	h := NewHarness(t, 12, 12, 23)
	civ := h.AddCiv("Alpha")
	h.G.SpawnCamp(game.Vec2i{X: 5, Y: 5})
	h.Spawn(civ.ID, "WARRIOR", 5, 5)

	h.EndTurn()
	if len(h.G.Camps()) != 0 {
		t.Fatal("camp survived capture")
	}
	// Income 0, warrior upkeep 1, camp reward 25.
	if civ.Gold != 50-1+h.Tun.BarbCampGoldReward {
		t.Fatalf("gold = %d, want %d", civ.Gold, 50-1+h.Tun.BarbCampGoldReward)
	}
}

func TestBarbarians_SpawnOnCadenceUpToLocalCap(t *testing.T) {
	h := NewHarness(t, 12, 12, 23)
	civ := h.AddCiv("Alpha")
	h.Spawn(civ.ID, "WARRIOR", 0, 0) // keeps the civ alive, far from the camp
	h.G.SpawnCamp(game.Vec2i{X: 8, Y: 8})

	h.EndTurns(4)
	if n := countBarbarians(h); n != 0 {
		t.Fatalf("%d barbarians before the first spawn turn", n)
	}
	h.EndTurn() // turn 5
	if n := countBarbarians(h); n != 1 {
		t.Fatalf("%d barbarians after turn 5, want 1", n)
	}
	h.EndTurns(10) // turns 10 and 15 spawn too
	if n := countBarbarians(h); n != 3 {
		t.Fatalf("%d barbarians after turn 15, want 3", n)
	}
	h.EndTurns(5) // turn 20 is over the local cap
	if n := countBarbarians(h); n != 3 {
		t.Fatalf("%d barbarians after turn 20, want capped at 3", n)
	}
}

func TestBarbarians_AttackAdjacentUnits(t *testing.T) {
	h := NewHarness(t, 12, 12, 23)
	civ := h.AddCiv("Alpha")
	h.G.SpawnCamp(game.Vec2i{X: 5, Y: 5})
	w := h.Spawn(civ.ID, "WARRIOR", 5, 6)

	// Turn 5 spawns a barbarian on the camp tile; it immediately strikes the
	// adjacent warrior, and a 5-vs-4 hit always exceeds 20 hp.
	h.EndTurns(5)
	if h.G.Unit(w.ID) != nil {
		t.Fatal("warrior survived the barbarian assault")
	}
}

func TestBarbarians_MarchTowardTheNearestCity(t *testing.T) {
	h := NewHarness(t, 16, 16, 23)
	civ := h.AddCiv("Alpha")
	h.SettleCity(civ.ID, "Alphaville", 2, 8)
	h.G.SpawnCamp(game.Vec2i{X: 12, Y: 8})

	h.EndTurns(5) // spawn on turn 5
	h.EndTurn()   // one step west
	var barb *game.Unit
	for y := 0; y < h.G.Height(); y++ {
		for x := 0; x < h.G.Width(); x++ {
			if u := h.G.UnitAt(game.Vec2i{X: x, Y: y}); u != nil && u.OwnerID == game.BarbarianFaction {
				barb = u
			}
		}
	}
	if barb == nil {
		t.Fatal("no barbarian spawned")
	}
	if barb.Pos.X >= 12 {
		t.Fatalf("barbarian at %+v did not advance toward the city", barb.Pos)
	}
}
