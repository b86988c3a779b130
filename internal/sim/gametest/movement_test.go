package gametest

import (
	"testing"

	"gridciv.ai/internal/sim/game"
)

func TestMove_ConsumesMovementAndResets(t *testing.T) {
	h := NewHarness(t, 8, 8, 1)
	civ := h.AddCiv("Alpha")
	u := h.Spawn(civ.ID, "WARRIOR", 1, 1)

	h.MustAccept(civ.ID, game.Action{Kind: game.ActionMove, UnitID: u.ID, To: vec(3, 1)})
	if u.Pos != (game.Vec2i{X: 3, Y: 1}) {
		t.Fatalf("pos = %+v, want (3,1)", u.Pos)
	}
	if u.MovementLeft != 0 {
		t.Fatalf("movement left = %d, want 0", u.MovementLeft)
	}
	if h.G.TileAt(game.Vec2i{X: 1, Y: 1}).UnitID != "" {
		t.Fatal("origin tile still occupied")
	}
	if h.G.TileAt(game.Vec2i{X: 3, Y: 1}).UnitID != u.ID {
		t.Fatal("destination tile not occupied by the mover")
	}

	// Out of movement until the turn resolves.
	h.MustReject(civ.ID, game.Action{Kind: game.ActionMove, UnitID: u.ID, To: vec(4, 1)})
	h.EndTurn()
	if u.MovementLeft != u.Movement {
		t.Fatalf("movement left after resolution = %d, want %d", u.MovementLeft, u.Movement)
	}
}

func TestMove_TerrainCostLimitsRange(t *testing.T) {
	h := NewHarness(t, 8, 8, 1)
	civ := h.AddCiv("Alpha")
	u := h.Spawn(civ.ID, "WARRIOR", 1, 1)
	h.SetTerrain(2, 1, game.TerrainForest)

	// Forest costs 2, so (3,1) is 3 movement away on every route.
	h.MustReject(civ.ID, game.Action{Kind: game.ActionMove, UnitID: u.ID, To: vec(3, 1)})
	h.MustAccept(civ.ID, game.Action{Kind: game.ActionMove, UnitID: u.ID, To: vec(2, 1)})
	if u.MovementLeft != 0 {
		t.Fatalf("movement left = %d, want 0 after a forest step", u.MovementLeft)
	}
}

func TestMove_RejectsIllegalDestinations(t *testing.T) {
	h := NewHarness(t, 8, 8, 1)
	civ := h.AddCiv("Alpha")
	other := h.AddCiv("Beta")
	u := h.Spawn(civ.ID, "WARRIOR", 1, 1)
	blocker := h.Spawn(other.ID, "WARRIOR", 2, 1)
	h.SetTerrain(1, 2, game.TerrainMountain)

	h.MustReject(civ.ID, game.Action{Kind: game.ActionMove, UnitID: u.ID, To: vec(2, 1)})   // occupied
	h.MustReject(civ.ID, game.Action{Kind: game.ActionMove, UnitID: u.ID, To: vec(1, 2)})   // impassable
	h.MustReject(civ.ID, game.Action{Kind: game.ActionMove, UnitID: u.ID, To: vec(1, 1)})   // no-op
	h.MustReject(civ.ID, game.Action{Kind: game.ActionMove, UnitID: u.ID})                  // missing target
	h.MustReject(other.ID, game.Action{Kind: game.ActionMove, UnitID: u.ID, To: vec(1, 0)}) // not the owner
	_ = blocker
}

func TestMove_ZoneOfControlStopsPassThrough(t *testing.T) {
	h := NewHarness(t, 8, 8, 1)
	civ := h.AddCiv("Alpha")
	enemy := h.AddCiv("Beta")
	u := h.Spawn(civ.ID, "WARRIOR", 2, 1)
	h.Spawn(enemy.ID, "WARRIOR", 3, 2)

	// (3,1) sits in the enemy zone of control. Entering it as the final
	// destination is fine; passing through it toward (4,1) is not, and the
	// detour is too long for 2 movement.
	h.MustReject(civ.ID, game.Action{Kind: game.ActionMove, UnitID: u.ID, To: vec(4, 1)})
	h.MustAccept(civ.ID, game.Action{Kind: game.ActionMove, UnitID: u.ID, To: vec(3, 1)})
	if u.Pos != (game.Vec2i{X: 3, Y: 1}) {
		t.Fatalf("pos = %+v, want (3,1)", u.Pos)
	}
}

func TestFortify_MarksUnitAndBlocksWorkers(t *testing.T) {
	h := NewHarness(t, 8, 8, 1)
	civ := h.AddCiv("Alpha")
	w := h.Spawn(civ.ID, "WARRIOR", 1, 1)
	s := h.Spawn(civ.ID, "SETTLER", 2, 2)

	h.MustAccept(civ.ID, game.Action{Kind: game.ActionFortify, UnitID: w.ID})
	if !w.Fortified || !w.Acted || w.MovementLeft != 0 {
		t.Fatalf("fortified=%v acted=%v movement=%d", w.Fortified, w.Acted, w.MovementLeft)
	}
	h.MustReject(civ.ID, game.Action{Kind: game.ActionFortify, UnitID: w.ID}) // already fortified
	h.MustReject(civ.ID, game.Action{Kind: game.ActionFortify, UnitID: s.ID})

	// Fortification survives resolution; moving breaks it.
	h.EndTurn()
	if !w.Fortified {
		t.Fatal("fortification lost at turn resolution")
	}
	h.MustAccept(civ.ID, game.Action{Kind: game.ActionMove, UnitID: w.ID, To: vec(1, 2)})
	if w.Fortified {
		t.Fatal("fortification survived a move")
	}
}
