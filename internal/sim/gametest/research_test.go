package gametest

import (
	"testing"

	"gridciv.ai/internal/sim/game"
)

func TestResearch_CompletesAndAutoSelectsNext(t *testing.T) {
	h := NewHarness(t, 10, 10, 11)
	civ := h.AddCiv("Alpha")
	h.SettleCity(civ.ID, "Alphaville", 4, 4)

	h.MustAccept(civ.ID, game.Action{Kind: game.ActionSetResearch, TechID: "AGRICULTURE"})
	civ.Research.Progress = 19 // cost 20, city science 1/turn

	h.EndTurn()
	if !civ.Researched["AGRICULTURE"] {
		t.Fatal("agriculture not researched")
	}
	// Pottery (25) beats Bronze Working (30) for the auto-pick.
	if civ.Research == nil || civ.Research.TechID != "POTTERY" {
		t.Fatalf("auto-selected research = %+v, want POTTERY", civ.Research)
	}
	if civ.SciencePerTurn != 1 {
		t.Fatalf("science/turn = %d, want 1", civ.SciencePerTurn)
	}
}

func TestResearch_PrereqsGateSelection(t *testing.T) {
	h := NewHarness(t, 10, 10, 11)
	civ := h.AddCiv("Alpha")
	h.Spawn(civ.ID, "WARRIOR", 1, 1)

	h.MustReject(civ.ID, game.Action{Kind: game.ActionSetResearch, TechID: "WRITING"})
	h.MustReject(civ.ID, game.Action{Kind: game.ActionSetResearch, TechID: "NOT_A_TECH"})

	civ.Researched["AGRICULTURE"] = true
	civ.Researched["POTTERY"] = true
	h.MustAccept(civ.ID, game.Action{Kind: game.ActionSetResearch, TechID: "WRITING"})
	h.MustReject(civ.ID, game.Action{Kind: game.ActionSetResearch, TechID: "POTTERY"}) // already known
}

func TestResearch_IdleSlotAutoFills(t *testing.T) {
	h := NewHarness(t, 10, 10, 11)
	civ := h.AddCiv("Alpha")
	h.Spawn(civ.ID, "WARRIOR", 1, 1)

	h.EndTurn()
	if civ.Research == nil || civ.Research.TechID != "AGRICULTURE" {
		t.Fatalf("research = %+v, want auto-filled AGRICULTURE", civ.Research)
	}
	// Even with no cities the tuned minimum science flows.
	if civ.Research.Progress != h.Tun.MinSciencePerTurn {
		t.Fatalf("progress = %d, want %d", civ.Research.Progress, h.Tun.MinSciencePerTurn)
	}
}
