package ws

import (
	"encoding/json"
	"testing"

	"gridciv.ai/internal/protocol"
	"gridciv.ai/internal/sim/combat"
	"gridciv.ai/internal/sim/game"
	"gridciv.ai/internal/sim/path"
	"gridciv.ai/internal/sim/ruleset"
	"gridciv.ai/internal/sim/tuning"
)

func newHub(t *testing.T, maxCivs int) *Hub {
	t.Helper()
	rules, err := ruleset.Load("../../../configs")
	if err != nil {
		t.Fatalf("load ruleset: %v", err)
	}
	g, err := game.New(game.Config{Width: 16, Height: 16, Seed: 5}, rules, tuning.Default())
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	g.SetPathfinder(path.New())
	g.SetCombatResolver(combat.New())
	return NewHub(g, maxCivs)
}

func drain(ch chan []byte) []string {
	var types []string
	for {
		select {
		case b := <-ch:
			base, err := protocol.DecodeBase(b)
			if err != nil {
				return types
			}
			types = append(types, base.Type)
		default:
			return types
		}
	}
}

func TestHub_JoinAssignsStartingUnits(t *testing.T) {
	h := newHub(t, 2)
	out := make(chan []byte, 8)
	civID, err := h.Join("Alpha", "A", out)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	civ := h.Game().Civ(civID)
	if civ == nil || len(civ.UnitIDs) != 2 {
		t.Fatalf("civ = %+v, want a settler and a warrior", civ)
	}
}

func TestHub_FullTableRejectsJoins(t *testing.T) {
	h := newHub(t, 1)
	if _, err := h.Join("Alpha", "A", make(chan []byte, 8)); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := h.Join("Beta", "B", make(chan []byte, 8)); err == nil || err.Error() != protocol.ErrGameFull {
		t.Fatalf("err = %v, want %s", err, protocol.ErrGameFull)
	}
}

func TestHub_TurnResolvesWhenEveryoneEnds(t *testing.T) {
	h := newHub(t, 2)
	outA := make(chan []byte, 8)
	outB := make(chan []byte, 8)
	civA, _ := h.Join("Alpha", "A", outA)
	civB, _ := h.Join("Beta", "B", outB)

	var turns []game.TurnSummary
	h.OnTurn = func(s game.TurnSummary) { turns = append(turns, s) }

	h.EndTurn(civA)
	if h.Game().Turn() != 1 {
		t.Fatal("turn resolved before everyone ended")
	}
	h.EndTurn(civB)
	if h.Game().Turn() != 2 {
		t.Fatalf("turn = %d, want 2 after both ended", h.Game().Turn())
	}
	if len(turns) != 1 || turns[0].Turn != 1 {
		t.Fatalf("OnTurn summaries = %+v", turns)
	}
	for name, ch := range map[string]chan []byte{"A": outA, "B": outB} {
		types := drain(ch)
		if len(types) != 2 || types[0] != protocol.TypeTurnResult || types[1] != protocol.TypeState {
			t.Fatalf("civ %s received %v, want TURN_RESULT then STATE", name, types)
		}
	}
}

func TestHub_DisconnectedCivDoesNotBlock(t *testing.T) {
	h := newHub(t, 2)
	outA := make(chan []byte, 8)
	civA, _ := h.Join("Alpha", "A", outA)
	civB, _ := h.Join("Beta", "B", make(chan []byte, 8))

	h.EndTurn(civA)
	h.Leave(civB)
	if h.Game().Turn() != 2 {
		t.Fatalf("turn = %d, want 2 once the laggard left", h.Game().Turn())
	}
}

func TestHub_SubmitAuditsEveryAction(t *testing.T) {
	h := newHub(t, 2)
	out := make(chan []byte, 8)
	civID, _ := h.Join("Alpha", "A", out)

	type row struct {
		civID    string
		kind     string
		accepted bool
	}
	var rows []row
	h.OnAction = func(turn int, civ string, act game.Action, accepted bool) {
		rows = append(rows, row{civ, act.Kind, accepted})
	}

	turn, results := h.Submit(civID, []game.Action{
		{Kind: game.ActionSetResearch, TechID: "AGRICULTURE"},
		{Kind: game.ActionSetResearch, TechID: "NOT_A_TECH"},
	})
	if turn != 1 || len(results) != 2 || !results[0].Accepted || results[1].Accepted {
		t.Fatalf("turn=%d results=%+v", turn, results)
	}
	if len(rows) != 2 || !rows[0].accepted || rows[1].accepted {
		t.Fatalf("audit rows = %+v", rows)
	}
	if rows[0].civID != civID || rows[0].kind != game.ActionSetResearch {
		t.Fatalf("audit row = %+v", rows[0])
	}
}

func TestHub_ResumeKeepsCiv(t *testing.T) {
	h := newHub(t, 2)
	civID, _ := h.Join("Alpha", "A", make(chan []byte, 8))
	h.Leave(civID)

	fresh := make(chan []byte, 8)
	if err := h.Resume(civID, fresh); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if err := h.Resume("C99", fresh); err == nil || err.Error() != protocol.ErrUnknownCiv {
		t.Fatalf("err = %v, want %s", err, protocol.ErrUnknownCiv)
	}

	// The resumed session drives resolution again.
	h.EndTurn(civID)
	if h.Game().Turn() != 2 {
		t.Fatalf("turn = %d, want 2", h.Game().Turn())
	}

	state := h.StateFor(civID)
	if state.View == nil || state.View.You.ID != civID {
		t.Fatalf("state view = %+v", state.View)
	}
}

func TestHub_StateMessageIsValidJSON(t *testing.T) {
	h := newHub(t, 2)
	civID, _ := h.Join("Alpha", "A", make(chan []byte, 8))
	b, err := json.Marshal(h.StateFor(civID))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	base, err := protocol.DecodeBase(b)
	if err != nil || base.Type != protocol.TypeState {
		t.Fatalf("decoded %+v err=%v", base, err)
	}
}
