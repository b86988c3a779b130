package ws

import (
	"fmt"
	"sync"

	"gridciv.ai/internal/protocol"
	"gridciv.ai/internal/sim/game"
)

// Hub serializes all access to one Game and tracks which civs have ended the
// current turn. The engine itself is single-threaded; every connection funnels
// through the hub mutex.
type Hub struct {
	mu sync.Mutex

	g       *game.Game
	maxCivs int

	sessions map[string]chan []byte // civID -> outbound queue
	ended    map[string]bool

	// OnTurn fires after each resolution with the hub lock held; keep it fast
	// and hand heavy work (logs, snapshots) to another goroutine.
	OnTurn func(game.TurnSummary)
	// OnAction fires once per submitted action for audit logging.
	OnAction func(turn int, civID string, act game.Action, accepted bool)
}

func NewHub(g *game.Game, maxCivs int) *Hub {
	return &Hub{
		g:        g,
		maxCivs:  maxCivs,
		sessions: map[string]chan []byte{},
		ended:    map[string]bool{},
	}
}

func (h *Hub) Game() *game.Game { return h.g }

// Join registers a new civilization and its outbound queue. It fails when the
// table is full or the game is already decided.
func (h *Hub) Join(civName, leader string, out chan []byte) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.g.Phase() == game.PhaseFinished {
		return "", fmt.Errorf(protocol.ErrGameFinished)
	}
	if len(h.sessions) >= h.maxCivs {
		return "", fmt.Errorf(protocol.ErrGameFull)
	}
	civ := h.g.AddCivilization(civName, leader)
	if err := h.g.PlaceStartingUnits(civ.ID); err != nil {
		return "", err
	}
	h.sessions[civ.ID] = out
	return civ.ID, nil
}

// Resume reattaches a connection to an existing civ after a reconnect.
func (h *Hub) Resume(civID string, out chan []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.g.Civ(civID) == nil {
		return fmt.Errorf(protocol.ErrUnknownCiv)
	}
	h.sessions[civID] = out
	return nil
}

// Leave drops the session. The civilization stays in the game and simply
// stops acting; a disconnected civ never blocks resolution.
func (h *Hub) Leave(civID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, civID)
	delete(h.ended, civID)
	h.resolveIfReadyLocked()
}

// Submit runs an action batch through the engine.
func (h *Hub) Submit(civID string, actions []game.Action) (int, []game.ActionResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	turn := h.g.Turn()
	results := h.g.SubmitActions(civID, actions)
	if h.OnAction != nil {
		for i, act := range actions {
			h.OnAction(turn, civID, act, results[i].Accepted)
		}
	}
	return turn, results
}

// EndTurn marks the civ done; when every connected civ is done the turn
// resolves and everyone gets TURN_RESULT plus a fresh STATE.
func (h *Hub) EndTurn(civID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[civID]; !ok {
		return
	}
	h.ended[civID] = true
	h.resolveIfReadyLocked()
}

func (h *Hub) resolveIfReadyLocked() {
	if len(h.sessions) == 0 || h.g.Phase() == game.PhaseFinished {
		return
	}
	for civID := range h.sessions {
		if !h.ended[civID] {
			return
		}
	}
	summary := h.g.AdvanceTurn()
	h.ended = map[string]bool{}
	if h.OnTurn != nil {
		h.OnTurn(summary)
	}
	h.broadcastLocked(summary)
}

func (h *Hub) broadcastLocked(summary game.TurnSummary) {
	result := protocol.TurnResultMsg{
		Type:            protocol.TypeTurnResult,
		ProtocolVersion: protocol.Version,
		Turn:            summary.Turn,
		Events:          summary.Events,
		Digest:          summary.Digest,
	}
	for civID, out := range h.sessions {
		send(out, result)
		send(out, protocol.StateMsg{
			Type:            protocol.TypeState,
			ProtocolVersion: protocol.Version,
			View:            h.g.ViewFor(civID),
		})
	}
}

// StateFor builds the current STATE message for one civ.
func (h *Hub) StateFor(civID string) protocol.StateMsg {
	h.mu.Lock()
	defer h.mu.Unlock()
	return protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		View:            h.g.ViewFor(civID),
	}
}
