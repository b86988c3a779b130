package game

import "fmt"

// Victory types.
const (
	VictoryConquest = "CONQUEST"
	VictoryScience  = "SCIENCE"
	VictoryScore    = "SCORE"
)

// evaluateVictory checks win conditions in priority order: conquest first,
// then science, then score at the turn limit. The first one that holds ends
// the game; later checks never run.
func (g *Game) evaluateVictory(events *[]string) {
	if g.phase == PhaseFinished {
		return
	}

	var alive []string
	for _, id := range g.sortedCivIDs() {
		if g.civs[id].Alive {
			alive = append(alive, id)
		}
	}
	if len(g.civs) > 1 && len(alive) == 1 {
		g.finish(alive[0], VictoryConquest, events)
		return
	}

	parts := g.rules.SpaceshipParts()
	if len(parts) > 0 {
		for _, id := range alive {
			if g.hasAllParts(g.civs[id], parts) {
				g.finish(id, VictoryScience, events)
				return
			}
		}
	}

	if g.turn >= g.cfg.MaxTurns {
		g.finish(g.scoreLeader(alive), VictoryScore, events)
	}
}

func (g *Game) hasAllParts(civ *Civilization, parts []string) bool {
	for _, p := range parts {
		if !civ.SpaceshipParts[p] {
			return false
		}
	}
	return true
}

// scoreLeader returns the alive civ with the strictly highest score; a tie
// for first returns "" and the game ends without a winner.
func (g *Game) scoreLeader(alive []string) string {
	best, bestScore, tied := "", -1, false
	for _, id := range alive {
		s := g.civs[id].Score
		switch {
		case s > bestScore:
			best, bestScore, tied = id, s, false
		case s == bestScore:
			tied = true
		}
	}
	if tied {
		return ""
	}
	return best
}

func (g *Game) finish(winnerID, victoryType string, events *[]string) {
	g.phase = PhaseFinished
	g.winnerID = winnerID
	g.victoryType = victoryType
	msg := fmt.Sprintf("game over: %s victory", victoryType)
	if winnerID != "" {
		msg = fmt.Sprintf("game over: %s wins by %s", g.civs[winnerID].Name, victoryType)
	}
	for _, id := range g.sortedCivIDs() {
		g.addNotification(id, msg)
	}
	g.addEvent(winnerID, msg, nil)
	*events = append(*events, msg)
}
