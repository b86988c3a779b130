package game

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// digestState is the canonical view of everything simulation-relevant.
// Presentation records (events, notifications, fx) are excluded so replays
// and live runs digest identically. JSON marshaling sorts map keys, which
// makes the encoding deterministic.
type digestState struct {
	Turn        int
	Phase       string
	Width       int
	Height      int
	Seed        int64
	MaxTurns    int
	Tiles       []Tile
	Civs        map[string]*Civilization
	Units       map[string]*Unit
	Cities      map[string]*City
	Routes      map[string]*TradeRoute
	Camps       map[string]*BarbarianCamp
	Wonders     map[string]*NaturalWonder
	Counters    Counters
	WinnerID    string
	VictoryType string
}

// StateDigest returns the sha256 hex of the canonical state encoding. Two
// games with equal digests are simulation-equivalent.
func (g *Game) StateDigest() string {
	b, err := json.Marshal(digestState{
		Turn:        g.turn,
		Phase:       g.phase,
		Width:       g.cfg.Width,
		Height:      g.cfg.Height,
		Seed:        g.cfg.Seed,
		MaxTurns:    g.cfg.MaxTurns,
		Tiles:       g.tiles,
		Civs:        g.civs,
		Units:       g.units,
		Cities:      g.cities,
		Routes:      g.routes,
		Camps:       g.camps,
		Wonders:     g.wonders,
		Counters:    g.ctr,
		WinnerID:    g.winnerID,
		VictoryType: g.victoryType,
	})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
