package game

import (
	"fmt"

	"gridciv.ai/internal/sim/ruleset"
	"gridciv.ai/internal/sim/tuning"
)

// State is the plain serializable form of a Game: only data, no behavior,
// no rules content. Ruleset and tuning are re-bound on restore so snapshots
// stay small and survive content edits that don't change ids.
type State struct {
	Config Config
	Turn   int
	Phase  string

	Tiles []Tile

	Civs    map[string]*Civilization
	Units   map[string]*Unit
	Cities  map[string]*City
	Routes  map[string]*TradeRoute
	Camps   map[string]*BarbarianCamp
	Wonders map[string]*NaturalWonder

	Counters Counters

	WinnerID    string
	VictoryType string
}

// Export captures the current state. The returned State shares no memory
// with the Game and stays valid across later turns.
func (g *Game) Export() *State {
	s := &State{
		Config:      g.cfg,
		Turn:        g.turn,
		Phase:       g.phase,
		Tiles:       make([]Tile, len(g.tiles)),
		Civs:        make(map[string]*Civilization, len(g.civs)),
		Units:       make(map[string]*Unit, len(g.units)),
		Cities:      make(map[string]*City, len(g.cities)),
		Routes:      make(map[string]*TradeRoute, len(g.routes)),
		Camps:       make(map[string]*BarbarianCamp, len(g.camps)),
		Wonders:     make(map[string]*NaturalWonder, len(g.wonders)),
		Counters:    g.ctr,
		WinnerID:    g.winnerID,
		VictoryType: g.victoryType,
	}
	for i, t := range g.tiles {
		s.Tiles[i] = t
		if t.InProgress != nil {
			w := *t.InProgress
			s.Tiles[i].InProgress = &w
		}
	}
	for id, c := range g.civs {
		s.Civs[id] = copyCiv(c)
	}
	for id, u := range g.units {
		cp := *u
		s.Units[id] = &cp
	}
	for id, c := range g.cities {
		cp := *c
		cp.Buildings = append([]string(nil), c.Buildings...)
		if c.Production != nil {
			p := *c.Production
			cp.Production = &p
		}
		s.Cities[id] = &cp
	}
	for id, r := range g.routes {
		cp := *r
		s.Routes[id] = &cp
	}
	for id, c := range g.camps {
		cp := *c
		s.Camps[id] = &cp
	}
	for id, w := range g.wonders {
		cp := *w
		cp.DiscoveredBy = copyBoolMap(w.DiscoveredBy)
		s.Wonders[id] = &cp
	}
	return s
}

// Restore rebuilds a live Game from a State plus fresh rules and tuning. The
// State is copied; the caller may reuse or discard it.
func Restore(s *State, rules *ruleset.Catalogs, tun tuning.Tuning) (*Game, error) {
	if len(s.Tiles) != s.Config.Width*s.Config.Height {
		return nil, fmt.Errorf("tile count %d does not match %dx%d grid",
			len(s.Tiles), s.Config.Width, s.Config.Height)
	}
	g, err := New(s.Config, rules, tun)
	if err != nil {
		return nil, err
	}
	src := &Game{
		cfg: s.Config, tiles: s.Tiles,
		civs: s.Civs, units: s.Units, cities: s.Cities,
		routes: s.Routes, camps: s.Camps, wonders: s.Wonders,
	}
	restored := src.Export() // reuse the deep copy
	g.turn = s.Turn
	g.phase = s.Phase
	g.tiles = restored.Tiles
	g.civs = restored.Civs
	g.units = restored.Units
	g.cities = restored.Cities
	g.routes = restored.Routes
	g.camps = restored.Camps
	g.wonders = restored.Wonders
	g.ctr = s.Counters
	g.winnerID = s.WinnerID
	g.victoryType = s.VictoryType
	return g, nil
}

func copyCiv(c *Civilization) *Civilization {
	cp := *c
	cp.CityIDs = append([]string(nil), c.CityIDs...)
	cp.UnitIDs = append([]string(nil), c.UnitIDs...)
	cp.Explored = copyBoolMap(c.Explored)
	cp.Researched = copyBoolMap(c.Researched)
	cp.SpaceshipParts = copyBoolMap(c.SpaceshipParts)
	cp.Relations = make(map[string]string, len(c.Relations))
	for k, v := range c.Relations {
		cp.Relations[k] = v
	}
	if c.Research != nil {
		r := *c.Research
		cp.Research = &r
	}
	cp.GreatPeople = make(map[string]*GPTrack, len(c.GreatPeople))
	for k, v := range c.GreatPeople {
		t := *v
		cp.GreatPeople[k] = &t
	}
	return &cp
}

func copyBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
