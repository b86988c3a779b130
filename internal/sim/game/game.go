// Package game is the authoritative turn engine: action validation, action
// execution, and end-of-turn resolution. A Game is single-threaded; callers
// must serialize access. Between AdvanceTurn calls the state is stable and
// safe to read.
package game

import (
	"fmt"
	"math/rand"
	"sort"

	"gridciv.ai/internal/sim/ruleset"
	"gridciv.ai/internal/sim/tuning"
)

type Config struct {
	Width    int
	Height   int
	Seed     int64
	MaxTurns int // 0 means tuning default
}

// Counters are the id-minting counters; they persist so restored games never
// reissue an id.
type Counters struct {
	Unit  uint64
	City  uint64
	Route uint64
	Camp  uint64
	Notif uint64
}

// Game owns every entity exclusively. Grid cells and rosters hold ids only;
// any held id must be re-checked against the store before use since mid-turn
// destruction is expected.
type Game struct {
	cfg   Config
	rules *ruleset.Catalogs
	tun   tuning.Tuning

	turn  int
	phase string

	tiles []Tile

	civs    map[string]*Civilization
	units   map[string]*Unit
	cities  map[string]*City
	routes  map[string]*TradeRoute
	camps   map[string]*BarbarianCamp
	wonders map[string]*NaturalWonder

	events        []TurnEvent
	notifications []Notification
	combatFX      []CombatEffect
	cameraHints   []CameraEvent

	winnerID    string
	victoryType string

	pathfinder Pathfinder
	combat     CombatResolver

	ctr Counters

	// Actions executed since the last AdvanceTurn, recorded for the turn log.
	recorded []RecordedAction
}

func New(cfg Config, rules *ruleset.Catalogs, tun tuning.Tuning) (*Game, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("bad grid size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = tun.MaxTurns
	}
	if err := validateActionDispatchMaps(); err != nil {
		return nil, err
	}
	g := &Game{
		cfg:     cfg,
		rules:   rules,
		tun:     tun,
		turn:    1,
		phase:   PhaseRunning,
		tiles:   make([]Tile, cfg.Width*cfg.Height),
		civs:    map[string]*Civilization{},
		units:   map[string]*Unit{},
		cities:  map[string]*City{},
		routes:  map[string]*TradeRoute{},
		camps:   map[string]*BarbarianCamp{},
		wonders: map[string]*NaturalWonder{},
	}
	for i := range g.tiles {
		g.tiles[i].Terrain = TerrainGrass
	}
	return g, nil
}

// GenerateTerrain sprinkles terrain, resources, natural wonders and
// barbarian camps deterministically from the game seed. Tests that need
// exact terrain set tiles directly instead.
func (g *Game) GenerateTerrain() {
	rng := rand.New(rand.NewSource(g.cfg.Seed))
	for i := range g.tiles {
		switch r := rng.Intn(100); {
		case r < 8:
			g.tiles[i].Terrain = TerrainWater
		case r < 14:
			g.tiles[i].Terrain = TerrainMountain
		case r < 26:
			g.tiles[i].Terrain = TerrainForest
		case r < 38:
			g.tiles[i].Terrain = TerrainHills
		case r < 48:
			g.tiles[i].Terrain = TerrainDesert
		case r < 70:
			g.tiles[i].Terrain = TerrainPlains
		default:
			g.tiles[i].Terrain = TerrainGrass
		}
		if Passable(g.tiles[i].Terrain) {
			switch r := rng.Intn(100); {
			case r < 3:
				g.tiles[i].Resource = "IRON"
			case r < 6:
				g.tiles[i].Resource = "GEMS"
			case r < 9:
				g.tiles[i].Resource = "SILK"
			}
		}
	}
	g.placeWonder("MT_ORACLE", "Oracle Peak", rng, Yields{Science: 3, Culture: 2})
	g.placeWonder("GREAT_REEF", "Great Reef", rng, Yields{Gold: 3, Food: 2})
	nCamps := (g.cfg.Width * g.cfg.Height) / 200
	if nCamps < 1 {
		nCamps = 1
	}
	for i := 0; i < nCamps; i++ {
		pos, ok := g.randomFreeTile(rng)
		if !ok {
			break
		}
		g.SpawnCamp(pos)
	}
}

func (g *Game) placeWonder(id, name string, rng *rand.Rand, y Yields) {
	pos, ok := g.randomFreeTile(rng)
	if !ok {
		return
	}
	g.wonders[id] = &NaturalWonder{ID: id, Name: name, Pos: pos, Yields: y, DiscoveredBy: map[string]bool{}}
	g.TileAt(pos).WonderID = id
}

func (g *Game) randomFreeTile(rng *rand.Rand) (Vec2i, bool) {
	for attempt := 0; attempt < 200; attempt++ {
		p := Vec2i{X: rng.Intn(g.cfg.Width), Y: rng.Intn(g.cfg.Height)}
		t := g.TileAt(p)
		if Passable(t.Terrain) && t.UnitID == "" && t.CityID == "" && t.WonderID == "" {
			return p, true
		}
	}
	return Vec2i{}, false
}

func (g *Game) SetPathfinder(p Pathfinder)     { g.pathfinder = p }
func (g *Game) SetCombatResolver(c CombatResolver) { g.combat = c }

func (g *Game) Turn() int       { return g.turn }
func (g *Game) MaxTurns() int   { return g.cfg.MaxTurns }
func (g *Game) Phase() string   { return g.phase }
func (g *Game) Seed() int64     { return g.cfg.Seed }
func (g *Game) Width() int      { return g.cfg.Width }
func (g *Game) Height() int     { return g.cfg.Height }
func (g *Game) Rules() *ruleset.Catalogs { return g.rules }

// Winner returns the winning civ id and victory type; both empty while the
// game is undecided.
func (g *Game) Winner() (civID, victoryType string) {
	return g.winnerID, g.victoryType
}

func (g *Game) Civ(id string) *Civilization { return g.civs[id] }

// Camps returns the live barbarian camps in stable id order.
func (g *Game) Camps() []*BarbarianCamp {
	out := make([]*BarbarianCamp, 0, len(g.camps))
	for _, id := range g.sortedCampIDs() {
		out = append(out, g.camps[id])
	}
	return out
}
func (g *Game) Unit(id string) *Unit        { return g.units[id] }
func (g *Game) City(id string) *City        { return g.cities[id] }
func (g *Game) Route(id string) *TradeRoute { return g.routes[id] }

// AddCivilization registers a new civilization at peace with all others.
func (g *Game) AddCivilization(name, leader string) *Civilization {
	id := fmt.Sprintf("C%d", len(g.civs)+1)
	civ := &Civilization{
		ID:             id,
		Name:           name,
		Leader:         leader,
		Gold:           50,
		Explored:       map[string]bool{},
		Relations:      map[string]string{},
		Researched:     map[string]bool{},
		Government:     "DESPOTISM",
		GreatPeople:    map[string]*GPTrack{},
		SpaceshipParts: map[string]bool{},
		Alive:          true,
	}
	for _, gpType := range []string{ruleset.GPScientist, ruleset.GPArtist, ruleset.GPGeneral, ruleset.GPMerchant, ruleset.GPEngineer} {
		civ.GreatPeople[gpType] = &GPTrack{Threshold: g.tun.GreatPersonBaseThreshold}
	}
	for otherID, other := range g.civs {
		civ.Relations[otherID] = RelationPeace
		other.Relations[id] = RelationPeace
	}
	g.civs[id] = civ
	return civ
}

// SpawnUnitAt creates a unit of the given ruleset type for owner at pos.
// It fails if the type is unknown or the tile is occupied or impassable.
func (g *Game) SpawnUnitAt(ownerID, unitType string, pos Vec2i) (*Unit, error) {
	def, ok := g.rules.Units[unitType]
	if !ok {
		return nil, fmt.Errorf("unknown unit type %s", unitType)
	}
	if !g.InBounds(pos) {
		return nil, fmt.Errorf("out of bounds %v", pos)
	}
	t := g.TileAt(pos)
	if !Passable(t.Terrain) {
		return nil, fmt.Errorf("impassable terrain at %v", pos)
	}
	if t.UnitID != "" {
		return nil, fmt.Errorf("tile %v occupied", pos)
	}
	u := g.spawnUnit(ownerID, def, pos, "")
	return u, nil
}

// PlaceStartingUnits spawns the opening settler and warrior for a civ at a
// seed-derived free location. Deterministic for a given seed and join order.
func (g *Game) PlaceStartingUnits(civID string) error {
	civ := g.civs[civID]
	if civ == nil {
		return fmt.Errorf("unknown civ %s", civID)
	}
	rng := rand.New(rand.NewSource(g.cfg.Seed ^ int64(len(g.civs))<<16 ^ int64(len(civID))))
	pos, ok := g.randomFreeTile(rng)
	if !ok {
		return fmt.Errorf("no free tile for %s", civID)
	}
	settler, ok := g.rules.Units["SETTLER"]
	if !ok {
		return fmt.Errorf("ruleset has no SETTLER")
	}
	g.spawnUnit(civID, settler, pos, "")
	if warrior, ok := g.rules.Units["WARRIOR"]; ok {
		if p, found := g.nearestFreeTile(pos); found {
			g.spawnUnit(civID, warrior, p, "")
		}
	}
	return nil
}

// SpawnCamp creates a barbarian camp at pos.
func (g *Game) SpawnCamp(pos Vec2i) *BarbarianCamp {
	g.ctr.Camp++
	c := &BarbarianCamp{ID: fmt.Sprintf("CAMP%d", g.ctr.Camp), Pos: pos}
	g.camps[c.ID] = c
	return c
}

func (g *Game) sortedCivIDs() []string {
	ids := make([]string, 0, len(g.civs))
	for id := range g.civs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *Game) sortedUnitIDs() []string {
	ids := make([]string, 0, len(g.units))
	for id := range g.units {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *Game) sortedCityIDs() []string {
	ids := make([]string, 0, len(g.cities))
	for id := range g.cities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *Game) sortedRouteIDs() []string {
	ids := make([]string, 0, len(g.routes))
	for id := range g.routes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *Game) sortedCampIDs() []string {
	ids := make([]string, 0, len(g.camps))
	for id := range g.camps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *Game) sortedWonderIDs() []string {
	ids := make([]string, 0, len(g.wonders))
	for id := range g.wonders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *Game) unitDef(u *Unit) ruleset.UnitDef {
	return g.rules.Units[u.Type]
}

// ActionResult reports one submitted action's outcome. A rejected action is
// a normal outcome, not an error.
type ActionResult struct {
	Accepted bool     `json:"accepted"`
	Events   []string `json:"events,omitempty"`
}

// SubmitActions validates and executes an ordered action batch for one
// civilization. Later actions observe the effects of earlier ones.
func (g *Game) SubmitActions(civID string, actions []Action) []ActionResult {
	out := make([]ActionResult, 0, len(actions))
	for _, act := range actions {
		if !g.ValidateAction(civID, act) {
			out = append(out, ActionResult{})
			continue
		}
		ev := g.ExecuteAction(civID, act)
		g.recorded = append(g.recorded, RecordedAction{CivID: civID, Action: act})
		out = append(out, ActionResult{Accepted: true, Events: ev})
	}
	return out
}
