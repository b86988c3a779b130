package game

import "fmt"

type Vec2i struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Terrain kinds.
const (
	TerrainGrass    = "GRASS"
	TerrainPlains   = "PLAINS"
	TerrainForest   = "FOREST"
	TerrainHills    = "HILLS"
	TerrainDesert   = "DESERT"
	TerrainWater    = "WATER"
	TerrainMountain = "MOUNTAIN"
)

// Relations between civilizations.
const (
	RelationPeace = "PEACE"
	RelationWar   = "WAR"
)

// BarbarianFaction owns camp-spawned units. It has no Civilization record:
// no gold, no research, no happiness, and it can never win.
const BarbarianFaction = "BARBARIANS"

// Game phases.
const (
	PhaseRunning  = "RUNNING"
	PhaseFinished = "FINISHED"
)

// Tile is one grid cell. City, unit, improvement and wonder references are
// ids into the aggregate, never pointers.
type Tile struct {
	Terrain     string
	OwnerID     string
	CityID      string
	UnitID      string
	Improvement string
	InProgress  *ImprovementWork
	Resource    string
	WonderID    string
}

// ImprovementWork is an improvement under construction; nil on a tile means
// no work in progress.
type ImprovementWork struct {
	ID        string
	TurnsLeft int
}

type Unit struct {
	ID      string
	Type    string
	OwnerID string
	Pos     Vec2i

	HP      int
	MaxHP   int
	Attack  int
	Defense int

	Movement     int
	MovementLeft int

	Fortified bool
	Acted     bool

	// GreatPerson holds the fixed consumable ability id; empty for regular
	// units.
	GreatPerson string

	// TradeRouteID pins the unit while its route is active.
	TradeRouteID string
}

// ProductionOrder target kinds.
const (
	OrderUnit     = "UNIT"
	OrderBuilding = "BUILDING"
)

type ProductionOrder struct {
	Kind     string
	Target   string
	Progress int
	Cost     int
}

type Yields struct {
	Gold       int
	Food       int
	Production int
	Science    int
	Culture    int
}

type City struct {
	ID      string
	Name    string
	OwnerID string
	Pos     Vec2i

	Population    int
	Yields        Yields
	StoredCulture int
	BorderRadius  int

	Buildings  []string
	Production *ProductionOrder

	Defense        int
	LocalHappiness int
}

type ResearchOrder struct {
	TechID   string
	Progress int
}

// GPTrack is one great-person point track.
type GPTrack struct {
	Points    int
	Threshold int
}

type Civilization struct {
	ID     string
	Name   string
	Leader string

	Gold int

	CityIDs []string
	UnitIDs []string

	// Explored holds "x,y" tile keys (fog of war).
	Explored map[string]bool

	Relations map[string]string

	Researched map[string]bool
	Research   *ResearchOrder
	// SciencePerTurn is recomputed every resolution; kept for presentation.
	SciencePerTurn int

	Government   string
	AnarchyTurns int

	Happiness       int
	WonderHappiness int
	WarWeariness    int

	GoldenAgePoints     int
	GoldenAgeTurns      int
	GoldenAgesCompleted int

	// GreatPeople tracks keyed by type (SCIENTIST, ARTIST, ...).
	GreatPeople map[string]*GPTrack

	CombatBonusTurns int
	// BonusTurns is the great-person production/gold bonus countdown.
	BonusTurns int

	SpaceshipParts map[string]bool

	Score int
	Alive bool
}

type TradeRoute struct {
	ID          string
	FromCityID  string
	ToCityID    string
	UnitID      string
	GoldPerTurn int
	TurnsLeft   int
}

type BarbarianCamp struct {
	ID  string
	Pos Vec2i
}

type NaturalWonder struct {
	ID           string
	Name         string
	Pos          Vec2i
	Yields       Yields
	DiscoveredBy map[string]bool
}

func tileKey(x, y int) string { return fmt.Sprintf("%d,%d", x, y) }

func manhattan(a, b Vec2i) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// TerrainCost returns the movement cost of entering a tile of the given
// terrain; ok is false for impassable terrain.
func TerrainCost(terrain string) (cost int, ok bool) {
	switch terrain {
	case TerrainGrass, TerrainPlains, TerrainDesert:
		return 1, true
	case TerrainForest, TerrainHills:
		return 2, true
	default:
		return 0, false
	}
}

// Passable reports whether units can occupy the given terrain.
func Passable(terrain string) bool {
	_, ok := TerrainCost(terrain)
	return ok
}
