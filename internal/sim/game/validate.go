package game

import "gridciv.ai/internal/sim/ruleset"

// ValidateAction is a pure predicate: given the current state, one action
// and the acting civilization, it answers whether the action is legal right
// now. It has no side effects; an illegal action is a false result, never an
// error.
func (g *Game) ValidateAction(civID string, act Action) bool {
	if g.phase == PhaseFinished {
		return false
	}
	civ := g.civs[civID]
	if civ == nil || !civ.Alive {
		return false
	}
	h := validateDispatch[act.Kind]
	if h == nil {
		return false
	}
	return h(g, civ, act)
}

type validateFn func(*Game, *Civilization, Action) bool

var validateDispatch = map[string]validateFn{
	ActionMove:                validateMove,
	ActionAttack:              validateAttack,
	ActionRangedAttack:        validateRangedAttack,
	ActionFoundCity:           validateFoundCity,
	ActionBuild:               validateBuild,
	ActionSetResearch:         validateSetResearch,
	ActionBuildImprovement:    validateBuildImprovement,
	ActionFortify:             validateFortify,
	ActionUpgradeUnit:         validateUpgradeUnit,
	ActionEstablishTradeRoute: validateEstablishTradeRoute,
	ActionChangeGovernment:    validateChangeGovernment,
	ActionExpendGreatPerson:   validateExpendGreatPerson,
}

// ownedUnit resolves act.UnitID to a unit owned by civ that still has its
// action budget and is not pinned to a trade route.
func ownedUnit(g *Game, civ *Civilization, unitID string) *Unit {
	u := g.units[unitID]
	if u == nil || u.OwnerID != civ.ID {
		return nil
	}
	if u.TradeRouteID != "" {
		return nil
	}
	return u
}

func validateMove(g *Game, civ *Civilization, act Action) bool {
	u := ownedUnit(g, civ, act.UnitID)
	if u == nil || u.Acted || u.MovementLeft <= 0 {
		return false
	}
	if act.To == nil || !g.InBounds(*act.To) || *act.To == u.Pos {
		return false
	}
	if g.pathfinder == nil {
		return false
	}
	path := g.pathfinder.FindPath(g, u.Pos, *act.To, u.MovementLeft, civ.ID)
	return len(path) > 0
}

func validateAttack(g *Game, civ *Civilization, act Action) bool {
	u := ownedUnit(g, civ, act.UnitID)
	if u == nil || u.Acted || u.MovementLeft <= 0 || u.Attack <= 0 {
		return false
	}
	d := g.units[act.TargetUnitID]
	if d == nil || d.OwnerID == civ.ID {
		return false
	}
	return manhattan(u.Pos, d.Pos) == 1
}

func validateRangedAttack(g *Game, civ *Civilization, act Action) bool {
	u := ownedUnit(g, civ, act.UnitID)
	if u == nil || u.Acted || u.MovementLeft <= 0 {
		return false
	}
	def := g.unitDef(u)
	if def.RangedRange <= 0 {
		return false
	}
	d := g.units[act.TargetUnitID]
	if d == nil || d.OwnerID == civ.ID {
		return false
	}
	dist := manhattan(u.Pos, d.Pos)
	return dist >= 1 && dist <= def.RangedRange
}

func validateFoundCity(g *Game, civ *Civilization, act Action) bool {
	u := ownedUnit(g, civ, act.UnitID)
	if u == nil || u.Acted {
		return false
	}
	if g.unitDef(u).Class != ruleset.ClassSettler {
		return false
	}
	t := g.TileAt(u.Pos)
	if t.Terrain == TerrainWater || t.Terrain == TerrainMountain {
		return false
	}
	// A city tile must be owned by its civilization, so founding on ground
	// already owned by someone else is illegal.
	if t.OwnerID != "" && t.OwnerID != civ.ID {
		return false
	}
	return t.CityID == ""
}

func validateBuild(g *Game, civ *Civilization, act Action) bool {
	c := g.cities[act.CityID]
	if c == nil || c.OwnerID != civ.ID || c.Production != nil {
		return false
	}
	switch act.BuildKind {
	case OrderUnit:
		def, ok := g.rules.Units[act.BuildID]
		if !ok || def.Cost <= 0 {
			return false
		}
		if !g.rules.UnitUnlocked(def, civ.Researched) {
			return false
		}
		return def.Resource == "" || g.civHasResource(civ, def.Resource)
	case OrderBuilding:
		def, ok := g.rules.Buildings[act.BuildID]
		if !ok {
			return false
		}
		if !g.rules.BuildingUnlocked(def, civ.Researched) {
			return false
		}
		if cityHasBuilding(c, def.ID) {
			return false
		}
		if def.Requires != "" && !cityHasBuilding(c, def.Requires) {
			return false
		}
		return def.Resource == "" || g.civHasResource(civ, def.Resource)
	default:
		return false
	}
}

func validateSetResearch(g *Game, civ *Civilization, act Action) bool {
	return g.rules.TechAvailable(civ.Researched, act.TechID)
}

func validateBuildImprovement(g *Game, civ *Civilization, act Action) bool {
	u := ownedUnit(g, civ, act.UnitID)
	if u == nil || u.Acted {
		return false
	}
	if g.unitDef(u).Class != ruleset.ClassWorker {
		return false
	}
	def, ok := g.rules.Improvements[act.ImprovementID]
	if !ok {
		return false
	}
	t := g.TileAt(u.Pos)
	if t.Improvement != "" || t.InProgress != nil {
		return false
	}
	for _, terr := range def.Terrain {
		if terr == t.Terrain {
			return true
		}
	}
	return false
}

func validateFortify(g *Game, civ *Civilization, act Action) bool {
	u := ownedUnit(g, civ, act.UnitID)
	if u == nil || u.Acted || u.Fortified {
		return false
	}
	switch g.unitDef(u).Class {
	case ruleset.ClassSettler, ruleset.ClassWorker:
		return false
	}
	return true
}

func validateUpgradeUnit(g *Game, civ *Civilization, act Action) bool {
	u := ownedUnit(g, civ, act.UnitID)
	if u == nil || u.Acted {
		return false
	}
	def := g.unitDef(u)
	if def.UpgradesTo == "" {
		return false
	}
	target, ok := g.rules.Units[def.UpgradesTo]
	if !ok {
		return false
	}
	if target.Tech != "" && !civ.Researched[target.Tech] {
		return false
	}
	return civ.Gold >= def.UpgradeCost
}

func validateEstablishTradeRoute(g *Game, civ *Civilization, act Action) bool {
	u := ownedUnit(g, civ, act.UnitID)
	if u == nil || u.Acted {
		return false
	}
	if g.unitDef(u).Class != ruleset.ClassCaravan {
		return false
	}
	origin := g.cities[g.TileAt(u.Pos).CityID]
	if origin == nil || origin.OwnerID != civ.ID {
		return false
	}
	dest := g.cities[act.TargetCityID]
	return dest != nil && dest.ID != origin.ID
}

func validateChangeGovernment(g *Game, civ *Civilization, act Action) bool {
	if civ.AnarchyTurns > 0 || act.GovernmentID == civ.Government {
		return false
	}
	gov, ok := g.rules.Governments[act.GovernmentID]
	if !ok {
		return false
	}
	return gov.Tech == "" || civ.Researched[gov.Tech]
}

func validateExpendGreatPerson(g *Game, civ *Civilization, act Action) bool {
	u := ownedUnit(g, civ, act.UnitID)
	if u == nil || u.GreatPerson == "" || u.GreatPerson != act.Ability {
		return false
	}
	switch act.Ability {
	case ruleset.AbilityResearch:
		return civ.Research != nil
	case ruleset.AbilityCompleteProduction:
		c := g.cities[act.CityID]
		return c != nil && c.OwnerID == civ.ID && c.Production != nil
	case ruleset.AbilityProduction, ruleset.AbilityCombat, ruleset.AbilityGold:
		return true
	}
	return false
}

// civHasResource reports whether any tile owned by civ carries the resource.
func (g *Game) civHasResource(civ *Civilization, resource string) bool {
	for i := range g.tiles {
		if g.tiles[i].OwnerID == civ.ID && g.tiles[i].Resource == resource {
			return true
		}
	}
	return false
}

func cityHasBuilding(c *City, id string) bool {
	for _, b := range c.Buildings {
		if b == id {
			return true
		}
	}
	return false
}
