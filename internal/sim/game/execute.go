package game

import (
	"fmt"

	"gridciv.ai/internal/sim/ruleset"
)

// ExecuteAction applies one pre-validated action and returns human-readable
// event strings. It never re-validates: if a referenced entity vanished
// since validation (destroyed earlier in the same batch) it no-ops rather
// than raising. Every mutation is applied fully or not at all.
func (g *Game) ExecuteAction(civID string, act Action) []string {
	civ := g.civs[civID]
	if civ == nil {
		return nil
	}
	h := executeDispatch[act.Kind]
	if h == nil {
		return nil
	}
	var events []string
	h(g, civ, act, &events)
	return events
}

type executeFn func(*Game, *Civilization, Action, *[]string)

var executeDispatch = map[string]executeFn{
	ActionMove:                executeMove,
	ActionAttack:              executeAttack,
	ActionRangedAttack:        executeRangedAttack,
	ActionFoundCity:           executeFoundCity,
	ActionBuild:               executeBuild,
	ActionSetResearch:         executeSetResearch,
	ActionBuildImprovement:    executeBuildImprovement,
	ActionFortify:             executeFortify,
	ActionUpgradeUnit:         executeUpgradeUnit,
	ActionEstablishTradeRoute: executeEstablishTradeRoute,
	ActionChangeGovernment:    executeChangeGovernment,
	ActionExpendGreatPerson:   executeExpendGreatPerson,
}

func executeMove(g *Game, civ *Civilization, act Action, events *[]string) {
	u := g.units[act.UnitID]
	if u == nil || act.To == nil || g.pathfinder == nil {
		return
	}
	path := g.pathfinder.FindPath(g, u.Pos, *act.To, u.MovementLeft, civ.ID)
	if len(path) == 0 {
		return // collaborator said no path; the action is dropped
	}
	def := g.unitDef(u)
	for _, step := range path {
		t := g.TileAt(step)
		cost, ok := TerrainCost(t.Terrain)
		if !ok || t.UnitID != "" || cost > u.MovementLeft {
			break
		}
		g.relocateUnit(u, step)
		u.MovementLeft -= cost
		g.revealAround(civ, step, def.Vision)
	}
	u.Fortified = false
	*events = append(*events, fmt.Sprintf("%s %s moved to (%d,%d)", def.Name, u.ID, u.Pos.X, u.Pos.Y))
}

func executeAttack(g *Game, civ *Civilization, act Action, events *[]string) {
	a := g.units[act.UnitID]
	d := g.units[act.TargetUnitID]
	if a == nil || d == nil || g.combat == nil {
		return
	}
	seed := combatSeed(g.cfg.Seed, g.turn, a.ID, d.ID)
	res, ok := g.combat.Resolve(g, a.ID, d.ID, seed)
	if !ok {
		return // collaborator unavailable: no combat occurred
	}
	a.Acted = true
	a.MovementLeft = 0
	a.Fortified = false
	g.applyCombatResult(a, d, res, events)
}

func executeRangedAttack(g *Game, civ *Civilization, act Action, events *[]string) {
	a := g.units[act.UnitID]
	d := g.units[act.TargetUnitID]
	if a == nil || d == nil || g.combat == nil {
		return
	}
	seed := combatSeed(g.cfg.Seed, g.turn, a.ID, d.ID)
	res, ok := g.combat.ResolveRanged(g, a.ID, d.ID, seed)
	if !ok {
		return
	}
	a.Acted = true
	a.MovementLeft = 0
	g.applyCombatResult(a, d, res, events)
}

// applyCombatResult mutates both sides from a resolver verdict: hp, unit
// removal, war state, war weariness, great-general points and presentation
// records.
func (g *Game) applyCombatResult(a, d *Unit, res CombatResult, events *[]string) {
	a.HP -= res.DamageToAttacker
	d.HP -= res.DamageToDefender

	atkCiv := g.civs[a.OwnerID]
	defCiv := g.civs[d.OwnerID]
	if atkCiv != nil && defCiv != nil {
		atkCiv.Relations[defCiv.ID] = RelationWar
		defCiv.Relations[atkCiv.ID] = RelationWar
	}
	if atkCiv != nil {
		atkCiv.WarWeariness++
		if tr := atkCiv.GreatPeople[ruleset.GPGeneral]; tr != nil {
			tr.Points += res.DamageToDefender
		}
	}
	if defCiv != nil {
		defCiv.WarWeariness++
		if tr := defCiv.GreatPeople[ruleset.GPGeneral]; tr != nil {
			tr.Points += res.DamageToAttacker
		}
	}

	g.addCombatEffect(a.ID, d.ID, d.Pos, res.DamageToAttacker, res.DamageToDefender)
	*events = append(*events, fmt.Sprintf("%s attacked %s (%d dmg dealt, %d taken)",
		a.ID, d.ID, res.DamageToDefender, res.DamageToAttacker))

	if res.DefenderDestroyed || d.HP <= 0 {
		*events = append(*events, fmt.Sprintf("%s was destroyed", d.ID))
		g.addCameraHint(a.OwnerID, d.Pos)
		g.destroyUnit(d.ID)
	}
	if res.AttackerDestroyed || a.HP <= 0 {
		*events = append(*events, fmt.Sprintf("%s was destroyed", a.ID))
		g.destroyUnit(a.ID)
	}
}

func executeFoundCity(g *Game, civ *Civilization, act Action, events *[]string) {
	u := g.units[act.UnitID]
	if u == nil {
		return
	}
	pos := u.Pos
	t := g.TileAt(pos)
	if t.CityID != "" {
		return
	}
	g.ctr.City++
	name := act.Name
	if name == "" {
		name = fmt.Sprintf("%s City %d", civ.Name, g.ctr.City)
	}
	c := &City{
		ID:           fmt.Sprintf("CITY%d", g.ctr.City),
		Name:         name,
		OwnerID:      civ.ID,
		Pos:          pos,
		Population:   1,
		BorderRadius: g.tun.StartingBorderRadius,
	}
	g.cities[c.ID] = c
	civ.CityIDs = append(civ.CityIDs, c.ID)
	t.CityID = c.ID
	t.OwnerID = civ.ID
	g.claimTilesAround(civ.ID, pos, c.BorderRadius)
	g.recomputeCityYields(civ, c)
	g.destroyUnit(u.ID)
	g.revealAround(civ, pos, c.BorderRadius+1)
	g.addCameraHint(civ.ID, pos)
	g.addNotification(civ.ID, fmt.Sprintf("%s founded at (%d,%d)", name, pos.X, pos.Y))
	g.addEvent(civ.ID, fmt.Sprintf("%s founded", name), &pos)
	*events = append(*events, fmt.Sprintf("%s founded %s at (%d,%d)", civ.Name, name, pos.X, pos.Y))
}

func executeBuild(g *Game, civ *Civilization, act Action, events *[]string) {
	c := g.cities[act.CityID]
	if c == nil || c.Production != nil {
		return
	}
	var cost int
	switch act.BuildKind {
	case OrderUnit:
		def, ok := g.rules.Units[act.BuildID]
		if !ok {
			return
		}
		cost = def.Cost
	case OrderBuilding:
		def, ok := g.rules.Buildings[act.BuildID]
		if !ok {
			return
		}
		cost = def.Cost
	default:
		return
	}
	c.Production = &ProductionOrder{Kind: act.BuildKind, Target: act.BuildID, Cost: cost}
	*events = append(*events, fmt.Sprintf("%s began producing %s", c.Name, act.BuildID))
}

func executeSetResearch(g *Game, civ *Civilization, act Action, events *[]string) {
	civ.Research = &ResearchOrder{TechID: act.TechID}
	*events = append(*events, fmt.Sprintf("%s set research to %s", civ.Name, act.TechID))
}

func executeBuildImprovement(g *Game, civ *Civilization, act Action, events *[]string) {
	u := g.units[act.UnitID]
	if u == nil {
		return
	}
	def, ok := g.rules.Improvements[act.ImprovementID]
	if !ok {
		return
	}
	t := g.TileAt(u.Pos)
	if t.Improvement != "" || t.InProgress != nil {
		return
	}
	t.InProgress = &ImprovementWork{ID: def.ID, TurnsLeft: def.BuildTurns}
	u.Acted = true
	*events = append(*events, fmt.Sprintf("%s started a %s at (%d,%d)", u.ID, def.Name, u.Pos.X, u.Pos.Y))
}

func executeFortify(g *Game, civ *Civilization, act Action, events *[]string) {
	u := g.units[act.UnitID]
	if u == nil {
		return
	}
	u.Fortified = true
	u.Acted = true
	u.MovementLeft = 0
	*events = append(*events, fmt.Sprintf("%s fortified", u.ID))
}

func executeUpgradeUnit(g *Game, civ *Civilization, act Action, events *[]string) {
	u := g.units[act.UnitID]
	if u == nil {
		return
	}
	def := g.unitDef(u)
	target, ok := g.rules.Units[def.UpgradesTo]
	if !ok || civ.Gold < def.UpgradeCost {
		return
	}
	civ.Gold -= def.UpgradeCost
	// Carry damage over proportionally.
	hp := u.HP * target.HP / u.MaxHP
	if hp < 1 {
		hp = 1
	}
	u.Type = target.ID
	u.HP = hp
	u.MaxHP = target.HP
	u.Attack = target.Attack
	u.Defense = target.Defense
	u.Movement = target.Movement
	u.Acted = true
	*events = append(*events, fmt.Sprintf("%s upgraded to %s", u.ID, target.Name))
}

func executeEstablishTradeRoute(g *Game, civ *Civilization, act Action, events *[]string) {
	u := g.units[act.UnitID]
	if u == nil || u.TradeRouteID != "" {
		return
	}
	origin := g.cities[g.TileAt(u.Pos).CityID]
	dest := g.cities[act.TargetCityID]
	if origin == nil || dest == nil {
		return
	}
	g.ctr.Route++
	gold := manhattan(origin.Pos, dest.Pos) / g.tun.TradeRouteGoldDivisor
	if gold < 1 {
		gold = 1
	}
	r := &TradeRoute{
		ID:          fmt.Sprintf("TR%d", g.ctr.Route),
		FromCityID:  origin.ID,
		ToCityID:    dest.ID,
		UnitID:      u.ID,
		GoldPerTurn: gold,
		TurnsLeft:   g.tun.TradeRouteTurns,
	}
	g.routes[r.ID] = r
	u.TradeRouteID = r.ID
	u.Acted = true
	u.MovementLeft = 0
	*events = append(*events, fmt.Sprintf("trade route %s: %s to %s, %d gold/turn", r.ID, origin.Name, dest.Name, gold))
}

func executeChangeGovernment(g *Game, civ *Civilization, act Action, events *[]string) {
	civ.Government = act.GovernmentID
	civ.AnarchyTurns = g.tun.AnarchyTurns
	g.addNotification(civ.ID, fmt.Sprintf("revolution: %d turns of anarchy", civ.AnarchyTurns))
	*events = append(*events, fmt.Sprintf("%s adopted %s after a revolution", civ.Name, act.GovernmentID))
}

func executeExpendGreatPerson(g *Game, civ *Civilization, act Action, events *[]string) {
	u := g.units[act.UnitID]
	if u == nil || u.GreatPerson == "" {
		return
	}
	switch u.GreatPerson {
	case ruleset.AbilityResearch:
		if civ.Research != nil {
			g.completeResearch(civ, events)
		}
	case ruleset.AbilityProduction:
		civ.BonusTurns = g.tun.GreatPersonBonusTurns
		*events = append(*events, fmt.Sprintf("%s inspires a %d-turn production and gold surge", u.ID, civ.BonusTurns))
	case ruleset.AbilityCombat:
		civ.CombatBonusTurns = g.tun.CombatBonusTurns
		*events = append(*events, fmt.Sprintf("%s grants a %d-turn combat bonus", u.ID, civ.CombatBonusTurns))
	case ruleset.AbilityGold:
		civ.Gold += g.tun.GreatPersonGold
		*events = append(*events, fmt.Sprintf("%s grants %d gold", u.ID, g.tun.GreatPersonGold))
	case ruleset.AbilityCompleteProduction:
		if c := g.cities[act.CityID]; c != nil && c.Production != nil {
			c.Production.Progress = c.Production.Cost
			g.completeProduction(civ, c, events)
		}
	}
	g.destroyUnit(u.ID)
}
