package game

import "fmt"

// TurnSummary is what one AdvanceTurn call produced.
type TurnSummary struct {
	Turn    int              `json:"turn"`
	Events  []string         `json:"events"`
	Digest  string           `json:"digest"`
	Actions []RecordedAction `json:"actions,omitempty"`
}

// AdvanceTurn runs end-of-turn resolution once, synchronously, for every
// civilization in stable id order, then trade routes, barbarians and win
// conditions. The per-civilization step order is load-bearing: income is
// taken from last turn's yields, production lands before yields are
// recomputed, and happiness is computed after healing so the production
// penalty always reflects the state a player saw when submitting.
func (g *Game) AdvanceTurn() TurnSummary {
	now := g.turn
	var events []string

	for _, civID := range g.sortedCivIDs() {
		civ := g.civs[civID]
		if !civ.Alive {
			continue
		}
		g.resolveCivilization(civ, &events)
	}

	g.resolveTradeRoutes(&events)
	g.resolveBarbarians(&events)
	g.evaluateVictory(&events)

	actions := g.recorded
	g.recorded = nil
	g.turn++

	return TurnSummary{
		Turn:    now,
		Events:  events,
		Digest:  g.StateDigest(),
		Actions: actions,
	}
}

func (g *Game) resolveCivilization(civ *Civilization, events *[]string) {
	// Timed-state countdowns first so "N turns" means N full resolutions.
	if civ.AnarchyTurns > 0 {
		civ.AnarchyTurns--
		if civ.AnarchyTurns == 0 {
			*events = append(*events, fmt.Sprintf("%s: anarchy has ended", civ.Name))
		}
	}
	if civ.CombatBonusTurns > 0 {
		civ.CombatBonusTurns--
	}
	if civ.BonusTurns > 0 {
		civ.BonusTurns--
	}

	g.resolveGold(civ, events)
	g.resolveUpkeep(civ, events)
	if civ.Gold < 0 {
		g.resolveAttrition(civ, events)
	}
	if civ.AnarchyTurns == 0 {
		g.resolveProduction(civ, events)
	}
	g.resolveImprovements(civ, events)
	for _, cityID := range civ.CityIDs {
		g.recomputeCityYields(civ, g.cities[cityID])
	}
	g.resolveGrowth(civ, events)
	g.resolveCulture(civ, events)
	g.resolveGoldenAge(civ, events)
	g.resolveGreatPeople(civ, events)
	g.resolveResearch(civ, events)
	g.resetUnits(civ)
	g.resolveHappiness(civ)
	g.resolveScore(civ)
	g.checkElimination(civ, events)
}

// resetUnits restores movement and applies healing: a unit that acted heals
// nothing; otherwise 10/15/20 hp for neutral ground, friendly territory, or
// a friendly city.
func (g *Game) resetUnits(civ *Civilization) {
	for _, uid := range append([]string(nil), civ.UnitIDs...) {
		u := g.units[uid]
		if u == nil {
			continue
		}
		if !u.Acted && u.HP < u.MaxHP {
			t := g.TileAt(u.Pos)
			heal := g.tun.HealNeutral
			if t.OwnerID == civ.ID {
				heal = g.tun.HealFriendly
				if t.CityID != "" {
					if c := g.cities[t.CityID]; c != nil && c.OwnerID == civ.ID {
						heal = g.tun.HealCity
					}
				}
			}
			u.HP += heal
			if u.HP > u.MaxHP {
				u.HP = u.MaxHP
			}
		}
		u.MovementLeft = u.Movement
		u.Acted = false
	}
}

func (g *Game) resolveHappiness(civ *Civilization) {
	gov := g.rules.Governments[civ.Government]

	h := g.tun.BaseHappiness
	h += g.countLuxuries(civ) * g.tun.LuxuryHappiness
	h += civ.WonderHappiness
	if civ.AnarchyTurns == 0 {
		h += gov.Happiness
	}

	popPenalty := 0
	for _, cityID := range civ.CityIDs {
		c := g.cities[cityID]
		h += c.LocalHappiness
		popPenalty += c.Population / g.tun.PopulationUnhappyDivisor
	}
	if !gov.NoPopUnhappiness || civ.AnarchyTurns > 0 {
		h -= popPenalty
	}

	wwMult := gov.WarWearinessMult
	if wwMult == 0 || civ.AnarchyTurns > 0 {
		wwMult = 1.0
	}
	h -= int(float64(civ.WarWeariness) * wwMult)

	civ.Happiness = h
}

// countLuxuries counts distinct luxury resources inside the civilization's
// borders. A resource is a luxury when no unit or building requires it.
func (g *Game) countLuxuries(civ *Civilization) int {
	seen := map[string]bool{}
	for i := range g.tiles {
		t := &g.tiles[i]
		if t.OwnerID != civ.ID || t.Resource == "" || seen[t.Resource] {
			continue
		}
		if !g.rules.IsStrategicResource(t.Resource) {
			seen[t.Resource] = true
		}
	}
	return len(seen)
}

func (g *Game) resolveScore(civ *Civilization) {
	pop := 0
	for _, cityID := range civ.CityIDs {
		pop += g.cities[cityID].Population
	}
	civ.Score = len(civ.CityIDs)*50 + pop*10 + len(civ.Researched)*20 +
		len(civ.UnitIDs)*5 + civ.GoldenAgesCompleted*50
}

func (g *Game) checkElimination(civ *Civilization, events *[]string) {
	if len(civ.CityIDs) == 0 && len(civ.UnitIDs) == 0 {
		civ.Alive = false
		g.addNotification(civ.ID, "civilization eliminated")
		*events = append(*events, fmt.Sprintf("%s has been eliminated", civ.Name))
	}
}

func (g *Game) resolveTradeRoutes(events *[]string) {
	for _, rid := range g.sortedRouteIDs() {
		r := g.routes[rid]
		r.TurnsLeft--
		if r.TurnsLeft > 0 {
			continue
		}
		if u := g.units[r.UnitID]; u != nil {
			u.TradeRouteID = ""
		}
		delete(g.routes, rid)
		*events = append(*events, fmt.Sprintf("trade route %s expired", rid))
	}
}
