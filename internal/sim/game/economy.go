package game

import (
	"fmt"
	"sort"

	"gridciv.ai/internal/sim/ruleset"
)

// goldMultiplier is the civ-wide gold income multiplier: government times any
// active golden age or great-merchant surge. During anarchy it pins to 1.0.
func (g *Game) goldMultiplier(civ *Civilization) float64 {
	if civ.AnarchyTurns > 0 {
		return 1.0
	}
	m := g.rules.Governments[civ.Government].GoldMult
	if m == 0 {
		m = 1.0
	}
	if civ.GoldenAgeTurns > 0 {
		m *= g.tun.GoldenAgeMultiplier
	}
	if civ.BonusTurns > 0 {
		m *= g.tun.GoldenAgeMultiplier
	}
	return m
}

func (g *Game) productionMultiplier(civ *Civilization) float64 {
	m := g.rules.Governments[civ.Government].ProductionMult
	if m == 0 || civ.AnarchyTurns > 0 {
		m = 1.0
	}
	if civ.AnarchyTurns == 0 {
		if civ.GoldenAgeTurns > 0 {
			m *= g.tun.GoldenAgeMultiplier
		}
		if civ.BonusTurns > 0 {
			m *= g.tun.GoldenAgeMultiplier
		}
	}
	if civ.Happiness < 0 {
		m *= 1.0 - g.tun.UnhappyProductionPenalty
	}
	return m
}

func (g *Game) resolveGold(civ *Civilization, events *[]string) {
	income := 0
	for _, cityID := range civ.CityIDs {
		income += g.cities[cityID].Yields.Gold
	}
	income = int(float64(income) * g.goldMultiplier(civ))
	for _, rid := range g.sortedRouteIDs() {
		r := g.routes[rid]
		if from := g.cities[r.FromCityID]; from != nil && from.OwnerID == civ.ID {
			income += r.GoldPerTurn
		}
	}
	civ.Gold += income
}

func (g *Game) resolveUpkeep(civ *Civilization, events *[]string) {
	total := 0
	for _, cityID := range civ.CityIDs {
		for _, bid := range g.cities[cityID].Buildings {
			total += g.rules.Buildings[bid].Maintenance
		}
	}
	for _, uid := range civ.UnitIDs {
		if u := g.units[uid]; u != nil {
			total += g.rules.Units[u.Type].Maintenance
		}
	}
	if civ.AnarchyTurns == 0 {
		if disc := g.rules.Governments[civ.Government].MaintenanceDiscount; disc > 0 {
			total = int(float64(total) * (1.0 - disc))
		}
	}
	civ.Gold -= total
}

// resolveAttrition damages every unit while the treasury is negative. Gold
// never blocks actions; running dry costs hit points instead.
func (g *Game) resolveAttrition(civ *Civilization, events *[]string) {
	for _, uid := range append([]string(nil), civ.UnitIDs...) {
		u := g.units[uid]
		if u == nil {
			continue
		}
		u.HP -= g.tun.AttritionHP
		if u.HP <= 0 {
			*events = append(*events, fmt.Sprintf("%s disbanded from attrition", u.ID))
			g.addNotification(civ.ID, fmt.Sprintf("%s disbanded: treasury is empty", u.ID))
			g.destroyUnit(u.ID)
		}
	}
}

func (g *Game) resolveProduction(civ *Civilization, events *[]string) {
	mult := g.productionMultiplier(civ)
	for _, cityID := range civ.CityIDs {
		c := g.cities[cityID]
		if c.Production == nil {
			continue
		}
		gained := int(float64(c.Yields.Production) * mult)
		if gained < 0 {
			gained = 0
		}
		c.Production.Progress += gained
		if c.Production.Progress >= c.Production.Cost {
			g.completeProduction(civ, c, events)
		}
	}
}

// completeProduction finishes the city's current order: a unit spawns on the
// city tile or the nearest free one, a building joins the roster.
func (g *Game) completeProduction(civ *Civilization, c *City, events *[]string) {
	order := c.Production
	c.Production = nil
	switch order.Kind {
	case OrderUnit:
		def, ok := g.rules.Units[order.Target]
		if !ok {
			return
		}
		pos, found := g.nearestFreeTile(c.Pos)
		if !found {
			*events = append(*events, fmt.Sprintf("%s finished %s but had nowhere to place it", c.Name, def.Name))
			return
		}
		u := g.spawnUnit(civ.ID, def, pos, "")
		g.addNotification(civ.ID, fmt.Sprintf("%s completed %s", c.Name, def.Name))
		*events = append(*events, fmt.Sprintf("%s completed %s (%s)", c.Name, def.Name, u.ID))
	case OrderBuilding:
		def, ok := g.rules.Buildings[order.Target]
		if !ok {
			return
		}
		c.Buildings = append(c.Buildings, def.ID)
		if def.SpaceshipPart {
			civ.SpaceshipParts[def.ID] = true
			g.addNotification(civ.ID, fmt.Sprintf("spaceship part %s completed in %s", def.Name, c.Name))
		} else {
			g.addNotification(civ.ID, fmt.Sprintf("%s completed %s", c.Name, def.Name))
		}
		*events = append(*events, fmt.Sprintf("%s completed %s", c.Name, def.Name))
	}
}

// resolveImprovements ticks in-progress tile work inside the civ's borders.
func (g *Game) resolveImprovements(civ *Civilization, events *[]string) {
	for i := range g.tiles {
		t := &g.tiles[i]
		if t.OwnerID != civ.ID || t.InProgress == nil {
			continue
		}
		t.InProgress.TurnsLeft--
		if t.InProgress.TurnsLeft > 0 {
			continue
		}
		t.Improvement = t.InProgress.ID
		t.InProgress = nil
		*events = append(*events, fmt.Sprintf("%s: %s completed at (%d,%d)",
			civ.Name, t.Improvement, i%g.cfg.Width, i/g.cfg.Width))
	}
}

// recomputeCityYields rebuilds a city's per-turn yields from population,
// buildings, worked improvements and natural wonders in its border radius.
// First sight of a wonder also grants the owner a permanent happiness bonus.
func (g *Game) recomputeCityYields(civ *Civilization, c *City) {
	y := Yields{
		Gold:       c.Population,
		Food:       2 + c.Population,
		Production: 1 + c.Population/2,
		Science:    c.Population,
		Culture:    1,
	}
	defense := 5
	local := 0

	for _, bid := range c.Buildings {
		def := g.rules.Buildings[bid]
		y.Gold += def.Yields.Gold
		y.Food += def.Yields.Food
		y.Production += def.Yields.Production
		y.Science += def.Yields.Science
		y.Culture += def.Yields.Culture
		defense += def.Defense
		local += def.Happiness
	}

	r := c.BorderRadius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if absInt(dx)+absInt(dy) > r {
				continue
			}
			p := Vec2i{X: c.Pos.X + dx, Y: c.Pos.Y + dy}
			if !g.InBounds(p) {
				continue
			}
			t := g.TileAt(p)
			if t.OwnerID != civ.ID {
				continue
			}
			if t.Improvement != "" {
				imp := g.rules.Improvements[t.Improvement]
				y.Gold += imp.Yields.Gold
				y.Food += imp.Yields.Food
				y.Production += imp.Yields.Production
				y.Science += imp.Yields.Science
				y.Culture += imp.Yields.Culture
			}
			if t.WonderID != "" {
				w := g.wonders[t.WonderID]
				y.Gold += w.Yields.Gold
				y.Food += w.Yields.Food
				y.Production += w.Yields.Production
				y.Science += w.Yields.Science
				y.Culture += w.Yields.Culture
				if !w.DiscoveredBy[civ.ID] {
					w.DiscoveredBy[civ.ID] = true
					civ.WonderHappiness += g.tun.WonderDiscoveryHappiness
					g.addNotification(civ.ID, fmt.Sprintf("%s discovered %s", c.Name, w.Name))
				}
			}
		}
	}

	c.Yields = y
	c.Defense = defense
	c.LocalHappiness = local
}

// resolveGrowth grows a city by one population on its growth cadence when it
// runs a food surplus. An aqueduct halves the cadence.
func (g *Game) resolveGrowth(civ *Civilization, events *[]string) {
	for _, cityID := range civ.CityIDs {
		c := g.cities[cityID]
		cadence := g.tun.GrowthEveryTurns
		if g.cityHasAqueduct(c) {
			cadence /= 2
			if cadence < 1 {
				cadence = 1
			}
		}
		if g.turn%cadence != 0 {
			continue
		}
		surplus := c.Yields.Food - c.Population*2
		if surplus <= 0 {
			continue
		}
		c.Population++
		*events = append(*events, fmt.Sprintf("%s grew to population %d", c.Name, c.Population))
	}
}

func (g *Game) cityHasAqueduct(c *City) bool {
	for _, bid := range c.Buildings {
		if g.rules.Buildings[bid].Aqueduct {
			return true
		}
	}
	return false
}

// resolveCulture accumulates stored culture per city and expands the border
// radius when the threshold is crossed. The threshold scales with the
// current radius so each ring costs more than the last.
func (g *Game) resolveCulture(civ *Civilization, events *[]string) {
	for _, cityID := range civ.CityIDs {
		c := g.cities[cityID]
		c.StoredCulture += c.Yields.Culture
		threshold := g.tun.BorderCultureBase * c.BorderRadius
		if c.StoredCulture < threshold {
			continue
		}
		c.StoredCulture -= threshold
		c.BorderRadius++
		g.claimTilesAround(civ.ID, c.Pos, c.BorderRadius)
		g.addNotification(civ.ID, fmt.Sprintf("%s borders expanded to radius %d", c.Name, c.BorderRadius))
		*events = append(*events, fmt.Sprintf("%s expanded its borders", c.Name))
	}
}

// categoryYield sums the relevant yield of matching-category buildings across
// the civ's cities; it feeds the corresponding great-person track. Population
// baselines and tile yields never count, only the buildings themselves.
func (g *Game) categoryYield(civ *Civilization, gpType string) int {
	total := 0
	for _, cityID := range civ.CityIDs {
		for _, bid := range g.cities[cityID].Buildings {
			def := g.rules.Buildings[bid]
			switch {
			case gpType == ruleset.GPScientist && def.Category == ruleset.CategoryScience:
				total += def.Yields.Science
			case gpType == ruleset.GPArtist && def.Category == ruleset.CategoryCulture:
				total += def.Yields.Culture
			case gpType == ruleset.GPMerchant && def.Category == ruleset.CategoryGold:
				total += def.Yields.Gold
			case gpType == ruleset.GPEngineer && def.Category == ruleset.CategoryProduction:
				total += def.Yields.Production
			}
		}
	}
	return total
}

func sortedGPTypes(tracks map[string]*GPTrack) []string {
	types := make([]string, 0, len(tracks))
	for t := range tracks {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
