package game

import "fmt"

// resolveBarbarians runs the neutral faction: camps are captured by any
// civilization unit standing on them, spawn raiders on a fixed cadence up to
// a local cap, and every barbarian unit either attacks an adjacent
// civilization unit or takes one step toward the nearest city.
func (g *Game) resolveBarbarians(events *[]string) {
	g.resolveCampCaptures(events)
	if g.tun.BarbSpawnEveryTurns > 0 && g.turn%g.tun.BarbSpawnEveryTurns == 0 {
		g.spawnBarbarians(events)
	}
	g.moveBarbarians(events)
}

func (g *Game) resolveCampCaptures(events *[]string) {
	for _, campID := range g.sortedCampIDs() {
		camp := g.camps[campID]
		uid := g.TileAt(camp.Pos).UnitID
		if uid == "" {
			continue
		}
		u := g.units[uid]
		if u == nil || u.OwnerID == BarbarianFaction {
			continue
		}
		civ := g.civs[u.OwnerID]
		if civ == nil {
			continue
		}
		civ.Gold += g.tun.BarbCampGoldReward
		delete(g.camps, campID)
		g.addNotification(civ.ID, fmt.Sprintf("barbarian camp razed: +%d gold", g.tun.BarbCampGoldReward))
		*events = append(*events, fmt.Sprintf("%s razed a barbarian camp at (%d,%d)", civ.Name, camp.Pos.X, camp.Pos.Y))
	}
}

func (g *Game) spawnBarbarians(events *[]string) {
	def, ok := g.rules.Units["BARBARIAN"]
	if !ok {
		return
	}
	for _, campID := range g.sortedCampIDs() {
		camp := g.camps[campID]
		if g.barbariansNear(camp.Pos) >= g.tun.BarbLocalUnitCap {
			continue
		}
		pos, found := g.nearestFreeTile(camp.Pos)
		if !found {
			continue
		}
		u := g.spawnUnit(BarbarianFaction, def, pos, "")
		*events = append(*events, fmt.Sprintf("barbarian %s emerged at (%d,%d)", u.ID, pos.X, pos.Y))
	}
}

func (g *Game) barbariansNear(pos Vec2i) int {
	n := 0
	for _, uid := range g.sortedUnitIDs() {
		u := g.units[uid]
		if u.OwnerID == BarbarianFaction && manhattan(u.Pos, pos) <= g.tun.BarbCampRadius {
			n++
		}
	}
	return n
}

func (g *Game) moveBarbarians(events *[]string) {
	for _, uid := range g.sortedUnitIDs() {
		u := g.units[uid]
		if u == nil || u.OwnerID != BarbarianFaction {
			continue
		}
		if target := g.hostileAdjacent(u.Pos, BarbarianFaction); target != "" {
			g.barbarianAttack(u, g.units[target], events)
			continue
		}
		g.barbarianStep(u)
	}
}

func (g *Game) barbarianAttack(a, d *Unit, events *[]string) {
	if a == nil || d == nil || g.combat == nil {
		return
	}
	seed := combatSeed(g.cfg.Seed, g.turn, a.ID, d.ID)
	res, ok := g.combat.Resolve(g, a.ID, d.ID, seed)
	if !ok {
		return
	}
	g.applyCombatResult(a, d, res, events)
}

// barbarianStep moves one tile toward the nearest city, X axis first, with a
// Y fallback when the X step is blocked.
func (g *Game) barbarianStep(u *Unit) {
	target, ok := g.nearestCityPos(u.Pos)
	if !ok {
		return
	}
	var steps []Vec2i
	switch {
	case target.X > u.Pos.X:
		steps = append(steps, Vec2i{X: u.Pos.X + 1, Y: u.Pos.Y})
	case target.X < u.Pos.X:
		steps = append(steps, Vec2i{X: u.Pos.X - 1, Y: u.Pos.Y})
	}
	switch {
	case target.Y > u.Pos.Y:
		steps = append(steps, Vec2i{X: u.Pos.X, Y: u.Pos.Y + 1})
	case target.Y < u.Pos.Y:
		steps = append(steps, Vec2i{X: u.Pos.X, Y: u.Pos.Y - 1})
	}
	for _, p := range steps {
		if !g.InBounds(p) {
			continue
		}
		t := g.TileAt(p)
		if Passable(t.Terrain) && t.UnitID == "" && t.CityID == "" {
			g.relocateUnit(u, p)
			return
		}
	}
}

func (g *Game) nearestCityPos(from Vec2i) (Vec2i, bool) {
	best := Vec2i{}
	bestDist := -1
	for _, cityID := range g.sortedCityIDs() {
		c := g.cities[cityID]
		d := manhattan(from, c.Pos)
		if bestDist < 0 || d < bestDist {
			best = c.Pos
			bestDist = d
		}
	}
	return best, bestDist >= 0
}
