package game

import "gridciv.ai/internal/sim/ruleset"

// Structural edits to the grid/unit/roster triple all go through the helpers
// in this file so occupancy pointers, positions and rosters can never drift
// apart.

func (g *Game) InBounds(p Vec2i) bool {
	return p.X >= 0 && p.X < g.cfg.Width && p.Y >= 0 && p.Y < g.cfg.Height
}

func (g *Game) TileAt(p Vec2i) *Tile {
	return &g.tiles[p.Y*g.cfg.Width+p.X]
}

// neighbors4 returns the in-bounds Manhattan neighbors in fixed N,E,S,W
// order. Iteration order matters for determinism.
func (g *Game) neighbors4(p Vec2i) []Vec2i {
	candidates := [4]Vec2i{
		{p.X, p.Y - 1},
		{p.X + 1, p.Y},
		{p.X, p.Y + 1},
		{p.X - 1, p.Y},
	}
	out := make([]Vec2i, 0, 4)
	for _, c := range candidates {
		if g.InBounds(c) {
			out = append(out, c)
		}
	}
	return out
}

func (g *Game) spawnUnit(ownerID string, def ruleset.UnitDef, pos Vec2i, gpAbility string) *Unit {
	g.ctr.Unit++
	u := &Unit{
		ID:           unitID(g.ctr.Unit),
		Type:         def.ID,
		OwnerID:      ownerID,
		Pos:          pos,
		HP:           def.HP,
		MaxHP:        def.HP,
		Attack:       def.Attack,
		Defense:      def.Defense,
		Movement:     def.Movement,
		MovementLeft: def.Movement,
		GreatPerson:  gpAbility,
	}
	g.units[u.ID] = u
	g.TileAt(pos).UnitID = u.ID
	if civ := g.civs[ownerID]; civ != nil {
		civ.UnitIDs = append(civ.UnitIDs, u.ID)
		g.revealAround(civ, pos, def.Vision)
	}
	return u
}

// destroyUnit removes a unit from the grid, its owner's roster and any trade
// route it carries, in that order, so no stale occupancy survives.
func (g *Game) destroyUnit(id string) {
	u := g.units[id]
	if u == nil {
		return
	}
	if t := g.TileAt(u.Pos); t.UnitID == id {
		t.UnitID = ""
	}
	if civ := g.civs[u.OwnerID]; civ != nil {
		civ.UnitIDs = removeID(civ.UnitIDs, id)
	}
	if u.TradeRouteID != "" {
		delete(g.routes, u.TradeRouteID)
	}
	delete(g.units, id)
}

// relocateUnit moves a unit one or more tiles, keeping grid occupancy in
// lock-step with the position field.
func (g *Game) relocateUnit(u *Unit, to Vec2i) {
	if t := g.TileAt(u.Pos); t.UnitID == u.ID {
		t.UnitID = ""
	}
	u.Pos = to
	g.TileAt(to).UnitID = u.ID
}

// revealAround expands fog of war in a square of the given radius.
func (g *Game) revealAround(civ *Civilization, pos Vec2i, radius int) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := Vec2i{X: pos.X + dx, Y: pos.Y + dy}
			if g.InBounds(p) {
				civ.Explored[tileKey(p.X, p.Y)] = true
			}
		}
	}
}

// claimTilesAround assigns unowned tiles within radius (Manhattan) to the
// civilization. Tiles owned by anyone else are never reassigned.
func (g *Game) claimTilesAround(civID string, pos Vec2i, radius int) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := Vec2i{X: pos.X + dx, Y: pos.Y + dy}
			if !g.InBounds(p) || manhattan(pos, p) > radius {
				continue
			}
			if t := g.TileAt(p); t.OwnerID == "" {
				t.OwnerID = civID
			}
		}
	}
}

// nearestFreeTile finds the closest passable, unoccupied, city-free tile to
// pos (including pos itself), scanning rings outward with a fixed order.
func (g *Game) nearestFreeTile(pos Vec2i) (Vec2i, bool) {
	maxR := g.cfg.Width + g.cfg.Height
	for r := 0; r <= maxR; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if absInt(dx)+absInt(dy) != r {
					continue
				}
				p := Vec2i{X: pos.X + dx, Y: pos.Y + dy}
				if !g.InBounds(p) {
					continue
				}
				t := g.TileAt(p)
				if Passable(t.Terrain) && t.UnitID == "" && t.CityID == "" {
					return p, true
				}
			}
		}
	}
	return Vec2i{}, false
}

// hostileAdjacent returns the id of a unit adjacent to pos owned by anyone
// other than ownerID, or "".
func (g *Game) hostileAdjacent(pos Vec2i, ownerID string) string {
	for _, n := range g.neighbors4(pos) {
		if uid := g.TileAt(n).UnitID; uid != "" {
			if u := g.units[uid]; u != nil && u.OwnerID != ownerID {
				return uid
			}
		}
	}
	return ""
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func unitID(n uint64) string { return "U" + uitoa(n) }

func uitoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
