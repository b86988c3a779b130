package game

// Pathfinding and combat are external collaborators. The engine only depends
// on these contracts; reference implementations live in internal/sim/path
// and internal/sim/combat. A nil collaborator, or one returning no result,
// means "no path" / "no combat occurred", never an engine failure.

// Pathfinder returns the cheapest legal path from one tile to another for
// the acting civilization, honoring terrain cost and enemy zones of control:
// a returned path must stop at or before the first tile inside an enemy ZoC
// unless that tile is the final destination. The path excludes the start
// tile. nil means no path within the movement budget.
type Pathfinder interface {
	FindPath(g *Game, from, to Vec2i, movementBudget int, civID string) []Vec2i
}

// CombatResult reports what a resolver decided. Damage fields are the
// damage dealt TO each side.
type CombatResult struct {
	DamageToAttacker  int
	DamageToDefender  int
	AttackerDestroyed bool
	DefenderDestroyed bool
	AttackerCivID     string
	DefenderCivID     string
}

// CombatResolver resolves one attack. Given the same state snapshot,
// participants and seed it must return identical results. ResolveRanged
// omits retaliation. ok=false means no combat occurred.
type CombatResolver interface {
	Resolve(g *Game, attackerID, defenderID string, seed int64) (CombatResult, bool)
	ResolveRanged(g *Game, attackerID, defenderID string, seed int64) (CombatResult, bool)
}

// InEnemyZoC reports whether pos is adjacent to a unit hostile to civID.
// Exposed for pathfinder implementations.
func (g *Game) InEnemyZoC(pos Vec2i, civID string) bool {
	return g.hostileAdjacent(pos, civID) != ""
}

// UnitAt returns the occupant of pos, or nil.
func (g *Game) UnitAt(pos Vec2i) *Unit {
	if !g.InBounds(pos) {
		return nil
	}
	if id := g.TileAt(pos).UnitID; id != "" {
		return g.units[id]
	}
	return nil
}
