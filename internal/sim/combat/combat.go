// Package combat is the reference CombatResolver: strength-ratio damage with
// bounded seeded jitter, so identical state and seed always produce the
// identical outcome.
package combat

import (
	"math/rand"

	"gridciv.ai/internal/sim/game"
)

const (
	baseDamage     = 30.0
	fortifyBonus   = 1.5
	terrainBonus   = 1.25 // hills and forest
	offensiveBonus = 1.25 // great-general inspiration
	minStrength    = 0.5
)

type Resolver struct{}

func New() *Resolver { return &Resolver{} }

// Resolve runs one melee engagement: both sides deal damage scaled by the
// ratio of effective strengths, with jitter in [0.8, 1.2) drawn from seed.
func (r *Resolver) Resolve(g *game.Game, attackerID, defenderID string, seed int64) (game.CombatResult, bool) {
	a := g.Unit(attackerID)
	d := g.Unit(defenderID)
	if a == nil || d == nil {
		return game.CombatResult{}, false
	}
	rng := rand.New(rand.NewSource(seed))
	atk := attackStrength(g, a)
	def := defenseStrength(g, d)

	res := game.CombatResult{
		AttackerCivID:    a.OwnerID,
		DefenderCivID:    d.OwnerID,
		DamageToDefender: damage(atk, def, rng),
		DamageToAttacker: damage(def, atk, rng) / 2, // retaliation at half weight
	}
	finalize(&res, a, d)
	return res, true
}

// ResolveRanged is Resolve without retaliation.
func (r *Resolver) ResolveRanged(g *game.Game, attackerID, defenderID string, seed int64) (game.CombatResult, bool) {
	a := g.Unit(attackerID)
	d := g.Unit(defenderID)
	if a == nil || d == nil {
		return game.CombatResult{}, false
	}
	rng := rand.New(rand.NewSource(seed))
	res := game.CombatResult{
		AttackerCivID:    a.OwnerID,
		DefenderCivID:    d.OwnerID,
		DamageToDefender: damage(attackStrength(g, a), defenseStrength(g, d), rng),
	}
	finalize(&res, a, d)
	return res, true
}

func attackStrength(g *game.Game, u *game.Unit) float64 {
	s := float64(u.Attack)
	if civ := g.Civ(u.OwnerID); civ != nil && civ.CombatBonusTurns > 0 {
		s *= offensiveBonus
	}
	if s < minStrength {
		s = minStrength
	}
	return s
}

func defenseStrength(g *game.Game, u *game.Unit) float64 {
	s := float64(u.Defense)
	if u.Fortified {
		s *= fortifyBonus
	}
	t := g.TileAt(u.Pos)
	switch t.Terrain {
	case game.TerrainHills, game.TerrainForest:
		s *= terrainBonus
	}
	if t.CityID != "" {
		if c := g.City(t.CityID); c != nil && c.OwnerID == u.OwnerID {
			s += float64(c.Defense)
		}
	}
	if civ := g.Civ(u.OwnerID); civ != nil && civ.CombatBonusTurns > 0 {
		s *= offensiveBonus
	}
	if s < minStrength {
		s = minStrength
	}
	return s
}

func damage(from, against float64, rng *rand.Rand) int {
	jitter := 0.8 + rng.Float64()*0.4
	dmg := int(baseDamage * (from / against) * jitter)
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

func finalize(res *game.CombatResult, a, d *game.Unit) {
	if res.DamageToDefender >= d.HP {
		res.DefenderDestroyed = true
	}
	if res.DamageToAttacker >= a.HP {
		res.AttackerDestroyed = true
	}
}
