package combat

import (
	"testing"

	"gridciv.ai/internal/sim/game"
	"gridciv.ai/internal/sim/ruleset"
	"gridciv.ai/internal/sim/tuning"
)

func newDuel(t *testing.T) (*game.Game, *game.Unit, *game.Unit) {
	t.Helper()
	rules, err := ruleset.Load("../../../configs")
	if err != nil {
		t.Fatalf("load ruleset: %v", err)
	}
	g, err := game.New(game.Config{Width: 8, Height: 8, Seed: 1}, rules, tuning.Default())
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	a := g.AddCivilization("Alpha", "A")
	b := g.AddCivilization("Beta", "B")
	atk, err := g.SpawnUnitAt(a.ID, "WARRIOR", game.Vec2i{X: 2, Y: 2})
	if err != nil {
		t.Fatalf("spawn attacker: %v", err)
	}
	def, err := g.SpawnUnitAt(b.ID, "WARRIOR", game.Vec2i{X: 3, Y: 2})
	if err != nil {
		t.Fatalf("spawn defender: %v", err)
	}
	return g, atk, def
}

func TestResolve_SameSeedSameOutcome(t *testing.T) {
	g, atk, def := newDuel(t)
	r := New()
	first, ok := r.Resolve(g, atk.ID, def.ID, 12345)
	if !ok {
		t.Fatal("resolve failed")
	}
	second, _ := r.Resolve(g, atk.ID, def.ID, 12345)
	if first != second {
		t.Fatalf("outcomes differ for one seed:\n  %+v\n  %+v", first, second)
	}
}

func TestResolve_DamageWithinJitterBounds(t *testing.T) {
	g, atk, def := newDuel(t)
	r := New()
	for seed := int64(0); seed < 50; seed++ {
		res, _ := r.Resolve(g, atk.ID, def.ID, seed)
		// 30 * (6/4) * [0.8, 1.2) truncated.
		if res.DamageToDefender < 36 || res.DamageToDefender > 53 {
			t.Fatalf("seed %d: damage to defender = %d, want 36..53", seed, res.DamageToDefender)
		}
		// Retaliation at half weight: 30 * (4/6) * [0.8, 1.2) / 2.
		if res.DamageToAttacker < 8 || res.DamageToAttacker > 11 {
			t.Fatalf("seed %d: damage to attacker = %d, want 8..11", seed, res.DamageToAttacker)
		}
		if !res.DefenderDestroyed {
			t.Fatalf("seed %d: a 36+ hit should destroy a 20 hp defender", seed)
		}
		if res.AttackerDestroyed {
			t.Fatalf("seed %d: retaliation destroyed the attacker", seed)
		}
	}
}

func TestResolve_FortifyAndTerrainBluntDamage(t *testing.T) {
	g, atk, def := newDuel(t)
	r := New()
	base, _ := r.Resolve(g, atk.ID, def.ID, 777)

	def.Fortified = true
	g.TileAt(def.Pos).Terrain = game.TerrainHills
	tough, _ := r.Resolve(g, atk.ID, def.ID, 777)
	if tough.DamageToDefender >= base.DamageToDefender {
		t.Fatalf("fortified-on-hills damage %d, want less than %d", tough.DamageToDefender, base.DamageToDefender)
	}
	if tough.DamageToAttacker <= base.DamageToAttacker {
		t.Fatalf("retaliation %d, want more than %d", tough.DamageToAttacker, base.DamageToAttacker)
	}
}

func TestResolveRanged_NoRetaliation(t *testing.T) {
	g, atk, def := newDuel(t)
	res, ok := New().ResolveRanged(g, atk.ID, def.ID, 9)
	if !ok {
		t.Fatal("resolve failed")
	}
	if res.DamageToAttacker != 0 {
		t.Fatalf("ranged retaliation = %d, want 0", res.DamageToAttacker)
	}
	if res.DamageToDefender < 1 {
		t.Fatal("ranged attack dealt no damage")
	}
}

func TestResolve_CombatInspirationBonus(t *testing.T) {
	g, atk, def := newDuel(t)
	r := New()
	base, _ := r.Resolve(g, atk.ID, def.ID, 31)

	g.Civ(atk.OwnerID).CombatBonusTurns = 5
	inspired, _ := r.Resolve(g, atk.ID, def.ID, 31)
	if inspired.DamageToDefender <= base.DamageToDefender {
		t.Fatalf("inspired damage %d, want more than %d", inspired.DamageToDefender, base.DamageToDefender)
	}
}

func TestResolve_MissingUnits(t *testing.T) {
	g, atk, _ := newDuel(t)
	if _, ok := New().Resolve(g, atk.ID, "U99", 1); ok {
		t.Fatal("resolve succeeded against a missing defender")
	}
}
