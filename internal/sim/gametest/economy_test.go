package gametest

import (
	"testing"

	"gridciv.ai/internal/sim/game"
)

func TestGold_CityIncomeMinusUpkeep(t *testing.T) {
	h := NewHarness(t, 10, 10, 5)
	civ := h.AddCiv("Alpha")
	h.SettleCity(civ.ID, "Alphaville", 4, 4)

	h.EndTurn()
	if civ.Gold != 51 { // 50 start + 1 city gold, no maintenance
		t.Fatalf("gold = %d, want 51", civ.Gold)
	}

	h.Spawn(civ.ID, "WARRIOR", 1, 1)
	h.Spawn(civ.ID, "WARRIOR", 1, 2)
	h.Spawn(civ.ID, "WARRIOR", 1, 3)
	h.EndTurn()
	if civ.Gold != 49 { // +1 income, -3 unit maintenance
		t.Fatalf("gold = %d, want 49", civ.Gold)
	}
}

func TestAttrition_NegativeTreasuryDamagesUnits(t *testing.T) {
	h := NewHarness(t, 10, 10, 5)
	civ := h.AddCiv("Alpha")
	u := h.Spawn(civ.ID, "WARRIOR", 1, 1)

	civ.Gold = -100
	// Fortify so end-of-turn healing does not mask the attrition hit.
	h.MustAccept(civ.ID, game.Action{Kind: game.ActionFortify, UnitID: u.ID})
	h.EndTurn()
	if u.HP != u.MaxHP-h.Tun.AttritionHP {
		t.Fatalf("hp = %d, want %d", u.HP, u.MaxHP-h.Tun.AttritionHP)
	}
}

func TestAttrition_DisbandsAtZeroHP(t *testing.T) {
	h := NewHarness(t, 10, 10, 5)
	civ := h.AddCiv("Alpha")
	u := h.Spawn(civ.ID, "WARRIOR", 1, 1)

	civ.Gold = -100
	u.HP = 5
	h.EndTurn()
	if h.G.Unit(u.ID) != nil {
		t.Fatal("unit survived lethal attrition")
	}
	if len(civ.UnitIDs) != 0 {
		t.Fatalf("roster = %v, want empty", civ.UnitIDs)
	}
}

func TestHealing_IdleUnitsRecover(t *testing.T) {
	h := NewHarness(t, 10, 10, 5)
	civ := h.AddCiv("Alpha")
	h.SettleCity(civ.ID, "Alphaville", 4, 4)

	neutral := h.Spawn(civ.ID, "WARRIOR", 8, 8)
	friendly := h.Spawn(civ.ID, "WARRIOR", 4, 5)
	// A swordsman's 25 max hp leaves room for the full 20-hp city tier.
	inCity := h.Spawn(civ.ID, "SWORDSMAN", 4, 4)
	clamped := h.Spawn(civ.ID, "WARRIOR", 4, 3)
	for _, u := range []*game.Unit{neutral, friendly, inCity} {
		u.HP = 1
	}
	clamped.HP = clamped.MaxHP - 5 // heal exceeds the missing hp

	h.EndTurn()
	if neutral.HP != 1+h.Tun.HealNeutral {
		t.Fatalf("neutral-ground hp = %d, want %d", neutral.HP, 1+h.Tun.HealNeutral)
	}
	if friendly.HP != 1+h.Tun.HealFriendly {
		t.Fatalf("friendly-territory hp = %d, want %d", friendly.HP, 1+h.Tun.HealFriendly)
	}
	if inCity.HP != 1+h.Tun.HealCity {
		t.Fatalf("in-city hp = %d, want %d", inCity.HP, 1+h.Tun.HealCity)
	}
	if clamped.HP != clamped.MaxHP {
		t.Fatalf("healed hp = %d, want clamp at max %d", clamped.HP, clamped.MaxHP)
	}
}

func TestTradeRoute_IncomeAndExpiry(t *testing.T) {
	h := NewHarness(t, 14, 14, 5)
	civ := h.AddCiv("Alpha")
	origin := h.SettleCity(civ.ID, "Alphaville", 2, 2)
	dest := h.SettleCity(civ.ID, "Outpost", 8, 2)

	caravan := h.Spawn(civ.ID, "CARAVAN", 2, 2)
	h.MustAccept(civ.ID, game.Action{Kind: game.ActionEstablishTradeRoute, UnitID: caravan.ID, TargetCityID: dest.ID})

	if caravan.TradeRouteID == "" {
		t.Fatal("caravan not pinned to its route")
	}
	r := h.G.Route(caravan.TradeRouteID)
	if r == nil || r.GoldPerTurn != 2 { // distance 6 over divisor 3
		t.Fatalf("route = %+v, want 2 gold/turn", r)
	}
	// A pinned caravan cannot act.
	h.MustReject(civ.ID, game.Action{Kind: game.ActionMove, UnitID: caravan.ID, To: vec(3, 2)})

	h.EndTurn()
	// Two size-1 cities yield 2 gold, the route adds 2, the caravan costs 1.
	if civ.Gold != 50+3 {
		t.Fatalf("gold = %d, want 53", civ.Gold)
	}
	if r.TurnsLeft != h.Tun.TradeRouteTurns-1 {
		t.Fatalf("turns left = %d, want %d", r.TurnsLeft, h.Tun.TradeRouteTurns-1)
	}

	r.TurnsLeft = 1
	h.EndTurn()
	if h.G.Route(r.ID) != nil {
		t.Fatal("route survived expiry")
	}
	if caravan.TradeRouteID != "" {
		t.Fatal("caravan still pinned after expiry")
	}
	_ = origin
}

func TestTradeRoute_RequiresCaravanInOwnCity(t *testing.T) {
	h := NewHarness(t, 14, 14, 5)
	civ := h.AddCiv("Alpha")
	dest := h.SettleCity(civ.ID, "Outpost", 8, 2)

	stray := h.Spawn(civ.ID, "CARAVAN", 4, 4) // not on a city tile
	h.MustReject(civ.ID, game.Action{Kind: game.ActionEstablishTradeRoute, UnitID: stray.ID, TargetCityID: dest.ID})

	w := h.Spawn(civ.ID, "WARRIOR", 8, 3)
	h.MustReject(civ.ID, game.Action{Kind: game.ActionEstablishTradeRoute, UnitID: w.ID, TargetCityID: dest.ID})
}
