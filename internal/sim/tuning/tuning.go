package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the balance knobs that are not part of the ruleset content.
// Zero values fall back to the defaults below so a partial tuning.yaml
// stays usable.
type Tuning struct {
	MaxTurns int `yaml:"max_turns"`

	StartingBorderRadius int `yaml:"starting_border_radius"`
	BorderCultureBase    int `yaml:"border_culture_base"`

	AnarchyTurns int `yaml:"anarchy_turns"`

	GoldenAgeTurns         int     `yaml:"golden_age_turns"`
	GoldenAgeBaseThreshold int     `yaml:"golden_age_base_threshold"`
	GoldenAgeThresholdStep int     `yaml:"golden_age_threshold_step"`
	GoldenAgeMultiplier    float64 `yaml:"golden_age_multiplier"`

	GreatPersonBaseThreshold int     `yaml:"great_person_base_threshold"`
	GreatPersonThresholdMult float64 `yaml:"great_person_threshold_mult"`
	GreatPersonBonusTurns    int     `yaml:"great_person_bonus_turns"`
	GreatPersonGold          int     `yaml:"great_person_gold"`
	CombatBonusTurns         int     `yaml:"combat_bonus_turns"`

	TradeRouteTurns       int `yaml:"trade_route_turns"`
	TradeRouteGoldDivisor int `yaml:"trade_route_gold_divisor"`

	BarbSpawnEveryTurns int `yaml:"barb_spawn_every_turns"`
	BarbCampGoldReward  int `yaml:"barb_camp_gold_reward"`
	BarbLocalUnitCap    int `yaml:"barb_local_unit_cap"`
	BarbCampRadius      int `yaml:"barb_camp_radius"`

	AttritionHP int `yaml:"attrition_hp"`

	GrowthEveryTurns int `yaml:"growth_every_turns"`

	MinSciencePerTurn int `yaml:"min_science_per_turn"`

	HealNeutral  int `yaml:"heal_neutral"`
	HealFriendly int `yaml:"heal_friendly"`
	HealCity     int `yaml:"heal_city"`

	UnhappyProductionPenalty float64 `yaml:"unhappy_production_penalty"`
	BaseHappiness            int     `yaml:"base_happiness"`
	LuxuryHappiness          int     `yaml:"luxury_happiness"`
	PopulationUnhappyDivisor int     `yaml:"population_unhappy_divisor"`

	WonderDiscoveryHappiness int `yaml:"wonder_discovery_happiness"`
}

func Default() Tuning {
	return Tuning{
		MaxTurns: 300,

		StartingBorderRadius: 1,
		BorderCultureBase:    30,

		AnarchyTurns: 3,

		GoldenAgeTurns:         10,
		GoldenAgeBaseThreshold: 100,
		GoldenAgeThresholdStep: 50,
		GoldenAgeMultiplier:    1.5,

		GreatPersonBaseThreshold: 100,
		GreatPersonThresholdMult: 1.5,
		GreatPersonBonusTurns:    10,
		GreatPersonGold:          200,
		CombatBonusTurns:         10,

		TradeRouteTurns:       30,
		TradeRouteGoldDivisor: 3,

		BarbSpawnEveryTurns: 5,
		BarbCampGoldReward:  25,
		BarbLocalUnitCap:    3,
		BarbCampRadius:      3,

		AttritionHP: 10,

		GrowthEveryTurns: 5,

		MinSciencePerTurn: 1,

		HealNeutral:  10,
		HealFriendly: 15,
		HealCity:     20,

		UnhappyProductionPenalty: 0.25,
		BaseHappiness:            5,
		LuxuryHappiness:          2,
		PopulationUnhappyDivisor: 2,

		WonderDiscoveryHappiness: 3,
	}
}

func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t.withDefaults(), nil
}

// withDefaults backfills zero values so older tuning files keep working.
func (t Tuning) withDefaults() Tuning {
	d := Default()
	if t.MaxTurns == 0 {
		t.MaxTurns = d.MaxTurns
	}
	if t.StartingBorderRadius == 0 {
		t.StartingBorderRadius = d.StartingBorderRadius
	}
	if t.BorderCultureBase == 0 {
		t.BorderCultureBase = d.BorderCultureBase
	}
	if t.AnarchyTurns == 0 {
		t.AnarchyTurns = d.AnarchyTurns
	}
	if t.GoldenAgeTurns == 0 {
		t.GoldenAgeTurns = d.GoldenAgeTurns
	}
	if t.GoldenAgeBaseThreshold == 0 {
		t.GoldenAgeBaseThreshold = d.GoldenAgeBaseThreshold
	}
	if t.GoldenAgeThresholdStep == 0 {
		t.GoldenAgeThresholdStep = d.GoldenAgeThresholdStep
	}
	if t.GoldenAgeMultiplier == 0 {
		t.GoldenAgeMultiplier = d.GoldenAgeMultiplier
	}
	if t.GreatPersonBaseThreshold == 0 {
		t.GreatPersonBaseThreshold = d.GreatPersonBaseThreshold
	}
	if t.GreatPersonThresholdMult == 0 {
		t.GreatPersonThresholdMult = d.GreatPersonThresholdMult
	}
	if t.GreatPersonBonusTurns == 0 {
		t.GreatPersonBonusTurns = d.GreatPersonBonusTurns
	}
	if t.GreatPersonGold == 0 {
		t.GreatPersonGold = d.GreatPersonGold
	}
	if t.CombatBonusTurns == 0 {
		t.CombatBonusTurns = d.CombatBonusTurns
	}
	if t.TradeRouteTurns == 0 {
		t.TradeRouteTurns = d.TradeRouteTurns
	}
	if t.TradeRouteGoldDivisor == 0 {
		t.TradeRouteGoldDivisor = d.TradeRouteGoldDivisor
	}
	if t.BarbSpawnEveryTurns == 0 {
		t.BarbSpawnEveryTurns = d.BarbSpawnEveryTurns
	}
	if t.BarbCampGoldReward == 0 {
		t.BarbCampGoldReward = d.BarbCampGoldReward
	}
	if t.BarbLocalUnitCap == 0 {
		t.BarbLocalUnitCap = d.BarbLocalUnitCap
	}
	if t.BarbCampRadius == 0 {
		t.BarbCampRadius = d.BarbCampRadius
	}
	if t.AttritionHP == 0 {
		t.AttritionHP = d.AttritionHP
	}
	if t.GrowthEveryTurns == 0 {
		t.GrowthEveryTurns = d.GrowthEveryTurns
	}
	if t.MinSciencePerTurn == 0 {
		t.MinSciencePerTurn = d.MinSciencePerTurn
	}
	if t.HealNeutral == 0 {
		t.HealNeutral = d.HealNeutral
	}
	if t.HealFriendly == 0 {
		t.HealFriendly = d.HealFriendly
	}
	if t.HealCity == 0 {
		t.HealCity = d.HealCity
	}
	if t.UnhappyProductionPenalty == 0 {
		t.UnhappyProductionPenalty = d.UnhappyProductionPenalty
	}
	if t.BaseHappiness == 0 {
		t.BaseHappiness = d.BaseHappiness
	}
	if t.LuxuryHappiness == 0 {
		t.LuxuryHappiness = d.LuxuryHappiness
	}
	if t.PopulationUnhappyDivisor == 0 {
		t.PopulationUnhappyDivisor = d.PopulationUnhappyDivisor
	}
	if t.WonderDiscoveryHappiness == 0 {
		t.WonderDiscoveryHappiness = d.WonderDiscoveryHappiness
	}
	return t
}
