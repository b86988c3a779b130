// Package ruleset loads the immutable game content tables: units, buildings,
// techs, governments, improvements and great people. The engine consumes
// these read-only; content digests let clients verify they are playing
// against the same rules.
package ruleset

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Unit classes.
const (
	ClassSettler  = "SETTLER"
	ClassWorker   = "WORKER"
	ClassMilitary = "MILITARY"
	ClassCaravan  = "CARAVAN"
)

// Great-person types and abilities.
const (
	GPScientist = "SCIENTIST"
	GPArtist    = "ARTIST"
	GPGeneral   = "GENERAL"
	GPMerchant  = "MERCHANT"
	GPEngineer  = "ENGINEER"

	AbilityResearch           = "RESEARCH"
	AbilityProduction         = "PRODUCTION"
	AbilityCombat             = "COMBAT"
	AbilityGold               = "GOLD"
	AbilityCompleteProduction = "COMPLETE_PRODUCTION"
)

// Building categories; each feeds the great-person track of the same flavor.
const (
	CategoryScience    = "SCIENCE"
	CategoryCulture    = "CULTURE"
	CategoryGold       = "GOLD"
	CategoryProduction = "PRODUCTION"
)

type Yields struct {
	Gold       int `json:"gold,omitempty"`
	Food       int `json:"food,omitempty"`
	Production int `json:"production,omitempty"`
	Science    int `json:"science,omitempty"`
	Culture    int `json:"culture,omitempty"`
}

type UnitDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Class       string `json:"class"`
	HP          int    `json:"hp"`
	Attack      int    `json:"attack"`
	Defense     int    `json:"defense"`
	Movement    int    `json:"movement"`
	Vision      int    `json:"vision"`
	RangedRange int    `json:"ranged_range,omitempty"` // >0 marks a ranged-capable class
	Cost        int    `json:"cost"`
	Maintenance int    `json:"maintenance"`
	Tech        string `json:"tech,omitempty"`
	Resource    string `json:"resource,omitempty"`
	UpgradesTo  string `json:"upgrades_to,omitempty"`
	UpgradeCost int    `json:"upgrade_cost,omitempty"`
}

type BuildingDef struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Cost          int    `json:"cost"`
	Maintenance   int    `json:"maintenance"`
	Tech          string `json:"tech,omitempty"`
	Resource      string `json:"resource,omitempty"`
	Requires      string `json:"requires,omitempty"` // prerequisite building
	Yields        Yields `json:"yields"`
	Happiness     int    `json:"happiness,omitempty"`
	Defense       int    `json:"defense,omitempty"`
	Category      string `json:"category,omitempty"` // feeds great-person tracks
	Aqueduct      bool   `json:"aqueduct,omitempty"`
	SpaceshipPart bool   `json:"spaceship_part,omitempty"`
}

type TechDef struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Cost    int      `json:"cost"`
	Prereqs []string `json:"prereqs,omitempty"`
}

type GovernmentDef struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Tech                string  `json:"tech,omitempty"`
	GoldMult            float64 `json:"gold_mult"`
	ProductionMult      float64 `json:"production_mult"`
	Happiness           int     `json:"happiness,omitempty"`
	WarWearinessMult    float64 `json:"war_weariness_mult"`
	NoPopUnhappiness    bool    `json:"no_pop_unhappiness,omitempty"`
	MaintenanceDiscount float64 `json:"maintenance_discount,omitempty"` // 0..1 off upkeep
}

type ImprovementDef struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Terrain    []string `json:"terrain"`
	BuildTurns int      `json:"build_turns"`
	Yields     Yields   `json:"yields"`
}

type GreatPersonDef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Ability string `json:"ability"`
}

type Catalogs struct {
	Units        map[string]UnitDef
	Buildings    map[string]BuildingDef
	Techs        map[string]TechDef
	Governments  map[string]GovernmentDef
	Improvements map[string]ImprovementDef
	GreatPeople  map[string]GreatPersonDef

	UnitsDigest        string
	BuildingsDigest    string
	TechsDigest        string
	GovernmentsDigest  string
	ImprovementsDigest string
	GreatPeopleDigest  string
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadDefs(filepath.Join(configDir, "units.json"), &c.Units, &c.UnitsDigest, func(d UnitDef) string { return d.ID }); err != nil {
		return nil, err
	}
	if err := loadDefs(filepath.Join(configDir, "buildings.json"), &c.Buildings, &c.BuildingsDigest, func(d BuildingDef) string { return d.ID }); err != nil {
		return nil, err
	}
	if err := loadDefs(filepath.Join(configDir, "techs.json"), &c.Techs, &c.TechsDigest, func(d TechDef) string { return d.ID }); err != nil {
		return nil, err
	}
	if err := loadDefs(filepath.Join(configDir, "governments.json"), &c.Governments, &c.GovernmentsDigest, func(d GovernmentDef) string { return d.ID }); err != nil {
		return nil, err
	}
	if err := loadDefs(filepath.Join(configDir, "improvements.json"), &c.Improvements, &c.ImprovementsDigest, func(d ImprovementDef) string { return d.ID }); err != nil {
		return nil, err
	}
	if err := loadDefs(filepath.Join(configDir, "great_people.json"), &c.GreatPeople, &c.GreatPeopleDigest, func(d GreatPersonDef) string { return d.ID }); err != nil {
		return nil, err
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadDefs[T any](path string, out *map[string]T, digest *string, id func(T) string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	*digest = sha256Hex(raw)

	var defs []T
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	m := make(map[string]T, len(defs))
	for _, d := range defs {
		k := id(d)
		if k == "" {
			return fmt.Errorf("%s: empty id", filepath.Base(path))
		}
		if _, dup := m[k]; dup {
			return fmt.Errorf("%s: duplicate id %q", filepath.Base(path), k)
		}
		m[k] = d
	}
	*out = m
	return nil
}

// check verifies cross-references so a broken content edit fails at load
// rather than mid-game.
func (c *Catalogs) check() error {
	for id, u := range c.Units {
		if u.Tech != "" {
			if _, ok := c.Techs[u.Tech]; !ok {
				return fmt.Errorf("unit %s: unknown tech %s", id, u.Tech)
			}
		}
		if u.UpgradesTo != "" {
			if _, ok := c.Units[u.UpgradesTo]; !ok {
				return fmt.Errorf("unit %s: unknown upgrade target %s", id, u.UpgradesTo)
			}
		}
	}
	for id, b := range c.Buildings {
		if b.Tech != "" {
			if _, ok := c.Techs[b.Tech]; !ok {
				return fmt.Errorf("building %s: unknown tech %s", id, b.Tech)
			}
		}
		if b.Requires != "" {
			if _, ok := c.Buildings[b.Requires]; !ok {
				return fmt.Errorf("building %s: unknown prerequisite building %s", id, b.Requires)
			}
		}
	}
	for id, t := range c.Techs {
		for _, p := range t.Prereqs {
			if _, ok := c.Techs[p]; !ok {
				return fmt.Errorf("tech %s: unknown prereq %s", id, p)
			}
		}
	}
	for id, g := range c.Governments {
		if g.Tech != "" {
			if _, ok := c.Techs[g.Tech]; !ok {
				return fmt.Errorf("government %s: unknown tech %s", id, g.Tech)
			}
		}
	}
	return nil
}

// TechAvailable reports whether techID can be researched right now: all
// prereqs known and the tech itself not yet known.
func (c *Catalogs) TechAvailable(researched map[string]bool, techID string) bool {
	t, ok := c.Techs[techID]
	if !ok || researched[techID] {
		return false
	}
	for _, p := range t.Prereqs {
		if !researched[p] {
			return false
		}
	}
	return true
}

// AvailableTechs lists currently researchable techs sorted by id.
func (c *Catalogs) AvailableTechs(researched map[string]bool) []TechDef {
	var out []TechDef
	for id := range c.Techs {
		if c.TechAvailable(researched, id) {
			out = append(out, c.Techs[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CheapestAvailableTech picks the lowest-cost researchable tech, breaking
// cost ties by id so the choice is deterministic.
func (c *Catalogs) CheapestAvailableTech(researched map[string]bool) (TechDef, bool) {
	avail := c.AvailableTechs(researched)
	if len(avail) == 0 {
		return TechDef{}, false
	}
	best := avail[0]
	for _, t := range avail[1:] {
		if t.Cost < best.Cost {
			best = t
		}
	}
	return best, true
}

// UnitUnlocked reports whether the unit's tech prerequisite is satisfied.
// Resource availability is game state and checked by the validator.
func (c *Catalogs) UnitUnlocked(def UnitDef, researched map[string]bool) bool {
	return def.Tech == "" || researched[def.Tech]
}

func (c *Catalogs) BuildingUnlocked(def BuildingDef, researched map[string]bool) bool {
	return def.Tech == "" || researched[def.Tech]
}

// AvailableGovernments lists governments whose tech prerequisite is met,
// sorted by id.
func (c *Catalogs) AvailableGovernments(researched map[string]bool) []GovernmentDef {
	var out []GovernmentDef
	for _, g := range c.Governments {
		if g.Tech == "" || researched[g.Tech] {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GreatPersonByType returns the definition for a great-person type
// ("SCIENTIST", ...), if the content defines one.
func (c *Catalogs) GreatPersonByType(gpType string) (GreatPersonDef, bool) {
	ids := make([]string, 0, len(c.GreatPeople))
	for id := range c.GreatPeople {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if c.GreatPeople[id].Type == gpType {
			return c.GreatPeople[id], true
		}
	}
	return GreatPersonDef{}, false
}

// IsStrategicResource reports whether any unit or building requires the
// resource. Everything else on the map counts as a luxury.
func (c *Catalogs) IsStrategicResource(resource string) bool {
	for _, u := range c.Units {
		if u.Resource == resource {
			return true
		}
	}
	for _, b := range c.Buildings {
		if b.Resource == resource {
			return true
		}
	}
	return false
}

// SpaceshipParts lists the building ids that count as late-game ship parts,
// sorted for stable iteration.
func (c *Catalogs) SpaceshipParts() []string {
	var out []string
	for id, b := range c.Buildings {
		if b.SpaceshipPart {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
