package game

import "fmt"

// resolveGreatPeople feeds each point track from the matching yield category
// (generals are fed by combat damage instead) and spawns a great person near
// the capital when a track crosses its threshold. Each spawn raises that
// track's threshold multiplicatively.
func (g *Game) resolveGreatPeople(civ *Civilization, events *[]string) {
	for _, gpType := range sortedGPTypes(civ.GreatPeople) {
		track := civ.GreatPeople[gpType]
		track.Points += g.categoryYield(civ, gpType)
		if track.Points < track.Threshold {
			continue
		}
		if !g.spawnGreatPerson(civ, gpType, events) {
			continue // no city or no room; points wait
		}
		track.Points -= track.Threshold
		track.Threshold = int(float64(track.Threshold) * g.tun.GreatPersonThresholdMult)
	}
}

func (g *Game) spawnGreatPerson(civ *Civilization, gpType string, events *[]string) bool {
	if len(civ.CityIDs) == 0 {
		return false
	}
	gpDef, ok := g.rules.GreatPersonByType(gpType)
	if !ok {
		return false
	}
	unitDef, ok := g.rules.Units["GREAT_PERSON"]
	if !ok {
		return false
	}
	capital := g.cities[civ.CityIDs[0]]
	pos, found := g.nearestFreeTile(capital.Pos)
	if !found {
		return false
	}
	u := g.spawnUnit(civ.ID, unitDef, pos, gpDef.Ability)
	g.addNotification(civ.ID, fmt.Sprintf("%s has appeared near %s", gpDef.Name, capital.Name))
	g.addCameraHint(civ.ID, pos)
	*events = append(*events, fmt.Sprintf("%s: %s born (%s)", civ.Name, gpDef.Name, u.ID))
	return true
}
