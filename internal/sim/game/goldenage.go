package game

import "fmt"

// resolveGoldenAge ticks an active golden age down, or accumulates half of
// total city culture toward the next one. Each completed golden age raises
// the next threshold by a fixed step, and points do not accrue while one is
// active.
func (g *Game) resolveGoldenAge(civ *Civilization, events *[]string) {
	if civ.GoldenAgeTurns > 0 {
		civ.GoldenAgeTurns--
		if civ.GoldenAgeTurns == 0 {
			g.addNotification(civ.ID, "the golden age has ended")
			*events = append(*events, fmt.Sprintf("%s: golden age ended", civ.Name))
		}
		return
	}
	culture := 0
	for _, cityID := range civ.CityIDs {
		culture += g.cities[cityID].Yields.Culture
	}
	civ.GoldenAgePoints += culture / 2
	threshold := g.tun.GoldenAgeBaseThreshold + g.tun.GoldenAgeThresholdStep*civ.GoldenAgesCompleted
	if civ.GoldenAgePoints < threshold {
		return
	}
	civ.GoldenAgePoints -= threshold
	civ.GoldenAgeTurns = g.tun.GoldenAgeTurns
	civ.GoldenAgesCompleted++
	g.addNotification(civ.ID, fmt.Sprintf("a golden age begins (%d turns)", civ.GoldenAgeTurns))
	*events = append(*events, fmt.Sprintf("%s entered a golden age", civ.Name))
}
