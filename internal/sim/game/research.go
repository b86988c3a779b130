package game

import "fmt"

// resolveResearch accumulates city science into the current research order.
// A civilization always generates at least the tuned minimum science, and an
// idle research slot is auto-filled with the cheapest available tech so
// science is never wasted.
func (g *Game) resolveResearch(civ *Civilization, events *[]string) {
	science := 0
	for _, cityID := range civ.CityIDs {
		science += g.cities[cityID].Yields.Science
	}
	if science < g.tun.MinSciencePerTurn {
		science = g.tun.MinSciencePerTurn
	}
	civ.SciencePerTurn = science

	if civ.Research == nil {
		g.autoSelectResearch(civ)
	}
	if civ.Research == nil {
		return // tech tree exhausted
	}
	civ.Research.Progress += science
	if def, ok := g.rules.Techs[civ.Research.TechID]; ok && civ.Research.Progress >= def.Cost {
		g.completeResearch(civ, events)
	}
}

func (g *Game) completeResearch(civ *Civilization, events *[]string) {
	if civ.Research == nil {
		return
	}
	techID := civ.Research.TechID
	civ.Researched[techID] = true
	civ.Research = nil
	name := techID
	if def, ok := g.rules.Techs[techID]; ok {
		name = def.Name
	}
	g.addNotification(civ.ID, fmt.Sprintf("research complete: %s", name))
	*events = append(*events, fmt.Sprintf("%s discovered %s", civ.Name, name))
	g.autoSelectResearch(civ)
}

func (g *Game) autoSelectResearch(civ *Civilization) {
	if t, ok := g.rules.CheapestAvailableTech(civ.Researched); ok {
		civ.Research = &ResearchOrder{TechID: t.ID}
	}
}
