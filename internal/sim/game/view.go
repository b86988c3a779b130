package game

// PlayerView is the fog-filtered state one civilization is allowed to see:
// its own civ record in full, plus tiles it has explored and the units and
// cities standing on them right now.
type PlayerView struct {
	Turn        int          `json:"turn"`
	MaxTurns    int          `json:"max_turns"`
	Phase       string       `json:"phase"`
	WinnerID    string       `json:"winner_id,omitempty"`
	VictoryType string       `json:"victory_type,omitempty"`
	You         *Civilization `json:"you"`
	Tiles       []TileView   `json:"tiles"`
	Units       []UnitView   `json:"units"`
	Cities      []CityView   `json:"cities"`
	Rivals      []RivalView  `json:"rivals"`
}

type TileView struct {
	Pos         Vec2i  `json:"pos"`
	Terrain     string `json:"terrain"`
	OwnerID     string `json:"owner_id,omitempty"`
	Improvement string `json:"improvement,omitempty"`
	Resource    string `json:"resource,omitempty"`
	WonderID    string `json:"wonder_id,omitempty"`
}

type UnitView struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	OwnerID     string `json:"owner_id"`
	Pos         Vec2i  `json:"pos"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"max_hp"`
	Fortified   bool   `json:"fortified,omitempty"`
	GreatPerson string `json:"great_person,omitempty"`
}

type CityView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OwnerID    string `json:"owner_id"`
	Pos        Vec2i  `json:"pos"`
	Population int    `json:"population"`
}

// RivalView is the public scoreboard row for another civilization.
type RivalView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Alive bool   `json:"alive"`
}

// ViewFor builds the fog-filtered view for civID; nil for unknown civs.
func (g *Game) ViewFor(civID string) *PlayerView {
	civ := g.civs[civID]
	if civ == nil {
		return nil
	}
	v := &PlayerView{
		Turn:        g.turn,
		MaxTurns:    g.cfg.MaxTurns,
		Phase:       g.phase,
		WinnerID:    g.winnerID,
		VictoryType: g.victoryType,
		You:         copyCiv(civ),
	}
	for y := 0; y < g.cfg.Height; y++ {
		for x := 0; x < g.cfg.Width; x++ {
			if !civ.Explored[tileKey(x, y)] {
				continue
			}
			p := Vec2i{X: x, Y: y}
			t := g.TileAt(p)
			v.Tiles = append(v.Tiles, TileView{
				Pos:         p,
				Terrain:     t.Terrain,
				OwnerID:     t.OwnerID,
				Improvement: t.Improvement,
				Resource:    t.Resource,
				WonderID:    t.WonderID,
			})
			if u := g.units[t.UnitID]; u != nil {
				v.Units = append(v.Units, UnitView{
					ID: u.ID, Type: u.Type, OwnerID: u.OwnerID, Pos: u.Pos,
					HP: u.HP, MaxHP: u.MaxHP, Fortified: u.Fortified,
					GreatPerson: u.GreatPerson,
				})
			}
			if c := g.cities[t.CityID]; c != nil {
				v.Cities = append(v.Cities, CityView{
					ID: c.ID, Name: c.Name, OwnerID: c.OwnerID, Pos: c.Pos,
					Population: c.Population,
				})
			}
		}
	}
	for _, id := range g.sortedCivIDs() {
		if id == civID {
			continue
		}
		other := g.civs[id]
		v.Rivals = append(v.Rivals, RivalView{ID: id, Name: other.Name, Score: other.Score, Alive: other.Alive})
	}
	return v
}
