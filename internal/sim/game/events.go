package game

import "time"

// Event records are append-only and consumed by presentation; dropping them
// never affects simulation correctness, and none of them feed the state
// digest.

type TurnEvent struct {
	Turn  int    `json:"turn"`
	Time  string `json:"time"`
	CivID string `json:"civ_id,omitempty"`
	Text  string `json:"text"`
	Loc   *Vec2i `json:"loc,omitempty"`
}

type Notification struct {
	ID    string `json:"id"`
	Turn  int    `json:"turn"`
	CivID string `json:"civ_id"`
	Text  string `json:"text"`
}

type CombatEffect struct {
	Turn             int    `json:"turn"`
	Time             string `json:"time"`
	AttackerID       string `json:"attacker_id"`
	DefenderID       string `json:"defender_id"`
	Pos              Vec2i  `json:"pos"`
	DamageToAttacker int    `json:"damage_to_attacker"`
	DamageToDefender int    `json:"damage_to_defender"`
}

// CameraEvent is a pan hint for the presentation layer.
type CameraEvent struct {
	Turn  int    `json:"turn"`
	CivID string `json:"civ_id"`
	Pos   Vec2i  `json:"pos"`
}

func (g *Game) addEvent(civID, text string, loc *Vec2i) {
	g.events = append(g.events, TurnEvent{
		Turn:  g.turn,
		Time:  time.Now().UTC().Format(time.RFC3339),
		CivID: civID,
		Text:  text,
		Loc:   loc,
	})
}

func (g *Game) addNotification(civID, text string) {
	g.ctr.Notif++
	g.notifications = append(g.notifications, Notification{
		ID:    "N" + uitoa(g.ctr.Notif),
		Turn:  g.turn,
		CivID: civID,
		Text:  text,
	})
}

func (g *Game) addCombatEffect(attackerID, defenderID string, pos Vec2i, dmgToA, dmgToD int) {
	g.combatFX = append(g.combatFX, CombatEffect{
		Turn:             g.turn,
		Time:             time.Now().UTC().Format(time.RFC3339),
		AttackerID:       attackerID,
		DefenderID:       defenderID,
		Pos:              pos,
		DamageToAttacker: dmgToA,
		DamageToDefender: dmgToD,
	})
}

func (g *Game) addCameraHint(civID string, pos Vec2i) {
	g.cameraHints = append(g.cameraHints, CameraEvent{Turn: g.turn, CivID: civID, Pos: pos})
}

// Events returns the accumulated turn events (read-only downstream).
func (g *Game) Events() []TurnEvent { return g.events }

// Notifications returns the accumulated per-civ notifications.
func (g *Game) Notifications() []Notification { return g.notifications }

// CombatEffects returns the accumulated combat presentation records.
func (g *Game) CombatEffects() []CombatEffect { return g.combatFX }

// CameraHints returns the accumulated camera pan hints.
func (g *Game) CameraHints() []CameraEvent { return g.cameraHints }

// TurnLogEntry is one row of the durable turn log.
type TurnLogEntry struct {
	Turn    int              `json:"turn"`
	Actions []RecordedAction `json:"actions,omitempty"`
	Events  []string         `json:"events,omitempty"`
	Digest  string           `json:"digest"`
}
