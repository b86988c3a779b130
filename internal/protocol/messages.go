package protocol

import "gridciv.ai/internal/sim/game"

// HELLO (client -> server)
type HelloMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	CivName         string     `json:"civ_name"`
	LeaderName      string     `json:"leader_name,omitempty"`
	Auth            *HelloAuth `json:"auth,omitempty"`
}

type HelloAuth struct {
	Token string `json:"token,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	CivID           string         `json:"civ_id"`
	GameParams      GameParams     `json:"game_params"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

type GameParams struct {
	Width    int   `json:"width"`
	Height   int   `json:"height"`
	MaxTurns int   `json:"max_turns"`
	Seed     int64 `json:"seed"`
}

// CatalogDigests lets the client verify it holds the same content tables the
// server is simulating with.
type CatalogDigests struct {
	UnitsDigest        string `json:"units_digest"`
	BuildingsDigest    string `json:"buildings_digest"`
	TechsDigest        string `json:"techs_digest"`
	GovernmentsDigest  string `json:"governments_digest"`
	ImprovementsDigest string `json:"improvements_digest"`
	GreatPeopleDigest  string `json:"great_people_digest"`
}

// SUBMIT (client -> server): an ordered action batch for the current turn.
type SubmitMsg struct {
	Type            string        `json:"type"`
	ProtocolVersion string        `json:"protocol_version"`
	ReqID           string        `json:"req_id,omitempty"`
	Actions         []game.Action `json:"actions"`
}

// SUBMIT_ACK (server -> client): per-action outcomes, batch order preserved.
type SubmitAckMsg struct {
	Type            string              `json:"type"`
	ProtocolVersion string              `json:"protocol_version"`
	ReqID           string              `json:"req_id,omitempty"`
	Turn            int                 `json:"turn"`
	Results         []game.ActionResult `json:"results"`
}

// END_TURN (client -> server): the civ is done; when every connected civ has
// ended its turn, the server resolves.
type EndTurnMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// TURN_RESULT (server -> client) after resolution.
type TurnResultMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	Turn            int      `json:"turn"`
	Events          []string `json:"events,omitempty"`
	Digest          string   `json:"digest"`
}

// STATE (server -> client): the fog-filtered view for the receiving civ.
type StateMsg struct {
	Type            string           `json:"type"`
	ProtocolVersion string           `json:"protocol_version"`
	View            *game.PlayerView `json:"view"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
}
