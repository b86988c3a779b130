package game

// Action is one submitted order. Kind selects the variant; only the fields
// that kind uses are read, the rest stay zero.
type Action struct {
	Kind string `json:"kind"`

	UnitID       string `json:"unit_id,omitempty"`
	CityID       string `json:"city_id,omitempty"`
	TargetUnitID string `json:"target_unit_id,omitempty"`
	TargetCityID string `json:"target_city_id,omitempty"`
	To           *Vec2i `json:"to,omitempty"`

	TechID        string `json:"tech_id,omitempty"`
	BuildKind     string `json:"build_kind,omitempty"` // UNIT or BUILDING
	BuildID       string `json:"build_id,omitempty"`
	ImprovementID string `json:"improvement_id,omitempty"`
	GovernmentID  string `json:"government_id,omitempty"`
	Ability       string `json:"ability,omitempty"`
	Name          string `json:"name,omitempty"` // city name for FOUND_CITY
}

// RecordedAction is a turn-log row: who submitted what.
type RecordedAction struct {
	CivID  string `json:"civ_id"`
	Action Action `json:"action"`
}
