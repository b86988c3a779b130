package game

import "fmt"

// The closed set of action kinds. Adding a kind requires a validator and an
// executor handler; validateActionDispatchMaps enforces that at startup.
const (
	ActionMove                = "MOVE"
	ActionAttack              = "ATTACK"
	ActionRangedAttack        = "RANGED_ATTACK"
	ActionFoundCity           = "FOUND_CITY"
	ActionBuild               = "BUILD"
	ActionSetResearch         = "SET_RESEARCH"
	ActionBuildImprovement    = "BUILD_IMPROVEMENT"
	ActionFortify             = "FORTIFY"
	ActionUpgradeUnit         = "UPGRADE_UNIT"
	ActionEstablishTradeRoute = "ESTABLISH_TRADE_ROUTE"
	ActionChangeGovernment    = "CHANGE_GOVERNMENT"
	ActionExpendGreatPerson   = "EXPEND_GREAT_PERSON"
)

var supportedActionKinds = []string{
	ActionMove,
	ActionAttack,
	ActionRangedAttack,
	ActionFoundCity,
	ActionBuild,
	ActionSetResearch,
	ActionBuildImprovement,
	ActionFortify,
	ActionUpgradeUnit,
	ActionEstablishTradeRoute,
	ActionChangeGovernment,
	ActionExpendGreatPerson,
}

func validateActionDispatchMaps() error {
	if err := validateDispatchMap("validateDispatch", validateDispatch, supportedActionKinds); err != nil {
		return err
	}
	if err := validateDispatchMap("executeDispatch", executeDispatch, supportedActionKinds); err != nil {
		return err
	}
	return nil
}

func validateDispatchMap[T any](name string, handlers map[string]T, supported []string) error {
	allowed := make(map[string]struct{}, len(supported))
	for _, k := range supported {
		if k == "" {
			return fmt.Errorf("%s: empty supported key", name)
		}
		if _, ok := allowed[k]; ok {
			return fmt.Errorf("%s: duplicate supported key %q", name, k)
		}
		allowed[k] = struct{}{}
	}
	if len(handlers) != len(allowed) {
		return fmt.Errorf("%s size mismatch: got=%d want=%d", name, len(handlers), len(allowed))
	}
	for k := range handlers {
		if _, ok := allowed[k]; !ok {
			return fmt.Errorf("%s has unsupported key %q", name, k)
		}
	}
	for k := range allowed {
		if _, ok := handlers[k]; !ok {
			return fmt.Errorf("%s missing key %q", name, k)
		}
	}
	return nil
}
