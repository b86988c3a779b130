package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Session/game routing.
	ErrGameFull     = "E_GAME_FULL"
	ErrGameFinished = "E_GAME_FINISHED"
	ErrUnknownCiv   = "E_UNKNOWN_CIV"

	// Rule/action layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrInvalidAction = "E_INVALID_ACTION"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrGameFull:        {},
	ErrGameFinished:    {},
	ErrUnknownCiv:      {},
	ErrBadRequest:      {},
	ErrInvalidAction:   {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
