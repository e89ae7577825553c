package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Action layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrDuplicate     = "E_DUPLICATE"
	ErrNoFunds       = "E_NO_FUNDS"
	ErrWrongPhase    = "E_WRONG_PHASE"

	// Query layer.
	ErrUnknownQuery = "E_UNKNOWN_QUERY"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrInvalidTarget:   {},
	ErrDuplicate:       {},
	ErrNoFunds:         {},
	ErrWrongPhase:      {},
	ErrUnknownQuery:    {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
