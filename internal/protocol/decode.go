package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"storesim.ai/internal/sim/actions"
)

// DecodeAction turns an ActionRequest into a typed action. The kind set is
// closed; an unknown kind is a protocol error, not a dispatch error.
func DecodeAction(req *ActionRequest) (actions.Action, error) {
	params := req.Params
	if params == nil {
		params = json.RawMessage("{}")
	}
	unmarshal := func(v any) error {
		return json.Unmarshal(params, v)
	}

	switch actions.Kind(req.Kind) {
	case actions.KindSelectBrand:
		var a actions.SelectBrand
		return a, unmarshal(&a)
	case actions.KindSelectLocation:
		var a actions.SelectLocation
		return a, unmarshal(&a)
	case actions.KindSetAddress:
		var a actions.SetAddress
		return a, unmarshal(&a)
	case actions.KindSetDecoration:
		var a actions.SetDecoration
		return a, unmarshal(&a)
	case actions.KindOpenStore:
		return actions.OpenStore{}, nil
	case actions.KindToggleProduct:
		var a actions.ToggleProduct
		return a, unmarshal(&a)
	case actions.KindAddStaff:
		var a actions.AddStaff
		return a, unmarshal(&a)
	case actions.KindFireStaff:
		var a actions.FireStaff
		return a, unmarshal(&a)
	case actions.KindAssignStaff:
		var a actions.AssignStaff
		return a, unmarshal(&a)
	case actions.KindSetPrice:
		var a actions.SetPrice
		return a, unmarshal(&a)
	case actions.KindSetInventory:
		var a actions.SetInventory
		return a, unmarshal(&a)
	case actions.KindSetRestock:
		var a actions.SetRestock
		return a, unmarshal(&a)
	case actions.KindStartMarketing:
		var a actions.StartMarketing
		return a, unmarshal(&a)
	case actions.KindStopMarketing:
		var a actions.StopMarketing
		return a, unmarshal(&a)
	case actions.KindJoinPlatform:
		var a actions.JoinPlatform
		return a, unmarshal(&a)
	case actions.KindLeavePlatform:
		var a actions.LeavePlatform
		return a, unmarshal(&a)
	case actions.KindTunePlatform:
		var a actions.TunePlatform
		return a, unmarshal(&a)
	case actions.KindAdvanceWeek:
		return actions.AdvanceWeek{}, nil
	default:
		return nil, fmt.Errorf("unknown action kind %q", req.Kind)
	}
}

// CodeForDispatchError maps dispatcher errors onto protocol error codes.
func CodeForDispatchError(err error) string {
	switch {
	case errors.Is(err, actions.ErrInvalidTarget):
		return ErrInvalidTarget
	case errors.Is(err, actions.ErrDuplicate):
		return ErrDuplicate
	case errors.Is(err, actions.ErrInsufficientFunds):
		return ErrNoFunds
	case errors.Is(err, actions.ErrWrongPhase):
		return ErrWrongPhase
	case errors.Is(err, actions.ErrBadValue):
		return ErrBadRequest
	default:
		return ErrInternal
	}
}
