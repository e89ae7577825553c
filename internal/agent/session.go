// Package agent hosts one store per connected driver: it validates protocol
// frames, routes them into the dispatcher and query layer, and answers with
// response frames.
package agent

import (
	"encoding/json"
	"math/rand"

	"storesim.ai/internal/protocol"
	"storesim.ai/internal/sim/actions"
	"storesim.ai/internal/sim/content"
	"storesim.ai/internal/sim/econ"
	"storesim.ai/internal/sim/query"
)

type Session struct {
	disp      *actions.Dispatcher
	state     *econ.StoreState
	rng       *rand.Rand
	seed      int64
	startCash float64
}

func NewSession(cat *content.Catalog, seed int64, startCash float64) *Session {
	s := &Session{
		disp:      actions.NewDispatcher(cat),
		seed:      seed,
		startCash: startCash,
	}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.state = &econ.StoreState{
		Phase:       econ.PhaseSetup,
		Cash:        s.startCash,
		InitialCash: s.startCash,
		Exposure:    10,
		Reputation:  50,
		Cleanliness: 100,
		Season:      econ.SeasonForWeek(0),
	}
	s.rng = rand.New(rand.NewSource(s.seed))
}

// Handle answers one raw request frame.
func (s *Session) Handle(raw []byte) []byte {
	if err := protocol.ValidateRequest(raw); err != nil {
		return marshal(protocol.Fail("", protocol.ErrProtoBadRequest, err.Error()))
	}
	req, err := protocol.DecodeRequest(raw)
	if err != nil {
		return marshal(protocol.Fail("", protocol.ErrProtoBadRequest, err.Error()))
	}

	switch req.Type {
	case protocol.TypeAction:
		return marshal(s.handleAction(req))
	case protocol.TypeQuery:
		return marshal(s.handleQuery(req))
	case protocol.TypeMeta:
		return marshal(s.handleMeta(req))
	default:
		return marshal(protocol.Fail(req.ID, protocol.ErrProtoBadRequest, "unknown request type"))
	}
}

func (s *Session) handleAction(req protocol.Request) protocol.Response {
	a, err := protocol.DecodeAction(req.Action)
	if err != nil {
		return protocol.Fail(req.ID, protocol.ErrBadRequest, err.Error())
	}
	res := s.disp.Apply(s.state, a, s.rng)
	if res.Err != nil {
		return protocol.Fail(req.ID, protocol.CodeForDispatchError(res.Err), res.Err.Error())
	}
	return protocol.OK(req.ID, map[string]any{
		"changed": res.Changed,
		"week":    s.state.Week,
		"phase":   s.state.Phase,
	})
}

func (s *Session) handleQuery(req protocol.Request) protocol.Response {
	switch req.Query.Name {
	case "stats":
		return protocol.OK(req.ID, query.GetStats(s.state))
	case "supply_demand":
		return protocol.OK(req.ID, query.SupplyDemand(s.state))
	case "can_open":
		ok, missing := query.CanOpen(s.state)
		return protocol.OK(req.ID, map[string]any{"can_open": ok, "missing": missing})
	case "game_result":
		return protocol.OK(req.ID, query.GetGameResult(s.state))
	case "available_actions":
		return protocol.OK(req.ID, query.AvailableActions(s.state))
	default:
		return protocol.Fail(req.ID, protocol.ErrUnknownQuery, "unknown query "+req.Query.Name)
	}
}

func (s *Session) handleMeta(req protocol.Request) protocol.Response {
	switch req.Meta.Name {
	case "version":
		return protocol.OK(req.ID, map[string]string{"protocol_version": protocol.Version})
	case "reset":
		s.reset()
		return protocol.OK(req.ID, map[string]any{"week": s.state.Week, "phase": s.state.Phase})
	default:
		return protocol.Fail(req.ID, protocol.ErrBadRequest, "unknown meta "+req.Meta.Name)
	}
}

func marshal(resp protocol.Response) []byte {
	b, err := json.Marshal(resp)
	if err != nil {
		// Response bodies are always marshalable; this is a programmer error.
		fallback, _ := json.Marshal(protocol.Fail(resp.ID, protocol.ErrInternal, "marshal failure"))
		return fallback
	}
	return b
}
