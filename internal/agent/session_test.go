package agent

import (
	"encoding/json"
	"fmt"
	"testing"

	"storesim.ai/internal/protocol"
	"storesim.ai/internal/sim/content"
	"storesim.ai/internal/sim/econ"
)

func testSession() *Session {
	return NewSession(content.Default(), 11, 20000)
}

func handle(t *testing.T, s *Session, frame string) protocol.Response {
	t.Helper()
	raw := s.Handle([]byte(frame))
	if err := protocol.ValidateResponse(raw); err != nil {
		t.Fatalf("response frame violates schema: %v\n%s", err, raw)
	}
	var resp protocol.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return resp
}

func mustOK(t *testing.T, s *Session, frame string) protocol.Response {
	t.Helper()
	resp := handle(t, s, frame)
	if !resp.Success {
		t.Fatalf("frame %s rejected: %+v", frame, resp.Error)
	}
	return resp
}

func actionFrame(id, kind, params string) string {
	if params == "" {
		return fmt.Sprintf(`{"id":%q,"type":"action","action":{"kind":%q}}`, id, kind)
	}
	return fmt.Sprintf(`{"id":%q,"type":"action","action":{"kind":%q,"params":%s}}`, id, kind, params)
}

func setupFrames() []string {
	return []string{
		actionFrame("s1", "SELECT_BRAND", `{"brand_id":"noodle_nest"}`),
		actionFrame("s2", "SELECT_LOCATION", `{"location_id":"old_town"}`),
		actionFrame("s3", "SET_ADDRESS", `{"address":"8 Elm Parade"}`),
		actionFrame("s4", "ADD_STAFF", `{"archetype_id":"line_cook"}`),
		actionFrame("s5", "ADD_STAFF", `{"archetype_id":"server"}`),
		actionFrame("s6", "OPEN_STORE", ""),
	}
}

func TestSessionVersionMeta(t *testing.T) {
	resp := mustOK(t, testSession(), `{"id":"v","type":"meta","meta":{"name":"version"}}`)
	data, ok := resp.Data.(map[string]any)
	if !ok || data["protocol_version"] != protocol.Version {
		t.Fatalf("version payload = %#v", resp.Data)
	}
}

func TestSessionSetupAndStats(t *testing.T) {
	s := testSession()
	for _, frame := range setupFrames() {
		mustOK(t, s, frame)
	}
	resp := mustOK(t, s, `{"id":"q1","type":"query","query":{"name":"stats"}}`)
	data, ok := resp.Data.(map[string]any)
	if !ok {
		// GetStats returns a struct; through JSON it arrives as an object.
		t.Fatalf("stats payload = %#v", resp.Data)
	}
	if data["phase"] != string(econ.PhaseOperating) {
		t.Fatalf("phase = %v after open", data["phase"])
	}
	if data["staff_count"] != float64(2) {
		t.Fatalf("staff_count = %v", data["staff_count"])
	}
}

func TestSessionDispatchErrorMapping(t *testing.T) {
	s := testSession()
	for _, frame := range setupFrames() {
		mustOK(t, s, frame)
	}
	mustOK(t, s, actionFrame("j1", "JOIN_PLATFORM", `{"platform_id":"fleetbite"}`))
	resp := handle(t, s, actionFrame("j2", "JOIN_PLATFORM", `{"platform_id":"fleetbite"}`))
	if resp.Success {
		t.Fatal("second join accepted")
	}
	if resp.Error == nil || resp.Error.Code != protocol.ErrDuplicate {
		t.Fatalf("error = %+v, want code %s", resp.Error, protocol.ErrDuplicate)
	}
	if resp.ID != "j2" {
		t.Fatalf("error response id = %q", resp.ID)
	}
}

func TestSessionRejectsBadFrames(t *testing.T) {
	s := testSession()
	for name, frame := range map[string]string{
		"malformed":    `{"id":"x","type":`,
		"schema":       `{"id":"x","type":"query"}`,
		"unknown_kind": actionFrame("x", "PLACE_BLOCK", ""),
	} {
		resp := handle(t, s, frame)
		if resp.Success {
			t.Errorf("%s: frame accepted", name)
			continue
		}
		want := protocol.ErrProtoBadRequest
		if name == "unknown_kind" {
			want = protocol.ErrBadRequest
		}
		if resp.Error.Code != want {
			t.Errorf("%s: code = %s, want %s", name, resp.Error.Code, want)
		}
	}
}

func TestSessionAdvanceAndReset(t *testing.T) {
	s := testSession()
	for _, frame := range setupFrames() {
		mustOK(t, s, frame)
	}
	resp := mustOK(t, s, actionFrame("w1", "ADVANCE_WEEK", ""))
	data := resp.Data.(map[string]any)
	if data["week"] != float64(1) {
		t.Fatalf("week after advance = %v", data["week"])
	}

	resp = mustOK(t, s, `{"id":"r","type":"meta","meta":{"name":"reset"}}`)
	data = resp.Data.(map[string]any)
	if data["week"] != float64(0) || data["phase"] != string(econ.PhaseSetup) {
		t.Fatalf("reset payload = %#v", data)
	}

	// Same seed, same frames: the rebuilt run matches the first one.
	for _, frame := range setupFrames() {
		mustOK(t, s, frame)
	}
	again := mustOK(t, s, actionFrame("w1", "ADVANCE_WEEK", ""))
	if again.Data.(map[string]any)["week"] != float64(1) {
		t.Fatalf("advance after reset = %#v", again.Data)
	}
	cash1 := statCash(t, s)
	fresh := testSession()
	for _, frame := range setupFrames() {
		mustOK(t, fresh, frame)
	}
	mustOK(t, fresh, actionFrame("w1", "ADVANCE_WEEK", ""))
	if got := statCash(t, fresh); got != cash1 {
		t.Fatalf("reset session diverged: cash %v vs %v", cash1, got)
	}
}

func TestSessionUnknownQueryName(t *testing.T) {
	// The schema enum already blocks unknown names at validation time.
	resp := handle(t, testSession(), `{"id":"q","type":"query","query":{"name":"world_state"}}`)
	if resp.Success || resp.Error.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("unknown query response = %+v", resp)
	}
}

func statCash(t *testing.T, s *Session) float64 {
	t.Helper()
	resp := mustOK(t, s, `{"id":"c","type":"query","query":{"name":"stats"}}`)
	cash, ok := resp.Data.(map[string]any)["cash"].(float64)
	if !ok {
		t.Fatalf("stats payload missing cash: %#v", resp.Data)
	}
	return cash
}
