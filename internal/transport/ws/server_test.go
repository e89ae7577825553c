package ws

import (
	"encoding/json"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"storesim.ai/internal/agent"
	"storesim.ai/internal/protocol"
	"storesim.ai/internal/sim/content"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat := content.Default()
	srv := NewServer(func() Handler {
		return agent.NewSession(cat, 1, 20000).Handle
	}, log.New(testWriter{t}, "", 0))

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func roundTrip(t *testing.T, conn *websocket.Conn, frame string) protocol.Response {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var resp protocol.Response
	if err := json.Unmarshal(msg, &resp); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	return resp
}

func TestServerRoundTrip(t *testing.T) {
	conn := dial(t, newTestServer(t))
	resp := roundTrip(t, conn, `{"id":"v","type":"meta","meta":{"name":"version"}}`)
	if !resp.Success || resp.ID != "v" {
		t.Fatalf("version response = %+v", resp)
	}
	if pv := resp.Data.(map[string]any)["protocol_version"]; pv != protocol.Version {
		t.Fatalf("protocol_version = %v", pv)
	}
}

func TestServerBadFrame(t *testing.T) {
	conn := dial(t, newTestServer(t))
	resp := roundTrip(t, conn, `not json at all`)
	if resp.Success || resp.Error == nil || resp.Error.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("bad frame response = %+v", resp)
	}
}

func TestServerSessionsAreIsolated(t *testing.T) {
	ts := newTestServer(t)
	a := dial(t, ts)
	b := dial(t, ts)

	brand := `{"id":"s1","type":"action","action":{"kind":"SELECT_BRAND","params":{"brand_id":"noodle_nest"}}}`
	if resp := roundTrip(t, a, brand); !resp.Success {
		t.Fatalf("select brand on a: %+v", resp.Error)
	}
	// The same selection must still be possible on the second connection.
	if resp := roundTrip(t, b, brand); !resp.Success {
		t.Fatalf("connection b saw a's state: %+v", resp.Error)
	}
}
