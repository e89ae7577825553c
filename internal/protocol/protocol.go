// Package protocol defines the line-oriented request/response frames used
// by external agent drivers. Requests are newline-delimited JSON objects
// routed by type; the dispatch and query layers are the implementation
// behind them.
package protocol

import "encoding/json"

const Version = "1.0"

// Request types.
const (
	TypeAction = "action"
	TypeQuery  = "query"
	TypeMeta   = "meta"
)

type Request struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	Action *ActionRequest `json:"action,omitempty"`
	Query  *QueryRequest  `json:"query,omitempty"`
	Meta   *MetaRequest   `json:"meta,omitempty"`
}

type ActionRequest struct {
	Kind   string          `json:"kind"`
	Params json.RawMessage `json:"params,omitempty"`
}

type QueryRequest struct {
	Name string `json:"name"` // stats | supply_demand | can_open | game_result | available_actions
}

type MetaRequest struct {
	Name string `json:"name"` // version | reset
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Response struct {
	ID      string     `json:"id"`
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

func OK(id string, data any) Response {
	return Response{ID: id, Success: true, Data: data}
}

func Fail(id, code, message string) Response {
	if !IsKnownCode(code) || code == "" {
		code = ErrInternal
	}
	return Response{ID: id, Success: false, Error: &ErrorBody{Code: code, Message: message}}
}

// DecodeRequest parses one frame.
func DecodeRequest(b []byte) (Request, error) {
	var r Request
	err := json.Unmarshal(b, &r)
	return r, err
}
