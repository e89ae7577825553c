package protocol

import (
	"bytes"
	"embed"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var (
	requestSchema  = mustCompile("schemas/request.schema.json")
	responseSchema = mustCompile("schemas/response.schema.json")
)

func mustCompile(name string) *jsonschema.Schema {
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, bytes.NewReader(raw)); err != nil {
		panic(err)
	}
	return c.MustCompile(name)
}

// ValidateRequest checks a raw frame against the request schema before any
// typed decoding happens.
func ValidateRequest(raw []byte) error {
	return validate(requestSchema, raw)
}

// ValidateResponse checks an outgoing frame against the response schema.
// The server trusts its own marshalling; this exists for driver authors
// and conformance tests.
func ValidateResponse(raw []byte) error {
	return validate(responseSchema, raw)
}

func validate(s *jsonschema.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return s.Validate(v)
}
