package protocol

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SubmitValidator checks raw SUBMIT frames against the wire schema before
// they are decoded into engine actions, so malformed batches are rejected at
// the transport edge with E_PROTO_BAD_REQUEST.
type SubmitValidator struct {
	schema *jsonschema.Schema
}

// LoadSubmitValidator compiles submit.schema.json from the schema directory.
func LoadSubmitValidator(schemaDir string) (*SubmitValidator, error) {
	s, err := jsonschema.Compile(filepath.Join(schemaDir, "submit.schema.json"))
	if err != nil {
		return nil, fmt.Errorf("compile submit schema: %w", err)
	}
	return &SubmitValidator{schema: s}, nil
}

// Validate returns an error when the frame is not a well-formed SUBMIT.
func (v *SubmitValidator) Validate(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return v.schema.Validate(doc)
}
