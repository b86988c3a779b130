package protocol_test

import (
	"testing"

	"gridciv.ai/internal/protocol"
)

func TestSubmitValidator_AcceptsWellFormedBatch(t *testing.T) {
	v, err := protocol.LoadSubmitValidator("../../schemas")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	good := []byte(`{
	  "type":"SUBMIT",
	  "protocol_version":"1.0",
	  "actions":[
	    {"kind":"MOVE","unit_id":"U1","to":{"x":3,"y":4}},
	    {"kind":"FORTIFY","unit_id":"U2"}
	  ]
	}`)
	if err := v.Validate(good); err != nil {
		t.Fatalf("well-formed batch rejected: %v", err)
	}
}

func TestSubmitValidator_RejectsMalformedFrames(t *testing.T) {
	v, err := protocol.LoadSubmitValidator("../../schemas")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	bad := map[string][]byte{
		"not json":       []byte(`{`),
		"wrong type":     []byte(`{"type":"HELLO","protocol_version":"1.0","actions":[]}`),
		"unknown kind":   []byte(`{"type":"SUBMIT","protocol_version":"1.0","actions":[{"kind":"TELEPORT"}]}`),
		"missing kind":   []byte(`{"type":"SUBMIT","protocol_version":"1.0","actions":[{"unit_id":"U1"}]}`),
		"stray field":    []byte(`{"type":"SUBMIT","protocol_version":"1.0","actions":[{"kind":"MOVE","warp":true}]}`),
		"non-integer to": []byte(`{"type":"SUBMIT","protocol_version":"1.0","actions":[{"kind":"MOVE","to":{"x":1.5,"y":2}}]}`),
	}
	for name, frame := range bad {
		if err := v.Validate(frame); err == nil {
			t.Fatalf("%s: validated", name)
		}
	}
}
