package codec

import (
	"encoding/json"
	"testing"
)

func TestDecodeTxEnvelope_OK(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"type":  "hand/draw",
		"value": map[string]any{"holder": "alice"},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	env, err := DecodeTxEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeTxEnvelope: %v", err)
	}
	if env.Type != "hand/draw" {
		t.Fatalf("unexpected type: %q", env.Type)
	}

	var v map[string]any
	if err := json.Unmarshal(env.Value, &v); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if v["holder"] != "alice" {
		t.Fatalf("unexpected value.holder: %#v", v["holder"])
	}
}

func TestDecodeTxEnvelope_MissingType(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"value": map[string]any{"x": 1},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := DecodeTxEnvelope(b); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDecodeTxEnvelope_BadJSON(t *testing.T) {
	if _, err := DecodeTxEnvelope([]byte("{not json")); err == nil {
		t.Fatalf("expected error")
	}
}
