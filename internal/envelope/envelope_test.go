package envelope_test

import (
	"strings"
	"testing"

	"github.com/tobyjaguar/rpgkernel/internal/envelope"
)

func TestWithStateContainsDelimitedBlock(t *testing.T) {
	text, err := envelope.WithState("Generated a 10x10 world.", map[string]int{"tileCount": 100})
	if err != nil {
		t.Fatalf("WithState: %v", err)
	}
	if !strings.Contains(text, "Generated a 10x10 world.") {
		t.Fatal("expected prose prefix to be preserved")
	}
	if !strings.Contains(text, "<!-- STATE_JSON") || !strings.Contains(text, "STATE_JSON -->") {
		t.Fatal("expected delimited STATE_JSON block")
	}
	if !strings.Contains(text, `"tileCount": 100`) {
		t.Fatalf("expected state JSON to be embedded, got %q", text)
	}
}

func TestErrorEnvelopeCarriesKind(t *testing.T) {
	text, err := envelope.ErrorEnvelope("Validation", "unknown command")
	if err != nil {
		t.Fatalf("ErrorEnvelope: %v", err)
	}
	if !strings.Contains(text, "Validation: unknown command") {
		t.Fatal("expected prose to lead with kind and message")
	}
	if !strings.Contains(text, `"errorKind": "Validation"`) {
		t.Fatalf("expected errorKind in state block, got %q", text)
	}
}
