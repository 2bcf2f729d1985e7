package audit_test

import (
	"errors"
	"testing"

	"github.com/tobyjaguar/rpgkernel/internal/audit"
	"github.com/tobyjaguar/rpgkernel/internal/kernelerr"
)

type fakeClock struct{ t int64 }

func (c *fakeClock) Now() int64 {
	c.t++
	return c.t
}

func TestWrapRecordsSuccessEntry(t *testing.T) {
	log := audit.NewLog(&fakeClock{}, nil)
	result, err := log.Wrap("world.generate", map[string]any{"seed": "s1"}, func() (any, error) {
		return map[string]any{"worldId": "w1"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(map[string]any)["worldId"] != "w1" {
		t.Fatalf("unexpected result: %v", result)
	}

	entries := log.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Action != "world.generate" || entries[0].ErrorKind != "" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestWrapRecordsErrorKind(t *testing.T) {
	log := audit.NewLog(&fakeClock{}, nil)
	_, err := log.Wrap("combat.executeAction", nil, func() (any, error) {
		return nil, kernelerr.New(kernelerr.ActionEconomy, "action already used")
	})
	if err == nil {
		t.Fatal("expected error")
	}

	entries := log.Entries()
	if entries[0].ErrorKind != string(kernelerr.ActionEconomy) {
		t.Fatalf("expected ActionEconomy kind, got %q", entries[0].ErrorKind)
	}
}

func TestWrapDispatchOrderIsPreserved(t *testing.T) {
	log := audit.NewLog(&fakeClock{}, nil)
	for i := 0; i < 3; i++ {
		action := []string{"a", "b", "c"}[i]
		log.Wrap(action, nil, func() (any, error) { return nil, nil })
	}
	entries := log.Entries()
	for i, want := range []string{"a", "b", "c"} {
		if entries[i].Action != want {
			t.Fatalf("entry %d: expected action %q, got %q", i, want, entries[i].Action)
		}
	}
}

func TestWrapDoesNotPanicOnUntypedError(t *testing.T) {
	log := audit.NewLog(&fakeClock{}, nil)
	_, err := log.Wrap("x", nil, func() (any, error) { return nil, errors.New("boom") })
	if err == nil {
		t.Fatal("expected error")
	}
	if log.Entries()[0].ErrorKind != "Unknown" {
		t.Fatalf("expected Unknown kind for an untyped error, got %q", log.Entries()[0].ErrorKind)
	}
}
