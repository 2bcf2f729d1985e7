// Package replay re-feeds a persisted audit log through a handler
// registry keyed by action name, reconstructing state from the same seed
// (§4.G "Replay", §8 invariant 6). Grounded on the teacher's general
// re-derive-from-seed discipline (internal/dice's Fork, internal/worldgen's
// pure Generate) — no pack repo implements an audit replay engine to
// ground the registry/diff shape itself on.
package replay

import (
	"fmt"
	"reflect"

	"github.com/tobyjaguar/rpgkernel/internal/audit"
)

// Handler re-executes one audit entry's arguments and returns the result
// a correct replay should reproduce.
type Handler func(arguments any) (any, error)

// Registry maps an audit entry's Action to the Handler that replays it.
type Registry map[string]Handler

// Divergence records one audit entry that replay could not reproduce
// byte-for-byte, or explains why it was skipped (§4.G).
type Divergence struct {
	Action string
	Reason string
}

// Run replays entries against registry in recorded order. A missing
// handler, a handler error where the original succeeded, a success where
// the original failed, or a differing result is recorded as a Divergence;
// a handler error where the original also failed counts as reproduced.
// Replay always continues with the next entry rather than aborting (§4.G).
func Run(entries []audit.Entry, registry Registry) []Divergence {
	var diffs []Divergence
	for _, e := range entries {
		handler, ok := registry[e.Action]
		if !ok {
			diffs = append(diffs, Divergence{Action: e.Action, Reason: "no handler registered, skipped"})
			continue
		}

		result, err := handler(e.Arguments)
		if err != nil {
			if e.ErrorKind == "" {
				diffs = append(diffs, Divergence{Action: e.Action, Reason: fmt.Sprintf("replay failed where original succeeded: %v", err)})
			}
			continue
		}
		if e.ErrorKind != "" {
			diffs = append(diffs, Divergence{Action: e.Action, Reason: "replay succeeded where original failed"})
			continue
		}
		if !reflect.DeepEqual(result, e.Result) {
			diffs = append(diffs, Divergence{Action: e.Action, Reason: "result diverged from recorded entry"})
		}
	}
	return diffs
}
