// Package envelope builds the tool-call response text the kernel returns
// from every handler: a human-readable prose line plus a delimited
// machine-readable block (§6 "Tool call envelope"). Grounded on the
// teacher's slog prose style for the human-facing half; the prose line is
// composed by the caller, and this package itself needs only
// encoding/json and fmt.
package envelope

import (
	"encoding/json"
	"fmt"
)

const (
	stateJSONOpen  = "<!-- STATE_JSON"
	stateJSONClose = "STATE_JSON -->"
)

// WithState renders prose followed by a `<!-- STATE_JSON ... STATE_JSON -->`
// block containing state marshaled as indented JSON (§6). Humans read
// prose; machine consumers extract the delimited block.
func WithState(prose string, state any) (string, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal envelope state: %w", err)
	}
	return fmt.Sprintf("%s\n\n%s\n%s\n%s", prose, stateJSONOpen, string(data), stateJSONClose), nil
}

// ErrorEnvelope renders a failed call's text: the human-readable message
// plus a state block carrying the error kind, matching the success path's
// shape so callers parse both the same way (§7 "Errors are returned in
// the same envelope as results, marked with an error kind string").
func ErrorEnvelope(kind, message string) (string, error) {
	prose := fmt.Sprintf("%s: %s", kind, message)
	return WithState(prose, map[string]string{"errorKind": kind, "message": message})
}
