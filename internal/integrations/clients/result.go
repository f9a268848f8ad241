// Package clients implements the thin REST wrappers around the external
// services studypilot can integrate with. Every operation returns a normalized
// Result; no method lets an error escape as a Go error across this boundary.
package clients

import (
	"encoding/json"
	"fmt"
)

// Result is the normalized shape every integration operation returns.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Ok wraps a success payload.
func Ok(data any) Result {
	return Result{Success: true, Data: data}
}

// Failf wraps a formatted failure message.
func Failf(format string, args ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// JSON serialises the result for use as tool-turn content.
func (r Result) JSON() string {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"marshal result: %v"}`, err)
	}
	return string(data)
}
