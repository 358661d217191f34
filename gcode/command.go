// Package gcode parses G-code blocks and executes the spindle, coolant
// and aux output commands against a Machine.
package gcode

import "errors"

var (
	ErrBadNumberFormat = errors.New("bad number format")
	ErrMissingPort     = errors.New("missing P word")
	ErrInvalidPort     = errors.New("invalid P word")
)

// Command represents one parsed G or M word with the parameter words that
// follow it. Type is 0 for parameter words that precede any command word.
type Command struct {
	Type       byte             // 'G', 'M' or 0
	Number     int              // Command number (e.g., 3 for M3)
	Parameters map[byte]float64 // Parameters (S, P, etc.)
	Comment    string           // Comment text
}

// HasParameter checks if a parameter exists in the command
func (cmd *Command) HasParameter(param byte) bool {
	_, ok := cmd.Parameters[param]
	return ok
}

// GetParameter gets a parameter value, or returns the default if not present
func (cmd *Command) GetParameter(param byte, defaultValue float64) float64 {
	if val, ok := cmd.Parameters[param]; ok {
		return val
	}
	return defaultValue
}
