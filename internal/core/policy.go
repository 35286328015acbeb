package core

import (
	"strings"

	"github.com/pkg/errors"
)

// MessageMode selects where a logger's records go
type MessageMode uint8

const (
	// ModeOff drops every record
	ModeOff MessageMode = iota
	// ModeConsole writes records to the console only
	ModeConsole
	// ModeFile appends records to a file only
	ModeFile
	// ModeConsoleAndFile writes records to the console and appends them to a file
	ModeConsoleAndFile
)

var modeStrings = [...]string{"off", "console", "file", "console_and_file"}

// String returns the mode name
func (m MessageMode) String() string {
	if int(m) < len(modeStrings) {
		return modeStrings[m]
	}
	return "unknown"
}

// ParseMessageMode parses a mode name as produced by String
func ParseMessageMode(s string) (MessageMode, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, name := range modeStrings {
		if normalized == name {
			return MessageMode(i), nil
		}
	}
	return ModeOff, errors.Errorf("invalid message mode: %s", s)
}

// console reports whether the mode writes to the console
func (m MessageMode) console() bool {
	return m == ModeConsole || m == ModeConsoleAndFile
}

// file reports whether the mode appends to a file
func (m MessageMode) file() bool {
	return m == ModeFile || m == ModeConsoleAndFile
}

// Policy is a logger's destination configuration
type Policy struct {
	Mode          MessageMode
	UseGlobalPath bool
	DebugOnly     bool
	min           int
	max           int
}

// DefaultPolicy writes to console and the shared file for every well-known level
func DefaultPolicy() Policy {
	return Policy{
		Mode:          ModeConsoleAndFile,
		UseGlobalPath: true,
		min:           Trace.Rank(),
		max:           Critical.Rank(),
	}
}

// Min returns the lowest accepted rank
func (p Policy) Min() int { return p.min }

// Max returns the highest accepted rank
func (p Policy) Max() int { return p.max }

// SetMin changes the lowest accepted rank. Max is left untouched.
func (p *Policy) SetMin(rank int) {
	p.min = rank
}

// SetMax changes the highest accepted rank, clamped to be at least Min
func (p *Policy) SetMax(rank int) {
	if rank < p.min {
		rank = p.min
	}
	p.max = rank
}

// Allows reports whether rank lies inside [Min, Max]
func (p Policy) Allows(rank int) bool {
	return rank >= p.min && rank <= p.max
}
