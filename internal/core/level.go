// Package core provides core components for the lumen logger
package core

import (
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
)

// Level is an immutable severity descriptor: name, rank, display colors and
// how many stack frames a record at this level carries
type Level struct {
	name      string
	rank      int
	fg        color.Attribute
	bg        color.Attribute
	maxFrames int
	disabled  bool
}

// LevelOption customizes a Level under construction
type LevelOption func(*Level)

// WithColors sets the foreground and background attributes of a level
func WithColors(fg, bg color.Attribute) LevelOption {
	return func(l *Level) {
		l.fg = fg
		l.bg = bg
	}
}

// WithMaxFrames sets how many stack frames are rendered for the level
func WithMaxFrames(n int) LevelOption {
	return func(l *Level) {
		if n < 0 {
			n = 0
		}
		l.maxFrames = n
	}
}

// Disabled marks the level as disabled; records at disabled levels are never built
func Disabled() LevelOption {
	return func(l *Level) {
		l.disabled = true
	}
}

// NewLevel creates a custom level
func NewLevel(name string, rank int, opts ...LevelOption) Level {
	l := Level{name: name, rank: rank}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// Well-known levels, lower rank is less severe
// Tingkat standar, rank lebih rendah berarti kurang parah
var (
	// Trace is for very detailed diagnostic output
	Trace = NewLevel("Trace", 0, WithColors(color.FgHiBlack, color.Reset))

	// Debug is for diagnostic output useful while developing
	Debug = NewLevel("Debug", 1, WithColors(color.FgCyan, color.Reset))

	// Information is for normal progress messages
	Information = NewLevel("Information", 2, WithColors(color.FgGreen, color.Reset))

	// Warning is for unusual conditions that do not stop the operation
	Warning = NewLevel("Warning", 3, WithColors(color.FgYellow, color.Reset))

	// Error is for failed operations
	Error = NewLevel("Error", 4, WithColors(color.FgRed, color.Reset), WithMaxFrames(8))

	// Critical is for failures that threaten the whole process
	Critical = NewLevel("Critical", 5, WithColors(color.FgHiWhite, color.BgRed), WithMaxFrames(16))
)

// Levels returns the well-known levels in rank order
func Levels() []Level {
	return []Level{Trace, Debug, Information, Warning, Error, Critical}
}

// Name returns the display name
func (l Level) Name() string { return l.name }

// Rank returns the severity rank used for range filtering
func (l Level) Rank() int { return l.rank }

// Foreground returns the console foreground attribute
func (l Level) Foreground() color.Attribute { return l.fg }

// Background returns the console background attribute
func (l Level) Background() color.Attribute { return l.bg }

// MaxFrames returns the number of stack frames rendered for records at this level
func (l Level) MaxFrames() int { return l.maxFrames }

// Enabled reports whether records may be built at this level
func (l Level) Enabled() bool { return !l.disabled }

// WithEnabled returns a copy of the level with the enabled flag changed
func (l Level) WithEnabled(enabled bool) Level {
	l.disabled = !enabled
	return l
}

// String returns the level name
func (l Level) String() string {
	if l.name == "" {
		return "UNKNOWN"
	}
	return l.name
}

// levelAliases maps case-folded names to the well-known levels
var levelAliases = map[string]*Level{
	"trace":       &Trace,
	"debug":       &Debug,
	"information": &Information,
	"info":        &Information,
	"warning":     &Warning,
	"warn":        &Warning,
	"error":       &Error,
	"critical":    &Critical,
	"fatal":       &Critical,
}

// ParseLevel parses a level name case-insensitively
// ParseLevel mem-parsing nama tingkat tanpa memperhatikan huruf besar/kecil
func ParseLevel(levelStr string) (Level, error) {
	// A Caser is stateful, so each call folds with its own.
	if l, ok := levelAliases[cases.Fold().String(strings.TrimSpace(levelStr))]; ok {
		return *l, nil
	}
	return Information, errors.Errorf("invalid log level: %s", levelStr)
}
