package core

import (
	"sync"

	"github.com/Lunar-Chipter/lumen/internal/outputs"
	"github.com/Lunar-Chipter/lumen/internal/stack"
)

// Kind identifies a logger; one Logger exists per Kind per Environment
// Kind mengidentifikasi logger; satu Logger ada per Kind per Environment
type Kind string

// Logger is the singleton instance behind one Kind. It owns the destination
// policy, a private file path, and the event fired for each of its records.
type Logger struct {
	kind       Kind                  // Registry key
	mu         sync.RWMutex          // Guards the configuration below
	policy     Policy                // Destination policy
	path       *outputs.TemplatePath // Private file path
	dateFormat string                // Timestamp layout
	formatter  Formatter             // nil means the environment formatter
	frames     *stack.Formatter      // nil means the environment frame formatter
	file       *outputs.FileOutput   // Guarded file appender
	events     hub                   // MessageLogged subscribers
}

// LoggerOption configures a Logger when it is first created
type LoggerOption func(*Logger)

// UseMode sets the message mode
func UseMode(mode MessageMode) LoggerOption {
	return func(l *Logger) { l.policy.Mode = mode }
}

// UseRange sets the inclusive rank range; max is clamped to min
func UseRange(min, max int) LoggerOption {
	return func(l *Logger) {
		l.policy.SetMin(min)
		l.policy.SetMax(max)
	}
}

// UsePrivatePath makes the logger append to its own path template
func UsePrivatePath(template string) LoggerOption {
	return func(l *Logger) {
		l.path.SetTemplate(template)
		l.policy.UseGlobalPath = false
	}
}

// UseDateFormat sets the timestamp layout of formatted messages
func UseDateFormat(layout string) LoggerOption {
	return func(l *Logger) { l.setDateFormat(layout) }
}

// UseDebugOnly restricts the logger to debug builds
func UseDebugOnly(debugOnly bool) LoggerOption {
	return func(l *Logger) { l.policy.DebugOnly = debugOnly }
}

// UseFormatter overrides the environment formatter for this logger
func UseFormatter(f Formatter) LoggerOption {
	return func(l *Logger) { l.formatter = f }
}

// UseFrameFormatter overrides the environment frame formatter for this logger
func UseFrameFormatter(f *stack.Formatter) LoggerOption {
	return func(l *Logger) { l.frames = f }
}

func newLogger(kind Kind, file *outputs.FileOutput, opts ...LoggerOption) *Logger {
	l := &Logger{
		kind:       kind,
		policy:     DefaultPolicy(),
		path:       outputs.NewTemplatePath("", string(kind)),
		dateFormat: DEFAULT_DATE_FORMAT,
		file:       file,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Kind returns the logger's registry key
func (l *Logger) Kind() Kind { return l.kind }

// Policy returns a snapshot of the destination policy
func (l *Logger) Policy() Policy {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.policy
}

// MessageMode returns where records go
func (l *Logger) MessageMode() MessageMode {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.policy.Mode
}

// SetMessageMode changes where records go
func (l *Logger) SetMessageMode(mode MessageMode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.policy.Mode = mode
}

// FilePath returns the private path template
func (l *Logger) FilePath() string {
	return l.path.Template()
}

// SetFilePath changes the private path template. A path invalidated by an
// earlier failure becomes usable again.
func (l *Logger) SetFilePath(template string) {
	l.path.SetTemplate(template)
}

// FilePathValid reports whether the private path is still targeted
func (l *Logger) FilePathValid() bool {
	return l.path.Valid()
}

// DateFormat returns the timestamp layout
func (l *Logger) DateFormat() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dateFormat
}

// SetDateFormat changes the timestamp layout; "" restores the default
func (l *Logger) SetDateFormat(layout string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setDateFormat(layout)
}

func (l *Logger) setDateFormat(layout string) {
	if layout == "" {
		layout = DEFAULT_DATE_FORMAT
	}
	l.dateFormat = layout
}

// UseGlobalPath reports whether the environment's shared path is used
func (l *Logger) UseGlobalPath() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.policy.UseGlobalPath
}

// SetUseGlobalPath selects the shared (true) or private (false) path
func (l *Logger) SetUseGlobalPath(use bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.policy.UseGlobalPath = use
}

// DebugOnly reports whether the logger is restricted to debug builds
func (l *Logger) DebugOnly() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.policy.DebugOnly
}

// SetDebugOnly restricts the logger to debug builds
func (l *Logger) SetDebugOnly(debugOnly bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.policy.DebugOnly = debugOnly
}

// MinSeverity returns the lowest accepted rank
func (l *Logger) MinSeverity() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.policy.Min()
}

// SetMinSeverity changes the lowest accepted rank. The maximum is not adjusted.
func (l *Logger) SetMinSeverity(rank int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.policy.SetMin(rank)
}

// MaxSeverity returns the highest accepted rank
func (l *Logger) MaxSeverity() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.policy.Max()
}

// SetMaxSeverity changes the highest accepted rank, clamped to the minimum
func (l *Logger) SetMaxSeverity(rank int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.policy.SetMax(rank)
}

// Formatter returns the logger's own formatter, nil when it uses the environment's
func (l *Logger) Formatter() Formatter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.formatter
}

// SetFormatter overrides the formatter; nil falls back to the environment's
func (l *Logger) SetFormatter(f Formatter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.formatter = f
}

// SetFrameFormatter overrides the frame formatter; nil falls back to the environment's
func (l *Logger) SetFrameFormatter(f *stack.Formatter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = f
}

// OnMessage subscribes fn to the records this logger writes. The returned
// function unsubscribes.
func (l *Logger) OnMessage(fn func(Record)) func() {
	return l.events.subscribe(fn)
}

// FileReentries returns how many re-entrant file writes were rejected
func (l *Logger) FileReentries() int64 {
	return l.file.Reentries()
}

// snapshot is the configuration a single dispatch works with
type snapshot struct {
	policy     Policy
	dateFormat string
	formatter  Formatter
	frames     *stack.Formatter
}

func (l *Logger) snapshot() snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return snapshot{
		policy:     l.policy,
		dateFormat: l.dateFormat,
		formatter:  l.formatter,
		frames:     l.frames,
	}
}
