package core

// Per-kind configuration shortcuts. Setters create the logger when needed and
// report false when kind cannot be resolved; getters report ok == false in
// the same case.

func (e *Environment) configure(kind Kind, fn func(l *Logger)) bool {
	l, err := e.Logger(kind)
	if err != nil {
		return false
	}
	fn(l)
	return true
}

// MessageMode returns the message mode of kind
func (e *Environment) MessageMode(kind Kind) (mode MessageMode, ok bool) {
	ok = e.configure(kind, func(l *Logger) { mode = l.MessageMode() })
	return mode, ok
}

// SetMessageMode changes the message mode of kind
func (e *Environment) SetMessageMode(kind Kind, mode MessageMode) bool {
	return e.configure(kind, func(l *Logger) { l.SetMessageMode(mode) })
}

// FilePath returns the private path template of kind
func (e *Environment) FilePath(kind Kind) (template string, ok bool) {
	ok = e.configure(kind, func(l *Logger) { template = l.FilePath() })
	return template, ok
}

// SetFilePath changes the private path template of kind
func (e *Environment) SetFilePath(kind Kind, template string) bool {
	return e.configure(kind, func(l *Logger) { l.SetFilePath(template) })
}

// DateFormat returns the timestamp layout of kind
func (e *Environment) DateFormat(kind Kind) (layout string, ok bool) {
	ok = e.configure(kind, func(l *Logger) { layout = l.DateFormat() })
	return layout, ok
}

// SetDateFormat changes the timestamp layout of kind
func (e *Environment) SetDateFormat(kind Kind, layout string) bool {
	return e.configure(kind, func(l *Logger) { l.SetDateFormat(layout) })
}

// UseGlobalPath reports whether kind appends to the shared path
func (e *Environment) UseGlobalPath(kind Kind) (use bool, ok bool) {
	ok = e.configure(kind, func(l *Logger) { use = l.UseGlobalPath() })
	return use, ok
}

// SetUseGlobalPath selects the shared or private path for kind
func (e *Environment) SetUseGlobalPath(kind Kind, use bool) bool {
	return e.configure(kind, func(l *Logger) { l.SetUseGlobalPath(use) })
}

// DebugOnly reports whether kind is restricted to debug builds
func (e *Environment) DebugOnly(kind Kind) (debugOnly bool, ok bool) {
	ok = e.configure(kind, func(l *Logger) { debugOnly = l.DebugOnly() })
	return debugOnly, ok
}

// SetDebugOnly restricts kind to debug builds
func (e *Environment) SetDebugOnly(kind Kind, debugOnly bool) bool {
	return e.configure(kind, func(l *Logger) { l.SetDebugOnly(debugOnly) })
}

// MinSeverity returns the lowest rank kind accepts
func (e *Environment) MinSeverity(kind Kind) (rank int, ok bool) {
	ok = e.configure(kind, func(l *Logger) { rank = l.MinSeverity() })
	return rank, ok
}

// SetMinSeverity changes the lowest rank kind accepts
func (e *Environment) SetMinSeverity(kind Kind, rank int) bool {
	return e.configure(kind, func(l *Logger) { l.SetMinSeverity(rank) })
}

// MaxSeverity returns the highest rank kind accepts
func (e *Environment) MaxSeverity(kind Kind) (rank int, ok bool) {
	ok = e.configure(kind, func(l *Logger) { rank = l.MaxSeverity() })
	return rank, ok
}

// SetMaxSeverity changes the highest rank kind accepts, clamped to its minimum
func (e *Environment) SetMaxSeverity(kind Kind, rank int) bool {
	return e.configure(kind, func(l *Logger) { l.SetMaxSeverity(rank) })
}
