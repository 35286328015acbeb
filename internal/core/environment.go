package core

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Lunar-Chipter/lumen/internal/errchan"
	"github.com/Lunar-Chipter/lumen/internal/metrics"
	"github.com/Lunar-Chipter/lumen/internal/outputs"
	"github.com/Lunar-Chipter/lumen/internal/stack"
)

const (
	// GLOBAL_PATH_NAME replaces {name} in the shared path template
	GLOBAL_PATH_NAME = "lumen"

	// callerSkip is the number of frames between a stack capture inside the
	// dispatch helpers and the caller of the exported operation
	callerSkip = 2
)

// Environment owns everything a process logs through: the registry, the
// shared outputs, the error binder and the events. Construct one with
// NewEnvironment and release it with Close.
type Environment struct {
	registry  *Registry              // Kind -> Logger singletons
	console   *outputs.ConsoleOutput // Shared console writer
	global    *outputs.TemplatePath  // Shared file path
	debug     bool                   // Debug build flag
	strict    bool                   // Undefined kinds never resolve
	formatter Formatter              // Default formatter
	frames    *stack.Formatter       // Default frame formatter
	stack     stack.Source           // Call stack inspection
	source    *errchan.Source        // Error notifications
	binder    *errchan.Binder        // The source's binder, shared with other environments
	binding   atomic.Uint64          // Token of this environment's binding
	errorMode *errchan.Mode          // Binder mode requested at construction
	errorLog  Kind                   // Kind bound at construction
	metrics   *metrics.Collector     // nil disables metrics
	diag      zerolog.Logger         // Self-diagnostics
	now       func() time.Time       // Clock
	events    hub                    // AnyMessageLogged subscribers

	defs      map[Kind][]LoggerOption // Definitions given before the registry exists
	closeOnce sync.Once
}

// Option configures an Environment
type Option func(*Environment)

// WithConsole writes console output to w without colors
func WithConsole(w io.Writer) Option {
	return func(e *Environment) {
		e.console = outputs.NewConsoleOutputWithWriter(w, false)
	}
}

// WithColorConsole writes console output to w, with or without colors
func WithColorConsole(w io.Writer, colors bool) Option {
	return func(e *Environment) {
		e.console = outputs.NewConsoleOutputWithWriter(w, colors)
	}
}

// WithGlobalPath sets the shared file path template
func WithGlobalPath(template string) Option {
	return func(e *Environment) { e.global.SetTemplate(template) }
}

// WithDebugBuild overrides the build-tag debug flag
func WithDebugBuild(debug bool) Option {
	return func(e *Environment) { e.debug = debug }
}

// WithStrictKinds makes kinds that were never defined fail to resolve
func WithStrictKinds() Option {
	return func(e *Environment) { e.strict = true }
}

// WithFormatter sets the default formatter
func WithFormatter(f Formatter) Option {
	return func(e *Environment) {
		if f != nil {
			e.formatter = f
		}
	}
}

// WithFrameFormatter sets the default frame formatter
func WithFrameFormatter(f *stack.Formatter) Option {
	return func(e *Environment) {
		if f != nil {
			e.frames = f
		}
	}
}

// WithStackSource replaces runtime stack inspection
func WithStackSource(s stack.Source) Option {
	return func(e *Environment) {
		if s != nil {
			e.stack = s
		}
	}
}

// WithErrorSource binds the environment to s instead of the process source
func WithErrorSource(s *errchan.Source) Option {
	return func(e *Environment) {
		if s != nil {
			e.source = s
		}
	}
}

// WithErrorMode sets the error-channel mode. The mode belongs to the error
// source, so it also applies to other environments sharing that source.
func WithErrorMode(mode errchan.Mode) Option {
	return func(e *Environment) { e.errorMode = &mode }
}

// WithErrorLog binds the error channel to kind once the environment is built
func WithErrorLog(kind Kind) Option {
	return func(e *Environment) { e.errorLog = kind }
}

// WithGlobalPathDateFormat sets the layout substituted for {date} in the shared path
func WithGlobalPathDateFormat(layout string) Option {
	return func(e *Environment) { e.global.SetDateFormat(layout) }
}

// WithMetrics records dispatch statistics in c
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Environment) { e.metrics = c }
}

// WithDiagnostics reports swallowed failures to logger
func WithDiagnostics(logger zerolog.Logger) Option {
	return func(e *Environment) { e.diag = logger }
}

// WithClock replaces the time source for timestamps and {date}
func WithClock(now func() time.Time) Option {
	return func(e *Environment) {
		if now != nil {
			e.now = now
		}
	}
}

// WithDefinition defines kind with opts, as Define does
func WithDefinition(kind Kind, opts ...LoggerOption) Option {
	return func(e *Environment) {
		if kind != "" {
			e.defs[kind] = append([]LoggerOption(nil), opts...)
		}
	}
}

// NewEnvironment creates an environment writing colored text to stdout
func NewEnvironment(opts ...Option) *Environment {
	e := &Environment{
		global:    outputs.NewTemplatePath("", GLOBAL_PATH_NAME),
		debug:     debugBuild,
		formatter: NewTextFormatter(),
		frames:    stack.NewFormatter(stack.ShowDefault),
		stack:     stack.RuntimeSource{},
		source:    errchan.Process(),
		diag:      zerolog.Nop(),
		now:       time.Now,
		defs:      make(map[Kind][]LoggerOption),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.console == nil {
		e.console = outputs.NewConsoleOutput()
	}
	e.binder = e.source.Binder()
	if e.errorMode != nil {
		e.binder.SetMode(*e.errorMode)
	}
	e.global.WithClock(e.now)
	e.registry = NewRegistry(e.build)
	for kind, opts := range e.defs {
		_ = e.registry.Define(kind, opts...)
	}
	e.defs = nil

	if e.errorLog != "" && !e.SetErrorLog(e.errorLog) {
		e.diag.Warn().Str("kind", string(e.errorLog)).Msg("error log kind not resolved")
	}
	return e
}

// build is the registry factory
func (e *Environment) build(kind Kind, opts []LoggerOption, defined bool) (*Logger, error) {
	if !defined && e.strict {
		return nil, errors.Wrapf(ErrUndefinedKind, "kind %q", kind)
	}

	file := outputs.NewFileOutput(func(path string, err error) {
		e.fileFailure(kind, path, err)
	})
	l := newLogger(kind, file, opts...)
	l.path.WithClock(e.now)

	e.diag.Debug().Str("kind", string(kind)).Bool("defined", defined).Msg("logger created")
	return l, nil
}

func (e *Environment) fileFailure(kind Kind, path string, err error) {
	reason := metrics.FailureIO
	if errors.Is(err, outputs.ErrReentrantWrite) {
		reason = metrics.FailureReentrant
	}
	e.metrics.RecordFileFailure(string(kind), reason)
	e.diag.Warn().
		Err(err).
		Str("kind", string(kind)).
		Str("path", path).
		Str("reason", reason).
		Msg("log file path invalidated")
}

// Define registers options for kind, applied when its logger is first created
func (e *Environment) Define(kind Kind, opts ...LoggerOption) error {
	return e.registry.Define(kind, opts...)
}

// Logger returns the logger for kind, creating it when needed
func (e *Environment) Logger(kind Kind) (*Logger, error) {
	l, err := e.registry.GetOrCreate(kind)
	if err != nil {
		return nil, err
	}
	e.metrics.SetLoggers(e.registry.Len())
	return l, nil
}

// EnsureRegistered creates the logger for kind and reports whether it exists
func (e *Environment) EnsureRegistered(kind Kind) bool {
	_, err := e.Logger(kind)
	return err == nil
}

// Kinds returns every registered kind in sorted order
func (e *Environment) Kinds() []Kind {
	return e.registry.Kinds()
}

// DebugBuild reports whether debug-only loggers are active
func (e *Environment) DebugBuild() bool { return e.debug }

// ErrorSource returns the source the error channel is bound to
func (e *Environment) ErrorSource() *errchan.Source { return e.source }

// Metrics returns the collector, nil when metrics are disabled
func (e *Environment) Metrics() *metrics.Collector { return e.metrics }

// GlobalFilePath returns the shared path template
func (e *Environment) GlobalFilePath() string {
	return e.global.Template()
}

// SetGlobalFilePath changes the shared path template and makes it usable again
func (e *Environment) SetGlobalFilePath(template string) {
	e.global.SetTemplate(template)
}

// GlobalFilePathValid reports whether the shared path is still targeted
func (e *Environment) GlobalFilePathValid() bool {
	return e.global.Valid()
}

// SetGlobalPathDateFormat changes the layout substituted for {date} in the shared path
func (e *Environment) SetGlobalPathDateFormat(layout string) {
	e.global.SetDateFormat(layout)
}

// OnAnyMessage subscribes fn to every record the environment writes, from
// loggers and from the console operations. The returned function unsubscribes.
func (e *Environment) OnAnyMessage(fn func(Record)) func() {
	return e.events.subscribe(fn)
}

// Close releases the error channel when this environment still holds it and
// closes the console output. Loggers stay usable.
func (e *Environment) Close() error {
	var err error
	e.closeOnce.Do(func() {
		e.binder.Release(e.binding.Load())
		err = e.console.Close()
	})
	return err
}

// LogMessage writes message for kind at level (Information when omitted)
func (e *Environment) LogMessage(kind Kind, message string, level ...Level) {
	lvl := Information
	if len(level) > 0 {
		lvl = level[0]
	}
	e.logMessage(kind, message, true, lvl, 0)
}

// LogMessagef formats a message and writes it for kind at level
func (e *Environment) LogMessagef(kind Kind, level Level, format string, args ...interface{}) {
	e.logMessage(kind, fmt.Sprintf(format, args...), true, level, 0)
}

// LogMessagePtr writes *message for kind; a nil message writes nothing
func (e *Environment) LogMessagePtr(kind Kind, message *string, level Level) {
	if message == nil {
		e.logMessage(kind, "", false, level, 0)
		return
	}
	e.logMessage(kind, *message, true, level, 0)
}

// LogMessageDepth is LogMessage for wrappers: depth is the number of
// wrapper frames between the user's code and this call, left out of traces.
func (e *Environment) LogMessageDepth(depth int, kind Kind, message string, level Level) {
	e.logMessage(kind, message, true, level, depth)
}

// ExceptionOption configures LogException and its variants
type ExceptionOption func(*exceptionOptions)

type exceptionOptions struct {
	message string
	level   Level
	trace   bool
}

// WithMessage adds a message line before the error description
func WithMessage(message string) ExceptionOption {
	return func(o *exceptionOptions) { o.message = message }
}

// WithLevel sets the level of the record (Error by default)
func WithLevel(level Level) ExceptionOption {
	return func(o *exceptionOptions) { o.level = level }
}

// WithoutTrace replaces the error's own trace with the level-limited one
func WithoutTrace() ExceptionOption {
	return func(o *exceptionOptions) { o.trace = false }
}

func newExceptionOptions(opts []ExceptionOption) exceptionOptions {
	o := exceptionOptions{level: Error, trace: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LogException writes err for kind. By default the record carries the
// stack recorded in err (see github.com/pkg/errors) or, when err has none,
// the stack of the caller. A nil error writes nothing.
func (e *Environment) LogException(kind Kind, err error, opts ...ExceptionOption) {
	e.logException(kind, err, 0, newExceptionOptions(opts))
}

// LogAndRethrow writes err like LogException and returns the same error value
func (e *Environment) LogAndRethrow(kind Kind, err error, opts ...ExceptionOption) error {
	e.logException(kind, err, 0, newExceptionOptions(opts))
	return err
}

// LogAndPanic writes err like LogException, then panics with it
func (e *Environment) LogAndPanic(kind Kind, err error, opts ...ExceptionOption) {
	e.logException(kind, err, 0, newExceptionOptions(opts))
	panic(err)
}

// LogExceptionDepth is LogException for wrappers, see LogMessageDepth
func (e *Environment) LogExceptionDepth(depth int, kind Kind, err error, opts ...ExceptionOption) {
	e.logException(kind, err, depth, newExceptionOptions(opts))
}

// LogToConsole writes message to the console with the given colors, bypassing
// every logger. Color.Reset means the terminal default.
func (e *Environment) LogToConsole(message string, fg, bg color.Attribute) {
	lvl := NewLevel("Console", Information.Rank(), WithColors(fg, bg))
	e.consoleRecord(Record{
		id:               uuid.New(),
		time:             e.now(),
		message:          message,
		formattedMessage: message,
		text:             message,
		level:            lvl,
	})
}

// LogLevelToConsole writes message formatted at level to the console in the
// level's colors, bypassing every logger
func (e *Environment) LogLevelToConsole(message string, level Level) {
	entry := Entry{
		ID:         uuid.New(),
		Time:       e.now(),
		Level:      level,
		Message:    message,
		DateFormat: DEFAULT_DATE_FORMAT,
	}
	formatted := e.formatter.FormatMessage(entry)
	e.consoleRecord(Record{
		id:               entry.ID,
		time:             entry.Time,
		message:          message,
		formattedMessage: formatted,
		text:             e.formatter.Compose(entry, Sections{Message: formatted}),
		level:            level,
	})
}

func (e *Environment) consoleRecord(r Record) {
	if err := e.console.WriteColored(r.text, r.level.Foreground(), r.level.Background()); err != nil {
		e.diag.Warn().Err(err).Msg("console write failed")
	}
	e.metrics.RecordConsoleMessage(r.level.Name())
	e.events.fire(r)
}

// SetErrorLog binds the error channel to kind: unhandled errors are logged
// at Critical, first-chance errors at Error. It reports false when kind
// cannot be resolved, leaving any previous binding in place.
//
// The binding belongs to the error source: binding here replaces a binding
// made by any other environment on the same source.
func (e *Environment) SetErrorLog(kind Kind) bool {
	if !e.EnsureRegistered(kind) {
		return false
	}
	token := e.binder.Bind(string(kind), func(n errchan.Notification, err error) {
		lvl := Error
		if n == errchan.Unhandled {
			lvl = Critical
		}
		e.logException(kind, err, 0, exceptionOptions{level: lvl, trace: true})
	})
	e.binding.Store(token)
	return true
}

// ErrorLog returns the kind this environment has bound to the error
// channel, "" when it holds no binding
func (e *Environment) ErrorLog() Kind {
	if !e.binder.Holds(e.binding.Load()) {
		return ""
	}
	return Kind(e.binder.Owner())
}

// ErrorMode returns which notifications reach the bound logger
func (e *Environment) ErrorMode() errchan.Mode {
	return e.binder.Mode()
}

// SetErrorMode changes which notifications reach the bound logger
func (e *Environment) SetErrorMode(mode errchan.Mode) {
	e.binder.SetMode(mode)
}

// The helpers below are called directly by the exported operations so
// that callerSkip frames separate a stack capture from the user's code.

func (e *Environment) logMessage(kind Kind, message string, present bool, level Level, depth int) {
	l, snap, ok := e.admit(kind, present, level)
	if !ok {
		return
	}

	var frames []stack.Frame
	if n := level.MaxFrames(); n > 0 {
		frames = e.stack.Capture(callerSkip+depth, n)
	}
	e.emit(l, snap, Entry{Kind: kind, Level: level, Message: message}, frames, level.MaxFrames())
}

func (e *Environment) logException(kind Kind, err error, depth int, o exceptionOptions) {
	l, snap, ok := e.admit(kind, err != nil, o.level)
	if !ok {
		return
	}

	var frames []stack.Frame
	limit := o.level.MaxFrames()
	if o.trace {
		var own bool
		if frames, own = stack.FromError(err); !own {
			frames = e.stack.Capture(callerSkip+depth, stack.MAX_STACK_DEPTH)
		}
		limit = 0
	} else if limit > 0 {
		frames = e.stack.Capture(callerSkip+depth, limit)
	}
	e.emit(l, snap, Entry{Kind: kind, Level: o.level, Message: o.message, Err: err}, frames, limit)
}

// admit resolves the logger and applies the checks in their fixed order
func (e *Environment) admit(kind Kind, present bool, level Level) (*Logger, snapshot, bool) {
	l, err := e.Logger(kind)
	if err != nil {
		e.reject(kind, metrics.ReasonUnresolved)
		e.diag.Debug().Err(err).Str("kind", string(kind)).Msg("logger not resolved")
		return nil, snapshot{}, false
	}

	snap := l.snapshot()
	reason := ""
	switch {
	case snap.policy.DebugOnly && !e.debug:
		reason = metrics.ReasonDebugOnly
	case snap.policy.Mode == ModeOff:
		reason = metrics.ReasonModeOff
	case !present:
		reason = metrics.ReasonNoMessage
	case !level.Enabled():
		reason = metrics.ReasonDisabled
	case !snap.policy.Allows(level.Rank()):
		reason = metrics.ReasonOutOfRange
	}
	if reason != "" {
		e.reject(kind, reason)
		return nil, snapshot{}, false
	}
	return l, snap, true
}

func (e *Environment) reject(kind Kind, reason string) {
	e.metrics.RecordRejected(string(kind), reason)
}

// emit formats the record, writes it and fires the events
func (e *Environment) emit(l *Logger, snap snapshot, entry Entry, frames []stack.Frame, limit int) {
	f := snap.formatter
	if f == nil {
		f = e.formatter
	}
	ff := snap.frames
	if ff == nil {
		ff = e.frames
	}

	entry.ID = uuid.New()
	entry.Time = e.now()
	entry.DateFormat = snap.dateFormat

	var s Sections
	if len(frames) > 0 {
		s.Trace = f.FormatTrace(ff, frames, limit)
	}
	if entry.Err != nil {
		desc := f.FormatError(entry.Err)
		if entry.Message != "" {
			s.Message = f.FormatMessage(entry)
			s.Error = desc
		} else {
			lead := entry
			lead.Message = desc
			s.Message = f.FormatMessage(lead)
		}
	} else {
		s.Message = f.FormatMessage(entry)
	}

	r := Record{
		id:               entry.ID,
		kind:             entry.Kind,
		time:             entry.Time,
		message:          entry.Message,
		formattedMessage: s.Message,
		formattedTrace:   s.Trace,
		text:             f.Compose(entry, s),
		level:            entry.Level,
		err:              entry.Err,
	}

	e.write(l, snap.policy, r)
	e.metrics.RecordDispatched(string(r.kind), r.level.Name())
	l.events.fire(r)
	e.events.fire(r)
}

// write sends the record to the destinations selected by the policy
func (e *Environment) write(l *Logger, p Policy, r Record) {
	if p.Mode.console() {
		if err := e.console.WriteColored(r.text, r.level.Foreground(), r.level.Background()); err != nil {
			e.diag.Warn().Err(err).Str("kind", string(l.kind)).Msg("console write failed")
		}
	}
	if p.Mode.file() {
		var paths outputs.PathResolver = l.path
		if p.UseGlobalPath {
			paths = e.global
		}
		l.file.Append(paths, r.text)
	}
}
