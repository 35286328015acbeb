// Package lumen is a logging dispatch and formatting library: per-kind
// singleton loggers with destination policies, severity levels with colors
// and stack-trace depth, frame formatting, and an error channel that logs
// unhandled errors.
package lumen

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/Lunar-Chipter/lumen/internal/config"
	"github.com/Lunar-Chipter/lumen/internal/core"
	"github.com/Lunar-Chipter/lumen/internal/errchan"
)

// Core types
type (
	Level           = core.Level
	Kind            = core.Kind
	Record          = core.Record
	Logger          = core.Logger
	Environment     = core.Environment
	Formatter       = core.Formatter
	Entry           = core.Entry
	Sections        = core.Sections
	MessageMode     = core.MessageMode
	Policy          = core.Policy
	Option          = core.Option
	LoggerOption    = core.LoggerOption
	ExceptionOption = core.ExceptionOption
	ErrorMode       = errchan.Mode
	Config          = config.Config
)

// Well-known levels
var (
	Trace       = core.Trace
	Debug       = core.Debug
	Information = core.Information
	Warning     = core.Warning
	Error       = core.Error
	Critical    = core.Critical
)

// Message modes
const (
	ModeOff            = core.ModeOff
	ModeConsole        = core.ModeConsole
	ModeFile           = core.ModeFile
	ModeConsoleAndFile = core.ModeConsoleAndFile
)

// Error-channel modes
const (
	ErrorModeOff       = errchan.ModeOff
	ErrorModeUnhandled = errchan.ModeUnhandled
	ErrorModeAll       = errchan.ModeAll
)

// Constructors and options re-exported from the implementation packages
var (
	NewEnvironment   = core.NewEnvironment
	NewLevel         = core.NewLevel
	ParseLevel       = core.ParseLevel
	Levels           = core.Levels
	NewTextFormatter = core.NewTextFormatter
	NewJSONFormatter = core.NewJSONFormatter

	WithConsole      = core.WithConsole
	WithColorConsole = core.WithColorConsole
	WithGlobalPath   = core.WithGlobalPath
	WithDebugBuild   = core.WithDebugBuild
	WithStrictKinds  = core.WithStrictKinds
	WithFormatter    = core.WithFormatter
	WithDefinition   = core.WithDefinition
	WithErrorSource  = core.WithErrorSource
	WithErrorMode    = core.WithErrorMode
	WithErrorLog     = core.WithErrorLog
	WithMetrics      = core.WithMetrics
	WithDiagnostics  = core.WithDiagnostics
	WithClock        = core.WithClock

	UseMode        = core.UseMode
	UseRange       = core.UseRange
	UsePrivatePath = core.UsePrivatePath
	UseDateFormat  = core.UseDateFormat
	UseDebugOnly   = core.UseDebugOnly
	UseFormatter   = core.UseFormatter

	WithMessage  = core.WithMessage
	WithLevel    = core.WithLevel
	WithoutTrace = core.WithoutTrace
)

var (
	defaultMu  sync.RWMutex
	defaultEnv *Environment
)

// Default returns the process environment, creating it with default options
// on first use.
func Default() *Environment {
	defaultMu.RLock()
	env := defaultEnv
	defaultMu.RUnlock()
	if env != nil {
		return env
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultEnv == nil {
		defaultEnv = core.NewEnvironment()
	}
	return defaultEnv
}

// SetDefault replaces the process environment and returns the previous one,
// which the caller may Close.
func SetDefault(env *Environment) *Environment {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultEnv
	defaultEnv = env
	return prev
}

// NewFromConfig loads configuration (see config.Load) and builds an
// environment from it. Diagnostics go to diagOut, stderr when nil.
func NewFromConfig(diagOut io.Writer, extra ...Option) (*Environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options(diagOut)
	if err != nil {
		return nil, err
	}
	return core.NewEnvironment(append(opts, extra...)...), nil
}

// LogMessage writes message for kind through the default environment
func LogMessage(kind Kind, message string, level ...Level) {
	lvl := Information
	if len(level) > 0 {
		lvl = level[0]
	}
	Default().LogMessageDepth(1, kind, message, lvl)
}

// LogMessagef formats and writes a message through the default environment
func LogMessagef(kind Kind, level Level, format string, args ...interface{}) {
	Default().LogMessageDepth(1, kind, fmt.Sprintf(format, args...), level)
}

// LogException writes err for kind through the default environment
func LogException(kind Kind, err error, opts ...ExceptionOption) {
	Default().LogExceptionDepth(1, kind, err, opts...)
}

// LogAndRethrow writes err and returns it unchanged
func LogAndRethrow(kind Kind, err error, opts ...ExceptionOption) error {
	Default().LogExceptionDepth(1, kind, err, opts...)
	return err
}

// LogAndPanic writes err and panics with it
func LogAndPanic(kind Kind, err error, opts ...ExceptionOption) {
	Default().LogExceptionDepth(1, kind, err, opts...)
	panic(err)
}

// LogToConsole writes colored text to the console of the default environment
func LogToConsole(message string, fg, bg color.Attribute) {
	Default().LogToConsole(message, fg, bg)
}

// LogLevelToConsole writes message in the colors of level
func LogLevelToConsole(message string, level Level) {
	Default().LogLevelToConsole(message, level)
}

// SetErrorLog binds the default environment's error channel to kind
func SetErrorLog(kind Kind) bool {
	return Default().SetErrorLog(kind)
}

// OnAnyMessage subscribes fn to every record of the default environment
func OnAnyMessage(fn func(Record)) func() {
	return Default().OnAnyMessage(fn)
}

// ReportFirstChance reports a handled error to the default environment's error channel
func ReportFirstChance(err error) {
	Default().ErrorSource().ReportFirstChance(err)
}

// Recover reports a panic in progress to the default environment's error
// channel as unhandled, then re-panics. Use it as `defer lumen.Recover()`.
func Recover() {
	if r := recover(); r != nil {
		Default().ErrorSource().ReportUnhandled(errchan.PanicError(r))
		panic(r)
	}
}

// Go runs fn in a new goroutine whose panics are reported before they crash the process
func Go(fn func()) {
	Default().ErrorSource().Go(fn)
}
