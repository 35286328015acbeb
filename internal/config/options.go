package config

import (
	"io"
	"os"
	"sort"

	"github.com/mattn/go-colorable"
	"github.com/pkg/errors"

	"github.com/Lunar-Chipter/lumen/internal/core"
	"github.com/Lunar-Chipter/lumen/internal/errchan"
	"github.com/Lunar-Chipter/lumen/internal/metrics"
	"github.com/Lunar-Chipter/lumen/internal/stack"
)

// Options converts the configuration into environment options. Diagnostics
// are written to diagOut (stderr when nil).
func (c *Config) Options(diagOut io.Writer) ([]core.Option, error) {
	opts := []core.Option{
		core.WithGlobalPath(c.GlobalPath),
		core.WithGlobalPathDateFormat(c.GlobalPathDateFormat),
		core.WithDiagnostics(c.Diagnostics.Logger(diagOut)),
		core.WithFrameFormatter(c.Frames.formatter()),
	}

	if f := formatter(c.Format); f != nil {
		opts = append(opts, core.WithFormatter(f))
	}

	switch c.Colors {
	case "always":
		opts = append(opts, core.WithColorConsole(colorable.NewColorableStdout(), true))
	case "never":
		opts = append(opts, core.WithColorConsole(os.Stdout, false))
	}

	switch c.DebugBuild {
	case "on":
		opts = append(opts, core.WithDebugBuild(true))
	case "off":
		opts = append(opts, core.WithDebugBuild(false))
	}

	if c.Strict {
		opts = append(opts, core.WithStrictKinds())
	}
	if c.Metrics {
		opts = append(opts, core.WithMetrics(metrics.NewCollector()))
	}

	mode, err := errchan.ParseMode(c.ErrorMode)
	if err != nil {
		return nil, err
	}
	opts = append(opts, core.WithErrorMode(mode))

	// Sorted so definitions are applied in a stable order.
	kinds := make([]string, 0, len(c.Loggers))
	for kind := range c.Loggers {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		loggerOpts, err := c.Loggers[kind].options()
		if err != nil {
			return nil, errors.Wrapf(err, "logger %s", kind)
		}
		opts = append(opts, core.WithDefinition(core.Kind(kind), loggerOpts...))
	}

	if c.ErrorLog != "" {
		opts = append(opts, core.WithErrorLog(core.Kind(c.ErrorLog)))
	}
	return opts, nil
}

func (lc LoggerConfig) options() ([]core.LoggerOption, error) {
	var opts []core.LoggerOption

	if lc.Mode != "" {
		mode, err := core.ParseMessageMode(lc.Mode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, core.UseMode(mode))
	}

	if lc.Min != "" || lc.Max != "" {
		minLevel, maxLevel := core.Trace, core.Critical
		var err error
		if lc.Min != "" {
			if minLevel, err = core.ParseLevel(lc.Min); err != nil {
				return nil, err
			}
		}
		if lc.Max != "" {
			if maxLevel, err = core.ParseLevel(lc.Max); err != nil {
				return nil, err
			}
		}
		opts = append(opts, core.UseRange(minLevel.Rank(), maxLevel.Rank()))
	}

	if lc.Path != "" {
		opts = append(opts, core.UsePrivatePath(lc.Path))
	}
	if lc.DateFormat != "" {
		opts = append(opts, core.UseDateFormat(lc.DateFormat))
	}
	if lc.DebugOnly {
		opts = append(opts, core.UseDebugOnly(true))
	}
	if f := formatter(lc.Format); f != nil {
		opts = append(opts, core.UseFormatter(f))
	}
	return opts, nil
}

func formatter(name string) core.Formatter {
	switch name {
	case "json":
		return core.NewJSONFormatter()
	case "text":
		return core.NewTextFormatter()
	}
	return nil
}

func (fc FramesConfig) formatter() *stack.Formatter {
	var flags stack.Flags
	if fc.Method {
		flags |= stack.ShowMethod
	}
	if fc.File {
		flags |= stack.ShowFile
	}
	if fc.Line {
		flags |= stack.ShowLine
	}
	if fc.Column {
		flags |= stack.ShowColumn
	}
	f := stack.NewFormatter(flags)
	if fc.TypeSeparator != "" {
		f.TypeSeparator = fc.TypeSeparator
	}
	return f
}
