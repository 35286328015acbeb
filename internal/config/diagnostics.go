package config

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DiagnosticsConfig configures the logger lumen reports its own failures to
type DiagnosticsConfig struct {
	// Level is the minimum level: trace, debug, info, warn, error or disabled
	Level string `koanf:"level"`
	// Format is json or console
	Format string `koanf:"format" validate:"oneof=json console"`
}

func (d DiagnosticsConfig) level() (zerolog.Level, error) {
	switch strings.ToLower(d.Level) {
	case "", "disabled", "off":
		return zerolog.Disabled, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(d.Level))
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(err, "diagnostics level %q", d.Level)
	}
	return lvl, nil
}

func (d DiagnosticsConfig) validate() error {
	_, err := d.level()
	return err
}

// Logger builds the diagnostics logger writing to w (stderr when nil)
func (d DiagnosticsConfig) Logger(w io.Writer) zerolog.Logger {
	lvl, err := d.level()
	if err != nil || lvl == zerolog.Disabled {
		return zerolog.Nop()
	}
	if w == nil {
		w = os.Stderr
	}
	if d.Format == "console" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05",
		}
	}
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("component", "lumen").
		Logger()
}
