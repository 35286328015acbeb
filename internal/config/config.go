// Package config loads lumen settings from defaults, an optional YAML file and
// LUMEN_* environment variables, and turns them into environment options.
package config

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Lunar-Chipter/lumen/internal/core"
)

// Config is the complete lumen configuration
type Config struct {
	// GlobalPath is the shared file path template ({date} and {name} are substituted)
	GlobalPath string `koanf:"global_path"`
	// GlobalPathDateFormat is the Go layout used for {date} in GlobalPath
	GlobalPathDateFormat string `koanf:"global_path_date_format"`

	// Format is the default record format: text or json
	Format string `koanf:"format" validate:"oneof=text json"`
	// Colors controls console colors: auto, always or never
	Colors string `koanf:"colors" validate:"oneof=auto always never"`
	// DebugBuild overrides the build tag: auto, on or off
	DebugBuild string `koanf:"debug_build" validate:"oneof=auto on off"`
	// Strict rejects kinds that are not listed under Loggers
	Strict bool `koanf:"strict"`
	// Metrics enables the Prometheus collector
	Metrics bool `koanf:"metrics"`

	// ErrorMode selects which error notifications are logged: off, unhandled or all
	ErrorMode string `koanf:"error_mode" validate:"oneof=off unhandled all"`
	// ErrorLog is the kind that receives error notifications; empty disables binding
	ErrorLog string `koanf:"error_log"`

	Frames      FramesConfig            `koanf:"frames"`
	Diagnostics DiagnosticsConfig       `koanf:"diagnostics"`
	Loggers     map[string]LoggerConfig `koanf:"loggers" validate:"dive"`
}

// FramesConfig selects the parts of a stack frame that are rendered
type FramesConfig struct {
	Method        bool   `koanf:"method"`
	File          bool   `koanf:"file"`
	Line          bool   `koanf:"line"`
	Column        bool   `koanf:"column"`
	TypeSeparator string `koanf:"type_separator"`
}

// LoggerConfig defines one logger kind
type LoggerConfig struct {
	Mode       string `koanf:"mode" validate:"omitempty,oneof=off console file console_and_file"`
	Min        string `koanf:"min" validate:"omitempty,level"`
	Max        string `koanf:"max" validate:"omitempty,level"`
	Path       string `koanf:"path"`
	DateFormat string `koanf:"date_format"`
	DebugOnly  bool   `koanf:"debug_only"`
	Format     string `koanf:"format" validate:"omitempty,oneof=text json"`
}

func defaultConfig() Config {
	return Config{
		GlobalPathDateFormat: "2006-01-02",
		Format:               "text",
		Colors:               "auto",
		DebugBuild:           "auto",
		ErrorMode:            "unhandled",
		Frames: FramesConfig{
			Method:        true,
			File:          true,
			Line:          true,
			TypeSeparator: ".",
		},
		Diagnostics: DiagnosticsConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		if err := validate.RegisterValidation("level", func(fl validator.FieldLevel) bool {
			_, err := core.ParseLevel(fl.Field().String())
			return err == nil
		}); err != nil {
			panic(errors.Wrap(err, "register level validation"))
		}
	})
	return validate
}

// Validate checks every field against its allowed values
func (c *Config) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return errors.Errorf("invalid value %q for %s (rule %s)", first.Value(), first.Namespace(), first.Tag())
		}
		return errors.Wrap(err, "validate config")
	}
	if err := c.Diagnostics.validate(); err != nil {
		return err
	}
	for kind := range c.Loggers {
		if kind == "" {
			return errors.New("loggers: empty kind")
		}
	}
	return nil
}
