package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/Lunar-Chipter/lumen"
)

func main() {
	// Configuration comes from lumen.yaml / LUMEN_CONFIG and LUMEN_* variables
	env, err := lumen.NewFromConfig(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lumen:", err)
		os.Exit(1)
	}
	defer env.Close()
	lumen.SetDefault(env)
	defer lumen.Recover()

	lumen.LogToConsole("lumen demo", color.FgHiWhite, color.BgBlue)

	// Messages at every well-known level
	for _, level := range lumen.Levels() {
		lumen.LogMessagef("demo", level, "message at %s", level)
	}

	// Only warnings and above reach the storage logger
	env.SetMinSeverity("storage", lumen.Warning.Rank())
	lumen.LogMessage("storage", "cache warmed", lumen.Information)
	lumen.LogMessage("storage", "disk low", lumen.Warning)

	// Errors carry the stack recorded where they were created
	lumen.LogException("storage", openSegment("segment-0042"), lumen.WithMessage("recovery skipped a segment"))

	if err := lumen.LogAndRethrow("storage", errors.New("checksum mismatch"), lumen.WithoutTrace()); err != nil {
		lumen.LogLevelToConsole("continuing after: "+err.Error(), lumen.Warning)
	}
}

func openSegment(name string) error {
	return errors.Wrapf(os.ErrNotExist, "open %s", name)
}
