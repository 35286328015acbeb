// Package outputs provides the console and file destinations for lumen loggers.
package outputs

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// ConsoleOutput writes colored text to a console stream.
type ConsoleOutput struct {
	mu     sync.Mutex
	writer io.Writer
	colors bool
}

// NewConsoleOutput creates a console output on stdout. Colors are enabled
// only when stdout is a terminal.
func NewConsoleOutput() *ConsoleOutput {
	fd := os.Stdout.Fd()
	return &ConsoleOutput{
		writer: colorable.NewColorableStdout(),
		colors: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// NewConsoleOutputWithWriter creates a console output with a custom writer.
func NewConsoleOutputWithWriter(writer io.Writer, colors bool) *ConsoleOutput {
	return &ConsoleOutput{
		writer: writer,
		colors: colors,
	}
}

// Colors reports whether escape sequences are emitted.
func (co *ConsoleOutput) Colors() bool {
	return co.colors
}

// WriteColored writes text followed by a newline using the given foreground
// and background attributes, then resets the color state. A zero attribute
// means "terminal default".
func (co *ConsoleOutput) WriteColored(text string, fg, bg color.Attribute) error {
	line := text
	if co.colors && (fg != color.Reset || bg != color.Reset) {
		c := color.New()
		if fg != color.Reset {
			c.Add(fg)
		}
		if bg != color.Reset {
			c.Add(bg)
		}
		c.EnableColor()
		line = c.Sprint(text)
	}

	co.mu.Lock()
	defer co.mu.Unlock()
	_, err := fmt.Fprintln(co.writer, line)
	return err
}

// Write writes raw bytes to the console output.
func (co *ConsoleOutput) Write(p []byte) (n int, err error) {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.writer.Write(p)
}

// Close closes the console output when the writer is closable and is not a
// standard stream.
func (co *ConsoleOutput) Close() error {
	if co.writer == os.Stdout || co.writer == os.Stderr {
		return nil
	}
	if closer, ok := co.writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
