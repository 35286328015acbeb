package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lunar-Chipter/lumen/internal/stack"
)

const (
	// DEFAULT_DATE_FORMAT is the timestamp layout of formatted messages
	DEFAULT_DATE_FORMAT = "2006-01-02 15:04:05.000"
)

// Entry is the input handed to a Formatter while a record is assembled
type Entry struct {
	ID         uuid.UUID
	Kind       Kind
	Time       time.Time
	Level      Level
	Message    string
	Err        error
	DateFormat string
}

// Sections are the formatted parts of a record in output order
type Sections struct {
	Message string
	Error   string
	Trace   string
}

// Formatter is the strategy turning entries into text. Each logger holds
// one; the environment's formatter is the default.
type Formatter interface {
	// FormatMessage renders the leading line of a record
	FormatMessage(e Entry) string
	// FormatError describes an error: its type and message
	FormatError(err error) string
	// FormatTrace renders up to max frames (all when max <= 0)
	FormatTrace(ff *stack.Formatter, frames []stack.Frame, max int) string
	// Compose joins the sections into the full record text
	Compose(e Entry, s Sections) string
}

// TextFormatter renders `[<timestamp>] (<level-name>) >> <message>` lines
type TextFormatter struct{}

// NewTextFormatter creates the default text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// FormatMessage implements Formatter
func (f *TextFormatter) FormatMessage(e Entry) string {
	layout := e.DateFormat
	if layout == "" {
		layout = DEFAULT_DATE_FORMAT
	}
	var b strings.Builder
	b.Grow(len(e.Message) + len(layout) + len(e.Level.Name()) + 10)
	b.WriteByte('[')
	b.WriteString(e.Time.Format(layout))
	b.WriteString("] (")
	b.WriteString(e.Level.Name())
	b.WriteString(") >> ")
	b.WriteString(e.Message)
	return b.String()
}

// FormatError implements Formatter
func (f *TextFormatter) FormatError(err error) string {
	return describeError(err)
}

// FormatTrace implements Formatter
func (f *TextFormatter) FormatTrace(ff *stack.Formatter, frames []stack.Frame, max int) string {
	return ff.FormatFrames(frames, max)
}

// Compose implements Formatter
func (f *TextFormatter) Compose(_ Entry, s Sections) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{s.Message, s.Error, s.Trace} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "\n")
}

func describeError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%T: %s", err, err.Error())
}
