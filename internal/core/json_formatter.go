package core

import (
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/Lunar-Chipter/lumen/internal/stack"
)

// JSONFormatter renders every record as a single JSON object
type JSONFormatter struct {
	// TimestampFormat overrides the logger date format; RFC3339Nano when both are empty
	TimestampFormat string
}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonRecord struct {
	Time    string   `json:"time"`
	Level   string   `json:"level"`
	Rank    int      `json:"rank"`
	Kind    string   `json:"kind,omitempty"`
	ID      string   `json:"id,omitempty"`
	Message string   `json:"message"`
	Error   string   `json:"error,omitempty"`
	Trace   []string `json:"trace,omitempty"`
}

func (f *JSONFormatter) base(e Entry) jsonRecord {
	layout := f.TimestampFormat
	if layout == "" {
		layout = e.DateFormat
	}
	if layout == "" {
		layout = time.RFC3339Nano
	}
	r := jsonRecord{
		Time:    e.Time.Format(layout),
		Level:   e.Level.Name(),
		Rank:    e.Level.Rank(),
		Kind:    string(e.Kind),
		Message: e.Message,
	}
	if e.ID != [16]byte{} {
		r.ID = e.ID.String()
	}
	return r
}

// FormatMessage implements Formatter
func (f *JSONFormatter) FormatMessage(e Entry) string {
	return marshal(f.base(e))
}

// FormatError implements Formatter
func (f *JSONFormatter) FormatError(err error) string {
	return describeError(err)
}

// FormatTrace implements Formatter
func (f *JSONFormatter) FormatTrace(ff *stack.Formatter, frames []stack.Frame, max int) string {
	return ff.FormatFrames(frames, max)
}

// Compose implements Formatter
func (f *JSONFormatter) Compose(e Entry, s Sections) string {
	r := f.base(e)
	if e.Err != nil {
		r.Error = describeError(e.Err)
		if r.Message == "" {
			r.Message = r.Error
		}
	}
	if s.Trace != "" {
		for _, line := range strings.Split(s.Trace, "\n") {
			r.Trace = append(r.Trace, strings.TrimSpace(line))
		}
	}
	return marshal(r)
}

func marshal(r jsonRecord) string {
	data, err := json.Marshal(r)
	if err != nil {
		// Only reachable with invalid UTF-8 replacement failures; keep the line.
		return `{"level":"` + r.Level + `","message":"unencodable record"}`
	}
	return string(data)
}
