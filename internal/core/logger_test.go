package core

import (
	"testing"

	"github.com/Lunar-Chipter/lumen/internal/outputs"
	"github.com/Lunar-Chipter/lumen/internal/stack"
)

func TestLoggerDefaults(t *testing.T) {
	l := newLogger("app", outputs.NewFileOutput(nil))

	if l.Kind() != "app" {
		t.Errorf("Kind() = %q", l.Kind())
	}
	if l.MessageMode() != ModeConsoleAndFile {
		t.Errorf("MessageMode() = %v", l.MessageMode())
	}
	if !l.UseGlobalPath() || l.DebugOnly() {
		t.Error("expected global path and no debug restriction")
	}
	if l.DateFormat() != DEFAULT_DATE_FORMAT {
		t.Errorf("DateFormat() = %q", l.DateFormat())
	}
	if l.MinSeverity() != Trace.Rank() || l.MaxSeverity() != Critical.Rank() {
		t.Errorf("range = [%d, %d]", l.MinSeverity(), l.MaxSeverity())
	}
	if l.FilePathValid() {
		t.Error("an empty private path must not be usable")
	}
	if l.Formatter() != nil {
		t.Error("loggers use the environment formatter by default")
	}
}

func TestLoggerOptions(t *testing.T) {
	jf := NewJSONFormatter()
	l := newLogger("db", outputs.NewFileOutput(nil),
		UseMode(ModeFile),
		UseRange(Error.Rank(), Warning.Rank()),
		UsePrivatePath("logs/{name}.log"),
		UseDateFormat("15:04"),
		UseDebugOnly(true),
		UseFormatter(jf),
		UseFrameFormatter(stack.NewFormatter(stack.ShowFile)),
	)

	p := l.Policy()
	if p.Mode != ModeFile || p.UseGlobalPath || !p.DebugOnly {
		t.Errorf("policy = %+v", p)
	}
	if p.Min() != Error.Rank() || p.Max() != Error.Rank() {
		t.Errorf("range = [%d, %d]; expected max clamped to min", p.Min(), p.Max())
	}
	if l.FilePath() != "logs/{name}.log" || !l.FilePathValid() {
		t.Errorf("FilePath() = %q", l.FilePath())
	}
	if l.DateFormat() != "15:04" {
		t.Errorf("DateFormat() = %q", l.DateFormat())
	}
	if l.Formatter() != jf {
		t.Error("expected the logger formatter")
	}
}

func TestLoggerSetters(t *testing.T) {
	l := newLogger("app", outputs.NewFileOutput(nil))

	l.SetMinSeverity(Warning.Rank())
	l.SetMaxSeverity(Debug.Rank())
	if l.MaxSeverity() != Warning.Rank() {
		t.Errorf("MaxSeverity() = %d; expected clamp to %d", l.MaxSeverity(), Warning.Rank())
	}

	l.SetMinSeverity(Critical.Rank())
	if l.MaxSeverity() != Warning.Rank() {
		t.Error("SetMinSeverity must not move the maximum")
	}

	l.SetDateFormat("")
	if l.DateFormat() != DEFAULT_DATE_FORMAT {
		t.Error("an empty layout restores the default")
	}

	l.SetMessageMode(ModeOff)
	l.SetUseGlobalPath(false)
	l.SetDebugOnly(true)
	if l.MessageMode() != ModeOff || l.UseGlobalPath() || !l.DebugOnly() {
		t.Errorf("policy = %+v", l.Policy())
	}
}

func TestHubOrderAndUnsubscribe(t *testing.T) {
	var h hub
	var calls []string

	first := h.subscribe(func(Record) { calls = append(calls, "first") })
	h.subscribe(func(Record) { calls = append(calls, "second") })
	h.subscribe(nil)()

	h.fire(Record{})
	first()
	first()
	h.fire(Record{})

	want := []string{"first", "second", "second"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v; expected %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v; expected %v", calls, want)
		}
	}
	if h.len() != 1 {
		t.Errorf("len() = %d; expected 1", h.len())
	}
}
