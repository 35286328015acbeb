package lumen

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/Lunar-Chipter/lumen/internal/errchan"
)

func useTestDefault(t *testing.T, opts ...Option) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	clock := func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	base := []Option{WithConsole(&buf), WithClock(clock), WithErrorSource(errchan.NewSource())}
	env := NewEnvironment(append(base, opts...)...)
	prev := SetDefault(env)
	t.Cleanup(func() {
		SetDefault(prev)
		_ = env.Close()
	})
	return &buf
}

func TestDefaultIsShared(t *testing.T) {
	useTestDefault(t)
	if Default() != Default() {
		t.Error("Default must return the same environment")
	}
}

func TestPackageShortcuts(t *testing.T) {
	buf := useTestDefault(t)

	LogMessage("app", "started")
	LogMessagef("app", Warning, "%s is slow", "disk")
	LogToConsole("raw", color.Reset, color.Reset)
	LogLevelToConsole("leveled", Information)

	want := []string{
		"[2024-01-02 03:04:05.000] (Information) >> started",
		"[2024-01-02 03:04:05.000] (Warning) >> disk is slow",
		"raw",
		"[2024-01-02 03:04:05.000] (Information) >> leveled",
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("lines = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q; expected %q", i, got[i], want[i])
		}
	}
}

func TestShortcutsErrors(t *testing.T) {
	buf := useTestDefault(t)
	var records []Record
	OnAnyMessage(func(r Record) { records = append(records, r) })

	err := errors.New("broken")
	if LogAndRethrow("app", err, WithoutTrace()) != err {
		t.Error("LogAndRethrow must return the same error")
	}
	LogException("app", err, WithMessage("context"), WithLevel(Warning))

	if len(records) != 2 {
		t.Fatalf("records = %d", len(records))
	}
	if records[1].Level().Name() != "Warning" || records[1].Message() != "context" {
		t.Errorf("record = %s %q", records[1].Level(), records[1].Message())
	}
	if !strings.Contains(buf.String(), "*errors.errorString: broken") {
		t.Errorf("console = %q", buf.String())
	}
}

func TestRecoverReportsPanics(t *testing.T) {
	useTestDefault(t, WithDefinition("crash", UseMode(ModeConsole)))
	if !SetErrorLog("crash") {
		t.Fatal("SetErrorLog failed")
	}
	var records []Record
	OnAnyMessage(func(r Record) { records = append(records, r) })

	func() {
		defer func() {
			if r := recover(); r != "kaboom" {
				t.Errorf("recovered %v; expected the original panic value", r)
			}
		}()
		defer Recover()
		panic("kaboom")
	}()

	if len(records) != 1 || records[0].Level().Name() != "Critical" || records[0].Kind() != "crash" {
		t.Fatalf("records = %+v", records)
	}
	if !strings.Contains(records[0].Text(), "kaboom") {
		t.Errorf("text = %q", records[0].Text())
	}
}

func TestReportFirstChance(t *testing.T) {
	useTestDefault(t, WithErrorMode(ErrorModeAll), WithErrorLog("errors"))
	var records []Record
	OnAnyMessage(func(r Record) { records = append(records, r) })

	ReportFirstChance(errors.New("retrying"))
	if len(records) != 1 || records[0].Level().Name() != "Error" {
		t.Fatalf("records = %+v", records)
	}
}

func TestShortcutTracesStartAtCaller(t *testing.T) {
	useTestDefault(t)
	var records []Record
	OnAnyMessage(func(r Record) { records = append(records, r) })

	LogMessage("app", "message", Error)
	LogMessagef("app", Critical, "%d", 1)
	LogException("app", errors.New("exception"))
	_ = LogAndRethrow("app", errors.New("rethrown"), WithoutTrace())

	if len(records) != 4 {
		t.Fatalf("records = %d", len(records))
	}
	for i, r := range records {
		first := strings.Split(r.FormattedTrace(), "\n")[0]
		if !strings.Contains(first, "TestShortcutTracesStartAtCaller") {
			t.Errorf("record %d first frame = %q; expected the test", i, first)
		}
	}
}
