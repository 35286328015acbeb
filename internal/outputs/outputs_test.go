package outputs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

func TestConsoleOutputColors(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsoleOutputWithWriter(&buf, true)

	if err := console.WriteColored("hello", color.FgRed, color.BgWhite); err != nil {
		t.Fatalf("WriteColored() error: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "hello") {
		t.Errorf("missing text in %q", output)
	}
	if !strings.Contains(output, "\x1b[") {
		t.Errorf("expected escape sequence in %q", output)
	}
	tail := output[strings.Index(output, "hello"):]
	if !strings.Contains(tail, "\x1b[0") || !strings.HasSuffix(tail, "m\n") {
		t.Errorf("expected color reset before newline in %q", output)
	}
}

func TestConsoleOutputPlain(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsoleOutputWithWriter(&buf, false)

	_ = console.WriteColored("plain", color.FgGreen, color.Reset)
	if buf.String() != "plain\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestTemplatePath(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	p := NewTemplatePath("logs/{name}-{date}.log", "db").WithClock(func() time.Time { return fixed })

	path, ok := p.Path()
	if !ok || path != "logs/db-2026-03-14.log" {
		t.Errorf("Path() = %q, %v", path, ok)
	}

	p.Invalidate()
	if _, ok := p.Path(); ok {
		t.Error("expected invalid path after Invalidate")
	}

	p.SetTemplate("other.log")
	if path, ok := p.Path(); !ok || path != "other.log" {
		t.Errorf("Path() after SetTemplate = %q, %v", path, ok)
	}

	empty := NewTemplatePath("", "x")
	if _, ok := empty.Path(); ok {
		t.Error("empty template must not resolve")
	}
}

func TestFileOutputAppend(t *testing.T) {
	dir := t.TempDir()
	paths := NewTemplatePath(filepath.Join(dir, "nested", "app.log"), "app")
	out := NewFileOutput(nil)

	if !out.Append(paths, "first") || !out.Append(paths, "second") {
		t.Fatal("expected writes to succeed")
	}

	data, err := os.ReadFile(filepath.Join(dir, "nested", "app.log"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("file content = %q", data)
	}
}

func TestFileOutputFailureInvalidatesPath(t *testing.T) {
	dir := t.TempDir()
	// A directory cannot be opened for appending.
	paths := NewTemplatePath(dir, "app")

	var failures int
	out := NewFileOutput(func(string, error) { failures++ })

	if out.Append(paths, "line") {
		t.Fatal("expected write to fail")
	}
	if paths.Valid() {
		t.Error("expected path to be invalidated")
	}
	if failures != 1 {
		t.Errorf("failures = %d; expected 1", failures)
	}

	// Subsequent writes are no-ops until the path is reconfigured.
	if out.Append(paths, "line") {
		t.Error("expected no-op on invalid path")
	}
	if failures != 1 {
		t.Errorf("failures = %d; expected no new failure", failures)
	}
}

// nestingPath re-enters the output from inside Path, the way a logging
// failure callback would.
type nestingPath struct {
	*TemplatePath
	out    *FileOutput
	nested bool
	result bool
}

func (n *nestingPath) Path() (string, bool) {
	path, ok := n.TemplatePath.Path()
	if !n.nested {
		n.nested = true
		n.result = n.out.Append(n, "nested")
	}
	return path, ok
}

func TestFileOutputReentrantWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")
	out := NewFileOutput(nil)
	paths := &nestingPath{TemplatePath: NewTemplatePath(file, "app"), out: out}

	if !out.Append(paths, "outer") {
		t.Fatal("outer write must complete")
	}
	if paths.result {
		t.Error("nested write must be rejected")
	}
	if out.Reentries() != 1 {
		t.Errorf("Reentries() = %d; expected 1", out.Reentries())
	}
	if paths.Valid() {
		t.Error("re-entrant write must invalidate the path")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "outer\n" {
		t.Errorf("file content = %q", data)
	}

	if out.Append(paths, "after") {
		t.Error("writes after invalidation must be no-ops")
	}
	if out.Busy() {
		t.Error("guard must be released")
	}
}

func TestFileOutputSimulatedGuard(t *testing.T) {
	dir := t.TempDir()
	paths := NewTemplatePath(filepath.Join(dir, "app.log"), "app")
	out := NewFileOutput(nil)

	// Simulate a write already in progress on this goroutine.
	out.owner.Store(goroutineID())
	if out.Append(paths, "second") {
		t.Error("second write must be rejected")
	}
	if paths.Valid() {
		t.Error("expected invalidated path")
	}
	out.owner.Store(0)

	if _, err := os.Stat(filepath.Join(dir, "app.log")); !os.IsNotExist(err) {
		t.Error("rejected write must not create the file")
	}
}

func TestGoroutineID(t *testing.T) {
	main := goroutineID()
	if main == 0 {
		t.Fatal("expected a goroutine id")
	}
	other := make(chan uint64)
	go func() { other <- goroutineID() }()
	if id := <-other; id == main || id == 0 {
		t.Errorf("goroutine ids: main=%d other=%d", main, id)
	}
}

func TestFileOutputFailureCallbackWritesAgain(t *testing.T) {
	dir := t.TempDir()
	// A directory cannot be opened for appending.
	paths := NewTemplatePath(dir, "app")

	var out *FileOutput
	var reasons []error
	out = NewFileOutput(func(_ string, err error) {
		reasons = append(reasons, err)
		out.Append(paths, "from callback")
	})

	if out.Append(paths, "line") {
		t.Fatal("expected write to fail")
	}
	if len(reasons) != 2 {
		t.Fatalf("failures = %v; expected an I/O failure and a re-entry", reasons)
	}
	if errors.Is(reasons[0], ErrReentrantWrite) {
		t.Errorf("first failure = %v; expected the I/O error", reasons[0])
	}
	if !errors.Is(reasons[1], ErrReentrantWrite) {
		t.Errorf("second failure = %v; expected ErrReentrantWrite", reasons[1])
	}
	if out.Reentries() != 1 {
		t.Errorf("Reentries() = %d; expected 1", out.Reentries())
	}
	if out.Busy() {
		t.Error("guard must be released")
	}
}
