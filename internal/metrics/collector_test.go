package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounters(t *testing.T) {
	c := NewCollector()

	c.RecordDispatched("db", "Warning")
	c.RecordDispatched("db", "Warning")
	c.RecordRejected("db", ReasonOutOfRange)
	c.RecordFileFailure("db", FailureReentrant)
	c.RecordConsoleMessage("Error")
	c.SetLoggers(3)

	if got := testutil.ToFloat64(c.Records("db", "Warning")); got != 2 {
		t.Errorf("records = %v; expected 2", got)
	}
	if got := testutil.ToFloat64(c.Rejected("db", ReasonOutOfRange)); got != 1 {
		t.Errorf("rejected = %v; expected 1", got)
	}
	if got := testutil.ToFloat64(c.FileFailures("db", FailureReentrant)); got != 1 {
		t.Errorf("file failures = %v; expected 1", got)
	}
	if got := testutil.ToFloat64(c.ConsoleMessages("Error")); got != 1 {
		t.Errorf("console messages = %v; expected 1", got)
	}
	if got := testutil.ToFloat64(c.Loggers()); got != 3 {
		t.Errorf("loggers = %v; expected 3", got)
	}

	n, err := testutil.GatherAndCount(c.Registry(), "lumen_records_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error: %v", err)
	}
	if n != 1 {
		t.Errorf("gathered %d record series; expected 1", n)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.RecordDispatched("db", "Warning")
	c.RecordRejected("db", ReasonModeOff)
	c.RecordFileFailure("db", FailureIO)
	c.RecordConsoleMessage("Error")
	c.SetLoggers(1)
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.RecordDispatched("x", "Error")
	if got := testutil.ToFloat64(b.Records("x", "Error")); got != 0 {
		t.Errorf("collectors share state: %v", got)
	}
}
