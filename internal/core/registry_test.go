package core

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"

	"github.com/Lunar-Chipter/lumen/internal/outputs"
)

func countingFactory(calls *atomic.Int64) Factory {
	return func(kind Kind, opts []LoggerOption, _ bool) (*Logger, error) {
		calls.Add(1)
		return newLogger(kind, outputs.NewFileOutput(nil), opts...), nil
	}
}

func TestRegistryGetOrCreateIsSingleton(t *testing.T) {
	var calls atomic.Int64
	r := NewRegistry(countingFactory(&calls))

	first, err := r.GetOrCreate("net")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.GetOrCreate("net")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected the same logger for the same kind")
	}
	if calls.Load() != 1 {
		t.Errorf("factory calls = %d; expected 1", calls.Load())
	}
}

func TestRegistryConcurrentCreation(t *testing.T) {
	var calls atomic.Int64
	r := NewRegistry(countingFactory(&calls))

	const workers = 64
	results := make([]*Logger, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], _ = r.GetOrCreate("shared")
		}(i)
	}
	close(start)
	wg.Wait()

	for i, l := range results {
		if l == nil || l != results[0] {
			t.Fatalf("worker %d got a different logger", i)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("factory calls = %d; expected 1", calls.Load())
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d; expected 1", r.Len())
	}
}

func TestRegistryFailures(t *testing.T) {
	r := NewRegistry(nil)
	if _, err := r.GetOrCreate(""); !errors.Is(err, ErrEmptyKind) {
		t.Errorf("empty kind error = %v", err)
	}
	if _, err := r.GetOrCreate("x"); !errors.Is(err, ErrUndefinedKind) {
		t.Errorf("nil factory error = %v", err)
	}
	if r.EnsureRegistered("x") {
		t.Error("EnsureRegistered must fail without a factory")
	}

	failing := NewRegistry(func(Kind, []LoggerOption, bool) (*Logger, error) { return nil, errors.New("nope") })
	if _, err := failing.GetOrCreate("x"); err == nil {
		t.Error("factory errors must be returned")
	}
	if _, ok := failing.Resolve("x"); ok {
		t.Error("failed creations must not be registered")
	}
}

func TestRegistryKindsSorted(t *testing.T) {
	var calls atomic.Int64
	r := NewRegistry(countingFactory(&calls))
	for _, k := range []Kind{"ui", "audio", "net"} {
		if !r.EnsureRegistered(k) {
			t.Fatalf("EnsureRegistered(%q) failed", k)
		}
	}
	got := r.Kinds()
	want := []Kind{"audio", "net", "ui"}
	if len(got) != len(want) {
		t.Fatalf("Kinds() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Kinds() = %v; expected %v", got, want)
			break
		}
	}
}

func TestRegistryDefineRacesCreation(t *testing.T) {
	for i := 0; i < 50; i++ {
		var calls atomic.Int64
		r := NewRegistry(countingFactory(&calls))

		var defineErr error
		var l *Logger
		var wg sync.WaitGroup
		start := make(chan struct{})
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			defineErr = r.Define("svc", UseMode(ModeFile))
		}()
		go func() {
			defer wg.Done()
			<-start
			l, _ = r.GetOrCreate("svc")
		}()
		close(start)
		wg.Wait()

		// Either the definition reached the factory or Define reported the loss.
		if defineErr == nil && l.MessageMode() != ModeFile {
			t.Fatalf("round %d: Define succeeded but its options were not applied", i)
		}
		if defineErr != nil && !errors.Is(defineErr, ErrAlreadyCreated) {
			t.Fatalf("round %d: Define error = %v", i, defineErr)
		}
	}
}

func TestRegistryDefine(t *testing.T) {
	var calls atomic.Int64
	r := NewRegistry(countingFactory(&calls))

	if err := r.Define(""); !errors.Is(err, ErrEmptyKind) {
		t.Errorf("Define(\"\") = %v", err)
	}
	if err := r.Define("svc", UseDebugOnly(true)); err != nil {
		t.Fatal(err)
	}
	l, err := r.GetOrCreate("svc")
	if err != nil || !l.DebugOnly() {
		t.Fatalf("logger = %v, err = %v", l, err)
	}
	if err := r.Define("svc"); !errors.Is(err, ErrAlreadyCreated) {
		t.Errorf("Define after creation = %v", err)
	}
}
