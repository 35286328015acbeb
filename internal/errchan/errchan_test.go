package errchan

import (
	stderrors "errors"
	"strings"
	"testing"
)

type recorder struct {
	got []Notification
}

func (r *recorder) handle(n Notification, _ error) {
	r.got = append(r.got, n)
}

func TestBinderModes(t *testing.T) {
	tests := []struct {
		mode        Mode
		unhandled   int
		firstChance int
	}{
		{ModeOff, 0, 0},
		{ModeUnhandled, 1, 0},
		{ModeAll, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			source := NewSource()
			binder := NewBinder(source, tt.mode)
			rec := &recorder{}
			binder.Bind("db", rec.handle)

			if n := source.Subscribers(Unhandled); n != tt.unhandled {
				t.Errorf("unhandled subscribers = %d; expected %d", n, tt.unhandled)
			}
			if n := source.Subscribers(FirstChance); n != tt.firstChance {
				t.Errorf("first-chance subscribers = %d; expected %d", n, tt.firstChance)
			}

			source.ReportUnhandled(stderrors.New("u"))
			source.ReportFirstChance(stderrors.New("f"))
			if len(rec.got) != tt.unhandled+tt.firstChance {
				t.Errorf("delivered %v", rec.got)
			}
		})
	}
}

func TestBinderRebindUnsubscribesPrevious(t *testing.T) {
	source := NewSource()
	binder := NewBinder(source, ModeAll)
	first, second := &recorder{}, &recorder{}

	binder.Bind("first", first.handle)
	binder.Bind("second", second.handle)

	source.ReportFirstChance(stderrors.New("x"))
	if len(first.got) != 0 {
		t.Error("previous owner must not receive notifications")
	}
	if len(second.got) != 1 {
		t.Errorf("new owner got %d notifications", len(second.got))
	}
	if binder.Owner() != "second" {
		t.Errorf("Owner() = %q", binder.Owner())
	}
	if source.Subscribers(Unhandled) != 1 || source.Subscribers(FirstChance) != 1 {
		t.Error("expected exactly one subscription per notification kind")
	}
}

func TestBinderSetMode(t *testing.T) {
	source := NewSource()
	binder := NewBinder(source, ModeUnhandled)
	rec := &recorder{}
	binder.Bind("db", rec.handle)

	source.ReportFirstChance(stderrors.New("ignored"))
	binder.SetMode(ModeAll)
	source.ReportFirstChance(stderrors.New("seen"))
	binder.SetMode(ModeOff)
	source.ReportUnhandled(stderrors.New("ignored"))

	if len(rec.got) != 1 || rec.got[0] != FirstChance {
		t.Errorf("delivered %v", rec.got)
	}

	binder.Unbind()
	binder.SetMode(ModeAll)
	if source.Subscribers(Unhandled) != 0 {
		t.Error("unbound binder must not subscribe")
	}
}

func TestSourceRecover(t *testing.T) {
	source := NewSource()
	var reported error
	source.Subscribe(Unhandled, func(_ Notification, err error) { reported = err })

	func() {
		defer func() {
			if r := recover(); r != "kaboom" {
				t.Errorf("expected re-panic with original value, got %v", r)
			}
		}()
		defer source.Recover()
		panic("kaboom")
	}()

	if reported == nil || !strings.Contains(reported.Error(), "kaboom") {
		t.Errorf("reported = %v", reported)
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"off", "Unhandled", "ALL"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("ParseMode(%q) error: %v", s, err)
		}
	}
	if _, err := ParseMode("sometimes"); err == nil {
		t.Error("expected error")
	}
}

func TestBinderReleaseOnlyCurrentBinding(t *testing.T) {
	source := NewSource()
	binder := source.Binder()
	if binder != source.Binder() {
		t.Fatal("a source must own a single binder")
	}
	first, second := &recorder{}, &recorder{}

	old := binder.Bind("first", first.handle)
	current := binder.Bind("second", second.handle)
	if binder.Holds(old) || !binder.Holds(current) {
		t.Fatal("only the latest binding is held")
	}
	if binder.Release(old) {
		t.Error("releasing a replaced binding must do nothing")
	}

	source.ReportUnhandled(stderrors.New("x"))
	if len(first.got) != 0 || len(second.got) != 1 {
		t.Errorf("first=%v second=%v", first.got, second.got)
	}

	if !binder.Release(current) || binder.Owner() != "" {
		t.Error("Release of the current binding must unbind")
	}
	if source.Subscribers(Unhandled) != 0 || binder.Release(0) {
		t.Error("nothing must stay subscribed")
	}
}
