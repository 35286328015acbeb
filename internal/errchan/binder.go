package errchan

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Mode selects which notifications a bound handler receives
type Mode uint8

const (
	// ModeOff subscribes nothing
	ModeOff Mode = iota
	// ModeUnhandled subscribes to unhandled notifications only
	ModeUnhandled
	// ModeAll subscribes to unhandled and first-chance notifications
	ModeAll
)

var modeNames = [...]string{"off", "unhandled", "all"}

// String returns the mode name
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode parses "off", "unhandled" or "all"
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return ModeOff, errors.Errorf("invalid error mode: %q", s)
}

// Binder keeps at most one handler attached to a Source
type Binder struct {
	mu      sync.Mutex
	source  *Source
	mode    Mode
	owner   string
	handler Handler
	subs    []Subscription
	binding uint64 // Current binding, 0 when unbound
	last    uint64
}

// NewBinder creates a binder on source with the given mode
func NewBinder(source *Source, mode Mode) *Binder {
	return &Binder{source: source, mode: mode}
}

// Bind attaches handler under owner, replacing any previous binding. The
// returned token identifies this binding for Release and Holds.
func (b *Binder) Bind(owner string, handler Handler) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unsubscribeLocked()
	b.last++
	b.binding = b.last
	b.owner = owner
	b.handler = handler
	b.subscribeLocked()
	return b.binding
}

// Unbind detaches the current handler, if any
func (b *Binder) Unbind() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unbindLocked()
}

// Release detaches the handler only while token is still the current
// binding, and reports whether it did
func (b *Binder) Release(token uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if token == 0 || token != b.binding {
		return false
	}
	b.unbindLocked()
	return true
}

// Holds reports whether token is the current binding
func (b *Binder) Holds(token uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return token != 0 && token == b.binding
}

func (b *Binder) unbindLocked() {
	b.unsubscribeLocked()
	b.binding = 0
	b.owner = ""
	b.handler = nil
}

// Mode returns the current mode
func (b *Binder) Mode() Mode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// SetMode changes the mode, moving the bound handler's subscriptions
func (b *Binder) SetMode(mode Mode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if mode == b.mode {
		return
	}
	b.unsubscribeLocked()
	b.mode = mode
	b.subscribeLocked()
}

// Owner returns the name of the bound owner, "" when nothing is bound
func (b *Binder) Owner() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.owner
}

func (b *Binder) subscribeLocked() {
	if b.handler == nil {
		return
	}
	switch b.mode {
	case ModeUnhandled:
		b.subs = append(b.subs, b.source.Subscribe(Unhandled, b.handler))
	case ModeAll:
		b.subs = append(b.subs,
			b.source.Subscribe(Unhandled, b.handler),
			b.source.Subscribe(FirstChance, b.handler),
		)
	}
}

func (b *Binder) unsubscribeLocked() {
	for _, id := range b.subs {
		b.source.Unsubscribe(id)
	}
	b.subs = b.subs[:0]
}
