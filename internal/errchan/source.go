// Package errchan provides the process-wide error notification source and the
// binder that attaches one logger to it.
package errchan

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Notification is the kind of error event delivered by a Source
type Notification uint8

const (
	// Unhandled is delivered for panics that escape a guarded goroutine
	Unhandled Notification = iota
	// FirstChance is delivered for every error reported as soon as it occurs,
	// whether or not something later handles it
	FirstChance
)

// String returns the notification name
func (n Notification) String() string {
	switch n {
	case Unhandled:
		return "unhandled"
	case FirstChance:
		return "first-chance"
	default:
		return "unknown"
	}
}

// Handler receives error notifications
type Handler func(n Notification, err error)

// Subscription identifies a registered handler
type Subscription uint64

// Source fans error notifications out to subscribers.
//
// Go has no runtime-wide exception events, so errors reach a Source
// explicitly: ReportFirstChance for errors as they happen and Recover / Go
// for panics.
type Source struct {
	mu       sync.RWMutex
	next     Subscription
	handlers map[Notification]map[Subscription]Handler
	binder   *Binder
}

// NewSource creates an empty Source
func NewSource() *Source {
	s := &Source{
		handlers: map[Notification]map[Subscription]Handler{
			Unhandled:   {},
			FirstChance: {},
		},
	}
	s.binder = NewBinder(s, ModeUnhandled)
	return s
}

// Binder returns the binder owned by the source. Everything attaching a
// logger to s goes through it, so at most one handler is bound at a time.
func (s *Source) Binder() *Binder {
	return s.binder
}

var (
	processSource     *Source
	processSourceOnce sync.Once
)

// Process returns the Source shared by the whole process
func Process() *Source {
	processSourceOnce.Do(func() {
		processSource = NewSource()
	})
	return processSource
}

// Subscribe registers h for notifications of kind n
func (s *Source) Subscribe(n Notification, h Handler) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	if s.handlers[n] == nil {
		s.handlers[n] = map[Subscription]Handler{}
	}
	s.handlers[n][s.next] = h
	return s.next
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (s *Source) Unsubscribe(id Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, hs := range s.handlers {
		delete(hs, id)
	}
}

// Subscribers returns how many handlers are registered for n
func (s *Source) Subscribers(n Notification) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.handlers[n])
}

// ReportFirstChance delivers err to FirstChance subscribers. nil is ignored.
func (s *Source) ReportFirstChance(err error) {
	if err != nil {
		s.deliver(FirstChance, err)
	}
}

// ReportUnhandled delivers err to Unhandled subscribers. nil is ignored.
func (s *Source) ReportUnhandled(err error) {
	if err != nil {
		s.deliver(Unhandled, err)
	}
}

// Recover reports a panic in progress as an unhandled error and re-panics
// with the original value. Use it as `defer source.Recover()`.
func (s *Source) Recover() {
	if r := recover(); r != nil {
		s.ReportUnhandled(PanicError(r))
		panic(r)
	}
}

// Go runs fn in a new goroutine guarded by Recover
func (s *Source) Go(fn func()) {
	go func() {
		defer s.Recover()
		fn()
	}()
}

func (s *Source) deliver(n Notification, err error) {
	s.mu.RLock()
	ids := make([]Subscription, 0, len(s.handlers[n]))
	for id := range s.handlers[n] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	handlers := make([]Handler, len(ids))
	for i, id := range ids {
		handlers[i] = s.handlers[n][id]
	}
	s.mu.RUnlock()

	for _, h := range handlers {
		h(n, err)
	}
}

// PanicError converts a recovered panic value into an error carrying the
// stack of the recovery point
func PanicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return errors.WithStack(err)
	}
	return errors.New(fmt.Sprint(r))
}
