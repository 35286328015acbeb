package core

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyKind is returned when resolving the empty kind
	ErrEmptyKind = errors.New("empty logger kind")

	// ErrUndefinedKind is returned by strict environments for kinds never defined
	ErrUndefinedKind = errors.New("undefined logger kind")

	// ErrAlreadyCreated is returned by Define for kinds whose logger already exists
	ErrAlreadyCreated = errors.New("logger already created")
)

// Factory builds the logger for a kind on first use. opts are the options
// recorded by Define, and defined reports whether Define was called.
type Factory func(kind Kind, opts []LoggerOption, defined bool) (*Logger, error)

// Registry maps each Kind to its single Logger. Entries are inserted once and
// never removed.
type Registry struct {
	mu      sync.RWMutex
	loggers map[Kind]*Logger
	defs    map[Kind][]LoggerOption
	factory Factory
}

// NewRegistry creates a registry that builds missing loggers with factory
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		loggers: make(map[Kind]*Logger),
		defs:    make(map[Kind][]LoggerOption),
		factory: factory,
	}
}

// Define records opts for kind, handed to the factory when the logger is
// first created. It fails once the logger exists.
func (r *Registry) Define(kind Kind, opts ...LoggerOption) error {
	if kind == "" {
		return ErrEmptyKind
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loggers[kind]; ok {
		return errors.Wrapf(ErrAlreadyCreated, "kind %q", kind)
	}
	r.defs[kind] = append([]LoggerOption(nil), opts...)
	return nil
}

// Resolve returns the logger for kind without creating it
func (r *Registry) Resolve(kind Kind) (*Logger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.loggers[kind]
	return l, ok
}

// GetOrCreate returns the logger for kind, building it on first use.
// Concurrent callers for the same kind all receive the same logger.
func (r *Registry) GetOrCreate(kind Kind) (*Logger, error) {
	if kind == "" {
		return nil, ErrEmptyKind
	}
	if l, ok := r.Resolve(kind); ok {
		return l, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.loggers[kind]; ok {
		return l, nil
	}
	if r.factory == nil {
		return nil, errors.Wrapf(ErrUndefinedKind, "kind %q", kind)
	}
	opts, defined := r.defs[kind]
	l, err := r.factory(kind, opts, defined)
	if err != nil {
		return nil, err
	}
	r.loggers[kind] = l
	return l, nil
}

// EnsureRegistered creates the logger for kind if needed and reports whether
// it exists afterwards
func (r *Registry) EnsureRegistered(kind Kind) bool {
	_, err := r.GetOrCreate(kind)
	return err == nil
}

// Len returns the number of registered loggers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.loggers)
}

// Kinds returns the registered kinds in sorted order
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	kinds := make([]Kind, 0, len(r.loggers))
	for k := range r.loggers {
		kinds = append(kinds, k)
	}
	r.mu.RUnlock()

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
