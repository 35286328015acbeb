package stack

import (
	"runtime"

	"github.com/pkg/errors"
)

// Source supplies the frames of the current call stack
type Source interface {
	// Capture returns up to max frames, skipping skip frames above the caller
	// of Capture. max <= 0 means MAX_STACK_DEPTH.
	Capture(skip, max int) []Frame
}

// RuntimeSource reads frames from the Go runtime
type RuntimeSource struct{}

// Capture implements Source
func (RuntimeSource) Capture(skip, max int) []Frame {
	if max <= 0 || max > MAX_STACK_DEPTH {
		max = MAX_STACK_DEPTH
	}
	pc := make([]uintptr, max)
	// +2 skips runtime.Callers and Capture itself.
	n := runtime.Callers(skip+2, pc)
	if n == 0 {
		return nil
	}
	return framesFromPCs(pc[:n])
}

// framesFromPCs resolves return addresses as produced by runtime.Callers.
func framesFromPCs(pcs []uintptr) []Frame {
	frames := make([]Frame, 0, len(pcs))
	iter := runtime.CallersFrames(pcs)
	for {
		f, more := iter.Next()
		if f.Function != "" || f.File != "" {
			frames = append(frames, Frame{
				Method: ParseFunction(f.Function),
				File:   f.File,
				Line:   f.Line,
			})
		}
		if !more {
			break
		}
	}
	return frames
}

// stackTracer is implemented by errors created or wrapped with github.com/pkg/errors
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// FromError returns the stack recorded when err, or the innermost error in
// its chain that carries one, was created. ok is false when no error in the
// chain recorded a stack.
func FromError(err error) (frames []Frame, ok bool) {
	var deepest stackTracer
	for e := err; e != nil; e = unwrap(e) {
		if st, isTracer := e.(stackTracer); isTracer {
			deepest = st
		}
	}
	if deepest == nil {
		return nil, false
	}

	trace := deepest.StackTrace()
	if len(trace) == 0 {
		return nil, false
	}
	if len(trace) > MAX_STACK_DEPTH {
		trace = trace[:MAX_STACK_DEPTH]
	}
	// pkg/errors keeps the raw runtime.Callers values.
	pcs := make([]uintptr, len(trace))
	for i, f := range trace {
		pcs[i] = uintptr(f)
	}
	frames = framesFromPCs(pcs)
	return frames, len(frames) > 0
}

// unwrap follows both pkg/errors Cause and standard Unwrap chains.
func unwrap(err error) error {
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		return e.Unwrap()
	case interface{ Cause() error }:
		return e.Cause()
	}
	return nil
}
