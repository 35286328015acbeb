package outputs

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// ErrReentrantWrite is reported when a file write is started while the same
// goroutine is already writing through the same FileOutput.
var ErrReentrantWrite = errors.New("re-entrant file write")

// FileOutput appends text lines to the file chosen by a PathResolver.
//
// Writes from different goroutines are serialized. A write started from the
// goroutine that is already inside Append (for example a failure callback that
// logs again) invalidates the path and returns without writing; the outer
// write still completes and reports ErrReentrantWrite once it has released
// the output.
type FileOutput struct {
	mu        sync.Mutex
	owner     atomic.Uint64
	reentries atomic.Int64
	onFailure func(path string, err error)
}

// NewFileOutput creates a file output. onFailure, when non-nil, is called for
// every swallowed failure.
func NewFileOutput(onFailure func(path string, err error)) *FileOutput {
	return &FileOutput{onFailure: onFailure}
}

// Append writes text and a trailing newline to the resolver's current path.
// It reports whether the line was written; failures are never returned.
func (fo *FileOutput) Append(paths PathResolver, text string) bool {
	gid := goroutineID()
	if gid != 0 && fo.owner.Load() == gid {
		fo.reentries.Add(1)
		paths.Invalidate()
		return false
	}

	written, nested := fo.append(gid, paths, text)
	if nested > 0 {
		fo.fail("", ErrReentrantWrite)
	}
	return written
}

// append performs one guarded write and returns how many re-entrant writes
// were rejected while it held the output
func (fo *FileOutput) append(gid uint64, paths PathResolver, text string) (bool, int64) {
	fo.mu.Lock()
	fo.owner.Store(gid)
	before := fo.reentries.Load()
	defer func() {
		fo.owner.Store(0)
		fo.mu.Unlock()
	}()

	path, ok := paths.Path()
	if !ok {
		return false, fo.reentries.Load() - before
	}
	if err := appendLine(path, text); err != nil {
		paths.Invalidate()
		fo.fail(path, err)
		return false, fo.reentries.Load() - before
	}
	return true, fo.reentries.Load() - before
}

// Reentries returns how many re-entrant writes were rejected.
func (fo *FileOutput) Reentries() int64 {
	return fo.reentries.Load()
}

// Busy reports whether a write is in progress.
func (fo *FileOutput) Busy() bool {
	return fo.owner.Load() != 0
}

func (fo *FileOutput) fail(path string, err error) {
	if fo.onFailure != nil {
		fo.onFailure(path, err)
	}
}

func appendLine(path, text string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create log directory %s", dir)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return errors.Wrapf(err, "open log file %s", path)
	}

	if _, err := file.WriteString(text + "\n"); err != nil {
		_ = file.Close()
		return errors.Wrapf(err, "append to %s", path)
	}
	return errors.Wrapf(file.Close(), "close %s", path)
}
