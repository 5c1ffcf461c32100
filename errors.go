package animalcache

import (
	"errors"
	"fmt"

	"github.com/hupe1980/animalcache/internal/bst"
	"github.com/hupe1980/animalcache/model"
	"github.com/hupe1980/animalcache/source"
)

var (
	// ErrNotReady is returned by reads before the first successful build.
	// Callers are expected to fall back to the backing store.
	ErrNotReady = errors.New("cache not ready")
	// ErrClosed is returned once Close has been called.
	ErrClosed = errors.New("cache closed")
	// ErrInvalidRecord is the sentinel matched by *InvalidRecordError.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrBuildFailure is the sentinel matched by *BuildError.
	ErrBuildFailure = errors.New("cache build failed")
	// ErrNotFound is returned by source.MemoryStore for unknown ids. Cache
	// operations report unknown ids as a false result instead.
	ErrNotFound = source.ErrNotFound
)

// InvalidRecordError reports a record that cannot be indexed.
//
// errors.Is(err, ErrInvalidRecord) holds for every InvalidRecordError.
type InvalidRecordError struct {
	ID     string
	Reason string
	cause  error
}

func (e *InvalidRecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid record: %s", e.Reason)
	}
	return fmt.Sprintf("invalid record %q: %s", e.ID, e.Reason)
}

func (e *InvalidRecordError) Is(target error) bool { return target == ErrInvalidRecord }

func (e *InvalidRecordError) Unwrap() error { return e.cause }

// BuildError reports a failed build. The phase is the one the cache returned to:
// PhaseUninitialized after a failed first build, PhaseReady when a previous
// snapshot is still being served.
//
// The original underlying error can be accessed via errors.Unwrap.
type BuildError struct {
	Generation uint64
	Phase      Phase
	cause      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("cache build %d failed (phase %s): %v", e.Generation, e.Phase, e.cause)
}

func (e *BuildError) Is(target error) bool { return target == ErrBuildFailure }

func (e *BuildError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ire *InvalidRecordError
	if errors.As(err, &ire) {
		return err
	}
	if errors.Is(err, model.ErrMissingID) || errors.Is(err, bst.ErrEmptyKey) {
		return &InvalidRecordError{Reason: "missing animal_id", cause: err}
	}
	return err
}
