package storage

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnknownMode   = errors.New("unknown storage mode")
	ErrUnknownEngine = errors.New("unknown storage engine")
	ErrNoPath        = errors.New("no storage path")
	// ErrMemTableTooSmall rejects a badger mem table below badgerdb.MinMemTable.
	ErrMemTableTooSmall = errors.New("mem table size too small")
	// ErrCorruptKey is returned by iterators opened with strict decoding when a key
	// under a scanned prefix does not decode as the expected record.
	ErrCorruptKey = errors.New("corrupt key")
)

// PartialCommitError reports a multi-store commit that failed after some stores
// had already applied their batch. Applied writes are not rolled back.
type PartialCommitError struct {
	Applied []Kind
	Failed  Kind
	Err     error
}

func (e *PartialCommitError) Error() string {
	applied := make([]string, len(e.Applied))
	for i, k := range e.Applied {
		applied[i] = k.String()
	}
	return fmt.Sprintf("partial commit: %v failed after [%s] applied: %v",
		e.Failed, strings.Join(applied, ","), e.Err)
}

func (e *PartialCommitError) Unwrap() error {
	return e.Err
}
