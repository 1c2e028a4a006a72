// Package kvstore defines the engine-neutral sorted key-value interfaces used by the
// graph storage layer. A store owns one or more named partitions; each partition is an
// independently ordered keyspace. Batches may span partitions of one store and are
// applied atomically by ExecuteBatch.
//
// All KVStore implementations are safe for concurrent use. Iterators and batches are not.
package kvstore

import "github.com/pkg/errors"

// DefaultPartition is the partition of a store opened without explicit partitions.
const DefaultPartition = "default"

var (
	ErrNotFound         = errors.New("key not found")
	ErrUnknownPartition = errors.New("unknown partition")
	ErrClosed           = errors.New("store closed")
	ErrEmptyKey         = errors.New("empty key")
	// ErrBatchTooLarge is returned by engines that cannot apply a batch in one
	// transaction. Nothing of the batch is applied.
	ErrBatchTooLarge = errors.New("batch too large for one transaction")
)

type KVStore interface {
	// Partitions lists the partitions the store was opened with, in open order.
	Partitions() []string

	// Get returns a copy of the value stored under key, or ErrNotFound.
	Get(partition string, key []byte) ([]byte, error)

	// PrefixIterator returns a KVIterator that will
	// visit all K/V pairs with the provided prefix
	PrefixIterator(partition string, prefix []byte) (KVIterator, error)

	// RangeIterator returns a KVIterator that will
	// visit all K/V pairs >= start AND < end.
	// A nil start or end leaves that side unbounded.
	RangeIterator(partition string, start, end []byte) (KVIterator, error)

	NewKVBatch() KVBatch

	// ExecuteBatch applies every operation of the batch as one unit.
	ExecuteBatch(batch KVBatch) error

	Close() error
}

// KVIterator is an abstraction around key iteration
type KVIterator interface {

	// Seek will advance the iterator to the first key >= key. A prefix iterator
	// clamps the target into its prefix range.
	Seek(key []byte)

	// Next will advance the iterator to the next key
	Next()

	// Key returns the key pointed to by the iterator
	// The bytes returned are **ONLY** valid until the next call to Seek/Next/Close
	// Continued use after that requires that they be copied.
	Key() []byte

	// Value returns the value pointed to by the iterator
	// The bytes returned are **ONLY** valid until the next call to Seek/Next/Close
	// Continued use after that requires that they be copied.
	Value() []byte

	// Valid returns whether or not the iterator is in a valid state.
	// A prefix iterator becomes invalid at the first key not carrying its prefix.
	Valid() bool

	// Current returns Key(),Value(),Valid() in a single operation
	Current() ([]byte, []byte, bool)

	// Close closes the iterator
	Close() error
}

type KVBatch interface {

	// Set records key=val for the partition.
	// both key and value []byte may be reused as soon as this call returns
	Set(partition string, key, val []byte)

	// Operations returns every recorded operation in insertion order.
	Operations() []Operation

	Len() int

	// Reset frees resources for this batch and allows reuse
	Reset()

	// Close frees resources
	Close() error
}

// CountRange counts the keys of partition in [start, end).
func CountRange(s KVStore, partition string, start, end []byte) (int, error) {
	it, err := s.RangeIterator(partition, start, end)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	n := 0
	for ; it.Valid(); it.Next() {
		n++
	}
	return n, nil
}

// CheckPartitions validates the partition list a store is opened with.
func CheckPartitions(partitions []string) ([]string, error) {
	if len(partitions) == 0 {
		return []string{DefaultPartition}, nil
	}
	seen := make(map[string]struct{}, len(partitions))
	for _, p := range partitions {
		if p == "" {
			return nil, errors.Wrap(ErrUnknownPartition, "empty partition name")
		}
		if _, ok := seen[p]; ok {
			return nil, errors.Errorf("duplicated partition[%v]", p)
		}
		seen[p] = struct{}{}
	}
	return append([]string(nil), partitions...), nil
}
