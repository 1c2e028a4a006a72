// Package null is a KVStore that accepts every write and stores nothing. It is used
// to measure the cost of key encoding and routing without engine overhead.
package null

import (
	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/kernel/store/kvstore"
)

var _ kvstore.KVStore = &Store{}

type Store struct {
	partitions []string
	known      map[string]struct{}
}

func New(partitions []string) (*Store, error) {
	partitions, err := kvstore.CheckPartitions(partitions)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(partitions))
	for _, p := range partitions {
		known[p] = struct{}{}
	}
	return &Store{partitions: partitions, known: known}, nil
}

func (r *Store) check(partition string) error {
	if _, ok := r.known[partition]; !ok {
		return errors.Wrapf(kvstore.ErrUnknownPartition, "partition[%v]", partition)
	}
	return nil
}

func (r *Store) Partitions() []string {
	return append([]string(nil), r.partitions...)
}

func (r *Store) Get(partition string, key []byte) ([]byte, error) {
	if err := r.check(partition); err != nil {
		return nil, err
	}
	return nil, kvstore.ErrNotFound
}

func (r *Store) PrefixIterator(partition string, prefix []byte) (kvstore.KVIterator, error) {
	if err := r.check(partition); err != nil {
		return nil, err
	}
	return &iterator{}, nil
}

func (r *Store) RangeIterator(partition string, start, end []byte) (kvstore.KVIterator, error) {
	if err := r.check(partition); err != nil {
		return nil, err
	}
	return &iterator{}, nil
}

func (r *Store) NewKVBatch() kvstore.KVBatch {
	return &batch{}
}

func (r *Store) ExecuteBatch(kvstore.KVBatch) error {
	return nil
}

func (r *Store) Close() error {
	return nil
}

type iterator struct{}

func (i *iterator) Seek(k []byte) {}
func (i *iterator) Next()         {}

func (i *iterator) Current() ([]byte, []byte, bool) {
	return nil, nil, false
}

func (i *iterator) Key() []byte {
	return nil
}

func (i *iterator) Value() []byte {
	return nil
}

func (i *iterator) Valid() bool {
	return false
}

func (i *iterator) Close() error {
	return nil
}

// batch only counts, so callers can still report how much they wrote.
type batch struct {
	n int
}

func (b *batch) Set(partition string, key, val []byte) { b.n++ }
func (b *batch) Operations() []kvstore.Operation       { return nil }
func (b *batch) Len() int                              { return b.n }
func (b *batch) Reset()                                { b.n = 0 }
func (b *batch) Close() error                          { return nil }
