package storage

import (
	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/kernel/store/kvstore"
	"github.com/tiglabs/graphkv/util/log"
)

// Iterator is a lazy scan over one key prefix, decoding each key into T. The scan
// is opened by the first call to Next, so an Iterator that is never advanced holds
// no engine resources. Close must be called if iteration stops early.
type Iterator[T any] struct {
	open   func() (kvstore.KVIterator, error)
	decode func([]byte) (T, error)
	strict bool

	it   kvstore.KVIterator
	item T
	err  error
	done bool
}

func newIterator[T any](open func() (kvstore.KVIterator, error), decode func([]byte) (T, error), strict bool) *Iterator[T] {
	return &Iterator[T]{open: open, decode: decode, strict: strict}
}

// Next advances to the next decodable record and reports whether there is one.
func (i *Iterator[T]) Next() bool {
	if i.done {
		return false
	}
	if i.it == nil {
		it, err := i.open()
		if err != nil {
			i.err = err
			i.finish()
			return false
		}
		i.it = it
	} else {
		i.it.Next()
	}

	for ; i.it.Valid(); i.it.Next() {
		v, err := i.decode(i.it.Key())
		if err != nil {
			if i.strict {
				i.err = errors.Wrapf(ErrCorruptKey, "key[%x]: %v", i.it.Key(), err)
				i.finish()
				return false
			}
			log.Debug("skip undecodable key[%x]: %v", i.it.Key(), err)
			continue
		}
		i.item = v
		return true
	}
	i.finish()
	return false
}

// Item is the record Next stopped at.
func (i *Iterator[T]) Item() T {
	return i.item
}

func (i *Iterator[T]) Err() error {
	return i.err
}

func (i *Iterator[T]) finish() {
	i.done = true
	if i.it != nil {
		if err := i.it.Close(); err != nil && i.err == nil {
			i.err = err
		}
		i.it = nil
	}
}

func (i *Iterator[T]) Close() error {
	if !i.done {
		i.finish()
	}
	return i.err
}

// Collect drains the iterator.
func Collect[T any](i *Iterator[T]) ([]T, error) {
	defer i.Close()
	var rv []T
	for i.Next() {
		rv = append(rv, i.Item())
	}
	return rv, i.Err()
}
