package boltdb

import (
	"sync"

	"github.com/tiglabs/graphkv/kernel/store/kvstore"
	bolt "go.etcd.io/bbolt"
)

var _ kvstore.KVIterator = &Iterator{}

type Iterator struct {
	close  sync.Once
	tx     *bolt.Tx
	cursor *bolt.Cursor
	bound  kvstore.Bound
	valid  bool
	key    []byte
	val    []byte
}

func (i *Iterator) updateValid() {
	i.valid = i.bound.Contains(i.key)
}

func (i *Iterator) Seek(k []byte) {
	if i == nil {
		return
	}
	k, ok := i.bound.Clamp(k)
	if !ok {
		i.key, i.val = nil, nil
		i.valid = false
		return
	}
	i.key, i.val = i.cursor.Seek(k)
	i.updateValid()
}

func (i *Iterator) Next() {
	if i == nil || !i.valid {
		return
	}
	i.key, i.val = i.cursor.Next()
	i.updateValid()
}

func (i *Iterator) Current() ([]byte, []byte, bool) {
	if i == nil {
		return nil, nil, false
	}
	return i.key, i.val, i.valid
}

func (i *Iterator) Key() []byte {
	if i == nil {
		return nil
	}
	return i.key
}

func (i *Iterator) Value() []byte {
	if i == nil {
		return nil
	}
	return i.val
}

func (i *Iterator) Valid() bool {
	if i == nil {
		return false
	}
	return i.valid
}

func (i *Iterator) Close() error {
	if i == nil {
		return nil
	}
	i.close.Do(func() {
		if i.tx != nil {
			i.tx.Rollback()
		}
		i.valid = false
	})

	return nil
}
