package badgerdb

import (
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/tiglabs/graphkv/kernel/store/kvstore"
)

var _ kvstore.KVIterator = &Iterator{}

// Iterator works on namespaced keys internally and hands out keys with the
// partition namespace stripped.
type Iterator struct {
	close sync.Once
	tx    *badger.Txn
	iter  *badger.Iterator
	ns    []byte
	bound kvstore.Bound
	valid bool
	key   []byte
	val   []byte
}

func (i *Iterator) load() {
	i.key, i.val = nil, nil
	if !i.iter.Valid() {
		i.valid = false
		return
	}
	item := i.iter.Item()
	k := item.Key()
	i.valid = i.bound.Contains(k)
	if !i.valid {
		return
	}
	i.key = k[len(i.ns):]
	v, err := item.ValueCopy(nil)
	if err != nil {
		i.valid = false
		i.key = nil
		return
	}
	i.val = v
}

func (i *Iterator) Seek(k []byte) {
	if i == nil {
		return
	}
	k, ok := i.bound.Clamp(nsKey(i.ns, k))
	if !ok {
		i.key, i.val = nil, nil
		i.valid = false
		return
	}
	i.iter.Seek(k)
	i.load()
}

func (i *Iterator) Next() {
	if i == nil || !i.valid {
		return
	}
	i.iter.Next()
	i.load()
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
		i.iter.Close()
		i.tx.Discard()
		i.valid = false
	})
	return nil
}
