package btreedb

import (
	"github.com/google/btree"
	"github.com/tiglabs/graphkv/kernel/store/kvstore"
)

var _ kvstore.KVIterator = &Iterator{}

type Iterator struct {
	tree  *btree.BTreeG[dbItem]
	bound kvstore.Bound
	valid bool
	key   []byte
	val   []byte
}

func (i *Iterator) seekGE(k []byte) {
	i.key, i.val = nil, nil
	i.tree.AscendGreaterOrEqual(dbItem{key: k}, func(it dbItem) bool {
		i.key, i.val = it.key, it.value
		return false
	})
	i.valid = i.bound.Contains(i.key)
}

func (i *Iterator) Seek(k []byte) {
	if i == nil || i.tree == nil {
		return
	}
	k, ok := i.bound.Clamp(k)
	if !ok {
		i.key, i.val = nil, nil
		i.valid = false
		return
	}
	i.seekGE(k)
}

func (i *Iterator) Next() {
	if i == nil || !i.valid {
		return
	}
	// the smallest key strictly greater than the current one
	succ := make([]byte, len(i.key)+1)
	copy(succ, i.key)
	i.seekGE(succ)
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
	i.tree = nil
	i.valid = false
	return nil
}
