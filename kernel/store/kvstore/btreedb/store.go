// Package btreedb is an in-memory KVStore backed by one B-tree per partition.
// Iterators read a copy-on-write clone taken when they are created.
package btreedb

import (
	"bytes"
	"sync"

	"github.com/google/btree"
	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/kernel/store/kvstore"
	ubytes "github.com/tiglabs/graphkv/util/bytes"
)

var _ kvstore.KVStore = &Store{}

const DefaultDegree = 32

type StoreConfig struct {
	Degree     int
	Partitions []string
}

type dbItem struct {
	key   []byte
	value []byte
}

func lessItem(a, b dbItem) bool {
	return bytes.Compare(a.key, b.key) < 0
}

type Store struct {
	mu         sync.RWMutex
	partitions []string
	trees      map[string]*btree.BTreeG[dbItem]
	closed     bool
}

func New(config *StoreConfig) (*Store, error) {
	if config == nil {
		config = &StoreConfig{}
	}
	degree := config.Degree
	if degree == 0 {
		degree = DefaultDegree
	}
	if degree < 2 {
		return nil, errors.Errorf("invalid btree degree[%d]", degree)
	}
	partitions, err := kvstore.CheckPartitions(config.Partitions)
	if err != nil {
		return nil, err
	}
	s := &Store{
		partitions: partitions,
		trees:      make(map[string]*btree.BTreeG[dbItem], len(partitions)),
	}
	for _, p := range partitions {
		s.trees[p] = btree.NewG[dbItem](degree, lessItem)
	}
	return s, nil
}

func (s *Store) Partitions() []string {
	return append([]string(nil), s.partitions...)
}

// tree must be called with s.mu held.
func (s *Store) tree(partition string) (*btree.BTreeG[dbItem], error) {
	if s.closed {
		return nil, kvstore.ErrClosed
	}
	t, ok := s.trees[partition]
	if !ok {
		return nil, errors.Wrapf(kvstore.ErrUnknownPartition, "partition[%v]", partition)
	}
	return t, nil
}

func (s *Store) Get(partition string, key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.tree(partition)
	if err != nil {
		return nil, err
	}
	it, ok := t.Get(dbItem{key: key})
	if !ok {
		return nil, kvstore.ErrNotFound
	}
	return ubytes.CloneBytes(it.value), nil
}

// snapshot clones the partition tree. Clone marks shared nodes copy-on-write and
// so needs the write lock.
func (s *Store) snapshot(partition string) (*btree.BTreeG[dbItem], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.tree(partition)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

func (s *Store) PrefixIterator(partition string, prefix []byte) (kvstore.KVIterator, error) {
	t, err := s.snapshot(partition)
	if err != nil {
		return nil, err
	}
	rv := &Iterator{
		tree:  t,
		bound: kvstore.PrefixBound(prefix),
	}
	rv.Seek(prefix)
	return rv, nil
}

func (s *Store) RangeIterator(partition string, start, end []byte) (kvstore.KVIterator, error) {
	t, err := s.snapshot(partition)
	if err != nil {
		return nil, err
	}
	rv := &Iterator{
		tree:  t,
		bound: kvstore.RangeBound(start, end),
	}
	rv.Seek(start)
	return rv, nil
}

func (s *Store) NewKVBatch() kvstore.KVBatch {
	return kvstore.NewBatch()
}

func (s *Store) ExecuteBatch(batch kvstore.KVBatch) error {
	if batch == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ops := batch.Operations()
	// resolve every partition before the first write so a bad batch changes nothing
	trees := make([]*btree.BTreeG[dbItem], len(ops))
	for i, op := range ops {
		t, err := s.tree(op.Partition())
		if err != nil {
			return err
		}
		if len(op.Key()) == 0 {
			return kvstore.ErrEmptyKey
		}
		trees[i] = t
	}
	for i, op := range ops {
		trees[i].ReplaceOrInsert(dbItem{
			key:   ubytes.CloneBytes(op.Key()),
			value: ubytes.CloneBytes(op.Value()),
		})
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.trees = nil
	return nil
}
