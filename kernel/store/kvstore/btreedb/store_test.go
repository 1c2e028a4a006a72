package btreedb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tiglabs/graphkv/kernel/store/kvstore"
	"github.com/tiglabs/graphkv/kernel/store/kvstore/test"
)

func open(t *testing.T) kvstore.KVStore {
	s, err := New(&StoreConfig{Partitions: test.Partitions})
	require.NoError(t, err)
	return s
}

func TestStore(t *testing.T) {
	test.RunAll(t, open)
}

func TestIteratorSnapshot(t *testing.T) {
	s, err := New(&StoreConfig{Partitions: test.Partitions})
	require.NoError(t, err)
	defer s.Close()

	batch := s.NewKVBatch()
	batch.Set("left", []byte("a"), nil)
	require.NoError(t, s.ExecuteBatch(batch))

	it, err := s.PrefixIterator("left", nil)
	require.NoError(t, err)
	defer it.Close()

	batch.Reset()
	batch.Set("left", []byte("b"), nil)
	require.NoError(t, s.ExecuteBatch(batch))

	n := 0
	for ; it.Valid(); it.Next() {
		n++
	}
	require.Equal(t, 1, n)

	n, err = kvstore.CountRange(s, "left", nil, nil)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestClosed(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)
	require.Equal(t, []string{kvstore.DefaultPartition}, s.Partitions())
	require.NoError(t, s.Close())
	_, err = s.Get(kvstore.DefaultPartition, []byte("a"))
	require.ErrorIs(t, err, kvstore.ErrClosed)

	_, err = New(&StoreConfig{Degree: 1})
	require.Error(t, err)
}
