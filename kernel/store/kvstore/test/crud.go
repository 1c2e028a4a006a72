// Package test holds the conformance suites every KVStore engine runs.
package test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/kernel/store/kvstore"
)

// Partitions is the partition set engines are opened with for the suites.
var Partitions = []string{"left", "right"}

type testRow struct {
	key []byte
	val []byte
}

func batchWriteRows(s kvstore.KVStore, partition string, rows []testRow) error {
	batch := s.NewKVBatch()
	for _, row := range rows {
		batch.Set(partition, row.key, row.val)
	}
	return s.ExecuteBatch(batch)
}

func CommonTestKVCrud(t *testing.T, s kvstore.KVStore) {
	batch := s.NewKVBatch()
	batch.Set("left", []byte("a"), []byte("val-a"))
	batch.Set("left", []byte("b"), []byte{})
	batch.Set("right", []byte("a"), []byte("val-right"))
	if err := s.ExecuteBatch(batch); err != nil {
		t.Fatal(err)
	}

	val, err := s.Get("left", []byte("a"))
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "val-a" {
		t.Errorf("expected val-a, got %q", val)
	}

	// present with an empty value is not the same as absent
	val, err = s.Get("left", []byte("b"))
	if err != nil {
		t.Fatalf("expected empty value for b, got err %v", err)
	}
	if len(val) != 0 {
		t.Errorf("expected empty value, got %q", val)
	}

	val, err = s.Get("right", []byte("a"))
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "val-right" {
		t.Errorf("expected val-right, got %q", val)
	}

	if _, err = s.Get("right", []byte("b")); !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err = s.Get("nowhere", []byte("a")); !errors.Is(err, kvstore.ErrUnknownPartition) {
		t.Errorf("expected ErrUnknownPartition, got %v", err)
	}

	// overwrite
	batch = s.NewKVBatch()
	batch.Set("left", []byte("a"), []byte("val-a2"))
	if err := s.ExecuteBatch(batch); err != nil {
		t.Fatal(err)
	}
	val, err = s.Get("left", []byte("a"))
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "val-a2" {
		t.Errorf("expected val-a2, got %q", val)
	}
}

func CommonTestWriterOwnsBytes(t *testing.T, s kvstore.KVStore) {
	key := []byte("key")
	val := []byte("val")
	batch := s.NewKVBatch()
	batch.Set("left", key, val)
	key[0], val[0] = 'x', 'x'
	if err := s.ExecuteBatch(batch); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get("left", []byte("key"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "val" {
		t.Errorf("expected val, got %q", got)
	}
}

func CommonTestBatchAtomic(t *testing.T, s kvstore.KVStore) {
	batch := s.NewKVBatch()
	batch.Set("left", []byte("good"), []byte{})
	batch.Set("nowhere", []byte("bad"), []byte{})
	if err := s.ExecuteBatch(batch); err == nil {
		t.Fatal("expected error for unknown partition")
	}
	if _, err := s.Get("left", []byte("good")); !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("failed batch leaked a write, err %v", err)
	}

	batch = s.NewKVBatch()
	batch.Set("left", []byte("good"), []byte{})
	batch.Set("left", []byte{}, []byte{})
	if err := s.ExecuteBatch(batch); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, err := s.Get("left", []byte("good")); !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("failed batch leaked a write, err %v", err)
	}
}

func CommonTestPartitions(t *testing.T, s kvstore.KVStore) {
	parts := s.Partitions()
	if len(parts) != len(Partitions) {
		t.Fatalf("expected partitions %v, got %v", Partitions, parts)
	}
	for i := range parts {
		if parts[i] != Partitions[i] {
			t.Fatalf("expected partitions %v, got %v", Partitions, parts)
		}
	}

	if err := batchWriteRows(s, "left", []testRow{
		{[]byte("k1"), []byte{}},
		{[]byte("k2"), []byte{}},
	}); err != nil {
		t.Fatal(err)
	}
	if err := batchWriteRows(s, "right", []testRow{
		{[]byte("k3"), []byte{}},
	}); err != nil {
		t.Fatal(err)
	}

	for partition, want := range map[string]int{"left": 2, "right": 1} {
		n, err := kvstore.CountRange(s, partition, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if n != want {
			t.Errorf("partition %s: expected %d keys, got %d", partition, want, n)
		}
	}

	it, err := s.PrefixIterator("right", []byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()
	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	if len(keys) != 1 || keys[0] != "k3" {
		t.Errorf("prefix scan crossed partitions: %v", keys)
	}

	if _, err := s.PrefixIterator("nowhere", nil); !errors.Is(err, kvstore.ErrUnknownPartition) {
		t.Errorf("expected ErrUnknownPartition, got %v", err)
	}
}
