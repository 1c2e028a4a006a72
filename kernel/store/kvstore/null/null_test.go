package null

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/tiglabs/graphkv/kernel/store/kvstore"
)

func TestStore(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}

	NullTestKVStore(t, s)
}

// NullTestKVStore has very different expectations
// compared to the common suites
func NullTestKVStore(t *testing.T, s kvstore.KVStore) {

	batch := s.NewKVBatch()
	batch.Set(kvstore.DefaultPartition, []byte("b"), []byte("val-b"))
	batch.Set(kvstore.DefaultPartition, []byte("c"), []byte("val-c"))
	batch.Set(kvstore.DefaultPartition, []byte("d"), []byte("val-d"))
	if batch.Len() != 3 {
		t.Fatalf("expected batch len 3, got %d", batch.Len())
	}

	err := s.ExecuteBatch(batch)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Get(kvstore.DefaultPartition, []byte("b")); !errors.Is(err, kvstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Get("other", []byte("b")); !errors.Is(err, kvstore.ErrUnknownPartition) {
		t.Fatalf("expected ErrUnknownPartition, got %v", err)
	}

	it, err := s.RangeIterator(kvstore.DefaultPartition, []byte("b"), nil)
	if err != nil {
		t.Fatal(err)
	}
	key, val, valid := it.Current()
	if valid {
		t.Fatalf("valid true, expected false")
	}
	if key != nil {
		t.Fatalf("expected key nil, got %s", key)
	}
	if val != nil {
		t.Fatalf("expected value nil, got %s", val)
	}

	err = it.Close()
	if err != nil {
		t.Fatal(err)
	}

	err = s.Close()
	if err != nil {
		t.Fatal(err)
	}
}
