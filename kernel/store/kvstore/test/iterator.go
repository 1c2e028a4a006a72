package test

import (
	"bytes"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/tiglabs/graphkv/kernel/store/kvstore"
)

// tests around the correct behavior of iterators

func collect(t *testing.T, it kvstore.KVIterator) [][]byte {
	rv := make([][]byte, 0)
	for it.Valid() {
		k := it.Key()
		copyk := make([]byte, len(k))
		copy(copyk, k)
		rv = append(rv, copyk)
		it.Next()
	}
	if err := it.Close(); err != nil {
		t.Fatal(err)
	}
	return rv
}

func CommonTestPrefixIterator(t *testing.T, s kvstore.KVStore) {

	data := []testRow{
		{[]byte("apple"), []byte("val")},
		{[]byte("cat1"), []byte("val")},
		{[]byte("cat2"), []byte("val")},
		{[]byte("cat3"), []byte("val")},
		{[]byte("dog1"), []byte("val")},
		{[]byte("dog2"), []byte("val")},
		{[]byte("dog4"), []byte("val")},
		{[]byte("elephant"), []byte("val")},
	}

	expectedCats := [][]byte{
		[]byte("cat1"),
		[]byte("cat2"),
		[]byte("cat3"),
	}

	expectedDogs := [][]byte{
		[]byte("dog1"),
		[]byte("dog2"),
		[]byte("dog4"),
	}

	err := batchWriteRows(s, "left", data)
	if err != nil {
		t.Fatal(err)
	}

	it, err := s.PrefixIterator("left", []byte("cat"))
	if err != nil {
		t.Fatal(err)
	}
	cats := collect(t, it)
	if !reflect.DeepEqual(cats, expectedCats) {
		t.Fatalf("expected cats %s, got %s", expectedCats, cats)
	}

	it, err = s.PrefixIterator("left", []byte("dog"))
	if err != nil {
		t.Fatal(err)
	}
	dogs := collect(t, it)
	if !reflect.DeepEqual(dogs, expectedDogs) {
		t.Fatalf("expected dogs %s, got %s", expectedDogs, dogs)
	}

	it, err = s.PrefixIterator("left", []byte("cow"))
	if err != nil {
		t.Fatal(err)
	}
	if cows := collect(t, it); len(cows) != 0 {
		t.Fatalf("expected no cows, got %s", cows)
	}
}

// CommonTestPrefixExactness checks that a scan stops at the first key that no longer
// carries the prefix even when later keys sort after the seek point.
func CommonTestPrefixExactness(t *testing.T, s kvstore.KVStore) {
	prefix := []byte{0x22, 0x00, 0x01, 0x55}
	data := []testRow{
		{append(append([]byte(nil), prefix...), 0x01), []byte{}},
		{append(append([]byte(nil), prefix...), 0x02), []byte{}},
		// differs in the last prefix byte
		{[]byte{0x22, 0x00, 0x01, 0x56, 0x00}, []byte{}},
		{[]byte{0x22, 0x00, 0x01, 0x5A, 0x01}, []byte{}},
	}
	if err := batchWriteRows(s, "left", data); err != nil {
		t.Fatal(err)
	}
	it, err := s.PrefixIterator("left", prefix)
	if err != nil {
		t.Fatal(err)
	}
	got := collect(t, it)
	if !reflect.DeepEqual(got, [][]byte{data[0].key, data[1].key}) {
		t.Fatalf("expected exactly the two prefixed keys, got %x", got)
	}
}

func CommonTestPrefixIteratorSeek(t *testing.T, s kvstore.KVStore) {

	data := []testRow{
		{[]byte("a"), []byte("val")},
		{[]byte("b1"), []byte("val")},
		{[]byte("b2"), []byte("val")},
		{[]byte("b3"), []byte("val")},
		{[]byte("b5"), []byte("val")},
		{[]byte("c"), []byte("val")},
	}

	err := batchWriteRows(s, "left", data)
	if err != nil {
		t.Fatal(err)
	}

	// seek inside the prefix
	it, err := s.PrefixIterator("left", []byte("b"))
	if err != nil {
		t.Fatal(err)
	}
	it.Seek([]byte("b4"))
	got := collect(t, it)
	if !reflect.DeepEqual(got, [][]byte{[]byte("b5")}) {
		t.Fatalf("seek b4: got %s", got)
	}

	// seek before the prefix clamps to its start
	it, err = s.PrefixIterator("left", []byte("b"))
	if err != nil {
		t.Fatal(err)
	}
	it.Seek([]byte("a"))
	got = collect(t, it)
	if len(got) != 4 || !bytes.Equal(got[0], []byte("b1")) {
		t.Fatalf("seek a: got %s", got)
	}

	// seek past the last prefixed key
	it, err = s.PrefixIterator("left", []byte("b"))
	if err != nil {
		t.Fatal(err)
	}
	it.Seek([]byte("b6"))
	if it.Valid() {
		t.Fatalf("seek b6: expected invalid iterator, at %s", it.Key())
	}
	it.Close()

	// seek beyond the prefix range
	it, err = s.PrefixIterator("left", []byte("b"))
	if err != nil {
		t.Fatal(err)
	}
	it.Seek([]byte("c"))
	if it.Valid() {
		t.Fatalf("seek c: expected invalid iterator, at %s", it.Key())
	}
	it.Close()

	// re-seek backwards after exhaustion
	it, err = s.PrefixIterator("left", []byte("b"))
	if err != nil {
		t.Fatal(err)
	}
	it.Seek([]byte("b9"))
	it.Seek([]byte("b2"))
	k, _, valid := it.Current()
	if !valid || string(k) != "b2" {
		t.Fatalf("re-seek b2: got %s valid=%v", k, valid)
	}
	it.Close()
}

func CommonTestRangeIterator(t *testing.T, s kvstore.KVStore) {

	data := []testRow{
		{[]byte("a1"), []byte("val")},
		{[]byte("b1"), []byte("val")},
		{[]byte("b2"), []byte("val")},
		{[]byte("b3"), []byte("val")},
		{[]byte("c1"), []byte("val")},
		{[]byte("c2"), []byte("val")},
		{[]byte("c4"), []byte("val")},
		{[]byte("d1"), []byte("val")},
	}

	expectedAll := make([][]byte, 0)
	expectedBToC := make([][]byte, 0)
	expectedCToEnd := make([][]byte, 0)
	for _, row := range data {
		expectedAll = append(expectedAll, row.key)
		if bytes.HasPrefix(row.key, []byte("b")) {
			expectedBToC = append(expectedBToC, row.key)
		}
		if bytes.Compare(row.key, []byte("c")) >= 0 {
			expectedCToEnd = append(expectedCToEnd, row.key)
		}
	}

	err := batchWriteRows(s, "left", data)
	if err != nil {
		t.Fatal(err)
	}

	var tests = []struct {
		start, end []byte
		want       [][]byte
	}{
		{nil, nil, expectedAll},
		{[]byte("b"), []byte("c"), expectedBToC},
		{[]byte("c"), nil, expectedCToEnd},
		{[]byte("e"), nil, [][]byte{}},
	}
	for _, test := range tests {
		it, err := s.RangeIterator("left", test.start, test.end)
		if err != nil {
			t.Fatal(err)
		}
		got := collect(t, it)
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("range [%s, %s): expected %s, got %s", test.start, test.end, test.want, got)
		}
	}

	// seek inside a range, then past its end
	it, err := s.RangeIterator("left", []byte("b"), []byte("c"))
	if err != nil {
		t.Fatal(err)
	}
	it.Seek([]byte("b2"))
	got := collect(t, it)
	if !reflect.DeepEqual(got, [][]byte{[]byte("b2"), []byte("b3")}) {
		t.Errorf("seek b2: got %s", got)
	}
}

// CommonTestConcurrentAccess runs writers and prefix readers side by side.
func CommonTestConcurrentAccess(t *testing.T, s kvstore.KVStore) {
	const (
		writers = 4
		perW    = 50
	)
	var wg sync.WaitGroup
	errs := make(chan error, writers*2)
	for w := 0; w < writers; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perW; i++ {
				batch := s.NewKVBatch()
				batch.Set("left", []byte(fmt.Sprintf("w%d-%03d", w, i)), []byte{})
				batch.Set("right", []byte(fmt.Sprintf("w%d-%03d", w, i)), []byte{})
				if err := s.ExecuteBatch(batch); err != nil {
					errs <- err
					return
				}
			}
		}(w)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perW; i++ {
				it, err := s.PrefixIterator("left", []byte(fmt.Sprintf("w%d-", w)))
				if err != nil {
					errs <- err
					return
				}
				for ; it.Valid(); it.Next() {
				}
				it.Close()
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	for _, p := range Partitions {
		n, err := kvstore.CountRange(s, p, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if n != writers*perW {
			t.Errorf("partition %s: expected %d keys, got %d", p, writers*perW, n)
		}
	}
}

// RunAll runs every suite, each against a fresh store from open.
func RunAll(t *testing.T, open func(t *testing.T) kvstore.KVStore) {
	suites := []struct {
		name string
		fn   func(*testing.T, kvstore.KVStore)
	}{
		{"KVCrud", CommonTestKVCrud},
		{"WriterOwnsBytes", CommonTestWriterOwnsBytes},
		{"BatchAtomic", CommonTestBatchAtomic},
		{"Partitions", CommonTestPartitions},
		{"PrefixIterator", CommonTestPrefixIterator},
		{"PrefixExactness", CommonTestPrefixExactness},
		{"PrefixIteratorSeek", CommonTestPrefixIteratorSeek},
		{"RangeIterator", CommonTestRangeIterator},
		{"ConcurrentAccess", CommonTestConcurrentAccess},
	}
	for _, suite := range suites {
		t.Run(suite.name, func(t *testing.T) {
			s := open(t)
			defer func() {
				if err := s.Close(); err != nil {
					t.Fatal(err)
				}
			}()
			suite.fn(t, s)
		})
	}
}
