package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundContains(t *testing.T) {
	p := PrefixBound([]byte("ab"))
	assert.True(t, p.Contains([]byte("ab")))
	assert.True(t, p.Contains([]byte("ab\xff\xff")))
	assert.False(t, p.Contains([]byte("a")))
	assert.False(t, p.Contains([]byte("ac")))
	assert.False(t, p.Contains(nil))

	r := RangeBound([]byte("b"), []byte("d"))
	assert.True(t, r.Contains([]byte("b")))
	assert.True(t, r.Contains([]byte("czz")))
	assert.False(t, r.Contains([]byte("d")))

	// a key below Start is not rejected by Contains; Clamp keeps iterators above it
	open := RangeBound(nil, nil)
	assert.True(t, open.Contains([]byte{0}))
	assert.False(t, open.Contains(nil))
}

func TestBoundClamp(t *testing.T) {
	cases := []struct {
		name  string
		bound Bound
		seek  string
		want  string
		ok    bool
	}{
		{"prefix below", PrefixBound([]byte("ab")), "a", "ab", true},
		{"prefix inside", PrefixBound([]byte("ab")), "abc", "abc", true},
		{"prefix past", PrefixBound([]byte("ab")), "ac", "", false},
		{"all 0xff prefix past", PrefixBound([]byte{0xff}), "\xff\xff", "\xff\xff", true},
		{"range below start", RangeBound([]byte("b"), []byte("d")), "a", "b", true},
		{"range inside", RangeBound([]byte("b"), []byte("d")), "c", "c", true},
		{"range at end", RangeBound([]byte("b"), []byte("d")), "d", "", false},
		{"open range", RangeBound(nil, nil), "zz", "zz", true},
		{"namespaced range", Bound{Prefix: []byte("ns\x00"), Start: []byte("ns\x00b")}, "ns\x01", "", false},
		{"namespaced below", Bound{Prefix: []byte("ns\x00"), Start: []byte("ns\x00b")}, "a", "ns\x00b", true},
	}
	for _, c := range cases {
		got, ok := c.bound.Clamp([]byte(c.seek))
		assert.Equal(t, c.ok, ok, c.name)
		if c.ok {
			assert.Equal(t, c.want, string(got), c.name)
		}
	}
}
