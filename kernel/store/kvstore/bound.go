package kvstore

import (
	"bytes"

	"github.com/tiglabs/graphkv/util"
	ubytes "github.com/tiglabs/graphkv/util/bytes"
)

// Bound is the key window of an iterator: keys carrying Prefix within [Start, End).
// A nil field does not restrict.
type Bound struct {
	Prefix []byte
	Start  []byte
	End    []byte
}

// PrefixBound covers every key starting with prefix.
func PrefixBound(prefix []byte) Bound {
	p := ubytes.CloneBytes(prefix)
	start, end := util.BytesPrefix(p)
	return Bound{Prefix: p, Start: start, End: end}
}

// RangeBound covers [start, end).
func RangeBound(start, end []byte) Bound {
	return Bound{Start: ubytes.CloneBytes(start), End: ubytes.CloneBytes(end)}
}

// Contains reports whether k lies in the bound. A nil key is the end of the data
// and is never contained.
func (b Bound) Contains(k []byte) bool {
	if k == nil {
		return false
	}
	if b.Prefix != nil && !bytes.HasPrefix(k, b.Prefix) {
		return false
	}
	return b.End == nil || bytes.Compare(k, b.End) < 0
}

// Clamp returns the key a seek to k should land on, or false when no key at or
// after k can be in the bound.
func (b Bound) Clamp(k []byte) ([]byte, bool) {
	if b.Start != nil && bytes.Compare(k, b.Start) < 0 {
		k = b.Start
	}
	if b.End != nil && bytes.Compare(k, b.End) >= 0 {
		return nil, false
	}
	if b.Prefix != nil && !bytes.HasPrefix(k, b.Prefix) {
		if bytes.Compare(k, b.Prefix) > 0 {
			return nil, false
		}
		k = b.Prefix
	}
	return k, true
}
