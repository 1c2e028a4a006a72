package util

import (
	"time"

	"github.com/tiglabs/graphkv/util/bytes"
)

// Duration wraps time.Duration so it can be decoded from config strings such as "500ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ByteSize is a byte count decoded from human-readable config strings such as "64MiB".
type ByteSize uint64

func (s *ByteSize) UnmarshalText(text []byte) error {
	v, err := bytes.ParseByte(string(text))
	if err != nil {
		return err
	}
	*s = ByteSize(v)
	return nil
}

func (s ByteSize) MarshalText() ([]byte, error) {
	return []byte(bytes.FormatIByte(uint64(s))), nil
}

// BytesPrefix returns the key range [prefix, limit) covering every key that starts
// with prefix. limit is nil when no upper bound exists (prefix is all 0xff).
func BytesPrefix(prefix []byte) ([]byte, []byte) {
	var limit []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		c := prefix[i]
		if c < 0xff {
			limit = make([]byte, i+1)
			copy(limit, prefix)
			limit[i] = c + 1
			break
		}
	}
	return prefix, limit
}
