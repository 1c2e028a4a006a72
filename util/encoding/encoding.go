// Package encoding provides fixed-width, order-preserving integer encodings for key
// construction. Every multi-byte value is written most-significant byte first so that
// bytewise comparison of encoded keys matches numeric comparison of the fields.
package encoding

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrInsufficientBytes is returned when a decode is attempted on a short buffer.
var ErrInsufficientBytes = errors.New("insufficient bytes to decode value")

// EncodeUint8Ascending appends a single byte.
func EncodeUint8Ascending(b []byte, v uint8) []byte {
	return append(b, v)
}

// EncodeUint16Ascending encodes the uint16 value using a big-endian 2 byte representation.
func EncodeUint16Ascending(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

// EncodeUint64Ascending encodes the uint64 value using a big-endian 8 byte representation.
func EncodeUint64Ascending(b []byte, v uint64) []byte {
	return append(b,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// DecodeUint8Ascending decodes one byte. The remainder of the input buffer and the
// decoded value are returned.
func DecodeUint8Ascending(b []byte) ([]byte, uint8, error) {
	if len(b) < 1 {
		return nil, 0, ErrInsufficientBytes
	}
	return b[1:], b[0], nil
}

// DecodeUint16Ascending decodes a uint16 from the input buffer, treating the input as
// a big-endian 2 byte representation.
func DecodeUint16Ascending(b []byte) ([]byte, uint16, error) {
	if len(b) < 2 {
		return nil, 0, errors.Wrapf(ErrInsufficientBytes, "uint16: have %d", len(b))
	}
	return b[2:], binary.BigEndian.Uint16(b), nil
}

// DecodeUint64Ascending decodes a uint64 from the input buffer, treating the input as
// a big-endian 8 byte representation.
func DecodeUint64Ascending(b []byte) ([]byte, uint64, error) {
	if len(b) < 8 {
		return nil, 0, errors.Wrapf(ErrInsufficientBytes, "uint64: have %d", len(b))
	}
	return b[8:], binary.BigEndian.Uint64(b), nil
}
