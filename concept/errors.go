package concept

import "github.com/pkg/errors"

// codec errors. A decode error means "not a record of this kind"; callers scanning a
// shared keyspace decide whether that is skippable.
var (
	ErrInvalidLength    = errors.New("invalid encoded length")
	ErrInvalidPrefix    = errors.New("invalid concept prefix")
	ErrInvalidValueType = errors.New("invalid value type")
	ErrInvalidEdgeType  = errors.New("invalid edge type")
)

func checkLen(what string, b []byte, want int) error {
	if len(b) != want {
		return errors.Wrapf(ErrInvalidLength, "%s: have %d bytes, want %d", what, len(b), want)
	}
	return nil
}
