package json

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string            `json:"name"`
	Started time.Time         `json:"started"`
	Rate    float64           `json:"rate"`
	Counts  map[string]uint64 `json:"counts"`
}

func TestMarshalSortsKeysAndEncodesTime(t *testing.T) {
	started := time.UnixMilli(1700000000123)
	out, err := Marshal(sample{
		Name:    "<run>",
		Started: started,
		Rate:    1.0 / 3.0,
		Counts:  map[string]uint64{"b": 2, "a": 1},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"<run>","started":1700000000123,"rate":0.333333,"counts":{"a":1,"b":2}}`, string(out))
}

func TestUnmarshal(t *testing.T) {
	var s sample
	require.NoError(t, Unmarshal([]byte(`{"name":"x","started":5,"counts":{"k":7}}`), &s))
	assert.Equal(t, "x", s.Name)
	assert.Equal(t, time.UnixMilli(5), s.Started)
	assert.EqualValues(t, 7, s.Counts["k"])
}
