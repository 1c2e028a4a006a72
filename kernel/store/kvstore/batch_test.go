package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCopiesInput(t *testing.T) {
	b := NewBatch()
	key := []byte("k1")
	val := []byte{}
	b.Set("p", key, val)
	key[0] = 'x'

	require.Equal(t, 1, b.Len())
	op := b.Operations()[0]
	assert.Equal(t, "p", op.Partition())
	assert.Equal(t, []byte("k1"), op.Key())
	assert.NotNil(t, op.Value())
	assert.Empty(t, op.Value())

	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.NoError(t, b.Close())
}

func TestCheckPartitions(t *testing.T) {
	parts, err := CheckPartitions(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultPartition}, parts)

	parts, err = CheckPartitions([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, parts)

	_, err = CheckPartitions([]string{"a", "a"})
	assert.Error(t, err)
	_, err = CheckPartitions([]string{""})
	assert.ErrorIs(t, err, ErrUnknownPartition)
}
