package sizing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOverflow = errors.New("overflow")

func TestToInt64(t *testing.T) {
	t.Parallel()

	got, err := ToInt64(math.MaxInt64, errOverflow)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)

	_, err = ToInt64(math.MaxInt64+1, errOverflow)
	require.ErrorIs(t, err, errOverflow)
}

func TestToUint64(t *testing.T) {
	t.Parallel()

	got, err := ToUint64(42, errOverflow)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got)

	_, err = ToUint64(-1, errOverflow)
	require.ErrorIs(t, err, errOverflow)
}

func TestAddUint64(t *testing.T) {
	t.Parallel()

	sum, ok := AddUint64(1, 2)
	assert.True(t, ok)
	assert.Equal(t, uint64(3), sum)

	_, ok = AddUint64(math.MaxUint64, 1)
	assert.False(t, ok)
}
