package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectCountsRoundTrip(t *testing.T) {
	in := ObjectCounts{"car": 2, "person": 1}

	v, err := in.Value()
	require.NoError(t, err)

	var out ObjectCounts
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestObjectCountsEmpty(t *testing.T) {
	v, err := ObjectCounts{}.Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	var out ObjectCounts
	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)
}

func TestObjectCountsScanBytes(t *testing.T) {
	var out ObjectCounts
	require.NoError(t, out.Scan([]byte(`{"dog":3}`)))
	assert.Equal(t, 3, out["dog"])
}

func TestStringSliceRoundTrip(t *testing.T) {
	in := StringSlice{"00:00:30", "00:02:00"}

	v, err := in.Value()
	require.NoError(t, err)

	var out StringSlice
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestStringSliceEmpty(t *testing.T) {
	v, err := StringSlice{}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var out StringSlice
	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)
}

func TestScanRejectsUnsupportedType(t *testing.T) {
	var out ObjectCounts
	assert.Error(t, out.Scan(42))
}
