package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint8(t *testing.T) {
	v, err := IntToUint8(255)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), v)

	_, err = IntToUint8(256)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = IntToUint8(-1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestIntToUint32(t *testing.T) {
	v, err := IntToUint32(math.MaxUint32)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), v)

	_, err = IntToUint32(math.MaxUint32 + 1)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = IntToUint32(-1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestLensToUint32(t *testing.T) {
	got, err := LensToUint32(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, got)

	_, err = LensToUint32(1, -2)
	assert.ErrorIs(t, err, ErrOverflow)
}
