package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("integer overflow")

// IntToUint8 converts v to uint8.
func IntToUint8(v int) (uint8, error) {
	if v < 0 || v > math.MaxUint8 {
		return 0, fmt.Errorf("%w: %d does not fit uint8", ErrOverflow, v)
	}
	return uint8(v), nil
}

// IntToUint32 converts v to uint32.
func IntToUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d does not fit uint32", ErrOverflow, v)
	}
	return uint32(v), nil
}

// LensToUint32 converts several lengths at once, failing on the first that
// does not fit.
func LensToUint32(lens ...int) ([]uint32, error) {
	out := make([]uint32, len(lens))
	for i, l := range lens {
		v, err := IntToUint32(l)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
