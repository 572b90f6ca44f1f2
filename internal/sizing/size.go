// Package sizing provides overflow-checked conversions between archive
// offsets (uint64) and file positions (int64).
package sizing

import "math"

// ToInt64 converts an archive offset to a file position, returning
// overflowErr if it doesn't fit.
func ToInt64(size uint64, overflowErr error) (int64, error) {
	if size > uint64(math.MaxInt64) {
		return 0, overflowErr
	}
	return int64(size), nil
}

// ToUint64 converts a file position to an archive offset, returning
// overflowErr for negative positions.
func ToUint64(pos int64, overflowErr error) (uint64, error) {
	if pos < 0 {
		return 0, overflowErr
	}
	return uint64(pos), nil
}

// AddUint64 adds two uint64 values, returning (result, false) on overflow.
func AddUint64(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}
