package frame

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/common"
)

// UploadRegion is a fixed-capacity array of T in device-visible memory. Writes are plain
// copies; exclusive access is guaranteed by the ring, not by a lock.
type UploadRegion[T any] struct {
	data []T
}

// NewUploadRegion allocates a region holding capacity elements.
func NewUploadRegion[T any](capacity int) *UploadRegion[T] {
	return &UploadRegion[T]{data: make([]T, max(capacity, 0))}
}

// CopyData writes *v at element index i.
//
// Parameters:
//   - i: element index
//   - v: the value to copy
//
// Returns:
//   - error: ErrRegionOverflow if i is outside the region
func (r *UploadRegion[T]) CopyData(i int, v *T) error {
	if i < 0 || i >= len(r.data) {
		return fmt.Errorf("%w: index %d, capacity %d", ErrRegionOverflow, i, len(r.data))
	}
	r.data[i] = *v
	return nil
}

// At returns a copy of element i. It panics when i is out of range.
func (r *UploadRegion[T]) At(i int) T {
	return r.data[i]
}

// Cap returns the number of elements the region holds.
func (r *UploadRegion[T]) Cap() int {
	return len(r.data)
}

// Stride returns the byte size of one element.
func (r *UploadRegion[T]) Stride() int {
	return SizeOf[T]()
}

// Bytes exposes the backing memory for device upload.
func (r *UploadRegion[T]) Bytes() []byte {
	return common.SliceToBytes(r.data)
}
