package bind_group_provider

import (
	"encoding/binary"

	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
	"github.com/cogentcore/webgpu/wgpu"
)

// BufferWrite describes a single GPU buffer write at a given byte offset.
type BufferWrite struct {
	Buffer *wgpu.Buffer
	Offset uint64
	Data   []byte
}

// regionWrites splits r into writes placing element i at i*AlignedStride(stride, align).
// A region whose stride is already aligned is written in one piece.
func regionWrites[T any](buf *wgpu.Buffer, r *frame.UploadRegion[T], align int) []BufferWrite {
	if buf == nil || r.Cap() == 0 {
		return nil
	}
	data := r.Bytes()
	stride := r.Stride()
	aligned := AlignedStride(stride, align)
	if aligned == stride {
		return []BufferWrite{{Buffer: buf, Data: data}}
	}

	writes := make([]BufferWrite, 0, r.Cap())
	for i := 0; i < r.Cap(); i++ {
		writes = append(writes, BufferWrite{
			Buffer: buf,
			Offset: uint64(i * aligned),
			Data:   data[i*stride : (i+1)*stride],
		})
	}
	return writes
}

// ConstantData returns the contents of a root constant buffer holding the values 0..n-1, each at
// a MinUniformAlignment boundary, matching the offsets Resolve hands out for set-constant.
func ConstantData(n int) []byte {
	data := make([]byte, n*MinUniformAlignment)
	for v := 0; v < n; v++ {
		binary.LittleEndian.PutUint32(data[v*MinUniformAlignment:], uint32(v))
	}
	return data
}
