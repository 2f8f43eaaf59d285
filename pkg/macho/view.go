package macho

import (
	"encoding/binary"
	"math"
)

// view is a bounded window onto the caller's region. base is the offset of
// data[0] within the outermost region and is only used for diagnostics.
type view struct {
	data []byte
	base int
}

func newView(data []byte) view {
	return view{data: data}
}

func (v view) len() int {
	return len(v.data)
}

// read returns v.data[off:off+n]. A range outside the view aborts the
// traversal; it never returns short.
func (v view) read(off, n int) []byte {
	end, ok := addOverflowSafe(off, n)
	if off < 0 || n < 0 || !ok || end > len(v.data) {
		abort("read out of bounds", v.base+off, n, v.base+len(v.data))
	}
	return v.data[off:end:end]
}

// sub returns a narrower view over [off, off+n).
func (v view) sub(off, n int) view {
	return view{data: v.read(off, n), base: v.base + off}
}

// word reads a 32-bit value in host order and normalizes it through o.
func (v view) word(off int, o WordOrder) uint32 {
	return o.U32(binary.NativeEndian.Uint32(v.read(off, 4)))
}

// be32 reads a big-endian value. Fat headers and arch tables always use it.
func (v view) be32(off int) uint32 {
	return binary.BigEndian.Uint32(v.read(off, 4))
}

func addOverflowSafe(a, b int) (int, bool) {
	if b > 0 && a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

// toInt converts a 32 or 64-bit unsigned format field to an offset. Values
// that do not fit in int come back negative so read rejects them.
func toInt(v uint64) int {
	if v > math.MaxInt {
		return -1
	}
	return int(v)
}
