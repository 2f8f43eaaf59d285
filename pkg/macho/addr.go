package macho

import (
	"fmt"
	"math"
	"unsafe"
)

// FromAddr wraps a raw memory range as a byte slice without copying. A nil
// address is only valid for an empty range.
func FromAddr(addr, size uintptr) ([]byte, error) {
	if addr == 0 {
		if size != 0 {
			return nil, fmt.Errorf("%w: nil address with size %d", ErrInvalidRegion, size)
		}
		return nil, nil
	}
	if uint64(size) > math.MaxInt {
		return nil, fmt.Errorf("%w: size %d too large", ErrInvalidRegion, size)
	}
	if addr+size < addr {
		return nil, fmt.Errorf("%w: range wraps the address space", ErrInvalidRegion)
	}
	// addr usually names memory outside the Go heap, such as a mapped or
	// loaded image. The caller keeps the region alive and mapped until the
	// lookup returns; Go memory must be pinned with runtime.KeepAlive.
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size)), nil
}
