package macho

import "math/bits"

// WordOrder tells whether a thin image stores its integers in host order or
// reversed. It never applies to fat headers, which are always big-endian.
type WordOrder uint8

const (
	OrderHost WordOrder = iota
	OrderSwapped
)

// U32 normalizes a 32-bit field read in host order.
func (o WordOrder) U32(v uint32) uint32 {
	if o == OrderSwapped {
		return bits.ReverseBytes32(v)
	}
	return v
}

func (o WordOrder) String() string {
	if o == OrderSwapped {
		return "swapped"
	}
	return "host"
}
