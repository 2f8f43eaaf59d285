// Package machotest builds synthetic Mach-O images for tests.
package machotest

import (
	"bytes"
	"encoding/binary"
)

const (
	magic32  uint32 = 0xfeedface
	magic64  uint32 = 0xfeedfacf
	magicFat uint32 = 0xcafebabe

	LCSegment   uint32 = 0x1
	LCSymtab    uint32 = 0x2
	LCUUID      uint32 = 0x1b
	LCSegment64 uint32 = 0x19

	CPUTypeX86_64 uint32 = 0x01000007
	CPUTypeARM64  uint32 = 0x0100000c
	CPUTypeI386   uint32 = 0x00000007
)

// HostOrder is the byte order of the machine running the tests.
func HostOrder() binary.ByteOrder {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// SwappedOrder is the byte order opposite to HostOrder.
func SwappedOrder() binary.ByteOrder {
	if HostOrder() == binary.LittleEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// LoadCmd is a single load command. Size overrides the encoded cmdsize when
// non-zero or when SizeSet is true; otherwise cmdsize covers the header and
// payload.
type LoadCmd struct {
	Cmd     uint32
	Payload []byte
	Size    uint32
	SizeSet bool
}

// UUID returns an LC_UUID command carrying id.
func UUID(id [16]byte) LoadCmd {
	return LoadCmd{Cmd: LCUUID, Payload: id[:]}
}

// Filler returns a non-identifier command with n payload bytes.
func Filler(cmd uint32, n int) LoadCmd {
	return LoadCmd{Cmd: cmd, Payload: bytes.Repeat([]byte{0xa5}, n)}
}

// Seq returns 16 bytes counting up from start.
func Seq(start byte) [16]byte {
	var id [16]byte
	for i := range id {
		id[i] = start + byte(i)
	}
	return id
}

// Thin describes a single-architecture image.
type Thin struct {
	Is64  bool
	Order binary.ByteOrder
	CPU   uint32
	Cmds  []LoadCmd

	// NCmds and SizeOfCmds override the header fields when set.
	NCmds      *uint32
	SizeOfCmds *uint32

	// Trailer is appended after the load commands.
	Trailer []byte
}

// U32 returns a pointer to v for the override fields.
func U32(v uint32) *uint32 {
	return &v
}

// Bytes encodes the image.
func (t Thin) Bytes() []byte {
	order := t.Order
	if order == nil {
		order = HostOrder()
	}

	var cmds bytes.Buffer
	for _, c := range t.Cmds {
		size := c.Size
		if size == 0 && !c.SizeSet {
			size = uint32(8 + len(c.Payload))
		}
		cmds.Write(put32(nil, order, c.Cmd))
		cmds.Write(put32(nil, order, size))
		cmds.Write(c.Payload)
	}

	ncmds := uint32(len(t.Cmds))
	if t.NCmds != nil {
		ncmds = *t.NCmds
	}
	sizeofcmds := uint32(cmds.Len())
	if t.SizeOfCmds != nil {
		sizeofcmds = *t.SizeOfCmds
	}

	magic := magic32
	if t.Is64 {
		magic = magic64
	}
	cpu := t.CPU
	if cpu == 0 {
		cpu = CPUTypeX86_64
	}

	var out []byte
	out = put32(out, order, magic)
	out = put32(out, order, cpu)
	out = put32(out, order, 3) // cpusubtype
	out = put32(out, order, 2) // MH_EXECUTE
	out = put32(out, order, ncmds)
	out = put32(out, order, sizeofcmds)
	out = put32(out, order, 0) // flags
	if t.Is64 {
		out = put32(out, order, 0) // reserved
	}
	out = append(out, cmds.Bytes()...)
	return append(out, t.Trailer...)
}

// Member is one architecture inside a fat container.
type Member struct {
	CPU        uint32
	CPUSubtype uint32
	Image      []byte

	// Offset and Size override the computed arch table values when set.
	Offset *uint32
	Size   *uint32
}

// fatAlign is the log2 alignment used for member images.
const fatAlign = 4

// Fat encodes a fat container. The header and arch table are big-endian;
// member images follow in order, each aligned to 1<<fatAlign bytes.
func Fat(members ...Member) []byte {
	headerLen := 8 + 20*len(members)
	offsets := make([]uint32, len(members))
	pos := alignUp(headerLen)
	for i, m := range members {
		offsets[i] = uint32(pos)
		pos = alignUp(pos + len(m.Image))
	}

	out := make([]byte, 0, pos)
	out = binary.BigEndian.AppendUint32(out, magicFat)
	out = binary.BigEndian.AppendUint32(out, uint32(len(members)))
	for i, m := range members {
		off, size := offsets[i], uint32(len(m.Image))
		if m.Offset != nil {
			off = *m.Offset
		}
		if m.Size != nil {
			size = *m.Size
		}
		out = binary.BigEndian.AppendUint32(out, m.CPU)
		out = binary.BigEndian.AppendUint32(out, m.CPUSubtype)
		out = binary.BigEndian.AppendUint32(out, off)
		out = binary.BigEndian.AppendUint32(out, size)
		out = binary.BigEndian.AppendUint32(out, fatAlign)
	}
	for i, m := range members {
		out = pad(out, int(offsets[i]))
		out = append(out, m.Image...)
	}
	return pad(out, pos)
}

// SelfReferencingFat returns a fat container declaring n members whose
// entries all cover the whole container.
func SelfReferencingFat(n int) []byte {
	total := uint32(alignUp(8 + 20*n))
	members := make([]Member, n)
	for i := range members {
		members[i] = Member{CPU: CPUTypeARM64, Offset: U32(0), Size: U32(total)}
	}
	return Fat(members...)
}

func alignUp(n int) int {
	const a = 1 << fatAlign
	return (n + a - 1) &^ (a - 1)
}

func pad(b []byte, n int) []byte {
	for len(b) < n {
		b = append(b, 0)
	}
	return b
}

func put32(b []byte, o binary.ByteOrder, v uint32) []byte {
	var w [4]byte
	o.PutUint32(w[:], v)
	return append(b, w[:]...)
}
