package macho

import "encoding/binary"

// Kind is the image layout selected by the leading magic word.
type Kind uint8

const (
	KindUnrecognized Kind = iota
	KindThin32
	KindThin64
	KindFat32
)

var kindLabels = map[Kind]string{
	KindUnrecognized: "unrecognized",
	KindThin32:       "thin-32",
	KindThin64:       "thin-64",
	KindFat32:        "fat-32",
}

func (k Kind) String() string {
	if s, ok := kindLabels[k]; ok {
		return s
	}
	return "unknown"
}

// Thin reports whether k is a single-architecture image.
func (k Kind) Thin() bool {
	return k == KindThin32 || k == KindThin64
}

func (k Kind) headerSize() int {
	if k == KindThin64 {
		return headerSize64
	}
	return headerSize32
}

// Classify inspects the first word of data. Regions shorter than a word are
// unrecognized. The returned magic is the word as read in host order.
func Classify(data []byte) (Kind, WordOrder, uint32) {
	if len(data) < 4 {
		return KindUnrecognized, OrderHost, 0
	}
	return classifyWord(binary.NativeEndian.Uint32(data))
}

func classify(v view) (Kind, WordOrder, uint32) {
	return classifyWord(v.word(0, OrderHost))
}

func classifyWord(m uint32) (Kind, WordOrder, uint32) {
	switch m {
	case MagicThin32:
		return KindThin32, OrderHost, m
	case CigamThin32:
		return KindThin32, OrderSwapped, m
	case MagicThin64:
		return KindThin64, OrderHost, m
	case CigamThin64:
		return KindThin64, OrderSwapped, m
	case MagicFat:
		return KindFat32, OrderHost, m
	case CigamFat:
		return KindFat32, OrderSwapped, m
	default:
		return KindUnrecognized, OrderHost, m
	}
}
