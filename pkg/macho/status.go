package macho

import (
	"github.com/google/uuid"
)

// Status is the ordinary outcome of a lookup. The zero value means no
// outcome was produced, which only happens when an error is returned.
type Status uint8

const (
	StatusSuccess Status = iota + 1
	StatusNotRecognizedFormat
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNotRecognizedFormat:
		return "not_recognized_format"
	case StatusNotFound:
		return "not_found"
	default:
		return "none"
	}
}

// Err maps a failure status onto its sentinel error. Success maps to nil.
func (s Status) Err() error {
	switch s {
	case StatusSuccess:
		return nil
	case StatusNotFound:
		return ErrNoUUID
	default:
		return ErrNotMachO
	}
}

// TextLen is the length of a canonical UUID string.
const TextLen = 36

// SentinelText is written in fail-safe mode when no identifier was found.
const SentinelText = "00000000-0000-0000-0000-000000000000"

// Text is a fixed-size output buffer holding a canonical UUID string.
type Text [TextLen]byte

func (t *Text) String() string {
	return string(t[:])
}

func (t *Text) set(id uuid.UUID) {
	copy(t[:], id.String())
}

func (t *Text) setSentinel() {
	copy(t[:], SentinelText)
}
