package macho

import (
	"errors"
	"fmt"
)

var (
	ErrMalformed     = errors.New("macho: malformed image")
	ErrNotMachO      = errors.New("macho: not a recognized Mach-O image")
	ErrNoUUID        = errors.New("macho: no LC_UUID load command")
	ErrInvalidRegion = errors.New("macho: invalid memory region")
)

// MalformedError describes a fatal invariant violation found while walking an
// image: a read outside the region, or an LC_UUID command of the wrong size.
// Offsets are relative to the start of the region handed to the Locator.
type MalformedError struct {
	Reason string
	Offset int
	Size   int
	Limit  int
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %s (offset=%d size=%d limit=%d)", ErrMalformed, e.Reason, e.Offset, e.Size, e.Limit)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

// abort stops the current traversal. Only Locator recovers it.
func abort(reason string, off, size, limit int) {
	panic(&MalformedError{Reason: reason, Offset: off, Size: size, Limit: limit})
}

// recoverMalformed converts an abort into err. Any other panic is a bug and
// keeps unwinding.
func recoverMalformed(err *error) {
	rec := recover()
	if rec == nil {
		return
	}
	me, ok := rec.(*MalformedError)
	if !ok {
		panic(rec)
	}
	*err = me
}
