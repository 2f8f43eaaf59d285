package macho

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Report is the full result of a lookup.
type Report struct {
	Kind  Kind
	Order WordOrder
	Magic uint32

	Status       Status
	UUID         uuid.UUID
	LoadCmdIndex int

	// MemberCount is the number of architectures declared by a fat header.
	MemberCount int
	// Members lists the architectures of a fat container in table order,
	// at most Locator.MaxMembers of them. Status and UUID above always come
	// from the last declared member, listed or not.
	Members []Member
}

// Locator finds the LC_UUID identifier of an image. The zero value is ready
// to use and logs nothing. A Locator holds no state between calls and may be
// shared between goroutines as long as Log may be.
type Locator struct {
	Log Logger

	// FailSafe makes Locate write SentinelText on ordinary failures.
	FailSafe bool

	// MaxMembers caps Report.Members for Inspect. Zero lists every member.
	MaxMembers int
}

// Inspect classifies data and scans it for LC_UUID. Ordinary failures are
// reported through Report.Status. A non-nil error always wraps ErrMalformed
// and means the traversal was aborted; the report is nil in that case.
//
// data is borrowed for the duration of the call and never modified.
func (l Locator) Inspect(data []byte) (*Report, error) {
	keep := l.MaxMembers
	if keep <= 0 {
		keep = math.MaxInt
	}
	rep := &Report{}
	if err := l.inspect(data, keep, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// inspect fills rep. keep bounds the member records collected for fat
// containers; with keep == 0 and a nil Log the scan allocates nothing.
func (l Locator) inspect(data []byte, keep int, rep *Report) (err error) {
	log := l.Log
	defer func() {
		if err != nil && log != nil {
			log.Error("lookup aborted", "err", err)
		}
	}()
	defer recoverMalformed(&err)

	*rep = Report{Status: StatusNotRecognizedFormat, LoadCmdIndex: -1}
	if len(data) <= MinImageSize {
		if log != nil {
			log.Debug("image too small", "size", len(data))
		}
		return nil
	}

	v := newView(data)
	rep.Kind, rep.Order, rep.Magic = classify(v)

	var res match
	switch {
	case rep.Kind.Thin():
		if log != nil {
			log.Debug("thin image", "kind", rep.Kind.String(), "order", rep.Order.String())
		}
		res = scanThin(v, rep.Kind, rep.Order, log)
	case rep.Kind == KindFat32:
		res, rep.Members, rep.MemberCount = fatScan{log: log, keep: keep}.scan(v)
	default:
		if log != nil {
			log.Error("bad magic", "magic", hexWord(rep.Magic))
		}
		return nil
	}

	rep.Status, rep.UUID, rep.LoadCmdIndex = res.status, res.id, res.index
	return nil
}

// Locate scans data and writes the canonical identifier into out on
// success. On an ordinary failure out is overwritten with SentinelText when
// FailSafe is set and left untouched otherwise. out may be nil.
//
// A non-nil error wraps ErrMalformed; the status is then zero and out is
// untouched. Fat members are scanned but not recorded.
func (l Locator) Locate(data []byte, out *Text) (Status, error) {
	var rep Report
	if err := l.inspect(data, 0, &rep); err != nil {
		return 0, err
	}
	rep.WriteText(out, l.FailSafe)
	return rep.Status, nil
}

// WriteText renders the outcome into out: the identifier on success,
// SentinelText on failure when failSafe is set, and nothing otherwise. It
// reports whether out was written.
func (r *Report) WriteText(out *Text, failSafe bool) bool {
	if out == nil {
		return false
	}
	switch {
	case r.Status == StatusSuccess:
		out.set(r.UUID)
	case failSafe:
		out.setSentinel()
	default:
		return false
	}
	return true
}

// LocateAddr is Locate over the raw region [addr, addr+size). The memory must
// stay mapped and unmodified for the duration of the call.
func (l Locator) LocateAddr(addr, size uintptr, out *Text) (Status, error) {
	data, err := FromAddr(addr, size)
	if err != nil {
		return 0, err
	}
	return l.Locate(data, out)
}

func hexWord(v uint32) string {
	return fmt.Sprintf("%#08x", v)
}
