package macho

import (
	"debug/macho"

	"github.com/google/uuid"
)

// Member is the outcome for one architecture of a fat container.
type Member struct {
	CPU        macho.Cpu
	CPUSubtype uint32
	Offset     uint32
	Size       uint32
	Align      uint32

	Kind         Kind
	Order        WordOrder
	Status       Status
	UUID         uuid.UUID
	LoadCmdIndex int
}

// fatScan is the per-call state of a fat container walk.
type fatScan struct {
	// log may be nil, in which case no log arguments are built.
	log Logger
	// keep is how many member records to collect. Members past it are
	// still scanned.
	keep int
}

// scan visits every member of a fat container. All members are scanned even
// after a match; the returned match is the last member's outcome. It also
// returns the member count declared by the header.
func (s fatScan) scan(v view) (match, []Member, int) {
	nfat := v.be32(4)
	table := v.sub(fatHeaderSize, toInt(uint64(nfat)*fatArchSize))
	count := int(nfat)
	if s.log != nil {
		s.log.Debug("fat container", "members", count)
	}

	var members []Member
	if s.keep > 0 {
		members = make([]Member, 0, min(count, s.keep))
	}

	last := match{status: StatusNotFound, index: -1}
	for i := 0; i < count; i++ {
		off := i * fatArchSize
		m := Member{
			CPU:          macho.Cpu(table.be32(off)),
			CPUSubtype:   table.be32(off + 4),
			Offset:       table.be32(off + 8),
			Size:         table.be32(off + 12),
			Align:        table.be32(off + 16),
			LoadCmdIndex: -1,
		}

		img := v.sub(toInt(uint64(m.Offset)), toInt(uint64(m.Size)))
		kind, order, magic := classify(img)
		m.Kind, m.Order = kind, order
		if s.log != nil {
			s.log.Debug("fat member",
				"index", i,
				"cpu", m.CPU.String(),
				"cpusubtype", m.CPUSubtype,
				"kind", kind.String(),
				"order", order.String(),
			)
		}

		res := match{status: StatusNotRecognizedFormat, index: -1}
		switch {
		case kind.Thin():
			res = scanThin(img, kind, order, s.log)
		case s.log != nil && kind == KindFat32:
			s.log.Error("nested fat container not supported", "index", i)
		case s.log != nil:
			s.log.Error("bad member magic", "index", i, "magic", hexWord(magic))
		}
		if res.status != StatusSuccess && s.log != nil {
			s.log.Error("member lookup failed", "index", i, "cpu", m.CPU.String(), "status", res.status.String())
		}

		if len(members) < s.keep {
			m.Status, m.UUID, m.LoadCmdIndex = res.status, res.id, res.index
			members = append(members, m)
		}
		last = res
	}

	return last, members, count
}
