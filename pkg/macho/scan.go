package macho

import (
	"github.com/google/uuid"
)

// match is the outcome of scanning one thin image.
type match struct {
	status Status
	id     uuid.UUID
	index  int
}

// scanThin walks the load commands of a thin image looking for LC_UUID.
// The walk is confined to the sizeofcmds window declared by the header and
// runs at most ncmds times. log may be nil.
func scanThin(v view, kind Kind, order WordOrder, log Logger) match {
	hdrSize := kind.headerSize()
	v.read(0, hdrSize)

	ncmds := v.word(offNCmds, order)
	sizeofcmds := v.word(offSizeOfCmds, order)

	if uint64(ncmds)*loadCmdHeaderSize > uint64(sizeofcmds) {
		abort("ncmds exceeds sizeofcmds", v.base+offNCmds, toInt(uint64(ncmds)*loadCmdHeaderSize), toInt(uint64(sizeofcmds)))
	}
	cmds := v.sub(hdrSize, toInt(uint64(sizeofcmds)))

	off := 0
	for i := uint32(0); i < ncmds; i++ {
		cmd := cmds.word(off, order)
		size := cmds.word(off+4, order)

		if cmd != LoadCmdUUID {
			off += int(size)
			continue
		}
		if size != uuidCmdSize {
			abort("LC_UUID cmdsize mismatch", cmds.base+off, int(size), uuidCmdSize)
		}

		var id uuid.UUID
		copy(id[:], cmds.read(off+loadCmdHeaderSize, uuidSize))
		if log != nil {
			log.Info("found LC_UUID",
				"index", i,
				"cmd", cmd,
				"cmdsize", size,
				"uuid", id.String(),
			)
		}
		return match{status: StatusSuccess, id: id, index: int(i)}
	}

	return match{status: StatusNotFound, index: -1}
}
