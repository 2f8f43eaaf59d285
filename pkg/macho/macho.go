// Package macho locates the LC_UUID build identifier inside Mach-O images.
//
// Images may be thin (one architecture, 32 or 64-bit, stored in either byte
// order) or 32-bit fat containers bundling several thin images. The input is
// an untrusted byte region owned by the caller: every access goes through a
// bounds-checked view, nothing is copied, and nothing is retained once a call
// returns.
package macho

import "debug/macho"

// Mach-O layout constants must match <mach-o/loader.h> and <mach-o/fat.h>.
const (
	MagicThin32 uint32 = macho.Magic32 // MH_MAGIC
	CigamThin32 uint32 = 0xcefaedfe    // MH_CIGAM
	MagicThin64 uint32 = macho.Magic64 // MH_MAGIC_64
	CigamThin64 uint32 = 0xcffaedfe    // MH_CIGAM_64
	MagicFat    uint32 = macho.MagicFat
	CigamFat    uint32 = 0xbebafeca

	// LoadCmdUUID is the LC_UUID load command type.
	LoadCmdUUID uint32 = 0x1b
)

const (
	headerSize32      = 28
	headerSize64      = 32
	loadCmdHeaderSize = 8
	uuidSize          = 16
	uuidCmdSize       = loadCmdHeaderSize + uuidSize

	fatHeaderSize = 8
	fatArchSize   = 20
)

// Field offsets shared by mach_header and mach_header_64.
const (
	offCPUType    = 4
	offCPUSubtype = 8
	offNCmds      = 16
	offSizeOfCmds = 20
)

// MinImageSize is the smallest region Locate will consider. Regions of this
// size or less are reported as StatusNotRecognizedFormat without being read.
const MinImageSize = headerSize32
