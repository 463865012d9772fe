// Package linker resolves the forward references the parser leaves pending
// and assembles the three section buffers into PRG/CHR ROM images.
package linker

import (
	"fmt"

	"nesasm/parser"
)

// Backpatch walks every pending instruction and fills in its operand bytes
// now that the whole program has been scanned and every label is known.
// Undefined references and out-of-range branches are reported through
// a.Errors, matching how the rest of the pipeline surfaces diagnostics. No
// notes are produced: the returned slice is always empty.
func Backpatch(a *parser.Assembler) []string {
	var notes []string
	for _, inst := range a.Instructions {
		if !inst.Pending {
			continue
		}
		addr, ok := a.Symbols.Resolve(inst.Label)
		if !ok {
			a.Errors.AddError(parser.NewError(inst.Pos, parser.ErrUndefinedReference,
				fmt.Sprintf("undefined reference to %q", inst.Label)))
			continue
		}
		switch inst.PendKind {
		case parser.PendingAbsolute:
			patchAbsolute(a, inst, addr)
		case parser.PendingRelative:
			patchRelative(a, inst, addr)
		}
	}
	return notes
}

func patchAbsolute(a *parser.Assembler, inst *parser.Instruction, addr uint16) {
	inst.Operand = addr
	off := inst.ByteOffset
	buf := a.Text.Bytes
	if off+1 >= len(buf) {
		return
	}
	buf[off+1] = byte(addr)
	if inst.Length == 3 && off+2 < len(buf) {
		buf[off+2] = byte(addr >> 8)
	}
}

func patchRelative(a *parser.Assembler, inst *parser.Instruction, target uint16) {
	// The offset is measured from the address of the byte following the
	// branch instruction, matching 6502 hardware semantics.
	next := int32(inst.StartPC) + int32(inst.Length)
	delta := int32(target) - next
	if delta < -128 || delta > 127 {
		a.Errors.AddError(parser.NewError(inst.Pos, parser.ErrBranchOutOfRange,
			fmt.Sprintf("branch to %q is %d bytes away, out of ±127 range", inst.Label, delta)))
		return
	}
	inst.Operand = uint16(uint8(int8(delta)))
	off := inst.ByteOffset
	if off+1 < len(a.Text.Bytes) {
		a.Text.Bytes[off+1] = byte(int8(delta))
	}
}

// VerifyEntryPoint confirms the configured entry label exists and resolves
// to a TEXT-section address, as the reset vector requires.
func VerifyEntryPoint(a *parser.Assembler) error {
	label, ok := a.Symbols.LookupLabel(a.Header.Entry)
	if !ok {
		return fmt.Errorf("entry point %q is not defined", a.Header.Entry)
	}
	if label.Section != parser.SectionText {
		return fmt.Errorf("entry point %q must be defined in the text section, found in %s", a.Header.Entry, label.Section)
	}
	return nil
}

// BuildPRG lays the assembled TEXT bytes into a buffer sized to the
// configured number of 16KB PRG-ROM banks, erroring if the program overflows
// its declared banks.
func BuildPRG(a *parser.Assembler) ([]byte, error) {
	const bankSize = 0x4000
	size := bankSize * int(a.Header.PRGBanks)
	if len(a.Text.Bytes) > size {
		return nil, fmt.Errorf("text section is %d bytes, exceeds %d PRG bank(s) (%d bytes)",
			len(a.Text.Bytes), a.Header.PRGBanks, size)
	}
	prg := make([]byte, size)
	copy(prg, a.Text.Bytes)
	return prg, nil
}

// BuildCHR lays the assembled DATA bytes (tile/pattern data, conventionally
// assembled into the data section) into a buffer sized to the configured
// number of 8KB CHR-ROM banks. A zero bank count means CHR-RAM: no CHR image
// is emitted at all. Content larger than the declared banks is truncated
// with a warning; smaller content is zero-padded.
func BuildCHR(a *parser.Assembler) []byte {
	if a.Header.CHRBanks == 0 {
		return nil
	}
	const bankSize = 0x2000
	size := bankSize * int(a.Header.CHRBanks)
	chr := make([]byte, size)
	n := len(a.Data.Bytes)
	if n > size {
		a.Errors.AddWarning(&parser.Warning{Message: fmt.Sprintf(
			"data section is %d bytes, truncated to %d bytes (%d CHR bank(s))", n, size, a.Header.CHRBanks)})
		n = size
	}
	copy(chr, a.Data.Bytes[:n])
	return chr
}

// BuildHeaderFlags derives the iNES header's flags 6 and 7 bytes from the
// assembler's accumulated header configuration.
func BuildHeaderFlags(a *parser.Assembler) (byte6, byte7 byte) {
	if a.Header.Mirroring {
		byte6 |= 0x01
	}
	if a.Header.Battery {
		byte6 |= 0x02
	}
	if a.Header.Trainer {
		byte6 |= 0x04
	}
	mapper := a.Header.Mapper
	byte6 |= byte(mapper&0x0F) << 4
	byte7 |= byte((mapper >> 4) & 0x0F)
	return byte6, byte7
}
