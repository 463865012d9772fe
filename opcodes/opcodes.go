// Package opcodes provides the table-driven 6502 addressing-mode matcher
// used by the assembler's opcode resolver. Each mnemonic maps to the set of
// addressing forms it supports; resolving an instruction is a lookup, not a
// branch ladder.
package opcodes

import "fmt"

// AddressingMode identifies one of the 6502's addressing forms.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
	Relative
)

func (m AddressingMode) String() string {
	switch m {
	case Implied:
		return "implied"
	case Immediate:
		return "immediate"
	case ZeroPage:
		return "zeropage"
	case ZeroPageX:
		return "zeropage,x"
	case ZeroPageY:
		return "zeropage,y"
	case Absolute:
		return "absolute"
	case AbsoluteX:
		return "absolute,x"
	case AbsoluteY:
		return "absolute,y"
	case Indirect:
		return "indirect"
	case IndexedIndirect:
		return "(zp,x)"
	case IndirectIndexed:
		return "(zp),y"
	case Relative:
		return "relative"
	default:
		return "unknown"
	}
}

// Form is one addressing-mode entry for a mnemonic: the opcode byte it
// assembles to and the instruction's total byte length.
type Form struct {
	Mode    AddressingMode
	Opcode  byte
	Length  uint8
}

// Table maps a lower-cased mnemonic to its supported addressing forms.
type Table map[string][]Form

// Entry returns the Form for mnemonic in the given mode, or false if that
// mnemonic does not support the mode.
func (t Table) Entry(mnemonic string, mode AddressingMode) (Form, bool) {
	forms, ok := t[mnemonic]
	if !ok {
		return Form{}, false
	}
	for _, f := range forms {
		if f.Mode == mode {
			return f, true
		}
	}
	return Form{}, false
}

// Supports reports whether mnemonic is known at all.
func (t Table) Supports(mnemonic string) bool {
	_, ok := t[mnemonic]
	return ok
}

// UnknownMnemonicError is returned by Resolve, carrying the mnemonic, when
// the mnemonic is not in the table at all.
type UnknownMnemonicError struct {
	Mnemonic string
}

func (e *UnknownMnemonicError) Error() string {
	return fmt.Sprintf("unknown mnemonic %q", e.Mnemonic)
}

// BadFormError is returned when the mnemonic is known but does not support
// the requested addressing mode.
type BadFormError struct {
	Mnemonic string
	Mode     AddressingMode
}

func (e *BadFormError) Error() string {
	return fmt.Sprintf("%s does not support %s addressing", e.Mnemonic, e.Mode)
}

// Resolve looks up the opcode/length for mnemonic in the requested
// addressing mode.
func Resolve(mnemonic string, mode AddressingMode) (Form, error) {
	if !Default.Supports(mnemonic) {
		return Form{}, &UnknownMnemonicError{Mnemonic: mnemonic}
	}
	f, ok := Default.Entry(mnemonic, mode)
	if !ok {
		return Form{}, &BadFormError{Mnemonic: mnemonic, Mode: mode}
	}
	return f, nil
}

// IsBranch reports whether mnemonic is one of the NES-relevant conditional
// branches, which are always Relative/2-byte.
func IsBranch(mnemonic string) bool {
	_, ok := branchOpcodes[mnemonic]
	return ok
}

// BranchOpcode returns the single opcode byte for a branch mnemonic.
func BranchOpcode(mnemonic string) (byte, bool) {
	op, ok := branchOpcodes[mnemonic]
	return op, ok
}

var branchOpcodes = map[string]byte{
	"bcc": 0x90,
	"bcs": 0xB0,
	"beq": 0xF0,
	"bmi": 0x30,
	"bne": 0xD0,
	"bpl": 0x10,
	"bvc": 0x50,
	"bvs": 0x70,
}

// impliedOpcodes holds the single-byte implied-mode instructions, including
// the brk aliases the source accepted (syscall, break).
var impliedOpcodes = map[string]byte{
	"inx": 0xE8, "iny": 0xC8, "dex": 0xCA, "dey": 0x88,
	"tax": 0xAA, "txa": 0x8A, "tay": 0xA8, "tya": 0x98,
	"tsx": 0xBA, "txs": 0x9A,
	"pha": 0x48, "php": 0x08, "pla": 0x68, "plp": 0x28,
	"clc": 0x18, "cld": 0xD8, "cli": 0x58, "clv": 0xB8,
	"sec": 0x38, "sed": 0xF8, "sei": 0x78,
	"rti": 0x40, "rts": 0x60,
	"nop": 0xEA, "brk": 0x00,
	"syscall": 0x00, "break": 0x00,
}

// Default is the NMOS 6502 instruction table for the mnemonics this
// assembler accepts. The shift/rotate instructions (asl, lsr, rol, ror) are
// not in it.
var Default = buildTable()

func buildTable() Table {
	t := Table{}

	add := func(mnemonic string, mode AddressingMode, opcode byte, length uint8) {
		t[mnemonic] = append(t[mnemonic], Form{Mode: mode, Opcode: opcode, Length: length})
	}

	for mnemonic, opcode := range impliedOpcodes {
		add(mnemonic, Implied, opcode, 1)
	}

	// Two-operand families with the full addressing set.
	type full struct {
		imm, zp, zpx, abs, absx, absy, indx, indy byte
		hasImm                                    bool
	}
	fulls := map[string]full{
		"lda": {imm: 0xA9, zp: 0xA5, zpx: 0xB5, abs: 0xAD, absx: 0xBD, absy: 0xB9, indx: 0xA1, indy: 0xB1, hasImm: true},
		"and": {imm: 0x29, zp: 0x25, zpx: 0x35, abs: 0x2D, absx: 0x3D, absy: 0x39, indx: 0x21, indy: 0x31, hasImm: true},
		"ora": {imm: 0x09, zp: 0x05, zpx: 0x15, abs: 0x0D, absx: 0x1D, absy: 0x19, indx: 0x01, indy: 0x11, hasImm: true},
		"eor": {imm: 0x49, zp: 0x45, zpx: 0x55, abs: 0x4D, absx: 0x5D, absy: 0x59, indx: 0x41, indy: 0x51, hasImm: true},
		"adc": {imm: 0x69, zp: 0x65, zpx: 0x75, abs: 0x6D, absx: 0x7D, absy: 0x79, indx: 0x61, indy: 0x71, hasImm: true},
		"sbc": {imm: 0xE9, zp: 0xE5, zpx: 0xF5, abs: 0xED, absx: 0xFD, absy: 0xF9, indx: 0xE1, indy: 0xF1, hasImm: true},
		"cmp": {imm: 0xC9, zp: 0xC5, zpx: 0xD5, abs: 0xCD, absx: 0xDD, absy: 0xD9, indx: 0xC1, indy: 0xD1, hasImm: true},
	}
	for mnemonic, f := range fulls {
		if f.hasImm {
			add(mnemonic, Immediate, f.imm, 2)
		}
		add(mnemonic, ZeroPage, f.zp, 2)
		add(mnemonic, ZeroPageX, f.zpx, 2)
		add(mnemonic, Absolute, f.abs, 3)
		add(mnemonic, AbsoluteX, f.absx, 3)
		add(mnemonic, AbsoluteY, f.absy, 3)
		add(mnemonic, IndexedIndirect, f.indx, 2)
		add(mnemonic, IndirectIndexed, f.indy, 2)
	}

	// sta has no immediate form.
	add("sta", ZeroPage, 0x85, 2)
	add("sta", ZeroPageX, 0x95, 2)
	add("sta", Absolute, 0x8D, 3)
	add("sta", AbsoluteX, 0x9D, 3)
	add("sta", AbsoluteY, 0x99, 3)
	add("sta", IndexedIndirect, 0x81, 2)
	add("sta", IndirectIndexed, 0x91, 2)

	add("ldx", Immediate, 0xA2, 2)
	add("ldx", ZeroPage, 0xA6, 2)
	add("ldx", ZeroPageY, 0xB6, 2)
	add("ldx", Absolute, 0xAE, 3)
	add("ldx", AbsoluteY, 0xBE, 3)

	add("ldy", Immediate, 0xA0, 2)
	add("ldy", ZeroPage, 0xA4, 2)
	add("ldy", ZeroPageX, 0xB4, 2)
	add("ldy", Absolute, 0xAC, 3)
	add("ldy", AbsoluteX, 0xBC, 3)

	add("stx", ZeroPage, 0x86, 2)
	add("stx", ZeroPageY, 0x96, 2)
	add("stx", Absolute, 0x8E, 3)

	add("sty", ZeroPage, 0x84, 2)
	add("sty", ZeroPageX, 0x94, 2)
	add("sty", Absolute, 0x8C, 3)

	add("cpx", Immediate, 0xE0, 2)
	add("cpx", ZeroPage, 0xE4, 2)
	add("cpx", Absolute, 0xEC, 3)

	add("cpy", Immediate, 0xC0, 2)
	add("cpy", ZeroPage, 0xC4, 2)
	add("cpy", Absolute, 0xCC, 3)

	add("bit", ZeroPage, 0x24, 2)
	add("bit", Absolute, 0x2C, 3)

	add("inc", ZeroPage, 0xE6, 2)
	add("inc", ZeroPageX, 0xF6, 2)
	add("inc", Absolute, 0xEE, 3)
	add("inc", AbsoluteX, 0xFE, 3)

	add("dec", ZeroPage, 0xC6, 2)
	add("dec", ZeroPageX, 0xD6, 2)
	add("dec", Absolute, 0xCE, 3)
	add("dec", AbsoluteX, 0xDE, 3)

	add("jmp", Absolute, 0x4C, 3)
	add("jmp", Indirect, 0x6C, 3)
	add("jsr", Absolute, 0x20, 3)

	for mnemonic, opcode := range branchOpcodes {
		add(mnemonic, Relative, opcode, 2)
	}

	return t
}
