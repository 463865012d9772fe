// Package disasm provides a table-driven 6502 disassembler, the inverse of
// package opcodes' addressing-mode matcher. It backs both the assembler's
// listing output and the CLI's standalone -disassemble mode.
package disasm

import (
	"fmt"
	"strings"

	"nesasm/opcodes"
)

type reverseEntry struct {
	Mnemonic string
	Mode     opcodes.AddressingMode
	Length   uint8
}

var reverseTable = buildReverseTable()

func buildReverseTable() map[byte]reverseEntry {
	rt := make(map[byte]reverseEntry)
	for mnemonic, forms := range opcodes.Default {
		for _, f := range forms {
			rt[f.Opcode] = reverseEntry{Mnemonic: mnemonic, Mode: f.Mode, Length: f.Length}
		}
	}
	// brk/syscall/break all assemble to 0x00; canonicalize the disassembly
	// to brk regardless of map iteration order.
	rt[0x00] = reverseEntry{Mnemonic: "brk", Mode: opcodes.Implied, Length: 1}
	return rt
}

// Instruction is one decoded instruction: its offset in the input, the raw
// opcode byte, the resolved mnemonic/mode/operand, and a formatted text
// rendering.
type Instruction struct {
	Offset   int
	Opcode   byte
	Mnemonic string
	Mode     opcodes.AddressingMode
	Operand  uint16
	Length   uint8
	Text     string
}

// Disassemble decodes code into a sequence of Instructions. Unknown opcodes
// are rendered as a `.byte $XX` placeholder rather than aborting the whole
// walk, mirroring the assembler's per-line error recovery philosophy.
func Disassemble(code []byte) ([]Instruction, error) {
	var out []Instruction
	i := 0
	for i < len(code) {
		op := code[i]
		entry, ok := reverseTable[op]
		if !ok {
			out = append(out, Instruction{
				Offset: i, Opcode: op, Mnemonic: "???", Length: 1,
				Text: fmt.Sprintf(".byte $%02X", op),
			})
			i++
			continue
		}
		length := int(entry.Length)
		if i+length > len(code) {
			out = append(out, Instruction{
				Offset: i, Opcode: op, Mnemonic: entry.Mnemonic, Mode: entry.Mode, Length: entry.Length,
				Text: fmt.Sprintf("%s ; truncated", strings.ToUpper(entry.Mnemonic)),
			})
			break
		}
		var operand uint16
		switch length {
		case 2:
			operand = uint16(code[i+1])
		case 3:
			operand = uint16(code[i+1]) | uint16(code[i+2])<<8
		}
		out = append(out, Instruction{
			Offset: i, Opcode: op, Mnemonic: entry.Mnemonic, Mode: entry.Mode,
			Operand: operand, Length: entry.Length,
			Text: Format(entry.Mnemonic, entry.Mode, operand),
		})
		i += length
	}
	return out, nil
}

// Format renders one mnemonic/mode/operand triple in source-like syntax.
func Format(mnemonic string, mode opcodes.AddressingMode, operand uint16) string {
	m := strings.ToUpper(mnemonic)
	switch mode {
	case opcodes.Implied:
		return m
	case opcodes.Immediate:
		return fmt.Sprintf("%s #$%02X", m, operand)
	case opcodes.ZeroPage:
		return fmt.Sprintf("%s $%02X", m, operand)
	case opcodes.ZeroPageX:
		return fmt.Sprintf("%s $%02X,X", m, operand)
	case opcodes.ZeroPageY:
		return fmt.Sprintf("%s $%02X,Y", m, operand)
	case opcodes.Absolute:
		return fmt.Sprintf("%s $%04X", m, operand)
	case opcodes.AbsoluteX:
		return fmt.Sprintf("%s $%04X,X", m, operand)
	case opcodes.AbsoluteY:
		return fmt.Sprintf("%s $%04X,Y", m, operand)
	case opcodes.Indirect:
		return fmt.Sprintf("%s ($%04X)", m, operand)
	case opcodes.IndexedIndirect:
		return fmt.Sprintf("%s ($%02X,X)", m, operand)
	case opcodes.IndirectIndexed:
		return fmt.Sprintf("%s ($%02X),Y", m, operand)
	case opcodes.Relative:
		return fmt.Sprintf("%s %d", m, int8(operand))
	default:
		return m
	}
}
