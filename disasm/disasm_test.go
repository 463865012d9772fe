package disasm

import "testing"

func TestDisassembleImmediate(t *testing.T) {
	code := []byte{0xA9, 0x42} // lda #$42
	insts, err := Disassemble(code)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(insts) != 1 {
		t.Fatalf("got %d instructions, want 1", len(insts))
	}
	if insts[0].Text != "LDA #$42" {
		t.Fatalf("text = %q, want %q", insts[0].Text, "LDA #$42")
	}
}

func TestDisassembleIndirectIndexed(t *testing.T) {
	code := []byte{0xB1, 0x20} // lda ($20),Y
	insts, err := Disassemble(code)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if insts[0].Text != "LDA ($20),Y" {
		t.Fatalf("text = %q, want %q", insts[0].Text, "LDA ($20),Y")
	}
}

func TestDisassembleIndexedIndirect(t *testing.T) {
	code := []byte{0xA1, 0x20} // lda ($20,X)
	insts, err := Disassemble(code)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if insts[0].Text != "LDA ($20,X)" {
		t.Fatalf("text = %q, want %q", insts[0].Text, "LDA ($20,X)")
	}
}

func TestDisassembleAbsoluteSequence(t *testing.T) {
	code := []byte{0x4C, 0x00, 0x80, 0x60} // jmp $8000, rts
	insts, err := Disassemble(code)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(insts) != 2 {
		t.Fatalf("got %d instructions, want 2", len(insts))
	}
	if insts[0].Text != "JMP $8000" {
		t.Fatalf("text = %q, want %q", insts[0].Text, "JMP $8000")
	}
	if insts[1].Text != "RTS" {
		t.Fatalf("text = %q, want %q", insts[1].Text, "RTS")
	}
	if insts[1].Offset != 3 {
		t.Fatalf("offset = %d, want 3", insts[1].Offset)
	}
}

func TestDisassembleBranchSignedOffset(t *testing.T) {
	code := []byte{0xD0, 0xFE} // bne -2
	insts, err := Disassemble(code)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if insts[0].Text != "BNE -2" {
		t.Fatalf("text = %q, want %q", insts[0].Text, "BNE -2")
	}
}

func TestDisassembleBrkAliasesCanonicalize(t *testing.T) {
	code := []byte{0x00}
	insts, err := Disassemble(code)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if insts[0].Mnemonic != "brk" {
		t.Fatalf("mnemonic = %q, want brk", insts[0].Mnemonic)
	}
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	code := []byte{0x02} // unused opcode
	insts, err := Disassemble(code)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if insts[0].Text != ".byte $02" {
		t.Fatalf("text = %q, want %q", insts[0].Text, ".byte $02")
	}
}
