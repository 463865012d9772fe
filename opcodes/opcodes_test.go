package opcodes

import "testing"

func TestResolveLDA(t *testing.T) {
	cases := []struct {
		mode   AddressingMode
		opcode byte
		length uint8
	}{
		{Immediate, 0xA9, 2},
		{ZeroPage, 0xA5, 2},
		{ZeroPageX, 0xB5, 2},
		{Absolute, 0xAD, 3},
		{AbsoluteX, 0xBD, 3},
		{AbsoluteY, 0xB9, 3},
		{IndexedIndirect, 0xA1, 2},
		{IndirectIndexed, 0xB1, 2},
	}
	for _, c := range cases {
		f, err := Resolve("lda", c.mode)
		if err != nil {
			t.Fatalf("lda %s: %v", c.mode, err)
		}
		if f.Opcode != c.opcode || f.Length != c.length {
			t.Errorf("lda %s: got opcode=%02X length=%d, want opcode=%02X length=%d", c.mode, f.Opcode, f.Length, c.opcode, c.length)
		}
	}
}

func TestResolveSTAHasNoImmediate(t *testing.T) {
	if _, err := Resolve("sta", Immediate); err == nil {
		t.Fatal("expected error resolving sta in immediate mode")
	}
}

func TestResolveUnknownMnemonic(t *testing.T) {
	_, err := Resolve("qqq", Implied)
	if err == nil {
		t.Fatal("expected error for unknown mnemonic")
	}
	if _, ok := err.(*UnknownMnemonicError); !ok {
		t.Errorf("expected *UnknownMnemonicError, got %T", err)
	}
}

func TestImpliedOpcodes(t *testing.T) {
	f, err := Resolve("rts", Implied)
	if err != nil {
		t.Fatal(err)
	}
	if f.Opcode != 0x60 || f.Length != 1 {
		t.Errorf("rts: got opcode=%02X length=%d", f.Opcode, f.Length)
	}
}

func TestBrkAliases(t *testing.T) {
	for _, m := range []string{"brk", "syscall", "break"} {
		f, err := Resolve(m, Implied)
		if err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		if f.Opcode != 0x00 {
			t.Errorf("%s: got opcode=%02X, want 0x00", m, f.Opcode)
		}
	}
}

func TestJmpIndirect(t *testing.T) {
	f, err := Resolve("jmp", Indirect)
	if err != nil {
		t.Fatal(err)
	}
	if f.Opcode != 0x6C || f.Length != 3 {
		t.Errorf("jmp indirect: got opcode=%02X length=%d", f.Opcode, f.Length)
	}
}

func TestBranches(t *testing.T) {
	for mnemonic, want := range branchOpcodes {
		op, ok := BranchOpcode(mnemonic)
		if !ok {
			t.Fatalf("%s: not found", mnemonic)
		}
		if op != want {
			t.Errorf("%s: got %02X, want %02X", mnemonic, op, want)
		}
		if !IsBranch(mnemonic) {
			t.Errorf("%s should report IsBranch", mnemonic)
		}
	}
	if IsBranch("lda") {
		t.Error("lda should not be a branch")
	}
}
