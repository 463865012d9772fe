package parser

import (
	"fmt"
	"strings"

	"nesasm/opcodes"
)

// assembleLine processes exactly one source line and reports whether the
// whole assembly has reached end of input.
func (a *Assembler) assembleLine() bool {
	a.Scanner.SkipLineLeadingSpace()
	c, ok := a.Scanner.PeekByte()
	if !ok {
		return true
	}
	if c == '\n' {
		if sym, err := a.Scanner.Next(); err != nil {
			a.Errors.AddError(err.(*Error))
		} else if sym.Kind == SymEOF {
			return true
		}
		return false
	}
	if c == '.' {
		a.Scanner.ConsumeByte()
		a.assembleDirectiveLine()
		return false
	}
	a.assembleCodeLine()
	return false
}

// drainLine discards symbols through the next newline/EOF, used after an
// error to resynchronize at the next line.
func (a *Assembler) drainLine() {
	for {
		sym, err := a.Scanner.Next()
		if err != nil {
			continue
		}
		if sym.Kind == SymNewline || sym.Kind == SymEOF {
			return
		}
	}
}

// collectLine gathers the symbols of the current line up to (but not
// including) the terminating newline/EOF. When gate is true, fast_skip
// rules apply: punctuation and numeric literals are only legal once a
// TOKEN has appeared on the line.
func (a *Assembler) collectLine(gate bool) []Symbol {
	var line []Symbol
	fastSkip := false
	for {
		sym, err := a.Scanner.Next()
		if err != nil {
			a.Errors.AddError(err.(*Error))
			continue
		}
		if sym.Kind == SymNewline || sym.Kind == SymEOF {
			return line
		}
		if gate {
			if sym.Kind == SymToken {
				fastSkip = true
			} else if !fastSkip {
				a.addError(sym.Pos, ErrLexicalJunk, fmt.Sprintf("junk %q", sym.Text))
				continue
			}
		}
		line = append(line, sym)
	}
}

func (a *Assembler) assembleDirectiveLine() {
	nameSym, err := a.Scanner.Next()
	if err != nil {
		a.Errors.AddError(err.(*Error))
		a.drainLine()
		return
	}
	if nameSym.Kind != SymToken {
		a.addError(nameSym.Pos, ErrUnknownDirective, "expected directive name after '.'")
		a.drainLine()
		return
	}
	args := a.collectLine(false)
	a.dispatchDirective(nameSym, args)
}

func (a *Assembler) assembleCodeLine() {
	line := a.collectLine(true)
	if len(line) == 0 {
		return
	}

	if len(line) >= 2 && line[0].Kind == SymToken {
		switch line[1].Kind {
		case SymLabel:
			name := line[0].Text
			pc := a.activeSection().PC
			if err := a.Symbols.DefineLabel(name, pc, a.Active); err != nil {
				a.addError(line[0].Pos, ErrDuplicateLabel, err.Error())
			}
			a.dispatchRest(line[2:])
			return
		case SymAssignment:
			if len(line) < 3 {
				a.addError(line[0].Pos, ErrBadDirectiveArgument, "expected value after '='")
				return
			}
			val, err := NumericValue(line[2])
			if err != nil {
				a.addError(line[2].Pos, ErrBadDirectiveArgument, err.Error())
				return
			}
			if len(line) > 3 {
				a.addError(line[3].Pos, ErrBadDirectiveArgument, "unexpected extra operand")
				return
			}
			if err := a.Symbols.DefineVariable(line[0].Text, val); err != nil {
				a.addError(line[0].Pos, ErrDuplicateLabel, err.Error())
			}
			return
		}
	}

	a.dispatchRest(line)
}

func (a *Assembler) dispatchRest(rest []Symbol) {
	if len(rest) == 0 {
		return
	}
	switch a.Active {
	case SectionText:
		a.assembleInstruction(rest)
	case SectionData, SectionRodata:
		a.assembleDataLine(rest)
	}
}

func (a *Assembler) assembleDataLine(rest []Symbol) {
	first := rest[0]
	if first.Kind != SymToken || !(strings.EqualFold(first.Text, "byte") || strings.EqualFold(first.Text, "db")) {
		a.addError(first.Pos, ErrBadSection, "data line must begin with 'byte' or 'db'")
		return
	}
	items := rest[1:]
	if len(items) == 0 {
		a.addError(first.Pos, ErrBadDirectiveArgument, "expected at least one value after 'byte'")
		return
	}

	sec := a.activeSection()
	expectComma := false
	for _, tok := range items {
		if expectComma {
			if tok.Kind == SymExtraOperand && tok.Text == "," {
				expectComma = false
				continue
			}
			a.addError(tok.Pos, ErrExpectedComma, "expected ','")
			return
		}
		switch tok.Kind {
		case SymZeroPage, SymAbsolute, SymDigit:
			v, err := NumericValue(tok)
			if err != nil {
				a.addError(tok.Pos, ErrBadDirectiveArgument, err.Error())
				return
			}
			sec.EmitByte(byte(v))
		case SymString:
			for i := 0; i < len(tok.Text); i++ {
				sec.EmitByte(tok.Text[i])
			}
		default:
			a.addError(tok.Pos, ErrBadDirectiveArgument, fmt.Sprintf("unexpected %s in data list", tok.Kind))
			return
		}
		expectComma = true
	}
	if !expectComma {
		a.addError(items[len(items)-1].Pos, ErrBadDirectiveArgument, "expected element after ','")
		return
	}
	if a.Active == SectionRodata {
		sec.EmitByte(0)
	}
}

// operand is the parsed, already-classified addressing-mode operand for a
// TEXT instruction.
type operand struct {
	mode    opcodes.AddressingMode
	value   uint16
	label   string
	pending bool
}

func (a *Assembler) resolveNumericOrLabel(sym Symbol) (uint16, string, bool, error) {
	switch sym.Kind {
	case SymZeroPage, SymAbsolute, SymDigit:
		v, err := NumericValue(sym)
		return v, "", false, err
	case SymToken:
		if v, ok := a.Symbols.Resolve(sym.Text); ok {
			return v, sym.Text, false, nil
		}
		return 0, sym.Text, true, nil
	default:
		return 0, "", false, fmt.Errorf("expected operand, got %s", sym.Kind)
	}
}

func isRegister(sym Symbol, name string) bool {
	return sym.Kind == SymToken && sym.Text == name
}

func (a *Assembler) parseOperand(toks []Symbol) (operand, error) {
	if len(toks) == 0 {
		return operand{mode: opcodes.Implied}, nil
	}

	first := toks[0]

	if first.Kind == SymImmediate {
		if len(toks) != 1 {
			return operand{}, fmt.Errorf("unexpected extra operand after immediate")
		}
		v, err := NumericValue(first)
		if err != nil {
			return operand{}, err
		}
		return operand{mode: opcodes.Immediate, value: v}, nil
	}

	if first.Kind == SymIndirectOpen {
		return a.parseIndirectOperand(toks)
	}

	switch first.Kind {
	case SymZeroPage, SymAbsolute, SymDigit, SymToken:
		val, label, pending, err := a.resolveNumericOrLabel(first)
		if err != nil {
			return operand{}, err
		}
		baseMode := opcodes.ZeroPage
		if first.Kind == SymAbsolute || (first.Kind == SymDigit && val > 0xFF) {
			baseMode = opcodes.Absolute
		} else if first.Kind == SymToken {
			// A variable already defined with a one-byte value addresses zero
			// page like the literal it stands for; labels and unresolved names
			// stay absolute.
			if _, isVar := a.Symbols.LookupVariable(first.Text); !isVar || val > 0xFF {
				baseMode = opcodes.Absolute
			}
		}
		if len(toks) == 1 {
			return operand{mode: baseMode, value: val, label: label, pending: pending}, nil
		}
		if len(toks) != 3 || !(toks[1].Kind == SymExtraOperand && toks[1].Text == ",") {
			return operand{}, fmt.Errorf("bad addressing form")
		}
		reg := toks[2]
		switch {
		case isRegister(reg, "X"):
			if baseMode == opcodes.ZeroPage {
				baseMode = opcodes.ZeroPageX
			} else {
				baseMode = opcodes.AbsoluteX
			}
		case isRegister(reg, "Y"):
			if baseMode == opcodes.ZeroPage {
				baseMode = opcodes.ZeroPageY
			} else {
				baseMode = opcodes.AbsoluteY
			}
		default:
			return operand{}, fmt.Errorf("expected register X or Y")
		}
		return operand{mode: baseMode, value: val, label: label, pending: pending}, nil
	default:
		return operand{}, fmt.Errorf("unexpected operand token")
	}
}

func (a *Assembler) parseIndirectOperand(toks []Symbol) (operand, error) {
	if len(toks) < 3 {
		return operand{}, fmt.Errorf("bad indirect addressing form")
	}
	inner := toks[1]
	val, label, pending, err := a.resolveNumericOrLabel(inner)
	if err != nil {
		return operand{}, err
	}

	switch {
	case toks[2].Kind == SymExtraOperand && toks[2].Text == ",":
		// (ZP,X)
		if len(toks) != 5 || !isRegister(toks[3], "X") || toks[4].Kind != SymIndirectClose {
			return operand{}, fmt.Errorf("bad (zp,X) addressing form")
		}
		return operand{mode: opcodes.IndexedIndirect, value: val, label: label, pending: pending}, nil

	case toks[2].Kind == SymIndirectClose:
		if len(toks) == 3 {
			// (abs) — jmp indirect only
			return operand{mode: opcodes.Indirect, value: val, label: label, pending: pending}, nil
		}
		if len(toks) != 5 || !(toks[3].Kind == SymExtraOperand && toks[3].Text == ",") || !isRegister(toks[4], "Y") {
			return operand{}, fmt.Errorf("bad (zp),Y addressing form")
		}
		return operand{mode: opcodes.IndirectIndexed, value: val, label: label, pending: pending}, nil

	default:
		return operand{}, fmt.Errorf("bad indirect addressing form")
	}
}

func (a *Assembler) emitInstruction(inst *Instruction) {
	inst.StartPC = a.Text.PC
	inst.ByteOffset = len(a.Text.Bytes)
	a.Text.EmitByte(inst.Opcode)
	switch inst.Length {
	case 2:
		a.Text.EmitByte(byte(inst.Operand))
	case 3:
		a.Text.EmitByte(byte(inst.Operand))
		a.Text.EmitByte(byte(inst.Operand >> 8))
	}
	a.Instructions = append(a.Instructions, inst)
}

func (a *Assembler) assembleInstruction(rest []Symbol) {
	mnemonicSym := rest[0]
	mnemonic := strings.ToLower(mnemonicSym.Text)
	args := rest[1:]

	if opcodes.IsBranch(mnemonic) {
		a.assembleBranch(mnemonicSym, mnemonic, args)
		return
	}

	op, err := a.parseOperand(args)
	if err != nil {
		a.addError(mnemonicSym.Pos, ErrBadAddressingForm, err.Error())
		return
	}

	form, err := opcodes.Resolve(mnemonic, op.mode)
	if err != nil {
		switch err.(type) {
		case *opcodes.UnknownMnemonicError:
			a.addError(mnemonicSym.Pos, ErrUnknownMnemonic, err.Error())
		default:
			a.addError(mnemonicSym.Pos, ErrBadAddressingForm, err.Error())
		}
		return
	}

	inst := &Instruction{
		StartPC:  a.Text.PC,
		Opcode:   form.Opcode,
		Length:   form.Length,
		Operand:  op.value,
		Pending:  op.pending,
		PendKind: PendingAbsolute,
		Label:    op.label,
		Mnemonic: mnemonic,
		Pos:      mnemonicSym.Pos,
	}
	a.emitInstruction(inst)
}

func (a *Assembler) assembleBranch(mnemonicSym Symbol, mnemonic string, args []Symbol) {
	if len(args) != 1 {
		a.addError(mnemonicSym.Pos, ErrBadAddressingForm, fmt.Sprintf("%s expects a single branch target", mnemonic))
		return
	}
	opcode, _ := opcodes.BranchOpcode(mnemonic)
	val, label, pending, err := a.resolveNumericOrLabel(args[0])
	if err != nil {
		a.addError(mnemonicSym.Pos, ErrBadAddressingForm, err.Error())
		return
	}
	inst := &Instruction{
		StartPC:  a.Text.PC,
		Opcode:   opcode,
		Length:   2,
		Operand:  val,
		Pending:  true,
		PendKind: PendingRelative,
		Label:    label,
		Mnemonic: mnemonic,
		Pos:      mnemonicSym.Pos,
	}
	_ = pending
	a.emitInstruction(inst)
}
