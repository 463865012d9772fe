package parser

import "fmt"

// dispatchDirective handles one `.directive args...` line. Directive names
// are case-sensitive, matching the source grammar.
func (a *Assembler) dispatchDirective(nameSym Symbol, args []Symbol) {
	switch nameSym.Text {
	case "include", "import", "inc":
		a.handleInclude(nameSym, args)
	case "prgsize":
		a.handlePrgsize(nameSym, args)
	case "chrsize":
		a.handleChrsize(nameSym, args)
	case "chrbin", "incbin":
		a.handleChrbin(nameSym, args)
	case "horizontal":
		a.Header.Mirroring = false
	case "vertical":
		a.Header.Mirroring = true
	case "battery":
		a.Header.Battery = true
	case "trainer":
		a.Header.Trainer = true
	case "reloc":
		a.handleReloc(nameSym, args)
	case "nrom16":
		a.Header.Mapper = 0
		a.Text.PC = 0xC000
		a.Data.PC = 0x2000
	case "nrom32":
		a.Header.Mapper = 0
		a.Text.PC = 0x8000
		a.Data.PC = 0x2000
	case "org":
		a.handleOrg(nameSym, args)
	case "mapper":
		a.handleMapper(nameSym, args)
	case "nes":
		a.addWarning(nameSym.Pos, "processor selection acknowledged")
	case "text":
		a.Active = SectionText
	case "data":
		a.Active = SectionData
	case "rodata":
		a.Active = SectionRodata
	default:
		a.addError(nameSym.Pos, ErrUnknownDirective, fmt.Sprintf("unknown directive '.%s'", nameSym.Text))
	}
}

func (a *Assembler) directiveNumber(nameSym Symbol, args []Symbol) (uint16, bool) {
	if len(args) != 1 {
		a.addError(nameSym.Pos, ErrBadDirectiveArgument, fmt.Sprintf(".%s requires a numeric argument", nameSym.Text))
		return 0, false
	}
	switch args[0].Kind {
	case SymZeroPage, SymAbsolute, SymDigit:
	default:
		a.addError(nameSym.Pos, ErrBadDirectiveArgument, fmt.Sprintf(".%s requires a numeric argument", nameSym.Text))
		return 0, false
	}
	v, err := NumericValue(args[0])
	if err != nil {
		a.addError(nameSym.Pos, ErrBadDirectiveArgument, err.Error())
		return 0, false
	}
	return v, true
}

func (a *Assembler) directiveString(nameSym Symbol, args []Symbol) (string, bool) {
	if len(args) != 1 || args[0].Kind != SymString {
		a.addError(nameSym.Pos, ErrBadDirectiveArgument, fmt.Sprintf(".%s requires a string argument", nameSym.Text))
		return "", false
	}
	return args[0].Text, true
}

func (a *Assembler) handleInclude(nameSym Symbol, args []Symbol) {
	name, ok := a.directiveString(nameSym, args)
	if !ok {
		return
	}
	if a.reader == nil {
		a.addError(nameSym.Pos, ErrFileNotFound, fmt.Sprintf("cannot open %q: no file reader configured", name))
		return
	}
	data, err := a.reader(name)
	if err != nil {
		a.addError(nameSym.Pos, ErrFileNotFound, fmt.Sprintf("cannot open %q: %v", name, err))
		return
	}
	if err := a.Stack.Push(name, data); err != nil {
		a.addError(nameSym.Pos, ErrIncludeDepthExceeded, err.Error())
	}
}

func (a *Assembler) handlePrgsize(nameSym Symbol, args []Symbol) {
	n, ok := a.directiveNumber(nameSym, args)
	if !ok {
		return
	}
	if n == 0 {
		a.addWarning(nameSym.Pos, "prgsize 0 reset to 1")
		a.Header.PRGBanks = 1
		return
	}
	a.Header.PRGBanks = uint8(n)
}

func (a *Assembler) handleChrsize(nameSym Symbol, args []Symbol) {
	n, ok := a.directiveNumber(nameSym, args)
	if !ok {
		return
	}
	if n == 0 {
		a.addWarning(nameSym.Pos, "chrsize 0 enables CHR-RAM")
	}
	a.Header.CHRBanks = uint8(n)
}

func (a *Assembler) handleChrbin(nameSym Symbol, args []Symbol) {
	name, ok := a.directiveString(nameSym, args)
	if !ok {
		return
	}
	if a.chrImported {
		a.addWarning(nameSym.Pos, fmt.Sprintf("ignoring extra chrbin %q, only one honored", name))
		return
	}
	if a.reader == nil {
		a.addError(nameSym.Pos, ErrFileNotFound, fmt.Sprintf("cannot open %q: no file reader configured", name))
		return
	}
	data, err := a.reader(name)
	if err != nil {
		a.addError(nameSym.Pos, ErrFileNotFound, fmt.Sprintf("cannot open %q: %v", name, err))
		return
	}
	want := 0x2000 * int(a.Header.CHRBanks)
	if len(data) != want {
		a.addWarning(nameSym.Pos, fmt.Sprintf("chrbin %q is %d bytes, expected %d", name, len(data), want))
		if len(data) > want {
			data = data[:want]
		}
	}
	for _, b := range data {
		a.Data.EmitByte(b)
	}
	if len(data) < want {
		for i := len(data); i < want; i++ {
			a.Data.EmitByte(0)
		}
	}
	a.chrImported = true
}

func (a *Assembler) handleReloc(nameSym Symbol, args []Symbol) {
	name, ok := a.directiveString(nameSym, args)
	if !ok {
		return
	}
	a.Header.Entry = name
}

func (a *Assembler) handleOrg(nameSym Symbol, args []Symbol) {
	if len(args) == 1 && args[0].Kind == SymToken && args[0].Text == "old" {
		if !a.hasOldPC {
			a.addError(nameSym.Pos, ErrBadDirectiveArgument, "org old with no saved origin")
			return
		}
		a.Text.PC = a.oldPC
		return
	}
	n, ok := a.directiveNumber(nameSym, args)
	if !ok {
		return
	}
	a.oldPC = a.Text.PC
	a.hasOldPC = true
	a.Text.PC = n
}

func (a *Assembler) handleMapper(nameSym Symbol, args []Symbol) {
	n, ok := a.directiveNumber(nameSym, args)
	if !ok {
		return
	}
	if n != 0 {
		a.addWarning(nameSym.Pos, fmt.Sprintf("mapper %d is unsupported, only mapper 0 (NROM) is implemented", n))
	}
	a.Header.Mapper = n
}
