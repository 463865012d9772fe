package parser

import "fmt"

// PendingKind distinguishes the two flavors of backpatch an Instruction may
// require: a plain absolute address, or a signed relative branch offset.
type PendingKind int

const (
	PendingAbsolute PendingKind = iota
	PendingRelative
)

// Instruction is one emitted TEXT-section instruction. StartPC and
// ByteOffset both describe "where this instruction lives", but over two
// different axes: StartPC is the section program counter (what labels
// measure against), ByteOffset is the running index into the TEXT byte
// buffer (what the linker's PRG write position measures against). The two
// differ whenever the TEXT PC is not zero: it starts at 0xC000 and
// `.org`/`.nrom16`/`.nrom32` move it, while ByteOffset always counts from 0.
type Instruction struct {
	StartPC    uint16
	ByteOffset int
	Opcode     byte
	Length     uint8
	Operand    uint16
	Pending    bool
	PendKind   PendingKind
	Label      string
	Mnemonic   string
	Pos        Position
}

// Options configures an Assembler run. It is the parser package's own
// settings surface, kept free of any dependency on the config package so
// main.go is the only place that translates a loaded config.Config into
// these fields.
type Options struct {
	MaxErrors             int
	MaxIncludeDepth       int
	DefaultEntry          string
	DefaultPRG            uint8
	DefaultCHR            uint8
	DefaultMapper         uint16
	AllowRedefineVariable bool
}

// DefaultOptions mirrors the spec's initial header state.
func DefaultOptions() Options {
	return Options{
		MaxErrors:       3,
		MaxIncludeDepth: MaxIncludeDepth,
		DefaultEntry:    "_main",
		DefaultPRG:      1,
		DefaultCHR:      1,
		DefaultMapper:   0,
	}
}

// FileReader abstracts the filesystem for include/.chrbin directives. The
// core never calls os.ReadFile directly — that belongs to main.go, per the
// "external collaborators" boundary.
type FileReader func(name string) ([]byte, error)

// Assembler is the mutable aggregate threaded through the whole pipeline:
// the include stack, the scanner reading from it, the symbol table, the
// three section buffers, and the header configuration being built up by
// preprocessor directives.
type Assembler struct {
	Stack   *IncludeStack
	Scanner *Scanner
	Symbols *SymbolTable
	Header  HeaderConfig

	Text   *Section
	Data   *Section
	Rodata *Section
	Active SectionKind

	Instructions []*Instruction
	Errors       *ErrorList

	Opts   Options
	reader FileReader

	oldPC       uint16
	hasOldPC    bool
	chrImported bool
}

// NewAssembler builds an Assembler ready to process src as filename, with
// the header defaults from opts.
func NewAssembler(filename string, src []byte, opts Options) *Assembler {
	hdr := DefaultHeaderConfig()
	if opts.DefaultEntry != "" {
		hdr.Entry = opts.DefaultEntry
	}
	if opts.DefaultPRG != 0 {
		hdr.PRGBanks = opts.DefaultPRG
	}
	hdr.CHRBanks = opts.DefaultCHR
	hdr.Mapper = opts.DefaultMapper

	stack := NewIncludeStackWithDepth(filename, src, opts.MaxIncludeDepth)

	return &Assembler{
		Stack:   stack,
		Scanner: NewScanner(stack, filename),
		Symbols: NewSymbolTable(opts.AllowRedefineVariable),
		Header:  hdr,
		Text:    NewSection(SectionText, 0xC000),
		Data:    NewSection(SectionData, 0),
		Rodata:  NewSection(SectionRodata, 0),
		Active:  SectionText,
		Errors:  &ErrorList{MaxErrors: opts.MaxErrors},
		Opts:    opts,
	}
}

func (a *Assembler) activeSection() *Section {
	switch a.Active {
	case SectionText:
		return a.Text
	case SectionData:
		return a.Data
	case SectionRodata:
		return a.Rodata
	default:
		return a.Text
	}
}

func (a *Assembler) addError(pos Position, kind ErrorKind, msg string) {
	a.Errors.AddError(NewError(pos, kind, msg))
}

func (a *Assembler) addWarning(pos Position, msg string) {
	a.Errors.AddWarning(&Warning{Pos: pos, Message: msg})
}

// Run drives the scanner/line-assembler loop to completion, consuming
// include and .chrbin file contents through reader. It returns a non-nil
// error only for conditions that abort the run outright (the error
// threshold being exceeded); ordinary per-line diagnostics accumulate in
// a.Errors and assembly continues.
func (a *Assembler) Run(reader FileReader) error {
	a.reader = reader
	for {
		if a.Errors.Exceeded() {
			return fmt.Errorf("error threshold exceeded (%d errors)", len(a.Errors.Errors))
		}
		done := a.assembleLine()
		if done {
			break
		}
	}
	a.Errors.Warnings = append(a.Errors.Warnings, a.Scanner.Warnings...)
	return nil
}
