package tools

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"nesasm/disasm"
	"nesasm/parser"
)

// ListingOptions configures Listing's column widths and number rendering,
// sourced from config.Config's Display section.
type ListingOptions struct {
	AddressColumn int
	BytesColumn   int
	BytesPerLine  int    // wrapping width for the trailing DATA/RODATA hex dump
	NumberFormat  string // "hex" (default) or "dec"
	ColorOutput   bool   // wrap columns in ANSI color codes for a terminal
}

// DefaultListingOptions matches config.DefaultConfig's Display section
// (BytesColumn is its ListingWidth/8), except that ColorOutput is off.
func DefaultListingOptions() *ListingOptions {
	return &ListingOptions{AddressColumn: 6, BytesColumn: 10, BytesPerLine: 16, NumberFormat: "hex"}
}

const (
	ansiAddress = "\x1b[36m"
	ansiBytes   = "\x1b[33m"
	ansiReset   = "\x1b[0m"
)

func colorize(s, code string, enabled bool) string {
	if !enabled {
		return s
	}
	return code + s + ansiReset
}

// Listing renders an address/bytes/mnemonic listing of every assembled TEXT
// instruction, re-disassembling each instruction's own bytes through
// package disasm so the listing and the -disassemble CLI mode share one
// rendering path, followed by a hex dump of the DATA and RODATA sections.
func Listing(a *parser.Assembler, opts *ListingOptions) string {
	if opts == nil {
		opts = DefaultListingOptions()
	}
	var sb strings.Builder
	for _, inst := range a.Instructions {
		end := inst.ByteOffset + int(inst.Length)
		if end > len(a.Text.Bytes) {
			continue
		}
		raw := a.Text.Bytes[inst.ByteOffset:end]
		text := applyNumberFormat(formatListingText(raw), opts.NumberFormat)
		addr := colorize(fmt.Sprintf("%04X:", inst.StartPC), ansiAddress, opts.ColorOutput)
		bytes := colorize(formatHexBytes(raw), ansiBytes, opts.ColorOutput)
		sb.WriteString(padToColumn(addr, opts.AddressColumn))
		sb.WriteString(padToColumn(bytes, opts.BytesColumn))
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	sb.WriteString(hexDumpSection("data", a.Data, opts))
	sb.WriteString(hexDumpSection("rodata", a.Rodata, opts))
	return sb.String()
}

// hexDumpSection renders sec's bytes as address-prefixed hex rows of
// opts.BytesPerLine bytes each. The section's starting address is its
// current PC minus the bytes already emitted, which holds as long as a
// section's origin is only ever set once, before any byte is emitted into
// it (true of .nrom16/.nrom32, the only directives that move Data.PC).
func hexDumpSection(label string, sec *parser.Section, opts *ListingOptions) string {
	if sec == nil || len(sec.Bytes) == 0 {
		return ""
	}
	perLine := opts.BytesPerLine
	if perLine <= 0 {
		perLine = 16
	}
	start := sec.PC - uint16(len(sec.Bytes))
	var sb strings.Builder
	fmt.Fprintf(&sb, "; %s\n", label)
	for off := 0; off < len(sec.Bytes); off += perLine {
		end := off + perLine
		if end > len(sec.Bytes) {
			end = len(sec.Bytes)
		}
		row := sec.Bytes[off:end]
		addr := colorize(fmt.Sprintf("%04X:", start+uint16(off)), ansiAddress, opts.ColorOutput)
		bytes := colorize(formatHexBytes(row), ansiBytes, opts.ColorOutput)
		sb.WriteString(padToColumn(addr, opts.AddressColumn))
		sb.WriteString(bytes)
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatListingText(raw []byte) string {
	decoded, err := disasm.Disassemble(raw)
	if err != nil || len(decoded) == 0 {
		return ".byte " + formatHexBytes(raw)
	}
	return decoded[0].Text
}

func formatHexBytes(raw []byte) string {
	parts := make([]string, len(raw))
	for i, b := range raw {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}

var hexLiteralPattern = regexp.MustCompile(`\$[0-9A-Fa-f]+`)

// applyNumberFormat rewrites every $-prefixed hex literal in text to decimal
// when format is "dec". Any other value, including the "hex" default,
// leaves text unchanged.
func applyNumberFormat(text, format string) string {
	if format != "dec" {
		return text
	}
	return hexLiteralPattern.ReplaceAllStringFunc(text, func(m string) string {
		v, err := strconv.ParseUint(m[1:], 16, 64)
		if err != nil {
			return m
		}
		return strconv.FormatUint(v, 10)
	})
}

// padToColumn pads s with spaces until it is at least width runes wide,
// always leaving at least one separating space.
func padToColumn(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}

// SymbolDump renders every defined label and variable, sorted by name, for
// the -dump-symbols CLI flag.
func SymbolDump(a *parser.Assembler) string {
	var sb strings.Builder

	labelNames := make([]string, 0, len(a.Symbols.Labels()))
	for name := range a.Symbols.Labels() {
		labelNames = append(labelNames, name)
	}
	sort.Strings(labelNames)
	for _, name := range labelNames {
		label, _ := a.Symbols.LookupLabel(name)
		fmt.Fprintf(&sb, "%-24s label    $%04X  %s\n", name, label.Address, label.Section)
	}

	varNames := make([]string, 0, len(a.Symbols.Variables()))
	for name := range a.Symbols.Variables() {
		varNames = append(varNames, name)
	}
	sort.Strings(varNames)
	for _, name := range varNames {
		v, _ := a.Symbols.LookupVariable(name)
		fmt.Fprintf(&sb, "%-24s variable $%04X\n", name, v.Value)
	}

	return sb.String()
}
