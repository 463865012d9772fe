package tools

import (
	"strings"
	"testing"

	"nesasm/linker"
)

func TestListingRendersMnemonics(t *testing.T) {
	a := assembleSource(t, "_main: lda #$42\n       rts\n")
	linker.Backpatch(a)
	out := Listing(a, nil)
	if !strings.Contains(out, "LDA #$42") {
		t.Fatalf("listing missing LDA line:\n%s", out)
	}
	if !strings.Contains(out, "RTS") {
		t.Fatalf("listing missing RTS line:\n%s", out)
	}
}

func TestListingShowsAddress(t *testing.T) {
	a := assembleSource(t, "_main: rts\n")
	out := Listing(a, nil)
	if !strings.Contains(out, "C000:") {
		t.Fatalf("listing missing start address:\n%s", out)
	}
}

func TestListingHonorsDecimalNumberFormat(t *testing.T) {
	a := assembleSource(t, "_main: lda #$42\n       rts\n")
	linker.Backpatch(a)
	opts := DefaultListingOptions()
	opts.NumberFormat = "dec"
	out := Listing(a, opts)
	if !strings.Contains(out, "LDA #66") {
		t.Fatalf("listing should render #$42 as decimal 66:\n%s", out)
	}
	if strings.Contains(out, "$42") {
		t.Fatalf("listing should not contain the hex literal once decimal format is requested:\n%s", out)
	}
}

func TestListingHonorsColorOutput(t *testing.T) {
	a := assembleSource(t, "_main: rts\n")
	opts := DefaultListingOptions()
	opts.ColorOutput = true
	out := Listing(a, opts)
	if !strings.Contains(out, "\x1b[36m") {
		t.Fatalf("expected an ANSI color code in colorized listing:\n%q", out)
	}
}

func TestListingDumpsDataSection(t *testing.T) {
	a := assembleSource(t, "_main: rts\n.data\nbyte $01,$02,$03\n")
	out := Listing(a, nil)
	if !strings.Contains(out, "; data") {
		t.Fatalf("listing missing data section header:\n%s", out)
	}
	if !strings.Contains(out, "01 02 03") {
		t.Fatalf("listing missing data bytes:\n%s", out)
	}
}

func TestSymbolDumpSorted(t *testing.T) {
	a := assembleSource(t, "_b: rts\n_a: rts\nFOO = $10\n")
	out := SymbolDump(a)
	aIdx := strings.Index(out, "_a")
	bIdx := strings.Index(out, "_b")
	if aIdx == -1 || bIdx == -1 || aIdx > bIdx {
		t.Fatalf("expected _a before _b in symbol dump:\n%s", out)
	}
	if !strings.Contains(out, "FOO") {
		t.Fatalf("symbol dump missing variable FOO:\n%s", out)
	}
}
