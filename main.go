package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"nesasm/config"
	"nesasm/disasm"
	"nesasm/ines"
	"nesasm/linker"
	"nesasm/opcodes"
	"nesasm/parser"
	"nesasm/tools"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

const exitUsageOrError = 0xFF

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("nesasm", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		sourceFile  string
		objectFile  = "a.out"
		promArg     string
		cromArg     string
		pramArg     string
		incbinArg   string
		configFile  string
		verbose     bool
		listingFile string
		disasmFile  string
		dumpSymbols bool
		symbolsFile string
		showHelp    bool
		showVersion bool
	)

	fs.StringVar(&sourceFile, "f", "", "input source file")
	fs.StringVar(&sourceFile, "file", "", "input source file")
	fs.StringVar(&objectFile, "o", objectFile, "output ROM path")
	fs.StringVar(&objectFile, "object", objectFile, "output ROM path")
	fs.StringVar(&promArg, "prom", "", "PRG bank count ($hex or decimal)")
	fs.StringVar(&cromArg, "crom", "", "CHR bank count ($hex or decimal)")
	fs.StringVar(&pramArg, "pram", "", "reserved, no-op")
	fs.StringVar(&incbinArg, "incbin", "", "reserved, no-op")
	fs.StringVar(&configFile, "config", "", "load assembler settings from a TOML file")
	fs.BoolVar(&verbose, "verbose", false, "print progress messages (input, instruction count, output) to stderr; no per-line trace")
	fs.StringVar(&listingFile, "listing", "", "write a formatted assembly listing to FILE")
	fs.StringVar(&disasmFile, "disassemble", "", "disassemble an existing iNES ROM's PRG bank and exit")
	fs.BoolVar(&dumpSymbols, "dump-symbols", false, "dump the symbol table after assembly (the ROM is still written)")
	fs.StringVar(&symbolsFile, "symbols-file", "", "symbol dump output file (default: stdout)")
	fs.BoolVar(&showHelp, "help", false, "show usage")
	fs.BoolVar(&showVersion, "version", false, "show version information")

	if err := fs.Parse(args); err != nil {
		return exitUsageOrError
	}

	if showHelp {
		printHelp(fs)
		return exitUsageOrError
	}
	if showVersion {
		fmt.Printf("nesasm %s (commit %s, built %s)\n", Version, Commit, Date)
		return exitUsageOrError
	}

	if disasmFile != "" {
		return runDisassemble(disasmFile)
	}

	if sourceFile == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file (-f/-file)")
		return exitUsageOrError
	}

	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.LoadFrom(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return exitUsageOrError
		}
		cfg = loaded
	}

	opts := parser.Options{
		MaxErrors:             cfg.Assembly.MaxErrors,
		MaxIncludeDepth:       cfg.Include.MaxDepth,
		DefaultEntry:          cfg.Assembly.DefaultEntry,
		DefaultPRG:            uint8(cfg.Assembly.DefaultPRG),
		DefaultCHR:            uint8(cfg.Assembly.DefaultCHR),
		DefaultMapper:         uint16(cfg.Assembly.DefaultMapper),
		AllowRedefineVariable: cfg.Assembly.AllowRedefine,
	}

	src, err := os.ReadFile(sourceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", sourceFile)
		return exitUsageOrError
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Assembling %s\n", sourceFile)
	}

	a := parser.NewAssembler(sourceFile, src, opts)

	if promArg != "" {
		n, err := parseBankCount(promArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: bad -prom value %q: %v\n", promArg, err)
			return exitUsageOrError
		}
		a.Header.PRGBanks = n
	}
	if cromArg != "" {
		n, err := parseBankCount(cromArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: bad -crom value %q: %v\n", cromArg, err)
			return exitUsageOrError
		}
		a.Header.CHRBanks = n
	}
	_ = pramArg
	_ = incbinArg

	reader := newFileReader(cfg.Include.SearchPath)

	if err := a.Run(reader); err != nil {
		fmt.Fprintln(os.Stderr, "An error has occurred")
		fmt.Fprint(os.Stderr, a.Errors.Error())
		return exitUsageOrError
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Assembled %d instructions\n", len(a.Instructions))
	}

	linker.Backpatch(a)

	if a.Errors.HasErrors() {
		if len(a.Errors.Errors) > 1 {
			fmt.Fprintln(os.Stderr, "Multiple errors")
		} else {
			fmt.Fprintln(os.Stderr, "An error has occurred")
		}
		fmt.Fprint(os.Stderr, a.Errors.Error())
		return exitUsageOrError
	}

	if err := linker.VerifyEntryPoint(a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsageOrError
	}

	fmt.Fprint(os.Stderr, a.Errors.PrintWarnings())

	linter := tools.NewLinter(&tools.LintOptions{
		WarnUnreferencedLabels: cfg.Lint.WarnUnreferencedLabels,
		WarnShadowedVariable:   cfg.Lint.WarnShadowedVariable,
	})
	if style := linter.StyleIssues(a); len(style) > 0 {
		fmt.Fprint(os.Stderr, tools.FormatIssues(style))
	}

	if dumpSymbols {
		dump := tools.SymbolDump(a)
		if symbolsFile != "" {
			if err := os.WriteFile(symbolsFile, []byte(dump), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing symbols file: %v\n", err)
				return exitUsageOrError
			}
		} else {
			fmt.Print(dump)
		}
	}

	if listingFile != "" {
		listingOpts := tools.DefaultListingOptions()
		listingOpts.ColorOutput = cfg.Display.ColorOutput
		listingOpts.NumberFormat = cfg.Display.NumberFormat
		if cfg.Display.BytesPerLine > 0 {
			listingOpts.BytesPerLine = cfg.Display.BytesPerLine
		}
		if cfg.Display.ListingWidth > 0 {
			listingOpts.BytesColumn = cfg.Display.ListingWidth / 8
		}
		listing := tools.Listing(a, listingOpts)
		if err := os.WriteFile(listingFile, []byte(listing), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing listing file: %v\n", err)
			return exitUsageOrError
		}
	}

	prg, err := linker.BuildPRG(a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsageOrError
	}
	chr := linker.BuildCHR(a)
	byte6, byte7 := linker.BuildHeaderFlags(a)

	out, err := os.Create(objectFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", objectFile, err)
		return exitUsageOrError
	}
	defer out.Close()

	hdr := ines.Header{PRGBanks: a.Header.PRGBanks, CHRBanks: a.Header.CHRBanks, Flags6: byte6, Flags7: byte7}
	if err := ines.WriteROM(out, hdr, prg, chr); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", objectFile, err)
		return exitUsageOrError
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Wrote %s (%d PRG bank(s), %d CHR bank(s))\n", objectFile, a.Header.PRGBanks, a.Header.CHRBanks)
	}

	return 0
}

func runDisassemble(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", path)
		return exitUsageOrError
	}
	if len(data) < 16 || string(data[0:3]) != "NES" {
		fmt.Fprintln(os.Stderr, "Error: not an iNES ROM")
		return exitUsageOrError
	}
	prgBanks := int(data[4])
	prgSize := prgBanks * 0x4000
	if 16+prgSize > len(data) {
		fmt.Fprintln(os.Stderr, "Error: PRG-ROM extends past end of file")
		return exitUsageOrError
	}
	insts, err := disasm.Disassemble(data[16 : 16+prgSize])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error disassembling: %v\n", err)
		return exitUsageOrError
	}
	for _, inst := range insts {
		fmt.Printf("%04X: %s\n", inst.Offset, inst.Text)
	}
	return 0
}

// newFileReader returns a parser.FileReader for .include/.chrbin directives.
// It tries name relative to the current directory first, then each entry of
// searchPath in order, matching the usual "CWD wins, then the search path"
// convention for assembler include directories.
func newFileReader(searchPath []string) parser.FileReader {
	return func(name string) ([]byte, error) {
		data, err := os.ReadFile(name)
		if err == nil || !os.IsNotExist(err) || filepath.IsAbs(name) {
			return data, err
		}
		for _, dir := range searchPath {
			data, dirErr := os.ReadFile(filepath.Join(dir, name))
			if dirErr == nil {
				return data, nil
			}
		}
		return nil, err
	}
}

func parseBankCount(arg string) (uint8, error) {
	if strings.HasPrefix(arg, "$") {
		v, err := strconv.ParseUint(strings.TrimPrefix(arg, "$"), 16, 8)
		if err != nil {
			return 0, err
		}
		return uint8(v), nil
	}
	v, err := strconv.ParseUint(arg, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}

func printHelp(fs *flag.FlagSet) {
	fmt.Println("nesasm - a two-pass 6502/NES assembler")
	fmt.Println()
	fmt.Println("Usage: nesasm -f FILE [-o FILE] [options]")
	fmt.Println()
	fmt.Println("Known mnemonics:")
	names := make([]string, 0, len(opcodes.Default))
	for m := range opcodes.Default {
		names = append(names, m)
	}
	fmt.Println(strings.Join(names, ", "))
	fmt.Println()
	fs.PrintDefaults()
}
