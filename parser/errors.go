package parser

import (
	"fmt"
	"strings"
)

// Position represents a location in the source file
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Error represents an assembly error with position information
type Error struct {
	Pos     Position
	Message string
	Context string // The line of source where the error occurred
	Kind    ErrorKind
}

// ErrorKind categorizes the type of error the assembler can raise.
type ErrorKind int

const (
	ErrLexicalJunk ErrorKind = iota
	ErrUnterminatedString
	ErrExpectedHex
	ErrExpectedBinary
	ErrOverflowImmediate
	ErrOverflowAbsolute
	ErrUnknownDirective
	ErrBadDirectiveArgument
	ErrFileNotFound
	ErrIncludeDepthExceeded
	ErrUnknownMnemonic
	ErrBadAddressingForm
	ErrExpectedRegister
	ErrExpectedComma
	ErrExpectedCloseParen
	ErrDuplicateLabel
	ErrUndefinedReference
	ErrBadSection
	ErrChrSizeMismatch
	ErrUnsupportedMapper
	ErrBranchOutOfRange
)

var errorKindNames = map[ErrorKind]string{
	ErrLexicalJunk:          "lexical junk",
	ErrUnterminatedString:   "unterminated string",
	ErrExpectedHex:          "expected hex digits",
	ErrExpectedBinary:       "expected binary digits",
	ErrOverflowImmediate:    "immediate value overflow",
	ErrOverflowAbsolute:     "absolute value overflow",
	ErrUnknownDirective:     "unknown directive",
	ErrBadDirectiveArgument: "bad directive argument",
	ErrFileNotFound:         "file not found",
	ErrIncludeDepthExceeded: "include depth exceeded",
	ErrUnknownMnemonic:      "unknown mnemonic",
	ErrBadAddressingForm:    "bad addressing form",
	ErrExpectedRegister:     "expected register",
	ErrExpectedComma:        "expected comma",
	ErrExpectedCloseParen:   "expected close paren",
	ErrDuplicateLabel:       "duplicate label",
	ErrUndefinedReference:   "undefined reference",
	ErrBadSection:           "bad section",
	ErrChrSizeMismatch:      "chr size mismatch",
	ErrUnsupportedMapper:    "unsupported mapper",
	ErrBranchOutOfRange:     "branch out of range",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "unknown error"
}

func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s: error: %s\n", e.Pos, e.Message))

	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("    %s\n", e.Context))
	}

	return sb.String()
}

// NewError creates a new assembly error
func NewError(pos Position, kind ErrorKind, message string) *Error {
	return &Error{
		Pos:     pos,
		Message: message,
		Kind:    kind,
	}
}

// NewErrorWithContext creates a new assembly error with source context
func NewErrorWithContext(pos Position, kind ErrorKind, message, context string) *Error {
	return &Error{
		Pos:     pos,
		Message: message,
		Context: context,
		Kind:    kind,
	}
}

// Warning represents a non-fatal assembly warning
type Warning struct {
	Pos     Position
	Message string
}

func (w *Warning) String() string {
	return fmt.Sprintf("%s: warning: %s", w.Pos, w.Message)
}

// ErrorList collects multiple errors and warnings encountered during a run.
type ErrorList struct {
	Errors    []*Error
	Warnings  []*Warning
	MaxErrors int
}

// AddError adds an error to the list
func (el *ErrorList) AddError(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddWarning adds a warning to the list
func (el *ErrorList) AddWarning(warn *Warning) {
	el.Warnings = append(el.Warnings, warn)
}

// HasErrors returns true if there are any errors
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Exceeded reports whether the error count has passed the configured
// threshold; callers use this to abort assembly early rather than flooding
// the user with cascading diagnostics.
func (el *ErrorList) Exceeded() bool {
	if el.MaxErrors <= 0 {
		return false
	}
	return len(el.Errors) > el.MaxErrors
}

// Error implements the error interface
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	for _, err := range el.Errors {
		sb.WriteString(err.Error())
	}
	if len(el.Errors) > 1 {
		sb.WriteString(fmt.Sprintf("%d errors\n", len(el.Errors)))
	}
	return sb.String()
}

// PrintWarnings renders all collected warnings
func (el *ErrorList) PrintWarnings() string {
	if len(el.Warnings) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, warn := range el.Warnings {
		sb.WriteString(warn.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
