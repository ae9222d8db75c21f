package parser

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes the type of error
type ErrorKind int

const (
	// Structural and scanner errors
	ErrNoMatchingClosingParenthesis ErrorKind = iota
	ErrNoMatchingOpeningParenthesis
	ErrNoMatchingOpeningBrace
	ErrNoMatchingClosingBrace
	ErrOpeningBraceNotAfterMacroDefinition
	ErrNoMatchingOpeningBracket
	ErrNoMatchingClosingBracket

	// Missing body errors
	ErrMacroNameExpected
	ErrLabelExpected
	ErrSublabelExpected
	ErrIdentifierExpected
	ErrHexNumberExpected
	ErrHexNumberOrCharacterExpected
	ErrCharacterExpected

	// Name constraint errors
	ErrSlashInLabelOrSublabel
	ErrMoreThanOneSlashInIdentifier
	ErrAmpersandAtTheStartOfLabel
	ErrMacroCannotBeAHexNumber
	ErrMacroCannotBeAnInstruction

	// Hex parsing errors
	ErrHexDigitInvalid
	ErrHexNumberUnevenLength
	ErrHexNumberTooLong

	// Character literal errors
	ErrMoreThanOneByteFound

	// Semantic errors
	ErrMacroUndefined
	ErrMacroDefinedMoreThanOnce
	ErrLabelDefinedMoreThanOnce
	ErrSublabelDefinedWithoutScope
	ErrSublabelReferencedWithoutScope
	ErrLabelUndefined
	ErrMacroError
	ErrRecursiveMacro

	// Layout errors
	ErrAddressNotZeroPage
	ErrAddressTooFar
	ErrBytesInZerothPage
	ErrPaddedBackwards
	ErrProgramTooLong
)

// MacroRef is one entry of a macro invocation chain, used by recursion
// diagnostics.
type MacroRef struct {
	Name string
	Span Span
}

// Error represents an assembly error with span information. Which payload
// fields are meaningful depends on Kind.
type Error struct {
	Kind      ErrorKind
	Span      Span
	OtherSpan Span   // span of the conflicting earlier occurrence
	Spans     []Span // aggregated spans for BytesInZerothPage
	Name      string // identifier, macro or label name
	Number    string // offending hex number as written
	Digit     byte   // offending hex digit
	Length    int    // length of an uneven or overlong hex number
	Bytes     []byte // extra bytes of an overlong character literal
	Address   uint16 // resolved address for zero-page range errors
	Distance  int    // distance of an out-of-range relative reference
	Previous  uint16 // pointer before a backwards pad
	Desired   uint16 // pad target of a backwards pad
	Chain     []MacroRef
	Wrapped   *Error // underlying error of a MacroError
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrNoMatchingClosingParenthesis:
		return "no matching closing parenthesis"
	case ErrNoMatchingOpeningParenthesis:
		return "no matching opening parenthesis"
	case ErrNoMatchingOpeningBrace:
		return "no matching opening brace"
	case ErrNoMatchingClosingBrace:
		return "no matching closing brace"
	case ErrOpeningBraceNotAfterMacroDefinition:
		return "opening brace is not preceded by a macro definition"
	case ErrNoMatchingOpeningBracket:
		return "no matching opening bracket"
	case ErrNoMatchingClosingBracket:
		return "no matching closing bracket"
	case ErrMacroNameExpected:
		return "expected a macro name"
	case ErrLabelExpected:
		return "expected a label name"
	case ErrSublabelExpected:
		return "expected a sub-label name"
	case ErrIdentifierExpected:
		return "expected an identifier"
	case ErrHexNumberExpected:
		return "expected a hexadecimal number"
	case ErrHexNumberOrCharacterExpected:
		return "expected a hexadecimal number or a character"
	case ErrCharacterExpected:
		return "expected a character"
	case ErrSlashInLabelOrSublabel:
		return "label and sub-label names cannot contain a slash"
	case ErrMoreThanOneSlashInIdentifier:
		return "identifier contains more than one slash"
	case ErrAmpersandAtTheStartOfLabel:
		return "label names cannot start with an ampersand"
	case ErrMacroCannotBeAHexNumber:
		return fmt.Sprintf("macro name %q is a valid hexadecimal number", e.Number)
	case ErrMacroCannotBeAnInstruction:
		return fmt.Sprintf("macro name %q is a valid instruction", e.Name)
	case ErrHexDigitInvalid:
		return fmt.Sprintf("invalid digit %q in hexadecimal number %q", e.Digit, e.Number)
	case ErrHexNumberUnevenLength:
		return fmt.Sprintf("hexadecimal number %q has an uneven length of %d", e.Number, e.Length)
	case ErrHexNumberTooLong:
		return fmt.Sprintf("hexadecimal number %q of length %d is too long", e.Number, e.Length)
	case ErrMoreThanOneByteFound:
		return fmt.Sprintf("character literal contains %d bytes; expected one", len(e.Bytes))
	case ErrMacroUndefined:
		return fmt.Sprintf("macro %q is not defined", e.Name)
	case ErrMacroDefinedMoreThanOnce:
		return fmt.Sprintf("macro %q is defined more than once", e.Name)
	case ErrLabelDefinedMoreThanOnce:
		return fmt.Sprintf("label %q is defined more than once", e.Name)
	case ErrSublabelDefinedWithoutScope:
		return fmt.Sprintf("sub-label %q is defined without a label scope", e.Name)
	case ErrSublabelReferencedWithoutScope:
		return fmt.Sprintf("sub-label %q is referenced without a label scope", e.Name)
	case ErrLabelUndefined:
		return fmt.Sprintf("label %q is not defined", e.Name)
	case ErrMacroError:
		return fmt.Sprintf("error in expansion of macro: %s", e.Wrapped.Error())
	case ErrRecursiveMacro:
		names := make([]string, 0, len(e.Chain))
		for _, ref := range e.Chain {
			names = append(names, ref.Name)
		}
		return fmt.Sprintf("recursive macro invocation: %s", strings.Join(names, " <- "))
	case ErrAddressNotZeroPage:
		return fmt.Sprintf("address %#04x of %q is not in the zeroth page", e.Address, e.Name)
	case ErrAddressTooFar:
		return fmt.Sprintf("address of %q is too far for a relative reference: distance %d exceeds %d", e.Name, e.Distance, MaxRelativeDistance)
	case ErrBytesInZerothPage:
		return "program bytes in the zeroth page"
	case ErrPaddedBackwards:
		return fmt.Sprintf("absolute pad to %#04x moves backwards from %#04x", e.Desired, e.Previous)
	case ErrProgramTooLong:
		return "program exceeds the 16-bit address space"
	default:
		return fmt.Sprintf("unknown error kind %d", int(e.Kind))
	}
}

// Unwrap exposes the underlying error of a MacroError.
func (e *Error) Unwrap() error {
	if e.Wrapped == nil {
		return nil
	}
	return e.Wrapped
}

// AllSpans returns every span the error carries, primary span first.
func (e *Error) AllSpans() []Span {
	if e.Kind == ErrBytesInZerothPage {
		return e.Spans
	}
	spans := []Span{e.Span}
	if !e.OtherSpan.Empty() {
		spans = append(spans, e.OtherSpan)
	}
	return spans
}

// WarningKind categorizes the type of warning
type WarningKind int

const (
	WarnTokenTrimmed WarningKind = iota
	WarnInstructionModeDefinedMoreThanOnce
	WarnMacroUnused
	WarnLabelUnused
)

// Warning represents a non-fatal diagnostic with span information.
type Warning struct {
	Kind        WarningKind
	Span        Span
	OtherSpan   Span   // span of the earlier mode flag
	Name        string // unused macro or label name
	Mode        byte   // duplicated instruction mode flag
	Instruction string // instruction carrying the duplicated flag
}

func (w *Warning) String() string {
	switch w.Kind {
	case WarnTokenTrimmed:
		return "token is longer than 64 bytes and was trimmed"
	case WarnInstructionModeDefinedMoreThanOnce:
		return fmt.Sprintf("mode %q of instruction %q is defined more than once", w.Mode, w.Instruction)
	case WarnMacroUnused:
		return fmt.Sprintf("macro %q is never invoked", w.Name)
	case WarnLabelUnused:
		return fmt.Sprintf("label %q is never referenced", w.Name)
	default:
		return fmt.Sprintf("unknown warning kind %d", int(w.Kind))
	}
}

// ErrorList collects multiple errors and warnings
type ErrorList struct {
	Errors   []*Error
	Warnings []*Warning
}

// AddError adds an error to the list
func (el *ErrorList) AddError(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddWarning adds a warning to the list
func (el *ErrorList) AddWarning(warn *Warning) {
	el.Warnings = append(el.Warnings, warn)
}

// Merge appends all diagnostics from other, preserving order.
func (el *ErrorList) Merge(other *ErrorList) {
	el.Errors = append(el.Errors, other.Errors...)
	el.Warnings = append(el.Warnings, other.Warnings...)
}

// HasErrors returns true if there are any errors
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// ContainsKind reports whether any error in the list, including errors
// wrapped inside macro expansion errors, has the given kind.
func (el *ErrorList) ContainsKind(kind ErrorKind) bool {
	for _, err := range el.Errors {
		for e := err; e != nil; e = e.Wrapped {
			if e.Kind == kind {
				return true
			}
		}
	}
	return false
}
