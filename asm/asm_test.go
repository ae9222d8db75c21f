package asm

import (
	"bytes"
	"testing"

	"github.com/lookbusy1344/uxn-assembler/parser"
)

func TestAssembleAddProgram(t *testing.T) {
	result, diags := Assemble([]byte("|0100 #02 #03 ADD"))
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors[0])
	}
	if len(diags.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", diags.Warnings[0])
	}
	want := []byte{0x01, 0x02, 0x01, 0x03, 0x18}
	if !bytes.Equal(result.ROM, want) {
		t.Errorf("expected % x, got % x", want, result.ROM)
	}
}

func TestAssembleCommentsDiscarded(t *testing.T) {
	result, diags := Assemble([]byte("(comment ( nested ) still comment) |0100 LIT 05"))
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors[0])
	}
	want := []byte{0x01, 0x05}
	if !bytes.Equal(result.ROM, want) {
		t.Errorf("expected % x, got % x", want, result.ROM)
	}
}

func TestAssembleRelativeToSelf(t *testing.T) {
	result, diags := Assemble([]byte("|0100 @loop ,loop"))
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors[0])
	}
	want := []byte{0x01, 0xfd}
	if !bytes.Equal(result.ROM, want) {
		t.Errorf("expected % x, got % x", want, result.ROM)
	}
}

func TestAssembleUndefinedLabel(t *testing.T) {
	result, diags := Assemble([]byte("|0100 .a"))
	if result != nil {
		t.Fatal("expected no ROM for an undefined label")
	}
	if !diags.ContainsKind(parser.ErrLabelUndefined) {
		t.Errorf("expected LabelUndefined, got %v", diags.Errors)
	}
}

func TestAssembleDuplicateMacro(t *testing.T) {
	result, diags := Assemble([]byte("%m { #01 } %m { #02 }"))
	if result != nil {
		t.Fatal("expected no ROM for a duplicate macro")
	}
	if !diags.ContainsKind(parser.ErrMacroDefinedMoreThanOnce) {
		t.Errorf("expected MacroDefinedMoreThanOnce, got %v", diags.Errors)
	}
}

func TestAssembleBytesInZerothPage(t *testing.T) {
	result, diags := Assemble([]byte("#02 #03 ADD"))
	if result != nil {
		t.Fatal("expected no ROM for zeroth-page bytes")
	}
	if !diags.ContainsKind(parser.ErrBytesInZerothPage) {
		t.Errorf("expected BytesInZerothPage, got %v", diags.Errors)
	}
}

func TestAssembleRecursiveMacro(t *testing.T) {
	result, diags := Assemble([]byte("%m { m } |0100 m"))
	if result != nil {
		t.Fatal("expected no ROM for a recursive macro")
	}
	if !diags.ContainsKind(parser.ErrRecursiveMacro) {
		t.Errorf("expected RecursiveMacro, got %v", diags.Errors)
	}
}

func TestAssembleScannerErrorIsFatal(t *testing.T) {
	result, diags := Assemble([]byte("|0100 #01 ( unclosed"))
	if result != nil {
		t.Fatal("expected no ROM for an unclosed comment")
	}
	if len(diags.Errors) != 1 || diags.Errors[0].Kind != parser.ErrNoMatchingClosingParenthesis {
		t.Errorf("expected only the scanner error, got %v", diags.Errors)
	}
}

func TestAssembleErrorBranchInvariant(t *testing.T) {
	// errors is non-empty iff the result is the error branch.
	sources := []string{
		"|0100 #02 #03 ADD",
		"|0100 .a",
		"#01",
		"%m { m } |0100 m",
		"|0100 @dup @dup",
	}
	for _, source := range sources {
		result, diags := Assemble([]byte(source))
		if (result == nil) != diags.HasErrors() {
			t.Errorf("%q: error branch and error list disagree", source)
		}
	}
}

func TestAssembleSpanContainment(t *testing.T) {
	sources := []string{
		"|0100 .a ,b ;c",
		"#01 #02",
		"%m { m } |0100 m nosuch",
		"|0100 @dup @dup &s &s }",
		"|0100 #xyz #123 'ab @a/b %",
	}
	for _, source := range sources {
		_, diags := Assemble([]byte(source))
		for _, err := range diags.Errors {
			for e := err; e != nil; e = e.Wrapped {
				for _, span := range e.AllSpans() {
					checkSpan(t, source, span)
				}
			}
		}
		for _, warning := range diags.Warnings {
			checkSpan(t, source, warning.Span)
		}
	}
}

func checkSpan(t *testing.T, source string, span parser.Span) {
	t.Helper()
	if span.From < 0 || span.From >= span.To || span.To > len(source) {
		t.Errorf("%q: span %v escapes the source", source, span)
	}
}

func TestAssembleRomLengthBound(t *testing.T) {
	result, diags := Assemble([]byte("|fffe #01"))
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors[0])
	}
	if len(result.ROM) != parser.RomCapacity-parser.PageSize {
		t.Errorf("expected the ROM to reach the end of the address space, got %d", len(result.ROM))
	}
}

func TestAssembleSymbolsExposed(t *testing.T) {
	result, diags := Assemble([]byte("|0100 @main ;main JMP2"))
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors[0])
	}
	def, ok := result.Symbols.Lookup(parser.ScopedIdentifier{Label: "main"})
	if !ok || def.Address != 0x0100 {
		t.Errorf("expected main at 0x0100, got %+v (ok=%v)", def, ok)
	}
}

func TestAssembleWarningsOnSuccessBranch(t *testing.T) {
	result, diags := Assemble([]byte("%unused { #01 } |0100 #02"))
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors[0])
	}
	if result == nil {
		t.Fatal("expected a ROM alongside warnings")
	}
	if len(diags.Warnings) == 0 {
		t.Error("expected a MacroUnused warning on the success branch")
	}
}
