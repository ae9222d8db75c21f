package reporter

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/uxn-assembler/asm"
	"github.com/lookbusy1344/uxn-assembler/parser"
)

func TestPosition(t *testing.T) {
	source := []byte("one two\nthree\n\nfour")
	r := New("test.tal", source, false)

	cases := []struct {
		offset, line, column int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{8, 2, 1},
		{12, 2, 5},
		{14, 3, 1},
		{15, 4, 1},
	}
	for _, tc := range cases {
		line, column := r.Position(tc.offset)
		if line != tc.line || column != tc.column {
			t.Errorf("offset %d: expected %d:%d, got %d:%d", tc.offset, tc.line, tc.column, line, column)
		}
	}
}

func TestLine(t *testing.T) {
	r := New("test.tal", []byte("first\nsecond\nthird"), false)
	if got := r.Line(2); got != "second" {
		t.Errorf("expected line 2 to be second, got %q", got)
	}
	if got := r.Line(3); got != "third" {
		t.Errorf("expected line 3 to be third, got %q", got)
	}
}

func TestReportErrorRendersSnippet(t *testing.T) {
	source := []byte("|0100 .missing")
	_, diags := asm.Assemble(source)
	if !diags.HasErrors() {
		t.Fatal("expected an error to render")
	}

	var sb strings.Builder
	r := New("prog.tal", source, false)
	r.ReportAll(&sb, diags)
	out := sb.String()

	if !strings.Contains(out, "prog.tal:1:7: error:") {
		t.Errorf("expected position heading, got:\n%s", out)
	}
	if !strings.Contains(out, "|0100 .missing") {
		t.Errorf("expected the source line in the snippet, got:\n%s", out)
	}
	if !strings.Contains(out, "^^^^^^^^") {
		t.Errorf("expected a caret underline covering the token, got:\n%s", out)
	}
}

func TestReportMacroErrorShowsInvocation(t *testing.T) {
	source := []byte("%bad { #xyz }\n|0100 bad")
	_, diags := asm.Assemble(source)

	var sb strings.Builder
	r := New("prog.tal", source, false)
	r.ReportAll(&sb, diags)
	out := sb.String()

	if !strings.Contains(out, "invalid digit") {
		t.Errorf("expected the underlying error, got:\n%s", out)
	}
	if !strings.Contains(out, "in this macro invocation") {
		t.Errorf("expected the invocation note, got:\n%s", out)
	}
}

func TestReportDuplicateLabelShowsBothSpans(t *testing.T) {
	source := []byte("|0100 @a\n#01 @a")
	_, diags := asm.Assemble(source)

	var sb strings.Builder
	r := New("prog.tal", source, false)
	r.ReportAll(&sb, diags)
	out := sb.String()

	if !strings.Contains(out, "previously defined here") {
		t.Errorf("expected the previous-definition note, got:\n%s", out)
	}
}

func TestReportWarning(t *testing.T) {
	source := []byte("%unused { #01 } |0100 #02")
	_, diags := asm.Assemble(source)

	var sb strings.Builder
	r := New("prog.tal", source, false)
	r.ReportAll(&sb, diags)
	out := sb.String()

	if !strings.Contains(out, "warning:") || !strings.Contains(out, "never invoked") {
		t.Errorf("expected the unused-macro warning, got:\n%s", out)
	}
}

func TestReportColorOutput(t *testing.T) {
	source := []byte("|0100 .missing")
	_, diags := asm.Assemble(source)

	var sb strings.Builder
	r := New("prog.tal", source, true)
	r.ReportAll(&sb, diags)

	if !strings.Contains(sb.String(), "\x1b[31m") {
		t.Error("expected ANSI color codes in colored output")
	}
}

// Every diagnostic kind must render to a non-empty message.
func TestAllVariantsHaveMessages(t *testing.T) {
	kinds := []parser.ErrorKind{
		parser.ErrNoMatchingClosingParenthesis, parser.ErrNoMatchingOpeningParenthesis,
		parser.ErrNoMatchingOpeningBrace, parser.ErrNoMatchingClosingBrace,
		parser.ErrOpeningBraceNotAfterMacroDefinition,
		parser.ErrNoMatchingOpeningBracket, parser.ErrNoMatchingClosingBracket,
		parser.ErrMacroNameExpected, parser.ErrLabelExpected, parser.ErrSublabelExpected,
		parser.ErrIdentifierExpected, parser.ErrHexNumberExpected,
		parser.ErrHexNumberOrCharacterExpected, parser.ErrCharacterExpected,
		parser.ErrSlashInLabelOrSublabel, parser.ErrMoreThanOneSlashInIdentifier,
		parser.ErrAmpersandAtTheStartOfLabel, parser.ErrMacroCannotBeAHexNumber,
		parser.ErrMacroCannotBeAnInstruction, parser.ErrHexDigitInvalid,
		parser.ErrHexNumberUnevenLength, parser.ErrHexNumberTooLong,
		parser.ErrMoreThanOneByteFound, parser.ErrMacroUndefined,
		parser.ErrMacroDefinedMoreThanOnce, parser.ErrLabelDefinedMoreThanOnce,
		parser.ErrSublabelDefinedWithoutScope, parser.ErrSublabelReferencedWithoutScope,
		parser.ErrLabelUndefined, parser.ErrRecursiveMacro,
		parser.ErrAddressNotZeroPage, parser.ErrAddressTooFar,
		parser.ErrBytesInZerothPage, parser.ErrPaddedBackwards, parser.ErrProgramTooLong,
	}
	for _, kind := range kinds {
		err := &parser.Error{Kind: kind, Span: parser.NewSpan(0)}
		if strings.TrimSpace(err.Error()) == "" {
			t.Errorf("error kind %d renders empty", int(kind))
		}
		if strings.Contains(err.Error(), "unknown error kind") {
			t.Errorf("error kind %d has no message", int(kind))
		}
	}

	wrapped := &parser.Error{
		Kind:    parser.ErrMacroError,
		Span:    parser.NewSpan(0),
		Wrapped: &parser.Error{Kind: parser.ErrLabelUndefined, Span: parser.NewSpan(0), Name: "x"},
	}
	if !strings.Contains(wrapped.Error(), "macro") {
		t.Error("MacroError message does not mention the macro expansion")
	}

	warnings := []parser.WarningKind{
		parser.WarnTokenTrimmed, parser.WarnInstructionModeDefinedMoreThanOnce,
		parser.WarnMacroUnused, parser.WarnLabelUnused,
	}
	for _, kind := range warnings {
		w := &parser.Warning{Kind: kind, Span: parser.NewSpan(0)}
		if strings.Contains(w.String(), "unknown warning kind") {
			t.Errorf("warning kind %d has no message", int(kind))
		}
	}
}
