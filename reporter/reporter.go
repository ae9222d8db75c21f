// Package reporter renders assembly diagnostics for the terminal: every
// error and warning variant is mapped to a message with file:line:column
// positions and a caret-underlined source snippet.
package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lookbusy1344/uxn-assembler/parser"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// Reporter formats diagnostics against a single source buffer.
type Reporter struct {
	filename string
	source   []byte
	color    bool

	// lineStarts[i] is the byte offset of the first byte of line i+1.
	lineStarts []int
}

// New creates a reporter for the given source. filename is used for
// positions only; it may be a placeholder like "<stdin>".
func New(filename string, source []byte, color bool) *Reporter {
	starts := []int{0}
	for i, ch := range source {
		if ch == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Reporter{
		filename:   filename,
		source:     source,
		color:      color,
		lineStarts: starts,
	}
}

// Position converts a byte offset to a 1-based line and column.
func (r *Reporter) Position(offset int) (line, column int) {
	i := sort.Search(len(r.lineStarts), func(i int) bool {
		return r.lineStarts[i] > offset
	}) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - r.lineStarts[i] + 1
}

// Line returns the text of the 1-based line, without its newline.
func (r *Reporter) Line(line int) string {
	if line < 1 || line > len(r.lineStarts) {
		return ""
	}
	start := r.lineStarts[line-1]
	end := len(r.source)
	if line < len(r.lineStarts) {
		end = r.lineStarts[line] - 1
	}
	return string(r.source[start:end])
}

// ReportAll writes every diagnostic in the list, errors first.
func (r *Reporter) ReportAll(w io.Writer, diags *parser.ErrorList) {
	for _, err := range diags.Errors {
		r.ReportError(w, err)
	}
	for _, warning := range diags.Warnings {
		r.ReportWarning(w, warning)
	}
}

// ReportError writes one error with its source snippets. Macro expansion
// errors are unwrapped so both the invocation and the underlying fault are
// shown.
func (r *Reporter) ReportError(w io.Writer, err *parser.Error) {
	if err.Kind == parser.ErrMacroError {
		r.ReportError(w, err.Wrapped)
		r.note(w, err.Span, "in this macro invocation")
		return
	}

	if err.Kind == parser.ErrBytesInZerothPage {
		r.heading(w, firstSpan(err.Spans), r.label("error", ansiRed), err.Error())
		for _, span := range err.Spans {
			r.snippet(w, span)
		}
		return
	}

	r.heading(w, err.Span, r.label("error", ansiRed), err.Error())
	r.snippet(w, err.Span)

	switch err.Kind {
	case parser.ErrMacroDefinedMoreThanOnce, parser.ErrLabelDefinedMoreThanOnce:
		r.note(w, err.OtherSpan, "previously defined here")
	case parser.ErrAddressTooFar:
		r.note(w, err.OtherSpan, "target is defined here")
	case parser.ErrRecursiveMacro:
		for _, ref := range err.Chain[1:] {
			r.note(w, ref.Span, fmt.Sprintf("%q invoked here", ref.Name))
		}
	}
}

// ReportWarning writes one warning with its source snippet.
func (r *Reporter) ReportWarning(w io.Writer, warning *parser.Warning) {
	r.heading(w, warning.Span, r.label("warning", ansiYellow), warning.String())
	r.snippet(w, warning.Span)
	if warning.Kind == parser.WarnInstructionModeDefinedMoreThanOnce {
		r.note(w, warning.OtherSpan, "first defined here")
	}
}

func (r *Reporter) heading(w io.Writer, span parser.Span, label, message string) {
	line, column := r.Position(span.From)
	if r.color {
		fmt.Fprintf(w, "%s%s:%d:%d:%s %s %s\n", ansiBold, r.filename, line, column, ansiReset, label, message)
	} else {
		fmt.Fprintf(w, "%s:%d:%d: %s %s\n", r.filename, line, column, label, message)
	}
}

func (r *Reporter) note(w io.Writer, span parser.Span, message string) {
	if span.Empty() {
		return
	}
	line, column := r.Position(span.From)
	fmt.Fprintf(w, "%s:%d:%d: %s %s\n", r.filename, line, column, r.label("note", ansiBlue), message)
	r.snippet(w, span)
}

// snippet prints the source line the span starts on, with a caret
// underline covering the span's bytes on that line.
func (r *Reporter) snippet(w io.Writer, span parser.Span) {
	line, column := r.Position(span.From)
	text := r.Line(line)
	if text == "" {
		return
	}

	width := span.Len()
	if rest := len(text) - (column - 1); width > rest {
		width = rest
	}
	if width < 1 {
		width = 1
	}

	fmt.Fprintf(w, "    %s\n", text)
	underline := strings.Repeat(" ", column-1) + strings.Repeat("^", width)
	if r.color {
		fmt.Fprintf(w, "    %s%s%s\n", ansiRed, underline, ansiReset)
	} else {
		fmt.Fprintf(w, "    %s\n", underline)
	}
}

func (r *Reporter) label(text, color string) string {
	if r.color {
		return color + ansiBold + text + ":" + ansiReset
	}
	return text + ":"
}

func firstSpan(spans []parser.Span) parser.Span {
	if len(spans) == 0 {
		return parser.Span{}
	}
	return spans[0]
}
