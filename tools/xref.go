// Package tools holds development utilities built on top of the assembler
// pipeline.
package tools

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lookbusy1344/uxn-assembler/parser"
)

// ReferenceKind indicates how an address-bearing statement uses a symbol
type ReferenceKind int

const (
	RefZeroPage ReferenceKind = iota // .id literal zero-page reference
	RefRelative                      // ,id literal relative reference
	RefAbsolute                      // ;id literal absolute reference
	RefRaw                           // :id raw address
)

func (r ReferenceKind) String() string {
	switch r {
	case RefZeroPage:
		return "zero-page"
	case RefRelative:
		return "relative"
	case RefAbsolute:
		return "absolute"
	case RefRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Reference represents a single use of a symbol
type Reference struct {
	Kind ReferenceKind
	Span parser.Span
}

// Symbol represents a defined symbol and all its references
type Symbol struct {
	Name       string
	Address    uint16
	Span       parser.Span
	References []Reference
}

// CrossReference collects every symbol definition with its uses from the
// walker's output.
func CrossReference(statements []parser.Statement, defs *parser.Definitions) []*Symbol {
	byName := make(map[parser.ScopedIdentifier]*Symbol, defs.Len())
	symbols := make([]*Symbol, 0, defs.Len())
	for _, id := range defs.All() {
		def, _ := defs.Lookup(id)
		sym := &Symbol{Name: id.String(), Address: def.Address, Span: def.Span}
		byName[id] = sym
		symbols = append(symbols, sym)
	}

	for _, stmt := range statements {
		var kind ReferenceKind
		switch stmt.Kind {
		case parser.StmtLiteralZeroPageAddress:
			kind = RefZeroPage
		case parser.StmtLiteralRelativeAddress:
			kind = RefRelative
		case parser.StmtLiteralAbsoluteAddress:
			kind = RefAbsolute
		case parser.StmtRawAddress:
			kind = RefRaw
		default:
			continue
		}
		if sym, ok := byName[stmt.Ident]; ok {
			sym.References = append(sym.References, Reference{Kind: kind, Span: stmt.Span})
		}
	}

	sort.Slice(symbols, func(i, j int) bool {
		if symbols[i].Address != symbols[j].Address {
			return symbols[i].Address < symbols[j].Address
		}
		return symbols[i].Name < symbols[j].Name
	})
	return symbols
}

// WriteTable writes the cross-reference as an aligned text table.
func WriteTable(w io.Writer, symbols []*Symbol) {
	nameWidth := len("SYMBOL")
	for _, sym := range symbols {
		if len(sym.Name) > nameWidth {
			nameWidth = len(sym.Name)
		}
	}

	fmt.Fprintf(w, "%-*s  %-6s  %-4s  %s\n", nameWidth, "SYMBOL", "ADDR", "REFS", "KINDS")
	for _, sym := range symbols {
		kinds := referenceKinds(sym.References)
		fmt.Fprintf(w, "%-*s  0x%04x  %-4d  %s\n", nameWidth, sym.Name, sym.Address, len(sym.References), kinds)
	}
}

// referenceKinds summarizes the distinct reference kinds in use.
func referenceKinds(refs []Reference) string {
	if len(refs) == 0 {
		return "-"
	}
	seen := make(map[ReferenceKind]bool)
	var kinds []string
	for _, ref := range refs {
		if !seen[ref.Kind] {
			seen[ref.Kind] = true
			kinds = append(kinds, ref.Kind.String())
		}
	}
	return strings.Join(kinds, ",")
}
