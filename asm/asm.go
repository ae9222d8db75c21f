// Package asm is the assembly pipeline entry point. Assemble is a pure
// function from source bytes to a ROM image and diagnostics; all file
// handling lives with the callers.
package asm

import (
	"github.com/lookbusy1344/uxn-assembler/encoder"
	"github.com/lookbusy1344/uxn-assembler/parser"
)

// Result holds the outcome of a successful assembly.
type Result struct {
	ROM        []byte
	Symbols    *parser.Definitions
	Statements []parser.Statement
}

// Assemble runs the full pipeline: scanner, classifier, walker, emitter.
// On error the result is nil and the diagnostics carry at least one error;
// warnings may be present on either branch. Errors from earlier phases
// precede those from later phases, and each phase's diagnostics keep
// source order.
func Assemble(source []byte) (*Result, *parser.ErrorList) {
	diags := &parser.ErrorList{}

	words, scanWarnings, scanErr := parser.Scan(source)
	diags.Warnings = append(diags.Warnings, scanWarnings...)
	if scanErr != nil {
		// Scanner errors are fatal; there is no token stream to walk.
		diags.AddError(scanErr)
		return nil, diags
	}

	statements, defs, walkDiags := parser.Walk(words)
	diags.Merge(walkDiags)
	if diags.HasErrors() {
		return nil, diags
	}

	rom, emitDiags := encoder.Emit(statements, defs)
	diags.Merge(emitDiags)
	if diags.HasErrors() {
		return nil, diags
	}

	return &Result{ROM: rom, Symbols: defs, Statements: statements}, diags
}
