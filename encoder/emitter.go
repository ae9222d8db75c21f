// Package encoder translates the walker's statement stream and symbol
// table into ROM bytes, checking address-range constraints.
package encoder

import (
	"github.com/lookbusy1344/uxn-assembler/parser"
)

// binary is the ROM under construction: a fixed buffer covering addresses
// [256, 65536) and a write pointer. Writes below address 256 are not
// stored; their spans are recorded and reported as a single error.
type binary struct {
	data        [parser.RomCapacity - parser.PageSize]byte
	pointer     int
	length      int // highest address written, plus one
	zerothSpans []parser.Span
}

func (b *binary) pushByte(value byte, span parser.Span) {
	switch {
	case b.pointer < parser.PageSize:
		if n := len(b.zerothSpans); n == 0 || b.zerothSpans[n-1] != span {
			b.zerothSpans = append(b.zerothSpans, span)
		}
	case b.pointer < parser.RomCapacity:
		b.data[b.pointer-parser.PageSize] = value
		if b.pointer+1 > b.length {
			b.length = b.pointer + 1
		}
	}
	b.pointer++
}

func (b *binary) pushShort(value uint16, span parser.Span) {
	b.pushByte(byte(value>>8), span)
	b.pushByte(byte(value), span)
}

// rom returns the final ROM image: everything written above the zeroth
// page, up to the highest address touched.
func (b *binary) rom() []byte {
	if b.length <= parser.PageSize {
		return []byte{}
	}
	out := make([]byte, b.length-parser.PageSize)
	copy(out, b.data[:b.length-parser.PageSize])
	return out
}

// Emit walks the statement sequence, resolves address-bearing statements
// against the symbol table and encodes everything into ROM bytes. On any
// error the ROM is withheld.
func Emit(statements []parser.Statement, defs *parser.Definitions) ([]byte, *parser.ErrorList) {
	diags := &parser.ErrorList{}
	bin := &binary{}

	for _, stmt := range statements {
		switch stmt.Kind {
		case parser.StmtInstruction:
			bin.pushByte(stmt.Instr.Opcode(), stmt.Span)

		case parser.StmtPadAbsolute:
			bin.pointer = int(stmt.Value)

		case parser.StmtPadRelative:
			bin.pointer += int(stmt.Value)

		case parser.StmtLiteralZeroPageAddress:
			def, ok := resolve(stmt, defs, diags)
			if !ok {
				bin.pointer += 2
				continue
			}
			if def.Address > 0xff {
				diags.AddError(&parser.Error{
					Kind:    parser.ErrAddressNotZeroPage,
					Span:    stmt.Span,
					Name:    stmt.Ident.String(),
					Address: def.Address,
				})
				bin.pointer += 2
				continue
			}
			bin.pushByte(parser.OpcodeLit, stmt.Span)
			bin.pushByte(byte(def.Address), stmt.Span)

		case parser.StmtLiteralRelativeAddress:
			def, ok := resolve(stmt, defs, diags)
			if !ok {
				bin.pointer += 2
				continue
			}
			// Signed arithmetic wide enough for any 16-bit displacement.
			offset := int(def.Address) - bin.pointer - 3
			if offset < -parser.MaxRelativeDistance || offset > parser.MaxRelativeDistance {
				distance := offset
				if distance < 0 {
					distance = -distance
				}
				diags.AddError(&parser.Error{
					Kind:      parser.ErrAddressTooFar,
					Span:      stmt.Span,
					OtherSpan: def.Span,
					Name:      stmt.Ident.String(),
					Distance:  distance,
				})
				bin.pointer += 2
				continue
			}
			bin.pushByte(parser.OpcodeLit, stmt.Span)
			bin.pushByte(byte(int8(offset)), stmt.Span)

		case parser.StmtLiteralAbsoluteAddress:
			def, ok := resolve(stmt, defs, diags)
			if !ok {
				bin.pointer += 3
				continue
			}
			bin.pushByte(parser.OpcodeLit2, stmt.Span)
			bin.pushShort(def.Address, stmt.Span)

		case parser.StmtRawAddress:
			def, ok := resolve(stmt, defs, diags)
			if !ok {
				bin.pointer += 2
				continue
			}
			bin.pushShort(def.Address, stmt.Span)

		case parser.StmtLiteralHexByte:
			bin.pushByte(parser.OpcodeLit, stmt.Span)
			bin.pushByte(byte(stmt.Value), stmt.Span)

		case parser.StmtLiteralHexShort:
			bin.pushByte(parser.OpcodeLit2, stmt.Span)
			bin.pushShort(stmt.Value, stmt.Span)

		case parser.StmtRawHexByte:
			bin.pushByte(byte(stmt.Value), stmt.Span)

		case parser.StmtRawHexShort:
			bin.pushShort(stmt.Value, stmt.Span)

		case parser.StmtRawChar:
			bin.pushByte(byte(stmt.Value), stmt.Span)

		case parser.StmtRawWord:
			for _, value := range stmt.Bytes {
				bin.pushByte(value, stmt.Span)
			}
		}
	}

	if len(bin.zerothSpans) > 0 {
		diags.AddError(&parser.Error{
			Kind:  parser.ErrBytesInZerothPage,
			Spans: bin.zerothSpans,
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return bin.rom(), diags
}

// resolve looks up an address-bearing statement's identifier, reporting
// undefined labels.
func resolve(stmt parser.Statement, defs *parser.Definitions, diags *parser.ErrorList) (parser.Definition, bool) {
	def, ok := defs.Lookup(stmt.Ident)
	if !ok {
		diags.AddError(&parser.Error{
			Kind: parser.ErrLabelUndefined,
			Span: stmt.Span,
			Name: stmt.Ident.String(),
		})
		return parser.Definition{}, false
	}
	return def, true
}
