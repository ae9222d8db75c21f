package parser

// The walker consumes the scanned word stream and produces the linear
// statement sequence the emitter works from, together with the symbol
// table. It tracks the emit pointer, the current label scope, macro
// definitions and the bracket/brace balance, and re-enters itself on
// macro bodies at each invocation.

type walker struct {
	pointer   int // wide so overflow past 0xffff is observable
	hasOutput bool
	tooLong   bool
	scope     string

	macros *MacroTable
	defs   *Definitions

	statements   []Statement
	openBrackets []Span
	openBraces   []Span
	zerothSpans  []Span

	// callStack holds the active macro invocations, outermost first, for
	// recursion detection.
	callStack []MacroRef

	diags *ErrorList
}

// Walk consumes the scanned words and produces the statement stream and the
// symbol table. Diagnostics are accumulated; the walker keeps going after
// an error whenever it can.
func Walk(words []Word) ([]Statement, *Definitions, *ErrorList) {
	w := &walker{
		macros: NewMacroTable(),
		defs:   NewDefinitions(),
		diags:  &ErrorList{},
	}
	w.walkWords(words, w.diags)
	w.finalize()
	return w.statements, w.defs, w.diags
}

func (w *walker) walkWords(words []Word, diags *ErrorList) {
	i := 0
	for i < len(words) {
		word := words[i]
		i++

		token, warnings, err := Classify(word)
		if err != nil {
			diags.AddError(err)
			continue
		}
		for _, warning := range warnings {
			diags.AddWarning(warning)
		}

		switch token.Kind {
		case TokenOpeningBracket:
			w.openBrackets = append(w.openBrackets, token.Span)

		case TokenClosingBracket:
			if len(w.openBrackets) == 0 {
				diags.AddError(&Error{Kind: ErrNoMatchingOpeningBracket, Span: token.Span})
			} else {
				w.openBrackets = w.openBrackets[:len(w.openBrackets)-1]
			}

		case TokenOpeningBrace:
			w.openBraces = append(w.openBraces, token.Span)
			diags.AddError(&Error{Kind: ErrOpeningBraceNotAfterMacroDefinition, Span: token.Span})

		case TokenClosingBrace:
			if len(w.openBraces) == 0 {
				diags.AddError(&Error{Kind: ErrNoMatchingOpeningBrace, Span: token.Span})
			} else {
				w.openBraces = w.openBraces[:len(w.openBraces)-1]
			}

		case TokenInstruction:
			w.statements = append(w.statements, Statement{
				Kind:  StmtInstruction,
				Span:  token.Span,
				Instr: token.Instr,
			})
			w.advance(1, token.Span, true, diags)

		case TokenMacroDefine:
			i = w.captureMacro(token, words, i, diags)

		case TokenMacroInvoke:
			w.invokeMacro(token, diags)

		case TokenPadAbsolute:
			if w.hasOutput && int(token.Value) < w.pointer {
				diags.AddError(&Error{
					Kind:     ErrPaddedBackwards,
					Span:     token.Span,
					Previous: uint16(w.pointer),
					Desired:  token.Value,
				})
			}
			w.pointer = int(token.Value)
			w.statements = append(w.statements, Statement{
				Kind:  StmtPadAbsolute,
				Span:  token.Span,
				Value: token.Value,
			})

		case TokenPadRelative:
			w.statements = append(w.statements, Statement{
				Kind:  StmtPadRelative,
				Span:  token.Span,
				Value: token.Value,
			})
			w.advance(int(token.Value), token.Span, false, diags)

		case TokenLabelDefine:
			id := ScopedIdentifier{Label: token.Name}
			if existing, ok := w.defs.Define(id, uint16(w.pointer), token.Span); !ok {
				diags.AddError(&Error{
					Kind:      ErrLabelDefinedMoreThanOnce,
					Span:      token.Span,
					OtherSpan: existing.Span,
					Name:      token.Name,
				})
			}
			w.scope = token.Name

		case TokenSublabelDefine:
			if w.scope == "" {
				diags.AddError(&Error{
					Kind: ErrSublabelDefinedWithoutScope,
					Span: token.Span,
					Name: token.Name,
				})
				break
			}
			id := ScopedIdentifier{Label: w.scope, Sublabel: token.Name}
			if existing, ok := w.defs.Define(id, uint16(w.pointer), token.Span); !ok {
				diags.AddError(&Error{
					Kind:      ErrLabelDefinedMoreThanOnce,
					Span:      token.Span,
					OtherSpan: existing.Span,
					Name:      id.String(),
				})
			}

		case TokenLiteralZeroPageAddress:
			w.addressStatement(token, StmtLiteralZeroPageAddress, 2, diags)
		case TokenLiteralRelativeAddress:
			w.addressStatement(token, StmtLiteralRelativeAddress, 2, diags)
		case TokenLiteralAbsoluteAddress:
			w.addressStatement(token, StmtLiteralAbsoluteAddress, 3, diags)
		case TokenRawAddress:
			w.addressStatement(token, StmtRawAddress, 2, diags)

		case TokenLiteralHexByte:
			w.byteStatement(token, StmtLiteralHexByte, 2, diags)
		case TokenLiteralHexShort:
			w.byteStatement(token, StmtLiteralHexShort, 3, diags)
		case TokenRawHexByte:
			w.byteStatement(token, StmtRawHexByte, 1, diags)
		case TokenRawHexShort:
			w.byteStatement(token, StmtRawHexShort, 2, diags)
		case TokenRawChar:
			w.byteStatement(token, StmtRawChar, 1, diags)

		case TokenRawWord:
			w.statements = append(w.statements, Statement{
				Kind:  StmtRawWord,
				Span:  token.Span,
				Bytes: token.Bytes,
			})
			w.advance(len(token.Bytes), token.Span, len(token.Bytes) > 0, diags)
		}
	}
}

// addressStatement resolves the token's identifier against the current
// scope and emits the corresponding statement.
func (w *walker) addressStatement(token Token, kind StatementKind, size int, diags *ErrorList) {
	scoped, err := w.scopeIdentifier(token.Ident, token.Span)
	if err != nil {
		diags.AddError(err)
		return
	}
	w.defs.Reference(scoped)
	w.statements = append(w.statements, Statement{
		Kind:  kind,
		Span:  token.Span,
		Ident: scoped,
	})
	w.advance(size, token.Span, true, diags)
}

func (w *walker) byteStatement(token Token, kind StatementKind, size int, diags *ErrorList) {
	w.statements = append(w.statements, Statement{
		Kind:  kind,
		Span:  token.Span,
		Value: token.Value,
	})
	w.advance(size, token.Span, true, diags)
}

// scopeIdentifier resolves an identifier to a scoped identifier using the
// most recent top-level label.
func (w *walker) scopeIdentifier(id Identifier, span Span) (ScopedIdentifier, *Error) {
	switch id.Kind {
	case IdentLabel:
		return ScopedIdentifier{Label: id.Label}, nil
	case IdentPath:
		return ScopedIdentifier{Label: id.Label, Sublabel: id.Sublabel}, nil
	default:
		if w.scope == "" {
			return ScopedIdentifier{}, &Error{
				Kind: ErrSublabelReferencedWithoutScope,
				Span: span,
				Name: id.Sublabel,
			}
		}
		return ScopedIdentifier{Label: w.scope, Sublabel: id.Sublabel}, nil
	}
}

// advance moves the emit pointer by size bytes. Byte-emitting statements
// that start inside the zeroth page have their spans recorded; the spans
// aggregate into a single BytesInZerothPage error at finalization.
func (w *walker) advance(size int, span Span, emitsBytes bool, diags *ErrorList) {
	if emitsBytes {
		if w.pointer < PageSize {
			w.zerothSpans = append(w.zerothSpans, span)
		}
		w.hasOutput = true
	}
	w.pointer += size
	if w.pointer > RomCapacity && !w.tooLong {
		w.tooLong = true
		diags.AddError(&Error{Kind: ErrProgramTooLong, Span: span})
	}
}

// captureMacro captures the token sequence between the braces following a
// macro definition. Classification errors inside the body are deferred
// until the macro is invoked. Returns the index of the first word after
// the body.
func (w *walker) captureMacro(token Token, words []Word, i int, diags *ErrorList) int {
	var body []Word

	if i < len(words) {
		if next, _, err := Classify(words[i]); err == nil && next.Kind == TokenOpeningBrace {
			baseLevel := len(w.openBraces)
			w.openBraces = append(w.openBraces, next.Span)
			i++
			for i < len(words) {
				word := words[i]
				i++
				bodyToken, _, err := Classify(word)
				if err != nil {
					body = append(body, word)
					continue
				}
				if bodyToken.Kind == TokenOpeningBrace {
					w.openBraces = append(w.openBraces, bodyToken.Span)
					body = append(body, word)
					continue
				}
				if bodyToken.Kind == TokenClosingBrace {
					w.openBraces = w.openBraces[:len(w.openBraces)-1]
					if len(w.openBraces) == baseLevel {
						break
					}
					body = append(body, word)
					continue
				}
				body = append(body, word)
			}
		}
	}

	macro := &Macro{Name: token.Name, Body: body, Span: token.Span}
	if existing := w.macros.Define(macro); existing != nil {
		diags.AddError(&Error{
			Kind:      ErrMacroDefinedMoreThanOnce,
			Span:      token.Span,
			OtherSpan: existing.Span,
			Name:      token.Name,
		})
	}
	return i
}

// invokeMacro expands a macro invocation by re-entering the walker on the
// captured body. Re-entering a macro that is already active is a recursion
// error; errors surfaced by the body are wrapped so the diagnostic points
// at the invocation.
func (w *walker) invokeMacro(token Token, diags *ErrorList) {
	macro, ok := w.macros.Lookup(token.Name)
	if !ok {
		diags.AddError(&Error{Kind: ErrMacroUndefined, Span: token.Span, Name: token.Name})
		return
	}
	w.macros.MarkUsed(token.Name)

	for _, frame := range w.callStack {
		if frame.Name == token.Name {
			diags.AddError(&Error{
				Kind:  ErrRecursiveMacro,
				Span:  token.Span,
				Chain: w.recursionChain(token),
			})
			return
		}
	}

	w.callStack = append(w.callStack, MacroRef{Name: token.Name, Span: token.Span})
	sub := &ErrorList{}
	w.walkWords(macro.Body, sub)
	w.callStack = w.callStack[:len(w.callStack)-1]

	for _, err := range sub.Errors {
		// Recursion errors already carry the whole invocation chain.
		if err.Kind == ErrRecursiveMacro {
			diags.AddError(err)
			continue
		}
		diags.AddError(&Error{Kind: ErrMacroError, Span: token.Span, Wrapped: err})
	}
	for _, warning := range sub.Warnings {
		diags.AddWarning(warning)
	}
}

// recursionChain lists the active invocations from the re-entry back to
// the original invocation of the re-entered macro.
func (w *walker) recursionChain(token Token) []MacroRef {
	chain := []MacroRef{{Name: token.Name, Span: token.Span}}
	for i := len(w.callStack) - 1; i >= 0; i-- {
		chain = append(chain, w.callStack[i])
		if w.callStack[i].Name == token.Name {
			break
		}
	}
	return chain
}

// finalize reports unbalanced brackets and braces, the zeroth-page error,
// and the unused-macro and unused-label warnings.
func (w *walker) finalize() {
	for _, span := range w.openBrackets {
		w.diags.AddError(&Error{Kind: ErrNoMatchingClosingBracket, Span: span})
	}
	for _, span := range w.openBraces {
		w.diags.AddError(&Error{Kind: ErrNoMatchingClosingBrace, Span: span})
	}
	if len(w.zerothSpans) > 0 {
		w.diags.AddError(&Error{Kind: ErrBytesInZerothPage, Spans: w.zerothSpans})
	}

	for _, macro := range w.macros.Unused() {
		w.diags.AddWarning(&Warning{Kind: WarnMacroUnused, Span: macro.Span, Name: macro.Name})
	}
	for _, id := range w.defs.All() {
		if w.defs.References(id) > 0 {
			continue
		}
		// Names starting with an uppercase letter are deliberately
		// exported and exempt from the unused warning.
		if isExported(id.Label) {
			continue
		}
		def, _ := w.defs.Lookup(id)
		w.diags.AddWarning(&Warning{Kind: WarnLabelUnused, Span: def.Span, Name: id.String()})
	}
}

func isExported(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}
