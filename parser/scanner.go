package parser

// Word is a raw scanner word: a run of non-whitespace source bytes paired
// with its span. Text holds at most MaxWordLength bytes; anything past the
// trim point is dropped by the scanner.
type Word struct {
	Text []byte
	Span Span
}

// ByteSpan returns the span of the i-th byte of the word. Word bytes are
// contiguous in the source, so the span is derived from the word start.
func (w Word) ByteSpan(i int) Span {
	return NewSpan(w.Span.From + i)
}

// isWhitespace reports whether ch separates words.
func isWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', 0x0b, 0x0c, '\r':
		return true
	}
	return false
}

// isBracketing reports whether ch is one of the six bracketing characters
// that terminate an adjacent word.
func isBracketing(ch byte) bool {
	switch ch {
	case '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

// Scan converts source bytes into raw words. Comments delimited by nested
// parentheses are discarded. Unbalanced comment delimiters are fatal: the
// scanner returns the error and no words.
func Scan(source []byte) ([]Word, []*Warning, *Error) {
	var words []Word
	var warnings []*Warning

	i := 0
	n := len(source)

	for {
		// Skip whitespace and comments until the start of the next word
		for {
			if i >= n {
				return words, warnings, nil
			}
			ch := source[i]
			if isWhitespace(ch) {
				i++
				continue
			}
			if ch == '(' {
				commentStart := i
				i++
				level := 1
				for level > 0 {
					if i >= n {
						return nil, warnings, &Error{
							Kind: ErrNoMatchingClosingParenthesis,
							Span: NewSpan(commentStart),
						}
					}
					switch source[i] {
					case '(':
						level++
					case ')':
						level--
					}
					i++
				}
				continue
			}
			if ch == ')' {
				return nil, warnings, &Error{
					Kind: ErrNoMatchingOpeningParenthesis,
					Span: NewSpan(i),
				}
			}
			break
		}

		start := i
		first := source[i]
		i++

		// Brackets and braces are words of their own and terminate any
		// adjacent word.
		if isBracketing(first) {
			words = append(words, Word{
				Text: source[start:i],
				Span: Span{From: start, To: i},
			})
			continue
		}

		// A leading string rune relaxes the boundary: only whitespace
		// terminates the word, so "foo]bar scans as one word.
		relaxed := first == '"' || first == '\''
		for i < n {
			ch := source[i]
			if isWhitespace(ch) {
				break
			}
			if !relaxed && isBracketing(ch) {
				break
			}
			i++
		}

		kept := i - start
		if kept > MaxWordLength {
			kept = MaxWordLength
			warnings = append(warnings, &Warning{
				Kind: WarnTokenTrimmed,
				Span: Span{From: start + MaxWordLength, To: i},
			})
		}
		words = append(words, Word{
			Text: source[start : start+kept],
			Span: Span{From: start, To: start + kept},
		})
	}
}
