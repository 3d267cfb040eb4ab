// Package convert turns sitelen lasina (Latin transcription) into UCSUR
// private-use glyph text.
//
// Conversion is a pure function of the input text, the options, and a
// read-only vocabulary. It never fails: unknown input is either passed
// through verbatim or dropped, as the options dictate.
package convert

import (
	"iter"
	"unicode/utf8"
)

const (
	zwj  = '\u200d'
	zwnj = '\u200c'
)

// Tokenize returns a lazy sequence of tokens covering text exactly:
// concatenating every token's Text reproduces the input byte for byte.
// Each range over the sequence rescans from the start.
//
// At each position the first matching rule wins: newline (\r\n, \r, \n),
// a run of spaces/tabs, a word (ASCII letter followed by letters, digits,
// '+' or '-'), a single ASCII control character, any other single rune.
func Tokenize(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for i := 0; i < len(text); {
			kind, n := scan(text[i:])
			tok := Token{Kind: kind, Text: text[i : i+n], Span: Span{Start: i, End: i + n}}
			if !yield(tok) {
				return
			}
			i += n
		}
	}
}

// scan classifies the token at the start of s and returns its byte length.
func scan(s string) (Kind, int) {
	c := s[0]
	switch {
	case c == '\r':
		if len(s) > 1 && s[1] == '\n' {
			return KindNewline, 2
		}
		return KindNewline, 1
	case c == '\n':
		return KindNewline, 1
	case isBlank(c):
		n := 1
		for n < len(s) && isBlank(s[n]) {
			n++
		}
		return KindWhitespace, n
	case isLetter(c):
		n := 1
		for n < len(s) && isWordByte(s[n]) {
			n++
		}
		return KindWord, n
	case isControl(c):
		return KindASCIIControl, 1
	}

	r, n := utf8.DecodeRuneInString(s)
	switch {
	case r == utf8.RuneError && n <= 1:
		return KindUnknown, 1
	case r == zwj || r == zwnj:
		return KindJoiner, n
	default:
		return KindLiteral, n
	}
}

func isBlank(c byte) bool { return c == ' ' || c == '\t' }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordByte(c byte) bool { return isLetter(c) || isDigit(c) || c == '+' || c == '-' }

func isControl(c byte) bool {
	_, ok := asciiControls[c]
	return ok
}
