package convert

import "fmt"

// asciiControls maps structural ASCII characters to UCSUR control glyphs.
var asciiControls = map[byte]rune{
	'[': 0xF1990,
	']': 0xF1991,
	'=': 0xF1992,
	'-': 0xF1995,
	'+': 0xF1996,
	'(': 0xF1997,
	')': 0xF1998,
	'_': 0xF1999,
	'{': 0xF199A,
	'}': 0xF199B,
	'.': 0xF199C,
	':': 0xF199D,
}

// stackingMark is emitted for '-' inside a compound word.
var stackingMark = asciiControls['-']

// variationBase + (d-1) is the selector for variant digit d (1..8).
const variationBase rune = 0xE0100

// ControlGlyph returns the control glyph for a structural ASCII character.
func ControlGlyph(c byte) (rune, bool) {
	r, ok := asciiControls[c]
	return r, ok
}

// VariationSelector returns the selector for digit d in 1..8.
func VariationSelector(d byte) (rune, bool) {
	if d < '1' || d > '8' {
		return 0, false
	}
	return variationBase + rune(d-'1'), true
}

// DescribeRune formats a codepoint the way the editor status line shows it.
func DescribeRune(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}
