package convert

// UnknownTokens returns the word tokens of text that do not resolve
// against v, with spans so an editor can underline them. A compound is
// unknown when any of its word parts is unknown; a trailing variation
// suffix is ignored when resolving.
func UnknownTokens(v Lookuper, text string) []Token {
	var unknown []Token
	for tok := range Tokenize(text) {
		if tok.Kind != KindWord || Resolvable(v, tok.Text) {
			continue
		}
		unknown = append(unknown, tok)
	}
	return unknown
}

// Resolvable reports whether word converts to glyphs without relying on
// verbatim pass-through.
func Resolvable(v Lookuper, word string) bool {
	if resolvesDirect(v, word) {
		return true
	}
	parts := splitCompound(word)
	if len(parts) == 1 {
		return false
	}
	for _, part := range parts {
		if part == "+" || part == "-" {
			continue
		}
		if !resolvesDirect(v, part) {
			return false
		}
	}
	return true
}

func resolvesDirect(v Lookuper, word string) bool {
	if _, ok := v.Lookup(word); ok {
		return true
	}
	if base, _, ok := splitVariation(word); ok {
		_, found := v.Lookup(base)
		return found
	}
	return false
}
