package convert

// Kind classifies a token produced by Tokenize.
type Kind int

const (
	KindUnknown Kind = iota
	KindWord
	KindWhitespace
	KindNewline
	KindASCIIControl
	KindJoiner
	KindLiteral
)

var kindNames = [...]string{
	KindUnknown:      "unknown",
	KindWord:         "word",
	KindWhitespace:   "whitespace",
	KindNewline:      "newline",
	KindASCIIControl: "ascii_control",
	KindJoiner:       "joiner",
	KindLiteral:      "literal",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Span is a half-open byte range [Start, End) in the source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Token is one classified slice of the source text.
type Token struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
	Span Span   `json:"span"`
}
