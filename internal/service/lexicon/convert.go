package lexicon

import (
	"github.com/heartmarshall/ilo-wawa/internal/convert"
	"github.com/heartmarshall/ilo-wawa/internal/domain"
)

// MaxTextLength bounds the input accepted by Convert.
const MaxTextLength = 1 << 20

// Convert renders text against the current vocabulary. The vocabulary is
// read once, so a concurrent reload never mixes two tables in one result.
func (s *Service) Convert(text string, opts convert.Options) (Conversion, error) {
	if len(text) > MaxTextLength {
		return Conversion{}, domain.NewValidationError("text", "too long (max 1 MiB)")
	}

	v := s.vocab.Current()
	out := convert.Convert(v, text, opts)

	res := Conversion{
		Output:     out,
		Unknown:    []UnknownWord{},
		Codepoints: make([]string, 0, len(out)),
	}
	for _, tok := range convert.UnknownTokens(v, text) {
		res.Unknown = append(res.Unknown, UnknownWord{Text: tok.Text, Start: tok.Span.Start, End: tok.Span.End})
	}
	for _, r := range out {
		res.Codepoints = append(res.Codepoints, convert.DescribeRune(r))
	}
	return res, nil
}
