package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownTokens(t *testing.T) {
	t.Parallel()

	v := testVocabulary()
	text := "toki soweli ni33 toki+kasi pona-ala\nmoku2 [x]"

	unknown := UnknownTokens(v, text)
	require.Len(t, unknown, 5)

	var words []string
	for _, tok := range unknown {
		words = append(words, tok.Text)
		assert.Equal(t, tok.Text, text[tok.Span.Start:tok.Span.End])
	}
	assert.Equal(t, []string{"soweli", "toki+kasi", "pona-ala", "moku2", "x"}, words)
}

func TestResolvable(t *testing.T) {
	t.Parallel()

	v := testVocabulary()
	assert.True(t, Resolvable(v, "toki"))
	assert.True(t, Resolvable(v, "TOKI2"))
	assert.True(t, Resolvable(v, "toki+pona"))
	assert.True(t, Resolvable(v, "toki-pona3"))
	assert.False(t, Resolvable(v, "toki+kasi"))
	assert.False(t, Resolvable(v, "kasi"))
}
