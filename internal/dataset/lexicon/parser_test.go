package lexicon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/ilo-wawa/internal/domain"
)

func writeJSONFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParsePrimary(t *testing.T) {
	t.Parallel()

	path := writeJSONFile(t, "primary.json", `[
		{"word": " Toki ", "codepoint": "U+F1960", "definition": " speech ", "semantic_space": "talking, language"},
		{"word": "pona", "codepoint": "F1940", "definition": "good", "semantic_space": {"nested": true}},
		{"word": "", "codepoint": "U+F1900"},
		{"word": "broken", "codepoint": "U+XYZ"},
		{"word": "half", "codepoint": "U+D83D"},
		{"word": "ni", "codepoint": "u+f1936"}
	]`)

	result, err := ParsePrimary(path)
	require.NoError(t, err)

	assert.Equal(t, Stats{Total: 6, Skipped: 3}, result.Stats)
	require.Len(t, result.Entries, 3)

	toki := result.Entries[0]
	assert.Equal(t, "toki", toki.Word)
	assert.Equal(t, rune(0xF1960), toki.Codepoint)
	assert.Equal(t, "speech", toki.Gloss)
	assert.Equal(t, "talking, language", toki.ExtendedText)
	assert.Equal(t, "https://lipamanka.gay/essays/dictionary#toki", toki.URL)

	assert.Empty(t, result.Entries[1].ExtendedText, "non-string semantic space is ignored")
	assert.Equal(t, rune(0xF1936), result.Entries[2].Codepoint)
}

func TestParseSupplementary(t *testing.T) {
	t.Parallel()

	path := writeJSONFile(t, "extra.json", `[
		{"name": "toki-pona (ligature)", "code_hex": "U+F19A0"},
		{"name": "Kijetesantakalu", "code_hex": "F1980"},
		{"name": "", "code_hex": "F1981"},
		{"name": "bad", "code_hex": ""}
	]`)

	result, err := ParseSupplementary(path)
	require.NoError(t, err)

	assert.Equal(t, Stats{Total: 4, Skipped: 2}, result.Stats)
	assert.Equal(t, []Glyph{
		{Name: "toki+pona", Codepoint: 0xF19A0},
		{Name: "kijetesantakalu", Codepoint: 0xF1980},
	}, result.Glyphs)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	_, err := ParsePrimary(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, domain.ErrDataSourceMissing))

	bad := writeJSONFile(t, "bad.json", `{"word": `)
	_, err = ParseSupplementary(bad)
	assert.True(t, errors.Is(err, domain.ErrDataSourceMalformed))
}

func TestParseCodepoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{in: "U+F1900", want: 0xF1900},
		{in: " u+0041 ", want: 'A'},
		{in: "E0101", want: 0xE0101},
		{in: "", wantErr: true},
		{in: "U+", wantErr: true},
		{in: "zz", wantErr: true},
		{in: "110000", wantErr: true},
		{in: "U+D7FF", want: 0xD7FF},
		{in: "U+D800", wantErr: true},
		{in: "udfff", wantErr: true},
		{in: "U+DFFF", wantErr: true},
		{in: "U+E000", want: 0xE000},
	}
	for _, tt := range tests {
		got, err := ParseCodepoint(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
