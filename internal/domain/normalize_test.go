package domain

import "testing"

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  hello  ", want: "hello"},
		{name: "lowercase", input: "Hello World", want: "hello world"},
		{name: "compress multiple spaces", input: "hello   world", want: "hello world"},
		{name: "diacritics preserved", input: "Café", want: "café"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
		{name: "tabs and spaces", input: "\t hello \t", want: "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase", input: "TOKI", want: "toki"},
		{name: "trim", input: "  pona\t", want: "pona"},
		{name: "empty", input: "", want: ""},
		{name: "composes decomposed accent", input: "e\u0301", want: "\u00e9"},
		{name: "keeps compound joiner", input: "Toki+Pona", want: "toki+pona"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeWord(tt.input); got != tt.want {
				t.Errorf("NormalizeWord(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanSupplementaryName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "toki-pona", want: "toki+pona"},
		{input: "Jan-Sewi (Ligature)", want: "jan+sewi"},
		{input: "kijetesantakalu", want: "kijetesantakalu"},
		{input: " (only annotation) ", want: ""},
	}
	for _, tt := range tests {
		if got := CleanSupplementaryName(tt.input); got != tt.want {
			t.Errorf("CleanSupplementaryName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
