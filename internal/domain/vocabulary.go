package domain

// VocabularyEntry maps one normalized target-language word to its glyph.
type VocabularyEntry struct {
	Word         string
	Codepoint    rune
	Gloss        string
	ExtendedText string
	URL          string
}

// Glyph returns the entry's glyph as a string.
func (e VocabularyEntry) Glyph() string {
	return string(e.Codepoint)
}

// Vocabulary is an immutable word → glyph table. It is built once by a
// VocabularyBuilder and replaced wholesale on reload, never patched.
// A nil *Vocabulary behaves as an empty table.
type Vocabulary struct {
	entries []VocabularyEntry
	index   map[string]VocabularyEntry
}

// Lookup resolves a word case-insensitively.
func (v *Vocabulary) Lookup(word string) (VocabularyEntry, bool) {
	if v == nil {
		return VocabularyEntry{}, false
	}
	e, ok := v.index[NormalizeWord(word)]
	return e, ok
}

// Has reports whether the word resolves to a glyph.
func (v *Vocabulary) Has(word string) bool {
	_, ok := v.Lookup(word)
	return ok
}

// Entries returns the primary entries in load order. Supplementary
// glyphs and aliases resolve through Lookup but are not listed.
func (v *Vocabulary) Entries() []VocabularyEntry {
	if v == nil {
		return nil
	}
	out := make([]VocabularyEntry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Len returns the number of resolvable keys, aliases included.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.index)
}

// VocabularyBuilder accumulates entries for a new Vocabulary.
// It is not safe for concurrent use.
type VocabularyBuilder struct {
	entries []VocabularyEntry
	index   map[string]VocabularyEntry
	aliases [][2]string
}

// NewVocabularyBuilder creates an empty builder.
func NewVocabularyBuilder() *VocabularyBuilder {
	return &VocabularyBuilder{index: make(map[string]VocabularyEntry)}
}

// AddPrimary adds a listed entry. The first definition of a word wins;
// later duplicates are ignored and reported as false.
func (b *VocabularyBuilder) AddPrimary(e VocabularyEntry) bool {
	e.Word = NormalizeWord(e.Word)
	if e.Word == "" {
		return false
	}
	if _, exists := b.index[e.Word]; exists {
		return false
	}
	b.entries = append(b.entries, e)
	b.index[e.Word] = e
	return true
}

// AddSupplementary adds an unlisted glyph only when the key is new.
// It never overrides an existing mapping.
func (b *VocabularyBuilder) AddSupplementary(word string, cp rune) bool {
	word = NormalizeWord(word)
	if word == "" {
		return false
	}
	if _, exists := b.index[word]; exists {
		return false
	}
	b.index[word] = VocabularyEntry{Word: word, Codepoint: cp}
	return true
}

// Alias makes alias resolve to target's glyph when target exists at
// Build time. Aliases override any prior mapping of alias.
func (b *VocabularyBuilder) Alias(alias, target string) {
	b.aliases = append(b.aliases, [2]string{NormalizeWord(alias), NormalizeWord(target)})
}

// Build returns the finished table. The builder must not be reused.
func (b *VocabularyBuilder) Build() *Vocabulary {
	for _, a := range b.aliases {
		target, ok := b.index[a[1]]
		if !ok || a[0] == "" {
			continue
		}
		aliased := target
		aliased.Word = a[0]
		b.index[a[0]] = aliased
	}
	return &Vocabulary{entries: b.entries, index: b.index}
}
