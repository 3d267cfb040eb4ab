package domain

// SentencePair is one aligned row of the parallel corpus.
type SentencePair struct {
	Source string // natural-language sentence
	Target string // target-language sentence
}

// WordScore is a target-language word with its aggregated frequency
// across the most similar corpus sentences.
type WordScore struct {
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
}
