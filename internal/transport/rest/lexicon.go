package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/heartmarshall/ilo-wawa/internal/convert"
	"github.com/heartmarshall/ilo-wawa/internal/corpus"
	"github.com/heartmarshall/ilo-wawa/internal/domain"
	lexstore "github.com/heartmarshall/ilo-wawa/internal/lexicon"
	"github.com/heartmarshall/ilo-wawa/internal/service/lexicon"
)

// maxBodyBytes caps request bodies; it leaves room for JSON escaping of
// the largest accepted text.
const maxBodyBytes = 4 << 20

// lexiconService defines the minimal interface needed by LexiconHandler.
type lexiconService interface {
	Defaults() convert.Options
	Convert(text string, opts convert.Options) (lexicon.Conversion, error)
	SemanticSearch(ctx context.Context, query string, topN, minRelevance int) ([]lexicon.WordMatch, error)
	KeywordSearch(query string) []lexicon.WordMatch
	Word(word string) (lexicon.WordMatch, error)
	Reload() lexstore.Status
	RebuildIndex(ctx context.Context) (corpus.Status, error)
}

// LexiconHandler serves conversion, search and maintenance endpoints.
type LexiconHandler struct {
	svc lexiconService
	log *slog.Logger
}

// NewLexiconHandler creates a LexiconHandler.
func NewLexiconHandler(svc lexiconService, logger *slog.Logger) *LexiconHandler {
	return &LexiconHandler{svc: svc, log: logger.With("handler", "lexicon")}
}

// convertOptions overrides the service defaults field by field.
type convertOptions struct {
	AllowASCIIControls *bool `json:"allow_ascii_controls"`
	PassUnknown        *bool `json:"pass_unknown"`
	CollapseWhitespace *bool `json:"collapse_whitespace"`
	PreserveNewlines   *bool `json:"preserve_newlines"`
}

type convertRequest struct {
	Text    string          `json:"text"`
	Options *convertOptions `json:"options,omitempty"`
}

type unknownResponse struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type convertResponse struct {
	Output     string            `json:"output"`
	Unknown    []unknownResponse `json:"unknown"`
	Codepoints []string          `json:"codepoints"`
}

type wordResponse struct {
	Word         string `json:"word"`
	Glyph        string `json:"glyph"`
	Codepoint    string `json:"codepoint"`
	Gloss        string `json:"gloss,omitempty"`
	ExtendedText string `json:"extended_text,omitempty"`
	URL          string `json:"url,omitempty"`
	Frequency    int    `json:"frequency,omitempty"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Results []wordResponse `json:"results"`
}

type vocabularyStatusResponse struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
	Keys    int    `json:"keys"`
	Error   string `json:"error,omitempty"`
}

type corpusStatusResponse struct {
	Status     string `json:"status"`
	Entries    int    `json:"entries"`
	Model      string `json:"model"`
	SourceHash string `json:"source_hash,omitempty"`
	FromCache  bool   `json:"from_cache"`
	Error      string `json:"error,omitempty"`
}

// Convert handles POST /api/convert.
func (h *LexiconHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Convert(req.Text, req.Options.apply(h.svc.Defaults()))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := convertResponse{
		Output:     res.Output,
		Unknown:    make([]unknownResponse, 0, len(res.Unknown)),
		Codepoints: res.Codepoints,
	}
	for _, u := range res.Unknown {
		resp.Unknown = append(resp.Unknown, unknownResponse{Text: u.Text, Start: u.Start, End: u.End})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Search handles GET /api/search?q=&top=&min=.
func (h *LexiconHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")

	var errs []domain.FieldError
	top, ok := intParam(q.Get("top"))
	if !ok {
		errs = append(errs, domain.FieldError{Field: "top", Message: "must be an integer"})
	}
	minRel, ok := intParam(q.Get("min"))
	if !ok {
		errs = append(errs, domain.FieldError{Field: "min", Message: "must be an integer"})
	}
	if len(errs) > 0 {
		handleError(h.log, w, r, domain.NewValidationErrors(errs))
		return
	}

	matches, err := h.svc.SemanticSearch(r.Context(), query, top, minRel)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: toWordResponses(matches)})
}

// Words handles GET /api/words?q=.
func (h *LexiconHandler) Words(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: toWordResponses(h.svc.KeywordSearch(query))})
}

// Word handles GET /api/words/{word}.
func (h *LexiconHandler) Word(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Word(chi.URLParam(r, "word"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWordResponse(m))
}

// ReloadVocabulary handles POST /api/vocabulary/reload.
func (h *LexiconHandler) ReloadVocabulary(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Reload()
	resp := vocabularyStatusResponse{Status: st.String(), Entries: st.Entries, Keys: st.Keys}
	if st.Err != nil {
		resp.Error = st.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// RebuildCorpus handles POST /api/corpus/rebuild. It blocks until the
// index is rebuilt.
func (h *LexiconHandler) RebuildCorpus(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.RebuildIndex(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCorpusStatus(st))
}

func (o *convertOptions) apply(def convert.Options) convert.Options {
	if o == nil {
		return def
	}
	if o.AllowASCIIControls != nil {
		def.AllowASCIIControls = *o.AllowASCIIControls
	}
	if o.PassUnknown != nil {
		def.PassUnknown = *o.PassUnknown
	}
	if o.CollapseWhitespace != nil {
		def.CollapseWhitespace = *o.CollapseWhitespace
	}
	if o.PreserveNewlines != nil {
		def.PreserveNewlines = *o.PreserveNewlines
	}
	return def
}

// intParam parses an optional integer query parameter. Empty means zero.
func intParam(v string) (int, bool) {
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

func toWordResponse(m lexicon.WordMatch) wordResponse {
	return wordResponse{
		Word:         m.Word,
		Glyph:        m.Glyph,
		Codepoint:    m.Codepoint,
		Gloss:        m.Gloss,
		ExtendedText: m.ExtendedText,
		URL:          m.URL,
		Frequency:    m.Frequency,
	}
}

func toWordResponses(ms []lexicon.WordMatch) []wordResponse {
	out := make([]wordResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toWordResponse(m))
	}
	return out
}

func toCorpusStatus(st corpus.Status) corpusStatusResponse {
	resp := corpusStatusResponse{
		Status:     st.Message,
		Entries:    st.Entries,
		Model:      st.Model,
		SourceHash: st.SourceHash,
		FromCache:  st.FromCache,
	}
	if st.Err != nil {
		resp.Error = st.Err.Error()
	}
	return resp
}
