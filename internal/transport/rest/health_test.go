package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/heartmarshall/ilo-wawa/internal/corpus"
	"github.com/heartmarshall/ilo-wawa/internal/domain"
	lexstore "github.com/heartmarshall/ilo-wawa/internal/lexicon"
)

type dbPingerMock struct {
	err error
}

func (m *dbPingerMock) Ping(_ context.Context) error {
	return m.err
}

type statusReporterMock struct {
	vocab lexstore.Status
	index corpus.Status
}

func (m *statusReporterMock) VocabularyStatus() lexstore.Status { return m.vocab }
func (m *statusReporterMock) IndexStatus() corpus.Status        { return m.index }

func healthyStatus() *statusReporterMock {
	return &statusReporterMock{
		vocab: lexstore.Status{Primary: "ok", Entries: 120, Keys: 140},
		index: corpus.Status{Message: "indexed 10 semantic vectors", Entries: 10},
	}
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestLive_Always200(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&statusReporterMock{}, nil, "test-version")

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()

	h.Live(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	resp := decodeHealth(t, rec)
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", resp.Status)
	}
	if resp.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
}

func TestReady_VocabularyLoaded(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(healthyStatus(), nil, "test-version")

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	h.Ready(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if resp := decodeHealth(t, rec); resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", resp.Status)
	}
}

func TestReady_VocabularyEmpty(t *testing.T) {
	t.Parallel()

	st := healthyStatus()
	st.vocab = lexstore.Status{
		Primary: "error loading dictionary: missing",
		Err:     domain.ErrDataSourceMissing,
	}
	h := NewHealthHandler(st, nil, "test-version")

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	h.Ready(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}

	resp := decodeHealth(t, rec)
	if resp.Status != "down" {
		t.Errorf("expected status 'down', got %q", resp.Status)
	}
	if got := resp.Components["vocabulary"].Message; got != "error loading dictionary: missing" {
		t.Errorf("unexpected vocabulary message %q", got)
	}
}

func TestReady_DBDown(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(healthyStatus(), &dbPingerMock{err: errors.New("connection refused")}, "test-version")

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	h.Ready(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	if resp := decodeHealth(t, rec); resp.Status != "down" {
		t.Errorf("expected status 'down', got %q", resp.Status)
	}
}

func TestHealth_AllOK(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(healthyStatus(), &dbPingerMock{}, "v1.0.0")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	resp := decodeHealth(t, rec)
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", resp.Status)
	}
	if resp.Version != "v1.0.0" {
		t.Errorf("expected version 'v1.0.0', got %q", resp.Version)
	}
	for _, name := range []string{"vocabulary", "corpus", "database"} {
		comp, ok := resp.Components[name]
		if !ok {
			t.Fatalf("expected %q component in response", name)
		}
		if comp.Status != "ok" {
			t.Errorf("expected %s status 'ok', got %q", name, comp.Status)
		}
	}
	if resp.Components["database"].Latency == "" {
		t.Error("expected non-empty latency for database component")
	}
}

func TestHealth_NoDatabaseComponentWithoutPinger(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(healthyStatus(), nil, "v1.0.0")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	resp := decodeHealth(t, rec)
	if _, ok := resp.Components["database"]; ok {
		t.Error("expected no 'database' component without a pinger")
	}
}

func TestHealth_CorpusDegraded(t *testing.T) {
	t.Parallel()

	st := healthyStatus()
	st.index = corpus.Status{Message: "corpus file missing: data/sentences.tsv", Err: domain.ErrDataSourceMissing}
	h := NewHealthHandler(st, nil, "v1.0.0")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	resp := decodeHealth(t, rec)
	if resp.Status != "degraded" {
		t.Errorf("expected status 'degraded', got %q", resp.Status)
	}
	if got := resp.Components["corpus"].Status; got != "degraded" {
		t.Errorf("expected corpus status 'degraded', got %q", got)
	}
}
