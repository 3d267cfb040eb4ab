package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/heartmarshall/ilo-wawa/internal/corpus"
	lexstore "github.com/heartmarshall/ilo-wawa/internal/lexicon"
)

// DBPinger is the part of a database pool the health check uses.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// statusReporter exposes the load state of the vocabulary and the corpus index.
type statusReporter interface {
	VocabularyStatus() lexstore.Status
	IndexStatus() corpus.Status
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	status  statusReporter
	db      DBPinger
	version string
}

// NewHealthHandler creates a HealthHandler. db may be nil when no database
// backs the corpus cache.
func NewHealthHandler(status statusReporter, db DBPinger, version string) *HealthHandler {
	return &HealthHandler{status: status, db: db, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe: 200 once a vocabulary is installed and the
// database, if any, answers; 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	components, overall := h.check(r.Context())

	status := http.StatusOK
	if overall == "down" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{
		Status:     overall,
		Components: components,
		Timestamp:  time.Now(),
	})
}

// Health is the full health check with component details and version.
// A degraded corpus index does not fail the check: conversion still works.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components, overall := h.check(r.Context())

	status := http.StatusOK
	if overall == "down" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) check(ctx context.Context) (map[string]CompStatus, string) {
	components := make(map[string]CompStatus)
	overall := "ok"

	vs := h.status.VocabularyStatus()
	switch {
	case vs.Entries == 0:
		components["vocabulary"] = CompStatus{Status: "down", Message: vs.String()}
		overall = "down"
	case vs.Err != nil:
		components["vocabulary"] = CompStatus{Status: "degraded", Message: vs.String()}
		overall = "degraded"
	default:
		components["vocabulary"] = CompStatus{Status: "ok", Message: vs.String()}
	}

	cs := h.status.IndexStatus()
	if cs.Err != nil || cs.Entries == 0 {
		components["corpus"] = CompStatus{Status: "degraded", Message: cs.Message}
		if overall == "ok" {
			overall = "degraded"
		}
	} else {
		components["corpus"] = CompStatus{Status: "ok", Message: cs.Message}
	}

	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		start := time.Now()
		if err := h.db.Ping(pingCtx); err != nil {
			components["database"] = CompStatus{Status: "down"}
			overall = "down"
		} else {
			components["database"] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
		}
	}

	return components, overall
}
