package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/heartmarshall/ilo-wawa/internal/config"
)

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	cfg := config.CORSConfig{
		AllowedOrigins:   "https://editor.example",
		AllowedMethods:   "GET,POST,OPTIONS",
		AllowedHeaders:   "Content-Type,X-Request-Id",
		AllowCredentials: true,
		MaxAge:           86400,
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called for preflight")
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/convert", nil)
	req.Header.Set("Origin", "https://editor.example")
	rec := httptest.NewRecorder()

	CORS(cfg)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	want := map[string]string{
		"Access-Control-Allow-Origin":      "https://editor.example",
		"Access-Control-Allow-Methods":     "GET,POST,OPTIONS",
		"Access-Control-Allow-Headers":     "Content-Type,X-Request-Id",
		"Access-Control-Allow-Credentials": "true",
		"Access-Control-Max-Age":           "86400",
		"Access-Control-Expose-Headers":    RequestIDHeader,
		"Vary":                             "Origin",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestCORS_SimpleRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		allowed     string
		credentials bool
		origin      string
		wantOrigin  string
		wantCreds   string
	}{
		{
			name:        "listed origin",
			allowed:     "https://editor.example, https://other.example",
			credentials: true,
			origin:      "https://other.example",
			wantOrigin:  "https://other.example",
			wantCreds:   "true",
		},
		{
			name:        "unlisted origin",
			allowed:     "https://editor.example",
			credentials: true,
			origin:      "https://evil.example",
		},
		{
			name:       "wildcard echoes origin",
			allowed:    "*",
			origin:     "https://any.example",
			wantOrigin: "https://any.example",
		},
		{
			name:    "no origin header",
			allowed: "*",
		},
		{
			name:    "empty allow list",
			allowed: " , ",
			origin:  "https://editor.example",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.CORSConfig{
				AllowedOrigins:   tt.allowed,
				AllowedMethods:   "GET,POST",
				AllowCredentials: tt.credentials,
				MaxAge:           600,
			}

			called := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/words", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			CORS(cfg)(handler).ServeHTTP(rec, req)

			if !called {
				t.Fatal("expected handler to be called")
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Errorf("Access-Control-Allow-Credentials = %q, want %q", got, tt.wantCreds)
			}
			if got := rec.Header().Get("Vary"); got != "Origin" {
				t.Errorf("Vary = %q, want Origin", got)
			}
		})
	}
}
