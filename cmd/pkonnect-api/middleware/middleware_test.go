package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantStatus int
		wantOrigin string
	}{
		{"wildcard", []string{"*"}, "http://a.example", http.MethodPost, http.StatusTeapot, "http://a.example"},
		{"listed", []string{"http://a.example"}, "http://a.example", http.MethodGet, http.StatusTeapot, "http://a.example"},
		{"not listed", []string{"http://a.example"}, "http://b.example", http.MethodGet, http.StatusTeapot, ""},
		{"no origin", []string{"*"}, "", http.MethodGet, http.StatusTeapot, ""},
		{"preflight", []string{"*"}, "http://a.example", http.MethodOptions, http.StatusNoContent, "http://a.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/chat", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			CORS(tt.allowed)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequestContext(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = observability.RequestIDFromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "abc-123")

	chimiddleware.RequestID(RequestContext(next)).ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(chimiddleware.RequestIDHeader))
}
