package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLoggerRecordsRunID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(RequestLogger(log))
	r.Get("/api/runs/{runID}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Post("/api/runs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", runsPrefix+"run-new")
		w.WriteHeader(http.StatusAccepted)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/runs/run-42", nil))
	out := buf.String()
	assert.Contains(t, out, "run_id=run-42")
	assert.Contains(t, out, "route=/api/runs/{runID}")
	assert.Contains(t, out, "bytes=2")

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/runs", nil))
	assert.Contains(t, buf.String(), "run_id=run-new")
	assert.Contains(t, buf.String(), "status=202")
}

func TestRequestLoggerOmitsRunIDElsewhere(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(RequestLogger(log))
	r.Get("/api/progress", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/progress", nil))
	assert.NotContains(t, buf.String(), "run_id")
}

func TestAuthMiddlewareLogsRejections(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	h := AuthMiddleware("secret", log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	cases := []struct {
		header string
		status int
		reason string
	}{
		{"", http.StatusUnauthorized, "missing token"},
		{"Bearer", http.StatusUnauthorized, "missing token"},
		{"Bearer nope", http.StatusUnauthorized, "invalid token"},
		{"bearer secret", http.StatusOK, ""},
	}
	for _, tc := range cases {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, tc.status, rec.Code, tc.header)
		if tc.reason != "" {
			assert.Contains(t, buf.String(), tc.reason, tc.header)
		} else {
			assert.Empty(t, buf.String(), tc.header)
		}
	}
}
