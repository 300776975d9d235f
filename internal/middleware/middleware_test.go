package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	tests := []struct {
		name    string
		allowed []string
		origin  string
		method  string
		want    string
		status  int
	}{
		{name: "wildcard echoes origin", allowed: []string{"*"}, origin: "https://a.example", method: http.MethodGet, want: "https://a.example", status: http.StatusOK},
		{name: "listed origin", allowed: []string{"https://a.example"}, origin: "https://a.example", method: http.MethodPost, want: "https://a.example", status: http.StatusOK},
		{name: "unlisted origin", allowed: []string{"https://a.example"}, origin: "https://b.example", method: http.MethodGet, want: "", status: http.StatusOK},
		{name: "preflight", allowed: []string{"*"}, origin: "https://a.example", method: http.MethodOptions, want: "https://a.example", status: http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, "/visualize", nil)
			req.Header.Set("Origin", tc.origin)
			CORS(tc.allowed)(next).ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.want {
				t.Fatalf("allow origin = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	var seen string
	h := RequestID(base)(Logger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(rec, req)

	if seen != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rec.Header().Get(RequestIDHeader))
	}
	out := buf.String()
	for _, expect := range []string{`"request_id":"abc-123"`, `"message":"inside"`, `"status":418`, `"path":"/health"`} {
		if !strings.Contains(out, expect) {
			t.Fatalf("log missing %s:\n%s", expect, out)
		}
	}
}

func TestRequestIDGenerated(t *testing.T) {
	h := RequestID(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(rec.Header().Get(RequestIDHeader)) != 36 {
		t.Fatalf("expected generated uuid, got %q", rec.Header().Get(RequestIDHeader))
	}
}
