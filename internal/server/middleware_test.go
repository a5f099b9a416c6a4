package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/spotify-relay/internal/shared"
	"github.com/google/uuid"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
})

func TestCORS(t *testing.T) {
	t.Run("Any Origin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.Header.Set("Origin", "http://elsewhere.example")
		CORS(okHandler).ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("expected wildcard origin, got %q", got)
		}
		if rec.Body.String() != "ok" {
			t.Error("expected request to reach handler")
		}
	})

	t.Run("Preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/callback", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		CORS(okHandler).ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Error("expected preflight to stop before the handler")
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "GET") {
			t.Errorf("expected GET in allowed methods, got %q", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Authorization" {
			t.Errorf("expected requested headers to be allowed, got %q", got)
		}
	})

	t.Run("Plain Options Passes Through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		CORS(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/login", nil))

		if rec.Body.String() != "ok" {
			t.Error("expected non-preflight OPTIONS to reach handler")
		}
	})

	t.Run("Relay Routes", func(t *testing.T) {
		h := New(Opts{Config: testConfig(), Service: &mockOAuthService{url: "https://example.com/auth"}, Logger: shared.NewLogger(&bytes.Buffer{})}).Handler()

		for _, path := range []string{"/login", "/callback?code=c"} {
			rec := get(h, path)
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Errorf("%s: expected wildcard origin, got %q", path, got)
			}
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/callback", nil)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected preflight 204 through router, got %d", rec.Code)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	t.Run("Logs Path Without Query", func(t *testing.T) {
		var logs bytes.Buffer
		h := RequestLogger(shared.NewLogger(&logs))(okHandler)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=secret-code", nil))

		out := logs.String()
		if !strings.Contains(out, "path=/callback") {
			t.Errorf("expected path in log, got %q", out)
		}
		if !strings.Contains(out, "status=200") {
			t.Errorf("expected status in log, got %q", out)
		}
		if strings.Contains(out, "secret-code") {
			t.Error("authorization code must not be logged")
		}

		id := rec.Header().Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("expected uuid request id, got %q", id)
		}
		if !strings.Contains(out, id) {
			t.Error("expected request id in log line")
		}
	})

	t.Run("Records Status", func(t *testing.T) {
		var logs bytes.Buffer
		h := RequestLogger(shared.NewLogger(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback", nil))

		out := logs.String()
		if !strings.Contains(out, "status=500") {
			t.Errorf("expected status 500 in log, got %q", out)
		}
		if !strings.Contains(out, "WARN") {
			t.Errorf("expected server errors at warn level, got %q", out)
		}
	})
}

func TestRecoverer(t *testing.T) {
	var logs bytes.Buffer
	h := Recoverer(shared.NewLogger(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(logs.String(), "boom") {
		t.Errorf("expected panic value in log, got %q", logs.String())
	}
}
