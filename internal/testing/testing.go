// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"

	"golang.org/x/oauth2"
)

// StubUpstream is an [httptest.Server] standing in for the token endpoint.
//
// It answers every request with Status and Body and records what it received.
type StubUpstream struct {
	*httptest.Server
	Status int
	Body   string

	mu       sync.Mutex
	requests []RecordedRequest
}

// RecordedRequest is a token request as seen by [StubUpstream].
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Form   url.Values
}

// NewStubUpstream starts a stub token endpoint and closes it when the test ends.
func NewStubUpstream(t *testing.T, status int, body string) *StubUpstream {
	t.Helper()
	s := &StubUpstream{Status: status, Body: body}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("stub upstream: failed to parse form: %v", err)
		}
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Form:   r.PostForm,
		})
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.Status)
		io.WriteString(w, s.Body)
	}))
	t.Cleanup(s.Close)
	return s
}

// Requests returns the requests received so far.
func (s *StubUpstream) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// Endpoint returns an [oauth2.Endpoint] whose token URL points at the stub.
func (s *StubUpstream) Endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{TokenURL: s.URL + "/api/token"}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
