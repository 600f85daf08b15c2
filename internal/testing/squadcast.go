package testing

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// RecordedRequest is one call received by [FakeSquadCast]
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          string
	Form          url.Values
}

// FakeSquadCast is an in-process stand-in for the SquadCast API.
//
// Status fields default to 200. Set them before issuing requests.
type FakeSquadCast struct {
	*httptest.Server

	ShowsJSON    string
	SessionJSON  string
	ShowsStatus  int
	CreateStatus int
	UpdateStatus int
	DeleteStatus int

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewFakeSquadCast starts a fake API that is closed when the test ends
func NewFakeSquadCast(t *testing.T) *FakeSquadCast {
	t.Helper()

	f := &FakeSquadCast{
		ShowsJSON:    `[]`,
		SessionJSON:  `{"sessionID":"sess-1","showID":"show-1"}`,
		ShowsStatus:  http.StatusOK,
		CreateStatus: http.StatusOK,
		UpdateStatus: http.StatusOK,
		DeleteStatus: http.StatusOK,
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *FakeSquadCast) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	form, _ := url.ParseQuery(string(body))

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          string(body),
		Form:          form,
	})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v2/shows":
		w.WriteHeader(f.ShowsStatus)
		w.Write([]byte(f.ShowsJSON))
	case r.Method == http.MethodPost && r.URL.Path == "/v2/sessions":
		w.WriteHeader(f.CreateStatus)
		w.Write([]byte(f.SessionJSON))
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/v2/sessions/"):
		w.WriteHeader(f.UpdateStatus)
		w.Write([]byte(`{}`))
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/v2/sessions/"):
		w.WriteHeader(f.DeleteStatus)
	default:
		http.NotFound(w, r)
	}
}

// Requests returns a copy of every request received so far
func (f *FakeSquadCast) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Last returns the most recent request, or the zero value when none arrived
func (f *FakeSquadCast) Last() RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return RecordedRequest{}
	}
	return f.requests[len(f.requests)-1]
}
