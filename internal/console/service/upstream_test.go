package service

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/avvvet/nobleco-console/internal/console/api"
)

type call struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// upstream is a fake platform API recording every request it receives.
type upstream struct {
	mu    sync.Mutex
	calls []call
	mux   *http.ServeMux
	srv   *httptest.Server
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{mux: http.NewServeMux()}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		u.mu.Lock()
		u.calls = append(u.calls, call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})
		u.mu.Unlock()
		u.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) handle(pattern string, fn http.HandlerFunc) {
	u.mux.HandleFunc(pattern, fn)
}

func (u *upstream) client() *api.Client {
	return api.NewClient(u.srv.URL, 2*time.Second)
}

func (u *upstream) count(method, path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, c := range u.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (u *upstream) last(method, path string) call {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i := len(u.calls) - 1; i >= 0; i-- {
		if u.calls[i].Method == method && u.calls[i].Path == path {
			return u.calls[i]
		}
	}
	return call{}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
