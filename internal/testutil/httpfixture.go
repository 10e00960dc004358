package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// FixtureServer serves fixed bodies at fixed paths and records every
// request it receives, standing in for the caller-controlled template,
// asset and callback endpoints a render job talks to. Request bodies are
// captured eagerly at handling time (not left on *http.Request) because
// net/http drains and closes a handler's request body as soon as the
// handler returns, before a test ever gets a chance to read it back.
type FixtureServer struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []*http.Request
	reqBodies [][]byte
	bodies    map[string][]byte
	headers   map[string]http.Header
}

// NewFixtureServer starts a FixtureServer serving the given path->body map.
func NewFixtureServer(bodies map[string][]byte) *FixtureServer {
	fs := &FixtureServer{bodies: bodies, headers: map[string]http.Header{}}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.handle))
	return fs
}

func (fs *FixtureServer) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)

	fs.mu.Lock()
	fs.requests = append(fs.requests, r)
	fs.reqBodies = append(fs.reqBodies, raw)
	fs.mu.Unlock()

	if h, ok := fs.headers[r.URL.Path]; ok {
		for k, vs := range h {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
	}

	body, ok := fs.bodies[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write(body)
}

// SetHeader arranges for every response served at path to carry header
// k=v, e.g. a Content-Disposition filename hint.
func (fs *FixtureServer) SetHeader(path, k, v string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.headers[path] == nil {
		fs.headers[path] = http.Header{}
	}
	fs.headers[path].Set(k, v)
}

// Requests returns every request received so far.
func (fs *FixtureServer) Requests() []*http.Request {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]*http.Request, len(fs.requests))
	copy(out, fs.requests)
	return out
}

// RequestBodies returns the raw body bytes of every request received so
// far, in the same order as Requests.
func (fs *FixtureServer) RequestBodies() [][]byte {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([][]byte, len(fs.reqBodies))
	copy(out, fs.reqBodies)
	return out
}
