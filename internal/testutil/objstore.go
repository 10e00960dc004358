// Package testutil provides in-memory test doubles for the pipeline's
// collaborators, grounded on original_source/src/local_server.rs's
// local-directory test harness (this service has no in-process storage
// mock in the retrieved teacher code to copy from, since cs3org/reva's
// own storage tests hit a running provider).
package testutil

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"
)

// FakeObjectStore implements pipeline.ObjectStore by copying uploaded
// files into memory, keyed by the key they were uploaded under.
type FakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	baseURL string
}

// NewFakeObjectStore builds an empty store. baseURL is the prefix
// presigned URLs are minted under ("http://fake-store.test/").
func NewFakeObjectStore(baseURL string) *FakeObjectStore {
	return &FakeObjectStore{objects: map[string][]byte{}, baseURL: baseURL}
}

// Put reads the file at path and stores its bytes under key.
func (f *FakeObjectStore) Put(ctx context.Context, key, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

// Presign returns a deterministic fake URL for key; it does not validate
// that key was actually Put.
func (f *FakeObjectStore) Presign(ctx context.Context, key string, ttl time.Duration) (*url.URL, error) {
	return url.Parse(fmt.Sprintf("%s%s", f.baseURL, key))
}

// Get returns the bytes stored under key, or (nil, false).
func (f *FakeObjectStore) Get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

// Keys returns every key currently stored, for assertions.
func (f *FakeObjectStore) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys
}
