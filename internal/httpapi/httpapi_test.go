package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs3org/papers/internal/model"
)

type fakeRenderer struct {
	mu        sync.Mutex
	rendered  []model.DocumentSpec
	previewFn func(model.DocumentSpec) (string, error)
	renderErr error
}

func (f *fakeRenderer) Render(ctx context.Context, spec model.DocumentSpec) error {
	f.mu.Lock()
	f.rendered = append(f.rendered, spec)
	f.mu.Unlock()
	return f.renderErr
}

func (f *fakeRenderer) Preview(ctx context.Context, spec model.DocumentSpec) (string, error) {
	if f.previewFn != nil {
		return f.previewFn(spec)
	}
	return "", nil
}

func validBody() string {
	return `{
		"template_url": "https://example.test/t.tex",
		"callback_url": "https://example.test/cb",
		"output_filename": "report.pdf"
	}`
}

func TestHealthz(t *testing.T) {
	h := New(zerolog.Nop(), &fakeRenderer{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRenderAccepted(t *testing.T) {
	fr := &fakeRenderer{}
	h := New(zerolog.Nop(), fr)

	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(validBody()))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	require.Eventually(t, func() bool {
		fr.mu.Lock()
		defer fr.mu.Unlock()
		return len(fr.rendered) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestRenderRejectsInvalidSpec(t *testing.T) {
	h := New(zerolog.Nop(), &fakeRenderer{})
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(`{"output_filename": "not-a-pdf"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRenderRejectsMalformedJSON(t *testing.T) {
	h := New(zerolog.Nop(), &fakeRenderer{})
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(`not json`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewReturnsExpandedBody(t *testing.T) {
	fr := &fakeRenderer{previewFn: func(spec model.DocumentSpec) (string, error) {
		return "expanded text", nil
	}}
	h := New(zerolog.Nop(), fr)

	req := httptest.NewRequest(http.MethodPost, "/preview", strings.NewReader(validBody()))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "expanded text", w.Body.String())
}

func TestUnknownRouteIs404(t *testing.T) {
	h := New(zerolog.Nop(), &fakeRenderer{})
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
