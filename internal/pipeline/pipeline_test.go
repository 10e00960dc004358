package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs3org/papers/internal/model"
	"github.com/cs3org/papers/internal/testutil"
)

func TestPreviewExpandsTemplateWithoutSideEffects(t *testing.T) {
	srv := testutil.NewFixtureServer(map[string][]byte{
		"/template.tex": []byte(`Hello, {{.name}}!`),
	})
	defer srv.Close()

	p := testPipeline(t)
	templateURL, err := model.ParseURL(srv.URL + "/template.tex")
	require.NoError(t, err)

	spec := model.DocumentSpec{
		TemplateURL: templateURL,
		Variables:   map[string]interface{}{"name": "World"},
	}

	out, err := p.Preview(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", out)
}

func TestPreviewUsesNotFoundBodyAsTemplate(t *testing.T) {
	srv := testutil.NewFixtureServer(map[string][]byte{})
	defer srv.Close()

	p := testPipeline(t)
	templateURL, err := model.ParseURL(srv.URL + "/missing.tex")
	require.NoError(t, err)

	// A 404 body ("404 page not found") is valid template text, so preview
	// succeeds with that text rather than failing - the fetcher treats any
	// 2xx/4xx/5xx response as a normal, followable response body.
	out, err := p.Preview(context.Background(), model.DocumentSpec{TemplateURL: templateURL})
	require.NoError(t, err)
	assert.Contains(t, out, "404")
}

func TestPreviewPropagatesExpansionErrors(t *testing.T) {
	srv := testutil.NewFixtureServer(map[string][]byte{
		"/template.tex": []byte(`{{.missing}}`),
	})
	defer srv.Close()

	p := testPipeline(t)
	templateURL, err := model.ParseURL(srv.URL + "/template.tex")
	require.NoError(t, err)

	_, err = p.Preview(context.Background(), model.DocumentSpec{TemplateURL: templateURL})
	assert.Error(t, err)
}
