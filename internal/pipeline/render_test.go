package pipeline

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs3org/papers/internal/callback"
	"github.com/cs3org/papers/internal/config"
	"github.com/cs3org/papers/internal/fetch"
	rootlog "github.com/cs3org/papers/internal/log"
	"github.com/cs3org/papers/internal/model"
	"github.com/cs3org/papers/internal/perr"
	"github.com/cs3org/papers/internal/testutil"
	"github.com/cs3org/papers/internal/workerpool"
)

// fakeTypesetter implements Typesetter with a test-supplied function, so
// Render's end-to-end tests never need a real xelatex binary.
type fakeTypesetter func(ctx context.Context, workspaceDir, texPath string) (string, error)

func (f fakeTypesetter) Run(ctx context.Context, workspaceDir, texPath string) (string, error) {
	return f(ctx, workspaceDir, texPath)
}

// renderTestPipeline builds a Pipeline whose every collaborator is a test
// double: a FakeObjectStore in place of internal/objstore, a Typesetter
// stub in place of a real xelatex invocation, and a Reporter that posts to
// a caller-supplied httptest server instead of a live callback endpoint.
func renderTestPipeline(t *testing.T, store *testutil.FakeObjectStore, ts Typesetter) *Pipeline {
	t.Helper()
	cfg := &config.Config{
		MaxAssetSize:     1 << 20,
		RedirectHopLimit: 10,
		PresignTTL:       0,
	}
	var logBuf bytes.Buffer
	return &Pipeline{
		Config:     cfg,
		Root:       rootlog.Root{Logger: zerolog.Nop(), Writer: &logBuf, Level: zerolog.InfoLevel},
		Fetcher:    fetch.New(cfg.RedirectHopLimit),
		Store:      store,
		Typesetter: ts,
		Reporter:   callback.New(&http.Client{}),
		Pool:       workerpool.New(2),
	}
}

// pdfWritingTypesetter emulates xelatex's side effect of leaving the
// output PDF behind in the workspace on success.
func pdfWritingTypesetter(outputFilename string) fakeTypesetter {
	return func(ctx context.Context, workspaceDir, texPath string) (string, error) {
		path := filepath.Join(workspaceDir, outputFilename)
		if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644); err != nil {
			return "", err
		}
		return "xelatex output", nil
	}
}

func TestRenderHappyPathUploadsPdfTarballAndReportsSuccess(t *testing.T) {
	srv := testutil.NewFixtureServer(map[string][]byte{
		"/template.tex": []byte(`Hello, {{.name}}!`),
		"/logo.png":     []byte("logo-bytes"),
	})
	defer srv.Close()
	callbackSrv := testutil.NewFixtureServer(map[string][]byte{"/callback": []byte("ok")})
	defer callbackSrv.Close()

	store := testutil.NewFakeObjectStore("http://fake-store.test/")
	p := renderTestPipeline(t, store, pdfWritingTypesetter("out.pdf"))

	templateURL, err := model.ParseURL(srv.URL + "/template.tex")
	require.NoError(t, err)
	logoURL, err := model.ParseURL(srv.URL + "/logo.png")
	require.NoError(t, err)
	callbackURL, err := model.ParseURL(callbackSrv.URL + "/callback")
	require.NoError(t, err)

	spec := model.DocumentSpec{
		TemplateURL:    templateURL,
		AssetsURLs:     []model.URL{logoURL},
		Variables:      map[string]interface{}{"name": "World"},
		OutputFilename: "out.pdf",
		CallbackURL:    callbackURL,
	}

	err = p.Render(context.Background(), spec)
	require.NoError(t, err)

	bodies := callbackSrv.RequestBodies()
	require.Len(t, bodies, 1, "exactly one callback must be posted on success")
	assert.Contains(t, string(bodies[0]), `name="file"`)
	assert.Contains(t, string(bodies[0]), "fake-store.test")

	keys := store.Keys()
	var sawPDF, sawTar bool
	for _, k := range keys {
		if strings.HasSuffix(k, "/out.pdf") {
			sawPDF = true
		}
		if strings.HasSuffix(k, "/workspace.tar") {
			sawTar = true
		}
	}
	assert.True(t, sawPDF, "rendered pdf must be uploaded")
	assert.True(t, sawTar, "workspace tarball must be uploaded regardless of outcome")
}

func TestRenderTypesetFailureReportsFailureCallbackAndStillArchives(t *testing.T) {
	srv := testutil.NewFixtureServer(map[string][]byte{
		"/template.tex": []byte(`\documentclass{article}`),
	})
	defer srv.Close()
	callbackSrv := testutil.NewFixtureServer(map[string][]byte{"/callback": []byte("ok")})
	defer callbackSrv.Close()

	store := testutil.NewFakeObjectStore("http://fake-store.test/")
	failing := fakeTypesetter(func(ctx context.Context, workspaceDir, texPath string) (string, error) {
		return "", perr.TypesetFailed{Stdout: "! Undefined control sequence"}
	})
	p := renderTestPipeline(t, store, failing)

	templateURL, err := model.ParseURL(srv.URL + "/template.tex")
	require.NoError(t, err)
	callbackURL, err := model.ParseURL(callbackSrv.URL + "/callback")
	require.NoError(t, err)

	spec := model.DocumentSpec{
		TemplateURL:    templateURL,
		OutputFilename: "out.pdf",
		CallbackURL:    callbackURL,
	}

	err = p.Render(context.Background(), spec)
	require.Error(t, err)
	var typesetErr perr.TypesetFailed
	assert.ErrorAs(t, err, &typesetErr)

	bodies := callbackSrv.RequestBodies()
	require.Len(t, bodies, 1, "exactly one callback must be posted on failure")
	assert.Contains(t, string(bodies[0]), `name="error"`)
	assert.Contains(t, string(bodies[0]), "Undefined control sequence")

	var sawTar bool
	for _, k := range store.Keys() {
		if strings.HasSuffix(k, "/workspace.tar") {
			sawTar = true
		}
	}
	assert.True(t, sawTar, "workspace tarball must still be uploaded after a typeset failure")
}

func TestRenderOversizedAssetFailsWithoutInvokingTypesetter(t *testing.T) {
	srv := testutil.NewFixtureServer(map[string][]byte{
		"/template.tex": []byte(`plain`), // within the 8-byte limit set below
		"/huge.bin":     bytes.Repeat([]byte("x"), 64),
	})
	defer srv.Close()
	callbackSrv := testutil.NewFixtureServer(map[string][]byte{"/callback": []byte("ok")})
	defer callbackSrv.Close()

	store := testutil.NewFakeObjectStore("http://fake-store.test/")
	invoked := false
	ts := fakeTypesetter(func(ctx context.Context, workspaceDir, texPath string) (string, error) {
		invoked = true
		return "", nil
	})
	p := renderTestPipeline(t, store, ts)
	p.Config.MaxAssetSize = 8 // smaller than huge.bin's 64 bytes

	templateURL, err := model.ParseURL(srv.URL + "/template.tex")
	require.NoError(t, err)
	assetURL, err := model.ParseURL(srv.URL + "/huge.bin")
	require.NoError(t, err)
	callbackURL, err := model.ParseURL(callbackSrv.URL + "/callback")
	require.NoError(t, err)

	spec := model.DocumentSpec{
		TemplateURL:    templateURL,
		AssetsURLs:     []model.URL{assetURL},
		OutputFilename: "out.pdf",
		CallbackURL:    callbackURL,
	}

	err = p.Render(context.Background(), spec)
	require.Error(t, err)
	var tooLarge perr.BodyTooLarge
	assert.ErrorAs(t, err, &tooLarge)
	assert.False(t, invoked, "typesetting must never run once an asset exceeds max_asset_size")

	bodies := callbackSrv.RequestBodies()
	require.Len(t, bodies, 1)
	assert.Contains(t, string(bodies[0]), `name="error"`)

	var sawTar bool
	for _, k := range store.Keys() {
		if strings.HasSuffix(k, "/workspace.tar") {
			sawTar = true
		}
	}
	assert.True(t, sawTar, "workspace tarball must still be uploaded after an oversized asset failure")
}
