// Package pipeline composes the HTTP fetcher, template expander, asset
// downloader, typesetter runner, object-store client and callback
// reporter into the end-to-end render and preview jobs (C9 and C10 in
// SPEC_FULL.md).
package pipeline

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/cs3org/papers/internal/callback"
	"github.com/cs3org/papers/internal/config"
	"github.com/cs3org/papers/internal/expand"
	"github.com/cs3org/papers/internal/fetch"
	"github.com/cs3org/papers/internal/joblog"
	rootlog "github.com/cs3org/papers/internal/log"
	"github.com/cs3org/papers/internal/model"
	"github.com/cs3org/papers/internal/objstore"
	"github.com/cs3org/papers/internal/perr"
	"github.com/cs3org/papers/internal/typeset"
	"github.com/cs3org/papers/internal/workerpool"
	"github.com/cs3org/papers/internal/workspace"
)

// ObjectStore is the subset of objstore.Client the pipeline depends on,
// narrowed so internal/testutil can substitute a fake for it in tests.
type ObjectStore interface {
	Put(ctx context.Context, key, path string) error
	Presign(ctx context.Context, key string, ttl time.Duration) (*url.URL, error)
}

// Typesetter is the subset of typeset.Run the pipeline depends on,
// narrowed so tests can stand in a stub rather than require a real
// xelatex binary on the test machine.
type Typesetter interface {
	Run(ctx context.Context, workspaceDir, texPath string) (string, error)
}

type typesetterFunc func(ctx context.Context, workspaceDir, texPath string) (string, error)

func (f typesetterFunc) Run(ctx context.Context, workspaceDir, texPath string) (string, error) {
	return f(ctx, workspaceDir, texPath)
}

// Pipeline holds the process-wide, immutable-after-init collaborators
// every job is built from (spec.md §5's "Shared resources").
type Pipeline struct {
	Config     *config.Config
	Root       rootlog.Root
	Fetcher    *fetch.Client
	Store      ObjectStore
	Typesetter Typesetter
	Reporter   *callback.Reporter
	Pool       *workerpool.Pool
}

// New builds a Pipeline from its collaborators.
func New(cfg *config.Config, root rootlog.Root, store *objstore.Client) *Pipeline {
	return &Pipeline{
		Config:     cfg,
		Root:       root,
		Fetcher:    fetch.New(cfg.RedirectHopLimit),
		Store:      store,
		Typesetter: typesetterFunc(typeset.Run),
		Reporter:   callback.New(&http.Client{Timeout: cfg.CallbackTimeout}),
		Pool:       workerpool.New(cfg.WorkerPoolSize),
	}
}

// Preview fetches and expands the template, returning the expanded
// string. No workspace, typesetter, asset downloads, callbacks or uploads
// are involved (spec.md §4.10).
func (p *Pipeline) Preview(ctx context.Context, spec model.DocumentSpec) (string, error) {
	tmpl, err := p.fetchTemplate(ctx, spec.TemplateURL)
	if err != nil {
		return "", err
	}
	return expand.Expand(tmpl, spec.Variables, spec.NoEscapeLatex)
}

func (p *Pipeline) fetchTemplate(ctx context.Context, templateURL model.URL) (string, error) {
	resp, err := p.Fetcher.GetFollowRedirect(ctx, templateURL.URL)
	if err != nil {
		return "", err
	}
	body, err := fetch.BodyBytesWithLimit(resp, templateURL.String(), p.Config.MaxAssetSize)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Render runs the full job to completion: fetch+expand the template,
// download assets, typeset, upload the PDF, presign it, report success or
// failure to the callback URL, then tar and upload the workspace
// regardless of outcome (spec.md §4.9). Once the workspace and per-job
// logger exist, it returns only after the tarball step settles, and the
// returned error reflects whether the job's callback was a success (nil)
// or failure (non-nil) — detailed outcomes live in the callback and the
// per-job log. If creating the workspace or the per-job logger fails, it
// returns that error at once, with no callback and no tarball.
func (p *Pipeline) Render(ctx context.Context, spec model.DocumentSpec) error {
	jobID := workspace.NewJobID()

	ws, err := workspace.New(jobID)
	if err != nil {
		// No workspace means no safe place to log to, and the spec
		// forbids a callback in this case (spec.md §4.9 step 1).
		p.Root.Logger.Error().Err(err).Str("job_id", jobID).Msg("error creating workspace")
		return err
	}

	log, logFile, err := joblog.New(p.Root, ws.Path, jobID)
	if err != nil {
		p.Root.Logger.Error().Err(err).Str("job_id", jobID).Msg("error creating per-job logger")
		_ = ws.Close()
		return err
	}
	defer logFile.Close()

	log.Debug().Interface("document_spec", spec).Msg("starting render job")

	renderErr := p.renderSteps(ctx, log, ws, jobID, spec)

	if renderErr != nil {
		log.Error().Err(renderErr).Msg("render failed, reporting failure callback")
		p.Reporter.ReportFailure(ctx, log, spec.CallbackURL.String(), renderErr)
	}

	p.archiveWorkspace(ctx, log, ws, jobID)

	if err := ws.Close(); err != nil {
		log.Error().Err(err).Msg("error removing workspace")
	}

	return renderErr
}

// renderSteps runs steps 3-9 of spec.md §4.9: write the template, download
// assets, typeset, upload, presign, and report success.
func (p *Pipeline) renderSteps(ctx context.Context, log zerolog.Logger, ws *workspace.Workspace, jobID string, spec model.DocumentSpec) error {
	templatePath := ws.Join(spec.TexFilename())

	tmpl, err := p.fetchTemplate(ctx, spec.TemplateURL)
	if err != nil {
		return err
	}
	log.Debug().Msg("successfully downloaded the template")

	rendered, err := expand.Expand(tmpl, spec.Variables, spec.NoEscapeLatex)
	if err != nil {
		return err
	}

	if err := writeFile(templatePath, rendered); err != nil {
		return err
	}
	log.Debug().Str("path", templatePath).Msg("template written")

	if err := p.downloadAssets(ctx, log, ws, spec.AssetsURLs); err != nil {
		return err
	}

	log.Debug().Str("template_path", templatePath).Msg("spawning xelatex")
	stdout, err := p.Typesetter.Run(ctx, ws.Path, templatePath)
	if err != nil {
		return err
	}
	log.Debug().Str("stdout", stdout).Msg("typesetting succeeded")

	pdfPath := ws.Join(spec.OutputFilename)
	pdfKey := jobID + "/" + spec.OutputFilename
	if err := p.Pool.Run(ctx, func() error {
		log.Debug().Str("key", pdfKey).Msg("uploading rendered pdf")
		return p.Store.Put(ctx, pdfKey, pdfPath)
	}); err != nil {
		return err
	}

	presignedURL, err := p.Store.Presign(ctx, pdfKey, p.Config.PresignTTL)
	if err != nil {
		return err
	}

	log.Debug().Str("presigned_url", presignedURL.String()).Msg("reporting success callback")
	p.Reporter.ReportSuccess(ctx, log, spec.CallbackURL.String(), jobID, presignedURL.String())
	return nil
}

func writeFile(path, contents string) error {
	f, err := os.Create(path)
	if err != nil {
		return perr.FilesystemFailed{Context: "error writing template", Cause: err}
	}
	defer f.Close()
	if _, err := f.WriteString(contents); err != nil {
		return perr.FilesystemFailed{Context: "error writing template", Cause: err}
	}
	return nil
}
