package pipeline

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cs3org/papers/internal/fetch"
	"github.com/cs3org/papers/internal/model"
	"github.com/cs3org/papers/internal/perr"
	"github.com/cs3org/papers/internal/workspace"
)

// downloadAssets fetches every asset URL concurrently, writing each to the
// workspace under its resolved filename (spec.md §4.6). The body is always
// read under max_asset_size regardless of whether a filename resolves —
// original_source/src/renderer.rs's download_assets enforces the size
// limit unconditionally and only skips the *write* when no filename can be
// resolved. Filename resolution tries, in order: the Content-Disposition
// attachment hint, then the final path segment of the URL, then gives up
// and discards the asset (already fetched and size-checked) without
// failing the job. The first hard failure (fetch error, redirect failure,
// body too large) cancels every other in-flight download via the shared
// errgroup context, mirroring the fan-out/fail-fast pattern the teacher
// applies to multi-target operations with golang.org/x/sync/errgroup
// (internal/grpc/services/datatx's client fan-out, absent from this
// retrieved pack but present in the teacher's go.mod as golang.org/x/sync).
func (p *Pipeline) downloadAssets(ctx context.Context, log zerolog.Logger, ws *workspace.Workspace, assetURLs []model.URL) error {
	if len(assetURLs) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, assetURL := range assetURLs {
		assetURL := assetURL
		g.Go(func() error {
			return p.downloadAsset(gctx, log, ws, assetURL)
		})
	}
	return g.Wait()
}

func (p *Pipeline) downloadAsset(ctx context.Context, log zerolog.Logger, ws *workspace.Workspace, assetURL model.URL) error {
	resp, err := p.Fetcher.GetFollowRedirect(ctx, assetURL.URL)
	if err != nil {
		return err
	}

	// Filename resolution only decides whether the body gets written; it
	// never decides whether the body gets read. A filename-less asset
	// still has its body pulled through BodyBytesWithLimit below, so it
	// counts against max_asset_size instead of bypassing the limit by
	// being discarded before the read.
	filename, ok := fetch.FilenameHint(resp)
	if !ok {
		filename, ok = fetch.FilenameFromURL(assetURL.URL)
	}

	body, err := fetch.BodyBytesWithLimit(resp, assetURL.String(), p.Config.MaxAssetSize)
	if err != nil {
		return err
	}

	if !ok {
		log.Debug().Str("url", assetURL.String()).Msg("asset has no resolvable filename, discarding")
		return nil
	}

	if err := os.WriteFile(ws.Join(filename), body, 0o666); err != nil {
		return perr.FilesystemFailed{Context: "error writing asset", Cause: err}
	}
	log.Debug().Str("url", assetURL.String()).Str("filename", filename).Msg("asset downloaded")
	return nil
}
