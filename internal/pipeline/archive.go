package pipeline

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/cs3org/papers/internal/perr"
	"github.com/cs3org/papers/internal/workspace"
)

// createTar walks dir and writes every file and directory it contains into
// a tar stream at dst, with entry names relative to dir. Adapted from the
// teacher's internal/http/services/archiver/manager.Archiver.CreateTar,
// which walks CS3 storage resources through a walker.Walker and downloads
// each through a downloader.Downloader; a finished job's workspace is a
// local directory tree, so that walk is replaced with filepath.WalkDir and
// the download with a direct os.Open.
func createTar(dst io.Writer, dir string, exclude string) error {
	w := tar.NewWriter(dst)

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir || path == exclude {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		name, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = name

		if err := w.WriteHeader(header); err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := io.Copy(w, f); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return w.Close()
}

// archiveWorkspace tars the job's workspace and uploads it under
// "<jobID>/workspace.tar" unconditionally, regardless of whether the
// render itself succeeded (spec.md §4.9 step 10: "Whatever happens above,
// the workspace directory is archived as a tarball and uploaded"). Tar and
// upload failures are never propagated to the caller: the tarball is a
// best-effort debugging aid, not part of the job's externally-visible
// outcome. Whichever of the two steps fails is reported through a single
// perr.Join'd error rather than two independent log lines, so a reader of
// the per-job log sees one entry for "the archive step didn't work" with
// every contributing cause attached.
func (p *Pipeline) archiveWorkspace(ctx context.Context, log zerolog.Logger, ws *workspace.Workspace, jobID string) {
	tarPath := ws.Join("workspace.tar")

	var errs []error

	if err := writeTarFile(tarPath, ws.Path, tarPath); err != nil {
		errs = append(errs, err)
	} else {
		key := jobID + "/workspace.tar"
		if err := p.Pool.Run(ctx, func() error {
			return p.Store.Put(ctx, key, tarPath)
		}); err != nil {
			errs = append(errs, err)
		} else {
			log.Debug().Str("key", key).Msg("workspace archive uploaded")
		}
	}

	if len(errs) > 0 {
		log.Error().Err(perr.Join(errs...)).Msg("error archiving workspace")
	}
}

func writeTarFile(tarPath, dir, exclude string) error {
	f, err := os.Create(tarPath)
	if err != nil {
		return perr.FilesystemFailed{Context: "error creating workspace archive", Cause: err}
	}
	defer f.Close()

	if err := createTar(f, dir, exclude); err != nil {
		return perr.FilesystemFailed{Context: "error writing workspace archive", Cause: err}
	}
	return nil
}
