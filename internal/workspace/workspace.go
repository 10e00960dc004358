// Package workspace implements the per-job scratch directory (C3 in
// SPEC_FULL.md): created before any file is written, owned exclusively by
// one job, and guaranteed to be removed recursively exactly once.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/cs3org/papers/internal/perr"
)

// Workspace is a unique scratch directory whose lifetime bounds all
// per-job filesystem use. The zero value is not usable; build one with
// New. No future that reads from or writes to the workspace may outlive
// it — the pipeline enforces this by keeping the Workspace alive until
// the tarball upload (spec.md §4.9 step 10) completes.
type Workspace struct {
	Path string

	once sync.Once
}

// New creates a fresh, uniquely named directory under the system temp
// area for jobID.
func New(jobID string) (*Workspace, error) {
	name := fmt.Sprintf("papers-%d-%s", os.Getpid(), jobID)
	dir := filepath.Join(os.TempDir(), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, perr.FilesystemFailed{Context: "error creating workspace", Cause: err}
	}
	return &Workspace{Path: dir}, nil
}

// NewJobID mints a key-prefix-friendly unique identifier (google/uuid,
// replacing the original Rust implementation's ad hoc s3_dir_name() helper visible in
// original_source/src/renderer.rs).
func NewJobID() string {
	return uuid.NewString()
}

// Join joins name onto the workspace path.
func (w *Workspace) Join(name string) string {
	return filepath.Join(w.Path, name)
}

// Close deletes the workspace directory tree. Safe to call more than
// once; only the first call has effect.
func (w *Workspace) Close() error {
	var err error
	w.once.Do(func() {
		err = os.RemoveAll(w.Path)
	})
	if err != nil {
		return perr.FilesystemFailed{Context: "error removing workspace", Cause: err}
	}
	return nil
}
