// Package joblog builds the per-job logger (C4 in SPEC_FULL.md): every
// record is written to both the root logger's sink and
// <workspace>/logs.txt, the latter at debug severity regardless of the
// root's configured level. This generalizes the teacher's log sink
// composition (spec.md §9 calls out "duplicated logger fan-out... a log
// sink composition") into a zerolog.LevelWriter that applies the root's
// level to the root sink and an unconditional debug threshold to the file
// sink, since the teacher's own Duplicate drain (visible only as an
// import in original_source, not in this retrieved pack) has no Go
// equivalent in the corpus to copy from verbatim.
package joblog

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	rootlog "github.com/cs3org/papers/internal/log"
	"github.com/cs3org/papers/internal/perr"
)

// duplexWriter fans every record out to a root sink (gated by rootLevel)
// and a file sink (always written, i.e. at debug severity).
type duplexWriter struct {
	rootWriter io.Writer
	rootLevel  zerolog.Level
	fileWriter io.Writer
}

func (d duplexWriter) Write(p []byte) (int, error) {
	return d.fileWriter.Write(p)
}

func (d duplexWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= d.rootLevel {
		if _, err := d.rootWriter.Write(p); err != nil {
			return 0, err
		}
	}
	return d.fileWriter.Write(p)
}

// New returns a logger that duplicates every record from root onto a file
// at <workspacePath>/logs.txt, tagged with jobID for correlation, plus the
// open file handle (the caller must Close it once the job settles). A
// failure to open the file sink is fatal to the job, per spec.md §4.4.
func New(root rootlog.Root, workspacePath, jobID string) (zerolog.Logger, *os.File, error) {
	path := workspacePath + string(os.PathSeparator) + "logs.txt"
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, perr.FilesystemFailed{Context: "error creating per-job log file", Cause: err}
	}

	w := duplexWriter{rootWriter: root.Writer, rootLevel: root.Level, fileWriter: f}
	logger := zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Str("job_id", jobID).Logger()
	return logger, f, nil
}
