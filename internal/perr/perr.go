// Package perr defines the error taxonomy of the render pipeline (spec.md
// §7): one lightweight type per semantic kind, following the convention of
// the teacher's pkg/errtypes — a string-based error type plus an `Is*()`
// marker method callers can type-switch or errors.As on.
package perr

import "fmt"

// InvalidSpec is raised when a request's DocumentSpec is malformed.
type InvalidSpec string

func (e InvalidSpec) Error() string { return "invalid document spec: " + string(e) }
func (e InvalidSpec) IsInvalidSpec() {}

// FetchFailed is raised on a network/HTTP error fetching the template or an asset.
type FetchFailed struct {
	URL   string
	Cause error
}

func (e FetchFailed) Error() string {
	return fmt.Sprintf("fetch failed for %s: %s", e.URL, e.Cause)
}
func (e FetchFailed) Unwrap() error { return e.Cause }
func (e FetchFailed) IsFetchFailed() {}

// RedirectInvalid is raised when a 3xx response carries no usable Location
// header, or when the redirect chain exceeds the configured hop limit.
type RedirectInvalid string

func (e RedirectInvalid) Error() string { return "invalid redirect: " + string(e) }
func (e RedirectInvalid) IsRedirectInvalid() {}

// BodyTooLarge is raised when a response body exceeds max_asset_size.
type BodyTooLarge struct {
	URL   string
	Limit int64
}

func (e BodyTooLarge) Error() string {
	return fmt.Sprintf("body of %s exceeds the %d byte limit", e.URL, e.Limit)
}
func (e BodyTooLarge) IsBodyTooLarge() {}

// ExpansionFailed is raised on a template expansion error.
type ExpansionFailed struct {
	Cause error
}

func (e ExpansionFailed) Error() string { return "template expansion failed: " + e.Cause.Error() }
func (e ExpansionFailed) Unwrap() error { return e.Cause }
func (e ExpansionFailed) IsExpansionFailed() {}

// FilesystemFailed is raised on workspace create, file write, or tar failure.
type FilesystemFailed struct {
	Context string
	Cause   error
}

func (e FilesystemFailed) Error() string { return e.Context + ": " + e.Cause.Error() }
func (e FilesystemFailed) Unwrap() error { return e.Cause }
func (e FilesystemFailed) IsFilesystemFailed() {}

// TypesetFailed is raised when the typesetter exits non-zero. Stdout is
// carried verbatim, per spec.md §4.7.
type TypesetFailed struct {
	Stdout string
}

func (e TypesetFailed) Error() string { return "typesetting failed:\n" + e.Stdout }
func (e TypesetFailed) IsTypesetFailed() {}

// UploadFailed is raised when an object-store put or presign fails.
type UploadFailed struct {
	Key   string
	Cause error
}

func (e UploadFailed) Error() string { return fmt.Sprintf("upload of %s failed: %s", e.Key, e.Cause) }
func (e UploadFailed) Unwrap() error { return e.Cause }
func (e UploadFailed) IsUploadFailed() {}

// CallbackFailed is raised when the callback POST itself fails. Per
// spec.md §7, callers log and swallow this; it is never propagated past
// the callback reporter.
type CallbackFailed struct {
	URL   string
	Cause error
}

func (e CallbackFailed) Error() string {
	return fmt.Sprintf("callback to %s failed: %s", e.URL, e.Cause)
}
func (e CallbackFailed) Unwrap() error { return e.Cause }
func (e CallbackFailed) IsCallbackFailed() {}

// Join mirrors the teacher's pkg/errtypes.Join: a comma-separated
// aggregate used by internal/pipeline/archive.go's archiveWorkspace to
// report the tar-write and upload failures of spec.md §4.9 step 10 as a
// single error, not by the fail-fast asset downloader.
func Join(errs ...error) error {
	return joinErrors(errs)
}

type joinErrors []error

func (e joinErrors) Error() string {
	s := ""
	for i, err := range e {
		if i > 0 {
			s += ", "
		}
		s += err.Error()
	}
	return s
}
