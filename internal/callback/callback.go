// Package callback implements the callback reporter (C8 in
// SPEC_FULL.md): posts the job's outcome to the caller-supplied callback
// URL as multipart/form-data. No library in the retrieved corpus builds
// client-side multipart bodies (the teacher only parses them, server-side,
// in internal/http/services/archiver and ocdav upload handlers), so this
// uses the standard library's mime/multipart.Writer directly — see
// DESIGN.md for that justification.
package callback

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/cs3org/papers/internal/perr"
)

// Reporter posts success/failure outcomes to a job's callback URL.
// Network failures and non-2xx responses are logged and swallowed
// (spec.md §4.8): callbacks are fire-and-forget from the pipeline's
// perspective.
type Reporter struct {
	HTTPClient *http.Client
}

// New builds a Reporter using client for outbound requests.
func New(client *http.Client) *Reporter {
	return &Reporter{HTTPClient: client}
}

// ReportSuccess posts the presigned URL and key prefix to callbackURL.
func (r *Reporter) ReportSuccess(ctx context.Context, log zerolog.Logger, callbackURL, keyPrefix, presignedURL string) {
	body, contentType, err := multipartBody(map[string]string{
		"file":       presignedURL,
		"key_prefix": keyPrefix,
	})
	if err != nil {
		log.Error().Err(err).Msg("error building success callback body")
		return
	}
	r.post(ctx, log, callbackURL, contentType, body)
}

// ReportFailure posts the stringified cause to callbackURL.
func (r *Reporter) ReportFailure(ctx context.Context, log zerolog.Logger, callbackURL string, cause error) {
	body, contentType, err := multipartBody(map[string]string{
		"error": cause.Error(),
	})
	if err != nil {
		log.Error().Err(err).Msg("error building failure callback body")
		return
	}
	r.post(ctx, log, callbackURL, contentType, body)
}

func (r *Reporter) post(ctx context.Context, log zerolog.Logger, callbackURL, contentType string, body *bytes.Buffer) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, body)
	if err != nil {
		log.Error().Err(perr.CallbackFailed{URL: callbackURL, Cause: err}).Msg("error building callback request")
		return
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		log.Error().Err(perr.CallbackFailed{URL: callbackURL, Cause: err}).Msg("callback request failed")
		return
	}
	defer resp.Body.Close()

	log.Debug().Str("callback_url", callbackURL).Int("status", resp.StatusCode).Msg("callback delivered")
}

func multipartBody(fields map[string]string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
