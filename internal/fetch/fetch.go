// Package fetch implements the HTTP fetcher (C1 in SPEC_FULL.md): GETs
// with explicit 307/308 redirect handling and bounded body reads.
//
// net/http's default client already follows 307/308 for GET requests, but
// it does so without a way to observe or cap the chain the way spec.md §4.1
// requires (a finite hop limit, and a precise RedirectInvalid error when a
// redirect response carries no Location header). This package therefore
// disables the standard library's automatic redirect handling and drives
// the loop itself.
package fetch

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/cs3org/papers/internal/perr"
)

// Client fetches resources, following 307/308 redirects up to a fixed hop
// limit.
type Client struct {
	HTTPClient *http.Client
	HopLimit   int
}

// New builds a Client with sane defaults, refusing to follow redirects
// automatically so GetFollowRedirect can apply spec.md's policy itself.
func New(hopLimit int) *Client {
	base := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	if hopLimit <= 0 {
		hopLimit = 10
	}
	return &Client{HTTPClient: base, HopLimit: hopLimit}
}

// GetFollowRedirect issues a GET against u, following 307/308 redirects
// (and only those — other 3xx status codes are returned to the caller
// unfollowed, per spec.md §4.1) up to the client's hop limit.
func (c *Client) GetFollowRedirect(ctx context.Context, u *url.URL) (*http.Response, error) {
	current := u
	for hop := 0; ; hop++ {
		if hop > c.HopLimit {
			return nil, perr.RedirectInvalid("exceeded " + strconv.Itoa(c.HopLimit) + " redirect hops fetching " + u.String())
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current.String(), nil)
		if err != nil {
			return nil, perr.FetchFailed{URL: current.String(), Cause: err}
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, perr.FetchFailed{URL: current.String(), Cause: err}
		}

		switch resp.StatusCode {
		case http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
			loc := resp.Header.Get("Location")
			resp.Body.Close()
			if loc == "" {
				return nil, perr.RedirectInvalid("redirect from " + current.String() + " has no Location header")
			}
			next, err := current.Parse(loc)
			if err != nil {
				return nil, perr.RedirectInvalid("redirect from " + current.String() + " has unparseable Location: " + loc)
			}
			current = next
			continue
		default:
			return resp, nil
		}
	}
}

// BodyBytesWithLimit reads resp's body into memory, failing with
// BodyTooLarge if the accumulated size exceeds max at any point. The
// reader is capped at max+1 bytes so the over-limit case is detected
// without unbounded buffering (spec.md §5's bounded-memory guarantee).
func BodyBytesWithLimit(resp *http.Response, sourceURL string, max int64) ([]byte, error) {
	defer resp.Body.Close()
	limited := io.LimitReader(resp.Body, max+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, perr.FetchFailed{URL: sourceURL, Cause: err}
	}
	if int64(len(data)) > max {
		return nil, perr.BodyTooLarge{URL: sourceURL, Limit: max}
	}
	return data, nil
}

// FilenameHint inspects resp's Content-Disposition header, returning the
// filename parameter when the disposition is "attachment", per spec.md §4.1.
func FilenameHint(resp *http.Response) (string, bool) {
	cd := resp.Header.Get("Content-Disposition")
	if cd == "" {
		return "", false
	}
	disposition, params, err := mime.ParseMediaType(cd)
	if err != nil || !strings.EqualFold(disposition, "attachment") {
		return "", false
	}
	filename, ok := params["filename"]
	if !ok || filename == "" {
		return "", false
	}
	return filename, true
}

// FilenameFromURL returns the final path segment of u, or false if there
// is none (e.g. the path is empty or ends in "/").
func FilenameFromURL(u *url.URL) (string, bool) {
	base := path.Base(u.Path)
	if base == "" || base == "." || base == "/" {
		return "", false
	}
	return base, true
}
