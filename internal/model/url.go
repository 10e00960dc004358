// Package model holds the wire types shared across the render and preview
// pipelines.
package model

import (
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"
)

// URL wraps url.URL so DocumentSpec fields round-trip through JSON while
// guaranteeing, at decode time, that every URL is absolute and parseable.
type URL struct {
	*url.URL
}

// ParseURL parses s into a URL, requiring an absolute form (scheme + host).
func ParseURL(s string) (URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return URL{}, errors.Wrap(err, "invalid URL")
	}
	if !u.IsAbs() {
		return URL{}, errors.Errorf("URL is not absolute: %q", s)
	}
	return URL{u}, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *URL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "URL is not a JSON string")
	}
	parsed, err := ParseURL(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (u URL) MarshalJSON() ([]byte, error) {
	if u.URL == nil {
		return json.Marshal("")
	}
	return json.Marshal(u.String())
}
