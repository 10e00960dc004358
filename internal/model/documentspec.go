package model

import (
	"strings"

	"github.com/pkg/errors"
)

// DocumentSpec is the JSON request body for both /render and /preview.
type DocumentSpec struct {
	TemplateURL    URL                    `json:"template_url"`
	AssetsURLs     []URL                  `json:"assets_urls"`
	Variables      map[string]interface{} `json:"variables"`
	OutputFilename string                 `json:"output_filename"`
	CallbackURL    URL                    `json:"callback_url"`
	NoEscapeLatex  bool                   `json:"no_escape_latex"`
}

// Validate enforces the invariants spec.md §3 places on a DocumentSpec:
// output_filename is non-empty, contains no path separators, and ends in
// ".pdf". The original Rust source never checked this; REDESIGN FLAGS in
// spec.md §9 calls for rejecting it here instead.
func (d DocumentSpec) Validate() error {
	if d.OutputFilename == "" {
		return errors.New("output_filename must not be empty")
	}
	if strings.ContainsAny(d.OutputFilename, "/\\") {
		return errors.Errorf("output_filename must not contain path separators: %q", d.OutputFilename)
	}
	if !strings.HasSuffix(d.OutputFilename, ".pdf") {
		return errors.Errorf("output_filename must end in .pdf: %q", d.OutputFilename)
	}
	if d.TemplateURL.URL == nil {
		return errors.New("template_url is required")
	}
	if d.CallbackURL.URL == nil {
		return errors.New("callback_url is required")
	}
	return nil
}

// TexFilename returns the output filename with its .pdf extension replaced
// by .tex, used as the typesetter source file name (spec.md §4.9 step 3).
func (d DocumentSpec) TexFilename() string {
	return strings.TrimSuffix(d.OutputFilename, ".pdf") + ".tex"
}
