package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec(t *testing.T) DocumentSpec {
	t.Helper()
	tmpl, err := ParseURL("https://example.test/template.tex")
	require.NoError(t, err)
	cb, err := ParseURL("https://example.test/callback")
	require.NoError(t, err)
	return DocumentSpec{
		TemplateURL:    tmpl,
		CallbackURL:    cb,
		OutputFilename: "report.pdf",
	}
}

func TestDocumentSpecValidate(t *testing.T) {
	t.Run("valid spec passes", func(t *testing.T) {
		assert.NoError(t, validSpec(t).Validate())
	})

	t.Run("empty output filename rejected", func(t *testing.T) {
		spec := validSpec(t)
		spec.OutputFilename = ""
		assert.Error(t, spec.Validate())
	})

	t.Run("path separator rejected", func(t *testing.T) {
		spec := validSpec(t)
		spec.OutputFilename = "../escape.pdf"
		assert.Error(t, spec.Validate())
	})

	t.Run("backslash rejected", func(t *testing.T) {
		spec := validSpec(t)
		spec.OutputFilename = `sub\report.pdf`
		assert.Error(t, spec.Validate())
	})

	t.Run("non-pdf suffix rejected", func(t *testing.T) {
		spec := validSpec(t)
		spec.OutputFilename = "report.txt"
		assert.Error(t, spec.Validate())
	})

	t.Run("missing template url rejected", func(t *testing.T) {
		spec := validSpec(t)
		spec.TemplateURL = URL{}
		assert.Error(t, spec.Validate())
	})

	t.Run("missing callback url rejected", func(t *testing.T) {
		spec := validSpec(t)
		spec.CallbackURL = URL{}
		assert.Error(t, spec.Validate())
	})
}

func TestDocumentSpecTexFilename(t *testing.T) {
	spec := validSpec(t)
	spec.OutputFilename = "report.pdf"
	assert.Equal(t, "report.tex", spec.TexFilename())
}
