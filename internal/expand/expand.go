// Package expand implements the template expander (C5 in SPEC_FULL.md): a
// pure function from (template string, variable tree) to typesetter
// source. It uses text/template with Masterminds/sprig's function map for
// the "filters" the spec's curly-brace templating language calls for
// (sprig is already in the teacher's go.mod, unwired in the retrieved
// pack's code).
package expand

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/cs3org/papers/internal/latex"
	"github.com/cs3org/papers/internal/perr"
)

// Expand applies variables to tmpl, producing typesetter source. When
// noEscapeLatex is false, every string leaf of variables is LaTeX-escaped
// before expansion (spec.md §4.5).
func Expand(tmpl string, variables map[string]interface{}, noEscapeLatex bool) (string, error) {
	vars := interface{}(variables)
	if !noEscapeLatex {
		vars = latex.EscapeTree(variables)
	}

	t, err := template.New("document").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", perr.ExpansionFailed{Cause: err}
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", perr.ExpansionFailed{Cause: err}
	}
	return buf.String(), nil
}
