// Package latex escapes user-supplied strings for safe inclusion in a
// LaTeX document. This is domain logic specific to the typesetter this
// service targets; no library in the retrieved corpus performs LaTeX
// escaping (see DESIGN.md), so it is hand-rolled, grounded on
// original_source's local_server.rs which calls
// `latex::escape_latex(variables)` before template expansion whenever
// no_escape_latex is false.
package latex

import "strings"

// replacer maps each character LaTeX treats specially to its escaped form.
// strings.Replacer substitutes in a single pass over the input, so the
// backslashes and braces it inserts are never escaped a second time.
var replacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeString escapes a single string for LaTeX consumption.
func EscapeString(s string) string {
	return replacer.Replace(s)
}

// EscapeTree walks a JSON-decoded variable tree (maps, slices, strings,
// numbers, booleans, nil) and returns a deep copy with every string leaf
// LaTeX-escaped. Non-string leaves pass through unchanged.
func EscapeTree(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return EscapeString(t)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = EscapeTree(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = EscapeTree(val)
		}
		return out
	default:
		return v
	}
}
