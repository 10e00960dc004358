// Command papers-localserver tests a template locally without any of the
// network plumbing: it reads template.tex.tmpl and variables.json from the
// current directory, expands the template, writes rendered.tex, and
// invokes xelatex against it, printing its stdout. Adapted from
// original_source/src/local_server.rs, which does the same thing for the
// Tera-templated Rust implementation this service replaces.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/cs3org/papers/internal/expand"
	"github.com/cs3org/papers/internal/perr"
	"github.com/cs3org/papers/internal/typeset"
)

func main() {
	os.Exit(run())
}

func run() int {
	variables, err := readVariables("variables.json")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error reading variables.json:", err)
		return 1
	}

	templateBytes, err := os.ReadFile("template.tex.tmpl")
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not open template.tex.tmpl:", err)
		return 1
	}

	rendered, err := expand.Expand(string(templateBytes), variables, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to render the template:", err)
		return 1
	}

	if err := os.WriteFile("rendered.tex", []byte(rendered), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "could not create rendered.tex:", err)
		return 1
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not resolve working directory:", err)
		return 1
	}

	stdout, err := typeset.Run(context.Background(), cwd, "rendered.tex")
	if err != nil {
		// xelatex's own output is worth printing even on failure. The
		// command then exits with status 1, not with xelatex's own exit
		// code.
		var typesetErr perr.TypesetFailed
		if errors.As(err, &typesetErr) {
			fmt.Println(typesetErr.Stdout)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	fmt.Println(stdout)
	return 0
}

func readVariables(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, err
	}
	var variables map[string]interface{}
	if err := json.Unmarshal(data, &variables); err != nil {
		return nil, err
	}
	return variables, nil
}
