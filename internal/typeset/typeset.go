// Package typeset implements the typesetter runner (C7 in SPEC_FULL.md):
// invokes xelatex against a workspace and captures its combined stdout.
package typeset

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/cs3org/papers/internal/perr"
)

// binary is a var, not a const, so tests can point it at a stub executable
// without touching the real typesetting path.
var binary = "xelatex"

// Run invokes xelatex against texPath with cwd set to workspaceDir,
// exactly the arguments and flags spec.md §4.7 and §6 specify: no more,
// no less. On exit-zero it returns the captured stdout; on non-zero exit
// it returns TypesetFailed carrying that stdout verbatim.
func Run(ctx context.Context, workspaceDir, texPath string) (string, error) {
	cmd := exec.CommandContext(ctx, binary,
		"-interaction=nonstopmode",
		"-file-line-error",
		"-shell-restricted",
		texPath,
	)
	cmd.Dir = workspaceDir

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	// stderr is not captured separately; xelatex writes errors into
	// stdout by convention (spec.md §4.7).

	err := cmd.Run()
	out := stdout.String()
	if err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			return "", perr.TypesetFailed{Stdout: out}
		}
		return "", perr.FilesystemFailed{Context: "error spawning " + binary, Cause: err}
	}
	return out, nil
}
