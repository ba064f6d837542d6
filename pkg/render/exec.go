package render

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/matzehuels/flowbench/pkg/errors"
)

// runTool runs an external program with stdin and returns its stdout.
// A missing binary is RENDERER_UNAVAILABLE; a non-zero exit is
// RENDER_FAILED carrying the first line of stderr.
func runTool(ctx context.Context, name string, stdin []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRendererUnavailable, err, "%s not found in PATH", name)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s: %s", name, firstLine(errBuf.String()))
	}
	return out.Bytes(), nil
}

// lookTool returns the first of names found in PATH.
func lookTool(names ...string) (string, error) {
	for _, n := range names {
		if p, err := exec.LookPath(n); err == nil {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeRendererUnavailable, "none of %s found in PATH", strings.Join(names, ", "))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
