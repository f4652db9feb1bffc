package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrUnsupportedFormat is returned for output formats outside Formats
var ErrUnsupportedFormat = errors.New("unsupported render format")

// Formats maps the accepted output formats to their MIME types
var Formats = map[string]string{
	"svg": "image/svg+xml",
	"png": "image/png",
	"pdf": "application/pdf",
}

// Renderer turns DOT source into an image
type Renderer interface {
	Render(ctx context.Context, dot []byte, format string) ([]byte, error)
}

// GraphvizRenderer renders by running the Graphviz dot command
type GraphvizRenderer struct {
	Command string // defaults to "dot"
}

// NewRenderer creates a renderer that runs dot from PATH
func NewRenderer() Renderer {
	return &GraphvizRenderer{Command: "dot"}
}

// Available reports whether the dot command can be found
func (r *GraphvizRenderer) Available() bool {
	_, err := exec.LookPath(r.command())
	return err == nil
}

// Render feeds dot to the command on stdin and returns its output.
// It respects the provided context for cancellation.
func (r *GraphvizRenderer) Render(ctx context.Context, dot []byte, format string) ([]byte, error) {
	if _, ok := Formats[format]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	cmd := exec.CommandContext(ctx, r.command(), "-T"+format)
	cmd.Stdin = bytes.NewReader(dot)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s -T%s failed: %w\nOutput: %s", r.command(), format, err, stderr.String())
	}
	return output, nil
}

func (r *GraphvizRenderer) command() string {
	if r.Command == "" {
		return "dot"
	}
	return r.Command
}
