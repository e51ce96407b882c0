package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultCommand invokes mermaid-cli through npx; -y avoids the install prompt.
const DefaultCommand = "npx -y @mermaid-js/mermaid-cli"

var (
	// ErrRendererUnavailable is returned when the renderer executable cannot be found.
	ErrRendererUnavailable = errors.New("renderer unavailable")
	// ErrRenderFailed is returned when the renderer ran and failed.
	ErrRenderFailed = errors.New("render failed")
)

// Renderer turns a diagram source file into an image file.
type Renderer interface {
	Render(ctx context.Context, input, output string) error
}

// Command renders by running an external program with `-i input -o output`
// appended to its arguments.
type Command struct {
	argv []string
}

// NewCommand splits command on whitespace; an empty command selects DefaultCommand.
func NewCommand(command string) *Command {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		argv = strings.Fields(DefaultCommand)
	}
	return &Command{argv: argv}
}

// Argv returns the full argument vector used for one render.
func (c *Command) Argv(input, output string) []string {
	argv := make([]string, 0, len(c.argv)+4)
	argv = append(argv, c.argv...)
	return append(argv, "-i", input, "-o", output)
}

// Render creates the output directory and runs the command. The error
// carries the command's stderr.
func (c *Command) Render(ctx context.Context, input, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}

	argv := c.Argv(input, output)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s: %v", ErrRendererUnavailable, argv[0], err)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s: %v: %s", ErrRenderFailed, output, err, msg)
		}
		return fmt.Errorf("%w: %s: %v", ErrRenderFailed, output, err)
	}
	return nil
}

// Nop skips rendering. It stands in for --no-render.
type Nop struct{}

func (Nop) Render(context.Context, string, string) error { return nil }

// Skips reports whether r produces no image, so callers neither record a
// render nor link an image file.
func Skips(r Renderer) bool {
	if r == nil {
		return true
	}
	_, nop := r.(Nop)
	return nop
}
