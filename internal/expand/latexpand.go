// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package expand runs the external LaTeX flattening tool (latexpand) that
// inlines \input and \include directives into one document.
package expand

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/pdiddy/arxiv-flatten/pkg/types"
)

// DefaultBinary is the expansion tool looked up on PATH when none is configured.
const DefaultBinary = "latexpand"

// ErrToolMissing is returned when the expansion tool cannot be found.
var ErrToolMissing = errors.New("expansion tool not available")

// Tool flattens a LaTeX document by expanding its inclusion directives.
type Tool interface {
	// Name returns the tool binary name.
	Name() string

	// Available returns nil when the tool binary can be found, or an error
	// wrapping ErrToolMissing.
	Available() error

	// Expand runs the tool on input with dir as the working directory and
	// writes the flattened document to stdout.
	Expand(ctx context.Context, dir, input string, opts types.ExpandOptions, stdout io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunIn(ctx context.Context, dir, name string, args []string, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// RunIn runs name in dir and appends the command's stderr to any failure.
func (o *osExecutor) RunIn(ctx context.Context, dir, name string, args []string, stdout io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// latexpand implements Tool for the latexpand script.
type latexpand struct {
	bin  string
	exec executor
}

var defaultExec = &osExecutor{}

// NewLatexpand returns a Tool that runs bin (DefaultBinary when empty).
func NewLatexpand(bin string) Tool {
	return newLatexpand(bin, defaultExec)
}

func newLatexpand(bin string, exec executor) *latexpand {
	if bin == "" {
		bin = DefaultBinary
	}
	return &latexpand{bin: bin, exec: exec}
}

func (l *latexpand) Name() string { return l.bin }

func (l *latexpand) Available() error {
	if _, err := l.exec.LookPath(l.bin); err != nil {
		return fmt.Errorf("%w: %s not found on PATH (install texlive-extra-utils or set latexpand in the config): %v",
			ErrToolMissing, l.bin, err)
	}
	return nil
}

func (l *latexpand) Expand(ctx context.Context, dir, input string, opts types.ExpandOptions, stdout io.Writer) error {
	args := append(Args(opts), input)
	if err := l.exec.RunIn(ctx, dir, l.bin, args, stdout); err != nil {
		return fmt.Errorf("running %s on %s: %w", l.bin, input, err)
	}
	return nil
}

// Args returns the latexpand flags for opts: --keep-comments when comments
// are kept, --empty-comments when figure content is excluded.
func Args(opts types.ExpandOptions) []string {
	var args []string
	if opts.KeepComments {
		args = append(args, "--keep-comments")
	}
	if !opts.IncludeFigures {
		args = append(args, "--empty-comments")
	}
	return args
}
