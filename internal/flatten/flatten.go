// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package flatten turns an arXiv URL into a single self-contained LaTeX
// file: it fetches the paper's source archive, picks the main file,
// normalizes its \input paths, and runs the expansion tool over it.
package flatten

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/arxiv-flatten/internal/expand"
	"github.com/pdiddy/arxiv-flatten/internal/latex"
	"github.com/pdiddy/arxiv-flatten/internal/source"
	"github.com/pdiddy/arxiv-flatten/pkg/types"
)

const (
	archiveName   = "source.tar.gz"
	extractDir    = "extracted"
	processedName = "processed_main.tex"
	expandedName  = "expanded.tex"
	outputSuffix  = "_expanded.tex"
)

// Flattener runs the fetch-select-normalize-expand pipeline. Construct it
// once with New, which validates the environment, then call Flatten per
// paper.
type Flattener struct {
	client    *http.Client
	catalog   source.Catalog
	fetcher   *source.Fetcher
	tool      expand.Tool
	outputDir string
	w         io.Writer
}

// Option customizes a Flattener.
type Option func(*Flattener)

// WithCatalog replaces the catalog selected from the config.
func WithCatalog(c source.Catalog) Option {
	return func(f *Flattener) { f.catalog = c }
}

// WithTool replaces the latexpand tool.
func WithTool(t expand.Tool) Option {
	return func(f *Flattener) { f.tool = t }
}

// WithHTTPClient sets the client used for catalog and archive requests.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Flattener) { f.client = c }
}

// WithProgress sets the writer that receives per-step progress lines.
func WithProgress(w io.Writer) Option {
	return func(f *Flattener) { f.w = w }
}

// New validates that the expansion tool is available and wires the
// pipeline. A missing tool is reported before any network access.
func New(cfg types.FlattenConfig, opts ...Option) (*Flattener, error) {
	f := &Flattener{
		outputDir: cfg.OutputDir,
		w:         io.Discard,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.tool == nil {
		f.tool = expand.NewLatexpand(cfg.Latexpand)
	}
	if err := f.tool.Available(); err != nil {
		return nil, err
	}

	if f.client == nil {
		f.client = &http.Client{Timeout: cfg.Timeout}
	}
	if f.catalog == nil {
		c, err := source.NewCatalog(f.client, cfg)
		if err != nil {
			return nil, err
		}
		f.catalog = c
	}
	f.fetcher = source.NewFetcher(f.client, cfg.HTTPConfig)

	if f.outputDir == "" {
		f.outputDir = "."
	}
	return f, nil
}

// OutputPath returns where Flatten writes the result for id.
func (f *Flattener) OutputPath(id string) string {
	return filepath.Join(f.outputDir, id+outputSuffix)
}

// Flatten produces <outputDir>/<id>_expanded.tex for the paper at rawURL
// and returns its path. All intermediate files live in a scratch directory
// removed before Flatten returns. On error no output file is left behind.
func (f *Flattener) Flatten(ctx context.Context, rawURL string, opts types.ExpandOptions) (string, error) {
	id, err := source.ParseURL(rawURL)
	if err != nil {
		return "", err
	}

	scratch, err := os.MkdirTemp("", "arxiv-flatten-*")
	if err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	fmt.Fprintf(f.w, "resolving: %s\n", id)
	paper, err := f.catalog.Lookup(ctx, id)
	if err != nil {
		return "", fmt.Errorf("looking up %s: %w", id, err)
	}

	fmt.Fprintf(f.w, "downloading: %s (%s)\n", id, paper.SourceURL)
	archive := filepath.Join(scratch, archiveName)
	if err := f.fetcher.Download(ctx, paper.SourceURL, archive); err != nil {
		return "", fmt.Errorf("downloading %s: %w", id, err)
	}

	srcDir := filepath.Join(scratch, extractDir)
	if err := source.Extract(archive, srcDir); err != nil {
		return "", fmt.Errorf("extracting %s: %w", id, err)
	}

	mainPath, err := latex.FindMainFile(srcDir)
	if err != nil {
		return "", fmt.Errorf("selecting main file for %s: %w", id, err)
	}
	if rel, relErr := filepath.Rel(srcDir, mainPath); relErr == nil {
		fmt.Fprintf(f.w, "main file: %s\n", filepath.ToSlash(rel))
	}

	processed := filepath.Join(scratch, processedName)
	if err := normalizeFile(mainPath, processed); err != nil {
		return "", err
	}

	expanded := filepath.Join(scratch, expandedName)
	if err := f.expand(ctx, srcDir, processed, opts, expanded); err != nil {
		return "", fmt.Errorf("expanding %s: %w", id, err)
	}

	outPath := f.OutputPath(id)
	if err := publish(expanded, outPath); err != nil {
		return "", fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Fprintf(f.w, "wrote: %s\n", outPath)
	return outPath, nil
}

// normalizeFile writes src to dst with every \input path given a .tex suffix.
func normalizeFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading main file: %w", err)
	}
	if err := os.WriteFile(dst, []byte(latex.NormalizeInputs(string(data))), 0o644); err != nil {
		return fmt.Errorf("writing normalized main file: %w", err)
	}
	return nil
}

func (f *Flattener) expand(ctx context.Context, workDir, input string, opts types.ExpandOptions, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	runErr := f.tool.Expand(ctx, workDir, input, opts, out)
	closeErr := out.Close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}

// publish copies src to dst through a temporary file in dst's directory,
// renamed into place on success.
func publish(src, dst string) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmpFile, err := os.CreateTemp(dir, ".arxiv-flatten-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, in)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("copying output: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
