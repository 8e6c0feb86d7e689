// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds HTTP settings used by the catalog lookup and the
// e-print download.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-flatten/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Retries is the number of times a request answered with HTTP 429 is
	// retried. Zero issues a single attempt.
	Retries int `json:"retries" yaml:"retries"`
}

// CatalogBackend identifies the service used to resolve an arXiv ID to its
// source archive URL.
type CatalogBackend string

const (
	CatalogAtom    CatalogBackend = "atom"
	CatalogGoarxiv CatalogBackend = "goarxiv"
)

// ExpandOptions selects how the expansion tool treats comments and figures.
type ExpandOptions struct {
	// KeepComments preserves LaTeX comments in the flattened output.
	KeepComments bool `json:"keep_comments" yaml:"keep_comments"`

	// IncludeFigures keeps figure-related content in the flattened output.
	IncludeFigures bool `json:"include_figures" yaml:"include_figures"`
}

// DefaultExpandOptions keeps comments and drops figure content.
func DefaultExpandOptions() ExpandOptions {
	return ExpandOptions{KeepComments: true, IncludeFigures: false}
}

// FlattenConfig holds settings for a flatten run.
type FlattenConfig struct {
	HTTPConfig `yaml:",inline"`

	// Catalog selects the metadata backend: atom (default) or goarxiv.
	Catalog CatalogBackend `json:"catalog" yaml:"catalog"`

	// Latexpand is the expansion tool binary name or path (default "latexpand").
	Latexpand string `json:"latexpand" yaml:"latexpand"`

	// OutputDir is the directory that receives <id>_expanded.tex.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Expand holds the default expansion options.
	Expand ExpandOptions `json:"expand" yaml:"expand"`
}
