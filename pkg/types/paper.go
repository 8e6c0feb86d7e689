// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper holds the catalog metadata needed to fetch a paper's LaTeX source.
type Paper struct {
	// ID is the arXiv identifier without version suffix (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the first submission date.
	Published time.Time `json:"published" yaml:"published"`

	// AbstractURL is the canonical abstract page (e.g. "http://arxiv.org/abs/2301.07041v1").
	AbstractURL string `json:"abstract_url" yaml:"abstract_url"`

	// SourceURL is the e-print URL serving the source archive.
	SourceURL string `json:"source_url" yaml:"source_url"`
}
