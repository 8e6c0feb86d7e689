// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source resolves arXiv URLs to identifiers, looks papers up in a
// metadata catalog, and downloads and extracts their LaTeX source archives.
package source

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnrecognizedURL is returned when a URL matches none of the accepted
// arXiv URL shapes.
var ErrUnrecognizedURL = errors.New("unrecognized arXiv URL")

// urlPatterns are tried in order; the first match wins. Each captures the
// numeric identifier without any version suffix.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`arxiv\.org/abs/(\d+\.\d+)`),
	regexp.MustCompile(`arxiv\.org/pdf/(\d+\.\d+)`),
	regexp.MustCompile(`ar5iv\.org/abs/(\d+\.\d+)`),
	regexp.MustCompile(`arxiv\.org/html/(\d+\.\d+)`),
}

// ParseURL extracts the arXiv identifier from an abs, pdf, html, or ar5iv
// mirror URL (e.g. "https://arxiv.org/abs/2301.07041v2" -> "2301.07041").
func ParseURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	for _, re := range urlPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnrecognizedURL, rawURL)
}

// EPrintURL converts an abstract page URL into the e-print URL that serves
// the source archive ("…/abs/2301.07041v1" -> "…/e-print/2301.07041v1").
func EPrintURL(abstractURL string) (string, error) {
	if !strings.Contains(abstractURL, "/abs/") {
		return "", fmt.Errorf("abstract URL %q has no /abs/ segment", abstractURL)
	}
	return strings.Replace(abstractURL, "/abs/", "/e-print/", 1), nil
}
