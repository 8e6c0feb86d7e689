// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"errors"
	"testing"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
	}{
		{"abs", "https://arxiv.org/abs/2301.07041", "2301.07041"},
		{"abs versioned", "https://arxiv.org/abs/2301.07041v3", "2301.07041"},
		{"pdf", "https://arxiv.org/pdf/2301.07041", "2301.07041"},
		{"pdf with extension", "https://arxiv.org/pdf/2301.07041v1.pdf", "2301.07041"},
		{"ar5iv mirror", "https://ar5iv.org/abs/1706.03762", "1706.03762"},
		{"html", "https://arxiv.org/html/2402.12345v2", "2402.12345"},
		{"no scheme", "arxiv.org/abs/2301.07041", "2301.07041"},
		{"www host", "https://www.arxiv.org/abs/2301.07041", "2301.07041"},
		{"export host", "http://export.arxiv.org/abs/2301.07041", "2301.07041"},
		{"whitespace trimmed", "  https://arxiv.org/abs/2301.07041  ", "2301.07041"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURL(tt.input)
			if err != nil {
				t.Fatalf("ParseURL(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.wantID {
				t.Errorf("ParseURL(%q) = %q, want %q", tt.input, got, tt.wantID)
			}
		})
	}
}

func TestParseURL_Unrecognized(t *testing.T) {
	inputs := []string{
		"",
		"2301.07041",
		"https://example.com/abs/2301.07041",
		"https://arxiv.org/list/cs.AI/recent",
		"https://ar5iv.org/html/2301.07041",
		"https://arxiv.org/abs/hep-th/9901001",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := ParseURL(in)
			if !errors.Is(err, ErrUnrecognizedURL) {
				t.Errorf("ParseURL(%q) error = %v, want ErrUnrecognizedURL", in, err)
			}
		})
	}
}

func TestEPrintURL(t *testing.T) {
	got, err := EPrintURL("http://arxiv.org/abs/2301.07041v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "http://arxiv.org/e-print/2301.07041v1"; got != want {
		t.Errorf("EPrintURL = %q, want %q", got, want)
	}

	if _, err := EPrintURL("http://arxiv.org/pdf/2301.07041v1"); err == nil {
		t.Error("expected error for URL without /abs/")
	}
}
