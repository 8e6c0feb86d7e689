// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/arxiv-flatten/internal/httputil"
	"github.com/pdiddy/arxiv-flatten/pkg/types"
)

// singleFileName is the name given to a submission served as one bare
// (possibly gzipped) TeX file instead of a tar archive.
const singleFileName = "main.tex"

// ErrPDFOnly is returned when the e-print endpoint serves a PDF, which
// happens for submissions without LaTeX source.
var ErrPDFOnly = errors.New("source archive is a PDF; no LaTeX source available")

// Fetcher downloads source archives.
type Fetcher struct {
	client *http.Client
	cfg    types.HTTPConfig
}

// NewFetcher creates a Fetcher using client for requests.
func NewFetcher(client *http.Client, cfg types.HTTPConfig) *Fetcher {
	return &Fetcher{client: client, cfg: cfg}
}

// Download fetches url to destPath using a temporary file in the same
// directory, renamed into place on success.
func (f *Fetcher) Download(ctx context.Context, url, destPath string) error {
	resp, err := httputil.Get(ctx, f.client, url, f.cfg.UserAgent, f.cfg.Retries)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Extract unpacks the archive at archivePath into destDir, creating destDir.
// Gzip compression is detected from the magic bytes. A stream that is not a
// tar archive is written as a single main.tex; an empty stream extracts
// nothing.
func Extract(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", destDir, err)
	}

	raw := bufio.NewReader(f)
	var r io.Reader = raw
	if isGzip(raw) {
		gzr, err := gzip.NewReader(raw)
		if err != nil {
			return fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gzr.Close()
		r = gzr
	}

	br := bufio.NewReaderSize(r, 1024)
	head, _ := br.Peek(262)
	switch {
	case len(head) == 0:
		return nil
	case bytes.HasPrefix(head, []byte("%PDF")):
		return ErrPDFOnly
	case isTar(head), isZeroBlock(head):
		return extractTar(br, destDir)
	default:
		return writeFile(filepath.Join(destDir, singleFileName), br)
	}
}

func isGzip(br *bufio.Reader) bool {
	magic, err := br.Peek(2)
	return err == nil && magic[0] == 0x1f && magic[1] == 0x8b
}

// isTar reports whether head carries the ustar magic at offset 257. GNU and
// POSIX tar both start it with "ustar".
func isTar(head []byte) bool {
	return len(head) >= 262 && string(head[257:262]) == "ustar"
}

// isZeroBlock reports whether head is all NUL bytes, which is how an empty
// tar archive (end-of-archive blocks only) begins.
func isZeroBlock(head []byte) bool {
	if len(head) < 262 {
		return false
	}
	for _, b := range head {
		if b != 0 {
			return false
		}
	}
	return true
}

func extractTar(r io.Reader, destDir string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		// Insecure names are filtered below.
		if err != nil && !errors.Is(err, tar.ErrInsecurePath) {
			return fmt.Errorf("reading tar: %w", err)
		}

		name := filepath.Clean(filepath.FromSlash(hdr.Name))
		if !filepath.IsLocal(name) {
			continue
		}

		target := filepath.Join(destDir, name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", filepath.Dir(name), err)
			}
			if err := writeFile(target, tr); err != nil {
				return err
			}
		}
	}
}

func writeFile(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	_, copyErr := io.Copy(out, r)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("writing %s: %w", path, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", path, closeErr)
	}
	return nil
}
