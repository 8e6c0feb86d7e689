// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-flatten/pkg/types"
)

type tarEntry struct {
	name string
	body string
	dir  bool
}

func buildTar(t *testing.T, entries []tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644, Size: int64(len(e.body)), Typeflag: tar.TypeReg}
		if e.dir {
			hdr = &tar.Header{Name: e.name, Mode: 0o755, Typeflag: tar.TypeDir}
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !e.dir {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeArchive(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.tar.gz")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestFetcher_Download(t *testing.T) {
	payload := []byte("archive bytes")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/e-print/2301.07041v1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/x-eprint-tar")
		w.Write(payload)
	}))
	defer ts.Close()

	dir := t.TempDir()
	f := NewFetcher(ts.Client(), types.HTTPConfig{UserAgent: "arxiv-flatten/test"})

	dest := filepath.Join(dir, "source.tar.gz")
	require.NoError(t, f.Download(context.Background(), ts.URL+"/e-print/2301.07041v1", dest))
	assert.Equal(t, string(payload), readFile(t, dest))

	missing := filepath.Join(dir, "missing.tar.gz")
	err := f.Download(context.Background(), ts.URL+"/e-print/0000.00000", missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
	assert.NoFileExists(t, missing)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestExtract_TarGz(t *testing.T) {
	archive := gzipBytes(t, buildTar(t, []tarEntry{
		{name: "sections/", dir: true},
		{name: "main.tex", body: `\documentclass{article}`},
		{name: "sections/intro.tex", body: "Intro."},
	}))
	dest := filepath.Join(t.TempDir(), "extracted")

	require.NoError(t, Extract(writeArchive(t, archive), dest))
	assert.Equal(t, `\documentclass{article}`, readFile(t, filepath.Join(dest, "main.tex")))
	assert.Equal(t, "Intro.", readFile(t, filepath.Join(dest, "sections", "intro.tex")))
}

func TestExtract_PlainTar(t *testing.T) {
	archive := buildTar(t, []tarEntry{
		{name: "nested/dir/paper.tex", body: "body"},
	})
	dest := filepath.Join(t.TempDir(), "extracted")

	require.NoError(t, Extract(writeArchive(t, archive), dest))
	assert.Equal(t, "body", readFile(t, filepath.Join(dest, "nested", "dir", "paper.tex")))
}

func TestExtract_SkipsTraversal(t *testing.T) {
	root := t.TempDir()
	archive := gzipBytes(t, buildTar(t, []tarEntry{
		{name: "../escape.tex", body: "bad"},
		{name: "/abs.tex", body: "bad"},
		{name: "ok.tex", body: "good"},
	}))
	dest := filepath.Join(root, "extracted")

	require.NoError(t, Extract(writeArchive(t, archive), dest))
	assert.FileExists(t, filepath.Join(dest, "ok.tex"))
	assert.NoFileExists(t, filepath.Join(root, "escape.tex"))
}

func TestExtract_SingleGzippedFile(t *testing.T) {
	tex := `\documentclass{article}\begin{document}x\end{document}`
	dest := filepath.Join(t.TempDir(), "extracted")

	require.NoError(t, Extract(writeArchive(t, gzipBytes(t, []byte(tex))), dest))
	assert.Equal(t, tex, readFile(t, filepath.Join(dest, singleFileName)))
}

func TestExtract_Empty(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "extracted")

	require.NoError(t, Extract(writeArchive(t, nil), dest))
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtract_PDF(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "extracted")
	err := Extract(writeArchive(t, []byte("%PDF-1.5 fake")), dest)
	assert.True(t, errors.Is(err, ErrPDFOnly), "got %v", err)
}

func TestExtract_CorruptGzip(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "extracted")
	err := Extract(writeArchive(t, []byte{0x1f, 0x8b, 0x00}), dest)
	require.Error(t, err)
}

func TestExtract_EmptyTar(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "extracted")

	require.NoError(t, Extract(writeArchive(t, gzipBytes(t, buildTar(t, nil))), dest))
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
