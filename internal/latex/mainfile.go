// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package latex selects the main file of a LaTeX source tree and rewrites
// its \input references ahead of expansion.
package latex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const (
	texExt        = ".tex"
	documentClass = `\documentclass`
)

// commonMainNames are checked in order before any content inspection.
var commonMainNames = []string{"main.tex", "paper.tex", "ms.tex", "manuscript.tex"}

// ErrNoTeXFiles is returned when a source tree contains no .tex files.
var ErrNoTeXFiles = errors.New("no .tex files found")

// AmbiguousMainError reports that more than one file declares a document
// class and none carries a conventional main-file name.
type AmbiguousMainError struct {
	// Candidates are the slash-separated paths relative to the source root,
	// in TeXFiles order.
	Candidates []string
}

func (e *AmbiguousMainError) Error() string {
	return fmt.Sprintf("multiple main TeX files found: %s; the submission must contain a uniquely identifiable main TeX file",
		strings.Join(e.Candidates, ", "))
}

// FindMainFile returns the path of the main TeX file under dir:
//
//  1. the first file named main.tex, paper.tex, ms.tex, or manuscript.tex,
//     in that priority order;
//  2. otherwise the only file containing \documentclass (several such
//     files yield an *AmbiguousMainError);
//  3. otherwise the first .tex file.
//
// Candidates are ordered shallowest first, then by path, so a top-level
// file beats a nested copy and the result does not depend on filesystem
// traversal order.
func FindMainFile(dir string) (string, error) {
	candidates, err := TeXFiles(dir)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", ErrNoTeXFiles
	}

	for _, name := range commonMainNames {
		for _, rel := range candidates {
			if path.Base(rel) == name {
				return filepath.Join(dir, filepath.FromSlash(rel)), nil
			}
		}
	}

	var withClass []string
	for _, rel := range candidates {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", rel, err)
		}
		if strings.Contains(string(data), documentClass) {
			withClass = append(withClass, rel)
		}
	}

	switch len(withClass) {
	case 0:
		return filepath.Join(dir, filepath.FromSlash(candidates[0])), nil
	case 1:
		return filepath.Join(dir, filepath.FromSlash(withClass[0])), nil
	default:
		return "", &AmbiguousMainError{Candidates: withClass}
	}
}

// TeXFiles returns the slash-separated paths, relative to dir, of every
// regular file ending in .tex, ordered by directory depth and then
// lexically within a depth.
func TeXFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), texExt) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Slice(files, func(i, j int) bool {
		di, dj := strings.Count(files[i], "/"), strings.Count(files[j], "/")
		if di != dj {
			return di < dj
		}
		return files[i] < files[j]
	})
	return files, nil
}
