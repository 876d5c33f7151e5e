// Package legacy reads the cache files the pre-database versions of this
// tool left next to source documents: an extracted-text sidecar, a numpy
// embeddings array and a serialized foreign index. The migration routine
// imports complete sets into the document store exactly once; partial or
// inconsistent sets are ignored and the document is regenerated from
// source on next use.
package legacy

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sidecar suffixes the original tool used.
const (
	embeddingsSuffix = ".embeddings.npy"
	indexSuffix      = ".faiss"
)

// CacheSet is one source file together with its legacy cache sidecars.
// For report.pdf the set is report.txt, report.txt.embeddings.npy and
// report.txt.faiss; for notes.txt the text sidecar is the file itself.
type CacheSet struct {
	// SourcePath is the original document file (.pdf or .txt).
	SourcePath string

	// TextPath holds the extracted text.
	TextPath string

	// EmbeddingsPath is the numpy 2-D float32 embeddings array.
	EmbeddingsPath string

	// IndexPath is the serialized foreign index. Its contents are never
	// imported, but a set without it is incomplete.
	IndexPath string
}

// Complete reports whether every file of the set exists on disk.
func (s CacheSet) Complete() bool {
	for _, p := range []string{s.SourcePath, s.TextPath, s.EmbeddingsPath, s.IndexPath} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// SidecarsFor derives the sidecar paths for a source file.
// Returns an error for extensions the legacy tool never produced.
func SidecarsFor(sourcePath string) (CacheSet, error) {
	var textPath string
	switch strings.ToLower(filepath.Ext(sourcePath)) {
	case ".pdf":
		textPath = strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ".txt"
	case ".txt":
		textPath = sourcePath
	default:
		return CacheSet{}, fmt.Errorf("no legacy cache layout for %s", filepath.Base(sourcePath))
	}

	return CacheSet{
		SourcePath:     sourcePath,
		TextPath:       textPath,
		EmbeddingsPath: textPath + embeddingsSuffix,
		IndexPath:      textPath + indexSuffix,
	}, nil
}

// HasArtifacts reports whether any legacy cache file exists beyond the
// source itself. A set with artifacts but missing pieces is partial.
func (s CacheSet) HasArtifacts() bool {
	paths := []string{s.EmbeddingsPath, s.IndexPath}
	if s.TextPath != s.SourcePath {
		paths = append(paths, s.TextPath)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

// Discover scans dir (non-recursively) for source files that have legacy
// cache artifacts, complete or partial. Callers check Complete() before
// importing. A .txt file that is itself the text sidecar of a .pdf in the
// same directory is attributed to the PDF, not listed twice.
func Discover(dir string) ([]CacheSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	pdfTextSidecars := make(map[string]bool)
	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf":
			candidates = append(candidates, path)
			pdfTextSidecars[strings.TrimSuffix(path, filepath.Ext(path))+".txt"] = true
		case ".txt":
			candidates = append(candidates, path)
		}
	}

	var sets []CacheSet
	for _, path := range candidates {
		if strings.EqualFold(filepath.Ext(path), ".txt") && pdfTextSidecars[path] {
			continue
		}
		set, err := SidecarsFor(path)
		if err != nil {
			continue
		}
		if set.HasArtifacts() {
			sets = append(sets, set)
		}
	}

	sort.Slice(sets, func(i, j int) bool { return sets[i].SourcePath < sets[j].SourcePath })
	return sets, nil
}
