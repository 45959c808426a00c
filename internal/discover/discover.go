// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover walks a directory tree for documents in the
// supported formats.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/linkvet/pkg/types"
)

// Document is one discovered source file and its detected format.
type Document struct {
	Path   string
	Format types.Format
}

// formatsBySuffix maps file name suffixes to document formats.
var formatsBySuffix = map[string]types.Format{
	".htm":  types.FormatHTML,
	".html": types.FormatHTML,
	".md":   types.FormatMarkdown,
	".tex":  types.FormatLaTeX,
	".bib":  types.FormatBibTeX,
}

// typeSuffixes maps the file_types configuration values to the
// suffixes they cover.
var typeSuffixes = map[string][]string{
	"html": {".htm", ".html"},
	"md":   {".md"},
	"tex":  {".tex"},
	"bib":  {".bib"},
}

// FormatForPath returns the format implied by the path's suffix.
func FormatForPath(path string) (types.Format, bool) {
	f, ok := formatsBySuffix[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Find returns every supported document under root in lexical walk
// order. Root may also be a single document. fileTypes restricts the
// result to a subset of the supported formats (html, md, tex, bib);
// empty means all of them. A missing root is an error; directories that
// cannot be read below it are reported as defects and skipped.
func Find(root string, fileTypes []string) ([]Document, []types.FileDefect, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("scan path: %w", err)
	}

	if !info.IsDir() {
		format, ok := FormatForPath(root)
		if !ok {
			return nil, nil, fmt.Errorf("scan path %s: unsupported document format", root)
		}
		return []Document{{Path: root, Format: format}}, nil, nil
	}

	wanted := suffixSet(fileTypes)
	var docs []Document
	var defects []types.FileDefect

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			defects = append(defects, types.FileDefect{Path: path, Reason: err.Error()})
			return nil
		}
		if d.IsDir() {
			return nil
		}
		suffix := strings.ToLower(filepath.Ext(path))
		format, ok := formatsBySuffix[suffix]
		if !ok {
			return nil
		}
		if wanted != nil && !wanted[suffix] {
			return nil
		}
		docs = append(docs, Document{Path: path, Format: format})
		return nil
	})
	if walkErr != nil {
		return nil, nil, fmt.Errorf("walking %s: %w", root, walkErr)
	}
	return docs, defects, nil
}

func suffixSet(fileTypes []string) map[string]bool {
	if len(fileTypes) == 0 {
		return nil
	}
	set := make(map[string]bool)
	for _, ft := range fileTypes {
		for _, suffix := range typeSuffixes[strings.ToLower(ft)] {
			set[suffix] = true
		}
	}
	return set
}
