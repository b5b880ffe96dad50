// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package posts finds the Markdown posts of a Hugo content directory.
package posts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/hugo-ai/internal/frontmatter"
)

// List returns the paths of the posts directly inside dir, sorted by name.
// Hidden files, directories and anything not ending in .md or .markdown are
// ignored, which also skips .BAK backups.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading posts directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".md", ".markdown":
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}

// Load reads and parses the post at path.
func Load(path string) (*frontmatter.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := frontmatter.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
