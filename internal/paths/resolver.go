// Package paths expands raw input specifications into concrete files and
// plans the matching output paths.
package paths

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Extensions is the set of file suffixes eligible for OCR, keyed by
// lowercased suffix including the dot.
type Extensions map[string]bool

// DefaultExtensions returns the suffixes the tool recognizes.
func DefaultExtensions() Extensions {
	return Extensions{
		".pdf":  true,
		".png":  true,
		".jpg":  true,
		".jpeg": true,
		".tif":  true,
		".tiff": true,
		".bmp":  true,
	}
}

// Eligible reports whether the path carries a recognized suffix.
func (e Extensions) Eligible(path string) bool {
	return e[strings.ToLower(filepath.Ext(path))]
}

// Resolve expands the raw specifications into an ordered, deduplicated
// list of eligible files. Each spec is tried as a directory, then as a
// file, then as a glob pattern. The filesystem is only read, never
// modified.
func Resolve(specs []string, recursive bool, allowed Extensions) ([]string, error) {
	var found []string
	for _, raw := range specs {
		info, err := os.Stat(raw)
		switch {
		case err == nil && info.IsDir():
			matches, err := resolveDir(raw, recursive, allowed)
			if err != nil {
				return nil, err
			}
			found = append(found, matches...)
		case err == nil:
			if allowed.Eligible(raw) {
				found = append(found, raw)
			}
		default:
			matches, err := resolveGlob(raw, recursive, allowed)
			if err != nil {
				return nil, err
			}
			found = append(found, matches...)
		}
	}

	seen := make(map[string]bool, len(found))
	unique := found[:0]
	for _, p := range found {
		if !seen[p] {
			unique = append(unique, p)
			seen[p] = true
		}
	}
	return unique, nil
}

func resolveDir(dir string, recursive bool, allowed Extensions) ([]string, error) {
	var matches []string
	if recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && allowed.Eligible(path) {
				matches = append(matches, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return matches, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if allowed.Eligible(path) {
			matches = append(matches, path)
		}
	}
	return matches, nil
}

// resolveGlob treats the spec as a glob pattern. Recursive mode globs
// via doublestar, where "**" crosses any number of directories, so
// patterns like "dir/**/sub/*.pdf" match at every depth.
func resolveGlob(pattern string, recursive bool, allowed Extensions) ([]string, error) {
	var hits []string
	var err error
	if recursive {
		hits, err = doublestar.FilepathGlob(pattern)
	} else {
		hits, err = filepath.Glob(pattern)
	}
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, hit := range hits {
		info, err := os.Stat(hit)
		if err != nil || info.IsDir() {
			continue
		}
		if allowed.Eligible(hit) {
			matches = append(matches, hit)
		}
	}
	return matches, nil
}
