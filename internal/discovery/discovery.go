// Package discovery expands the CLI's path arguments into the list of
// Dockerfiles to analyze. An argument may be a file, a directory
// (walked recursively for recognized Dockerfile names), or a doublestar
// glob pattern.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// namePatterns are the file names recognized as Dockerfiles when a
// directory is walked: the canonical name, suffixed and prefixed
// variants (Dockerfile.dev, api.Dockerfile), and the Podman spelling.
var namePatterns = []string{
	"Dockerfile",
	"Dockerfile.*",
	"*.Dockerfile",
	"Containerfile",
	"Containerfile.*",
	"*.Containerfile",
}

// IsDockerfileName reports whether a bare file name looks like a
// Dockerfile.
func IsDockerfileName(name string) bool {
	for _, pattern := range namePatterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Paths resolves each input to the Dockerfiles it names, skipping any
// path matched by an exclude pattern. Results are deduplicated by
// absolute path and returned sorted.
func Paths(inputs, excludes []string) ([]string, error) {
	f := &finder{excludes: excludes, seen: map[string]bool{}}
	for _, input := range inputs {
		if err := f.add(input); err != nil {
			return nil, err
		}
	}
	slices.Sort(f.paths)
	return f.paths, nil
}

// finder accumulates discovered paths across the inputs of one Paths
// call, deduplicating as it goes.
type finder struct {
	excludes []string
	seen     map[string]bool
	paths    []string
}

func (f *finder) add(input string) error {
	if hasGlobMeta(input) {
		return f.addGlob(input)
	}
	info, err := os.Stat(input)
	switch {
	case err == nil && info.IsDir():
		return f.addDir(input)
	case err == nil:
		f.record(input)
		return nil
	case os.IsNotExist(err):
		// A pattern that happens to contain no glob metacharacters, or
		// simply a missing file; globbing yields the empty set either way.
		return f.addGlob(input)
	default:
		return err
	}
}

// addGlob expands a doublestar pattern and records every matching file.
func (f *finder) addGlob(pattern string) error {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return err
	}
	for _, match := range matches {
		f.record(match)
	}
	return nil
}

// addDir walks dir recursively, recording every file whose name matches
// a recognized Dockerfile pattern.
func (f *finder) addDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if IsDockerfileName(d.Name()) {
			f.record(path)
		}
		return nil
	})
}

// record adds path unless it was already seen or an exclude pattern
// matches it. The path is stored in absolute form so the same file
// reached through different inputs deduplicates.
func (f *finder) record(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	if f.seen[abs] || f.excluded(abs) {
		return
	}
	f.seen[abs] = true
	f.paths = append(f.paths, abs)
}

// excluded matches abs against the exclude patterns. Relative patterns
// match at any depth (vendor/* behaves as **/vendor/*); doublestar
// matching always uses forward slashes.
func (f *finder) excluded(abs string) bool {
	slashPath := filepath.ToSlash(abs)
	for _, pattern := range f.excludes {
		pattern = filepath.ToSlash(pattern)
		if !strings.HasPrefix(pattern, "/") && !strings.HasPrefix(pattern, "**/") {
			pattern = "**/" + pattern
		}
		if ok, err := doublestar.Match(pattern, slashPath); err == nil && ok {
			return true
		}
	}
	return false
}

// hasGlobMeta reports whether path contains doublestar metacharacters,
// in which case it is globbed without an os.Stat probe (which fails on
// Windows for paths containing them).
func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[]{}")
}
