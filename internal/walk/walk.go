/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

// Package walk discovers documentation and schema files under one or more
// repository roots, applying skip-directory rules and exclude globs and
// resolving each file to its canonical path, in the manner of the Rust
// validator's bounded filesystem strategy. A resolved path is not checked
// against the root it was found under.
package walk

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/GlobalTypeSystem/gts-toolchain/internal/report"
	"github.com/GlobalTypeSystem/gts-toolchain/internal/sandbox"
)

// SkipDirs are directory names never descended into, regardless of Exclude.
var SkipDirs = []string{"target", "node_modules", ".git", "vendor", ".gts-spec"}

// FilePatterns restricts discovery to documents the scanners understand.
var FilePatterns = []string{".md", ".json", ".yaml", ".yml"}

const (
	DefaultMaxFileSize   int64 = 10 * 1024 * 1024 // 10 MiB
	DefaultMaxFiles            = 100_000
	DefaultMaxTotalBytes int64 = 512 * 1024 * 1024 // 512 MiB
	DefaultMaxDepth            = 64
)

// Config controls a Walk invocation.
type Config struct {
	Roots         []string
	Exclude       []string
	MaxFileSize   int64
	MaxFiles      int
	MaxTotalBytes int64
	MaxDepth      int
	FollowLinks   bool
}

// DefaultConfig returns a Config with the validator's default limits.
func DefaultConfig(roots []string) Config {
	return Config{
		Roots:         roots,
		MaxFileSize:   DefaultMaxFileSize,
		MaxFiles:      DefaultMaxFiles,
		MaxTotalBytes: DefaultMaxTotalBytes,
		MaxDepth:      DefaultMaxDepth,
	}
}

// isNotSkipDir reports whether name is one of the always-skipped directory names.
func isNotSkipDir(name string) bool {
	for _, skip := range SkipDirs {
		if name == skip {
			return false
		}
	}
	return true
}

// matchesExclude reports whether path (or its basename) matches any of the
// exclude glob patterns. Patterns use doublestar syntax ("**" crosses
// directory boundaries).
func matchesExclude(path string, patterns []string) (bool, error) {
	slash := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pat := range patterns {
		ok, err := doublestar.Match(pat, slash)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", pat, err)
		}
		if ok {
			return true, nil
		}
		if ok, _ := doublestar.Match(pat, base); ok {
			return true, nil
		}
	}
	return false, nil
}

func matchesFilePattern(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, p := range FilePatterns {
		if ext == p {
			return true
		}
	}
	return false
}

// Result is the outcome of a Walk: the files to scan, plus any scan-level
// errors (oversized trees, walk failures, unresolvable paths, bad exclude
// patterns) encountered along the way.
type Result struct {
	Files      []string
	ScanErrors []*report.ScanError
}

// walker carries the mutable state one Walk invocation accumulates across
// every root, so a symlinked directory can recurse back into the same
// entry-processing logic without re-threading a dozen parameters.
type walker struct {
	cfg         Config
	res         *Result
	seen        map[string]bool
	visitedDirs map[string]bool
	totalBytes  int64
	fileCount   int
}

// Walk discovers files under cfg.Roots, applying SkipDirs, FilePatterns and
// cfg.Exclude. Each accepted file is resolved through
// sandbox.SafeCanonicalizeNonexistent; the resolved path is not checked to
// lie inside its root, so a followed symlink can contribute a file outside
// it. Files are returned sorted and deduplicated. When cfg.FollowLinks is set, symlinked directories are
// descended into (guarded against cycles via visitedDirs) and symlinked
// files are resolved to their target before the usual checks apply.
func Walk(cfg Config) (*Result, error) {
	w := &walker{
		cfg:         cfg,
		res:         &Result{},
		seen:        make(map[string]bool),
		visitedDirs: make(map[string]bool),
	}

	for _, root := range cfg.Roots {
		rootAbs, err := sandbox.SafeCanonicalizeNonexistent(root)
		if err != nil {
			w.res.ScanErrors = append(w.res.ScanErrors, &report.ScanError{
				File: root, Kind: report.ScanErrorOutsideRepository,
				Message: err.Error(),
			})
			continue
		}
		w.visitedDirs[rootAbs] = true

		walkErr := filepath.WalkDir(rootAbs, func(path string, d fs.DirEntry, err error) error {
			return w.visit(rootAbs, root, path, d, err)
		})

		if walkErr != nil {
			w.res.ScanErrors = append(w.res.ScanErrors, &report.ScanError{
				File: root, Kind: report.ScanErrorLimitExceeded, Message: walkErr.Error(),
			})
		}
	}

	sort.Strings(w.res.Files)
	return w.res, nil
}

// visit processes one filepath.WalkDir entry. A symlinked directory is
// recursed into in place (when cfg.FollowLinks) by calling this same
// function over its target's tree; a symlinked file is resolved to its
// target's fs.FileInfo before the size/pattern checks run.
func (w *walker) visit(rootAbs, root, path string, d fs.DirEntry, err error) error {
	if err != nil {
		w.res.ScanErrors = append(w.res.ScanErrors, &report.ScanError{
			File: path, Kind: report.ScanErrorWalk, Message: err.Error(),
		})
		if d != nil && d.IsDir() {
			return fs.SkipDir
		}
		return nil
	}

	rel, relErr := filepath.Rel(rootAbs, path)
	if relErr == nil && rel != "." {
		depth := strings.Count(filepath.ToSlash(rel), "/") + 1
		if w.cfg.MaxDepth > 0 && depth > w.cfg.MaxDepth {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
	}

	if d.Type()&fs.ModeSymlink != 0 {
		if !w.cfg.FollowLinks {
			return nil
		}
		target, statErr := os.Stat(path)
		if statErr != nil {
			w.res.ScanErrors = append(w.res.ScanErrors, &report.ScanError{
				File: path, Kind: report.ScanErrorWalk, Message: statErr.Error(),
			})
			return nil
		}
		if target.IsDir() {
			targetAbs, resolveErr := sandbox.SafeCanonicalizeNonexistent(path)
			if resolveErr != nil || w.visitedDirs[targetAbs] {
				return nil
			}
			w.visitedDirs[targetAbs] = true
			// Walk the resolved real path, not the symlink path: WalkDir
			// Lstats its own root argument, so rooting at the symlink itself
			// would see a symlink DirEntry there and stop without recursing
			// into its children at all.
			return filepath.WalkDir(targetAbs, func(p string, e fs.DirEntry, e2 error) error {
				return w.visit(rootAbs, root, p, e, e2)
			})
		}
		return w.visitFile(path, target.Size())
	}

	if d.IsDir() {
		if path != rootAbs && !isNotSkipDir(d.Name()) {
			return fs.SkipDir
		}
		return nil
	}

	if !d.Type().IsRegular() {
		return nil
	}

	info, statErr := d.Info()
	var size int64
	if statErr == nil {
		size = info.Size()
	}
	return w.visitFile(path, size)
}

// visitFile applies the pattern, exclude, path-resolution, and limit checks a
// regular file (or a symlink resolved to one) must pass before it's added
// to the result.
func (w *walker) visitFile(path string, size int64) error {
	if !matchesFilePattern(path) {
		return nil
	}

	excluded, exErr := matchesExclude(path, w.cfg.Exclude)
	if exErr != nil {
		w.res.ScanErrors = append(w.res.ScanErrors, &report.ScanError{
			File: path, Kind: report.ScanErrorInvalidExcludePattern, Message: exErr.Error(),
		})
		return nil
	}
	if excluded {
		return nil
	}

	resolved, rErr := sandbox.SafeCanonicalizeNonexistent(path)
	if rErr != nil {
		w.res.ScanErrors = append(w.res.ScanErrors, &report.ScanError{
			File: path, Kind: report.ScanErrorOutsideRepository,
			Message: fmt.Sprintf("resolving %q: %v", path, rErr),
		})
		return nil
	}

	w.totalBytes += size
	w.fileCount++
	if w.cfg.MaxFiles > 0 && w.fileCount > w.cfg.MaxFiles {
		return fmt.Errorf("limit exceeded: more than %d files", w.cfg.MaxFiles)
	}
	if w.cfg.MaxTotalBytes > 0 && w.totalBytes > w.cfg.MaxTotalBytes {
		return fmt.Errorf("limit exceeded: more than %d total bytes", w.cfg.MaxTotalBytes)
	}

	if !w.seen[resolved] {
		w.seen[resolved] = true
		w.res.Files = append(w.res.Files, resolved)
	}
	return nil
}
