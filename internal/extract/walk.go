/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/GlobalTypeSystem/gts-toolchain/internal/genlog"
	"github.com/GlobalTypeSystem/gts-toolchain/internal/walk"
)

// autoIgnoreDirs are skipped unconditionally: compile-fail test fixtures
// deliberately contain invalid annotations and would otherwise produce
// hard errors on every run.
var autoIgnoreDirs = []string{"compile_fail"}

// SkipReason names why walkSourceFiles didn't visit a file's content.
type SkipReason int

const (
	SkipExcludePattern SkipReason = iota
	SkipAutoIgnoredDir
	SkipIgnoreDirective
)

func (r SkipReason) String() string {
	switch r {
	case SkipExcludePattern:
		return "matched --exclude pattern"
	case SkipAutoIgnoredDir:
		return "in auto-ignored directory (compile_fail)"
	case SkipIgnoreDirective:
		return "has // gts:ignore directive"
	default:
		return "unknown"
	}
}

// sourceExtensions lists the host-language file extensions this extractor
// considers; Rust's ".rs" is the only entry. The list is unexported and
// fixed at build time.
var sourceExtensions = []string{".rs"}

func hasSourceExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range sourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// shouldExcludePath reports whether path matches any of the doublestar
// glob patterns, or contains a pattern (with any trailing "/**" removed) as
// a plain substring.
func shouldExcludePath(path string, patterns []string) bool {
	normalized := filepath.ToSlash(path)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, normalized); ok {
			return true
		}
		if strings.Contains(normalized, strings.TrimSuffix(pattern, "/**")) {
			return true
		}
	}
	return false
}

func isInAutoIgnoredDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		for _, dir := range autoIgnoreDirs {
			if part == dir {
				return true
			}
		}
	}
	return false
}

// hasIgnoreDirective reports whether content opens with a "// gts:ignore"
// comment, scanning only the leading line/shebang-comment run (first 10
// lines) so the directive must be a deliberate header, not an incidental
// match buried in the file.
func hasIgnoreDirective(content string) bool {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if i >= 10 {
			break
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(trimmed), "// gts:ignore") {
			return true
		}
		if !strings.HasPrefix(trimmed, "//") && !strings.HasPrefix(trimmed, "#!") {
			break
		}
	}
	return false
}

// walkSourceFiles walks sourcePath, visiting every source file that isn't
// excluded, auto-ignored, or carrying an ignore directive. It returns the
// count of files scanned and skipped. The visitor's error aborts the walk.
func walkSourceFiles(sourcePath string, excludePatterns []string, log *genlog.Logger, visit func(path, content string) error) (scanned, skipped int, err error) {
	walkErr := filepath.Walk(sourcePath, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			log.Infof("warning: skipping unreadable path during walk: %v", walkErr)
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if !hasSourceExtension(path) {
			return nil
		}

		if shouldExcludePath(path, excludePatterns) {
			skipped++
			log.Debugf("  Skipped: %s (%s)", path, SkipExcludePattern)
			return nil
		}
		if isInAutoIgnoredDir(path) {
			skipped++
			log.Debugf("  Skipped: %s (%s)", path, SkipAutoIgnoredDir)
			return nil
		}

		content, readErr := walk.ReadFileBounded(path, walk.DefaultMaxFileSize)
		if readErr != nil {
			log.Infof("warning: skipping unreadable file %s: %v", path, readErr)
			skipped++
			return nil
		}

		if hasIgnoreDirective(content) {
			skipped++
			log.Debugf("  Skipped: %s (%s)", path, SkipIgnoreDirective)
			return nil
		}

		scanned++
		return visit(path, content)
	})
	if walkErr != nil {
		return scanned, skipped, fmt.Errorf("walking %s: %w", sourcePath, walkErr)
	}
	return scanned, skipped, nil
}
