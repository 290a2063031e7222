/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

// Package sandbox confines generated output paths to a directory tree,
// rejecting path traversal before any filesystem access and resolving
// not-yet-existing paths against their nearest existing ancestor.
package sandbox

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SafeCanonicalizeNonexistent resolves path to an absolute, symlink-free form
// even when path (or some suffix of it) does not exist yet. It rejects any
// literal ".." path component up front, before touching the filesystem: a
// traversal attempt must fail on inspection, not on where canonicalization
// happens to bottom out.
//
// When path exists, this is equivalent to filepath.Abs + resolving symlinks.
// When it doesn't, the function walks up to the nearest existing ancestor,
// canonicalizes that, and re-joins the non-existent suffix components in
// their original order.
func SafeCanonicalizeNonexistent(path string) (string, error) {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return "", fmt.Errorf("security error: path traversal via '..' is not permitted in output paths: %s", path)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path for %q: %w", path, err)
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}

	// Walk up to the nearest existing ancestor, collecting the missing
	// suffix components in root-to-leaf order.
	var suffix []string
	cur := abs
	for {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			out := resolved
			for _, s := range suffix {
				out = filepath.Join(out, s)
			}
			return out, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached the filesystem root without finding an existing
			// ancestor; leave it unresolved and re-append the full suffix.
			out := cur
			for _, s := range suffix {
				out = filepath.Join(out, s)
			}
			return out, nil
		}

		suffix = append([]string{filepath.Base(cur)}, suffix...)
		cur = parent
	}
}

// IsInside reports whether candidate (already canonicalized) lies within
// root (already canonicalized), inclusive of root itself.
func IsInside(candidate, root string) bool {
	candidate = filepath.Clean(candidate)
	root = filepath.Clean(root)
	if candidate == root {
		return true
	}
	return strings.HasPrefix(candidate, root+string(filepath.Separator))
}
