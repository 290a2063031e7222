/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

// Package extract implements the annotation extractor: it finds
// #[gts_well_known_instance(...)] annotations in Rust source text, decodes the attached string literal as a JSON
// instance body, and validates the composed schema_id+instance_segment as
// a GTS ID.
package extract

// needleBare and needleQual are the two forms the annotation attribute can
// take. Both require the "#[" attribute-open prefix so that a bare
// identifier (e.g. in an import statement) never counts as a match.
const (
	needleBare = "#[gts_well_known_instance"
	needleQual = "#[gts_macros::gts_well_known_instance"
)

// PreflightScan is a fast token-aware first pass: it reports whether
// content contains the annotation attribute outside of comments and string
// or char literals, without fully parsing anything. A negative result lets
// the caller skip a file in a single pass; a positive result commits to
// the slower, error-producing full extraction.
func PreflightScan(content string) bool {
	b := []byte(content)
	n := len(b)
	i := 0

	for i < n {
		// Line comment.
		if i+1 < n && b[i] == '/' && b[i+1] == '/' {
			for i < n && b[i] != '\n' {
				i++
			}
			continue
		}
		// Block comment.
		if i+1 < n && b[i] == '/' && b[i+1] == '*' {
			i += 2
			for i+1 < n && !(b[i] == '*' && b[i+1] == '/') {
				i++
			}
			i += 2
			continue
		}
		// Regular string literal.
		if b[i] == '"' {
			i++
			for i < n {
				if b[i] == '\\' {
					i += 2
					continue
				}
				if b[i] == '"' {
					i++
					break
				}
				i++
			}
			continue
		}
		// Raw string literal.
		if b[i] == 'r' {
			if after, ok := skipRawString(b, i); ok {
				i = after
				continue
			}
		}
		// Char literal vs. lifetime disambiguation: only consume the scan
		// position past a genuine 'x' / '\n' char literal. A lifetime like
		// 'static or 'a must not cause the scan to run past a real
		// annotation that happens to follow it.
		if b[i] == '\'' {
			i = skipCharOrLifetime(b, i)
			continue
		}
		if hasPrefixAt(b, i, needleQual) || hasPrefixAt(b, i, needleBare) {
			return true
		}
		i++
	}
	return false
}

func hasPrefixAt(b []byte, i int, prefix string) bool {
	if i+len(prefix) > len(b) {
		return false
	}
	return string(b[i:i+len(prefix)]) == prefix
}

// skipRawString attempts to skip a raw string literal r"...", r#"...", etc.
// starting at start. It returns the index just past the literal and true on
// success, or (start, false) if start is not the beginning of a raw string.
func skipRawString(b []byte, start int) (int, bool) {
	n := len(b)
	j := start + 1
	hashes := 0
	for j < n && b[j] == '#' {
		hashes++
		j++
	}
	if j >= n || b[j] != '"' {
		return start, false
	}
	j++
	for {
		if j >= n {
			return start, false
		}
		if b[j] == '"' {
			k := j + 1
			closing := 0
			for k < n && b[k] == '#' && closing < hashes {
				closing++
				k++
			}
			if closing == hashes {
				return k, true
			}
		}
		j++
	}
}

// skipCharOrLifetime advances past a char literal ('x', '\n', '\u{...}')
// starting at i, or past just the opening quote if i looks like a lifetime
// (`'a`, `'static`) instead.
func skipCharOrLifetime(b []byte, i int) int {
	n := len(b)
	j := i + 1
	if j < n && b[j] == '\\' {
		j++
		for j < n && b[j] != '\'' {
			j++
		}
		if j < n && b[j] == '\'' {
			return j + 1
		}
		return i + 1
	}
	if j < n && b[j] != '\'' {
		if j+1 < n && b[j+1] == '\'' {
			return j + 2
		}
		return i + 1
	}
	return i + 1
}
