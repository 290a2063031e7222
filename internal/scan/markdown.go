/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package scan

import (
	"regexp"
	"strings"

	"github.com/GlobalTypeSystem/gts-toolchain/internal/report"
)

// candidatePattern matches a bare "gts."-prefixed ID or a "gts://"-prefixed
// URI embedded anywhere in a line of prose or a fenced code block, starting
// at a word boundary (so "xgts.a" yields no candidate).
var candidatePattern = regexp.MustCompile(`\bgts(?:://[A-Za-z0-9_.~*-]+|\.[A-Za-z0-9_.~*-]+)`)

// fenceRun matches the leading run of backticks or tildes on a
// (already left-trimmed of indentation) line, three or more, with the rest
// of the line captured as the info string.
var fenceRun = regexp.MustCompile("^(`{3,}|~{3,})(.*)$")

// parseFenceLine reports whether trimmed opens or closes a fenced code
// block: the fence character, its run length, and its lowercased
// info-string (only meaningful when opening a new fence).
func parseFenceLine(trimmed string) (char byte, length int, info string, ok bool) {
	m := fenceRun.FindStringSubmatch(trimmed)
	if m == nil {
		return 0, 0, "", false
	}
	return m[1][0], len(m[1]), strings.ToLower(strings.TrimSpace(m[2])), true
}

// ScanMarkdown walks content line by line looking for GTS ID candidates,
// both in prose and inside fenced code blocks, tracking fence state the way
// a CommonMark-aware scanner must: {Prose, Fenced{skip, fenceChar,
// fenceLen}}. A line whose leading (post-indent) run of backticks or tildes
// has length >= 3 opens a fence in Prose, with its info-string lowercased
// and checked against FenceSkipInfoStrings to decide whether the block's
// body is grammar illustration (skipped) or a real example (scanned like
// any other line). Once Fenced, a line only closes the block if its fence
// character matches the opener's and its length is at least as long;
// mismatched fence characters or shorter runs are ordinary content.
//
// A line containing one of BadExampleMarkers is skipped outright - it is a
// deliberately broken illustration, not a claim about a real artifact. A
// line containing one of WildcardContextMarkers allows a trailing "*".
// Within a line, candidates are deduplicated by their (trimmed) matched
// text, since a line quoting the same ID twice should report it once.
func ScanMarkdown(content, sourceFile string, opts Options) []*report.ValidationError {
	var errs []*report.ValidationError

	var inFence bool
	var fenceChar byte
	var fenceLen int
	var skip bool

	for lineNo, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if ch, length, info, ok := parseFenceLine(trimmed); ok {
			switch {
			case !inFence:
				inFence = true
				fenceChar = ch
				fenceLen = length
				skip = FenceSkipInfoStrings[info]
				continue
			case ch == fenceChar && length >= fenceLen:
				inFence = false
				skip = false
				continue
			}
			// Mismatched fence char or a shorter run: not a closer, falls
			// through to be scanned as ordinary content below.
		}

		if inFence && skip {
			continue
		}
		if IsBadExampleContext(line) || hasMarker(line, opts.SkipTokens) {
			continue
		}
		allowWildcards := IsWildcardContext(line)

		seen := make(map[string]bool)
		for _, match := range candidatePattern.FindAllStringIndex(line, -1) {
			raw := line[match[0]:match[1]]
			raw = trimTrailingPunctuation(raw)
			if raw == "" || LooksLikeFilename(raw) {
				continue
			}
			if seen[raw] {
				continue
			}
			seen[raw] = true

			candidate, id, errMsg := ValidateCandidate(raw, allowWildcards, opts.Vendor)
			if errMsg == "" {
				continue
			}

			normalized := ""
			if id != nil {
				normalized = candidate
			}

			errs = append(errs, &report.ValidationError{
				File:         sourceFile,
				Line:         lineNo + 1,
				Column:       match[0] + 1,
				RawValue:     raw,
				NormalizedID: normalized,
				Error:        errMsg,
			})
		}
	}

	return errs
}

// trimTrailingPunctuation strips characters a markdown sentence commonly
// wraps an inline code span or bare reference with - closing parens,
// quotes, commas, periods - that the GTS grammar itself never ends on.
func trimTrailingPunctuation(s string) string {
	return strings.TrimRight(s, "`)],.;:\"'")
}
