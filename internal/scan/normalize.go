/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package scan

import (
	"strings"

	"github.com/GlobalTypeSystem/gts-toolchain/gts"
)

// NormalizeCandidate strips the JSON-Schema-only "gts://" URI prefix so the
// remainder can be validated with the same grammar used for bare IDs.
func NormalizeCandidate(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), gts.GtsURIPrefix)
}

// LooksLikeFilename reports whether a string that happens to contain a "~"
// is more likely an ordinary filename (e.g. "report~.final.md") than a
// chained GTS ID, so it can be skipped instead of reported as malformed.
func LooksLikeFilename(s string) bool {
	if strings.HasPrefix(s, gts.GtsURIPrefix) {
		return false
	}
	if !strings.Contains(s, "~.") {
		return false
	}
	return strings.LastIndex(s, ".") > strings.LastIndex(s, "~")
}

// IsSkippableXGtsRefValue reports whether an "x-gts-ref" schema field's
// value is a JSON-pointer-style reference ("/definitions/foo") or the bare
// wildcard "*", neither of which is itself a GTS ID to validate.
func IsSkippableXGtsRefValue(value string) bool {
	return strings.HasPrefix(value, "/") || value == "*"
}

// LooksLikeCandidate reports whether s is shaped like something worth
// attempting to validate as a GTS ID: it starts with the URI prefix or the
// bare "gts." prefix.
func LooksLikeCandidate(s string) bool {
	return strings.HasPrefix(s, gts.GtsURIPrefix) || strings.HasPrefix(s, gts.GtsPrefix)
}

// ValidateCandidate normalizes and validates raw as a GTS ID, applying
// allowWildcards and the vendor policy. It returns the normalized candidate
// string, the parsed ID whenever the grammar accepted it (also when the
// vendor policy then rejects it), and a human-readable error message on
// failure (empty on success).
func ValidateCandidate(raw string, allowWildcards bool, policy VendorPolicy) (candidate string, id *gts.GtsID, errMsg string) {
	candidate = NormalizeCandidate(raw)

	id, err := gts.NewGtsIDAllowWildcards(candidate, allowWildcards)
	if err != nil {
		return candidate, nil, err.Error()
	}

	if len(id.Segments) > 0 {
		if ok, reason := policy.Check(id.Segments[0].Vendor); !ok {
			return candidate, id, reason
		}
	}

	return candidate, id, ""
}
