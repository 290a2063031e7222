/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package scan

import "strings"

// BadExampleMarkers flag a line as a deliberately
// invalid example, never validated as a real GTS ID candidate.
var BadExampleMarkers = []string{"❌", "invalid:", "bad:"}

// WildcardContextMarkers flag a line as a filter/pattern context, where a
// trailing "*" wildcard is expected rather than treated as malformed.
var WildcardContextMarkers = []string{"pattern:", "filter:"}

// FenceSkipInfoStrings are fenced-code-block info strings (lowercased) whose
// body illustrates ID grammar rather than real artifacts, and so is never
// scanned for candidates.
var FenceSkipInfoStrings = map[string]bool{
	"ebnf":    true,
	"regex":   true,
	"bnf":     true,
	"abnf":    true,
	"grammar": true,
}

// hasMarker reports whether text contains any of the candidate markers,
// comparing both sides lowercased.
func hasMarker(text string, markers []string) bool {
	lower := strings.ToLower(text)
	for _, m := range markers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// IsBadExampleContext reports whether line should be treated as a
// deliberately-invalid illustration and skipped.
func IsBadExampleContext(line string) bool {
	return hasMarker(line, BadExampleMarkers)
}

// IsWildcardContext reports whether line should be treated as a
// filter/pattern context, where wildcards are allowed.
func IsWildcardContext(line string) bool {
	return hasMarker(line, WildcardContextMarkers)
}
