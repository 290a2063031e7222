/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package scan

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/GlobalTypeSystem/gts-toolchain/internal/report"
)

// Options configures a content scan.
type Options struct {
	// ScanKeys also validates object keys as candidate GTS IDs (never with
	// wildcards), not just their values.
	ScanKeys bool
	Vendor   VendorPolicy
	// SkipTokens extends BadExampleMarkers with caller-supplied markers
	// (the validator's --skip-token flag), for documentation conventions
	// the fixed vocabulary doesn't anticipate.
	SkipTokens []string
}

// ScanJSON parses content as JSON and walks it for GTS ID candidates. A
// decode failure is reported as a ScanError rather than a ValidationError:
// it means the file could not be scanned at all.
func ScanJSON(content, sourceFile string, opts Options) ([]*report.ValidationError, *report.ScanError) {
	var value any
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return nil, &report.ScanError{
			File:    sourceFile,
			Kind:    report.ScanErrorJSONParse,
			Message: err.Error(),
		}
	}

	var errs []*report.ValidationError
	walkJSONValue(value, "", sourceFile, opts, &errs)
	return errs, nil
}

// walkJSONValue recurses through a decoded JSON document, validating every
// string that looks like a GTS ID candidate. Object keys ending in
// ".x-gts-ref" permit a trailing wildcard; everything else does not. Map
// iteration order is sorted so results are deterministic across runs.
func walkJSONValue(value any, jsonPath, sourceFile string, opts Options, errs *[]*report.ValidationError) {
	switch v := value.(type) {
	case string:
		checkJSONCandidate(v, jsonPath, sourceFile, opts, errs)

	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			childPath := jsonPath + "." + k
			if opts.ScanKeys {
				checkJSONCandidate(k, childPath+".<key>", sourceFile, opts, errs)
			}
			walkJSONValue(v[k], childPath, sourceFile, opts, errs)
		}

	case []any:
		for i, item := range v {
			walkJSONValue(item, fmt.Sprintf("%s[%d]", jsonPath, i), sourceFile, opts, errs)
		}
	}
}

// checkJSONCandidate applies the same pre-filters the validator's other
// formats use before attempting a full parse: skip x-gts-ref JSON-pointer
// and wildcard shorthands, skip values shaped like ordinary filenames, and
// skip anything that doesn't even look like a GTS ID.
func checkJSONCandidate(s, jsonPath, sourceFile string, opts Options, errs *[]*report.ValidationError) {
	isXGtsRef := strings.HasSuffix(jsonPath, ".x-gts-ref")

	if isXGtsRef && IsSkippableXGtsRefValue(s) {
		return
	}
	if LooksLikeFilename(s) {
		return
	}
	if !LooksLikeCandidate(s) {
		return
	}

	candidate, id, errMsg := ValidateCandidate(s, isXGtsRef, opts.Vendor)
	if errMsg == "" {
		return
	}

	normalized := ""
	if id != nil {
		normalized = candidate
	}

	*errs = append(*errs, &report.ValidationError{
		File:         sourceFile,
		JSONPath:     jsonPath,
		RawValue:     s,
		NormalizedID: normalized,
		Error:        errMsg,
	})
}
