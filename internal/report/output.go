/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Color/terminal formatting is intentionally excluded from this package -
// that concern belongs to the CLI layer (cmd/gts wraps WriteHuman's output
// in ANSI color when stderr is a TTY).

const bannerWidth = 80

// WriteJSON writes the report as pretty-printed JSON.
func WriteJSON(r *ValidationReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// WriteHuman writes the report in the human-readable terminal format.
func WriteHuman(r *ValidationReport, w io.Writer) error {
	bar := strings.Repeat("=", bannerWidth)
	dash := strings.Repeat("-", bannerWidth)

	fmt.Fprintln(w, bar)
	fmt.Fprintln(w, "GTS DOCUMENTATION VALIDATOR")
	fmt.Fprintln(w, bar)
	fmt.Fprintf(w, "Scanned: %d files   Failed: %d files   Errors: %d\n",
		r.ScannedFiles, r.FailedFiles, r.ErrorsCount())

	if len(r.ScanErrors) > 0 {
		fmt.Fprintln(w, dash)
		fmt.Fprintln(w, "SCAN ERRORS")
		fmt.Fprintln(w, dash)
		for _, se := range r.ScanErrors {
			fmt.Fprintln(w, se.FormatHumanReadable())
		}
	}

	if len(r.ValidationErrors) > 0 {
		fmt.Fprintln(w, dash)
		fmt.Fprintln(w, "VALIDATION ERRORS")
		fmt.Fprintln(w, dash)
		for _, ve := range r.ValidationErrors {
			fmt.Fprintln(w, ve.FormatHumanReadable())
		}
	}

	fmt.Fprintln(w, bar)

	if r.OK {
		fmt.Fprintf(w, "✓ All %d files passed validation\n", r.ScannedFiles)
		return nil
	}

	hasVendorMismatch := false
	hasWildcardError := false
	for _, ve := range r.ValidationErrors {
		if strings.Contains(ve.Error, "Vendor mismatch") {
			hasVendorMismatch = true
		}
		if strings.Contains(ve.Error, "Wildcard") {
			hasWildcardError = true
		}
	}
	hasParseError := !hasVendorMismatch && !hasWildcardError && len(r.ValidationErrors) > 0

	fmt.Fprintf(w, "✗ %d validation error(s), %d scan error(s)\n", r.ErrorsCount(), len(r.ScanErrors))

	if hasParseError {
		fmt.Fprintln(w, "  - Schema IDs must end with ~ (e.g., gts.x.core.type.v1~)")
		fmt.Fprintln(w, "  - Each segment needs 5 parts: vendor.package.namespace.type.version")
		fmt.Fprintln(w, "  - No hyphens allowed, use underscores")
	}
	if hasWildcardError {
		fmt.Fprintln(w, "  - Wildcards (*) only in filter/pattern contexts")
	}
	if hasVendorMismatch {
		fmt.Fprintln(w, "  - Ensure all GTS IDs use the expected vendor")
	}

	return nil
}
