/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

// Package report holds the validator's result types: per-document validation
// errors, per-file scan errors, and the aggregate report produced by a run.
package report

import "fmt"

// ScanErrorKind classifies a file-level failure that prevented a file from
// being scanned at all. Modeled as a plain string enum, matching the
// gts package's preference for comparable value types over interfaces
// (see gts.InvalidGtsIDError).
type ScanErrorKind string

const (
	ScanErrorIO                   ScanErrorKind = "io_error"
	ScanErrorFileTooLarge         ScanErrorKind = "file_too_large"
	ScanErrorJSONParse            ScanErrorKind = "json_parse_error"
	ScanErrorYAMLParse            ScanErrorKind = "yaml_parse_error"
	ScanErrorInvalidEncoding      ScanErrorKind = "invalid_encoding"
	ScanErrorOutsideRepository    ScanErrorKind = "outside_repository"
	ScanErrorLimitExceeded        ScanErrorKind = "limit_exceeded"
	ScanErrorWalk                 ScanErrorKind = "walk_error"
	ScanErrorInvalidExcludePattern ScanErrorKind = "invalid_exclude_pattern"
)

// ScanError represents a file that could not be scanned at all: unreadable,
// oversized, malformed beyond recovery, or excluded from the sandbox boundary.
// A non-empty set of these means the validator did not fully cover the
// repository and CI should treat the run as failed regardless of
// ValidationErrors.
type ScanError struct {
	File    string        `json:"file"`
	Kind    ScanErrorKind `json:"kind"`
	Message string        `json:"message"`
}

// FormatHumanReadable renders the error the way a terminal user expects:
// "{file}: [scan error] {message}".
func (e *ScanError) FormatHumanReadable() string {
	return fmt.Sprintf("%s: [scan error] %s", e.File, e.Message)
}

func (e *ScanError) Error() string {
	return e.FormatHumanReadable()
}

// ValidationError represents a single malformed or policy-violating GTS ID
// found while scanning a document.
type ValidationError struct {
	File          string `json:"file"`
	Line          int    `json:"line,omitempty"`
	Column        int    `json:"column,omitempty"`
	JSONPath      string `json:"json_path,omitempty"`
	RawValue      string `json:"raw_value"`
	NormalizedID  string `json:"normalized_id,omitempty"`
	Error         string `json:"error"`
	Context       string `json:"context,omitempty"`
}

// FormatHumanReadable renders one of three exact shapes depending on which
// location information is available:
//
//	markdown: "{file}:{line}:{column}: {error} [{raw_value}]"
//	json/yaml: "{file}: {error} [{raw_value}] (at {json_path})"
//	fallback: "{file}: {error} [{raw_value}]"
func (e *ValidationError) FormatHumanReadable() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("%s:%d:%d: %s [%s]", e.File, e.Line, e.Column, e.Error, e.RawValue)
	}
	if e.JSONPath != "" {
		return fmt.Sprintf("%s: %s [%s] (at %s)", e.File, e.Error, e.RawValue, e.JSONPath)
	}
	return fmt.Sprintf("%s: %s [%s]", e.File, e.Error, e.RawValue)
}
