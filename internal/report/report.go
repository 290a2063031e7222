/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package report

// ValidationReport is the result of a validation run.
//
// CI pipelines must check both ValidationErrors and ScanErrors. A non-empty
// ScanErrors means the validator did not fully run - treat this as a build
// failure regardless of ValidationErrors.
type ValidationReport struct {
	ScannedFiles     int                `json:"scanned_files"`
	FailedFiles      int                `json:"failed_files"`
	OK               bool               `json:"ok"`
	ValidationErrors []*ValidationError `json:"validation_errors"`
	ScanErrors       []*ScanError       `json:"scan_errors"`
}

// FilesAttempted is the total number of files attempted (scanned + failed).
func (r *ValidationReport) FilesAttempted() int {
	return r.ScannedFiles + r.FailedFiles
}

// ErrorsCount is the number of validation errors found.
func (r *ValidationReport) ErrorsCount() int {
	return len(r.ValidationErrors)
}

// Finalize sets OK based on the accumulated errors. Call once all files have
// been scanned.
func (r *ValidationReport) Finalize() {
	r.OK = len(r.ValidationErrors) == 0 && len(r.ScanErrors) == 0
}
