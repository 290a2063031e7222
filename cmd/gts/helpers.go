/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/GlobalTypeSystem/gts-toolchain/internal/report"
)

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// stringList accumulates repeated occurrences of a flag (e.g. `--exclude a
// --exclude b`) into a slice, implementing flag.Value.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// splitList splits a comma-separated flag value into trimmed, non-empty parts.
func splitList(spec string) []string {
	if spec == "" {
		return nil
	}
	parts := strings.Split(spec, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// writeJSON writes a value as JSON to stdout.
func writeJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fatalf("json encoding failed: %v", err)
	}
}

// fatalf prints an error message and exits with status 1.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "gts: "+format+"\n", args...)
	os.Exit(1)
}

// cliError is a typed CLI failure carrying an explicit process exit code.
type cliError struct {
	Code    int
	Message string
	Err     error
}

func (e *cliError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *cliError) Unwrap() error {
	return e.Err
}

func newCliError(code int, message string, err error) *cliError {
	return &cliError{Code: code, Message: message, Err: err}
}

// writeHumanColored renders a validation report the same way report.WriteHuman
// does, wrapping the pass/fail summary line and section headers in ANSI color
// when stderr is a terminal. Color is gated on stderr (not w) per the
// validator's convention of treating stdout as machine-consumable even in
// human mode.
func writeHumanColored(r *report.ValidationReport, w io.Writer) error {
	var buf bytes.Buffer
	if err := report.WriteHuman(r, &buf); err != nil {
		return err
	}

	if !isatty.IsTerminal(os.Stderr.Fd()) {
		_, err := io.Copy(w, &buf)
		return err
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "✓"):
			lines[i] = ansiGreen + line + ansiReset
		case strings.HasPrefix(line, "✗"):
			lines[i] = ansiRed + line + ansiReset
		case line == "SCAN ERRORS" || line == "VALIDATION ERRORS":
			lines[i] = ansiRed + line + ansiReset
		}
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}
