/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/GlobalTypeSystem/gts-toolchain/gts"
	"github.com/GlobalTypeSystem/gts-toolchain/internal/extract"
	"github.com/GlobalTypeSystem/gts-toolchain/internal/genlog"
	"github.com/GlobalTypeSystem/gts-toolchain/internal/report"
	"github.com/GlobalTypeSystem/gts-toolchain/internal/scan"
	"github.com/GlobalTypeSystem/gts-toolchain/internal/walk"
)

// scanConcurrency bounds how many files the validate command scans at once.
const scanConcurrency = 8

const usageText = `GTS toolchain CLI

Usage:
  gts <command> [command-flags]

Commands:
  validate-id         Validate a GTS ID format
  parse-id            Parse a GTS ID into its components
  match-id-pattern    Match a GTS ID against a pattern
  uuid                Generate UUID from a GTS ID
  validate            Scan docs/schemas for GTS ID references and report errors
  generate-instances  Generate instance JSON files from source annotations

Run 'gts <command> -h' for more information on a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "validate-id":
		err = runValidateID(args)
	case "parse-id":
		err = runParseID(args)
	case "match-id-pattern":
		err = runMatchIDPattern(args)
	case "uuid":
		err = runUUID(args)
	case "validate":
		err = runValidate(args)
	case "generate-instances":
		err = runGenerateInstances(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(1)
	}

	if err != nil {
		code := 1
		var ce *cliError
		if errors.As(err, &ce) {
			code = ce.Code
		}
		fmt.Fprintf(os.Stderr, "gts: %v\n", err)
		os.Exit(code)
	}
}

func runValidateID(args []string) error {
	fs := flag.NewFlagSet("validate-id", flag.ExitOnError)
	gtsID := fs.String("gts-id", "", "GTS ID to validate (required)")
	fs.Parse(args)

	if *gtsID == "" {
		return newCliError(1, "--gts-id is required", nil)
	}

	writeJSON(gts.ValidateGtsID(*gtsID))
	return nil
}

func runParseID(args []string) error {
	fs := flag.NewFlagSet("parse-id", flag.ExitOnError)
	gtsID := fs.String("gts-id", "", "GTS ID to parse (required)")
	fs.Parse(args)

	if *gtsID == "" {
		return newCliError(1, "--gts-id is required", nil)
	}

	writeJSON(gts.ParseGtsID(*gtsID))
	return nil
}

func runMatchIDPattern(args []string) error {
	fs := flag.NewFlagSet("match-id-pattern", flag.ExitOnError)
	pattern := fs.String("pattern", "", "Pattern to match against (required)")
	candidate := fs.String("candidate", "", "Candidate GTS ID (required)")
	fs.Parse(args)

	if *pattern == "" || *candidate == "" {
		return newCliError(1, "--pattern and --candidate are required", nil)
	}

	writeJSON(gts.MatchIDPattern(*candidate, *pattern))
	return nil
}

func runUUID(args []string) error {
	fs := flag.NewFlagSet("uuid", flag.ExitOnError)
	gtsID := fs.String("gts-id", "", "GTS ID (required)")
	fs.Parse(args)

	if *gtsID == "" {
		return newCliError(1, "--gts-id is required", nil)
	}

	writeJSON(gts.IDToUUID(*gtsID))
	return nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var source, exclude, skipToken stringList
	fs.Var(&source, "source", "Root path to scan (repeatable)")
	fs.Var(&exclude, "exclude", "Exclude glob pattern (repeatable)")
	fs.Var(&skipToken, "skip-token", "Extra bad-example marker to skip (repeatable)")
	vendor := fs.String("vendor", "", "Require every discovered GTS ID to use this vendor")
	vendors := fs.String("vendors", "", "Comma-separated allow-list of acceptable vendors")
	scanKeys := fs.Bool("scan-keys", false, "Also validate JSON/YAML object keys as candidate IDs")
	// heuristic widens candidate discovery for diagnostics; the normalizer's
	// prefilter (LooksLikeCandidate) already applies the permissive match,
	// so this flag is accepted for CLI parity and has no further effect.
	_ = fs.Bool("heuristic", false, "Use permissive candidate discovery for diagnostics")
	jsonOut := fs.Bool("json", false, "Emit the report as JSON instead of the human summary")
	maxFileSize := fs.Int64("max-file-size", walk.DefaultMaxFileSize, "Maximum bytes per scanned file")
	maxFiles := fs.Int("max-files", walk.DefaultMaxFiles, "Maximum number of files scanned")
	maxTotalBytes := fs.Int64("max-total-bytes", walk.DefaultMaxTotalBytes, "Maximum cumulative bytes scanned")
	maxDepth := fs.Int("max-depth", walk.DefaultMaxDepth, "Maximum directory depth")
	followLinks := fs.Bool("follow-links", false, "Follow symbolic links while walking")
	verbose := fs.Int("verbose", 0, "Verbosity level (0=silent, 1=info, 2=debug)")
	fs.Parse(args)

	roots := []string(source)
	if len(roots) == 0 {
		roots = []string{"."}
	}

	log := genlog.New(*verbose)
	policy := scan.AnyVendor()
	switch {
	case *vendor != "":
		policy = scan.MustMatchVendor(*vendor)
	case *vendors != "":
		policy = scan.AllowListVendors(splitList(*vendors))
	}

	cfg := walk.Config{
		Roots:         roots,
		Exclude:       []string(exclude),
		MaxFileSize:   *maxFileSize,
		MaxFiles:      *maxFiles,
		MaxTotalBytes: *maxTotalBytes,
		MaxDepth:      *maxDepth,
		FollowLinks:   *followLinks,
	}

	walkResult, err := walk.Walk(cfg)
	if err != nil {
		return newCliError(1, fmt.Sprintf("walking %s", strings.Join(roots, ",")), err)
	}

	rpt := &report.ValidationReport{
		ScanErrors: walkResult.ScanErrors,
	}

	opts := scan.Options{ScanKeys: *scanKeys, Vendor: policy, SkipTokens: []string(skipToken)}

	// Each file is scanned independently, so the walk is fanned out with a
	// bounded worker pool rather than read and scanned one at a time.
	// Results are collected into a slot per file and merged in walk order
	// afterward, keeping the report's file ordering deterministic regardless
	// of which goroutine finishes first.
	results := make([]fileScanResult, len(walkResult.Files))
	var g errgroup.Group
	g.SetLimit(scanConcurrency)
	for i, file := range walkResult.Files {
		i, file := i, file
		g.Go(func() error {
			log.Debugf("scanning %s", file)
			results[i] = scanOneFile(file, cfg.MaxFileSize, opts)
			return nil
		})
	}
	g.Wait()

	for _, res := range results {
		if res.failed {
			rpt.FailedFiles++
			rpt.ScanErrors = append(rpt.ScanErrors, res.scanErr)
			continue
		}
		rpt.ScannedFiles++
		rpt.ValidationErrors = append(rpt.ValidationErrors, res.errs...)
		rpt.ScanErrors = append(rpt.ScanErrors, res.scanErrs...)
	}

	rpt.Finalize()

	var writeErr error
	if *jsonOut {
		writeErr = report.WriteJSON(rpt, os.Stdout)
	} else {
		writeErr = writeHumanColored(rpt, os.Stdout)
	}
	if writeErr != nil {
		return newCliError(1, "writing report", writeErr)
	}

	if !rpt.OK {
		return newCliError(1, fmt.Sprintf("%d validation error(s), %d scan error(s)", rpt.ErrorsCount(), len(rpt.ScanErrors)), nil)
	}
	return nil
}

func runGenerateInstances(args []string) error {
	fs := flag.NewFlagSet("generate-instances", flag.ExitOnError)
	source := fs.String("source", ".", "Source file or directory to scan for annotations")
	output := fs.String("output", "", "Output directory override for generated instances")
	var exclude stringList
	fs.Var(&exclude, "exclude", "Exclude glob pattern (repeatable)")
	verbose := fs.Int("verbose", 0, "Verbosity level (0=silent, 1=info, 2=debug)")
	fs.Parse(args)

	log := genlog.New(*verbose)

	result, err := extract.GenerateInstancesFromSource(*source, *output, []string(exclude), log)
	if err != nil {
		return newCliError(1, "generating instances", err)
	}

	writeJSON(map[string]any{
		"files_scanned":         result.FilesScanned,
		"files_skipped":         result.FilesSkipped,
		"instances_generated":   result.InstancesGenerated,
		"generated_composed_id": result.GeneratedComposedID,
		"generated_path":        result.GeneratedPath,
	})
	return nil
}

// fileScanResult is one file's contribution to a validate run, computed
// independently of every other file so the caller can fan the work out
// across a bounded worker pool and merge results back in walk order.
type fileScanResult struct {
	failed   bool
	scanErr  *report.ScanError
	errs     []*report.ValidationError
	scanErrs []*report.ScanError
}

func scanOneFile(file string, maxFileSize int64, opts scan.Options) fileScanResult {
	content, readErr := walk.ReadFileBounded(file, maxFileSize)
	if readErr != nil {
		return fileScanResult{failed: true, scanErr: &report.ScanError{
			File: file, Kind: report.ScanErrorIO, Message: readErr.Error(),
		}}
	}

	switch extOf(file) {
	case ".json":
		errs, scanErr := scan.ScanJSON(content, file, opts)
		if scanErr != nil {
			return fileScanResult{failed: true, scanErr: scanErr}
		}
		return fileScanResult{errs: errs}
	case ".yaml", ".yml":
		errs, scanErrs := scan.ScanYAML(content, file, opts)
		return fileScanResult{errs: errs, scanErrs: scanErrs}
	case ".md":
		return fileScanResult{errs: scan.ScanMarkdown(content, file, opts)}
	default:
		// walk.FilePatterns already restricts discovery to the extensions
		// handled above; this is unreachable in practice.
		return fileScanResult{}
	}
}

func extOf(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(path[idx:])
}
