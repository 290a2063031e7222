/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/GlobalTypeSystem/gts-toolchain/internal/emit"
	"github.com/GlobalTypeSystem/gts-toolchain/internal/genlog"
)

// GenerateResult summarizes one generate-instances run.
type GenerateResult struct {
	FilesScanned        int
	FilesSkipped        int
	InstancesGenerated  int
	GeneratedComposedID []string
	GeneratedPath       []string
}

// GenerateInstancesFromSource scans source for #[gts_well_known_instance]
// annotations and writes one instance JSON file per annotation.
//
// Duplicate instance IDs and duplicate output paths are both hard errors
// reported with both colliding locations before returning. Every parse
// error across the whole source tree is collected and reported together,
// rather than stopping at the first one.
func GenerateInstancesFromSource(source, output string, excludePatterns []string, log *genlog.Logger) (*GenerateResult, error) {
	log.Infof("Scanning source files for instances in: %s", source)

	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("source path does not exist: %s", source)
	}

	sourceCanonical, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("resolving source path: %w", err)
	}

	sandboxRoot, err := computeSandboxRoot(sourceCanonical, info.IsDir(), output)
	if err != nil {
		return nil, err
	}

	var allInstances []*ParsedInstance
	var parseErrors []string

	scanned, skipped, err := walkSourceFiles(source, excludePatterns, log, func(path, content string) error {
		instances, extractErr := ExtractInstancesFromSource(content, path)
		if extractErr != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("%s: %s", path, extractErr))
			return nil
		}
		allInstances = append(allInstances, instances...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(parseErrors) > 0 {
		sort.Strings(parseErrors)
		parseErrors = dedupeStrings(parseErrors)
		return nil, fmt.Errorf("instance generation failed with %d parse error(s):\n%s", len(parseErrors), strings.Join(parseErrors, "\n"))
	}

	if err := checkDuplicateIDs(allInstances, log); err != nil {
		return nil, err
	}
	if err := checkDuplicateOutputPaths(allInstances, output, sandboxRoot, log); err != nil {
		return nil, err
	}

	result := &GenerateResult{FilesScanned: scanned, FilesSkipped: skipped}
	for _, inst := range allInstances {
		path, emitErr := emit.WriteInstance(toEmitInstance(inst), output, sandboxRoot)
		if emitErr != nil {
			return nil, fmt.Errorf("%s: %w", inst.SourceFile, emitErr)
		}
		composed := inst.Attrs.SchemaID + inst.Attrs.InstanceSegment
		log.Infof("  Generated instance: %s @ %s", composed, path)
		result.InstancesGenerated++
		result.GeneratedComposedID = append(result.GeneratedComposedID, composed)
		result.GeneratedPath = append(result.GeneratedPath, path)
	}

	return result, nil
}

func toEmitInstance(inst *ParsedInstance) emit.Instance {
	return emit.Instance{
		DirPath:         inst.Attrs.DirPath,
		SchemaID:        inst.Attrs.SchemaID,
		InstanceSegment: inst.Attrs.InstanceSegment,
		JSONBody:        inst.JSONBody,
		SourceFile:      inst.SourceFile,
	}
}

// computeSandboxRoot mirrors the writer's sandbox boundary rule: an
// explicit --output is the trusted root; otherwise the root is the source
// file's parent directory, or the source directory itself.
func computeSandboxRoot(sourceCanonical string, sourceIsDir bool, output string) (string, error) {
	if output != "" {
		if _, err := os.Stat(output); err != nil {
			if err := os.MkdirAll(output, 0o755); err != nil {
				return "", fmt.Errorf("creating output directory %s: %w", output, err)
			}
		}
		abs, err := filepath.Abs(output)
		if err != nil {
			return "", fmt.Errorf("resolving output path: %w", err)
		}
		return abs, nil
	}
	if sourceIsDir {
		return sourceCanonical, nil
	}
	return filepath.Dir(sourceCanonical), nil
}

// checkDuplicateIDs hard-errors if two annotations share the same composed
// instance ID, reporting both locations.
func checkDuplicateIDs(instances []*ParsedInstance, log *genlog.Logger) error {
	seen := make(map[string]string, len(instances))
	var errs []string

	for _, inst := range instances {
		composed := inst.Attrs.SchemaID + inst.Attrs.InstanceSegment
		if prev, ok := seen[composed]; ok {
			errs = append(errs, fmt.Sprintf("duplicate instance ID '%s':\n  first: %s\n  second: %s:%d", composed, prev, inst.SourceFile, inst.Line))
		} else {
			seen[composed] = fmt.Sprintf("%s:%d", inst.SourceFile, inst.Line)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	sort.Strings(errs)
	return fmt.Errorf("instance generation failed: %d duplicate instance ID(s):\n%s", len(errs), strings.Join(errs, "\n"))
}

// checkDuplicateOutputPaths hard-errors if two annotations would write the
// same output file.
func checkDuplicateOutputPaths(instances []*ParsedInstance, output, sandboxRoot string, log *genlog.Logger) error {
	seen := make(map[string]string, len(instances))
	var errs []string

	for _, inst := range instances {
		composed := inst.Attrs.SchemaID + inst.Attrs.InstanceSegment
		fileRel := filepath.Join(inst.Attrs.DirPath, composed+".instance.json")

		var rawPath string
		if output != "" {
			rawPath = filepath.Join(output, fileRel)
		} else {
			srcDir := filepath.Dir(inst.SourceFile)
			if srcDir == "" || srcDir == "." {
				srcDir = sandboxRoot
			}
			rawPath = filepath.Join(srcDir, fileRel)
		}

		key := emit.OutputPathKey(rawPath)
		if prev, ok := seen[key]; ok {
			errs = append(errs, fmt.Sprintf("duplicate output path '%s':\n  first: %s\n  second: %s:%d", rawPath, prev, inst.SourceFile, inst.Line))
		} else {
			seen[key] = fmt.Sprintf("%s:%d", inst.SourceFile, inst.Line)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	sort.Strings(errs)
	return fmt.Errorf("instance generation failed: %d duplicate output path(s):\n%s", len(errs), strings.Join(errs, "\n"))
}

func dedupeStrings(sorted []string) []string {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
