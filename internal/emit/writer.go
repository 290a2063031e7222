/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

// Package emit writes the JSON instance files the annotation extractor
// discovers: one file per validated annotation, with the composed GTS ID
// injected as the "id" field.
package emit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GlobalTypeSystem/gts-toolchain/internal/sandbox"
)

// Instance is the subset of a parsed annotation the emitter needs. It is
// deliberately decoupled from internal/extract.ParsedInstance so this
// package has no dependency on the extractor.
type Instance struct {
	DirPath         string
	SchemaID        string
	InstanceSegment string
	JSONBody        string
	SourceFile      string
}

// ComposedID returns the instance's full GTS ID (schema_id + instance_segment).
func (i Instance) ComposedID() string {
	return i.SchemaID + i.InstanceSegment
}

// WriteInstance validates the output path against the sandbox boundary
// before touching the filesystem, then writes "<dir_path>/<id>.instance.json"
// with the composed id injected into the decoded JSON body. It returns the
// path written.
func WriteInstance(inst Instance, output, sandboxRoot string) (string, error) {
	composed := inst.ComposedID()
	fileRel := filepath.Join(inst.DirPath, composed+".instance.json")

	var rawOutputPath string
	if output != "" {
		rawOutputPath = filepath.Join(output, fileRel)
	} else {
		srcDir := filepath.Dir(inst.SourceFile)
		if srcDir == "" || srcDir == "." {
			srcDir = sandboxRoot
		}
		rawOutputPath = filepath.Join(srcDir, fileRel)
	}

	outputCanonical, err := sandbox.SafeCanonicalizeNonexistent(rawOutputPath)
	if err != nil {
		return "", fmt.Errorf("security error - dir_path '%s' in %s: %w", inst.DirPath, inst.SourceFile, err)
	}

	if !sandbox.IsInside(outputCanonical, sandboxRoot) {
		return "", fmt.Errorf(
			"security error in %s - dir_path '%s' escapes sandbox boundary. Resolved to: %s, but must be within: %s",
			inst.SourceFile, inst.DirPath, outputCanonical, sandboxRoot,
		)
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(inst.JSONBody), &obj); err != nil {
		return "", fmt.Errorf("re-decoding instance body: %w", err)
	}
	obj["id"] = composed

	encoded, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding instance JSON: %w", err)
	}

	if parent := filepath.Dir(rawOutputPath); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory %s: %w", parent, err)
		}
	}
	if err := os.WriteFile(rawOutputPath, encoded, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", rawOutputPath, err)
	}

	return rawOutputPath, nil
}

// OutputPathKey is the canonical key used to detect two annotations
// claiming the same output path, normalizing path separators so the same
// file referenced two different ways ("a/b" vs "a/./b") still collides.
func OutputPathKey(path string) string {
	return filepath.Clean(strings.ReplaceAll(path, `\`, "/"))
}
