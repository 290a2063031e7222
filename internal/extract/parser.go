/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ParsedInstance is one validated #[gts_well_known_instance] annotation,
// ready for file generation.
type ParsedInstance struct {
	Attrs      InstanceAttrs
	JSONBody   string
	SourceFile string
	Line       int
}

// annotationRegex matches #[gts_well_known_instance(...)] const NAME: &str
// = <literal>;. Capture group 1 is the attribute body, group 2 is the
// string literal token (raw or regular).
var annotationRegex = regexp.MustCompile(
	`#\[(?:gts_macros::)?gts_well_known_instance\(([\s\S]*?)\)\]` +
		`(?:\s*#\[[^\]]*\])*` +
		`\s*` +
		`(?:pub\s*(?:\([^)]*\)\s*)?)?` +
		`const\s+\w+\s*:\s*&\s*(?:'static\s+)?str\s*=\s*` +
		`(r#*"[\s\S]*?"#*|"(?:[^"\\]|\\.)*")` +
		`\s*;`,
)

var (
	staticItemRegex = regexp.MustCompile(
		`(?s)#\[(?:gts_macros::)?gts_well_known_instance\(.*?\)\]\s*(?:#\[[^\]]*\]\s*)*(?:pub\s*(?:\([^)]*\)\s*)?)?static\s`,
	)
	concatMacroRegex = regexp.MustCompile(
		`(?s)#\[(?:gts_macros::)?gts_well_known_instance\(.*?\)\]\s*(?:#\[[^\]]*\]\s*)*(?:pub\s*(?:\([^)]*\)\s*)?)?const\s+\w+\s*:\s*&\s*(?:'static\s+)?str\s*=\s*concat\s*!`,
	)
	wrongTypeRegex = regexp.MustCompile(
		`(?s)#\[(?:gts_macros::)?gts_well_known_instance\(.*?\)\]\s*(?:#\[[^\]]*\]\s*)*(?:pub\s*(?:\([^)]*\)\s*)?)?const\s+\w+\s*:\s*&\s*(?:'static\s+)?([A-Za-z][A-Za-z0-9_]*)\b`,
	)
)

// ExtractInstancesFromSource extracts every #[gts_well_known_instance]
// annotated const in content.
//
// Three outcomes:
//  1. No annotation token present (preflight negative) -> (nil, nil).
//  2. An annotation token is present but cannot be parsed -> error.
//  3. Parses cleanly -> the parsed instances.
func ExtractInstancesFromSource(content, sourceFile string) ([]*ParsedInstance, error) {
	if !PreflightScan(content) {
		return nil, nil
	}

	lineOffsets := BuildLineOffsets(content)
	stripped := StripComments(content)

	var instances []*ParsedInstance
	for _, m := range annotationRegex.FindAllStringSubmatchIndex(stripped, -1) {
		fullStart := m[0]
		line := ByteOffsetToLine(fullStart, lineOffsets)

		attrBody := stripped[m[2]:m[3]]
		attrs, err := ParseInstanceAttrs(attrBody, sourceFile, line)
		if err != nil {
			return nil, err
		}

		rawLiteral := stripped[m[4]:m[5]]
		jsonBody, err := DecodeStringLiteral(rawLiteral)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: failed to decode string literal: %w", sourceFile, line, err)
		}

		if err := validateJSONBody(jsonBody, sourceFile, line); err != nil {
			return nil, err
		}

		instances = append(instances, &ParsedInstance{
			Attrs:      attrs,
			JSONBody:   jsonBody,
			SourceFile: sourceFile,
			Line:       line,
		})
	}

	if err := checkUnsupportedForms(stripped, sourceFile, lineOffsets); err != nil {
		return nil, err
	}

	if len(instances) == 0 {
		needleLine := findNeedleLine(content, lineOffsets)
		return nil, fmt.Errorf(
			"%s:%d: `#[gts_well_known_instance]` annotation found but could not be parsed. "+
				"The annotation must be on a `const NAME: &str = <literal>;` item. "+
				"Check for typos, unsupported item kinds, or missing required attributes",
			sourceFile, needleLine,
		)
	}

	return instances, nil
}

// validateJSONBody requires jsonBody to decode to a JSON object (an empty one is accepted)
// without an "id" field (the id is always injected at generation time).
func validateJSONBody(jsonBody, sourceFile string, line int) error {
	var raw any
	if err := json.Unmarshal([]byte(jsonBody), &raw); err != nil {
		return fmt.Errorf("%s:%d: malformed JSON in instance body: %w", sourceFile, line, err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("%s:%d: instance JSON body must be a JSON object {...}, got %s. "+
			"Arrays, strings, numbers, booleans, and null are not valid instance bodies",
			sourceFile, line, jsonTypeName(raw))
	}

	if _, hasID := obj["id"]; hasID {
		return fmt.Errorf(`%s:%d: instance JSON body must not contain an "id" field. `+
			`The id is automatically injected from schema_id + instance_segment. `+
			`Remove the "id" field from the JSON body`, sourceFile, line)
	}

	return nil
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

// checkUnsupportedForms detects known unsupported annotation forms
// (static items, concat!() bodies, non-&str consts) and errors with an
// actionable message naming the first offending location.
func checkUnsupportedForms(content, sourceFile string, lineOffsets []int) error {
	if loc := staticItemRegex.FindStringIndex(content); loc != nil {
		line := ByteOffsetToLine(loc[0], lineOffsets)
		return fmt.Errorf("%s:%d: `#[gts_well_known_instance]` cannot be applied to `static` items. Use `const NAME: &str = ...` instead", sourceFile, line)
	}
	if loc := concatMacroRegex.FindStringIndex(content); loc != nil {
		line := ByteOffsetToLine(loc[0], lineOffsets)
		return fmt.Errorf(`%s:%d: concat!() is not supported as the const value for #[gts_well_known_instance]. Use a raw string literal r#"..."# instead`, sourceFile, line)
	}
	if m := wrongTypeRegex.FindStringSubmatchIndex(content); m != nil {
		ty := content[m[2]:m[3]]
		if ty != "str" {
			line := ByteOffsetToLine(m[0], lineOffsets)
			return fmt.Errorf("%s:%d: `#[gts_well_known_instance]` requires `const NAME: &str`. The annotated const must have type `&str`", sourceFile, line)
		}
	}
	return nil
}

// BuildLineOffsets builds a byte-offset-to-line-start index: offsets[0] is
// always 0 (line 1 starts at byte 0).
func BuildLineOffsets(content string) []int {
	offsets := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// ByteOffsetToLine converts a byte offset to a 1-based line number.
func ByteOffsetToLine(offset int, lineOffsets []int) int {
	i := sort.SearchInts(lineOffsets, offset)
	if i < len(lineOffsets) && lineOffsets[i] == offset {
		return i + 1
	}
	return i
}

// findNeedleLine locates the first occurrence of either annotation needle
// (bare or qualified, whichever comes earlier) for use in the "found but
// could not be parsed" error.
func findNeedleLine(content string, lineOffsets []int) int {
	pos := strings.Index(content, needleBare)
	if q := strings.Index(content, needleQual); q >= 0 && (pos < 0 || q < pos) {
		pos = q
	}
	if pos < 0 {
		return 1
	}
	return ByteOffsetToLine(pos, lineOffsets)
}
