/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/GlobalTypeSystem/gts-toolchain/gts"
)

// InstanceAttrs holds the parsed and validated attributes of a
// #[gts_well_known_instance(...)] annotation.
type InstanceAttrs struct {
	DirPath         string
	SchemaID        string
	InstanceSegment string
}

var (
	attrKeyRegex = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*=`)
	knownAttrs   = map[string]bool{"dir_path": true, "schema_id": true, "instance_segment": true}
)

// ParseInstanceAttrs parses and validates the body of a
// #[gts_well_known_instance(...)] annotation: all three attributes must be
// present exactly once, schema_id must carry the type marker, and the
// composed schema_id+instance_segment must itself be a valid GTS ID.
func ParseInstanceAttrs(attrBody, sourceFile string, line int) (InstanceAttrs, error) {
	if err := checkDuplicateAttrKeys(attrBody, sourceFile, line); err != nil {
		return InstanceAttrs{}, err
	}

	dirPath, ok := extractStrAttr(attrBody, "dir_path")
	if !ok {
		return InstanceAttrs{}, fmt.Errorf("%s:%d: missing required attribute 'dir_path' in #[gts_well_known_instance]", sourceFile, line)
	}
	schemaID, ok := extractStrAttr(attrBody, "schema_id")
	if !ok {
		return InstanceAttrs{}, fmt.Errorf("%s:%d: missing required attribute 'schema_id' in #[gts_well_known_instance]", sourceFile, line)
	}
	instanceSegment, ok := extractStrAttr(attrBody, "instance_segment")
	if !ok {
		return InstanceAttrs{}, fmt.Errorf("%s:%d: missing required attribute 'instance_segment' in #[gts_well_known_instance]", sourceFile, line)
	}

	if len(schemaID) == 0 || schemaID[len(schemaID)-1] != '~' {
		return InstanceAttrs{}, fmt.Errorf("%s:%d: schema_id '%s' must end with '~' (type marker). Instance IDs are composed as schema_id + instance_segment", sourceFile, line, schemaID)
	}
	if len(instanceSegment) > 0 && instanceSegment[len(instanceSegment)-1] == '~' {
		return InstanceAttrs{}, fmt.Errorf("%s:%d: instance_segment '%s' must not end with '~' -- that is a schema/type marker, not valid in an instance segment", sourceFile, line, instanceSegment)
	}
	if instanceSegment == "*" {
		return InstanceAttrs{}, fmt.Errorf("%s:%d: instance_segment must not be a bare wildcard '*'. Wildcards are not valid in generated instance IDs", sourceFile, line)
	}

	composed := schemaID + instanceSegment
	if _, err := gts.NewGtsID(composed); err != nil {
		return InstanceAttrs{}, fmt.Errorf("%s:%d: invalid composed instance ID '%s': %s", sourceFile, line, composed, err.Error())
	}

	return InstanceAttrs{DirPath: dirPath, SchemaID: schemaID, InstanceSegment: instanceSegment}, nil
}

// checkDuplicateAttrKeys errors if any known attribute key appears more
// than once in attrBody. String literal content is blanked first so a
// value containing "key =" text (e.g. dir_path = "schema_id = x") can't
// trigger a false positive.
func checkDuplicateAttrKeys(attrBody, sourceFile string, line int) error {
	stripped := blankStringLiterals(attrBody)
	seen := make(map[string]bool, len(knownAttrs))
	for _, m := range attrKeyRegex.FindAllStringSubmatch(stripped, -1) {
		key := m[1]
		if !knownAttrs[key] {
			continue
		}
		if seen[key] {
			return fmt.Errorf("%s:%d: duplicate attribute '%s' in #[gts_well_known_instance]. Each attribute must appear exactly once", sourceFile, line, key)
		}
		seen[key] = true
	}
	return nil
}

// blankStringLiterals replaces the content of every string literal in s
// with spaces, preserving byte positions. Handles regular "..." and raw
// r#"..."# literals.
func blankStringLiterals(s string) string {
	b := []byte(s)
	out := append([]byte(nil), b...)
	n := len(b)
	pos := 0

	for pos < n {
		if b[pos] == 'r' {
			hashEnd := pos + 1
			for hashEnd < n && b[hashEnd] == '#' {
				hashEnd++
			}
			hashes := hashEnd - (pos + 1)
			if hashEnd < n && b[hashEnd] == '"' {
				contentStart := hashEnd + 1
				scan := contentStart
				matched := false
				for scan < n {
					if b[scan] == '"' {
						close := scan + 1
						count := 0
						for close < n && b[close] == '#' && count < hashes {
							count++
							close++
						}
						if count == hashes {
							for k := contentStart; k < scan; k++ {
								if out[k] < 0x80 {
									out[k] = ' '
								}
							}
							pos = close
							matched = true
							break
						}
					}
					scan++
				}
				if matched {
					continue
				}
			}
		}
		if b[pos] == '"' {
			pos++
			for pos < n {
				if b[pos] == '\\' {
					if out[pos] < 0x80 {
						out[pos] = ' '
					}
					pos++
					if pos < n && out[pos] < 0x80 {
						out[pos] = ' '
					}
					pos++
					continue
				}
				if b[pos] == '"' {
					pos++
					break
				}
				if out[pos] < 0x80 {
					out[pos] = ' '
				}
				pos++
			}
		} else {
			pos++
		}
	}

	return string(out)
}

// extractStrAttr extracts a `key = "value"` or `key = r"value"` /
// `key = r#"value"#` string attribute from an attribute body, decoding it
// through DecodeStringLiteral the same way the instance payload literal is
// decoded in parser.go so escape sequences and the raw-string form are
// handled identically on both sides of the annotation. The key is searched
// for in the string-blanked body, so `key =` text inside another attribute's
// value is never taken for the key itself.
func extractStrAttr(attrBody, key string) (string, bool) {
	re := regexp.MustCompile(regexp.QuoteMeta(key) + `\s*=\s*`)
	loc := re.FindStringIndex(blankStringLiterals(attrBody))
	if loc == nil {
		return "", false
	}

	token, ok := scanStringLiteralToken(attrBody, loc[1])
	if !ok {
		return "", false
	}

	decoded, err := DecodeStringLiteral(token)
	if err != nil {
		return "", false
	}
	return decoded, true
}

// scanStringLiteralToken scans a single string literal (regular "..." or
// raw r#*"..."#*) starting exactly at s[start], returning the full token
// text including its delimiters so the caller can hand it to
// DecodeStringLiteral unchanged.
func scanStringLiteralToken(s string, start int) (string, bool) {
	n := len(s)
	if start >= n {
		return "", false
	}

	if s[start] == 'r' {
		hashEnd := start + 1
		for hashEnd < n && s[hashEnd] == '#' {
			hashEnd++
		}
		hashes := hashEnd - (start + 1)
		if hashEnd >= n || s[hashEnd] != '"' {
			return "", false
		}
		contentStart := hashEnd + 1
		closing := `"` + strings.Repeat("#", hashes)
		idx := strings.Index(s[contentStart:], closing)
		if idx < 0 {
			return "", false
		}
		end := contentStart + idx + len(closing)
		return s[start:end], true
	}

	if s[start] == '"' {
		i := start + 1
		for i < n {
			if s[i] == '\\' {
				i += 2
				continue
			}
			if s[i] == '"' {
				return s[start : i+1], true
			}
			i++
		}
		return "", false
	}

	return "", false
}
