/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package scan

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GlobalTypeSystem/gts-toolchain/internal/report"
)

// ScanYAML walks every document in a "---"-separated YAML stream, reusing
// the JSON tree walker since yaml.v3 decodes mappings into map[string]any
// just like encoding/json does.
//
// yaml.v3's Decoder.Decode, when one document in the stream has a syntax
// error (an unterminated flow sequence or block scalar), doesn't stop at
// that document's end: it keeps consuming input looking for the closing
// token, swallowing the "---" separator and every sibling document after it.
// The next Decode call then returns io.EOF instead of the next document, so
// a single broken document can silently hide its well-formed siblings.
//
// To avoid that, the whole stream is decoded first. If that succeeds
// end-to-end, every document's already in hand. If it fails partway, the
// partial result is discarded and the raw source is split on lines equal to
// "---" instead, decoding each segment with its own fresh decoder so a
// broken segment can't consume its neighbors. A malformed document does not
// abort the scan either way: it is recorded as its own ScanError and the
// remaining documents are still scanned. When no segment decodes at all,
// the per-document errors are replaced by one file-level ScanError.
func ScanYAML(content, sourceFile string, opts Options) ([]*report.ValidationError, []*report.ScanError) {
	var errs []*report.ValidationError

	docs, scanErrs, ok := decodeWholeStream(content)
	if !ok {
		docs, scanErrs = decodeStreamBySegments(content, sourceFile)
	}

	for _, value := range docs {
		if value == nil {
			continue
		}
		walkJSONValue(normalizeYAMLValue(value), "", sourceFile, opts, &errs)
	}

	return errs, scanErrs
}

// decodeWholeStream attempts to decode every document in content with a
// single Decoder. ok is false the moment any document fails to parse,
// signaling the caller to discard docs and fall back to segment-by-segment
// decoding instead of trusting a run that may have swallowed siblings.
func decodeWholeStream(content string) (docs []any, scanErrs []*report.ScanError, ok bool) {
	dec := yaml.NewDecoder(strings.NewReader(content))
	for {
		var value any
		err := dec.Decode(&value)
		if errors.Is(err, io.EOF) {
			return docs, nil, true
		}
		if err != nil {
			return nil, nil, false
		}
		docs = append(docs, value)
	}
}

// decodeStreamBySegments splits content on lines equal to "---" and decodes
// each non-empty segment independently, so a syntax error in one document
// can't consume the documents around it.
func decodeStreamBySegments(content, sourceFile string) ([]any, []*report.ScanError) {
	var docs []any
	var scanErrs []*report.ScanError
	doc := 0

	for _, segment := range splitYAMLDocuments(content) {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		doc++

		var value any
		dec := yaml.NewDecoder(strings.NewReader(segment))
		err := dec.Decode(&value)
		if err != nil && !errors.Is(err, io.EOF) {
			scanErrs = append(scanErrs, &report.ScanError{
				File:    fmt.Sprintf("%s (document %d)", sourceFile, doc),
				Kind:    report.ScanErrorYAMLParse,
				Message: err.Error(),
			})
			continue
		}
		docs = append(docs, value)
	}

	if len(docs) == 0 && len(scanErrs) > 0 {
		return nil, []*report.ScanError{{
			File:    sourceFile,
			Kind:    report.ScanErrorYAMLParse,
			Message: "no YAML document could be parsed: " + scanErrs[0].Message,
		}}
	}

	return docs, scanErrs
}

// splitYAMLDocuments splits raw YAML source on lines exactly equal to "---"
// (YAML's document-separator marker), discarding the separator lines
// themselves.
func splitYAMLDocuments(content string) []string {
	lines := strings.Split(content, "\n")
	var segments []string
	var cur []string
	for _, line := range lines {
		if strings.TrimRight(line, "\r") == "---" {
			segments = append(segments, strings.Join(cur, "\n"))
			cur = nil
			continue
		}
		cur = append(cur, line)
	}
	segments = append(segments, strings.Join(cur, "\n"))
	return segments
}

// normalizeYAMLValue converts yaml.v3's decoded shapes into the exact shapes
// walkJSONValue already understands. yaml.v3 decodes a mapping to
// map[string]any when every key is a string and to map[any]any otherwise;
// the latter is converted to map[string]any with fmt.Sprint keys. Scalars
// can come back as types json.Decoder never produces (e.g. int, uint64);
// walkJSONValue only inspects string/map/slice so those pass through
// untouched.
func normalizeYAMLValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = normalizeYAMLValue(child)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[fmt.Sprint(k)] = normalizeYAMLValue(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = normalizeYAMLValue(child)
		}
		return out
	default:
		return val
	}
}
