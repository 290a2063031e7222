/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package walk

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// ReadFileBounded reads path up to maxSize+1 bytes, so that a file exactly at
// the limit is accepted while anything larger is rejected without buffering
// the whole oversized file into memory. The content must be valid UTF-8.
func ReadFileBounded(path string, maxSize int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	limited := io.LimitReader(f, maxSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if int64(len(data)) > maxSize {
		return "", fmt.Errorf("file %s exceeds maximum size of %d bytes", path, maxSize)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("file %s is not valid UTF-8", path)
	}

	return string(data), nil
}
