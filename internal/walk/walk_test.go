/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package walk

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalk_FindsMarkdownJSONYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# doc")
	writeFile(t, filepath.Join(dir, "b.json"), "{}")
	writeFile(t, filepath.Join(dir, "c.yaml"), "x: 1")
	writeFile(t, filepath.Join(dir, "d.txt"), "ignored")

	res, err := Walk(DefaultConfig([]string{dir}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files, got %d: %v", len(res.Files), res.Files)
	}
}

func TestWalk_SkipsVendorAndGitDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vendor", "x.json"), "{}")
	writeFile(t, filepath.Join(dir, ".git", "x.json"), "{}")
	writeFile(t, filepath.Join(dir, "keep.json"), "{}")

	res, err := Walk(DefaultConfig([]string{dir}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Files) != 1 || !strings.HasSuffix(res.Files[0], "keep.json") {
		t.Fatalf("expected only keep.json, got %v", res.Files)
	}
}

func TestWalk_ExcludeGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "b.json"), "{}")
	writeFile(t, filepath.Join(dir, "keep.json"), "{}")

	cfg := DefaultConfig([]string{dir})
	cfg.Exclude = []string{"**/a/**"}

	res, err := Walk(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Files) != 1 || !strings.HasSuffix(res.Files[0], "keep.json") {
		t.Fatalf("expected only keep.json, got %v", res.Files)
	}
}

func TestWalk_DedupesAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "z.json"), "{}")
	writeFile(t, filepath.Join(dir, "a.json"), "{}")

	res, err := Walk(DefaultConfig([]string{dir, dir}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("expected dedup to 2 files, got %d: %v", len(res.Files), res.Files)
	}
	if !strings.HasSuffix(res.Files[0], "a.json") {
		t.Errorf("expected sorted order, got %v", res.Files)
	}
}

func TestWalk_SymlinkedDirNotFollowedByDefault(t *testing.T) {
	dir := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(target, "linked.json"), "{}")

	if err := os.Symlink(target, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	res, err := Walk(DefaultConfig([]string{dir}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected symlinked dir to be ignored by default, got %v", res.Files)
	}
}

func TestWalk_SymlinkedDirFollowedWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(target, "linked.json"), "{}")

	if err := os.Symlink(target, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	cfg := DefaultConfig([]string{dir})
	cfg.FollowLinks = true

	res, err := Walk(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Files) != 1 || !strings.HasSuffix(res.Files[0], "linked.json") {
		t.Fatalf("expected linked.json via followed symlink, got %v", res.Files)
	}
}

func TestWalk_SymlinkCycleTerminates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keep.json"), "{}")

	if err := os.Symlink(dir, filepath.Join(dir, "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	cfg := DefaultConfig([]string{dir})
	cfg.FollowLinks = true

	res, err := Walk(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Files) != 1 || !strings.HasSuffix(res.Files[0], "keep.json") {
		t.Fatalf("expected cycle to terminate with just keep.json, got %v", res.Files)
	}
}

func TestReadFileBounded_OversizeRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.json")
	writeFile(t, path, strings.Repeat("x", 100))

	if _, err := ReadFileBounded(path, 10); err == nil {
		t.Fatal("expected oversize rejection")
	}
}

func TestReadFileBounded_WithinLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.json")
	writeFile(t, path, "{}")

	content, err := ReadFileBounded(path, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != "{}" {
		t.Errorf("expected content '{}', got %q", content)
	}
}

func TestReadFileBounded_InvalidUTF8Rejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadFileBounded(path, 100); err == nil {
		t.Fatal("expected invalid-UTF-8 rejection")
	}
}
