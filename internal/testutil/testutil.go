// Package testutil builds small fixture trees on disk for nar and swhid
// tests, mirroring the shape of a spec without each test hand-rolling
// os.WriteFile/os.Mkdir/os.Symlink calls.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// File marks a map value as regular file content, optionally executable,
// in a BuildTree spec.
type File struct {
	Content    string
	Executable bool
}

// Exec returns an executable File with the given content.
func Exec(content string) File {
	return File{Content: content, Executable: true}
}

// Link marks a map value as a symlink target in a BuildTree spec.
type Link string

// BuildTree materializes spec under dir. Each key is an entry name; each
// value is one of:
//   - string: a regular, non-executable file with that content
//   - File: a regular file, optionally executable
//   - Link: a symlink with that literal target
//   - map[string]any: a subdirectory, recursively built
//
// It fails the test immediately on any filesystem error.
func BuildTree(t *testing.T, dir string, spec map[string]any) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("testutil: mkdir %s: %v", dir, err)
	}
	for name, v := range spec {
		path := filepath.Join(dir, name)
		switch val := v.(type) {
		case string:
			writeFile(t, path, val, false)
		case File:
			writeFile(t, path, val.Content, val.Executable)
		case Link:
			if err := os.Symlink(string(val), path); err != nil {
				t.Fatalf("testutil: symlink %s: %v", path, err)
			}
		case map[string]any:
			BuildTree(t, path, val)
		default:
			t.Fatalf("testutil: unsupported spec value %T for %q", v, name)
		}
	}
}

func writeFile(t *testing.T, path, content string, executable bool) {
	t.Helper()
	mode := os.FileMode(0o644)
	if executable {
		mode = 0o755
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("testutil: write %s: %v", path, err)
	}
}
