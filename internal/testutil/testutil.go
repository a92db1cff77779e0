// Package testutil provides common test utilities for the scribe project.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnv is a sandboxed scratch directory for tests. Every path it hands
// out is checked against the sandbox root, and the directory is removed
// when the test finishes.
type TestEnv struct {
	t       *testing.T
	rootDir string
}

// NewTestEnv creates a sandboxed test environment backed by t.TempDir.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return &TestEnv{
		t:       t,
		rootDir: t.TempDir(),
	}
}

// RootDir returns the sandbox root.
func (e *TestEnv) RootDir() string {
	return e.rootDir
}

// Path joins the elements under the sandbox root and fails the test if the
// result would escape it.
func (e *TestEnv) Path(elem ...string) string {
	e.t.Helper()

	cleanPath := filepath.Clean(filepath.Join(e.rootDir, filepath.Join(elem...)))

	cleanRoot := filepath.Clean(e.rootDir)
	if cleanPath != cleanRoot && !strings.HasPrefix(cleanPath, cleanRoot+string(filepath.Separator)) {
		e.t.Fatalf("path %q escapes test sandbox %q", cleanPath, e.rootDir)
	}

	return cleanPath
}

// MkdirAll creates a directory, and any parents, inside the sandbox.
func (e *TestEnv) MkdirAll(path string) {
	e.t.Helper()

	if err := os.MkdirAll(e.Path(path), 0o755); err != nil {
		e.t.Fatalf("failed to create directory %q: %v", path, err)
	}
}

// WriteFile writes content to a file inside the sandbox, creating parent
// directories as needed.
func (e *TestEnv) WriteFile(path string, content []byte) {
	e.t.Helper()

	absPath := e.Path(path)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		e.t.Fatalf("failed to create directory for %q: %v", absPath, err)
	}
	if err := os.WriteFile(absPath, content, 0o644); err != nil {
		e.t.Fatalf("failed to write file %q: %v", absPath, err)
	}
}

// WriteFileString writes a string to a file inside the sandbox.
func (e *TestEnv) WriteFileString(path, content string) {
	e.t.Helper()
	e.WriteFile(path, []byte(content))
}
