package testsupport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// WriteSheet writes a CSV plate sheet into dir and returns its path.
func WriteSheet(t testing.TB, dir, name string, rows [][]string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir sheet dir: %v", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create sheet %s: %v", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(rows); err != nil {
		t.Fatalf("write sheet %s: %v", path, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		t.Fatalf("flush sheet %s: %v", path, err)
	}
	return path
}
