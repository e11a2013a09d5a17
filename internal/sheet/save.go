package sheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Save writes the table back to disk. When versionUp is true the sheet is
// written to the next free versioned filename instead of overwriting; the
// chosen path is returned either way.
func Save(table *Table, versionUp bool) (string, error) {
	path := table.Path
	if versionUp {
		path = VersionedSavePath(table.Path)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Headers); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, row := range table.Cells {
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush sheet: %w", err)
	}
	return path, nil
}

// VersionedSavePath derives the next free versioned filename for a sheet:
// plate_list.csv becomes plate_list_01.csv, plate_list_02.csv bumps to
// plate_list_03.csv, and the counter keeps climbing past names already on
// disk.
func VersionedSavePath(path string) string {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	name := strings.TrimSuffix(filepath.Base(path), ext)

	base := name
	version := 0
	if idx := strings.LastIndex(name, "_"); idx >= 0 {
		if n, err := strconv.Atoi(name[idx+1:]); err == nil {
			base = name[:idx]
			version = n
		}
	}

	for {
		version++
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%02d%s", base, version, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
