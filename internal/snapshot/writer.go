// Package snapshot persists the normalized feed snapshot as pretty JSON.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"feedsnap/internal/models"
)

// Write serializes snap with 2-space indent and a trailing newline, then
// atomically replaces path via a sibling temp file so readers never observe
// a partially written snapshot and a crash mid-write cannot corrupt the
// previous one.
func Write(path string, snap *models.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	tmp := TempPath(path)
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	return nil
}

// TempPath is the sibling temp file Write stages into before the rename:
// the destination with its extension replaced by .tmp.
func TempPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".tmp"
}
