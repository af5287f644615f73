package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Write encodes the report as indented JSON at path, creating parent
// directories as needed
func Write(path string, report map[string]any) error {
	bytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Read loads a report written by Write
func Read(path string) (map[string]any, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(bytes, &out); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return out, nil
}
