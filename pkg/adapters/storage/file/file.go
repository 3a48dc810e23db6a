package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Source reads a model artifact from a path on disk
type Source struct {
	path string
}

// NewSource creates a file artifact source
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Fetch reads the artifact bytes
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	return data, nil
}

// Location returns the artifact path
func (s *Source) Location() string {
	return "file://" + s.path
}

// Save writes artifact bytes to path, creating parent directories
func Save(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create artifact dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	return nil
}
