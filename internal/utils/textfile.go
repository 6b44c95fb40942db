package utils

import (
	"os"
	"path/filepath"
)

// WriteTextFile writes content to path, creating parent directories first.
func WriteTextFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
