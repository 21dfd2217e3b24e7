package scaffold

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// writeNewFile writes content to relativePath under root.
//
// The path must stay under root, parent directories are created, and an
// existing file is never overwritten.
func writeNewFile(root, relativePath string, content []byte) (string, error) {
	if relativePath == "" {
		return "", stderrors.New("output path is required")
	}

	cleanRel := filepath.Clean(relativePath)
	if filepath.IsAbs(cleanRel) || strings.HasPrefix(cleanRel, "..") {
		return "", stderrors.New("output path must be relative to the site root")
	}
	fullPath := filepath.Join(root, cleanRel)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	// #nosec G304 -- fullPath is validated to stay under root.
	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if stderrors.Is(err, os.ErrExist) || stderrors.Is(err, syscall.EEXIST) {
			return "", fmt.Errorf("file already exists: %s", fullPath)
		}
		return "", fmt.Errorf("write output file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if _, err := file.Write(content); err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}
	return fullPath, nil
}
