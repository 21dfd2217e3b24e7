package git

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WorkdirHash hashes the files under the given paths of root; absolute paths
// are used as given. Hidden files and directories are ignored and missing
// paths are skipped, so the result only changes when site content does.
func WorkdirHash(root string, paths []string) (string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var fileHashes []string
	for _, p := range paths {
		full := p
		if !filepath.IsAbs(p) {
			full = filepath.Join(root, p)
		}
		info, err := os.Stat(full)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("stat %s: %w", full, err)
		}

		if !info.IsDir() {
			fh, err := hashFile(root, full)
			if err != nil {
				return "", err
			}
			fileHashes = append(fileHashes, fh)
			continue
		}

		err = filepath.WalkDir(full, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if strings.HasPrefix(d.Name(), ".") && path != full {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			fh, err := hashFile(root, path)
			if err != nil {
				return err
			}
			fileHashes = append(fileHashes, fh)
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("walk %s: %w", full, err)
		}
	}

	sort.Strings(fileHashes)

	h := sha256.New()
	for _, fh := range fileHashes {
		h.Write([]byte(fh))
		h.Write([]byte("\n"))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(root, path string) (string, error) {
	// #nosec G304 -- path is produced by walking root.
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	sum := sha256.Sum256(content)
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel) + ":" + hex.EncodeToString(sum[:]), nil
}
