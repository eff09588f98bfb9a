// Package filex holds the file-system helpers behind the query log: path
// resolution, parent directory creation and quarantine naming.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// quarantineLayout is the UTC timestamp layout embedded in quarantine names.
const quarantineLayout = "20060102150405"

// ResolvePath locates a file configured as path.
//
// An absolute path is used verbatim. A relative one is looked up first under
// cwd and then under exeDir; the first existing candidate wins, otherwise the
// exeDir candidate is returned.
func ResolvePath(path, cwd, exeDir string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("path must be provided")
	}

	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	candidates := []string{
		filepath.Join(cwd, path),
		filepath.Join(exeDir, path),
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}

	return candidates[1], nil
}

// ExecutableDir returns the directory of the running binary.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// QuarantineName returns the name a corrupted file at path is moved to:
// <path>.corrupt.<UTCyyyyMMddHHmmss><ext>, where ext is the extension of
// path (".json" when it has none).
func QuarantineName(path string, now time.Time) string {
	ext := filepath.Ext(path)
	if ext == "" {
		ext = ".json"
	}
	return path + ".corrupt." + now.UTC().Format(quarantineLayout) + ext
}
