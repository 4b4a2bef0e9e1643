package listener

import (
	"os"
	"path/filepath"
)

// Archive moves path into a sibling directory named dirName, keeping the
// file name, and returns the new location.
func Archive(path, dirName string) (string, error) {
	dir := filepath.Join(filepath.Dir(path), dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return "", err
	}
	return dest, nil
}
