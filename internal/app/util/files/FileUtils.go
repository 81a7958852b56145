package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxSafeNameLength = 64

// GetAbsolutePath returns a cleaned absolute form of path.
func GetAbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// EnsureDir creates dir and its parents if they do not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// SanitizeFileName reduces an uploaded file name to a single safe path
// component: base name only, [A-Za-z0-9._-], bounded length.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	safe := strings.Trim(b.String(), ".")
	if len(safe) > maxSafeNameLength {
		safe = safe[len(safe)-maxSafeNameLength:]
	}
	if safe == "" || strings.Trim(safe, "_") == "" {
		return "upload"
	}
	return safe
}

// NonEmptyFile reports whether path exists as a regular file with content.
func NonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}
