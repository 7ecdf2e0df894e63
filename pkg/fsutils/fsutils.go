package fsutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrUnsafeName is returned by SanitizeName for inputs that cannot be used
// as a single path segment inside the storage root.
var ErrUnsafeName = errors.New("unsafe file name")

// nonAlphanumericRegex matches any character that is NOT a lowercase letter,
// number, hyphen or underscore. Periods are excluded on purpose: names are
// single segments and the extension is appended by the storage layer.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9_-]+`)
var collapseUnderscoreRegex = regexp.MustCompile(`_+`)

// SlugFromTitle converts a free-form title into a safe filename seed.
// It lowercases, replaces spaces and disallowed characters with underscores,
// and collapses consecutive underscores.
func SlugFromTitle(title string) string {
	lower := strings.ToLower(title)
	trimmed := strings.TrimSpace(lower)
	noSpaces := strings.ReplaceAll(trimmed, " ", "_")
	sanitized := nonAlphanumericRegex.ReplaceAllString(noSpaces, "_")
	collapsed := collapseUnderscoreRegex.ReplaceAllString(sanitized, "_")
	collapsed = strings.Trim(collapsed, "_")
	if collapsed == "" {
		return "storybook"
	}
	return collapsed
}

// SanitizeName validates a caller-supplied document name and returns it as a
// bare path segment without extension. It rejects anything that could escape
// the storage root: separators, parent references, absolute or drive-letter
// prefixes, and null/control bytes. A trailing ".json" is tolerated and
// stripped so that names returned by listings round-trip.
func SanitizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	name = strings.TrimSuffix(name, ".json")
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnsafeName)
	}
	if strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("%w: %q contains a path separator", ErrUnsafeName, raw)
	}
	if strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q contains a parent reference", ErrUnsafeName, raw)
	}
	if name == "." {
		return "", fmt.Errorf("%w: %q is not a file name", ErrUnsafeName, raw)
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return "", fmt.Errorf("%w: %q contains a control character", ErrUnsafeName, raw)
		}
	}
	// Windows drive letters ("C:") and URI schemes both hide behind a colon;
	// neither is a valid single segment.
	if strings.Contains(name, ":") {
		return "", fmt.Errorf("%w: %q contains a colon", ErrUnsafeName, raw)
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q is an absolute path", ErrUnsafeName, raw)
	}
	return name, nil
}

// WithinRoot reports whether path resolves to a location strictly inside
// root. Both the root and the path's parent directory are resolved through
// symlinks, so a link planted under the root cannot redirect writes
// elsewhere. The final path component itself need not exist yet.
func WithinRoot(root, path string) (bool, error) {
	resolvedRoot, err := resolveDir(root)
	if err != nil {
		return false, fmt.Errorf("failed to resolve storage root %q: %w", root, err)
	}
	dir, file := filepath.Split(filepath.Clean(path))
	resolvedDir, err := resolveDir(dir)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path %q: %w", path, err)
	}
	if file == "" {
		return false, nil
	}
	rel, err := filepath.Rel(resolvedRoot, filepath.Join(resolvedDir, file))
	if err != nil {
		return false, nil
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}
	return true, nil
}

func resolveDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

// CreateDir creates a directory (and parents) if it doesn't exist.
func CreateDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists checks if a path exists and is a regular file (not a directory).
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
