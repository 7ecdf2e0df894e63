package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"storybook-server/pkg/fsutils"
)

const fileExt = ".json"

// JSONStore implements the DocumentStore interface using JSON files.
// It stores each document as an individual <name>.json file in a flat
// directory and owns that directory exclusively.
type JSONStore struct {
	basePath string
	logger   *slog.Logger
}

// NewJSONStore creates a new JSONStore instance.
// It ensures the base storage directory exists.
func NewJSONStore(basePath string, logger *slog.Logger) (*JSONStore, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := fsutils.CreateDir(basePath); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %q: %w", basePath, err)
	}
	return &JSONStore{basePath: basePath, logger: logger}, nil
}

// BasePath returns the storage root of the JSON store.
func (s *JSONStore) BasePath() string {
	return s.basePath
}

// docPath joins name with the storage root and verifies the result stays
// inside it. The sanitizer upstream already rejects traversal attempts; this
// is the final check before any filesystem call.
func (s *JSONStore) docPath(name string) (string, error) {
	path := filepath.Join(s.basePath, name+fileExt)
	inside, err := fsutils.WithinRoot(s.basePath, path)
	if err != nil {
		return "", err
	}
	if !inside {
		return "", fmt.Errorf("%w: %q resolves outside the storage root", fsutils.ErrUnsafeName, name)
	}
	return path, nil
}

// Write persists data under name using a temp file and an atomic rename, so
// a concurrent reader sees either the previous content or the new content in
// full, never a mix. A failed write leaves no temp file behind.
func (s *JSONStore) Write(name string, data []byte) error {
	path, err := s.docPath(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %q: %w", s.basePath, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file %q: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file %q: %w", tmpPath, err)
	}
	// CreateTemp uses 0600; stored documents should be world-readable like
	// any other served asset.
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions on %q: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename %q to %q: %w", tmpPath, path, err)
	}
	s.logger.Debug("Wrote document file", "path", path, "bytes", len(data))
	return nil
}

// Read retrieves the stored bytes for name.
func (s *JSONStore) Read(name string) ([]byte, error) {
	path, err := s.docPath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %s not found: %w", name, err)
		}
		return nil, fmt.Errorf("failed to read document file %q: %w", path, err)
	}
	return data, nil
}

// Exists reports whether a document file backs the name.
func (s *JSONStore) Exists(name string) bool {
	path, err := s.docPath(name)
	if err != nil {
		return false
	}
	return fsutils.FileExists(path)
}

// List scans the storage root for *.json files and returns their content.
// Dotfiles (including in-flight temp files), directories and files that fail
// to read are skipped; a read failure is logged, not fatal to the listing.
func (s *JSONStore) List() ([]Entry, error) {
	files, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read storage directory %q: %w", s.basePath, err)
	}

	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		name := file.Name()
		if file.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		info, err := file.Info()
		if err != nil {
			s.logger.Warn("Skipping unreadable directory entry", "name", name, "error", err)
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.basePath, name))
		if err != nil {
			s.logger.Warn("Skipping unreadable document file", "name", name, "error", err)
			continue
		}
		entries = append(entries, Entry{
			Name: strings.TrimSuffix(name, fileExt),
			Size: info.Size(),
			Data: data,
		})
	}
	return entries, nil
}
