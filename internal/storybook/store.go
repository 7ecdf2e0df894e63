// Package storybook implements the storybook persistence layer: validation
// of uploaded documents, safe filename derivation, atomic persistence and
// retrieval. It holds no mutable process-wide state; every operation works
// directly against the storage root, so concurrent requests are safe by
// construction.
package storybook

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"storybook-server/internal/model"
	"storybook-server/internal/storage"
	"storybook-server/pkg/fsutils"
)

// maxNameAttempts bounds regeneration when a generated name collides with
// an existing file.
const maxNameAttempts = 5

// Store orchestrates the codec, the filename sanitizer and the document
// store. It is the only surface the HTTP layer talks to.
type Store struct {
	store          storage.DocumentStore
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewStore creates a new Store instance. maxUploadBytes bounds the accepted
// payload size before decoding (0 disables the check).
func NewStore(store storage.DocumentStore, logger *slog.Logger, maxUploadBytes int64) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		store:          store,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// UploadResult acknowledges a persisted document.
type UploadResult struct {
	Filename   string
	FileSize   int64
	SavedPages int
	TotalPages int
}

// Upload validates body, resolves the target filename per choice, and
// persists the canonical encoding atomically. Validation and naming
// failures are client errors (*ValidationError); write failures are server
// errors.
func (s *Store) Upload(body []byte, choice NameChoice) (*UploadResult, error) {
	if s.maxUploadBytes > 0 && int64(len(body)) > s.maxUploadBytes {
		return nil, newValidationError("", fmt.Sprintf("payload of %d bytes exceeds the %d byte limit", len(body), s.maxUploadBytes))
	}

	doc, err := Decode(body)
	if err != nil {
		s.logger.Warn("Rejected storybook upload", "error", err)
		return nil, err
	}

	name, err := s.resolveName(doc, choice)
	if err != nil {
		return nil, err
	}

	data, err := Encode(doc)
	if err != nil {
		return nil, err
	}

	if err := s.store.Write(name, data); err != nil {
		s.logger.Error("Failed to persist storybook", "name", name, "error", err)
		return nil, fmt.Errorf("persisting storybook %s failed: %w", name, err)
	}

	s.logger.Info("Storybook saved", "filename", name+".json", "bytes", len(data), "title", doc.Metadata.Title)
	return &UploadResult{
		Filename:   name + ".json",
		FileSize:   int64(len(data)),
		SavedPages: doc.Metadata.SavedPages,
		TotalPages: doc.Metadata.TotalPages,
	}, nil
}

// GetByName retrieves and decodes a stored document. A missing file yields
// ErrNotFound; a file that exists but fails to decode yields ErrCorrupt.
func (s *Store) GetByName(rawName string) (*model.StorybookDocument, error) {
	name, err := fsutils.SanitizeName(rawName)
	if err != nil {
		return nil, newValidationError("filename", err.Error())
	}

	data, err := s.store.Read(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("reading storybook %s failed: %w", name, err)
	}

	doc, err := Decode(data)
	if err != nil {
		s.logger.Error("Stored storybook failed to decode", "name", name, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}
	return doc, nil
}

// ListAll enumerates stored documents as summaries, sorted by createdAt
// descending (filename ascending as tie-break). Entries that fail to decode
// are logged and omitted; partial results beat total failure for a
// read-only aggregate view.
func (s *Store) ListAll() ([]model.StorybookSummary, error) {
	entries, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing storybooks failed: %w", err)
	}

	summaries := make([]model.StorybookSummary, 0, len(entries))
	for _, entry := range entries {
		doc, err := Decode(entry.Data)
		if err != nil {
			s.logger.Warn("Skipping undecodable storybook file", "name", entry.Name, "error", err)
			continue
		}
		summary := model.StorybookSummary{
			Filename:   entry.Name + ".json",
			Title:      doc.Metadata.Title,
			CreatedAt:  doc.Metadata.CreatedAt,
			TotalPages: doc.Metadata.TotalPages,
			SavedPages: doc.Metadata.SavedPages,
			FileSize:   entry.Size,
		}
		for _, page := range doc.Pages {
			if page.PageNumber == 1 {
				summary.ImageBase64 = page.ImageBase64
				break
			}
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt != summaries[j].CreatedAt {
			return summaries[i].CreatedAt > summaries[j].CreatedAt
		}
		return summaries[i].Filename < summaries[j].Filename
	})

	s.logger.Info("Listed storybooks", "count", len(summaries))
	return summaries, nil
}

// resolveName turns the caller's NameChoice into a sanitized on-disk name
// (without extension).
func (s *Store) resolveName(doc *model.StorybookDocument, choice NameChoice) (string, error) {
	if !choice.generate {
		name, err := fsutils.SanitizeName(choice.name)
		if err != nil {
			s.logger.Warn("Rejected unsafe storybook name", "name", choice.name, "error", err)
			return "", newValidationError("filename", err.Error())
		}
		return name, nil
	}
	return s.generateName(doc.Metadata.Title)
}

// generateName derives a unique name from the title, a timestamp and a
// short random token. Collision with an existing file triggers
// regeneration, bounded by maxNameAttempts.
func (s *Store) generateName(title string) (string, error) {
	slug := fsutils.SlugFromTitle(title)
	stamp := time.Now().Format("20060102_150405")
	for i := 0; i < maxNameAttempts; i++ {
		token := uuid.New().String()[:8]
		name := fmt.Sprintf("%s_%s_%s", slug, stamp, token)
		if !s.store.Exists(name) {
			return name, nil
		}
		s.logger.Warn("Generated storybook name collided, retrying", "name", name, "attempt", i+1)
	}
	return "", fmt.Errorf("failed to generate a unique storybook name after %d attempts", maxNameAttempts)
}
