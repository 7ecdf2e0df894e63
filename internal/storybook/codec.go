package storybook

import (
	"encoding/json"
	"fmt"
	"regexp"

	"storybook-server/internal/model"
)

// Wire structs mirror the document shape with pointer fields so that a
// missing key is distinguishable from a zero value. Validation converts
// them into model types only after every required key is accounted for; a
// document is never partially constructed.
type documentWire struct {
	Metadata *metadataWire `json:"metadata"`
	Pages    *[]pageWire   `json:"pages"`
}

type metadataWire struct {
	Title        *string `json:"title"`
	CreatedAt    *string `json:"createdAt"`
	TotalPages   *int    `json:"totalPages"`
	SavedPages   *int    `json:"savedPages"`
	SkippedPages *int    `json:"skippedPages"`
	Version      *string `json:"version"`
	Note         *string `json:"note"`
}

type pageWire struct {
	PageNumber  *int          `json:"pageNumber"`
	Text        *string       `json:"text"`
	ImagePrompt *string       `json:"imagePrompt"`
	ImageBase64 *string       `json:"imageBase64"`
	AudioBase64 *string       `json:"audioBase64"`
	Questions   *questionWire `json:"questions"`
}

type questionWire struct {
	Question *string   `json:"question"`
	Answers  *[]string `json:"answers"`
}

// dataURIRegex matches the "data:<mime>;base64," prefix expected on blob
// fields. Only the prefix shape is checked; the payload stays opaque.
var dataURIRegex = regexp.MustCompile(`^data:[^;,]*;base64,`)

// Encode produces the canonical JSON byte-serialization of a document:
// two-space indented UTF-8, lossless for all text and data-URI content.
func Encode(doc *model.StorybookDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal storybook document: %w", err)
	}
	return data, nil
}

// Decode parses and validates an uploaded document. Any structural or type
// violation returns a *ValidationError naming the offending field.
func Decode(data []byte) (*model.StorybookDocument, error) {
	var wire documentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
			return nil, newValidationError(typeErr.Field, fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
		}
		return nil, newValidationError("", fmt.Sprintf("malformed JSON: %v", err))
	}

	if wire.Metadata == nil {
		return nil, newValidationError("metadata", "missing required field")
	}
	if wire.Pages == nil {
		return nil, newValidationError("pages", "missing required field")
	}

	meta, err := validateMetadata(wire.Metadata)
	if err != nil {
		return nil, err
	}

	pages := make([]model.Page, 0, len(*wire.Pages))
	seen := make(map[int]bool, len(*wire.Pages))
	for i, pw := range *wire.Pages {
		page, err := validatePage(i, &pw)
		if err != nil {
			return nil, err
		}
		if seen[page.PageNumber] {
			return nil, newValidationError(fmt.Sprintf("pages[%d].pageNumber", i), fmt.Sprintf("duplicate page number %d", page.PageNumber))
		}
		seen[page.PageNumber] = true
		pages = append(pages, page)
	}

	return &model.StorybookDocument{Metadata: *meta, Pages: pages}, nil
}

func validateMetadata(mw *metadataWire) (*model.StorybookMetadata, error) {
	switch {
	case mw.Title == nil:
		return nil, newValidationError("metadata.title", "missing required field")
	case mw.CreatedAt == nil:
		return nil, newValidationError("metadata.createdAt", "missing required field")
	case mw.TotalPages == nil:
		return nil, newValidationError("metadata.totalPages", "missing required field")
	case mw.SavedPages == nil:
		return nil, newValidationError("metadata.savedPages", "missing required field")
	case mw.SkippedPages == nil:
		return nil, newValidationError("metadata.skippedPages", "missing required field")
	case mw.Version == nil:
		return nil, newValidationError("metadata.version", "missing required field")
	}
	if *mw.TotalPages < 0 {
		return nil, newValidationError("metadata.totalPages", "must not be negative")
	}
	if *mw.SavedPages < 0 {
		return nil, newValidationError("metadata.savedPages", "must not be negative")
	}
	if *mw.SkippedPages < 0 {
		return nil, newValidationError("metadata.skippedPages", "must not be negative")
	}
	if *mw.SavedPages > *mw.TotalPages {
		return nil, newValidationError("metadata.savedPages", "must not exceed totalPages")
	}
	// savedPages + skippedPages vs totalPages is advisory only and not
	// enforced here.

	meta := &model.StorybookMetadata{
		Title:        *mw.Title,
		CreatedAt:    *mw.CreatedAt,
		TotalPages:   *mw.TotalPages,
		SavedPages:   *mw.SavedPages,
		SkippedPages: *mw.SkippedPages,
		Version:      *mw.Version,
	}
	if mw.Note != nil {
		meta.Note = *mw.Note
	}
	return meta, nil
}

func validatePage(i int, pw *pageWire) (model.Page, error) {
	field := func(name string) string { return fmt.Sprintf("pages[%d].%s", i, name) }

	if pw.PageNumber == nil {
		return model.Page{}, newValidationError(field("pageNumber"), "missing required field")
	}
	if *pw.PageNumber < 1 {
		return model.Page{}, newValidationError(field("pageNumber"), "must be a positive integer")
	}
	if pw.Text == nil {
		return model.Page{}, newValidationError(field("text"), "missing required field")
	}

	page := model.Page{
		PageNumber: *pw.PageNumber,
		Text:       *pw.Text,
	}
	if pw.ImagePrompt != nil {
		page.ImagePrompt = *pw.ImagePrompt
	}
	if pw.ImageBase64 != nil {
		if err := validateDataURI(field("imageBase64"), *pw.ImageBase64); err != nil {
			return model.Page{}, err
		}
		page.ImageBase64 = *pw.ImageBase64
	}
	if pw.AudioBase64 != nil {
		if err := validateDataURI(field("audioBase64"), *pw.AudioBase64); err != nil {
			return model.Page{}, err
		}
		page.AudioBase64 = *pw.AudioBase64
	}
	if pw.Questions != nil {
		if pw.Questions.Question == nil {
			return model.Page{}, newValidationError(field("questions.question"), "missing required field")
		}
		if pw.Questions.Answers == nil {
			return model.Page{}, newValidationError(field("questions.answers"), "missing required field")
		}
		page.Questions = &model.QuestionData{
			Question: *pw.Questions.Question,
			Answers:  *pw.Questions.Answers,
		}
	}
	return page, nil
}

func validateDataURI(field, value string) error {
	if value == "" {
		return nil
	}
	if !dataURIRegex.MatchString(value) {
		return newValidationError(field, `must be a "data:<mime>;base64," URI`)
	}
	return nil
}
