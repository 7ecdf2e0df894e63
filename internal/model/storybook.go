package model

// QuestionData is an optional quiz attached to a page.
type QuestionData struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// Page represents a single page of a storybook, including its text and any
// generated media. The Base64 fields carry full data URIs
// ("data:<mime>;base64,...") and are treated as opaque strings; the payload
// is never decoded by this service.
type Page struct {
	PageNumber  int           `json:"pageNumber"`
	Text        string        `json:"text"`
	ImagePrompt string        `json:"imagePrompt,omitempty"`
	ImageBase64 string        `json:"imageBase64,omitempty"`
	AudioBase64 string        `json:"audioBase64,omitempty"`
	Questions   *QuestionData `json:"questions,omitempty"`
}

// StorybookMetadata describes a storybook as a whole.
type StorybookMetadata struct {
	Title        string `json:"title"`
	CreatedAt    string `json:"createdAt"` // Client-supplied timestamp, stored verbatim
	TotalPages   int    `json:"totalPages"`
	SavedPages   int    `json:"savedPages"`
	SkippedPages int    `json:"skippedPages"`
	Version      string `json:"version"`
	Note         string `json:"note,omitempty"`
}

// StorybookDocument is the full persisted record: metadata plus the ordered
// page sequence. Page order in the slice is presentation order.
type StorybookDocument struct {
	Metadata StorybookMetadata `json:"metadata"`
	Pages    []Page            `json:"pages"`
}

// StorybookSummary is the lightweight projection returned by listings.
// ImageBase64 holds the first page's image (pageNumber == 1) when present,
// so a gallery view can render covers without fetching full documents.
type StorybookSummary struct {
	Filename    string `json:"filename"`
	Title       string `json:"title"`
	CreatedAt   string `json:"createdAt"`
	TotalPages  int    `json:"totalPages"`
	SavedPages  int    `json:"savedPages"`
	FileSize    int64  `json:"fileSize"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}
