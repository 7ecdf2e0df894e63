package storybook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storybook-server/internal/model"
)

func sampleDocument() *model.StorybookDocument {
	return &model.StorybookDocument{
		Metadata: model.StorybookMetadata{
			Title:        "The Little Fox",
			CreatedAt:    "2024-01-01T00:00:00",
			TotalPages:   2,
			SavedPages:   2,
			SkippedPages: 0,
			Version:      "1.0.0",
			Note:         "bedtime edition",
		},
		Pages: []model.Page{
			{
				PageNumber:  1,
				Text:        "Once upon a time, こんにちは.",
				ImagePrompt: "a fox in a forest",
				ImageBase64: "data:image/png;base64,iVBORw0KGgo=",
				AudioBase64: "data:audio/mpeg;base64,SUQzBA==",
			},
			{
				PageNumber: 2,
				Text:       "",
				Questions: &model.QuestionData{
					Question: "Who did the fox meet?",
					Answers:  []string{"a bear", "a rabbit"},
				},
			},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := sampleDocument()

	data, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecode_MinimalDocument(t *testing.T) {
	body := `{
		"metadata": {"title":"T","createdAt":"2024-01-01T00:00:00","totalPages":2,"savedPages":2,"skippedPages":0,"version":"1.0.0"},
		"pages": [{"pageNumber":1,"text":"hi"}]
	}`

	doc, err := Decode([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "T", doc.Metadata.Title)
	assert.Empty(t, doc.Metadata.Note)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, 1, doc.Pages[0].PageNumber)
	assert.Equal(t, "hi", doc.Pages[0].Text)
	assert.Nil(t, doc.Pages[0].Questions)
}

func TestDecode_ValidationFailures(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{
			"not an object",
			`[]`,
			"",
		},
		{
			"malformed json",
			`{"metadata":`,
			"",
		},
		{
			"missing metadata",
			`{"pages":[]}`,
			"metadata",
		},
		{
			"missing pages",
			`{"metadata":{"title":"T","createdAt":"c","totalPages":1,"savedPages":1,"skippedPages":0,"version":"1"}}`,
			"pages",
		},
		{
			"missing totalPages",
			`{"metadata":{"title":"T","createdAt":"c","savedPages":1,"skippedPages":0,"version":"1"},"pages":[]}`,
			"metadata.totalPages",
		},
		{
			"wrong totalPages type",
			`{"metadata":{"title":"T","createdAt":"c","totalPages":"2","savedPages":1,"skippedPages":0,"version":"1"},"pages":[]}`,
			"metadata.totalPages",
		},
		{
			"negative totalPages",
			`{"metadata":{"title":"T","createdAt":"c","totalPages":-1,"savedPages":0,"skippedPages":0,"version":"1"},"pages":[]}`,
			"metadata.totalPages",
		},
		{
			"savedPages exceeds totalPages",
			`{"metadata":{"title":"T","createdAt":"c","totalPages":1,"savedPages":2,"skippedPages":0,"version":"1"},"pages":[]}`,
			"metadata.savedPages",
		},
		{
			"page missing pageNumber",
			`{"metadata":{"title":"T","createdAt":"c","totalPages":1,"savedPages":1,"skippedPages":0,"version":"1"},"pages":[{"text":"hi"}]}`,
			"pages[0].pageNumber",
		},
		{
			"page missing text",
			`{"metadata":{"title":"T","createdAt":"c","totalPages":1,"savedPages":1,"skippedPages":0,"version":"1"},"pages":[{"pageNumber":1}]}`,
			"pages[0].text",
		},
		{
			"non-positive pageNumber",
			`{"metadata":{"title":"T","createdAt":"c","totalPages":1,"savedPages":1,"skippedPages":0,"version":"1"},"pages":[{"pageNumber":0,"text":"hi"}]}`,
			"pages[0].pageNumber",
		},
		{
			"duplicate pageNumber",
			`{"metadata":{"title":"T","createdAt":"c","totalPages":2,"savedPages":2,"skippedPages":0,"version":"1"},"pages":[{"pageNumber":1,"text":"a"},{"pageNumber":1,"text":"b"}]}`,
			"pages[1].pageNumber",
		},
		{
			"image not a data uri",
			`{"metadata":{"title":"T","createdAt":"c","totalPages":1,"savedPages":1,"skippedPages":0,"version":"1"},"pages":[{"pageNumber":1,"text":"hi","imageBase64":"iVBORw0KGgo="}]}`,
			"pages[0].imageBase64",
		},
		{
			"questions missing answers",
			`{"metadata":{"title":"T","createdAt":"c","totalPages":1,"savedPages":1,"skippedPages":0,"version":"1"},"pages":[{"pageNumber":1,"text":"hi","questions":{"question":"q"}}]}`,
			"pages[0].questions.answers",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.body))
			require.Error(t, err)
			assert.Nil(t, doc, "a failing decode must not partially construct a document")
			assert.ErrorIs(t, err, ErrInvalidDocument)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, vErr.Field)
			}
		})
	}
}

func TestDecode_NonContiguousPageNumbersAllowed(t *testing.T) {
	body := `{
		"metadata": {"title":"T","createdAt":"c","totalPages":10,"savedPages":2,"skippedPages":8,"version":"1"},
		"pages": [{"pageNumber":3,"text":"a"},{"pageNumber":7,"text":"b"}]
	}`
	doc, err := Decode([]byte(body))
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 3, doc.Pages[0].PageNumber)
	assert.Equal(t, 7, doc.Pages[1].PageNumber)
}

func TestDecode_AdvisoryPageCountsNotEnforced(t *testing.T) {
	// savedPages + skippedPages disagreeing with totalPages is advisory
	// metadata, not a hard validation rule.
	body := `{
		"metadata": {"title":"T","createdAt":"c","totalPages":5,"savedPages":1,"skippedPages":1,"version":"1"},
		"pages": []
	}`
	_, err := Decode([]byte(body))
	require.NoError(t, err)
}

func TestDecode_EmptyDataURIFieldsAllowed(t *testing.T) {
	body := `{
		"metadata": {"title":"T","createdAt":"c","totalPages":1,"savedPages":1,"skippedPages":0,"version":"1"},
		"pages": [{"pageNumber":1,"text":"hi","imageBase64":"","audioBase64":""}]
	}`
	_, err := Decode([]byte(body))
	require.NoError(t, err)
}
