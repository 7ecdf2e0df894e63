package storybook

// NameChoice is the caller's explicit decision between generating a fresh
// document name and overwriting a specific one. Making this a tagged value
// (rather than inferring intent from an empty string) keeps call sites
// unambiguous.
type NameChoice struct {
	name     string
	generate bool
}

// GenerateName asks the store to derive a unique name from the document's
// title.
func GenerateName() NameChoice {
	return NameChoice{generate: true}
}

// UseName targets a specific document name, overwriting any existing file
// after sanitization.
func UseName(name string) NameChoice {
	return NameChoice{name: name}
}
