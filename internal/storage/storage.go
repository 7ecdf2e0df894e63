package storage

// Entry is one document file as seen by List: its bare name (no extension),
// size on disk, and raw content. Decoding is left to the caller so a single
// undecodable file cannot fail the whole listing.
type Entry struct {
	Name string
	Size int64
	Data []byte
}

// DocumentStore defines the operations needed for persisting document bytes.
// This allows swapping implementations (e.g., JSON files vs. object storage)
// later. Names passed in must already be sanitized single path segments;
// implementations never accept a raw client-supplied path.
type DocumentStore interface {
	// Write persists data under name, replacing any previous content
	// atomically. A reader never observes a partially-written file.
	Write(name string, data []byte) error

	// Read returns the stored bytes for name. The returned error wraps
	// os.ErrNotExist when no file backs the name.
	Read(name string) ([]byte, error)

	// List enumerates all document files in the storage root, non-recursively.
	List() ([]Entry, error)

	// Exists reports whether a document file backs the name.
	Exists(name string) bool

	// BasePath returns the storage root path.
	BasePath() string
}
