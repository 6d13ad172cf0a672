package intake

import "io"

// Scanner captures per-file metadata for the direct entries of a directory.
type Scanner interface {
	// Scan returns one entry per regular file directly inside dir.
	// A missing directory yields an empty result and a logged diagnostic.
	Scan(dir string) []*CatalogEntry
}

// CatalogCodec converts catalogs to and from the interchange document.
// Decode(Encode(c)) must reproduce c field-for-field.
type CatalogCodec interface {
	Encode(w io.Writer, entries []*CatalogEntry) error
	Decode(r io.Reader) ([]*CatalogEntry, error)

	// EncodeProcessed writes the processed-content report.
	EncodeProcessed(w io.Writer, records []*ProcessedRecord) error

	// Schema returns the fixed schema document describing Encode's output.
	Schema() ([]byte, error)
}
