package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"intake-go/internal/common"
	"intake-go/internal/intake"
)

// Catalog document keys.
const (
	KeyFilename     = "filename"
	KeyFullPath     = "full_path"
	KeyFileSize     = "file_size"
	KeyCreationDate = "creation_date"
	KeyLastModified = "last_modified"
)

// requiredKeys is the order in which missing keys are reported.
var requiredKeys = []string{KeyFilename, KeyFullPath, KeyFileSize, KeyCreationDate, KeyLastModified}

type fileInfoRecord struct {
	Filename     string `json:"filename"`
	FullPath     string `json:"full_path"`
	FileSize     int64  `json:"file_size"`
	CreationDate string `json:"creation_date"`
	LastModified string `json:"last_modified"`
}

type processedRecord struct {
	Filename      string `json:"filename"`
	Encoding      string `json:"encoding"`
	OriginalText  string `json:"original_text"`
	ProcessedText string `json:"processed_text"`
	FileSizeBytes int64  `json:"file_size_bytes"`
	LastModified  string `json:"last_modified"`
}

// Codec implements intake.CatalogCodec with self-describing JSON records.
type Codec struct{}

var _ intake.CatalogCodec = (*Codec)(nil)

// NewCodec returns a catalog codec.
func NewCodec() *Codec { return &Codec{} }

// Encode writes entries as a JSON array with one object per entry.
func (c *Codec) Encode(w io.Writer, entries []*intake.CatalogEntry) error {
	records := make([]fileInfoRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, fileInfoRecord{
			Filename:     e.Name,
			FullPath:     e.Path,
			FileSize:     e.Size,
			CreationDate: formatTime(e.CreatedAt),
			LastModified: formatTime(e.ModifiedAt),
		})
	}
	return writeJSON(w, records)
}

// EncodeProcessed writes the processed-content report.
func (c *Codec) EncodeProcessed(w io.Writer, records []*intake.ProcessedRecord) error {
	out := make([]processedRecord, 0, len(records))
	for _, r := range records {
		out = append(out, processedRecord{
			Filename:      r.Filename,
			Encoding:      r.Encoding,
			OriginalText:  r.OriginalText,
			ProcessedText: r.ProcessedText,
			FileSizeBytes: r.SizeBytes,
			LastModified:  formatTime(r.LastModified),
		})
	}
	return writeJSON(w, out)
}

// Decode reads a catalog document. Unknown keys are ignored; a missing or
// mistyped known key fails with common.ErrMalformedDocument.
func (c *Codec) Decode(r io.Reader) ([]*intake.CatalogEntry, error) {
	var raw []map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedDocument, err)
	}

	entries := make([]*intake.CatalogEntry, 0, len(raw))
	for i, obj := range raw {
		e, err := decodeEntry(obj)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Schema returns the marshaled file info schema.
func (c *Codec) Schema() ([]byte, error) {
	return FileInfoSchema().Marshal()
}

func decodeEntry(obj map[string]json.RawMessage) (*intake.CatalogEntry, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w: entry is not an object", common.ErrMalformedDocument)
	}
	for _, key := range requiredKeys {
		if _, ok := obj[key]; !ok {
			return nil, fmt.Errorf("%w: missing key %q", common.ErrMalformedDocument, key)
		}
	}

	var rec fileInfoRecord
	fields := []struct {
		key string
		dst any
	}{
		{KeyFilename, &rec.Filename},
		{KeyFullPath, &rec.FullPath},
		{KeyFileSize, &rec.FileSize},
		{KeyCreationDate, &rec.CreationDate},
		{KeyLastModified, &rec.LastModified},
	}
	for _, f := range fields {
		if bytes.Equal(bytes.TrimSpace(obj[f.key]), []byte("null")) {
			return nil, fmt.Errorf("%w: key %q is null", common.ErrMalformedDocument, f.key)
		}
		if err := json.Unmarshal(obj[f.key], f.dst); err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", common.ErrMalformedDocument, f.key, err)
		}
	}

	if rec.Filename == "" {
		return nil, fmt.Errorf("%w: key %q is empty", common.ErrMalformedDocument, KeyFilename)
	}
	if rec.FileSize < 0 {
		return nil, fmt.Errorf("%w: key %q is negative", common.ErrMalformedDocument, KeyFileSize)
	}
	created, err := parseTime(KeyCreationDate, rec.CreationDate)
	if err != nil {
		return nil, err
	}
	modified, err := parseTime(KeyLastModified, rec.LastModified)
	if err != nil {
		return nil, err
	}

	return &intake.CatalogEntry{
		Name:       rec.Filename,
		Path:       rec.FullPath,
		Size:       rec.FileSize,
		CreatedAt:  created,
		ModifiedAt: modified,
	}, nil
}

func formatTime(t time.Time) string {
	return t.Local().Format(intake.TimestampLayout)
}

func parseTime(key, value string) (time.Time, error) {
	t, err := time.ParseInLocation(intake.TimestampLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: key %q: %v", common.ErrMalformedDocument, key, err)
	}
	return t, nil
}

func writeJSON(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}
