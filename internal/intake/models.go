package intake

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the wire format of catalog timestamps (local time, second precision).
const TimestampLayout = "2006-01-02 15:04:05"

// CatalogEntry is one file's metadata snapshot taken during a catalog scan.
//
// CreatedAt is whatever the platform calls creation: inode change time on Linux,
// birth time on macOS/BSD, creation time on Windows. It may be later than
// ModifiedAt.
type CatalogEntry struct {
	Name       string
	Path       string
	Size       int64
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// NewCatalogEntry builds an entry, truncating both timestamps to whole seconds in
// local time so that they survive formatting unchanged.
func NewCatalogEntry(name, path string, size int64, createdAt, modifiedAt time.Time) *CatalogEntry {
	return &CatalogEntry{
		Name:       name,
		Path:       path,
		Size:       size,
		CreatedAt:  createdAt.Truncate(time.Second).Local(),
		ModifiedAt: modifiedAt.Truncate(time.Second).Local(),
	}
}

// Equal reports whether two entries carry the same metadata.
func (e *CatalogEntry) Equal(o *CatalogEntry) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.Name == o.Name &&
		e.Path == o.Path &&
		e.Size == o.Size &&
		e.CreatedAt.Equal(o.CreatedAt) &&
		e.ModifiedAt.Equal(o.ModifiedAt)
}

// ProcessedRecord is a file's content lineage through the transform step.
// SizeBytes and LastModified come from the persisted file, not from ProcessedText.
type ProcessedRecord struct {
	Filename      string
	Encoding      string
	OriginalText  string
	ProcessedText string
	SizeBytes     int64
	LastModified  time.Time
}

// Violation describes the first location at which a document breaks its schema.
// Path elements are object keys (string) or array indices (int).
type Violation struct {
	Message string
	Path    []any
}

// PathString renders the path as slash-separated segments, e.g. "0/file_size".
func (v *Violation) PathString() string {
	parts := make([]string, len(v.Path))
	for i, p := range v.Path {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, "/")
}

func (v *Violation) String() string {
	return fmt.Sprintf("%s (at %v)", v.Message, v.Path)
}

// ArchiveStats summarizes a pack or unpack run.
type ArchiveStats struct {
	Files int
	Bytes int64
}

// Operation is one recorded CLI operation.
type Operation struct {
	ID         int64
	RunID      string
	Operation  string
	Parameters string
	Status     string
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

// Operation statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// ArchiveRecord is the history entry for a created backup archive.
type ArchiveRecord struct {
	ID          int64
	Name        string
	Path        string
	FileCount   int
	TotalBytes  int64
	CreatedAt   time.Time
	OperationID sql.NullInt64
}
