// Package catalog captures per-file metadata and converts it to and from the
// JSON catalog document.
package catalog

import (
	"errors"
	"os"
	"path/filepath"

	"intake-go/internal/fs"
	"intake-go/internal/intake"
)

// Scanner implements intake.Scanner over the local filesystem.
type Scanner struct {
	logger intake.Logger
}

var _ intake.Scanner = (*Scanner)(nil)

// NewScanner creates a Scanner that reports unreadable directories to logger.
func NewScanner(logger intake.Logger) *Scanner {
	if logger == nil {
		logger = intake.NewNopLogger()
	}
	return &Scanner{logger: logger}
}

// Scan returns one entry per regular file directly inside dir. Subdirectories,
// symlinks and other non-regular entries are skipped. A directory that is
// missing or unreadable yields an empty catalog.
func (s *Scanner) Scan(dir string) []*intake.CatalogEntry {
	files, err := fs.FindFiles(dir, false)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("directory does not exist", "dir", dir)
		} else {
			s.logger.Error("cannot read directory", "dir", dir, "error", err)
		}
		return []*intake.CatalogEntry{}
	}

	entries := make([]*intake.CatalogEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, intake.NewCatalogEntry(
			f.Info.Name(),
			filepath.ToSlash(f.Path),
			f.Info.Size(),
			fs.CreationTime(f.Info),
			f.Info.ModTime(),
		))
	}

	s.logger.Debug("directory scanned", "dir", dir, "files", len(entries))
	return entries
}
