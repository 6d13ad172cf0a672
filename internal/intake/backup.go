package intake

import (
	"database/sql"
	"fmt"
	"path/filepath"
)

// Backup packs dataDir into a dated archive inside backupsDir and records it.
// operationID links the record to the running operation; pass 0 for none.
// An archive with the same name, e.g. from earlier the same day, is replaced.
func (s *Service) Backup(dataDir, backupsDir string, operationID int64) (*ArchiveRecord, error) {
	now := s.clock.Now()
	name := s.archiver.Name(now)
	path := filepath.Join(backupsDir, name)

	s.logger.Info("backup started", "source", dataDir, "archive", path)
	stats, err := s.archiver.Pack(dataDir, path)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", dataDir, err)
	}

	rec := &ArchiveRecord{
		Name:        name,
		Path:        path,
		FileCount:   stats.Files,
		TotalBytes:  stats.Bytes,
		CreatedAt:   now,
		OperationID: sql.NullInt64{Int64: operationID, Valid: operationID > 0},
	}
	if err := s.database.CreateArchive(rec); err != nil {
		return nil, fmt.Errorf("recording archive: %w", err)
	}

	s.logger.Info("backup finished", "archive", path, "files", stats.Files, "bytes", stats.Bytes)
	return rec, nil
}

// Restore unpacks the named archive from backupsDir into targetDir. An empty
// name selects the latest archive by name. It returns the archive name used.
func (s *Service) Restore(backupsDir, name, targetDir string) (string, *ArchiveStats, error) {
	if name == "" {
		latest, err := s.archiver.Latest(backupsDir)
		if err != nil {
			return "", nil, fmt.Errorf("selecting latest archive: %w", err)
		}
		name = latest
	}

	path := filepath.Join(backupsDir, name)
	s.logger.Info("restore started", "archive", path, "target", targetDir)
	stats, err := s.archiver.Unpack(path, targetDir)
	if err != nil {
		return name, nil, fmt.Errorf("unpacking %s: %w", name, err)
	}

	s.logger.Info("restore finished", "archive", path, "files", stats.Files)
	return name, stats, nil
}

// ListArchives returns the recorded backups, newest first.
func (s *Service) ListArchives() ([]*ArchiveRecord, error) {
	recs, err := s.database.ListArchives()
	if err != nil {
		return nil, fmt.Errorf("listing archives: %w", err)
	}
	return recs, nil
}
