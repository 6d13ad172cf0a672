package intake

import (
	"errors"
	"fmt"

	"intake-go/internal/common"
)

// Layout names the directories and documents one pipeline run touches.
type Layout struct {
	RawDir          string
	ProcessedDir    string
	ProcessedReport string
	CatalogDoc      string
	SchemaDoc       string
	DataDir         string
	BackupsDir      string
}

// RunResult summarizes a full pipeline run.
type RunResult struct {
	Processed []*ProcessedRecord
	Catalog   []*CatalogEntry
	Violation *Violation
	Archive   *ArchiveRecord
}

// Run executes the whole pipeline: process the raw files, catalog the
// processed directory, write and check the schema, then back up the data
// directory. A catalog that violates the schema is reported in the result and
// does not stop the backup.
func (s *Service) Run(l Layout, operationID int64) (*RunResult, error) {
	res := &RunResult{}

	var err error
	if res.Processed, err = s.Process(l.RawDir, l.ProcessedDir); err != nil {
		return res, fmt.Errorf("processing: %w", err)
	}
	if err := s.SaveProcessed(res.Processed, l.ProcessedReport); err != nil {
		return res, err
	}
	if res.Catalog, err = s.BuildCatalog(l.ProcessedDir, l.CatalogDoc); err != nil {
		return res, fmt.Errorf("cataloging: %w", err)
	}
	if err := s.WriteSchema(l.SchemaDoc); err != nil {
		return res, err
	}
	if res.Violation, err = s.Validate(l.CatalogDoc, l.SchemaDoc); err != nil {
		return res, err
	}

	res.Archive, err = s.Backup(l.DataDir, l.BackupsDir, operationID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Warn("nothing to back up", "dir", l.DataDir)
			return res, nil
		}
		return res, fmt.Errorf("backing up: %w", err)
	}
	return res, nil
}
