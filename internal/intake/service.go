package intake

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"intake-go/internal/common"
	"intake-go/internal/fs"
)

// Service is the orchestration layer that coordinates the pipeline components
// to perform the operations needed by the CLI.
type Service struct {
	detector  Detector
	scanner   Scanner
	codec     CatalogCodec
	validator SchemaValidator
	archiver  Archiver
	database  Database
	logger    Logger
	clock     Clock
	ignore    []string
}

// NewService creates a new Service with the provided dependencies. ignore holds
// extra glob patterns for raw files to leave out of processing.
func NewService(detector Detector, scanner Scanner, codec CatalogCodec, validator SchemaValidator,
	archiver Archiver, database Database, logger Logger, clock Clock, ignore []string) *Service {
	if logger == nil {
		logger = NewNopLogger()
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Service{
		detector:  detector,
		scanner:   scanner,
		codec:     codec,
		validator: validator,
		archiver:  archiver,
		database:  database,
		logger:    logger,
		clock:     clock,
		ignore:    ignore,
	}
}

// readDocument reads a document the pipeline produced earlier.
// A missing file is reported as common.ErrNotFound.
func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// writeDocument atomically replaces path with data.
func writeDocument(path string, data []byte) error {
	if _, err := fs.WriteFileAtomic(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
