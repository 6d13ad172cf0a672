package intake

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"intake-go/internal/fs"
)

// Process decodes every regular, non-ignored file directly inside rawDir,
// inverts its case and writes the result as UTF-8 to processedDir under
// <stem>_processed<ext>. A missing rawDir yields no records.
// A file that cannot be read is logged and skipped.
func (s *Service) Process(rawDir, processedDir string) ([]*ProcessedRecord, error) {
	s.logger.Info("processing started", "raw", rawDir, "processed", processedDir)

	files, err := fs.FindFiles(rawDir, false)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("raw directory does not exist", "dir", rawDir)
			return []*ProcessedRecord{}, nil
		}
		return nil, fmt.Errorf("listing raw files: %w", err)
	}

	ignore, err := fs.LoadIgnoreMatcher(rawDir, s.ignore)
	if err != nil {
		return nil, fmt.Errorf("loading ignore rules: %w", err)
	}

	records := make([]*ProcessedRecord, 0, len(files))
	for _, f := range files {
		if ignore.Match(f.RelPath) {
			s.logger.Debug("file ignored", "path", f.Path)
			continue
		}
		rec, err := s.processOne(f, processedDir)
		if err != nil {
			var pe *os.PathError
			if errors.As(err, &pe) && pe.Op == "open" {
				s.logger.Error("skipping unreadable file", "path", f.Path, "error", err)
				continue
			}
			return records, err
		}
		records = append(records, rec)
	}

	s.logger.Info("processing finished", "files", len(records))
	return records, nil
}

func (s *Service) processOne(f fs.File, processedDir string) (*ProcessedRecord, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}

	sample := data
	if n := s.detector.SampleSize(); n > 0 && len(sample) > n {
		sample = sample[:n]
	}
	encoding := s.detector.Detect(sample)

	original, err := s.detector.Decode(data, encoding)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f.Path, err)
	}
	processed := SwapCase(original)

	dest := filepath.Join(processedDir, ProcessedName(f.Info.Name()))
	if _, err := fs.WriteFileAtomic(dest, strings.NewReader(processed)); err != nil {
		return nil, fmt.Errorf("writing %s: %w", dest, err)
	}
	info, err := os.Stat(dest)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dest, err)
	}

	s.logger.Debug("file processed", "source", f.Path, "dest", dest, "encoding", encoding)
	return &ProcessedRecord{
		Filename:      info.Name(),
		Encoding:      encoding,
		OriginalText:  original,
		ProcessedText: processed,
		SizeBytes:     info.Size(),
		LastModified:  info.ModTime().Truncate(time.Second).Local(),
	}, nil
}

// SaveProcessed writes the processed-content report to path.
func (s *Service) SaveProcessed(records []*ProcessedRecord, path string) error {
	var buf bytes.Buffer
	if err := s.codec.EncodeProcessed(&buf, records); err != nil {
		return fmt.Errorf("encoding processed report: %w", err)
	}
	if err := writeDocument(path, buf.Bytes()); err != nil {
		return err
	}
	s.logger.Info("processed report saved", "path", path, "records", len(records))
	return nil
}
