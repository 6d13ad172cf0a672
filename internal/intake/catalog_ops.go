package intake

import (
	"bytes"
	"fmt"
)

// BuildCatalog scans dir and writes the catalog document to docPath.
// A missing dir produces an empty catalog document.
func (s *Service) BuildCatalog(dir, docPath string) ([]*CatalogEntry, error) {
	entries := s.scanner.Scan(dir)

	var buf bytes.Buffer
	if err := s.codec.Encode(&buf, entries); err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	if err := writeDocument(docPath, buf.Bytes()); err != nil {
		return nil, err
	}

	s.logger.Info("catalog saved", "dir", dir, "path", docPath, "entries", len(entries))
	return entries, nil
}

// LoadCatalog reads a catalog document back into entries.
func (s *Service) LoadCatalog(docPath string) ([]*CatalogEntry, error) {
	data, err := readDocument(docPath)
	if err != nil {
		return nil, err
	}
	entries, err := s.codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", docPath, err)
	}
	return entries, nil
}

// WriteSchema writes the fixed catalog schema document to path.
func (s *Service) WriteSchema(path string) error {
	doc, err := s.codec.Schema()
	if err != nil {
		return fmt.Errorf("building schema: %w", err)
	}
	if err := writeDocument(path, doc); err != nil {
		return err
	}
	s.logger.Info("schema saved", "path", path)
	return nil
}

// Validate checks the document at docPath against the schema at schemaPath.
// It returns nil for a conforming document and the first Violation otherwise.
func (s *Service) Validate(docPath, schemaPath string) (*Violation, error) {
	doc, err := readDocument(docPath)
	if err != nil {
		return nil, err
	}
	schemaDoc, err := readDocument(schemaPath)
	if err != nil {
		return nil, err
	}

	v, err := s.validator.Validate(doc, schemaDoc)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", docPath, err)
	}
	if v != nil {
		s.logger.Warn("document does not conform", "path", docPath, "at", v.PathString(), "reason", v.Message)
	} else {
		s.logger.Info("document conforms", "path", docPath, "schema", schemaPath)
	}
	return v, nil
}
