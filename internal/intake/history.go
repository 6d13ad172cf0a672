package intake

import "fmt"

// GetHistory returns the most recent operations, ordered newest first.
func (s *Service) GetHistory(limit int) ([]*Operation, error) {
	ops, err := s.database.ListOperations(limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}
