package intake

// Database records operation and backup history.
// The data directory stays the source of truth; nothing here is needed to
// restore an archive.
type Database interface {
	// CreateOperation records the start of an operation.
	CreateOperation(runID, operation, parameters string) (*Operation, error)

	// FinishOperation stamps the finish time and final status.
	FinishOperation(id int64, status string) error

	// ListOperations returns the most recent operations, newest first.
	ListOperations(limit int) ([]*Operation, error)

	// CreateArchive records a created archive and fills in its ID.
	CreateArchive(rec *ArchiveRecord) error

	// ListArchives returns all recorded archives, newest first.
	ListArchives() ([]*ArchiveRecord, error)

	// Close closes the database connection.
	Close() error
}
