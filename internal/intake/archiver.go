package intake

import "time"

// Archiver packs a directory subtree into a single archive file and back.
type Archiver interface {
	// Pack stores every regular file under sourceDir keyed by its path relative
	// to sourceDir.
	Pack(sourceDir, archivePath string) (*ArchiveStats, error)

	// Unpack recreates the archived tree under targetDir. Existing files at
	// conflicting paths are overwritten.
	Unpack(archivePath, targetDir string) (*ArchiveStats, error)

	// Latest returns the name of the newest archive in dir by name order.
	Latest(dir string) (string, error)

	// Name returns the archive file name for a backup taken at t.
	Name(t time.Time) string
}
