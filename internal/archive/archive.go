// Package archive packs the data tree into zip backups and restores it.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"

	"intake-go/internal/common"
	"intake-go/internal/fs"
	"intake-go/internal/intake"
)

// Archive naming defaults.
const (
	DefaultPrefix = "backup_"
	DefaultExt    = ".zip"
	DefaultLayout = "20060102"
)

// Archiver implements intake.Archiver with zip containers.
type Archiver struct {
	prefix string
	ext    string
	layout string
	logger intake.Logger
}

var _ intake.Archiver = (*Archiver)(nil)

// NewArchiver creates an Archiver. Empty naming parts fall back to the defaults.
func NewArchiver(prefix, ext, layout string, logger intake.Logger) *Archiver {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ext == "" {
		ext = DefaultExt
	}
	if layout == "" {
		layout = DefaultLayout
	}
	if logger == nil {
		logger = intake.NewNopLogger()
	}
	return &Archiver{prefix: prefix, ext: ext, layout: layout, logger: logger}
}

// Name returns the archive file name for a backup taken at t.
func (a *Archiver) Name(t time.Time) string {
	return ArchiveName(a.prefix, a.layout, a.ext, t)
}

// Latest returns the newest archive name in dir.
func (a *Archiver) Latest(dir string) (string, error) {
	return LatestArchive(dir, a.prefix, a.ext)
}

// ArchiveName formats t with layout between prefix and ext.
func ArchiveName(prefix, layout, ext string, t time.Time) string {
	return prefix + t.Format(layout) + ext
}

// SelectLatest returns the lexicographically greatest name that starts with
// prefix and ends with ext. This orders dates correctly only for fixed-width,
// zero-padded layouts such as 20060102.
func SelectLatest(names []string, prefix, ext string) (string, bool) {
	var latest string
	found := false
	for _, n := range names {
		if !strings.HasPrefix(n, prefix) || !strings.HasSuffix(n, ext) || len(n) < len(prefix)+len(ext) {
			continue
		}
		if !found || n > latest {
			latest, found = n, true
		}
	}
	return latest, found
}

// LatestArchive lists dir and selects the latest archive by name.
func LatestArchive(dir, prefix, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: backups directory %s", common.ErrNotFound, dir)
		}
		return "", fmt.Errorf("listing backups: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	latest, ok := SelectLatest(names, prefix, ext)
	if !ok {
		return "", fmt.Errorf("%w: no %s*%s archive in %s", common.ErrNotFound, prefix, ext, dir)
	}
	return latest, nil
}

// Pack stores every regular file under sourceDir in a new archive at
// archivePath, keyed by its slash-separated path relative to sourceDir.
// The archive is assembled in a temp file and renamed into place.
func (a *Archiver) Pack(sourceDir, archivePath string) (*intake.ArchiveStats, error) {
	files, err := fs.FindFiles(sourceDir, true)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: source directory %s", common.ErrNotFound, sourceDir)
		}
		return nil, fmt.Errorf("listing source files: %w", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })

	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return nil, fmt.Errorf("resolving archive path: %w", err)
	}

	pr, pw := io.Pipe()
	stats := &intake.ArchiveStats{}
	go func() {
		pw.CloseWithError(a.writeZip(pw, files, absArchive, stats))
	}()

	if _, err := fs.WriteFileAtomic(archivePath, pr); err != nil {
		pr.CloseWithError(err)
		return nil, fmt.Errorf("writing archive: %w", err)
	}

	a.logger.Info("archive created", "archive", archivePath, "files", stats.Files, "bytes", stats.Bytes)
	return stats, nil
}

func (a *Archiver) writeZip(w io.Writer, files []fs.File, absArchive string, stats *intake.ArchiveStats) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, f := range files {
		if abs, err := filepath.Abs(f.Path); err == nil && abs == absArchive {
			continue
		}
		n, err := addFile(zw, f)
		if err != nil {
			zw.Close()
			return err
		}
		stats.Files++
		stats.Bytes += n
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, f fs.File) (int64, error) {
	hdr, err := zip.FileInfoHeader(f.Info)
	if err != nil {
		return 0, fmt.Errorf("archive header for %s: %w", f.RelPath, err)
	}
	hdr.Name = filepath.ToSlash(f.RelPath)
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return 0, fmt.Errorf("adding %s: %w", f.RelPath, err)
	}

	src, err := os.Open(f.Path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", f.RelPath, err)
	}
	defer src.Close()

	n, err := io.Copy(w, src)
	if err != nil {
		return 0, fmt.Errorf("compressing %s: %w", f.RelPath, err)
	}
	return n, nil
}

// Unpack recreates the archived tree under targetDir, creating directories as
// needed. Existing files at the same paths are overwritten.
func (a *Archiver) Unpack(archivePath, targetDir string) (*intake.ArchiveStats, error) {
	if _, err := os.Stat(archivePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: archive %s", common.ErrNotFound, archivePath)
		}
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		if zr != nil {
			zr.Close()
		}
		return nil, fmt.Errorf("%w: %s: %v", common.ErrArchiveCorrupt, archivePath, err)
	}
	defer zr.Close()
	zr.RegisterDecompressor(zip.Deflate, flate.NewReader)

	// Validate every name before touching the target.
	for _, zf := range zr.File {
		if _, err := entryPath(targetDir, zf.Name); err != nil {
			return nil, err
		}
	}

	stats := &intake.ArchiveStats{}
	for _, zf := range zr.File {
		dest, _ := entryPath(targetDir, zf.Name)
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return nil, fmt.Errorf("creating directory %s: %w", zf.Name, err)
			}
			continue
		}
		n, err := extractFile(zf, dest)
		if err != nil {
			return nil, err
		}
		stats.Files++
		stats.Bytes += n
	}

	a.logger.Info("archive restored", "archive", archivePath, "target", targetDir, "files", stats.Files)
	return stats, nil
}

// entryPath maps an archive entry name to a path under targetDir, rejecting
// absolute names and names that escape targetDir.
func entryPath(targetDir, name string) (string, error) {
	slashed := strings.ReplaceAll(name, `\`, "/")
	if slashed == "" || path.IsAbs(slashed) || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: unsafe entry %q", common.ErrArchiveCorrupt, name)
	}
	clean := path.Clean(slashed)
	if clean == "." {
		return "", fmt.Errorf("%w: unsafe entry %q", common.ErrArchiveCorrupt, name)
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: entry %q escapes target", common.ErrArchiveCorrupt, name)
	}
	return filepath.Join(targetDir, filepath.FromSlash(clean)), nil
}

func extractFile(zf *zip.File, dest string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, fmt.Errorf("creating directory for %s: %w", zf.Name, err)
	}

	rc, err := zf.Open()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", common.ErrArchiveCorrupt, zf.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()

	n, err := io.Copy(out, rc)
	if err != nil {
		// Write failures come back as *os.PathError; anything else is the archive.
		var pe *os.PathError
		if errors.As(err, &pe) {
			return 0, fmt.Errorf("extracting %s: %w", zf.Name, err)
		}
		return 0, fmt.Errorf("%w: %s: %v", common.ErrArchiveCorrupt, zf.Name, err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("closing %s: %w", dest, err)
	}
	return n, nil
}
