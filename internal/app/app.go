package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"intake-go/internal/archive"
	"intake-go/internal/catalog"
	"intake-go/internal/charset"
	"intake-go/internal/config"
	"intake-go/internal/database"
	"intake-go/internal/fs"
	"intake-go/internal/intake"
	"intake-go/internal/schema"
)

// App is the application layer between the CLI and intake.Service.
// It constructs all dependencies from config, resolves default paths for the
// high-level operations, and manages the DB and log lifecycle on Close.
type App struct {
	cfg     *config.Config
	db      intake.Database
	service *intake.Service
	logger  intake.Logger
	op      *RunOperation
	logFile *os.File
}

// Options overrides the process-level collaborators. Zero values use the real ones.
type Options struct {
	Clock intake.Clock
	IDGen intake.IDGenerator
	Echo  bool // echo logs to stderr even when it is not a terminal
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "process", "backup").
// The caller must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	return NewAppWithOptions(cfg, operation, Options{})
}

// NewAppWithOptions is NewApp with explicit collaborators.
func NewAppWithOptions(cfg *config.Config, operation string, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if opts.Clock == nil {
		opts.Clock = intake.RealClock{}
	}
	if opts.IDGen == nil {
		opts.IDGen = intake.UUIDGenerator{}
	}

	runID := opts.IDGen.New()
	echo := stderrEcho()
	if opts.Echo {
		echo = os.Stderr
	}
	sl, logFile, err := newLogger(cfg.LogPath(), runID, echo)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: sl}

	db, err := database.NewDatabaseFromConfig(cfg.Database, opts.Clock)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating database: %w", err)
	}

	svc := intake.NewService(
		charset.NewDetector(cfg.Encoding.Default, cfg.Encoding.SampleSize, cfg.Encoding.MinConfidence, logger),
		catalog.NewScanner(logger),
		catalog.NewCodec(),
		schema.NewValidator(),
		archive.NewArchiver(cfg.Backup.Prefix, cfg.Backup.Ext, cfg.Backup.DateLayout, logger),
		db,
		logger,
		opts.Clock,
		cfg.Intake.Ignore,
	)

	logger.Debug("operation started", "operation", operation, "base_dir", cfg.BaseDir)
	return &App{
		cfg:     cfg,
		db:      db,
		service: svc,
		logger:  logger,
		op:      NewRunOperation(runID, operation),
		logFile: logFile,
	}, nil
}

// Config returns the configuration the App was built from.
func (a *App) Config() *config.Config { return a.cfg }

// RunID returns the identifier of this invocation.
func (a *App) RunID() string { return a.op.RunID }

// persistOperation saves the operation to the database, giving it an auto-increment ID.
// Read-only commands never call it.
func (a *App) persistOperation(parameters ...string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = strings.Join(parameters, " ")
	dbOp, err := a.db.CreateOperation(a.op.RunID, a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// Init creates the working tree directories.
func (a *App) Init() ([]string, error) {
	if err := a.persistOperation(a.cfg.BaseDir); err != nil {
		return nil, err
	}
	dirs := a.cfg.TreeDirs()
	if err := a.op.Result(fs.EnsureDirs(dirs...)); err != nil {
		return nil, err
	}
	a.logger.Info("working tree ready", "base_dir", a.cfg.BaseDir)
	return dirs, nil
}

// Process transforms the raw files and writes the processed report.
func (a *App) Process() ([]*intake.ProcessedRecord, error) {
	if err := a.persistOperation(a.cfg.RawDir()); err != nil {
		return nil, err
	}
	recs, err := a.service.Process(a.cfg.RawDir(), a.cfg.ProcessedDir())
	if err != nil {
		return nil, a.op.Result(err)
	}
	return recs, a.op.Result(a.service.SaveProcessed(recs, a.cfg.ProcessedReportPath()))
}

// Catalog scans dir (the processed directory when empty) and writes the catalog document.
func (a *App) Catalog(dir string) ([]*intake.CatalogEntry, error) {
	if dir == "" {
		dir = a.cfg.ProcessedDir()
	}
	if err := a.persistOperation(dir); err != nil {
		return nil, err
	}
	entries, err := a.service.BuildCatalog(dir, a.cfg.CatalogPath())
	return entries, a.op.Result(err)
}

// ShowCatalog loads the saved catalog document.
func (a *App) ShowCatalog() ([]*intake.CatalogEntry, error) {
	return a.service.LoadCatalog(a.cfg.CatalogPath())
}

// WriteSchema writes the catalog schema document and returns its path.
func (a *App) WriteSchema() (string, error) {
	path := a.cfg.SchemaPath()
	if err := a.persistOperation(path); err != nil {
		return "", err
	}
	return path, a.op.Result(a.service.WriteSchema(path))
}

// Validate checks a document against a schema. Empty paths default to the
// catalog document and its schema.
func (a *App) Validate(docPath, schemaPath string) (*intake.Violation, error) {
	if docPath == "" {
		docPath = a.cfg.CatalogPath()
	}
	if schemaPath == "" {
		schemaPath = a.cfg.SchemaPath()
	}
	if err := a.persistOperation(docPath, schemaPath); err != nil {
		return nil, err
	}
	v, err := a.service.Validate(docPath, schemaPath)
	if err == nil && v != nil {
		a.op.Status = intake.StatusError
	}
	return v, a.op.Result(err)
}

// Run executes the full pipeline over the configured tree.
func (a *App) Run() (*intake.RunResult, error) {
	if err := a.persistOperation(a.cfg.BaseDir); err != nil {
		return nil, err
	}
	if err := a.op.Result(fs.EnsureDirs(a.cfg.TreeDirs()...)); err != nil {
		return nil, err
	}
	res, err := a.service.Run(a.layout(), a.op.ID)
	if err == nil && res.Violation != nil {
		a.op.Status = intake.StatusError
	}
	return res, a.op.Result(err)
}

// Backup archives the data directory into the backups directory.
func (a *App) Backup() (*intake.ArchiveRecord, error) {
	if err := a.persistOperation(a.cfg.DataDir()); err != nil {
		return nil, err
	}
	rec, err := a.service.Backup(a.cfg.DataDir(), a.cfg.BackupsDir(), a.op.ID)
	return rec, a.op.Result(err)
}

// ListArchives returns the recorded backups, newest first.
func (a *App) ListArchives() ([]*intake.ArchiveRecord, error) {
	return a.service.ListArchives()
}

// Restore unpacks the named archive (the latest when empty) into target
// (the data directory when empty).
func (a *App) Restore(name, target string) (string, *intake.ArchiveStats, error) {
	if target == "" {
		target = a.cfg.DataDir()
	}
	if err := a.persistOperation(name, target); err != nil {
		return "", nil, err
	}
	used, stats, err := a.service.Restore(a.cfg.BackupsDir(), name, target)
	return used, stats, a.op.Result(err)
}

// GetHistory returns the most recent operations.
func (a *App) GetHistory(limit int) ([]*intake.Operation, error) {
	return a.service.GetHistory(limit)
}

func (a *App) layout() intake.Layout {
	return intake.Layout{
		RawDir:          a.cfg.RawDir(),
		ProcessedDir:    a.cfg.ProcessedDir(),
		ProcessedReport: a.cfg.ProcessedReportPath(),
		CatalogDoc:      a.cfg.CatalogPath(),
		SchemaDoc:       a.cfg.SchemaPath(),
		DataDir:         a.cfg.DataDir(),
		BackupsDir:      a.cfg.BackupsDir(),
	}
}

// Close finalizes the operation and closes all resources.
func (a *App) Close() error {
	var errs []error

	if a.op.Persisted() {
		if err := a.db.FinishOperation(a.op.ID, a.op.Status); err != nil {
			errs = append(errs, fmt.Errorf("finishing operation: %w", err))
		}
	}
	a.logger.Debug("operation finished", "operation", a.op.Operation, "status", a.op.Status)

	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database: %w", err))
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return errors.Join(errs...)
}
