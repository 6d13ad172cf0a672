package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Document and log file names inside the output and logs directories.
const (
	CatalogFileName         = "file_info.json"
	SchemaFileName          = "file_info_schema.json"
	ProcessedReportFileName = "processed_data.json"
	LogFileName             = "intake.log"
)

// Config represents the main configuration for intake.
type Config struct {
	BaseDir  string         `toml:"base_dir"`
	Paths    PathsConfig    `toml:"paths"`
	Encoding EncodingConfig `toml:"encoding"`
	Backup   BackupConfig   `toml:"backup"`
	Database DatabaseConfig `toml:"database"`
	Intake   IntakeConfig   `toml:"intake"`
}

// PathsConfig holds the working tree layout. Relative paths are resolved
// against BaseDir.
type PathsConfig struct {
	Data      string `toml:"data"`
	Raw       string `toml:"raw"`
	Processed string `toml:"processed"`
	Output    string `toml:"output"`
	Backups   string `toml:"backups"`
	Logs      string `toml:"logs"`
}

// EncodingConfig controls charset detection of raw files.
type EncodingConfig struct {
	Default       string `toml:"default"`        // used when detection is not confident
	SampleSize    int    `toml:"sample_size"`    // leading bytes inspected
	MinConfidence int    `toml:"min_confidence"` // 0-100
}

// BackupConfig controls archive naming: <prefix><date layout><ext>.
type BackupConfig struct {
	Prefix     string `toml:"prefix"`
	Ext        string `toml:"ext"`
	DateLayout string `toml:"date_layout"` // Go time layout; must sort lexicographically
}

// DatabaseConfig represents configuration for the history database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// IntakeConfig holds settings for raw file processing.
type IntakeConfig struct {
	Ignore []string `toml:"ignore"`
}

// NewConfig creates a Config rooted at baseDir with every default filled in.
func NewConfig(baseDir string) *Config {
	cfg := &Config{
		BaseDir: baseDir,
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every empty setting with its default value.
func (c *Config) ApplyDefaults() {
	setDefault(&c.Paths.Data, "data")
	setDefault(&c.Paths.Raw, filepath.Join("data", "raw"))
	setDefault(&c.Paths.Processed, filepath.Join("data", "processed"))
	setDefault(&c.Paths.Output, "output")
	setDefault(&c.Paths.Backups, "backups")
	setDefault(&c.Paths.Logs, "logs")

	setDefault(&c.Encoding.Default, "utf-8")
	if c.Encoding.SampleSize <= 0 {
		c.Encoding.SampleSize = 4096
	}

	setDefault(&c.Backup.Prefix, "backup_")
	setDefault(&c.Backup.Ext, ".zip")
	setDefault(&c.Backup.DateLayout, "20060102")

	setDefault(&c.Database.Type, "sqlite")
	if c.Database.Type == "sqlite" && c.Database.DataDir == "" && c.BaseDir != "" {
		c.Database.DataDir = filepath.Join(c.BaseDir, "db")
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base_dir is required")
	}
	if c.Encoding.MinConfidence < 0 || c.Encoding.MinConfidence > 100 {
		return fmt.Errorf("encoding.min_confidence must be between 0 and 100, got %d", c.Encoding.MinConfidence)
	}
	return nil
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// DataDir is the tree that backups archive.
func (c *Config) DataDir() string { return c.resolve(c.Paths.Data) }

func (c *Config) RawDir() string       { return c.resolve(c.Paths.Raw) }
func (c *Config) ProcessedDir() string { return c.resolve(c.Paths.Processed) }
func (c *Config) OutputDir() string    { return c.resolve(c.Paths.Output) }
func (c *Config) BackupsDir() string   { return c.resolve(c.Paths.Backups) }
func (c *Config) LogsDir() string      { return c.resolve(c.Paths.Logs) }

func (c *Config) CatalogPath() string { return filepath.Join(c.OutputDir(), CatalogFileName) }
func (c *Config) SchemaPath() string  { return filepath.Join(c.OutputDir(), SchemaFileName) }
func (c *Config) ProcessedReportPath() string {
	return filepath.Join(c.OutputDir(), ProcessedReportFileName)
}
func (c *Config) LogPath() string { return filepath.Join(c.LogsDir(), LogFileName) }

// TreeDirs lists every directory of the working tree.
func (c *Config) TreeDirs() []string {
	return []string{c.RawDir(), c.ProcessedDir(), c.OutputDir(), c.BackupsDir(), c.LogsDir()}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader and fills in defaults.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes a new config file at path. It refuses to overwrite an existing one.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
