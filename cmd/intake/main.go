package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"intake-go/internal/app"
	"intake-go/internal/common"
	"intake-go/internal/config"
	"intake-go/internal/intake"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, or builds the defaults when there is none.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if errors.Is(err, os.ErrNotExist) {
		return config.NewConfig(defaults["base_dir"]), defaults["config_path"], nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "process", "backup").
func newApp(operation string) (*app.App, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// notFound reports a missing input as a message; the command still succeeds.
func notFound(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		fmt.Printf("Nothing to do: %v\n", err)
		return nil
	}
	return err
}

func printViolation(v *intake.Violation) {
	at := v.PathString()
	if at == "" {
		at = "(document root)"
	}
	fmt.Printf("Validation failed at %s: %s\n", at, v.Message)
}

var rootCmd = &cobra.Command{
	Use:          "intake",
	Short:        "File intake and archival pipeline",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Base Dir:       %s\n", cfg.BaseDir)
		fmt.Printf("Raw Dir:        %s\n", cfg.RawDir())
		fmt.Printf("Processed Dir:  %s\n", cfg.ProcessedDir())
		fmt.Printf("Output Dir:     %s\n", cfg.OutputDir())
		fmt.Printf("Backups Dir:    %s\n", cfg.BackupsDir())
		fmt.Printf("Log File:       %s\n", cfg.LogPath())
		fmt.Printf("Encoding:       default=%s sample=%d min_confidence=%d\n",
			cfg.Encoding.Default, cfg.Encoding.SampleSize, cfg.Encoding.MinConfidence)
		fmt.Printf("Archive Name:   %s%s%s\n", cfg.Backup.Prefix, cfg.Backup.DateLayout, cfg.Backup.Ext)
		fmt.Printf("Database:       %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		return nil
	},
}

// init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the working tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("init")
		if err != nil {
			return err
		}
		defer a.Close()

		dirs, err := a.Init()
		if err != nil {
			return fmt.Errorf("creating working tree: %w", err)
		}
		for _, d := range dirs {
			fmt.Println(d)
		}
		return nil
	},
}

// process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Decode raw files and write case-swapped copies",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("process")
		if err != nil {
			return err
		}
		defer a.Close()

		recs, err := a.Process()
		if err != nil {
			return fmt.Errorf("processing failed: %w", err)
		}
		for _, r := range recs {
			fmt.Printf("%-40s  %-12s  %d\n", r.Filename, r.Encoding, r.SizeBytes)
		}
		fmt.Printf("Processed %d file(s)\n", len(recs))
		return nil
	},
}

// catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog [DIR]",
	Short: "Write the metadata catalog of a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("catalog")
		if err != nil {
			return err
		}
		defer a.Close()

		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}
		entries, err := a.Catalog(dir)
		if err != nil {
			return fmt.Errorf("cataloging failed: %w", err)
		}
		fmt.Printf("Cataloged %d file(s) into %s\n", len(entries), a.Config().CatalogPath())
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("catalog show")
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.ShowCatalog()
		if err != nil {
			return notFound(err)
		}
		if len(entries) == 0 {
			fmt.Println("Catalog is empty.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-40s  %10d  %s  %s\n",
				e.Name,
				e.Size,
				e.CreatedAt.Format(intake.TimestampLayout),
				e.ModifiedAt.Format(intake.TimestampLayout),
			)
		}
		return nil
	},
}

// schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the catalog schema",
}

var schemaWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the catalog schema document",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("schema write")
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.WriteSchema()
		if err != nil {
			return fmt.Errorf("writing schema: %w", err)
		}
		fmt.Printf("Schema written to %s\n", path)
		return nil
	},
}

// validate command
var validateCmd = &cobra.Command{
	Use:   "validate [DOCUMENT [SCHEMA]]",
	Short: "Validate a document against a schema",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("validate")
		if err != nil {
			return err
		}
		defer a.Close()

		var doc, schemaPath string
		if len(args) > 0 {
			doc = args[0]
		}
		if len(args) > 1 {
			schemaPath = args[1]
		}

		v, err := a.Validate(doc, schemaPath)
		if err != nil {
			return notFound(err)
		}
		if v != nil {
			printViolation(v)
			return nil
		}
		fmt.Println("Document is valid.")
		return nil
	},
}

// run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process, catalog, validate and back up in one go",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("run")
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Run()
		if err != nil {
			return fmt.Errorf("run failed: %w", err)
		}
		fmt.Printf("Processed %d file(s)\n", len(res.Processed))
		fmt.Printf("Cataloged %d file(s)\n", len(res.Catalog))
		if res.Violation != nil {
			printViolation(res.Violation)
		} else {
			fmt.Println("Catalog is valid.")
		}
		if res.Archive != nil {
			fmt.Printf("Backup %s (%d file(s), %d bytes)\n", res.Archive.Path, res.Archive.FileCount, res.Archive.TotalBytes)
		}
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Archive the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("backup")
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.Backup()
		if err != nil {
			return notFound(err)
		}
		fmt.Printf("Backed up %d file(s) to %s\n", rec.FileCount, rec.Path)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("backup list")
		if err != nil {
			return err
		}
		defer a.Close()

		recs, err := a.ListArchives()
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println("No backups recorded.")
			return nil
		}
		for _, r := range recs {
			fmt.Printf("%-24s  %s  %5d file(s)  %10d bytes\n",
				r.Name, r.CreatedAt.Format("2006-01-02 15:04:05"), r.FileCount, r.TotalBytes)
		}
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore [NAME]",
	Short: "Restore a backup (the latest by name when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("target")

		a, err := newApp("restore")
		if err != nil {
			return err
		}
		defer a.Close()

		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		used, stats, err := a.Restore(name, target)
		if err != nil {
			return notFound(err)
		}
		fmt.Printf("Restored %d file(s) from %s\n", stats.Files, used)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("history")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.GetHistory(limit)
		if err != nil {
			return err
		}
		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				d := op.FinishedAt.Time.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-15s  %s  %-10s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Local().Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
			)
		}
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	catalogCmd.AddCommand(catalogShowCmd)
	schemaCmd.AddCommand(schemaWriteCmd)
	backupCmd.AddCommand(backupListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().StringP("target", "t", "", "Directory to restore into (default: the data directory)")
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
}
