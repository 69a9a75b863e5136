package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"fo-go/internal/app"
	"fo-go/internal/config"
	"fo-go/internal/rules"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an FOApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Organize", "Undo").
func newApp(operation string) (*app.FOApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config (run 'fo config init' first): %w", err)
	}

	a, err := app.NewFOApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "fo",
	Short: "Rules-based file organizer with undo",
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
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Duplicates: %s\n", cfg.Organize.Duplicates)
		fmt.Printf("Tx Log:     %s\n", cfg.Organize.TransactionLog)
		return nil
	},
}

// organize command
var organizeCmd = &cobra.Command{
	Use:   "organize PATH",
	Short: "Organize files in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recursive, _ := cmd.Flags().GetBool("recursive")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		duplicates, _ := cmd.Flags().GetString("duplicates")
		includeHidden, _ := cmd.Flags().GetBool("include-hidden")
		excludeDirs, _ := cmd.Flags().GetStringArray("exclude-dir")
		keepStructure, _ := cmd.Flags().GetBool("keep-structure")
		txLog, _ := cmd.Flags().GetString("transaction-log")

		a, err := newApp("Organize")
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Organize(app.OrganizeRequest{
			Root:           args[0],
			Recursive:      recursive,
			DryRun:         dryRun,
			Duplicates:     duplicates,
			IncludeHidden:  includeHidden,
			ExcludeDirs:    excludeDirs,
			KeepStructure:  keepStructure,
			TransactionLog: txLog,
		})
		if err != nil {
			return fmt.Errorf("organize failed: %w", err)
		}

		fmt.Printf("Scanned: %d, Moved: %d, Dry-run: %v\n", res.Scanned, res.Moved, res.DryRun)
		return nil
	},
}

// undo command
var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last organization using the transaction log",
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath, _ := cmd.Flags().GetString("path")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		txLog, _ := cmd.Flags().GetString("transaction-log")

		a, err := newApp("Undo")
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Undo(rootPath, txLog, dryRun)
		if err != nil {
			return fmt.Errorf("undo failed: %w", err)
		}

		switch {
		case res.Total == 0:
			fmt.Println("Nothing to undo. No transaction log found or it is empty.")
		case res.DryRun:
			fmt.Printf("Dry-run undo complete (no files were moved). Actions eligible: %d\n", res.Undone)
		default:
			fmt.Printf("Undo complete. Archived transaction log: %s. Actions undone: %d\n", res.ArchivedPath, res.Undone)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View organize/undo run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("GetHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		for _, r := range runs {
			duration := ""
			if r.FinishedAt.Valid {
				d := r.FinishedAt.Time.Sub(r.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			dry := ""
			if r.DryRun {
				dry = "  [dry-run]"
			}
			fmt.Printf("%s  %-8s  %s  %-7s  scanned:%d moved:%d  %s%s\n",
				r.ID[:8],
				r.Operation,
				r.StartedAt.Format("2006-01-02 15:04:05"),
				r.Status,
				r.Scanned,
				r.Moved,
				duration,
				dry,
			)
		}
		return nil
	},
}

// rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "View the effective category rule table",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Rules work without an initialized config; overrides apply when
		// a config file exists.
		var custom []rules.CategoryRule
		if cfg, err := config.ReadFromFile(defaults["config_path"]); err == nil {
			custom = app.CategoryRules(cfg.Rules)
		}

		rs := rules.New(custom)
		for _, c := range rs.Categories() {
			fmt.Printf("%-14s %s\n", c.Name, strings.Join(c.Extensions, " "))
		}
		fmt.Printf("%-14s README/LICENSE variants\n", rules.CategoryDocuments)
		fmt.Printf("%-14s *.tmp *.part *.crdownload ~$*\n", rules.CategoryTemp)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)

	rootCmd.AddCommand(organizeCmd)
	organizeCmd.Flags().BoolP("recursive", "r", false, "Scan subfolders recursively")
	organizeCmd.Flags().Bool("dry-run", false, "Preview actions without moving files")
	organizeCmd.Flags().String("duplicates", "", "What to do when the destination exists: rename, skip, or overwrite")
	organizeCmd.Flags().Bool("include-hidden", false, "Include hidden files (dotfiles)")
	organizeCmd.Flags().StringArray("exclude-dir", nil, "Directory name to exclude (repeatable)")
	organizeCmd.Flags().Bool("keep-structure", false, "With --recursive, preserve subfolder structure under each category")
	organizeCmd.Flags().String("transaction-log", "", "Transaction log file for undo")

	rootCmd.AddCommand(undoCmd)
	undoCmd.Flags().String("path", "", "Root directory that was organized")
	undoCmd.Flags().Bool("dry-run", false, "Preview undo without moving files")
	undoCmd.Flags().String("transaction-log", "", "Transaction log file used during organize")
	undoCmd.MarkFlagRequired("path")

	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")

	rootCmd.AddCommand(rulesCmd)
}
