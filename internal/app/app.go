package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fo-go/internal/config"
	"fo-go/internal/database"
	"fo-go/internal/fo"
	"fo-go/internal/fs"
	"fo-go/internal/rules"
	"fo-go/internal/txlog"
)

// FOApp is the application layer between the CLI and the organize/undo
// service. It constructs all dependencies from config, exposes high-level
// operations that accept raw string paths, and manages the history database
// lifecycle on Close.
type FOApp struct {
	cfg          *config.Config
	db           fo.Database
	fsmgr        fo.FilesystemManager
	service      *fo.Service
	run          *fo.Run
	runPersisted bool
	logFile      *os.File
}

// NewFOApp creates a fully wired FOApp from the given config.
// operation identifies the CLI command being run (e.g. "Organize", "Undo").
// The caller must call Close when done.
func NewFOApp(cfg *config.Config, operation string) (*FOApp, error) {
	fsmgr := fs.NewOSFilesystemManager()

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	ruleset := rules.New(CategoryRules(cfg.Rules))

	runID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	clock := fo.RealClock{}
	svc := fo.NewService(fsmgr, ruleset, &slogAdapter{l: logger}, clock)

	run := &fo.Run{
		ID:        fo.UUIDGenerator{}.New(),
		Operation: operation,
		Status:    "success",
		StartedAt: clock.Now(),
	}

	return &FOApp{
		cfg:     cfg,
		db:      db,
		fsmgr:   fsmgr,
		service: svc,
		run:     run,
		logFile: logFile,
	}, nil
}

// CategoryRules converts configured rule overrides into classifier rules.
func CategoryRules(rc config.RulesConfig) []rules.CategoryRule {
	out := make([]rules.CategoryRule, 0, len(rc.Categories))
	for _, c := range rc.Categories {
		out = append(out, rules.CategoryRule{Name: c.Name, Extensions: c.Extensions})
	}
	return out
}

// persistRun saves the run record to the history database. Only
// organize and undo invocations are recorded; read-only commands are not.
func (a *FOApp) persistRun() error {
	if a.runPersisted {
		return nil
	}
	if err := a.db.CreateRun(a.run); err != nil {
		return fmt.Errorf("persisting run: %w", err)
	}
	a.runPersisted = true
	return nil
}

// OrganizeRequest carries the CLI parameters for an organize run.
type OrganizeRequest struct {
	Root          string
	Recursive     bool
	DryRun        bool
	Duplicates    string
	IncludeHidden bool
	ExcludeDirs   []string
	KeepStructure bool
	// TransactionLog overrides the configured log location. Relative paths
	// resolve against the current directory.
	TransactionLog string
}

// Organize validates the request, records the run, and executes it.
func (a *FOApp) Organize(req OrganizeRequest) (*fo.OrganizeResult, error) {
	policy, err := fo.ParseDuplicatePolicy(a.duplicatePolicy(req.Duplicates))
	if err != nil {
		return nil, err
	}

	root, err := a.fsmgr.Resolve(req.Root)
	if err != nil {
		return nil, fmt.Errorf("root directory not found: %w", err)
	}
	if !root.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root.String())
	}

	logPath, err := filepath.Abs(a.transactionLogName(req.TransactionLog))
	if err != nil {
		return nil, fmt.Errorf("resolving transaction log path: %w", err)
	}

	a.run.Root = root.String()
	a.run.DryRun = req.DryRun
	if err := a.persistRun(); err != nil {
		return nil, err
	}

	opts := fo.OrganizeOptions{
		Recursive:     req.Recursive,
		DryRun:        req.DryRun,
		Duplicates:    policy,
		IncludeHidden: req.IncludeHidden,
		ExcludeDirs:   append(append([]string{}, a.cfg.Organize.ExcludeDirs...), req.ExcludeDirs...),
		KeepStructure: req.KeepStructure,
	}

	res, err := a.service.Organize(root, txlog.New(logPath), opts)
	if res != nil {
		a.run.Scanned = res.Scanned
		a.run.Moved = res.Moved
	}
	if err != nil {
		a.run.Status = "error"
		return res, err
	}
	return res, nil
}

// Undo reverses the moves recorded in the transaction log for the given root.
// A relative log name is interpreted relative to the root.
func (a *FOApp) Undo(rawRoot string, logName string, dryRun bool) (*fo.UndoResult, error) {
	root, err := a.fsmgr.Resolve(rawRoot)
	if err != nil {
		return nil, fmt.Errorf("root directory not found: %w", err)
	}
	if !root.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root.String())
	}

	logPath := a.transactionLogName(logName)
	if !filepath.IsAbs(logPath) {
		logPath = filepath.Join(root.String(), logPath)
	}

	a.run.Root = root.String()
	a.run.DryRun = dryRun
	if err := a.persistRun(); err != nil {
		return nil, err
	}

	res, err := a.service.Undo(txlog.New(logPath), dryRun)
	if res != nil {
		a.run.Scanned = int64(res.Total)
		a.run.Moved = res.Undone
	}
	if err != nil {
		a.run.Status = "error"
		return res, err
	}
	return res, nil
}

// History returns the most recent organize/undo runs.
func (a *FOApp) History(limit int) ([]*fo.Run, error) {
	return a.db.ListRuns(limit)
}

// transactionLogName resolves the log location: CLI override, then config,
// then the built-in default.
func (a *FOApp) transactionLogName(override string) string {
	if override != "" {
		return override
	}
	if a.cfg.Organize.TransactionLog != "" {
		return a.cfg.Organize.TransactionLog
	}
	return txlog.DefaultName
}

// duplicatePolicy resolves the duplicate policy: CLI override, then config,
// then rename.
func (a *FOApp) duplicatePolicy(override string) string {
	if override != "" {
		return override
	}
	if a.cfg.Organize.Duplicates != "" {
		return a.cfg.Organize.Duplicates
	}
	return string(fo.DuplicateRename)
}

// Close finalizes the run record and closes all resources.
func (a *FOApp) Close() error {
	var firstErr error

	if a.runPersisted {
		if err := a.db.FinishRun(a.run.ID, a.run.Status, a.run.Scanned, a.run.Moved); err != nil {
			firstErr = fmt.Errorf("finishing run: %w", err)
		}
	}

	if err := a.db.Close(); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
