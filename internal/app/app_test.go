package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"fo-go/internal/app"
	"fo-go/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.NewConfig(base)
	cfg.Organize.TransactionLog = filepath.Join(base, "tx.jsonl")
	return cfg
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFOApp_OrganizeUndoHistory(t *testing.T) {
	cfg := testConfig(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "photo.jpg"), "img")
	writeFile(t, filepath.Join(root, "notes.txt"), "text")

	// Organize.
	a, err := app.NewFOApp(cfg, "Organize")
	if err != nil {
		t.Fatalf("NewFOApp() error = %v", err)
	}
	res, err := a.Organize(app.OrganizeRequest{Root: root})
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if res.Scanned != 2 || res.Moved != 2 {
		t.Errorf("Organize() = scanned %d moved %d, want 2/2", res.Scanned, res.Moved)
	}
	if _, err := os.Stat(filepath.Join(root, "Organized", "Images", "photo.jpg")); err != nil {
		t.Errorf("organized photo missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Organized", "Documents", "notes.txt")); err != nil {
		t.Errorf("organized notes missing: %v", err)
	}

	// Undo.
	a, err = app.NewFOApp(cfg, "Undo")
	if err != nil {
		t.Fatalf("NewFOApp() error = %v", err)
	}
	ures, err := a.Undo(root, "", false)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if ures.Total != 2 || ures.Undone != 2 {
		t.Errorf("Undo() = total %d undone %d, want 2/2", ures.Total, ures.Undone)
	}
	if _, err := os.Stat(filepath.Join(root, "photo.jpg")); err != nil {
		t.Errorf("photo not restored: %v", err)
	}
	if _, err := os.Stat(cfg.Organize.TransactionLog); !os.IsNotExist(err) {
		t.Error("transaction log not archived after undo")
	}

	// History shows both runs, newest first, and does not record itself.
	a, err = app.NewFOApp(cfg, "GetHistory")
	if err != nil {
		t.Fatalf("NewFOApp() error = %v", err)
	}
	defer a.Close()

	runs, err := a.History(10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("History() len = %d, want 2", len(runs))
	}
	if runs[0].Operation != "Undo" || runs[1].Operation != "Organize" {
		t.Errorf("History() order = [%s %s], want [Undo Organize]", runs[0].Operation, runs[1].Operation)
	}
	for _, r := range runs {
		if r.Status != "success" {
			t.Errorf("run %s status = %q, want success", r.ID, r.Status)
		}
		if !r.FinishedAt.Valid {
			t.Errorf("run %s has no finish time", r.ID)
		}
	}
}

func TestFOApp_Organize_Validation(t *testing.T) {
	t.Run("rejects an unknown duplicate policy", func(t *testing.T) {
		cfg := testConfig(t)
		a, err := app.NewFOApp(cfg, "Organize")
		if err != nil {
			t.Fatalf("NewFOApp() error = %v", err)
		}
		defer a.Close()

		if _, err := a.Organize(app.OrganizeRequest{Root: t.TempDir(), Duplicates: "keep"}); err == nil {
			t.Error("Organize() error = nil, want policy error")
		}
	})

	t.Run("rejects a missing root", func(t *testing.T) {
		cfg := testConfig(t)
		a, err := app.NewFOApp(cfg, "Organize")
		if err != nil {
			t.Fatalf("NewFOApp() error = %v", err)
		}
		defer a.Close()

		if _, err := a.Organize(app.OrganizeRequest{Root: filepath.Join(t.TempDir(), "nope")}); err == nil {
			t.Error("Organize() error = nil, want resolve error")
		}
	})

	t.Run("rejects a file root", func(t *testing.T) {
		cfg := testConfig(t)
		root := filepath.Join(t.TempDir(), "file.txt")
		writeFile(t, root, "x")

		a, err := app.NewFOApp(cfg, "Organize")
		if err != nil {
			t.Fatalf("NewFOApp() error = %v", err)
		}
		defer a.Close()

		if _, err := a.Organize(app.OrganizeRequest{Root: root}); err == nil {
			t.Error("Organize() error = nil, want non-directory error")
		}
	})
}

func TestFOApp_Undo_RelativeLogName(t *testing.T) {
	// A relative log name resolves against the undo root, so undo finds the
	// log an organize run left beside the organized tree.
	cfg := testConfig(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "x")

	logName := ".fo_transactions.jsonl"
	cfg.Organize.TransactionLog = filepath.Join(root, logName)

	a, err := app.NewFOApp(cfg, "Organize")
	if err != nil {
		t.Fatalf("NewFOApp() error = %v", err)
	}
	if _, err := a.Organize(app.OrganizeRequest{Root: root}); err != nil {
		t.Fatalf("Organize() error = %v", err)
	}
	a.Close()

	a, err = app.NewFOApp(cfg, "Undo")
	if err != nil {
		t.Fatalf("NewFOApp() error = %v", err)
	}
	defer a.Close()

	res, err := a.Undo(root, logName, false)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if res.Undone != 1 {
		t.Errorf("Undo() undone = %d, want 1", res.Undone)
	}
	if _, err := os.Stat(filepath.Join(root, "a.txt")); err != nil {
		t.Errorf("file not restored: %v", err)
	}
}

func TestCategoryRules(t *testing.T) {
	rc := config.RulesConfig{Categories: []config.CategoryConfig{
		{Name: "RAW", Extensions: []string{"cr2"}},
		{Name: "Ebooks", Extensions: []string{"epub", "mobi"}},
	}}

	got := app.CategoryRules(rc)
	if len(got) != 2 {
		t.Fatalf("CategoryRules() len = %d, want 2", len(got))
	}
	if got[0].Name != "RAW" || len(got[1].Extensions) != 2 {
		t.Errorf("CategoryRules() = %+v", got)
	}
}
