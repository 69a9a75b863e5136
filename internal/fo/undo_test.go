package fo_test

import (
	"os"
	"path/filepath"
	"testing"

	"fo-go/internal/fo"
	"fo-go/internal/testutil"
	"fo-go/internal/txlog"
)

func TestService_Undo(t *testing.T) {
	t.Run("round trip restores every organized file and archives the log", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddDirectory("/d")
		fsmgr.AddFile("/d/photo.jpg", []byte("img"))
		fsmgr.AddFile("/d/notes.txt", []byte("text"))

		svc := newTestService(fsmgr)
		log := newTestLog(t)

		if _, err := svc.Organize(resolveDir(t, fsmgr, "/d"), log, fo.OrganizeOptions{Duplicates: fo.DuplicateRename}); err != nil {
			t.Fatalf("Organize() error = %v", err)
		}

		res, err := svc.Undo(log, false)
		if err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
		if res.Total != 2 || res.Undone != 2 {
			t.Errorf("Undo() = total %d undone %d, want 2/2", res.Total, res.Undone)
		}

		if !fsmgr.Exists("/d/photo.jpg") || !fsmgr.Exists("/d/notes.txt") {
			t.Error("undo did not restore files to their original paths")
		}
		if fsmgr.Exists("/d/Organized/Images/photo.jpg") {
			t.Error("organized copy still present after undo")
		}

		if res.ArchivedPath == "" {
			t.Fatal("Undo() did not archive the log")
		}
		if _, err := os.Stat(log.Path()); !os.IsNotExist(err) {
			t.Error("original log still exists after archive")
		}
		if _, err := os.Stat(res.ArchivedPath); err != nil {
			t.Errorf("archived log missing: %v", err)
		}
	})

	t.Run("skips records whose content changed since the move", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddDirectory("/d")
		fsmgr.AddFile("/d/a.txt", []byte("keep"))
		fsmgr.AddFile("/d/b.txt", []byte("drift"))

		svc := newTestService(fsmgr)
		log := newTestLog(t)

		if _, err := svc.Organize(resolveDir(t, fsmgr, "/d"), log, fo.OrganizeOptions{Duplicates: fo.DuplicateRename}); err != nil {
			t.Fatalf("Organize() error = %v", err)
		}

		// Edit one file after the move.
		fsmgr.File("/d/Organized/Documents/b.txt").Content = []byte("edited after move")

		res, err := svc.Undo(log, false)
		if err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
		if res.Total != 2 || res.Undone != 1 {
			t.Errorf("Undo() = total %d undone %d, want 2/1", res.Total, res.Undone)
		}

		if !fsmgr.Exists("/d/a.txt") {
			t.Error("unchanged file was not restored")
		}
		if !fsmgr.Exists("/d/Organized/Documents/b.txt") {
			t.Error("drifted file was moved despite changed content")
		}
		if res.ArchivedPath == "" {
			t.Error("log was not archived after a partial undo")
		}
	})

	t.Run("skips records whose destination is missing", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddDirectory("/d")
		fsmgr.AddFile("/d/a.txt", []byte("keep"))
		fsmgr.AddFile("/d/b.txt", []byte("gone"))

		svc := newTestService(fsmgr)
		log := newTestLog(t)

		if _, err := svc.Organize(resolveDir(t, fsmgr, "/d"), log, fo.OrganizeOptions{Duplicates: fo.DuplicateRename}); err != nil {
			t.Fatalf("Organize() error = %v", err)
		}

		if err := fsmgr.Remove("/d/Organized/Documents/b.txt"); err != nil {
			t.Fatal(err)
		}

		res, err := svc.Undo(log, false)
		if err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
		if res.Total != 2 || res.Undone != 1 {
			t.Errorf("Undo() = total %d undone %d, want 2/1", res.Total, res.Undone)
		}
		if !fsmgr.Exists("/d/a.txt") {
			t.Error("remaining file was not restored")
		}
	})

	t.Run("replays chained moves in reverse order", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		content := []byte("same content throughout")
		sum := testutil.SHA256Hex(content)

		// The file was moved twice: /d/a.txt -> /d/mid/a.txt -> /d/end/a.txt.
		fsmgr.AddDirectory("/d")
		fsmgr.AddDirectory("/d/end")
		fsmgr.AddFile("/d/end/a.txt", content)

		log := newTestLog(t)
		records := []txlog.Action{
			{Src: "/d/a.txt", Dst: "/d/mid/a.txt", TimeUTC: "2024-01-15T10:30:00Z", SrcSHA256: sum},
			{Src: "/d/mid/a.txt", Dst: "/d/end/a.txt", TimeUTC: "2024-01-15T10:31:00Z", SrcSHA256: sum},
		}
		for _, a := range records {
			if err := log.Append(a); err != nil {
				t.Fatal(err)
			}
		}

		svc := newTestService(fsmgr)

		res, err := svc.Undo(log, false)
		if err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
		if res.Undone != 2 {
			t.Errorf("Undo() undone = %d, want 2", res.Undone)
		}

		// Forward replay would strand the file at /d/mid/a.txt; reverse
		// replay lands it back at the original path.
		if !fsmgr.Exists("/d/a.txt") {
			t.Error("file not restored to original path")
		}
		if fsmgr.Exists("/d/mid/a.txt") || fsmgr.Exists("/d/end/a.txt") {
			t.Error("intermediate copies left behind")
		}
	})

	t.Run("renames aside files that reoccupied the original path", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddDirectory("/d")
		fsmgr.AddFile("/d/a.txt", []byte("original"))

		svc := newTestService(fsmgr)
		log := newTestLog(t)

		if _, err := svc.Organize(resolveDir(t, fsmgr, "/d"), log, fo.OrganizeOptions{Duplicates: fo.DuplicateRename}); err != nil {
			t.Fatalf("Organize() error = %v", err)
		}

		// A new file reoccupies the original path, and the first backup
		// name is also taken.
		fsmgr.AddFile("/d/a.txt", []byte("newcomer"))
		fsmgr.AddFile("/d/a.txt.backup", []byte("older backup"))

		res, err := svc.Undo(log, false)
		if err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
		if res.Undone != 1 {
			t.Errorf("Undo() undone = %d, want 1", res.Undone)
		}

		if got := string(fsmgr.File("/d/a.txt").Content); got != "original" {
			t.Errorf("restored content = %q, want original", got)
		}
		if got := string(fsmgr.File("/d/a.txt.backup1").Content); got != "newcomer" {
			t.Errorf("backup1 content = %q, want newcomer", got)
		}
		if got := string(fsmgr.File("/d/a.txt.backup").Content); got != "older backup" {
			t.Errorf("backup content = %q, want untouched older backup", got)
		}
	})

	t.Run("missing or empty log undoes nothing and archives nothing", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		svc := newTestService(fsmgr)
		log := newTestLog(t)

		res, err := svc.Undo(log, false)
		if err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
		if res.Total != 0 || res.Undone != 0 || res.ArchivedPath != "" {
			t.Errorf("Undo() = %+v, want zero result", res)
		}
	})

	t.Run("dry run counts eligible reversals without moving or archiving", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddDirectory("/d")
		fsmgr.AddFile("/d/a.txt", []byte("x"))

		svc := newTestService(fsmgr)
		log := newTestLog(t)

		if _, err := svc.Organize(resolveDir(t, fsmgr, "/d"), log, fo.OrganizeOptions{Duplicates: fo.DuplicateRename}); err != nil {
			t.Fatalf("Organize() error = %v", err)
		}

		res, err := svc.Undo(log, true)
		if err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
		if res.Total != 1 || res.Undone != 1 || !res.DryRun {
			t.Errorf("Undo() = %+v, want total 1 undone 1 dry-run", res)
		}

		if fsmgr.Exists("/d/a.txt") {
			t.Error("dry run moved a file back")
		}
		if _, err := os.Stat(log.Path()); err != nil {
			t.Errorf("dry run archived or removed the log: %v", err)
		}

		// The log is still live; a real undo still works.
		res, err = svc.Undo(log, false)
		if err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
		if res.Undone != 1 || !fsmgr.Exists("/d/a.txt") {
			t.Errorf("real undo after dry run = %+v", res)
		}
	})
}

func TestUndoAfterArchive(t *testing.T) {
	// Once a log is archived, a second undo sees no log and does nothing.
	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddDirectory("/d")
	fsmgr.AddFile("/d/a.txt", []byte("x"))

	svc := newTestService(fsmgr)
	log := txlog.New(filepath.Join(t.TempDir(), "tx.jsonl"))

	if _, err := svc.Organize(resolveDir(t, fsmgr, "/d"), log, fo.OrganizeOptions{Duplicates: fo.DuplicateRename}); err != nil {
		t.Fatalf("Organize() error = %v", err)
	}
	if _, err := svc.Undo(log, false); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	res, err := svc.Undo(log, false)
	if err != nil {
		t.Fatalf("second Undo() error = %v", err)
	}
	if res.Total != 0 || res.Undone != 0 {
		t.Errorf("second Undo() = %+v, want zero result", res)
	}
}
