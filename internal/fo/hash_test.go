package fo_test

import (
	"errors"
	"testing"

	"fo-go/internal/fo"
	"fo-go/internal/testutil"
)

func TestHashFile(t *testing.T) {
	t.Run("computes the sha256 of file content", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/data/hello.txt", []byte("hello world"))

		got, err := fo.HashFile(fsmgr, "/data/hello.txt")
		if err != nil {
			t.Fatalf("HashFile() error = %v", err)
		}

		// sha256("hello world")
		want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
		if got != want {
			t.Errorf("HashFile() = %q, want %q", got, want)
		}
	})

	t.Run("empty file hashes to the empty digest", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/data/empty", nil)

		got, err := fo.HashFile(fsmgr, "/data/empty")
		if err != nil {
			t.Fatalf("HashFile() error = %v", err)
		}

		want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		if got != want {
			t.Errorf("HashFile() = %q, want %q", got, want)
		}
	})

	t.Run("propagates open errors", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/data/locked", []byte("x"))
		openErr := errors.New("permission denied")
		fsmgr.OpenErrors["/data/locked"] = openErr

		if _, err := fo.HashFile(fsmgr, "/data/locked"); !errors.Is(err, openErr) {
			t.Errorf("HashFile() error = %v, want wrapped %v", err, openErr)
		}
	})
}
