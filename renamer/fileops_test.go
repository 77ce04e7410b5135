package renamer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/icza/q3demo/rep/repcore"
)

func TestRenameFileAlreadyMatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "q3dm17[df].dm_68")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := NewFileRenamer()
	outcome, err := r.RenameFile(path, "q3dm17[df].dm_68", true)
	if err != nil {
		t.Fatalf("RenameFile() error = %v", err)
	}
	if outcome.Status != repcore.RenameStatusAlreadyMatches {
		t.Errorf("RenameFile() Status = %v, want AlreadyMatches", outcome.Status)
	}
}

func TestRenameFileMovesIntoPlace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.dm_68")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := NewFileRenamer()
	outcome, err := r.RenameFile(src, "new.dm_68", true)
	if err != nil {
		t.Fatalf("RenameFile() error = %v", err)
	}
	if outcome.Status != repcore.RenameStatusRenamed {
		t.Errorf("RenameFile() Status = %v, want Renamed", outcome.Status)
	}
	if _, err := os.Stat(filepath.Join(dir, "new.dm_68")); err != nil {
		t.Errorf("renamed file not found at target: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source file should no longer exist after a rename")
	}
}

func TestRenameFileDeletesIdenticalWhenTargetExists(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dup.dm_68")
	target := filepath.Join(dir, "canonical.dm_68")
	os.WriteFile(src, []byte("x"), 0o644)
	os.WriteFile(target, []byte("x"), 0o644)

	r := NewFileRenamer()
	outcome, err := r.RenameFile(src, "canonical.dm_68", true)
	if err != nil {
		t.Fatalf("RenameFile() error = %v", err)
	}
	if outcome.Status != repcore.RenameStatusDeletedDuplicate {
		t.Errorf("RenameFile() Status = %v, want DeletedDuplicate", outcome.Status)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source file should have been deleted")
	}
}

func TestRenameFileSkipsConflictWithoutDeleteIdentical(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dup.dm_68")
	target := filepath.Join(dir, "canonical.dm_68")
	os.WriteFile(src, []byte("x"), 0o644)
	os.WriteFile(target, []byte("y"), 0o644)

	r := NewFileRenamer()
	outcome, err := r.RenameFile(src, "canonical.dm_68", false)
	if err != nil {
		t.Fatalf("RenameFile() error = %v", err)
	}
	if outcome.Status != repcore.RenameStatusSkippedExisting {
		t.Errorf("RenameFile() Status = %v, want SkippedExisting", outcome.Status)
	}
	if _, err := os.Stat(src); err != nil {
		t.Error("source file should still exist after a skipped conflict")
	}
}

func TestRenameFileMissingSource(t *testing.T) {
	r := NewFileRenamer()
	if _, err := r.RenameFile(filepath.Join(t.TempDir(), "missing.dm_68"), "new.dm_68", true); err == nil {
		t.Error("RenameFile() on a missing source should return an error")
	}
}

func TestRenameFileRejectsPathAsNewName(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.dm_68")
	os.WriteFile(src, []byte("x"), 0o644)

	r := NewFileRenamer()
	if _, err := r.RenameFile(src, filepath.Join("sub", "new.dm_68"), true); err == nil {
		t.Error("RenameFile() with a path-like newName should return an error")
	}
}

func TestSetTotalAndProgressReporting(t *testing.T) {
	var gotPercent int
	r := NewFileRenamer()
	r.OnPercent = func(p int) { gotPercent = p }
	r.SetTotal(4)
	r.IncreaseProgress(2)
	if gotPercent != 50 {
		t.Errorf("OnPercent callback = %d, want 50", gotPercent)
	}
}
