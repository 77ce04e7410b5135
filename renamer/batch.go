// This file implements demo discovery, content-based dedup, and the
// bounded-concurrency batch rename pass, grounded on
// BatchDemoRenamer.py's BatchDemoRenamer (with the MD5-only dedup
// enriched by a cheap xxhash prefilter bucket, per the dependency table
// in DESIGN.md).

package renamer

import (
	"crypto/md5"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/icza/q3demo/rep/repcore"
)

// demoGlobs are the file extensions a batch run discovers, grounded on
// BatchDemoRenamer.py's process_directory glob patterns.
var demoGlobs = []string{"*.dm_68", "*.dm_67", "*.dm_66"}

// DiscoverDemos returns every demo file directly inside dir, matching the
// dm_66/dm_67/dm_68 extensions.
func DiscoverDemos(dir string) ([]string, error) {
	fsys := os.DirFS(dir)
	var out []string
	for _, pattern := range demoGlobs {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			out = append(out, filepath.Join(dir, m))
		}
	}
	sort.Strings(out)
	return out, nil
}

// DedupByContent groups files by a fast xxhash prefilter bucket, confirms
// any bucket with more than one member against its true MD5 (since
// xxhash is not cryptographically collision-resistant), and for every
// group of byte-identical files deletes every copy but the oldest
// (by modification time) - mirroring deduplicate_by_md5's "keep the
// oldest" rule while only paying for a full-file MD5 read on files that
// actually collided on the cheap hash first.
func DedupByContent(files []string, logger *slog.Logger) (kept []string, deleted int) {
	if logger == nil {
		logger = slog.Default()
	}

	xxBuckets := map[uint64][]string{}
	for _, f := range files {
		sum, err := fileChecksum(xxhash.New(), f)
		if err != nil {
			logger.Warn("xxhash failed, keeping file unconditionally", "file", f, "error", err)
			kept = append(kept, f)
			continue
		}
		xxBuckets[sum] = append(xxBuckets[sum], f)
	}

	for _, bucket := range xxBuckets {
		if len(bucket) == 1 {
			kept = append(kept, bucket[0])
			continue
		}
		md5Groups := map[string][]string{}
		for _, f := range bucket {
			sum, err := md5File(f)
			if err != nil {
				logger.Warn("md5 failed, keeping file unconditionally", "file", f, "error", err)
				kept = append(kept, f)
				continue
			}
			md5Groups[sum] = append(md5Groups[sum], f)
		}
		for _, identical := range md5Groups {
			if len(identical) == 1 {
				kept = append(kept, identical[0])
				continue
			}
			keepFile, dups := oldestOf(identical)
			kept = append(kept, keepFile)
			for _, dup := range dups {
				if err := os.Remove(dup); err != nil {
					logger.Warn("failed to delete duplicate", "file", dup, "error", err)
					kept = append(kept, dup)
					continue
				}
				deleted++
				logger.Info("deleted duplicate", "file", dup, "kept", keepFile)
			}
		}
	}
	sort.Strings(kept)
	return kept, deleted
}

func oldestOf(files []string) (oldest string, rest []string) {
	oldest = files[0]
	oldestTime := mtimeOf(oldest)
	for _, f := range files[1:] {
		if t := mtimeOf(f); t.Before(oldestTime) {
			oldestTime, oldest = t, f
		}
	}
	for _, f := range files {
		if f != oldest {
			rest = append(rest, f)
		}
	}
	return oldest, rest
}

func mtimeOf(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func fileChecksum(h hashWriter, path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// hashWriter is the subset of xxhash.Digest this package relies on.
type hashWriter interface {
	io.Writer
	Sum64() uint64
}

func md5File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// RenameResult classifies a single file's batch-processing outcome,
// grounded on BatchDemoRenamer.py's rename_demo return strings.
type RenameResult string

const (
	ResultRenamed          RenameResult = "renamed"
	ResultAlreadyNamed     RenameResult = "already_named"
	ResultIdenticalDeleted RenameResult = "identical_deleted"
	ResultConflictMoved    RenameResult = "conflict_moved"
	ResultConflictSkipped  RenameResult = "name_conflict_skipped"
	ResultParseError       RenameResult = "parse_error"
	ResultError            RenameResult = "error_renaming"
)

// FileOutcome is one file's batch-processing result.
type FileOutcome struct {
	Path          string
	Result        RenameResult
	SuggestedName string
	ConflictPath  string
	Err           error
}

// Stats tallies a batch run's outcomes, grounded on
// BatchDemoRenamer.py's process_directory stats dict.
type Stats struct {
	Processed         int
	Renamed           int
	AlreadyNamed      int
	IdenticalDeleted  int
	Conflicts         int
	Errors            int
	DuplicatesDeleted int
}

// BatchOptions configures a batch run.
type BatchOptions struct {
	// CreateConflictsDir moves files whose suggested name collides with
	// an existing, different file into a ConflictsDirName subdirectory
	// instead of leaving them in place.
	CreateConflictsDir bool

	// ConflictsDirName names the conflicts subdirectory; defaults to
	// "_conflicts" when empty.
	ConflictsDirName string

	// Workers bounds how many files are processed concurrently; <= 0
	// means unbounded (one goroutine per file).
	Workers int

	Logger *slog.Logger
}

// ProcessDirectory discovers demo files in dir, deduplicates them by
// content, and renames every survivor to its suggested canonical name
// using a bounded worker pool, grounded on BatchDemoRenamer.py's
// process_directory.
func ProcessDirectory(dir string, opts BatchOptions) (Stats, []FileOutcome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	files, err := DiscoverDemos(dir)
	if err != nil {
		return Stats{}, nil, fmt.Errorf("discovering demos in %s: %w", dir, err)
	}
	logger.Info("discovered demos", "dir", dir, "count", len(files))

	kept, duplicatesDeleted := DedupByContent(files, logger)
	logger.Info("deduplicated demos", "remaining", len(kept), "deleted", duplicatesDeleted)

	outcomes := make([]FileOutcome, len(kept))
	var mu sync.Mutex
	stats := Stats{DuplicatesDeleted: duplicatesDeleted}

	renamer := NewFileRenamer()

	g := new(errgroup.Group)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}

	conflictsDirName := opts.ConflictsDirName
	if conflictsDirName == "" {
		conflictsDirName = "_conflicts"
	}

	for i, demoFile := range kept {
		i, demoFile := i, demoFile
		g.Go(func() error {
			outcome := processOne(renamer, demoFile, opts.CreateConflictsDir, conflictsDirName)
			mu.Lock()
			outcomes[i] = outcome
			tally(&stats, outcome)
			mu.Unlock()
			logger.Info("processed demo", "file", demoFile, "result", string(outcome.Result))
			return nil
		})
	}
	_ = g.Wait()

	return stats, outcomes, nil
}

func tally(stats *Stats, outcome FileOutcome) {
	stats.Processed++
	switch outcome.Result {
	case ResultRenamed:
		stats.Renamed++
	case ResultAlreadyNamed:
		stats.AlreadyNamed++
	case ResultIdenticalDeleted:
		stats.IdenticalDeleted++
	case ResultConflictMoved, ResultConflictSkipped:
		stats.Conflicts++
	default:
		stats.Errors++
	}
}

func processOne(r *FileRenamer, demoFile string, createConflictsDir bool, conflictsDirName string) FileOutcome {
	suggested, ok := SuggestName(demoFile)
	if !ok {
		return FileOutcome{Path: demoFile, Result: ResultParseError}
	}
	return renameDemo(r, demoFile, suggested, createConflictsDir, conflictsDirName)
}

// renameDemo applies suggestedName to demoFile, mirroring
// BatchDemoRenamer.py's rename_demo: an already-correct name (compared
// case-insensitively) is a no-op, otherwise the rename is delegated to
// FileRenamer with delete-identical enabled, and a name collision with a
// different file is resolved per createConflictsDir.
func renameDemo(r *FileRenamer, demoFile, suggestedName string, createConflictsDir bool, conflictsDirName string) FileOutcome {
	if strings.EqualFold(filepath.Base(demoFile), suggestedName) {
		return FileOutcome{Path: demoFile, Result: ResultAlreadyNamed, SuggestedName: suggestedName}
	}

	outcome, err := r.RenameFile(demoFile, suggestedName, true)
	if err != nil {
		return FileOutcome{Path: demoFile, Result: ResultError, SuggestedName: suggestedName, Err: err}
	}

	switch outcome.Status {
	case repcore.RenameStatusRenamed:
		return FileOutcome{Path: demoFile, Result: ResultRenamed, SuggestedName: suggestedName}
	case repcore.RenameStatusAlreadyMatches:
		return FileOutcome{Path: demoFile, Result: ResultAlreadyNamed, SuggestedName: suggestedName}
	case repcore.RenameStatusDeletedDuplicate:
		return FileOutcome{Path: demoFile, Result: ResultIdenticalDeleted, SuggestedName: suggestedName}
	case repcore.RenameStatusSkippedExisting:
		if !createConflictsDir {
			return FileOutcome{Path: demoFile, Result: ResultConflictSkipped, SuggestedName: suggestedName}
		}
		conflictPath, cerr := moveToConflictsDir(demoFile, conflictsDirName)
		if cerr != nil {
			return FileOutcome{Path: demoFile, Result: ResultError, SuggestedName: suggestedName, Err: cerr}
		}
		return FileOutcome{Path: demoFile, Result: ResultConflictMoved, SuggestedName: suggestedName, ConflictPath: conflictPath}
	default:
		return FileOutcome{Path: demoFile, Result: ResultError, SuggestedName: suggestedName, Err: fmt.Errorf("unexpected rename status: %v", outcome.Status)}
	}
}

// moveToConflictsDir moves demoFile into a conflictsDirName subdirectory
// next to it, disambiguated with a Unix-timestamp suffix, mirroring
// rename_demo's conflict-handling branch.
func moveToConflictsDir(demoFile, conflictsDirName string) (string, error) {
	dir := filepath.Join(filepath.Dir(demoFile), conflictsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	ext := filepath.Ext(demoFile)
	stem := strings.TrimSuffix(filepath.Base(demoFile), ext)
	conflictName := fmt.Sprintf("%s_%d%s", stem, time.Now().Unix(), ext)
	conflictPath := filepath.Join(dir, conflictName)
	if err := os.Rename(demoFile, conflictPath); err != nil {
		return "", err
	}
	return conflictPath, nil
}
