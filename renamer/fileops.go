// This file implements single-file rename operations, grounded on
// renamer.py's FileRenamer/RenameOutcome/Logger hierarchy.

package renamer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/icza/q3demo/rep/repcore"
)

// Outcome is the detailed result of a single rename request.
type Outcome struct {
	Status *repcore.RenameStatus
	Source string
	Target string
}

// Logger is the minimal logging interface a FileRenamer writes operations
// to, mirroring renamer.py's Logger/NullLogger/FileLogger split.
type Logger interface {
	Log(operation string, messages ...string)
}

// NullLogger discards every log entry.
type NullLogger struct{}

// Log implements Logger.
func (NullLogger) Log(operation string, messages ...string) {}

// SlogLogger adapts Logger to log/slog's structured key-value style.
type SlogLogger struct {
	Logger *slog.Logger
}

// Log implements Logger, recording each positional message under an
// "argN" key so log lines stay greppable.
func (l SlogLogger) Log(operation string, messages ...string) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	args := make([]any, 0, len(messages)*2)
	for i, m := range messages {
		args = append(args, fmt.Sprintf("arg%d", i+1), m)
	}
	logger.Info(operation, args...)
}

// FileLogger appends one text block per operation to a log file.
type FileLogger struct {
	path string
	mu   sync.Mutex
}

// NewFileLogger creates the log file's parent directory and returns a
// FileLogger that appends to path.
func NewFileLogger(path string) (*FileLogger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &FileLogger{path: path}, nil
}

// Log implements Logger.
func (l *FileLogger) Log(operation string, messages ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s\n", operation)
	for i, m := range messages {
		fmt.Fprintf(f, "  arg%d: %s\n", i+1, m)
	}
	fmt.Fprintln(f, "-------------------------------")
}

// ProgressFunc is called with the cumulative number of files processed.
type ProgressFunc func(done int)

// PercentFunc is called with a 0-100 completion percentage, once a total
// has been set via SetTotal.
type PercentFunc func(percent int)

// FileRenamer applies DemoCleaner3's Linux-compatible rename rules:
// case-insensitive collision detection, delete-identical support, and a
// permission-retry on EPERM, grounded on renamer.py's FileRenamer.
type FileRenamer struct {
	OnProgress ProgressFunc
	OnPercent  PercentFunc
	Logger     Logger

	CountMoveFiles     int
	CountDeleteFiles   int
	CountProgressDemos int
	CountDemosAmount   int
}

// NewFileRenamer returns a FileRenamer that discards its log output until
// a Logger is assigned.
func NewFileRenamer() *FileRenamer {
	return &FileRenamer{Logger: NullLogger{}}
}

// SetTotal sets the number of demos expected, enabling OnPercent callbacks.
func (f *FileRenamer) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	f.CountDemosAmount = total
	if total == 0 {
		f.CountProgressDemos = 0
	}
}

// IncreaseProgress advances the progress counter without performing a
// rename, mirroring the original helper's public progress hook.
func (f *FileRenamer) IncreaseProgress(by int) {
	if by > 0 {
		f.updateProgress(by)
	}
}

// RenameFile renames filePath to newName (a bare file name within the
// same directory):
//   - a path that already matches newName (byte-for-byte) is reported as
//     ALREADY_MATCHES
//   - a path that matches case-insensitively but not exactly is still
//     moved, to normalize the casing
//   - an existing target is either deleted-in-favor-of (deleteIdentical)
//     or reported as SKIPPED_EXISTING
//   - otherwise the file is moved into place, retrying once after a
//     chmod if the first attempt hits a permission error
func (f *FileRenamer) RenameFile(filePath, newName string, deleteIdentical bool) (Outcome, error) {
	if _, err := os.Stat(filePath); err != nil {
		return Outcome{}, fmt.Errorf("file not found: %s", filePath)
	}
	if filepath.Base(newName) != newName {
		return Outcome{}, errors.New("new_name must be a file name, not a path")
	}

	target := filepath.Join(filepath.Dir(filePath), newName)
	sourceLower := strings.ToLower(filePath)
	targetLower := strings.ToLower(target)

	if sourceLower != targetLower {
		if _, err := os.Stat(target); err == nil {
			if deleteIdentical {
				if err := f.deleteFile(filePath); err != nil {
					return Outcome{}, err
				}
				return Outcome{Status: repcore.RenameStatusDeletedDuplicate, Source: filePath, Target: target}, nil
			}
			f.updateProgress(1)
			return Outcome{Status: repcore.RenameStatusSkippedExisting, Source: filePath, Target: target}, nil
		}
		if err := f.moveFile(filePath, target); err != nil {
			return Outcome{}, err
		}
		return Outcome{Status: repcore.RenameStatusRenamed, Source: filePath, Target: target}, nil
	}

	if filePath != target {
		if err := f.moveFile(filePath, target); err != nil {
			return Outcome{}, err
		}
		return Outcome{Status: repcore.RenameStatusRenamed, Source: filePath, Target: target}, nil
	}

	f.updateProgress(1)
	return Outcome{Status: repcore.RenameStatusAlreadyMatches, Source: filePath, Target: target}, nil
}

func (f *FileRenamer) updateProgress(increment int) {
	if increment <= 0 {
		return
	}
	f.CountProgressDemos += increment
	if f.OnProgress != nil {
		f.OnProgress(f.CountProgressDemos)
	}
	if f.CountDemosAmount > 0 && f.OnPercent != nil {
		percent := f.CountProgressDemos * 100 / f.CountDemosAmount
		if percent < 0 {
			percent = 0
		}
		f.OnPercent(percent)
	}
}

func (f *FileRenamer) deleteFile(path string) error {
	if err := f.tryOperate(path, func() error { return os.Remove(path) }); err != nil {
		return err
	}
	f.CountDeleteFiles++
	f.updateProgress(1)
	f.logger().Log("DeleteFile", path)
	return nil
}

func (f *FileRenamer) moveFile(source, target string) error {
	if err := f.tryOperate(source, func() error { return os.Rename(source, target) }); err != nil {
		return err
	}
	f.CountMoveFiles++
	f.updateProgress(1)
	f.logger().Log("RenameFile", source, target)
	return nil
}

// tryOperate runs operation, and on a permission error, chmods path
// writable and retries once - the Linux analogue of the original's
// Windows read-only-attribute workaround.
func (f *FileRenamer) tryOperate(path string, operation func() error) error {
	err := operation()
	if errors.Is(err, os.ErrPermission) {
		f.ensureWritable(path)
		return operation()
	}
	return err
}

func (f *FileRenamer) ensureWritable(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	os.Chmod(path, info.Mode()|0o222)
}

func (f *FileRenamer) logger() Logger {
	if f.Logger == nil {
		return NullLogger{}
	}
	return f.Logger
}
