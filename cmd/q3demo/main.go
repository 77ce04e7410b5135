/*

A CLI for parsing Quake III Arena / Defrag demo files, suggesting their
canonical file name, and renaming single files or whole directories of
them - a cobra-based equivalent of renamer.py / BatchDemoRenamer.py /
process_single_demo.py.

*/
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/icza/q3demo/renamer"
	"github.com/icza/q3demo/repparser"
)

const (
	appName    = "q3demo"
	appVersion = "v1.0.0"
)

const (
	ExitCodeMissingArguments = 1
	ExitCodeFailedToParse    = 2
	ExitCodeFailedToRename   = 3
	ExitCodeBadConfig        = 4
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   appName,
		Short: "Parse and rename Quake III Arena / Defrag demo files",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file")

	root.AddCommand(newRenameCmd(), newBatchCmd(), newProcessSingleCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(ExitCodeMissingArguments)
	}
}

func loadConfigOrExit() renamer.Config {
	cfg, err := renamer.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(ExitCodeBadConfig)
	}
	return cfg
}

// newRenameCmd mirrors renamer.py's CLI: renames a single file, either to
// an explicitly given name or to the naming engine's suggestion.
func newRenameCmd() *cobra.Command {
	var deleteIdentical bool
	var logFile string

	cmd := &cobra.Command{
		Use:   "rename <file> [new-name]",
		Short: "Rename a single demo file using DemoCleaner3 rules",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfigOrExit()

			file := args[0]
			newName := ""
			if len(args) == 2 {
				newName = args[1]
			}
			if newName == "" {
				suggested, ok := renamer.SuggestName(file)
				if !ok {
					fmt.Fprintln(os.Stderr, "Unable to determine suggested name")
					os.Exit(ExitCodeFailedToParse)
				}
				fmt.Printf("Suggested name: %s\n", suggested)
				newName = suggested
			}

			path := logFile
			if path == "" {
				path = cfg.LogFile
			}

			r := renamer.NewFileRenamer()
			if path != "" {
				fl, err := renamer.NewFileLogger(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
					os.Exit(ExitCodeBadConfig)
				}
				r.Logger = fl
			}

			outcome, err := r.RenameFile(file, newName, deleteIdentical)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to rename: %v\n", err)
				os.Exit(ExitCodeFailedToRename)
			}
			fmt.Println(outcome.Status.Name)
			fmt.Println(outcome.Target)
		},
	}

	cmd.Flags().BoolVar(&deleteIdentical, "delete-identical", false, "delete the original file when the target name already exists")
	cmd.Flags().StringVar(&logFile, "log-file", "", "optional log file path mirroring DemoCleaner3's log format")
	return cmd
}

// newBatchCmd mirrors BatchDemoRenamer.py's CLI: discovers, dedups and
// renames every demo file in a directory.
func newBatchCmd() *cobra.Command {
	var noConflictsDir bool
	var workers int

	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Rename every demo file in a directory based on its content",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfigOrExit()

			w := workers
			if w <= 0 {
				w = cfg.Workers
			}

			interactive := term.IsTerminal(int(os.Stdout.Fd()))
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: levelFor(interactive),
			}))

			start := time.Now()
			stats, outcomes, err := renamer.ProcessDirectory(args[0], renamer.BatchOptions{
				CreateConflictsDir: !noConflictsDir,
				ConflictsDirName:   cfg.ConflictsDirName,
				Workers:            w,
				Logger:             logger,
			})
			if err != nil {
				var pathErr *os.PathError
				if errors.As(err, &pathErr) {
					fmt.Fprintf(os.Stderr, "Directory not found: %s\n", args[0])
				} else {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				}
				os.Exit(ExitCodeFailedToRename)
			}

			if interactive {
				for _, o := range outcomes {
					printOutcomeLine(o)
				}
			}

			fmt.Println("\nSummary:")
			fmt.Printf("  Processed: %d\n", stats.Processed)
			fmt.Printf("  Renamed: %d\n", stats.Renamed)
			fmt.Printf("  Already named: %d\n", stats.AlreadyNamed)
			fmt.Printf("  Identical deleted: %d\n", stats.IdenticalDeleted)
			fmt.Printf("  Duplicates deleted (pre-pass): %d\n", stats.DuplicatesDeleted)
			fmt.Printf("  Name conflicts: %d\n", stats.Conflicts)
			fmt.Printf("  Errors: %d\n", stats.Errors)
			fmt.Printf("  Elapsed: %s\n", humanize.RelTime(start, time.Now(), "", ""))
		},
	}

	cmd.Flags().BoolVar(&noConflictsDir, "no-conflicts-dir", false, "don't create a conflicts directory, just skip name conflicts")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of files to rename concurrently (0: use config/default)")
	return cmd
}

func printOutcomeLine(o renamer.FileOutcome) {
	switch o.Result {
	case renamer.ResultRenamed:
		fmt.Printf("%s -> %s\n", o.Path, o.SuggestedName)
	case renamer.ResultAlreadyNamed:
		fmt.Printf("%s (already correctly named)\n", o.Path)
	case renamer.ResultIdenticalDeleted:
		fmt.Printf("%s (identical file deleted)\n", o.Path)
	case renamer.ResultConflictMoved:
		fmt.Printf("%s (name conflict: moved to %s)\n", o.Path, o.ConflictPath)
	case renamer.ResultConflictSkipped:
		fmt.Printf("%s (name conflict, skipped)\n", o.Path)
	case renamer.ResultParseError:
		fmt.Printf("%s (error: could not parse demo)\n", o.Path)
	default:
		fmt.Printf("%s (error: %v)\n", o.Path, o.Err)
	}
}

func levelFor(interactive bool) slog.Level {
	if interactive {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// newProcessSingleCmd mirrors process_single_demo.py: prints the
// suggested filename for one demo, either as plain text or (with --json)
// as a structured summary.
func newProcessSingleCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "process-single <file>",
		Short: "Print the suggested filename for a single demo file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			file := args[0]
			if _, err := os.Stat(file); err != nil {
				fmt.Fprintf(os.Stderr, "Error: demo file not found: %s\n", file)
				os.Exit(ExitCodeMissingArguments)
			}

			if !asJSON {
				suggested, ok := renamer.SuggestName(file)
				if !ok {
					fmt.Fprintln(os.Stderr, "Error: could not parse demo file")
					os.Exit(ExitCodeFailedToParse)
				}
				fmt.Println(suggested)
				return
			}

			meta, ok := renamer.ParseDemoMetadata(file)
			if !ok {
				fmt.Fprintln(os.Stderr, "Error: could not parse demo file")
				os.Exit(ExitCodeFailedToParse)
			}

			out := map[string]any{
				"suggested_filename": meta.SuggestedFilename,
				"map_name":           meta.MapName,
				"player_name":        meta.PlayerName,
				"physics":            meta.Physics,
				"time_seconds":       meta.TimeSeconds,
			}
			if meta.HasRecordTime {
				out["record_date"] = meta.RecordTime.Format(time.RFC3339)
			} else {
				out["record_date"] = nil
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
				os.Exit(ExitCodeFailedToParse)
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output structured JSON instead of a bare filename")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(appName, "version:", appVersion)
			fmt.Println("Parser version:", repparser.Version)
			fmt.Println("Platform:", runtime.GOOS, runtime.GOARCH)
			fmt.Println("Built with:", runtime.Version())
		},
	}
}
