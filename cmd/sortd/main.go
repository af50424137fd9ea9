package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"sortd/internal/config"
	"sortd/internal/engine"
	"sortd/internal/event"
	"sortd/internal/filter"
	"sortd/internal/stats"
	"sortd/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		workers      int
		exts         []string
		dupPolicyStr string
		stateDir     string
		logFile      string
		dryRun       bool
		noCleanup    bool
		noProgress   bool
		quiet        bool
		verbose      bool
		showVersion  bool
	)

	rootCmd := &cobra.Command{
		Use:   "sortd [flags] <root>",
		Short: "Sort files into extension folders, deduplicating by content, resumable after interruption",
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "sortd %s\n", version)
				return nil
			}

			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve root: %w", err)
			}
			info, err := os.Stat(root)
			if err != nil {
				return fmt.Errorf("invalid root directory: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("invalid root directory: %s is not a directory", root)
			}

			// Load optional config file.
			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "error", err)
			}
			applyConfigDefaults(cmd, cfg.Defaults, &workers, &dupPolicyStr, &exts, &noCleanup)

			policy, err := engine.ParseDuplicatePolicy(dupPolicyStr)
			if err != nil {
				return err
			}

			if workers <= 0 {
				workers = runtime.NumCPU()
			}
			if stateDir == "" {
				stateDir = filepath.Join(root, engine.DefaultStateDirName)
			}
			if logFile == "" {
				logFile = filepath.Join(stateDir, "operations.log")
			}

			// The operation log is opened once here and closed when the run
			// ends; every event lands there regardless of verbosity.
			if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
				return fmt.Errorf("create state dir: %w", err)
			}
			lf, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("open operation log: %w", err)
			}
			defer lf.Close()

			stderrLevel := slog.LevelWarn
			if verbose {
				stderrLevel = slog.LevelDebug
			}
			textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: stderrLevel,
			})
			opHandler := slog.NewTextHandler(lf, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			})
			logger := slog.New(ui.NewMultiHandler(textHandler, opHandler))
			slog.SetDefault(logger)

			if dryRun {
				logger.Info("dry run mode")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)

			presenter := ui.NewPresenter(ui.Config{
				Writer:     os.Stdout,
				ErrWriter:  os.Stderr,
				Stats:      collector,
				Root:       root,
				Quiet:      quiet,
				Verbose:    verbose,
				NoProgress: noProgress || !ui.IsTTY(os.Stderr.Fd()),
			})

			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				_ = presenter.Run(events) //nolint:errcheck // presenter error is non-fatal
			}()

			var extFilter *filter.Extensions
			if len(exts) > 0 {
				extFilter = filter.NewExtensions(exts...)
			}

			result := engine.Run(ctx, engine.Config{
				Root:       root,
				Workers:    workers,
				Extensions: extFilter,
				Duplicates: policy,
				StateDir:   stateDir,
				DryRun:     dryRun,
				Cleanup:    !noCleanup,
				Events:     events,
				Stats:      collector,
				Log:        logger,
			})
			stop()
			close(events)
			presenterWg.Wait()

			if result.Err != nil {
				logger.Error("sort failed", "error", result.Err)
				return &exitError{code: 2}
			}
			if result.NothingToDo {
				fmt.Fprintln(os.Stderr, "no files to process")
				return nil
			}
			if !quiet {
				if summary := presenter.Summary(); summary != "" {
					fmt.Fprintln(os.Stderr, summary)
				}
			}
			if result.Stats.Failed > 0 {
				return &exitError{code: 1} // completed with per-file errors
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
	rootCmd.Flags().
		IntVarP(&workers, "workers", "n", 0, "number of sort workers (default: NumCPU)")
	rootCmd.Flags().
		StringSliceVar(&exts, "ext", nil, "only sort files with these extensions (repeatable; 'no_extension' matches extensionless files)")
	rootCmd.Flags().
		StringVar(&dupPolicyStr, "duplicates", "rename", "duplicate placement: 'rename' (suffix _duplicate) or 'dir' (duplicate_files folder)")
	rootCmd.Flags().StringVar(&stateDir, "state-dir", "", "directory for the recovery ledger and operation log (default: <root>/.sortd)")
	rootCmd.Flags().StringVar(&logFile, "log", "", "operation log file (default: <state-dir>/operations.log)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan and log placements without moving anything")
	rootCmd.Flags().BoolVar(&noCleanup, "no-cleanup", false, "keep empty directories after sorting")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable progress display")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*exitError); ok {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	return 0
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(
	cmd *cobra.Command,
	defaults config.DefaultsConfig,
	workers *int,
	dupPolicy *string,
	exts *[]string,
	noCleanup *bool,
) {
	if !cmd.Flags().Changed("workers") && defaults.Workers != nil {
		*workers = *defaults.Workers
	}
	if !cmd.Flags().Changed("duplicates") && defaults.Duplicates != nil {
		*dupPolicy = *defaults.Duplicates
	}
	if !cmd.Flags().Changed("ext") && len(defaults.Extensions) > 0 {
		*exts = defaults.Extensions
	}
	if !cmd.Flags().Changed("no-cleanup") && defaults.Cleanup != nil {
		*noCleanup = !*defaults.Cleanup
	}
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
