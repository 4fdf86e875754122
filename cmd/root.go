package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/amertu/ocr-converter/internal/config"
	"github.com/amertu/ocr-converter/internal/joblog"
	"github.com/amertu/ocr-converter/internal/model"
	"github.com/amertu/ocr-converter/internal/ocr"
	"github.com/amertu/ocr-converter/internal/paths"
	"github.com/amertu/ocr-converter/internal/storage"
	"github.com/amertu/ocr-converter/internal/worker"
)

// Exit codes. EngineNotFound mirrors the shell's command-not-found
// convention so scripts can tell a missing engine from failed jobs.
const (
	ExitOK             = 0
	ExitJobsFailed     = 1
	ExitUsage          = 2
	ExitEngineNotFound = 127
)

var (
	ErrEngineNotFound = errors.New("ocrmypdf not found")
	ErrJobsFailed     = errors.New("one or more jobs failed")
)

// batchFlags is the flag surface of the root command.
type batchFlags struct {
	outputDir  string
	inplace    bool
	suffix     string
	lang       string
	jobs       int
	recursive  bool
	overwrite  bool
	force      bool
	pdfa       bool
	logPath    string
	dryRun     bool
	noProgress bool
	quiet      bool
	verbose    bool
}

func RootCmd(store *storage.Store, cfg *config.Config) *cobra.Command {
	var flags batchFlags

	rootCmd := &cobra.Command{
		Use:   "ocrc <inputs...> [-- <ocrmypdf args...>]",
		Short: "OCR one or many documents at once using ocrmypdf",
		Long: "ocrc batch-processes PDFs and common image formats through ocrmypdf,\n" +
			"running jobs in parallel and logging every outcome to a CSV file.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := args
			var extra []string
			if at := cmd.ArgsLenAtDash(); at >= 0 {
				inputs = args[:at]
				extra = args[at:]
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no inputs given before '--'")
			}
			if flags.outputDir != "" && flags.inplace {
				return fmt.Errorf("use either --output or --inplace (not both)")
			}
			if flags.jobs < 1 {
				return fmt.Errorf("--jobs must be >= 1")
			}
			return runBatch(store, flags, inputs, extra)
		},
	}

	rootCmd.Flags().StringVarP(&flags.outputDir, "output", "o", "", "Output directory (mutually exclusive with --inplace)")
	rootCmd.Flags().BoolVar(&flags.inplace, "inplace", false, "Write outputs next to inputs (adds suffix); the default when --output is not given")
	rootCmd.Flags().StringVar(&flags.suffix, "suffix", cfg.Suffix, "Suffix for output filenames (before .pdf)")
	rootCmd.Flags().StringVar(&flags.lang, "lang", cfg.Lang, "OCR languages (Tesseract codes, e.g. 'eng', 'deu+eng')")
	rootCmd.Flags().IntVar(&flags.jobs, "jobs", cfg.Jobs, "Parallel workers")
	rootCmd.Flags().BoolVar(&flags.recursive, "recursive", false, "Recurse into folders / expand glob patterns recursively")
	rootCmd.Flags().BoolVar(&flags.overwrite, "overwrite", false, "Overwrite existing outputs")
	rootCmd.Flags().BoolVar(&flags.force, "force", false, "Force OCR even if the PDF already contains text")
	rootCmd.Flags().BoolVar(&flags.pdfa, "pdfa", false, "Output PDF/A-2 for archival")
	rootCmd.Flags().StringVar(&flags.logPath, "log", cfg.LogPath, "CSV log path")
	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show what would be processed without running OCR")
	rootCmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Disable progress bar")
	rootCmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Less console output")
	rootCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "More console output")

	return rootCmd
}

func Execute(store *storage.Store, cfg *config.Config) int {
	rootCmd := RootCmd(store, cfg)
	rootCmd.AddCommand(HistoryCmd(store))
	rootCmd.AddCommand(ConfigCmd(cfg))

	err := rootCmd.Execute()
	code := exitCodeFor(err)
	if code == ExitUsage {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return code
}

// exitCodeFor maps an execution error to the process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrEngineNotFound):
		return ExitEngineNotFound
	case errors.Is(err, ErrJobsFailed):
		return ExitJobsFailed
	default:
		return ExitUsage
	}
}

// runBatch is the full orchestration: resolve inputs, plan outputs,
// dispatch jobs across the pool, log and summarize.
func runBatch(store *storage.Store, flags batchFlags, inputs, extra []string) error {
	engine, err := ocr.LookupEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, "[ERR] 'ocrmypdf' executable not found on PATH. Please install system dependencies.")
		return ErrEngineNotFound
	}

	files, err := paths.Resolve(inputs, flags.recursive, paths.DefaultExtensions())
	if err != nil {
		return fmt.Errorf("resolving inputs: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "[INFO] No matching files.")
		return nil
	}

	planOpts := paths.PlanOptions{
		OutputDir: flags.outputDir,
		Suffix:    flags.suffix,
		MkDirs:    !flags.dryRun,
	}
	jobs, err := paths.BuildJobs(files, planOpts)
	if err != nil {
		return fmt.Errorf("planning outputs: %w", err)
	}

	if flags.dryRun {
		fmt.Println("Planned jobs:")
		for _, job := range jobs {
			fmt.Printf("  %s  ->  %s\n", job.Input, job.Output)
		}
		return nil
	}

	logger := joblog.New(flags.logPath)
	if err := logger.EnsureHeader(); err != nil {
		return fmt.Errorf("preparing log file: %w", err)
	}

	runner := ocr.NewRunner(ocr.Options{
		Engine:    engine,
		Lang:      flags.lang,
		Force:     flags.force,
		Overwrite: flags.overwrite,
		PDFA:      flags.pdfa,
		Extra:     extra,
	})

	var bar *progressbar.ProgressBar
	if !flags.noProgress && !flags.quiet {
		bar = progressbar.NewOptions(len(jobs),
			progressbar.OptionSetDescription("OCR"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	startedAt := time.Now()
	pool := worker.NewPool(flags.jobs)
	results := pool.Run(jobs,
		func(job model.Job) model.Result {
			res := runner.Process(job)
			if logErr := logger.Append(res); logErr != nil {
				fmt.Fprintf(os.Stderr, "[WARN] could not append log row for %s: %v\n", res.Input, logErr)
			}
			return res
		},
		func(model.Result) {
			if bar != nil {
				bar.Add(1)
			}
		},
	)
	if bar != nil {
		bar.Finish()
	}

	tally := worker.Summarize(results)
	recordRun(store, startedAt, tally, flags.logPath)

	if !flags.quiet {
		fmt.Printf("[SUMMARY] inputs=%d processed=%d skipped_existing=%d failures=%d\n",
			tally.Inputs, tally.Processed, tally.Skipped, tally.Failed)
		if flags.verbose {
			for i, res := range results {
				if i >= 10 {
					break
				}
				fmt.Printf(" - %s: rc=%d, out=%s, took=%.2fs\n",
					filepath.Base(res.Input), res.ExitCode, filepath.Base(res.Output), res.Duration)
			}
		}
	}

	if tally.Failed > 0 {
		return ErrJobsFailed
	}
	return nil
}

// recordRun appends this run to the history store. History is
// advisory, so store errors degrade to a warning.
func recordRun(store *storage.Store, startedAt time.Time, tally worker.Tally, logPath string) {
	if store == nil {
		return
	}
	run := &model.Run{
		ID:         uuid.NewString(),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Inputs:     tally.Inputs,
		Processed:  tally.Processed,
		Skipped:    tally.Skipped,
		Failed:     tally.Failed,
		LogPath:    logPath,
	}
	if err := store.RecordRun(run); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] could not record run history: %v\n", err)
	}
}
