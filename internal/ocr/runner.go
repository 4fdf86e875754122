// Package ocr invokes the external ocrmypdf engine and turns each
// invocation into a job result.
package ocr

import (
	"os"
	"os/exec"
	"time"
	"unicode/utf8"

	"github.com/amertu/ocr-converter/internal/model"
)

// EngineName is the executable the tool drives.
const EngineName = "ocrmypdf"

// captureCap bounds the combined output kept per job at capture time.
const captureCap = 1200

// exitEngineError stands in for an exit code when the invoker itself
// fails (engine removed mid-run, not executable). Matches the shell's
// command-not-found convention.
const exitEngineError = 127

// Invoker runs an executable with arguments and reports its exit code
// and combined stdout/stderr. A non-nil error means the process could
// not be run at all, not that it exited non-zero.
type Invoker interface {
	Run(name string, args []string) (exitCode int, combined string, err error)
}

// ExecInvoker runs processes via os/exec, blocking until completion.
type ExecInvoker struct{}

func (ExecInvoker) Run(name string, args []string) (int, string, error) {
	cmd := exec.Command(name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), string(out), nil
		}
		return 0, string(out), err
	}
	return 0, string(out), nil
}

// LookupEngine resolves the engine executable on PATH.
func LookupEngine() (string, error) {
	return exec.LookPath(EngineName)
}

// Options carries the per-run knobs that shape every invocation.
type Options struct {
	Engine    string
	Lang      string
	Force     bool
	Overwrite bool
	PDFA      bool
	// Extra is spliced into the argument list ahead of the positional
	// input/output, passed to the engine verbatim.
	Extra []string
}

// Runner processes single jobs against the engine.
type Runner struct {
	Opts    Options
	Invoker Invoker
}

// NewRunner builds a runner backed by real subprocess execution.
func NewRunner(opts Options) *Runner {
	return &Runner{Opts: opts, Invoker: ExecInvoker{}}
}

// Process runs one job to completion. If the output already exists and
// overwrite is off, the engine is not invoked and a skip result is
// returned. Non-zero engine exits are surfaced verbatim; there are no
// retries.
func (r *Runner) Process(job model.Job) model.Result {
	if !r.Opts.Overwrite {
		if _, err := os.Stat(job.Output); err == nil {
			return model.Result{
				Input:   job.Input,
				Output:  job.Output,
				LogHead: model.SkipSentinel,
			}
		}
	}

	args := r.buildArgs(job)
	start := time.Now()
	code, combined, err := r.Invoker.Run(r.Opts.Engine, args)
	dur := time.Since(start).Seconds()

	head := combined
	if err != nil {
		code = exitEngineError
		head = err.Error()
	}
	head = capHead(head, captureCap)

	return model.Result{
		Input:    job.Input,
		Output:   job.Output,
		ExitCode: code,
		Duration: dur,
		LogHead:  head,
	}
}

// buildArgs assembles the engine argument list:
//
//	[--force-ocr|--skip-text] [--pdfa-2] [extra...] --optimize 3 --language <lang> <input> <output>
func (r *Runner) buildArgs(job model.Job) []string {
	args := make([]string, 0, 8+len(r.Opts.Extra))
	if r.Opts.Force {
		args = append(args, "--force-ocr")
	} else {
		args = append(args, "--skip-text")
	}
	if r.Opts.PDFA {
		args = append(args, "--pdfa-2")
	}
	args = append(args, r.Opts.Extra...)
	args = append(args, "--optimize", "3", "--language", r.Opts.Lang, job.Input, job.Output)
	return args
}

// capHead bounds s at max bytes, backing off so the cut never splits a
// multi-byte rune (engine output is localized).
func capHead(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
