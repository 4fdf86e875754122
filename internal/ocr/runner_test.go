package ocr

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/amertu/ocr-converter/internal/model"
)

// fakeInvoker records invocations and plays back a canned outcome.
type fakeInvoker struct {
	calls    int
	lastName string
	lastArgs []string

	exitCode int
	combined string
	err      error
}

func (f *fakeInvoker) Run(name string, args []string) (int, string, error) {
	f.calls++
	f.lastName = name
	f.lastArgs = args
	return f.exitCode, f.combined, f.err
}

func newTestRunner(opts Options, inv Invoker) *Runner {
	if opts.Engine == "" {
		opts.Engine = "ocrmypdf"
	}
	if opts.Lang == "" {
		opts.Lang = "deu+eng"
	}
	return &Runner{Opts: opts, Invoker: inv}
}

func TestProcessSkipsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "a_ocr.pdf")
	if err := os.WriteFile(out, []byte("pdf"), 0644); err != nil {
		t.Fatal(err)
	}

	inv := &fakeInvoker{}
	r := newTestRunner(Options{}, inv)
	res := r.Process(model.Job{Input: filepath.Join(dir, "a.pdf"), Output: out})

	if inv.calls != 0 {
		t.Fatalf("engine should not have been invoked, got %d calls", inv.calls)
	}
	if res.ExitCode != 0 || res.Duration != 0 {
		t.Fatalf("skip result should be rc=0 dur=0, got rc=%d dur=%f", res.ExitCode, res.Duration)
	}
	if !res.Skipped() {
		t.Fatalf("expected skip sentinel, got %q", res.LogHead)
	}
}

func TestProcessOverwriteRunsAnyway(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "a_ocr.pdf")
	if err := os.WriteFile(out, []byte("pdf"), 0644); err != nil {
		t.Fatal(err)
	}

	inv := &fakeInvoker{}
	r := newTestRunner(Options{Overwrite: true}, inv)
	res := r.Process(model.Job{Input: filepath.Join(dir, "a.pdf"), Output: out})

	if inv.calls != 1 {
		t.Fatalf("expected 1 invocation, got %d", inv.calls)
	}
	if res.Skipped() {
		t.Fatal("overwrite run must not report a skip")
	}
}

func TestProcessArgvShape(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "default",
			opts: Options{Lang: "eng"},
			want: []string{"--skip-text", "--optimize", "3", "--language", "eng", "in.pdf", "out.pdf"},
		},
		{
			name: "force",
			opts: Options{Lang: "eng", Force: true},
			want: []string{"--force-ocr", "--optimize", "3", "--language", "eng", "in.pdf", "out.pdf"},
		},
		{
			name: "pdfa",
			opts: Options{Lang: "eng", PDFA: true},
			want: []string{"--skip-text", "--pdfa-2", "--optimize", "3", "--language", "eng", "in.pdf", "out.pdf"},
		},
		{
			name: "extra args spliced before positionals",
			opts: Options{Lang: "deu+eng", Force: true, PDFA: true, Extra: []string{"--rotate-pages", "--deskew"}},
			want: []string{
				"--force-ocr", "--pdfa-2", "--rotate-pages", "--deskew",
				"--optimize", "3", "--language", "deu+eng", "in.pdf", "out.pdf",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &fakeInvoker{}
			r := newTestRunner(tt.opts, inv)
			r.Process(model.Job{Input: "in.pdf", Output: "out.pdf"})

			if len(inv.lastArgs) != len(tt.want) {
				t.Fatalf("argv mismatch:\n got %v\nwant %v", inv.lastArgs, tt.want)
			}
			for i := range tt.want {
				if inv.lastArgs[i] != tt.want[i] {
					t.Fatalf("argv[%d] = %q, want %q (full: %v)", i, inv.lastArgs[i], tt.want[i], inv.lastArgs)
				}
			}
		})
	}
}

func TestProcessSurfacesExitCodeVerbatim(t *testing.T) {
	inv := &fakeInvoker{exitCode: 6, combined: "PriorOcrFoundError"}
	r := newTestRunner(Options{}, inv)
	res := r.Process(model.Job{Input: "in.pdf", Output: "out.pdf"})

	if res.ExitCode != 6 {
		t.Fatalf("expected rc=6, got %d", res.ExitCode)
	}
	if res.LogHead != "PriorOcrFoundError" {
		t.Fatalf("unexpected log head %q", res.LogHead)
	}
	if res.Duration < 0 {
		t.Fatalf("duration must be non-negative, got %f", res.Duration)
	}
}

func TestProcessCapsCapturedOutput(t *testing.T) {
	inv := &fakeInvoker{combined: strings.Repeat("x", 5000)}
	r := newTestRunner(Options{}, inv)
	res := r.Process(model.Job{Input: "in.pdf", Output: "out.pdf"})

	if len(res.LogHead) != captureCap {
		t.Fatalf("expected log head capped at %d, got %d", captureCap, len(res.LogHead))
	}
}

func TestProcessCapNeverSplitsRunes(t *testing.T) {
	// One leading byte shifts every following 3-byte rune off the cap,
	// so a byte-wise cut would land mid-rune.
	inv := &fakeInvoker{combined: "x" + strings.Repeat("€", 1000)}
	r := newTestRunner(Options{}, inv)
	res := r.Process(model.Job{Input: "in.pdf", Output: "out.pdf"})

	if len(res.LogHead) > captureCap {
		t.Fatalf("log head exceeds cap: %d > %d", len(res.LogHead), captureCap)
	}
	if len(res.LogHead) < captureCap-utf8.UTFMax {
		t.Fatalf("log head cut too short: %d", len(res.LogHead))
	}
	if !utf8.ValidString(res.LogHead) {
		t.Fatal("log head ends in a partial UTF-8 sequence")
	}
}

func TestProcessInvokerErrorBecomesResult(t *testing.T) {
	inv := &fakeInvoker{err: errors.New("fork/exec: no such file")}
	r := newTestRunner(Options{}, inv)
	res := r.Process(model.Job{Input: "in.pdf", Output: "out.pdf"})

	if res.ExitCode != exitEngineError {
		t.Fatalf("expected rc=%d, got %d", exitEngineError, res.ExitCode)
	}
	if !strings.Contains(res.LogHead, "no such file") {
		t.Fatalf("log head should carry the error, got %q", res.LogHead)
	}
}

func TestExecInvokerRunsRealProcess(t *testing.T) {
	// A tiny stand-in engine: exits 3 after echoing.
	code, combined, err := ExecInvoker{}.Run("sh", []string{"-c", "echo engine says hi; exit 3"})
	if err != nil {
		t.Fatal(err)
	}
	if code != 3 {
		t.Fatalf("expected exit 3, got %d", code)
	}
	if !strings.Contains(combined, "engine says hi") {
		t.Fatalf("combined output missing, got %q", combined)
	}
}
