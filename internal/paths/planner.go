package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/amertu/ocr-converter/internal/model"
)

// OutputExt is the extension every planned output carries; the OCR
// engine always produces a PDF.
const OutputExt = ".pdf"

// collisionMarker disambiguates an output that would otherwise equal
// its input.
const collisionMarker = "_out"

// PlanOptions controls output placement.
type PlanOptions struct {
	// OutputDir is where outputs go; empty means in-place next to the
	// input.
	OutputDir string
	// Suffix is appended to the input stem before the extension.
	Suffix string
	// MkDirs creates the output directory when set. Dry runs leave it
	// off so planning has no side effects.
	MkDirs bool
}

// PlanOutput computes the output path for one input file.
func PlanOutput(input string, opts PlanOptions) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := stem + opts.Suffix + OutputExt

	var out string
	if opts.OutputDir != "" {
		if opts.MkDirs {
			if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
				return "", err
			}
		}
		out = filepath.Join(opts.OutputDir, name)
	} else {
		out = filepath.Join(filepath.Dir(input), name)
	}

	if samePath(input, out) {
		out = filepath.Join(filepath.Dir(out), stem+opts.Suffix+collisionMarker+OutputExt)
	}
	return out, nil
}

// BuildJobs plans an output for every resolved input.
func BuildJobs(inputs []string, opts PlanOptions) ([]model.Job, error) {
	jobs := make([]model.Job, 0, len(inputs))
	for _, input := range inputs {
		out, err := PlanOutput(input, opts)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, model.Job{Input: input, Output: out})
	}
	return jobs, nil
}

// samePath compares two paths after full resolution, falling back to a
// cleaned lexical compare when resolution fails (e.g. the output does
// not exist yet).
func samePath(a, b string) bool {
	ra, errA := filepath.Abs(a)
	rb, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	if resolved, err := filepath.EvalSymlinks(ra); err == nil {
		ra = resolved
	}
	if resolved, err := filepath.EvalSymlinks(rb); err == nil {
		rb = resolved
	}
	return ra == rb
}
