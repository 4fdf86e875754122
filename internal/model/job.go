package model

import "time"

// SkipSentinel marks a result whose job was not executed because the
// output file already existed.
const SkipSentinel = "skipped: exists"

// Job is one input/output pair handed to the worker pool. The output
// path never equals the input path.
type Job struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Result is the outcome of one job, produced either by running the OCR
// engine or synthetically when the job was skipped.
type Result struct {
	Input    string  `json:"input"`
	Output   string  `json:"output"`
	ExitCode int     `json:"exit_code"`
	Duration float64 `json:"duration_s"`
	LogHead  string  `json:"log_head"`
}

// Skipped reports whether the result came from the skip short-circuit.
func (r Result) Skipped() bool {
	return r.LogHead == SkipSentinel
}

// Failed reports whether the job counts as a failure in the final tally.
func (r Result) Failed() bool {
	return r.ExitCode != 0 && !r.Skipped()
}

// Run is one completed invocation of the tool, recorded in the history
// store after all jobs finish.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Inputs     int       `json:"inputs"`
	Processed  int       `json:"processed"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	LogPath    string    `json:"log_path"`
}
