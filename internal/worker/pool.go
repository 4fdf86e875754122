// Package worker dispatches OCR jobs across a bounded pool of
// goroutines and tallies the outcomes.
package worker

import (
	"runtime"
	"sync"

	"github.com/amertu/ocr-converter/internal/model"
)

// DefaultJobs derives the default worker count from the machine:
// half the CPUs, at least 1.
func DefaultJobs() int {
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	return n
}

// Pool runs jobs with bounded concurrency. Each job is an independent
// unit of work; jobs never depend on each other's outcome and may
// complete in any order.
type Pool struct {
	Workers int
}

// NewPool clamps the worker count to at least one.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{Workers: workers}
}

// Run feeds every job through process and collects results in
// completion order. onDone, if set, is called once per result from the
// collecting goroutine (used for progress display).
func (p *Pool) Run(jobs []model.Job, process func(model.Job) model.Result, onDone func(model.Result)) []model.Result {
	jobCh := make(chan model.Job)
	resCh := make(chan model.Result)

	var wg sync.WaitGroup
	for i := 0; i < p.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				resCh <- process(job)
			}
		}()
	}

	go func() {
		for _, job := range jobs {
			jobCh <- job
		}
		close(jobCh)
		wg.Wait()
		close(resCh)
	}()

	results := make([]model.Result, 0, len(jobs))
	for res := range resCh {
		results = append(results, res)
		if onDone != nil {
			onDone(res)
		}
	}
	return results
}

// Tally is the aggregate outcome of one run.
type Tally struct {
	Inputs    int
	Processed int
	Skipped   int
	Failed    int
}

// Summarize counts skips and failures across the collected results.
// A skipped job is never a failure, whatever its exit code.
func Summarize(results []model.Result) Tally {
	t := Tally{Inputs: len(results)}
	for _, res := range results {
		if res.Skipped() {
			t.Skipped++
			continue
		}
		if res.Failed() {
			t.Failed++
		}
	}
	t.Processed = t.Inputs - t.Skipped
	return t
}
