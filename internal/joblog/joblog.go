// Package joblog appends one CSV row per completed job to a durable
// log file shared by every run of the tool.
package joblog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/amertu/ocr-converter/internal/model"
)

// headCap bounds the flattened log head written per row.
const headCap = 2000

// timeLayout is a sortable local time with second precision.
const timeLayout = "2006-01-02T15:04:05"

var header = []string{"When", "Input", "Output", "ReturnCode", "DurationSec", "OutputLogHead"}

// Logger appends job results to one CSV file. Appends from concurrent
// workers are serialized so rows never interleave.
type Logger struct {
	path string

	mu  sync.Mutex
	now func() time.Time
}

// New creates a logger bound to the given log file path.
func New(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

// EnsureHeader makes sure the log file exists and starts with the
// header row. Calling it again on a populated file is a no-op, so
// repeated runs against the same log never duplicate the header.
func (l *Logger) EnsureHeader() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, err := os.Stat(l.path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return l.writeRow(header, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
}

// Append writes one row for the result, timestamped at append time.
func (l *Logger) Append(res model.Result) error {
	row := []string{
		l.now().Format(timeLayout),
		res.Input,
		res.Output,
		fmt.Sprintf("%d", res.ExitCode),
		fmt.Sprintf("%.2f", res.Duration),
		flatten(res.LogHead),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writeRow(row, os.O_CREATE|os.O_WRONLY|os.O_APPEND)
}

// writeRow renders the row to a buffer first so the file sees a single
// write per row. Callers hold the mutex.
func (l *Logger) writeRow(row []string, flags int) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, flags, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// flatten folds the captured text onto one line and re-applies the
// length cap after flattening. The cap backs off to a rune boundary so
// the row never ends in a partial UTF-8 sequence.
func flatten(head string) string {
	head = strings.ReplaceAll(head, "\n", " ")
	head = strings.ReplaceAll(head, "\r", " ")
	if len(head) <= headCap {
		return head
	}
	cut := headCap
	for cut > 0 && !utf8.RuneStart(head[cut]) {
		cut--
	}
	return head[:cut]
}
