// Package storage keeps a SQLite history of completed runs. The
// history is advisory: callers treat store errors as warnings, not run
// failures.
package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/amertu/ocr-converter/internal/model"
)

type Store struct {
	Db *sql.DB
}

func (s *Store) Init() error {
	createRunTable := `create table if not exists runs(
		id text primary key,
		started_at DATETIME not null,
		finished_at DATETIME not null,
		inputs integer not null default 0,
		processed integer not null default 0,
		skipped integer not null default 0,
		failed integer not null default 0,
		log_path text
	);`
	_, err := s.Db.Exec(createRunTable)
	return err
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}
	store := &Store{
		Db: db,
	}
	if err := store.Init(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) RecordRun(run *model.Run) error {
	statement := `insert into runs (
		id, started_at, finished_at, inputs, processed, skipped, failed, log_path
		) values (?,?,?,?,?,?,?,?);`
	_, err := s.Db.Exec(statement,
		run.ID, run.StartedAt, run.FinishedAt,
		run.Inputs, run.Processed, run.Skipped, run.Failed, run.LogPath)
	return err
}

// ListRecent returns up to limit runs, newest first.
func (s *Store) ListRecent(limit int) ([]model.Run, error) {
	statement := `select id, started_at, finished_at, inputs, processed, skipped, failed, log_path
		from runs order by started_at desc limit ?`
	rows, err := s.Db.Query(statement, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		var logPath sql.NullString
		if err := rows.Scan(
			&run.ID,
			&run.StartedAt,
			&run.FinishedAt,
			&run.Inputs,
			&run.Processed,
			&run.Skipped,
			&run.Failed,
			&logPath,
		); err != nil {
			return nil, err
		}
		if logPath.Valid {
			run.LogPath = logPath.String
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Totals aggregates the tallies across all recorded runs.
func (s *Store) Totals() (map[string]int, error) {
	statement := `select count(*), coalesce(sum(inputs),0), coalesce(sum(processed),0),
		coalesce(sum(skipped),0), coalesce(sum(failed),0) from runs;`

	var runs, inputs, processed, skipped, failed int
	err := s.Db.QueryRow(statement).Scan(&runs, &inputs, &processed, &skipped, &failed)
	if err != nil {
		return nil, err
	}
	return map[string]int{
		"runs":      runs,
		"inputs":    inputs,
		"processed": processed,
		"skipped":   skipped,
		"failed":    failed,
	}, nil
}

// Duration of a recorded run.
func RunDuration(run model.Run) time.Duration {
	return run.FinishedAt.Sub(run.StartedAt)
}
