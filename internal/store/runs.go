package store

import (
	"database/sql"
	"time"
)

// FetchRun records a single upstream API call for auditing.
type FetchRun struct {
	ID                int64
	StartedAt         time.Time
	FinishedAt        sql.NullTime
	Source            string // "geocoding", "forecast"
	Endpoint          string // "search", "reverse", "forecast"
	Query             sql.NullString
	HTTPStatus        sql.NullInt64
	ResponseSizeBytes sql.NullInt64
	RecordsParsed     sql.NullInt64
	DurationMS        sql.NullInt64
	Success           bool
	ErrorMessage      sql.NullString
}

// StartRun creates a new fetch run record and returns it.
func (s *Store) StartRun(source, endpoint, query string) (*FetchRun, error) {
	run := &FetchRun{
		StartedAt: time.Now().UTC(),
		Source:    source,
		Endpoint:  endpoint,
	}
	if query != "" {
		run.Query = sql.NullString{String: query, Valid: true}
	}

	result, err := s.db.Exec(`
		INSERT INTO fetch_runs (started_at, source, endpoint, query, success)
		VALUES (?, ?, ?, ?, FALSE)
	`, run.StartedAt, run.Source, run.Endpoint, run.Query)
	if err != nil {
		return nil, err
	}

	run.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return run, nil
}

// CompleteRun updates the run with its results.
func (s *Store) CompleteRun(run *FetchRun) error {
	if run == nil {
		return nil
	}

	now := time.Now().UTC()
	run.FinishedAt = sql.NullTime{Time: now, Valid: true}
	run.DurationMS = sql.NullInt64{Int64: now.Sub(run.StartedAt).Milliseconds(), Valid: true}

	_, err := s.db.Exec(`
		UPDATE fetch_runs SET
			finished_at = ?,
			http_status = ?,
			response_size_bytes = ?,
			records_parsed = ?,
			duration_ms = ?,
			success = ?,
			error_message = ?
		WHERE id = ?
	`, run.FinishedAt, run.HTTPStatus, run.ResponseSizeBytes, run.RecordsParsed,
		run.DurationMS, run.Success, run.ErrorMessage, run.ID)
	return err
}

// RecentRuns returns the most recent fetch runs, newest first.
func (s *Store) RecentRuns(limit int) ([]FetchRun, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at, source, endpoint, query,
			   http_status, response_size_bytes, records_parsed, duration_ms,
			   success, error_message
		FROM fetch_runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []FetchRun
	for rows.Next() {
		var r FetchRun
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Source, &r.Endpoint,
			&r.Query, &r.HTTPStatus, &r.ResponseSizeBytes, &r.RecordsParsed, &r.DurationMS,
			&r.Success, &r.ErrorMessage); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// RunSummary aggregates fetch runs per source and endpoint.
type RunSummary struct {
	Source      string
	Endpoint    string
	TotalRuns   int
	SuccessRuns int
	FailedRuns  int
}

// SummarizeRuns returns per-endpoint totals for the current session.
func (s *Store) SummarizeRuns() ([]RunSummary, error) {
	rows, err := s.db.Query(`
		SELECT
			source,
			endpoint,
			COUNT(*) as total_runs,
			SUM(CASE WHEN success THEN 1 ELSE 0 END) as success_runs,
			SUM(CASE WHEN NOT success THEN 1 ELSE 0 END) as failed_runs
		FROM fetch_runs
		GROUP BY source, endpoint
		ORDER BY source, endpoint
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []RunSummary
	for rows.Next() {
		var h RunSummary
		if err := rows.Scan(&h.Source, &h.Endpoint, &h.TotalRuns, &h.SuccessRuns, &h.FailedRuns); err != nil {
			return nil, err
		}
		results = append(results, h)
	}
	return results, rows.Err()
}
