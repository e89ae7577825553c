// Package runstore keeps a sqlite history of balance-batch results so
// successive batches can be compared after content changes.
package runstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"storesim.ai/internal/auto"
)

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS batches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL,
	mode TEXT NOT NULL,
	weeks INTEGER NOT NULL,
	seeds INTEGER NOT NULL,
	base_seed INTEGER NOT NULL,
	win_rate REAL NOT NULL,
	bankrupt_rate REAL NOT NULL,
	critical_alerts INTEGER NOT NULL,
	report_json TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
	batch_id INTEGER NOT NULL REFERENCES batches(id),
	scenario TEXT NOT NULL,
	seed INTEGER NOT NULL,
	outcome TEXT NOT NULL,
	final_week INTEGER NOT NULL,
	cum_profit REAL NOT NULL,
	roi REAL NOT NULL,
	avg_fulfillment REAL NOT NULL,
	critical_findings INTEGER NOT NULL,
	summary_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario, seed);
`

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("runstore schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveReport stores one batch and all of its runs; returns the batch id.
func (s *Store) SaveReport(rep *auto.AutomationReport) (int64, error) {
	raw, err := json.Marshal(rep)
	if err != nil {
		return 0, err
	}
	critical := 0
	for _, a := range rep.Alerts {
		if a.Severity == auto.SeverityCritical {
			critical++
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO batches (created_at, mode, weeks, seeds, base_seed, win_rate, bankrupt_rate, critical_alerts, report_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.GeneratedAt.Format(time.RFC3339), rep.Config.Mode, rep.Config.Weeks,
		rep.Config.Seeds, rep.Config.BaseSeed,
		rep.Aggregate.WinRate, rep.Aggregate.BankruptRate, critical, string(raw),
	)
	if err != nil {
		return 0, err
	}
	batchID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO runs (batch_id, scenario, seed, outcome, final_week, cum_profit, roi, avg_fulfillment, critical_findings, summary_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, r := range rep.Runs {
		sraw, err := json.Marshal(r)
		if err != nil {
			return 0, err
		}
		crit := 0
		for _, f := range r.Findings {
			if f.Severity == auto.SeverityCritical {
				crit++
			}
		}
		if _, err := stmt.Exec(batchID, r.Scenario, r.Seed, r.Outcome, r.FinalWeek,
			r.CumulativeProfit, r.ROI, r.AvgFulfillment, crit, string(sraw)); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return batchID, nil
}

// BatchStat is one row of batch history.
type BatchStat struct {
	ID             int64
	CreatedAt      string
	Mode           string
	WinRate        float64
	BankruptRate   float64
	CriticalAlerts int
}

// History returns the most recent batches, newest first.
func (s *Store) History(limit int) ([]BatchStat, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, mode, win_rate, bankrupt_rate, critical_alerts
		 FROM batches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BatchStat
	for rows.Next() {
		var b BatchStat
		if err := rows.Scan(&b.ID, &b.CreatedAt, &b.Mode, &b.WinRate, &b.BankruptRate, &b.CriticalAlerts); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ScenarioRuns loads every stored run of one scenario, oldest batch first.
func (s *Store) ScenarioRuns(scenario string) ([]auto.RunSummary, error) {
	rows, err := s.db.Query(
		`SELECT summary_json FROM runs WHERE scenario = ? ORDER BY batch_id, seed`, scenario)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []auto.RunSummary
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var sum auto.RunSummary
		if err := json.Unmarshal([]byte(raw), &sum); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
