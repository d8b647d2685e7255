// Package runstore keeps a sqlite history of training runs so results from
// different seeds and strategies can be compared.
package runstore

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/shapegrid/internal/timeutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Run is one persisted training and evaluation result.
type Run struct {
	RunID             string          `json:"run_id"`
	Size              int             `json:"size"`
	TotalShapes       int             `json:"total_shapes"`
	TotalTests        int             `json:"total_tests"`
	Strategy          string          `json:"strategy"`
	RangeRule         string          `json:"range_rule"`
	Seed              uint64          `json:"seed"`
	RectAccuracy      float64         `json:"rect_accuracy"`
	CircleAccuracy    float64         `json:"circle_accuracy"`
	MeanRectScore     float64         `json:"mean_rect_score"`
	MeanCircleScore   float64         `json:"mean_circle_score"`
	RectAccumulated   int             `json:"rect_accumulated"`
	CircleAccumulated int             `json:"circle_accumulated"`
	TrainSeconds      float64         `json:"train_seconds"`
	ConfigJSON        json.RawMessage `json:"config_json,omitempty"`
	CreatedAt         int64           `json:"created_at"` // unix nanos
}

// Store persists runs in sqlite.
type Store struct {
	db    *sql.DB
	clock timeutil.Clock
}

// Open opens (or creates) the database at path and migrates it to the
// latest schema. Use ":memory:" only with a single connection.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, clock: timeutil.RealClock{}}, nil
}

// SetClock replaces the clock used for CreatedAt stamps.
func (s *Store) SetClock(c timeutil.Clock) { s.clock = c }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	// Closing m would close db, so it is left for the collector.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Insert persists run. An empty RunID is replaced with a new UUID and a zero
// CreatedAt with the current time.
func (s *Store) Insert(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = s.clock.Now().UnixNano()
	}

	var configStr interface{}
	if len(run.ConfigJSON) > 0 {
		configStr = string(run.ConfigJSON)
	}

	_, err := s.db.Exec(`
		INSERT INTO training_runs (
			run_id, size, total_shapes, total_tests, strategy, range_rule, seed,
			rect_accuracy, circle_accuracy, mean_rect_score, mean_circle_score,
			rect_accumulated, circle_accumulated, train_seconds, config_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Size, run.TotalShapes, run.TotalTests, run.Strategy, run.RangeRule, int64(run.Seed),
		run.RectAccuracy, run.CircleAccuracy, run.MeanRectScore, run.MeanCircleScore,
		run.RectAccumulated, run.CircleAccumulated, run.TrainSeconds, configStr, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT run_id, size, total_shapes, total_tests, strategy, range_rule, seed,
	       rect_accuracy, circle_accuracy, mean_rect_score, mean_circle_score,
	       rect_accumulated, circle_accumulated, train_seconds, config_json, created_at
	FROM training_runs`

// Get returns a single run by ID.
func (s *Store) Get(runID string) (*Run, error) {
	row := s.db.QueryRow(selectColumns+` WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %s not found", runID)
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return r, nil
}

// List returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) List(limit int) ([]*Run, error) {
	query := selectColumns + ` ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Delete removes a run by ID.
func (s *Store) Delete(runID string) error {
	result, err := s.db.Exec(`DELETE FROM training_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (*Run, error) {
	var r Run
	var seed int64
	var configStr sql.NullString
	var meanRect, meanCircle, trainSeconds sql.NullFloat64
	var rectAcc, circleAcc sql.NullInt64
	err := sc.Scan(
		&r.RunID, &r.Size, &r.TotalShapes, &r.TotalTests, &r.Strategy, &r.RangeRule, &seed,
		&r.RectAccuracy, &r.CircleAccuracy, &meanRect, &meanCircle,
		&rectAcc, &circleAcc, &trainSeconds, &configStr, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Seed = uint64(seed)
	r.MeanRectScore = meanRect.Float64
	r.MeanCircleScore = meanCircle.Float64
	r.RectAccumulated = int(rectAcc.Int64)
	r.CircleAccumulated = int(circleAcc.Int64)
	r.TrainSeconds = trainSeconds.Float64
	if configStr.Valid {
		r.ConfigJSON = json.RawMessage(configStr.String)
	}
	return &r, nil
}
