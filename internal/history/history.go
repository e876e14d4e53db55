// Package history records training runs in a SQL database.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ErrUnsupportedDriver is returned by Open for drivers other than
// sqlite3 and postgres.
var ErrUnsupportedDriver = errors.New("history: unsupported driver")

// Run is one training run.
type Run struct {
	ID            int64     `db:"id" json:"id"`
	TrainedAt     time.Time `db:"trained_at" json:"trained_at"`
	Dataset       string    `db:"dataset" json:"dataset"`
	Observations  int       `db:"observations" json:"observations"`
	LearningRate  float64   `db:"learning_rate" json:"learning_rate"`
	MaxIterations int       `db:"max_iterations" json:"max_iterations"`
	Epsilon       float64   `db:"epsilon" json:"epsilon"`
	Iterations    int       `db:"iterations" json:"iterations"`
	Cost          float64   `db:"cost" json:"cost"`
	Converged     bool      `db:"converged" json:"converged"`
	Theta0        float64   `db:"theta0" json:"theta0"`
	Theta1        float64   `db:"theta1" json:"theta1"`
	RSquared      float64   `db:"r_squared" json:"r_squared"`
}

// Recorder stores runs.
type Recorder interface {
	Record(ctx context.Context, run Run) (int64, error)
}

// Store is a Recorder backed by sqlx.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the database and creates the runs table if needed.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver != "sqlite3" && driver != "postgres" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == "postgres" {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	query := `
		CREATE TABLE IF NOT EXISTS training_runs (
			id ` + idColumn + `,
			trained_at TIMESTAMP NOT NULL,
			dataset TEXT NOT NULL,
			observations INTEGER NOT NULL,
			learning_rate DOUBLE PRECISION NOT NULL,
			max_iterations INTEGER NOT NULL,
			epsilon DOUBLE PRECISION NOT NULL,
			iterations INTEGER NOT NULL,
			cost DOUBLE PRECISION NOT NULL,
			converged BOOLEAN NOT NULL,
			theta0 DOUBLE PRECISION NOT NULL,
			theta1 DOUBLE PRECISION NOT NULL,
			r_squared DOUBLE PRECISION NOT NULL
		)`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create training_runs table: %w", err)
	}
	return nil
}

// Record inserts run and returns its id.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	query := s.db.Rebind(`
		INSERT INTO training_runs (
			trained_at, dataset, observations,
			learning_rate, max_iterations, epsilon,
			iterations, cost, converged,
			theta0, theta1, r_squared
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	args := []any{
		run.TrainedAt.UTC(), run.Dataset, run.Observations,
		run.LearningRate, run.MaxIterations, run.Epsilon,
		run.Iterations, run.Cost, run.Converged,
		run.Theta0, run.Theta1, run.RSquared,
	}

	// lib/pq does not implement LastInsertId.
	if s.driver == "postgres" {
		var id int64
		if err := s.db.QueryRowxContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to record training run: %w", err)
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to record training run: %w", err)
	}
	return res.LastInsertId()
}

// List returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, trained_at, dataset, observations,
			learning_rate, max_iterations, epsilon,
			iterations, cost, converged,
			theta0, theta1, r_squared
		FROM training_runs
		ORDER BY id DESC`

	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var runs []Run
	if err := s.db.SelectContext(ctx, &runs, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list training runs: %w", err)
	}
	return runs, nil
}

// Latest returns the most recent run, or sql.ErrNoRows wrapped when the
// table is empty.
func (s *Store) Latest(ctx context.Context) (Run, error) {
	var run Run
	err := s.db.GetContext(ctx, &run, `
		SELECT id, trained_at, dataset, observations,
			learning_rate, max_iterations, epsilon,
			iterations, cost, converged,
			theta0, theta1, r_squared
		FROM training_runs
		ORDER BY id DESC
		LIMIT 1`)
	if err != nil {
		return Run{}, fmt.Errorf("failed to get latest training run: %w", err)
	}
	return run, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
