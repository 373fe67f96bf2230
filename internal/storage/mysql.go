package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"cruxtest/internal/ctxlog"
	"cruxtest/internal/domain"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS cruxtest_runs (
		run_id      CHAR(36)     NOT NULL PRIMARY KEY,
		executable  VARCHAR(512) NOT NULL,
		started_at  DATETIME(3)  NOT NULL,
		duration_ms BIGINT       NOT NULL,
		workers     INT          NOT NULL,
		total       INT          NOT NULL,
		passed      INT          NOT NULL,
		failed      INT          NOT NULL,
		skipped     INT          NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cruxtest_results (
		run_id      CHAR(36)     NOT NULL,
		file_index  INT          NOT NULL,
		file_path   VARCHAR(1024) NOT NULL,
		status      VARCHAR(16)  NOT NULL,
		exit_code   INT          NOT NULL,
		timed_out   BOOLEAN      NOT NULL,
		duration_ms BIGINT       NOT NULL,
		output      MEDIUMTEXT,
		error       TEXT,
		PRIMARY KEY (run_id, file_index)
	)`,
}

// MySQLStorage appends every run to a MySQL history database
type MySQLStorage struct {
	db *sql.DB
}

// NewMySQLStorage prepares a store for dsn. No connection is made until the first Save.
func NewMySQLStorage(dsn string) (*MySQLStorage, error) {
	mcfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse results dsn: %w", err)
	}
	if mcfg.DBName == "" {
		return nil, errors.New("results dsn must name a database")
	}
	mcfg.ParseTime = true

	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, fmt.Errorf("create mysql connector: %w", err)
	}
	return &MySQLStorage{db: sql.OpenDB(connector)}, nil
}

// Save writes the run and its per-file results in one transaction, creating the tables on first use.
func (s *MySQLStorage) Save(ctx context.Context, run *domain.SuiteRun) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping results database: %w", err)
	}
	for _, stmt := range mysqlSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create results schema: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stats := run.Stats()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO cruxtest_runs (run_id, executable, started_at, duration_ms, workers, total, passed, failed, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Executable, run.StartedAt.UTC(), run.Duration.Milliseconds(), run.Workers,
		stats.Total, stats.Passed, stats.Failed, stats.Skipped)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO cruxtest_results (run_id, file_index, file_path, status, exit_code, timed_out, duration_ms, output, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer insert.Close()

	for _, res := range run.Results {
		rec := RecordFromResult(res)
		if _, err := insert.ExecContext(ctx,
			run.ID, res.Index, rec.FilePath, string(rec.Status), rec.ExitCode, rec.TimedOut,
			res.Duration.Milliseconds(), rec.Output, rec.Error); err != nil {
			return fmt.Errorf("insert result %s: %w", rec.FilePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	ctxlog.FromContext(ctx).Debug("saved run to results database", "run_id", run.ID, "files", len(run.Results))
	return nil
}

// Close releases the connection pool
func (s *MySQLStorage) Close() error {
	return s.db.Close()
}
