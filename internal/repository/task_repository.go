package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sonnyholman/novusedge/internal/apperrors"
	"github.com/sonnyholman/novusedge/internal/model"
)

// TaskRepository provides data access methods for the task_metadata table,
// which records the last successful run of each background task.
type TaskRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTaskRepository creates a new TaskRepository with the provided database connection.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *TaskRepository) WithTx(tx *sql.Tx) *TaskRepository {
	return &TaskRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TaskRepository) getQuerier() interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetLastRun retrieves the last recorded run of the named task.
func (r *TaskRepository) GetLastRun(ctx context.Context, taskName string) (model.TaskRun, error) {
	var t model.TaskRun
	var lastRunStr string

	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT task_name, last_run FROM task_metadata WHERE task_name = ?`,
		taskName,
	).Scan(&t.TaskName, &lastRunStr)
	if err == sql.ErrNoRows {
		return model.TaskRun{}, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return model.TaskRun{}, fmt.Errorf("failed to query task_metadata table: %w", err)
	}

	if t.LastRun, err = ParseTime(lastRunStr); err != nil {
		return model.TaskRun{}, err
	}
	return t, nil
}

// RecordRun upserts the last-run timestamp for the named task.
func (r *TaskRepository) RecordRun(ctx context.Context, taskName string, lastRun time.Time) error {
	query := `
		INSERT INTO task_metadata (task_name, last_run) VALUES (?, ?)
		ON CONFLICT(task_name) DO UPDATE SET last_run = excluded.last_run
	`

	_, err := r.getQuerier().ExecContext(ctx, query, taskName, lastRun.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record task run: %w", err)
	}
	return nil
}
