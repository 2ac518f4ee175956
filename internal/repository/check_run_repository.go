package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/locvowork/transtool/internal/domain"
)

type checkRunRepository struct {
	db *sql.DB
}

func NewCheckRunRepository(db *sql.DB) domain.CheckRunRepository {
	return &checkRunRepository{db: db}
}

func (r *checkRunRepository) Create(ctx context.Context, run *domain.CheckRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO check_runs (project_id, mode, file_name, sheets, rows_scanned, rows_annotated, hints, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		run.ProjectID, run.Mode, run.FileName, pq.Array(run.Sheets),
		run.RowsScanned, run.RowsAnnotated, run.Hints, run.DurationMs, run.CreatedAt,
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("insert check run: %w", err)
	}
	return nil
}

func (r *checkRunRepository) ListRecent(ctx context.Context, projectID string, limit int) ([]domain.CheckRun, error) {
	query := `
		SELECT id, project_id, mode, file_name, sheets, rows_scanned, rows_annotated, hints, duration_ms, created_at
		FROM check_runs
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("query check runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.CheckRun
	for rows.Next() {
		var run domain.CheckRun
		if err := rows.Scan(
			&run.ID, &run.ProjectID, &run.Mode, &run.FileName, pq.Array(&run.Sheets),
			&run.RowsScanned, &run.RowsAnnotated, &run.Hints, &run.DurationMs, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan check run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type nopCheckRunRepository struct{}

// NewNopCheckRunRepository discards runs; used when no store is configured.
func NewNopCheckRunRepository() domain.CheckRunRepository {
	return nopCheckRunRepository{}
}

func (nopCheckRunRepository) Create(context.Context, *domain.CheckRun) error { return nil }

func (nopCheckRunRepository) ListRecent(context.Context, string, int) ([]domain.CheckRun, error) {
	return []domain.CheckRun{}, nil
}
