package domain

import (
	"context"
	"time"
)

// CheckRun records one processed workbook.
type CheckRun struct {
	ID            int64     `json:"id"`
	ProjectID     string    `json:"project_id"`
	Mode          string    `json:"mode"`
	FileName      string    `json:"file_name"`
	Sheets        []string  `json:"sheets"`
	RowsScanned   int       `json:"rows_scanned"`
	RowsAnnotated int       `json:"rows_annotated"`
	Hints         int       `json:"hints"`
	DurationMs    int64     `json:"duration_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

type CheckRunRepository interface {
	Create(ctx context.Context, run *CheckRun) error
	ListRecent(ctx context.Context, projectID string, limit int) ([]CheckRun, error)
}
