package googlecloud

import (
	"time"
)

// ProjectGroup is the ancestor of all runs for one dictionary project.
type ProjectGroup struct {
	ID        string    `datastore:"-" json:"id"` // Key Name
	UpdatedAt time.Time `datastore:"updated_at" json:"updated_at"`
}

// CheckRun is a stored check summary.
type CheckRun struct {
	ID            int64     `datastore:"-" json:"id"` // Key ID (auto-generated)
	Mode          string    `datastore:"mode" json:"mode"`
	FileName      string    `datastore:"file_name,noindex" json:"file_name"`
	Sheets        []string  `datastore:"sheets,noindex" json:"sheets"`
	RowsScanned   int       `datastore:"rows_scanned,noindex" json:"rows_scanned"`
	RowsAnnotated int       `datastore:"rows_annotated,noindex" json:"rows_annotated"`
	Hints         int       `datastore:"hints,noindex" json:"hints"`
	DurationMs    int64     `datastore:"duration_ms,noindex" json:"duration_ms"`
	CreatedAt     time.Time `datastore:"created_at" json:"created_at"`

	// ProjectID mirrors the ancestor key name.
	ProjectID string `datastore:"-" json:"project_id"`
}
