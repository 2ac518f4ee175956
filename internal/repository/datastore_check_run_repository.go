package repository

import (
	"context"

	"github.com/locvowork/transtool/internal/domain"
	"github.com/locvowork/transtool/pkg/googlecloud"
)

type datastoreCheckRunRepository struct {
	client *googlecloud.Client
	retry  googlecloud.RetryConfig
}

// NewDatastoreCheckRunRepository stores runs as CheckRun entities under a
// Project ancestor.
func NewDatastoreCheckRunRepository(client *googlecloud.Client) domain.CheckRunRepository {
	return &datastoreCheckRunRepository{client: client, retry: googlecloud.DefaultRetryConfig()}
}

func (r *datastoreCheckRunRepository) Create(ctx context.Context, run *domain.CheckRun) error {
	entity := toEntity(run)
	err := googlecloud.WithRetry(ctx, r.retry, func() error {
		return r.client.CreateCheckRun(ctx, entity)
	})
	if err != nil {
		return err
	}
	run.ID = entity.ID
	run.CreatedAt = entity.CreatedAt
	return nil
}

func (r *datastoreCheckRunRepository) ListRecent(ctx context.Context, projectID string, limit int) ([]domain.CheckRun, error) {
	var entities []googlecloud.CheckRun
	err := googlecloud.WithRetry(ctx, r.retry, func() error {
		var err error
		entities, err = r.client.ListCheckRuns(ctx, projectID, limit)
		return err
	})
	if err != nil {
		return nil, err
	}

	runs := make([]domain.CheckRun, 0, len(entities))
	for _, e := range entities {
		runs = append(runs, fromEntity(e))
	}
	return runs, nil
}

func toEntity(run *domain.CheckRun) *googlecloud.CheckRun {
	return &googlecloud.CheckRun{
		ProjectID:     run.ProjectID,
		Mode:          run.Mode,
		FileName:      run.FileName,
		Sheets:        run.Sheets,
		RowsScanned:   run.RowsScanned,
		RowsAnnotated: run.RowsAnnotated,
		Hints:         run.Hints,
		DurationMs:    run.DurationMs,
		CreatedAt:     run.CreatedAt,
	}
}

func fromEntity(e googlecloud.CheckRun) domain.CheckRun {
	return domain.CheckRun{
		ID:            e.ID,
		ProjectID:     e.ProjectID,
		Mode:          e.Mode,
		FileName:      e.FileName,
		Sheets:        e.Sheets,
		RowsScanned:   e.RowsScanned,
		RowsAnnotated: e.RowsAnnotated,
		Hints:         e.Hints,
		DurationMs:    e.DurationMs,
		CreatedAt:     e.CreatedAt,
	}
}
