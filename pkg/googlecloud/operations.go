package googlecloud

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"
)

const (
	KindProject  = "Project"
	KindCheckRun = "CheckRun"
)

// CreateCheckRun stores run under its project and touches the project entity
// in one transaction.
func (c *Client) CreateCheckRun(ctx context.Context, run *CheckRun) error {
	if run.ProjectID == "" {
		return fmt.Errorf("%w: project ID cannot be empty", ErrInvalidKey)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	parentKey := datastore.NameKey(KindProject, run.ProjectID, nil)
	var pending *datastore.PendingKey
	commit, err := c.ds.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		group := ProjectGroup{ID: run.ProjectID, UpdatedAt: run.CreatedAt}
		if _, err := tx.Put(parentKey, &group); err != nil {
			return err
		}
		var err error
		pending, err = tx.Put(datastore.IncompleteKey(KindCheckRun, parentKey), run)
		return err
	})
	if err != nil {
		return WrapDatastoreError(err)
	}

	run.ID = commit.Key(pending).ID
	return nil
}

// ListCheckRuns returns the newest runs of a project using an ancestor query.
func (c *Client) ListCheckRuns(ctx context.Context, projectID string, limit int) ([]CheckRun, error) {
	parentKey := datastore.NameKey(KindProject, projectID, nil)
	query := datastore.NewQuery(KindCheckRun).Ancestor(parentKey).Order("-created_at")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var runs []CheckRun
	keys, err := c.ds.GetAll(ctx, query, &runs)
	if err != nil {
		return nil, WrapDatastoreError(err)
	}

	for i, key := range keys {
		runs[i].ID = key.ID
		runs[i].ProjectID = projectID
	}
	return runs, nil
}

// DeleteCheckRun removes a single run.
func (c *Client) DeleteCheckRun(ctx context.Context, projectID string, id int64) error {
	parentKey := datastore.NameKey(KindProject, projectID, nil)
	return WrapDatastoreError(c.ds.Delete(ctx, datastore.IDKey(KindCheckRun, id, parentKey)))
}
