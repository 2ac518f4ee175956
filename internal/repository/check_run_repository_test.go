package repository

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/locvowork/transtool/internal/database"
	"github.com/locvowork/transtool/internal/domain"
	"github.com/locvowork/transtool/pkg/googlecloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopCheckRunRepository(t *testing.T) {
	repo := NewNopCheckRunRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.CheckRun{ProjectID: "p"}))
	runs, err := repo.ListRecent(ctx, "p", 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestEntityConversion(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	run := &domain.CheckRun{
		ProjectID: "game", Mode: "spec", FileName: "a.xlsx",
		Sheets: []string{"S1", "S2"}, RowsScanned: 5, RowsAnnotated: 2, Hints: 3,
		DurationMs: 12, CreatedAt: now,
	}

	e := toEntity(run)
	e.ID = 42
	back := fromEntity(*e)

	want := *run
	want.ID = 42
	assert.Equal(t, want, back)
}

// Runs against a real database when TEST_DB_HOST is set.
func TestCheckRunRepository_Postgres(t *testing.T) {
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set")
	}
	port, _ := strconv.Atoi(os.Getenv("TEST_DB_PORT"))
	if port == 0 {
		port = 5432
	}

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, database.Config{
		Host:     host,
		Port:     port,
		User:     os.Getenv("TEST_DB_USER"),
		Password: os.Getenv("TEST_DB_PASSWORD"),
		DBName:   os.Getenv("TEST_DB_NAME"),
		SSLMode:  "disable",
	})
	require.NoError(t, err)
	defer db.Close()

	project := "test-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	defer db.ExecContext(ctx, "DELETE FROM check_runs WHERE project_id = $1", project)

	repo := NewCheckRunRepository(db)
	first := &domain.CheckRun{ProjectID: project, Mode: "common", FileName: "a.xlsx", Sheets: []string{"S1"}, CreatedAt: time.Now().Add(-time.Minute)}
	second := &domain.CheckRun{ProjectID: project, Mode: "spec", FileName: "b.xlsx", Sheets: []string{"S1", "S2"}, Hints: 4}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.NotZero(t, first.ID)

	runs, err := repo.ListRecent(ctx, project, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b.xlsx", runs[0].FileName)
	assert.Equal(t, []string{"S1", "S2"}, runs[0].Sheets)
	assert.Equal(t, 4, runs[0].Hints)

	runs, err = repo.ListRecent(ctx, project, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

// Runs against the Datastore emulator when DATASTORE_EMULATOR_HOST is set.
func TestCheckRunRepository_Datastore(t *testing.T) {
	if os.Getenv("DATASTORE_EMULATOR_HOST") == "" {
		t.Skip("DATASTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := googlecloud.NewClient(ctx, "transtool-test")
	require.NoError(t, err)
	defer client.Close()

	project := "test-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	repo := NewDatastoreCheckRunRepository(client)

	run := &domain.CheckRun{ProjectID: project, Mode: "common", FileName: "a.xlsx", Sheets: []string{"S1"}, Hints: 2}
	require.NoError(t, repo.Create(ctx, run))
	assert.NotZero(t, run.ID)
	defer client.DeleteCheckRun(ctx, project, run.ID)

	runs, err := repo.ListRecent(ctx, project, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, project, runs[0].ProjectID)
	assert.Equal(t, 2, runs[0].Hints)
}
