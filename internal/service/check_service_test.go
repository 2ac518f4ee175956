package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/locvowork/transtool/internal/dictionary"
	"github.com/locvowork/transtool/internal/domain"
	"github.com/locvowork/transtool/pkg/checker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type memoryRuns struct {
	mu   sync.Mutex
	runs []domain.CheckRun
	err  error
}

func (m *memoryRuns) Create(_ context.Context, run *domain.CheckRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	run.ID = int64(len(m.runs) + 1)
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memoryRuns) ListRecent(_ context.Context, projectID string, limit int) ([]domain.CheckRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CheckRun
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.runs[i].ProjectID == projectID {
			out = append(out, m.runs[i])
		}
	}
	return out, nil
}

func newTestStore(t *testing.T) *dictionary.Store {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"projects.json": `{"projects": {"game": {"name": "Game", "tags": ["game"]}, "nodict": {"name": "No dict", "tags": []}}}`,
		"errDict.json": `{"version": "e1", "err": {"登錄": {"fix": "登入", "tags": []}},
			"warn": {"的地": "的/地 用法"}, "repeat": ["哈"], "transhint": {"納期": "交期"}}`,
		"termDict_game.json": `{"version": "t1", "word": [{"ja": "見積", "zh": "報價"}]}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	store, err := dictionary.Load(dir)
	require.NoError(t, err)
	return store
}

func workbook(t *testing.T, texts ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "原文")
	for i, text := range texts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		f.SetCellValue("Sheet1", cell, text)
	}
	buf := new(bytes.Buffer)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestCheckService_Check(t *testing.T) {
	runs := &memoryRuns{}
	svc := NewCheckService(newTestStore(t), runs)
	ctx := context.Background()

	res, err := svc.Check(ctx, CheckRequest{
		ProjectID: "game",
		FileName:  "strings v1.xlsx",
		File:      bytes.NewReader(workbook(t, "請先登錄", "正常", "哈哈好好")),
		Config: checker.Config{
			Mode:          checker.ModeCommon,
			InputColumn:   "A",
			OutputColumn1: "B",
			OutputColumn2: "C",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "checked_strings_v1.xlsx", res.FileName)
	assert.Equal(t, []string{"Sheet1"}, res.Report.Sheets)
	assert.Equal(t, 3, res.Report.RowsScanned)
	assert.Equal(t, 2, res.Report.RowsAnnotated)

	f, err := excelize.OpenReader(bytes.NewReader(res.Content))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Sheet1", "B2")
	require.NoError(t, err)
	assert.Equal(t, "登錄→登入", v)
	v, err = f.GetCellValue("Sheet1", "C4")
	require.NoError(t, err)
	assert.Equal(t, "出現疊字 好", v)

	require.Len(t, runs.runs, 1)
	assert.Equal(t, "game", runs.runs[0].ProjectID)
	assert.Equal(t, "common", runs.runs[0].Mode)
	assert.Equal(t, "strings v1.xlsx", runs.runs[0].FileName)
	assert.Equal(t, int64(1), res.Run.ID)
}

func TestCheckService_CheckErrors(t *testing.T) {
	svc := NewCheckService(newTestStore(t), &memoryRuns{})
	ctx := context.Background()
	valid := checker.Config{Mode: checker.ModeSpec, InputColumn: "A", OutputColumn1: "B"}

	_, err := svc.Check(ctx, CheckRequest{ProjectID: "missing", File: bytes.NewReader(workbook(t)), Config: valid})
	assert.ErrorIs(t, err, dictionary.ErrUnknownProject)

	_, err = svc.Check(ctx, CheckRequest{ProjectID: "game", File: bytes.NewReader(workbook(t)),
		Config: checker.Config{Mode: checker.ModeSpec, InputColumn: "AA", OutputColumn1: "B"}})
	assert.ErrorIs(t, err, checker.ErrInvalidConfiguration)

	_, err = svc.Check(ctx, CheckRequest{ProjectID: "game", File: bytes.NewReader([]byte("not a zip")), Config: valid})
	assert.ErrorIs(t, err, checker.ErrMalformedDocument)

	// nodict has no termDict_nodict.json
	_, err = svc.Check(ctx, CheckRequest{ProjectID: "nodict", File: bytes.NewReader(workbook(t)), Config: valid})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, dictionary.ErrUnknownProject)
}

func TestCheckService_RecorderFailureIsNotFatal(t *testing.T) {
	svc := NewCheckService(newTestStore(t), &memoryRuns{err: errors.New("db down")})

	res, err := svc.Check(context.Background(), CheckRequest{
		ProjectID: "game",
		FileName:  "a.xlsx",
		File:      bytes.NewReader(workbook(t, "見積の確認")),
		Config:    checker.Config{Mode: checker.ModeSpec, InputColumn: "A", OutputColumn1: "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Report.Hints)
}

func TestCheckService_Projects(t *testing.T) {
	runs := &memoryRuns{}
	svc := NewCheckService(newTestStore(t), runs)
	ctx := context.Background()

	assert.Equal(t, []string{"game", "nodict"}, svc.ProjectIDs(ctx))

	projects, err := svc.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"game", "nodict"}, projects.Keys())

	info, err := svc.ProjectInfo(ctx, "game")
	require.NoError(t, err)
	assert.Equal(t, "Game", info.Project.Name)
	assert.Equal(t, "e1", info.ErrDictVersion)
	assert.Equal(t, "t1", info.TermDictVersion)

	_, err = svc.ProjectInfo(ctx, "missing")
	assert.ErrorIs(t, err, dictionary.ErrUnknownProject)

	for i := 0; i < 3; i++ {
		require.NoError(t, runs.Create(ctx, &domain.CheckRun{ProjectID: "game"}))
	}
	recent, err := svc.RecentRuns(ctx, "game", 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	_, err = svc.RecentRuns(ctx, "missing", 0)
	assert.ErrorIs(t, err, dictionary.ErrUnknownProject)

	snap, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Projects, 2)
}

func TestCheckService_NotLoaded(t *testing.T) {
	svc := NewCheckService(dictionary.NewStore(t.TempDir()), &memoryRuns{})
	ctx := context.Background()

	assert.Empty(t, svc.ProjectIDs(ctx))
	_, err := svc.Projects(ctx)
	assert.ErrorIs(t, err, ErrNotLoaded)

	_, err = svc.Reload(ctx)
	assert.Error(t, err)
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"report.xlsx", "report"},
		{"../../etc/passwd.xlsx", "passwd"},
		{`C:\Users\me\翻譯 表.xlsx`, "翻譯_表"},
		{"a:b*c?.xlsx", "a_b_c"},
		{".xlsx", "workbook"},
		{"", "workbook"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.in))
		})
	}
	assert.Equal(t, "checked_report.xlsx", OutputFileName("report.xlsx"))
}
