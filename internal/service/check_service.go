package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/locvowork/transtool/internal/dictionary"
	"github.com/locvowork/transtool/internal/domain"
	"github.com/locvowork/transtool/internal/logger"
	"github.com/locvowork/transtool/pkg/checker"
	"github.com/locvowork/transtool/pkg/xlsxdoc"
)

const (
	DefaultRunsLimit = 20
	MaxRunsLimit     = 100
)

var ErrNotLoaded = errors.New("dictionaries not loaded")

// CheckRequest is one workbook to annotate.
type CheckRequest struct {
	ProjectID string
	FileName  string
	Config    checker.Config
	File      io.Reader
}

// CheckResult holds the annotated workbook.
type CheckResult struct {
	FileName string
	Content  []byte
	Report   *checker.Report
	Run      domain.CheckRun
}

type ProjectInfo struct {
	Project         dictionary.Project `json:"project"`
	ErrDictVersion  string             `json:"errDictVersion"`
	TermDictVersion string             `json:"termDictVersion"`
}

type CheckService interface {
	Check(ctx context.Context, req CheckRequest) (*CheckResult, error)
	Reload(ctx context.Context) (*dictionary.Snapshot, error)
	Projects(ctx context.Context) (dictionary.OrderedMap[dictionary.Project], error)
	ProjectIDs(ctx context.Context) []string
	ProjectInfo(ctx context.Context, id string) (*ProjectInfo, error)
	RecentRuns(ctx context.Context, id string, limit int) ([]domain.CheckRun, error)
}

type checkService struct {
	store *dictionary.Store
	runs  domain.CheckRunRepository
	now   func() time.Time
}

func NewCheckService(store *dictionary.Store, runs domain.CheckRunRepository) CheckService {
	return &checkService{store: store, runs: runs, now: time.Now}
}

func (s *checkService) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	if _, err := req.Config.Validate(); err != nil {
		return nil, err
	}

	pb, err := s.bundle(req.ProjectID)
	if err != nil {
		return nil, err
	}

	start := s.now()
	doc, err := xlsxdoc.Open(req.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", checker.ErrMalformedDocument, err)
	}
	defer doc.Close()

	report, err := checker.NewEngine(pb.Bundle).Process(doc, req.Config)
	if err != nil {
		return nil, err
	}

	content, err := doc.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	run := domain.CheckRun{
		ProjectID:     req.ProjectID,
		Mode:          string(req.Config.Mode),
		FileName:      req.FileName,
		Sheets:        report.Sheets,
		RowsScanned:   report.RowsScanned,
		RowsAnnotated: report.RowsAnnotated,
		Hints:         report.Hints,
		DurationMs:    s.now().Sub(start).Milliseconds(),
		CreatedAt:     start,
	}
	if err := s.runs.Create(ctx, &run); err != nil {
		logger.WarnLog(ctx, "record check run for %s: %v", req.ProjectID, err)
	}

	logger.InfoLog(ctx, "checked %s project=%s mode=%s rows=%d hints=%d",
		req.FileName, req.ProjectID, req.Config.Mode, report.RowsScanned, report.Hints)

	return &CheckResult{
		FileName: OutputFileName(req.FileName),
		Content:  content,
		Report:   report,
		Run:      run,
	}, nil
}

func (s *checkService) Reload(ctx context.Context) (*dictionary.Snapshot, error) {
	snap, err := s.store.Reload()
	if err != nil {
		logger.ErrorLog(ctx, "reload dictionaries from %s: %v", s.store.Dir(), err)
		return nil, err
	}
	logger.InfoLog(ctx, "reloaded %d projects", len(snap.Projects))
	return snap, nil
}

func (s *checkService) Projects(ctx context.Context) (dictionary.OrderedMap[dictionary.Project], error) {
	snap := s.store.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.Projects, nil
}

func (s *checkService) ProjectIDs(ctx context.Context) []string {
	snap := s.store.Snapshot()
	if snap == nil {
		return []string{}
	}
	return snap.ProjectIDs()
}

func (s *checkService) ProjectInfo(ctx context.Context, id string) (*ProjectInfo, error) {
	pb, err := s.bundle(id)
	if err != nil {
		return nil, err
	}
	return &ProjectInfo{
		Project:         pb.Project,
		ErrDictVersion:  pb.ErrDictVersion,
		TermDictVersion: pb.TermDictVersion,
	}, nil
}

func (s *checkService) RecentRuns(ctx context.Context, id string, limit int) ([]domain.CheckRun, error) {
	snap := s.store.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	if _, ok := snap.Project(id); !ok {
		return nil, fmt.Errorf("%w: %s", dictionary.ErrUnknownProject, id)
	}

	if limit <= 0 {
		limit = DefaultRunsLimit
	}
	if limit > MaxRunsLimit {
		limit = MaxRunsLimit
	}
	return s.runs.ListRecent(ctx, id, limit)
}

func (s *checkService) bundle(id string) (*dictionary.ProjectBundle, error) {
	snap := s.store.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.Bundle(id)
}

// OutputFileName returns the download name "checked_<base>.xlsx" for an uploaded
// file name, dropping directories and characters unsafe in a file name.
func OutputFileName(uploaded string) string {
	return "checked_" + SanitizeFileName(uploaded) + ".xlsx"
}

// SanitizeFileName returns the base name without extension, with path
// separators, control characters and reserved characters replaced by '_'.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))

	name = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r), strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		case unicode.IsSpace(r):
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "._")
	if name == "" {
		return "workbook"
	}
	return name
}
