package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/locvowork/transtool/internal/dictionary"
	"github.com/locvowork/transtool/internal/logger"
	"github.com/locvowork/transtool/internal/repository"
	"github.com/locvowork/transtool/internal/service"
	"github.com/locvowork/transtool/pkg/checker"
	"github.com/locvowork/transtool/pkg/dataflow"
	"github.com/spf13/cobra"
)

type checkOptions struct {
	dataDir string
	project string
	outDir  string
	workers int
	config  checker.Config
}

func newCheckCmd() *cobra.Command {
	opts := checkOptions{}
	var mode string

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Annotate .xlsx files and write checked_<name>.xlsx copies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.config.Mode = checker.Mode(mode)
			return runCheck(cmd.Context(), opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.dataDir, "data-dir", "data", "Directory holding projects.json, errDict.json and term dictionaries")
	f.StringVarP(&opts.project, "project", "p", "", "Project ID")
	f.StringVar(&mode, "mode", string(checker.ModeCommon), "Check mode: common or spec")
	f.StringVar(&opts.config.InputColumn, "input-col", "", "Column holding the translated text (A-Z)")
	f.StringVar(&opts.config.OutputColumn1, "output-col1", "", "Error column (common) or terminology column (spec)")
	f.StringVar(&opts.config.OutputColumn2, "output-col2", "", "Warning column (common mode only)")
	f.BoolVar(&opts.config.CheckAllSheets, "all-sheets", false, "Check every sheet instead of only the first")
	f.BoolVar(&opts.config.IncludeMistranslationHints, "transhint", false, "Append mistranslation hints (spec mode only)")
	f.StringVarP(&opts.outDir, "out-dir", "o", "", "Output directory (default: next to each input)")
	f.IntVarP(&opts.workers, "workers", "w", 4, "Files processed concurrently")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("input-col")
	_ = cmd.MarkFlagRequired("output-col1")

	return cmd
}

// fileError ties a failure to its input file.
type fileError struct {
	Path string
	Err  error
}

func (e *fileError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *fileError) Unwrap() error { return e.Err }

type fileResult struct {
	input  string
	output string
	report *checker.Report
}

func runCheck(ctx context.Context, opts checkOptions, files []string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := opts.config.Validate(); err != nil {
		return err
	}

	store, err := dictionary.Load(opts.dataDir)
	if err != nil {
		return err
	}
	svc := service.NewCheckService(store, repository.NewNopCheckRunRepository())
	if _, err := svc.ProjectInfo(ctx, opts.project); err != nil {
		return err
	}
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return err
		}
	}

	var (
		mu       sync.Mutex
		failures []*fileError
	)

	items := make([]interface{}, len(files))
	for i, f := range files {
		items[i] = f
	}

	results := dataflow.Map(ctx, dataflow.From(ctx, items...), func(v interface{}) (interface{}, error) {
		return checkFile(ctx, svc, opts, v.(string))
	},
		dataflow.WithWorkers(opts.workers),
		dataflow.WithErrorHandler(func(err error) bool {
			fe, ok := err.(*fileError)
			if !ok {
				fe = &fileError{Path: "?", Err: err}
			}
			mu.Lock()
			failures = append(failures, fe)
			mu.Unlock()
			fmt.Fprintf(stderr, "FAIL %s\n", fe)
			return true
		}),
	)

	err = dataflow.ForEach(ctx, results, func(v interface{}) error {
		r := v.(fileResult)
		fmt.Fprintf(stdout, "OK   %s -> %s (sheets=%d rows=%d annotated=%d hints=%d)\n",
			r.input, r.output, len(r.report.Sheets), r.report.RowsScanned, r.report.RowsAnnotated, r.report.Hints)
		return nil
	})
	if err != nil {
		return err
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d files failed", len(failures), len(files))
	}
	return nil
}

func checkFile(ctx context.Context, svc service.CheckService, opts checkOptions, path string) (interface{}, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, &fileError{Path: path, Err: err}
	}
	defer src.Close()

	res, err := svc.Check(ctx, service.CheckRequest{
		ProjectID: opts.project,
		FileName:  filepath.Base(path),
		Config:    opts.config,
		File:      src,
	})
	if err != nil {
		return nil, &fileError{Path: path, Err: err}
	}

	dir := opts.outDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	out := filepath.Join(dir, res.FileName)
	if err := os.WriteFile(out, res.Content, 0o644); err != nil {
		return nil, &fileError{Path: path, Err: err}
	}
	logger.DebugLog(ctx, "wrote %s", out)

	return fileResult{input: path, output: out, report: res.Report}, nil
}
