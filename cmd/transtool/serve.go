package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/locvowork/transtool/internal/bootstrap"
	"github.com/locvowork/transtool/internal/logger"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app := bootstrap.NewApp(envFiles...)
			if err := app.Initialize(ctx); err != nil {
				return err
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := app.Shutdown(shutdownCtx); err != nil {
					logger.ErrorLog(shutdownCtx, "Shutdown failed: %v", err)
				}
			}()

			if err := app.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "Env files to load (default: .env)")
	return cmd
}
