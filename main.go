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
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
		os.Exit(1)
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
		logger.ErrorLog(ctx, "Application failed: %v", err)
		os.Exit(1)
	}
}
