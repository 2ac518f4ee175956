package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/transtool/internal/config"
	"github.com/locvowork/transtool/internal/database"
	"github.com/locvowork/transtool/internal/dictionary"
	"github.com/locvowork/transtool/internal/domain"
	"github.com/locvowork/transtool/internal/handler"
	"github.com/locvowork/transtool/internal/logger"
	"github.com/locvowork/transtool/internal/repository"
	"github.com/locvowork/transtool/internal/service"
	"github.com/locvowork/transtool/pkg/googlecloud"
)

type App struct {
	Echo  *echo.Echo
	DB    *sql.DB
	GCP   *googlecloud.Client
	Store *dictionary.Store

	envFiles []string
}

// NewApp creates an app that reads envFiles (default ".env") on Initialize.
func NewApp(envFiles ...string) *App {
	e := echo.New()
	e.HideBanner = true
	return &App{
		Echo:     e,
		envFiles: envFiles,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := config.LoadEnvConfig(a.envFiles...); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH)
	logger.SetLevel(config.DefaultEnvConfig.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	store, err := dictionary.Load(config.DefaultEnvConfig.DATA_DIR)
	if err != nil {
		return fmt.Errorf("failed to load dictionaries from %s: %w", config.DefaultEnvConfig.DATA_DIR, err)
	}
	a.Store = store
	logger.InfoLog(ctx, "Loaded %d projects from %s", len(store.Snapshot().Projects), store.Dir())

	runs, err := a.checkRunRepository(ctx)
	if err != nil {
		return err
	}

	checkSvc := service.NewCheckService(store, runs)
	checkHandler := handler.NewCheckHandler(checkSvc)

	a.RegisterMiddlewares()
	a.RegisterRoutes(checkHandler)

	return nil
}

// checkRunRepository picks Postgres when DB_HOST is set, then Datastore when
// GCP_PROJECT_ID is set, and otherwise discards history.
func (a *App) checkRunRepository(ctx context.Context) (domain.CheckRunRepository, error) {
	cfg := config.DefaultEnvConfig

	if cfg.DB_HOST != "" {
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = db
		logger.InfoLog(ctx, "Recording check runs in postgres %s/%s", cfg.DB_HOST, cfg.DB_NAME)
		return repository.NewCheckRunRepository(db), nil
	}

	if cfg.GCP_PROJECT_ID != "" {
		client, err := googlecloud.NewClient(ctx, cfg.GCP_PROJECT_ID)
		if err != nil {
			// history is optional; keep serving checks without it
			logger.ErrorLog(ctx, "failed to initialize GCP client: %v", err)
			return repository.NewNopCheckRunRepository(), nil
		}
		a.GCP = client
		logger.InfoLog(ctx, "Recording check runs in datastore project %s", cfg.GCP_PROJECT_ID)
		return repository.NewDatastoreCheckRunRepository(client), nil
	}

	logger.WarnLog(ctx, "No DB_HOST or GCP_PROJECT_ID configured; check runs are not recorded")
	return repository.NewNopCheckRunRepository(), nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.HTTPErrorHandler = handler.ErrorHandler
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(handler.RequestContext())
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
	// multipart overhead on top of the file limit; the handler reports exact file sizes
	a.Echo.Use(middleware.BodyLimit(fmt.Sprintf("%dM", config.DefaultEnvConfig.MAX_FILE_SIZE_MB+1)))
}

func (a *App) RegisterRoutes(checkHandler *handler.CheckHandler) {
	api := a.Echo.Group("/api")
	api.GET("/health", checkHandler.HealthHandler)
	api.GET("/projects", checkHandler.ListProjectsHandler)
	api.GET("/project/:id", checkHandler.GetProjectHandler)
	api.GET("/project/:id/runs", checkHandler.ListRunsHandler)
	api.POST("/reload-config", checkHandler.ReloadHandler)
	api.POST("/check", checkHandler.CheckFileHandler)
}

func (a *App) Run() error {
	defer a.Close()
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
	if a.GCP != nil {
		a.GCP.Close()
	}
}
