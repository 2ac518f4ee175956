package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type envConfig struct {
	APP_PORT      string
	LOG_FILE_PATH string
	LOG_LEVEL     string

	// DATA_DIR holds projects.json, errDict.json and the term dictionaries.
	DATA_DIR         string
	MAX_FILE_SIZE_MB int

	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_MAX_OPEN_CONNS    int
	DB_MAX_IDLE_CONNS    int
	DB_CONN_MAX_LIFETIME time.Duration

	GCP_PROJECT_ID string
}

// DefaultEnvConfig is filled by LoadEnvConfig.
var DefaultEnvConfig = defaults()

func defaults() envConfig {
	return envConfig{
		APP_PORT:             "5000",
		LOG_LEVEL:            "info",
		DATA_DIR:             "data",
		MAX_FILE_SIZE_MB:     10,
		DB_PORT:              5432,
		DB_SSL_MODE:          "disable",
		DB_MAX_OPEN_CONNS:    10,
		DB_MAX_IDLE_CONNS:    5,
		DB_CONN_MAX_LIFETIME: 30 * time.Minute,
	}
}

// LoadEnvConfig loads .env (if present) and then reads the process environment.
func LoadEnvConfig(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}

	cfg := defaults()
	var err error

	cfg.APP_PORT = getString("APP_PORT", cfg.APP_PORT)
	cfg.LOG_FILE_PATH = getString("LOG_FILE_PATH", cfg.LOG_FILE_PATH)
	cfg.LOG_LEVEL = getString("LOG_LEVEL", cfg.LOG_LEVEL)
	cfg.DATA_DIR = getString("DATA_DIR", cfg.DATA_DIR)
	if cfg.MAX_FILE_SIZE_MB, err = getInt("MAX_FILE_SIZE_MB", cfg.MAX_FILE_SIZE_MB); err != nil {
		return err
	}

	cfg.DB_HOST = getString("DB_HOST", cfg.DB_HOST)
	if cfg.DB_PORT, err = getInt("DB_PORT", cfg.DB_PORT); err != nil {
		return err
	}
	cfg.DB_USER = getString("DB_USER", cfg.DB_USER)
	cfg.DB_PASSWORD = getString("DB_PASSWORD", cfg.DB_PASSWORD)
	cfg.DB_NAME = getString("DB_NAME", cfg.DB_NAME)
	cfg.DB_SSL_MODE = getString("DB_SSL_MODE", cfg.DB_SSL_MODE)
	if cfg.DB_MAX_OPEN_CONNS, err = getInt("DB_MAX_OPEN_CONNS", cfg.DB_MAX_OPEN_CONNS); err != nil {
		return err
	}
	if cfg.DB_MAX_IDLE_CONNS, err = getInt("DB_MAX_IDLE_CONNS", cfg.DB_MAX_IDLE_CONNS); err != nil {
		return err
	}
	if v := os.Getenv("DB_CONN_MAX_LIFETIME"); v != "" {
		if cfg.DB_CONN_MAX_LIFETIME, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
		}
	}

	cfg.GCP_PROJECT_ID = getString("GCP_PROJECT_ID", cfg.GCP_PROJECT_ID)

	if cfg.MAX_FILE_SIZE_MB <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be positive, got %d", cfg.MAX_FILE_SIZE_MB)
	}

	DefaultEnvConfig = cfg
	return nil
}

// MaxFileSize is the upload limit in bytes.
func (c envConfig) MaxFileSize() int64 {
	return int64(c.MAX_FILE_SIZE_MB) * 1024 * 1024
}

// FileSizeErrorMsg is returned when an uploaded file exceeds the limit.
func (c envConfig) FileSizeErrorMsg(actualBytes int64) string {
	return fmt.Sprintf("文件過大（%.1fMB），建議小於 %dMB", float64(actualBytes)/1024/1024, c.MAX_FILE_SIZE_MB)
}

// UploadSizeLimitMsg is returned when the request body exceeds the limit.
func (c envConfig) UploadSizeLimitMsg() string {
	return fmt.Sprintf("文件過大，建議小於 %dMB", c.MAX_FILE_SIZE_MB)
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
