package dataflow

import (
	"time"
)

// Option configures a stage.
type Option func(*stageConfig)

type stageConfig struct {
	workers    int
	bufferSize int
	maxRetries int
	backoff    func(attempt int) time.Duration
	// errorHandler sees an item's final error. true skips the item, false
	// forwards the error to the sink. nil drops failed items silently.
	errorHandler func(error) bool
}

func newStageConfig(opts []Option) *stageConfig {
	cfg := &stageConfig{workers: 1}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithWorkers sets the number of goroutines running the stage function.
func WithWorkers(n int) Option {
	return func(c *stageConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithBufferSize sets the capacity of the stage's output channel.
func WithBufferSize(n int) Option {
	return func(c *stageConfig) {
		if n >= 0 {
			c.bufferSize = n
		}
	}
}

// WithRetry retries a failing item up to maxRetries more times, waiting
// backoff(attempt) before attempt 1..maxRetries.
func WithRetry(maxRetries int, backoff func(attempt int) time.Duration) Option {
	return func(c *stageConfig) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
		c.backoff = backoff
	}
}

// WithErrorHandler sets a handler for items that still fail after retries.
// Returning true skips the item; returning false makes ForEach return the error.
func WithErrorHandler(h func(error) bool) Option {
	return func(c *stageConfig) {
		c.errorHandler = h
	}
}

func ConstantBackoff(d time.Duration) func(int) time.Duration {
	return func(int) time.Duration { return d }
}

// ExponentialBackoff doubles initial for every attempt after the first, capped at one minute.
func ExponentialBackoff(initial time.Duration) func(int) time.Duration {
	const ceiling = time.Minute
	return func(attempt int) time.Duration {
		d := initial
		for i := 1; i < attempt && d < ceiling; i++ {
			d *= 2
		}
		if d > ceiling {
			d = ceiling
		}
		return d
	}
}
