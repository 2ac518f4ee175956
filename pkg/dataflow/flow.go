// Package dataflow provides small channel-based stages with worker pools and retries.
package dataflow

import (
	"context"
	"sync"
	"time"
)

// errItem carries an unhandled stage error downstream to the sink.
type errItem struct {
	err error
}

// From emits items on a channel and closes it when done or when ctx is cancelled.
func From(ctx context.Context, items ...interface{}) <-chan interface{} {
	out := make(chan interface{})
	go func() {
		defer close(out)
		for _, item := range items {
			select {
			case out <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Map applies fn to every item using the configured workers. Output order is
// only preserved with a single worker.
func Map(ctx context.Context, in <-chan interface{}, fn func(interface{}) (interface{}, error), opts ...Option) <-chan interface{} {
	cfg := newStageConfig(opts)
	out := make(chan interface{}, cfg.bufferSize)
	var wg sync.WaitGroup
	wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go func() {
			defer wg.Done()
			for item := range in {
				if e, ok := item.(errItem); ok {
					if !send(ctx, out, e) {
						return
					}
					continue
				}

				res, err := runWithRetry(ctx, cfg, item, fn)
				if err != nil {
					if cfg.errorHandler == nil || cfg.errorHandler(err) {
						continue
					}
					res = errItem{err: err}
				}
				if !send(ctx, out, res) {
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// ForEach drains in, calling fn for each item. It stops at the first error
// from fn or from an upstream stage; callers should cancel ctx afterwards to
// release upstream workers.
func ForEach(ctx context.Context, in <-chan interface{}, fn func(interface{}) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case item, ok := <-in:
			if !ok {
				return nil
			}
			if e, isErr := item.(errItem); isErr {
				return e.err
			}
			if err := fn(item); err != nil {
				return err
			}
		}
	}
}

func runWithRetry(ctx context.Context, cfg *stageConfig, item interface{}, fn func(interface{}) (interface{}, error)) (interface{}, error) {
	var (
		res interface{}
		err error
	)
	for attempt := 0; attempt <= cfg.maxRetries; attempt++ {
		if attempt > 0 && cfg.backoff != nil {
			timer := time.NewTimer(cfg.backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
		res, err = fn(item)
		if err == nil {
			return res, nil
		}
	}
	return nil, err
}

func send(ctx context.Context, out chan<- interface{}, v interface{}) bool {
	select {
	case out <- v:
		return true
	case <-ctx.Done():
		return false
	}
}
