// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package parallel distributes a pure function over a list of items, on a bounded pool of workers.
//
// Example: computing one kernel per node with 4 workers and a progress bar:
//
//	cfg := parallel.Config{Workers: 4, ProgressLabel: "kernels"}
//	kernels, err := parallel.Map(cfg, computeKernel, graph, nodes)
//
// The results are always returned in the order of the items, and are the same as running the function
// sequentially, provided it doesn't share mutable state between items.
package parallel

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/sparse/internal/workerspool"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

// Func computes the result for one item. The inputs are shared by all items and must not be modified.
type Func[In, Item, Out any] func(inputs In, item Item) (Out, error)

// WorkerError is returned by Map when the function fails (returns an error or panics) for an item.
// It carries the failing item and the underlying cause, accessible with errors.Unwrap.
type WorkerError struct {
	// Index of the failing item.
	Index int

	// Item that failed.
	Item any

	// Err is the error returned by the function, or the recovered panic.
	Err error
}

// Error implements the error interface.
func (e *WorkerError) Error() string {
	return fmt.Sprintf("parallel: item #%d (%v) failed: %v", e.Index, e.Item, e.Err)
}

// Unwrap returns the underlying cause.
func (e *WorkerError) Unwrap() error { return e.Err }

// Map returns [fn(inputs, item) for item in items], in the same order as items.
//
// If cfg resolves to more than one worker and there is more than one item, the items are distributed
// on a pool of at most cfg.NumWorkers() goroutines. Otherwise, they are processed sequentially.
//
// If fn fails for any item, Map returns no results and a *WorkerError with the first failure encountered.
// Items not yet started are not scheduled, but items already running are waited for.
func Map[In, Item, Out any](cfg Config, fn Func[In, Item, Out], inputs In, items []Item) ([]Out, error) {
	return MapContext(context.Background(), cfg, fn, inputs, items)
}

// MapContext is like Map, but it also stops scheduling items when ctx is done, in which case it returns
// ctx.Err().
func MapContext[In, Item, Out any](ctx context.Context, cfg Config, fn Func[In, Item, Out], inputs In, items []Item) ([]Out, error) {
	numWorkers := cfg.NumWorkers()
	if numWorkers < 1 || len(items) <= 1 {
		numWorkers = 1
	}
	if klog.V(1).Enabled() {
		klog.Infof("parallel.Map(%q): %d items, %d workers", cfg.ProgressLabel, len(items), numWorkers)
	}
	bar := newProgressBar(cfg.ProgressLabel, len(items))

	pool := workerspool.New()
	if numWorkers == 1 {
		pool.SetMaxParallelism(0)
	} else {
		pool.SetMaxParallelism(numWorkers)
	}
	results := make([]Out, len(items))
	err := workerspool.Run(ctx, pool, items, func(_ context.Context, task workerspool.Task[Item]) error {
		out, err := call(fn, inputs, task.Item)
		if err != nil {
			return &WorkerError{Index: task.Index, Item: task.Item, Err: err}
		}
		results[task.Index] = out
		if bar != nil {
			_ = bar.Add(1)
		}
		return nil
	})
	if err != nil {
		if bar != nil {
			_ = bar.Exit()
		}
		var workerErr *WorkerError
		if errors.As(err, &workerErr) {
			klog.Warningf("parallel.Map(%q): aborted, %v", cfg.ProgressLabel, workerErr)
		}
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return results, nil
}

// call fn, converting a panic into an error.
func call[In, Item, Out any](fn Func[In, Item, Out], inputs In, item Item) (out Out, err error) {
	exception := exceptions.Try(func() {
		out, err = fn(inputs, item)
	})
	if exception != nil {
		if e, ok := exception.(error); ok {
			return out, errors.WithMessage(e, "panic")
		}
		return out, errors.Errorf("panic: %v", exception)
	}
	return out, err
}

// progressWriter is where progress bars are drawn.
var progressWriter io.Writer = os.Stderr

// newProgressBar returns nil if label is empty.
func newProgressBar(label string, total int) *progressbar.ProgressBar {
	if label == "" {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWriter(progressWriter),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.ThemeUnicode),
	)
}
