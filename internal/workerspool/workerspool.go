// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package workerspool runs indexed tasks on a bounded number of goroutines.
//
// Tasks are plain data (an index and an item) sent over a bounded channel to the workers: the work
// function and its shared inputs are never captured mutable state.
package workerspool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Task is the unit of work sent to a worker: the item at position Index of the input.
type Task[I any] struct {
	Index int
	Item  I
}

// Pool configures how many workers run tasks.
type Pool struct {
	// maxParallelism is the number of worker goroutines.
	// If 0 parallelism is disabled, and if < 0 there is one worker per task.
	maxParallelism int
}

// New returns a new Pool of workers with the default parallelism (runtime.NumCPU()).
func New() *Pool {
	return &Pool{maxParallelism: runtime.NumCPU()}
}

// IsEnabled returns whether parallelism is enabled (maxParallelism is != 0)
func (p *Pool) IsEnabled() bool {
	return p.maxParallelism != 0
}

// IsUnlimited returns whether parallelism is unlimited (maxParallelism < 0)
func (p *Pool) IsUnlimited() bool {
	return p.maxParallelism < 0
}

// MaxParallelism is the number of workers.
// If set to 0 parallelism is disabled and tasks run inline.
// If set to -1 parallelism is unlimited, and there is one worker per task.
func (p *Pool) MaxParallelism() int {
	return p.maxParallelism
}

// SetMaxParallelism sets the maxParallelism.
//
// It returns the Pool itself, so calls can be cascaded.
func (p *Pool) SetMaxParallelism(maxParallelism int) *Pool {
	p.maxParallelism = maxParallelism
	return p
}

// NumWorkers returns how many workers would be started for numTasks tasks.
func (p *Pool) NumWorkers(numTasks int) int {
	switch {
	case !p.IsEnabled():
		return 0
	case p.IsUnlimited():
		return numTasks
	default:
		return min(p.maxParallelism, numTasks)
	}
}

// Run calls work once for each item, as Task{Index: i, Item: items[i]}, on at most Pool.MaxParallelism
// goroutines. The order in which tasks execute is not defined.
//
// The first error returned by work cancels the context given to the other tasks and stops the scheduling of
// new tasks: tasks already running are not interrupted, but Run waits for them before returning that
// first error. Cancelling ctx has the same effect, and Run returns ctx.Err().
//
// If parallelism is disabled, tasks run inline, in order.
func Run[I any](ctx context.Context, p *Pool, items []I, work func(ctx context.Context, task Task[I]) error) error {
	numWorkers := p.NumWorkers(len(items))
	if numWorkers == 0 {
		for i, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := work(ctx, Task[I]{Index: i, Item: item}); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	tasks := make(chan Task[I], numWorkers)
	g.Go(func() error {
		defer close(tasks)
		for i, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case tasks <- Task[I]{Index: i, Item: item}:
			}
		}
		return nil
	})
	for range numWorkers {
		g.Go(func() error {
			for task := range tasks {
				if err := ctx.Err(); err != nil {
					// Skip what is left in the channel.
					return err
				}
				if err := work(ctx, task); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
