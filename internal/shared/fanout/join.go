// Package fanout runs independent calls concurrently and keeps every outcome.
package fanout

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one branch.
type Result[T any] struct {
	Value T
	Err   error
}

// Task is one branch of a fan-out.
type Task[T any] func(ctx context.Context) (T, error)

// Options bounds a fan-out. Zero values mean unlimited concurrency and no per-branch timeout.
type Options struct {
	Limit   int
	Timeout time.Duration
}

// JoinTolerant runs every task and returns one Result per task, in input order.
// A failing or panicking branch never cancels its siblings.
func JoinTolerant[T any](ctx context.Context, opts Options, tasks []Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))

	// errgroup.WithContext would cancel siblings on the first error.
	var g errgroup.Group
	if opts.Limit > 0 {
		g.SetLimit(opts.Limit)
	}
	for i, task := range tasks {
		g.Go(func() error {
			results[i] = run(ctx, opts.Timeout, task)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Map applies fn to every input with JoinTolerant.
func Map[In, Out any](ctx context.Context, opts Options, inputs []In, fn func(ctx context.Context, in In) (Out, error)) []Result[Out] {
	tasks := make([]Task[Out], len(inputs))
	for i, in := range inputs {
		tasks[i] = func(ctx context.Context) (Out, error) { return fn(ctx, in) }
	}
	return JoinTolerant(ctx, opts, tasks)
}

func run[T any](ctx context.Context, timeout time.Duration, task Task[T]) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[T]{Err: fmt.Errorf("fanout: branch panicked: %v", r)}
		}
	}()
	if err := ctx.Err(); err != nil {
		return Result[T]{Err: err}
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	v, err := task(ctx)
	return Result[T]{Value: v, Err: err}
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
