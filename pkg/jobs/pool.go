package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Task is a unit of work producing a value.
type Task[T any] func(ctx context.Context) (T, error)

// Result carries the outcome of the task at Index in the submitted batch.
type Result[T any] struct {
	Index    int
	Value    T
	Err      error
	Duration time.Duration
}

// PoolConfig configures pool behaviour.
type PoolConfig struct {
	Workers int
	Logger  *zap.Logger
}

// Pool runs batches of tasks with a bounded number of goroutines. A failing task never
// cancels its siblings; each failure is reported in its own Result.
type Pool struct {
	name    string
	workers int
	logger  *zap.Logger
}

// NewPool builds a pool. Workers below one are treated as one, which runs tasks sequentially
// in submission order.
func NewPool(name string, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pool{name: name, workers: cfg.Workers, logger: cfg.Logger}
}

// Workers returns the concurrency limit.
func (p *Pool) Workers() int {
	return p.workers
}

// Run executes tasks on p and returns one Result per task, in submission order.
// Tasks not yet started when ctx is cancelled report ctx.Err().
func Run[T any](ctx context.Context, p *Pool, tasks []Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))
	if len(tasks) == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, task := range tasks {
		i, task := i, task
		results[i].Index = i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			start := time.Now()
			value, err := task(ctx)
			results[i].Value = value
			results[i].Err = err
			results[i].Duration = time.Since(start)
			if err != nil {
				p.logger.Sugar().Warnw("task failed", "pool", p.name, "index", i, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
