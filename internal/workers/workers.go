package workers

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
)

type Workers struct {
	workers []Worker

	logger *logger.Logger
}

func New(logger *logger.Logger, workers ...Worker) *Workers {
	return &Workers{
		workers: workers,
		logger:  logger.WithComponent("workers"),
	}
}

// Add registers more workers. It must be called before Run.
func (w *Workers) Add(workers ...Worker) {
	w.workers = append(w.workers, workers...)
}

// Run starts every worker and waits for all of them. The first failure
// cancels the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for _, worker := range w.workers {
		group.Go(func() error {
			w.logger.Debug().Str("worker", worker.Name()).Msg("worker started")

			if err := worker.Run(groupCtx); err != nil {
				w.logger.Error().Err(err).Str("func", "*Workers.Run").Str("worker", worker.Name()).Msg("worker failed")
				return fmt.Errorf("worker %s: %w", worker.Name(), err)
			}

			w.logger.Debug().Str("worker", worker.Name()).Msg("worker stopped")
			return nil
		})
	}

	return group.Wait()
}

type funcWorker struct {
	name string
	run  func(ctx context.Context) error
}

// Func adapts a run function into a [Worker].
func Func(name string, run func(ctx context.Context) error) Worker {
	return &funcWorker{name: name, run: run}
}

func (f *funcWorker) Name() string                  { return f.name }
func (f *funcWorker) Run(ctx context.Context) error { return f.run(ctx) }

// Blocking adapts a start/stop pair, such as an HTTP server, into a
// [Worker]: start blocks until stop is called, and stop is called when ctx
// is done.
func Blocking(name string, start func(), stop func()) Worker {
	return Func(name, func(ctx context.Context) error {
		done := make(chan struct{})
		go func() {
			defer close(done)
			start()
		}()

		select {
		case <-ctx.Done():
			stop()
			<-done
		case <-done:
		}
		return nil
	})
}
