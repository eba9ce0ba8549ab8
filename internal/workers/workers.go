package workers

import "context"

type Workers struct {
	workers []Worker
}

// New groups the given workers into a single aggregate.
func New(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

// Start launches all workers in registration order.
func (w *Workers) Start(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
}

// Stop stops all workers in reverse registration order, so consumers shut
// down before the producers they depend on.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}
