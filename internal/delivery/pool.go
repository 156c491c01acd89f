package delivery

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Pool runs several workers against the same queue.
type Pool struct {
	workers []*Worker
}

func NewPool(size int, opts Options) *Pool {
	if size < 1 {
		size = 1
	}
	workers := make([]*Worker, size)
	for i := range workers {
		workers[i] = NewWorker(fmt.Sprintf("delivery-%d", i+1), opts)
	}
	return &Pool{workers: workers}
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Run blocks until ctx is done and every worker has returned.
func (p *Pool) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make([]error, len(p.workers))
	for i, w := range p.workers {
		wg.Add(1)
		go func(i int, w *Worker) {
			defer wg.Done()
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				errs[i] = err
			}
		}(i, w)
	}
	wg.Wait()
	return errors.Join(errs...)
}
