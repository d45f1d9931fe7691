package sim

import (
	"context"
	"sync"
	"time"
)

// Job builds a fresh player for one independent run. Each job owns its own
// collection and visualizers; jobs share nothing.
type Job struct {
	Name   string
	Start  time.Time
	Config Config
	Build  func() (*Player, error)
}

// RunAll runs the jobs concurrently and returns their results in job order.
// The first error, in job order, is returned alongside the partial results.
func RunAll(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			job := jobs[idx]
			p, err := job.Build()
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = p.Run(ctx, job.Start, job.Config)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
