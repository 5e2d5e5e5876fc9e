package sim

import (
	"context"
	"sync"

	"github.com/san-kum/hydrodrag/internal/config"
)

// RunAll runs every config concurrently on fresh engines sharing the
// simulator's resolver and registry. Metrics and step observers are not
// shared with the concurrent runs.
func (s *Simulator) RunAll(ctx context.Context, cfgs []*config.Config) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i := range cfgs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			run := New(s.resolver, WithSettings(s.settings), WithEngineObserver(s.observer))
			run.reg = s.reg
			results[idx], errs[idx] = run.Run(ctx, cfgs[idx])
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
