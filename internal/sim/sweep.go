package sim

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Case names one scenario of a sweep. Build returns a fresh scenario each
// call: scenarios carry per-run state and must never be shared between
// concurrent runs.
type Case struct {
	Name  string
	Build func() (*Scenario, error)
}

// Sweep runs every case concurrently, one goroutine per case. Each run is
// fully independent and internally sequential, so results are identical to
// running the cases one by one. The first error wins; completed results are
// returned either way, indexed like cases.
func Sweep(ctx context.Context, cases []Case, log zerolog.Logger) ([]*Result, error) {
	results := make([]*Result, len(cases))
	errs := make([]error, len(cases))

	var wg sync.WaitGroup
	for i, c := range cases {
		wg.Add(1)
		go func(idx int, c Case) {
			defer wg.Done()

			sc, err := c.Build()
			if err != nil {
				errs[idx] = err
				return
			}
			drv, err := NewDriver(sc, log.With().Str("case", c.Name).Logger())
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = drv.Run(ctx)
		}(i, c)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
