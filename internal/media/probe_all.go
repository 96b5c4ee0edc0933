package media

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Prober reports the duration of a media file.
type Prober interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// ProbeAll probes paths concurrently, at most limit at a time, and
// returns the durations in path order. The first failure cancels the
// remaining probes.
func ProbeAll(ctx context.Context, probe Prober, paths []string, limit int) ([]float64, error) {
	if limit <= 0 {
		limit = 1
	}
	durations := make([]float64, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			d, err := probe.Probe(ctx, path)
			if err != nil {
				return err
			}
			durations[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return durations, nil
}
