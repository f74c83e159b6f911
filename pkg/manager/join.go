package manager

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// settle commits a finished fetch, or records joinErr and keeps the old
// snapshot when joinErr is set.
type settle func(joinErr error) error

// Loader is anything Join can fetch: a Manager or a Singleton.
type Loader interface {
	fetch(ctx context.Context) (settle, error)
}

// Join fetches every loader concurrently. The snapshots are committed only
// when all fetches succeed; otherwise every loader keeps its previous
// snapshot and the first error is returned.
func Join(ctx context.Context, loaders ...Loader) error {
	settles := make([]settle, len(loaders))
	g, gctx := errgroup.WithContext(ctx)
	for i, l := range loaders {
		g.Go(func() error {
			s, err := l.fetch(gctx)
			settles[i] = s
			return err
		})
	}
	err := g.Wait()
	var stale error
	for _, s := range settles {
		if s == nil {
			continue
		}
		if serr := s(err); errors.Is(serr, ErrStale) && stale == nil {
			stale = serr
		}
	}
	if err != nil {
		return err
	}
	return stale
}
