package core

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MakePairings pairs the given round of several tournaments in
// parallel. The tournaments must be distinct since a Tournament is
// not safe for concurrent use.
//
// The games are returned in the order of the tournaments. On the
// first error the remaining tournaments that did not start yet
// are skipped.
func MakePairings(ctx context.Context, round int, tournaments ...*Tournament) ([][]*Game, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	results := make([][]*Game, len(tournaments))
	for i, t := range tournaments {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			games, err := t.MakePairing(round)
			if err != nil {
				return fmt.Errorf("tournament %d: %w", i, err)
			}
			results[i] = games
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
