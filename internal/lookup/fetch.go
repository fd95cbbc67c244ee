package lookup

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Records are the lookups needed to build one battle configuration.
type Records struct {
	Attacker CreatureRecord
	Defender CreatureRecord
	Move     MoveRecord
}

// FetchAll looks up the attacker, defender, and move concurrently.
//
// Postcondition: Returns all three records, or the first error encountered.
// On error the zero Records is returned so callers cannot apply a partial result.
func FetchAll(ctx context.Context, src Source, attacker, defender, moveName string) (Records, error) {
	var out Records
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := src.Creature(gctx, attacker)
		out.Attacker = rec
		return err
	})
	g.Go(func() error {
		rec, err := src.Creature(gctx, defender)
		out.Defender = rec
		return err
	})
	g.Go(func() error {
		rec, err := src.Move(gctx, moveName)
		out.Move = rec
		return err
	})
	if err := g.Wait(); err != nil {
		return Records{}, err
	}
	return out, nil
}
