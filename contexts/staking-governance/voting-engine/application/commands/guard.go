package commands

import (
	"context"

	domainerrors "stakevote/contexts/staking-governance/voting-engine/domain/errors"
)

type inFlightKey struct{}

// beginGuardedCall marks the execution context as holding the engine's
// non-reentrant guard. Ledger debit/credit calls receive the marked context,
// so any callback that re-enters a guarded operation on the same context
// fails fast instead of executing.
func beginGuardedCall(ctx context.Context) (context.Context, error) {
	if inFlight, _ := ctx.Value(inFlightKey{}).(bool); inFlight {
		return ctx, domainerrors.ErrReentrantCall
	}
	return context.WithValue(ctx, inFlightKey{}, true), nil
}
