package dualcreate

import (
	"context"
	"time"

	"github.com/Revivalution/jn-dual-create/internal/resilience"
)

// PropagationPolicy waits until a freshly created contact can be referenced
// by a job.
type PropagationPolicy interface {
	AwaitContact(ctx context.Context, contactID string) error
}

// FixedDelay sleeps for a constant duration, returning early on cancellation.
type FixedDelay time.Duration

// AwaitContact implements PropagationPolicy.
func (d FixedDelay) AwaitContact(ctx context.Context, _ string) error {
	return resilience.Sleep(ctx, time.Duration(d))
}
