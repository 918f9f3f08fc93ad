package sheets

import (
	"context"

	"envelopes/internal/core"
)

// Ports for outbound snapshot adapters.
type (
	EnvelopeWriter interface {
		AppendEnvelope(ctx context.Context, e *core.Envelope) (rowRef string, err error)
	}

	GoalWriter interface {
		AppendGoal(ctx context.Context, g *core.Goal) (rowRef string, err error)
	}

	// SnapshotWriter exports point-in-time rows for both entity types.
	SnapshotWriter interface {
		EnvelopeWriter
		GoalWriter
	}
)
