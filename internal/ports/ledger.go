package ports

import (
	"context"

	"liargame/internal/domain"
)

// ScoreLedger persists settled score deltas.
type ScoreLedger interface {
	// BulkUpdateScores applies every change atomically: either all players
	// move to their new score or none do. A failure leaves scores untouched
	// and returns the underlying error.
	BulkUpdateScores(ctx context.Context, changes []domain.ScoreChange) error
}
