// Package sqlledger persists player scores in a relational database. Every
// score batch is applied in a single transaction so a round either settles
// completely or not at all.
package sqlledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"liargame/internal/domain"
)

// ErrUnknownPlayer is returned when a batch references a player with no
// score row. The whole batch is rolled back.
var ErrUnknownPlayer = errors.New("sqlledger: no score row for player")

const schema = `
CREATE TABLE IF NOT EXISTS player_scores (
	user_id    TEXT PRIMARY KEY,
	score      INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS score_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    TEXT NOT NULL,
	delta      INTEGER NOT NULL,
	reason     TEXT NOT NULL,
	new_score  INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// Ledger implements ports.ScoreLedger on top of database/sql.
type Ledger struct {
	db *sql.DB
}

// New wraps an open database handle. Call EnsureSchema before first use.
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// EnsureSchema creates the score tables when they do not exist yet.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create score schema: %w", err)
	}
	return nil
}

// EnsurePlayer seeds a zero-score row for the player if absent.
func (l *Ledger) EnsurePlayer(ctx context.Context, userID string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO player_scores (user_id, score) VALUES (?, 0)
		 ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("seed score row for %s: %w", userID, err)
	}
	return nil
}

// Score returns the player's current score.
func (l *Ledger) Score(ctx context.Context, userID string) (int, error) {
	var score int
	err := l.db.QueryRowContext(ctx,
		`SELECT score FROM player_scores WHERE user_id = ?`, userID).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, userID)
	}
	if err != nil {
		return 0, fmt.Errorf("read score for %s: %w", userID, err)
	}
	return score, nil
}

// BulkUpdateScores applies all changes in one transaction. A change for a
// player without a score row fails the whole batch; no partial settlement
// is ever visible.
func (l *Ledger) BulkUpdateScores(ctx context.Context, changes []domain.ScoreChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin score batch: %w", err)
	}
	defer tx.Rollback()

	for _, change := range changes {
		var current int
		err := tx.QueryRowContext(ctx,
			`SELECT score FROM player_scores WHERE user_id = ?`, change.UserID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrUnknownPlayer, change.UserID)
		}
		if err != nil {
			return fmt.Errorf("read score for %s: %w", change.UserID, err)
		}

		next := current + change.Delta
		if _, err := tx.ExecContext(ctx,
			`UPDATE player_scores SET score = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`,
			next, change.UserID); err != nil {
			return fmt.Errorf("update score for %s: %w", change.UserID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO score_history (user_id, delta, reason, new_score) VALUES (?, ?, ?, ?)`,
			change.UserID, change.Delta, string(change.Reason), next); err != nil {
			return fmt.Errorf("record score change for %s: %w", change.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit score batch: %w", err)
	}
	return nil
}
