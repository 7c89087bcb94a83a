package nakama

import (
	"context"
	"fmt"

	"liargame/internal/bot"
	"liargame/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// WalletLedger implements ports.ScoreLedger on top of Nakama's wallet
// system. The whole round settles through a single WalletsUpdate call so a
// failure leaves every wallet untouched.
type WalletLedger struct {
	nk runtime.NakamaModule
}

// NewWalletLedger creates a wallet-backed score ledger.
func NewWalletLedger(nk runtime.NakamaModule) *WalletLedger {
	return &WalletLedger{nk: nk}
}

// BulkUpdateScores applies all score changes as one atomic wallet batch.
// Bot entries are skipped; bots have no Nakama wallet.
func (l *WalletLedger) BulkUpdateScores(ctx context.Context, changes []domain.ScoreChange) error {
	updates := make([]*runtime.WalletUpdate, 0, len(changes))
	for _, change := range changes {
		if change.Delta == 0 || bot.IsBot(change.UserID) {
			continue
		}
		updates = append(updates, &runtime.WalletUpdate{
			UserID:    change.UserID,
			Changeset: map[string]int64{"score": int64(change.Delta)},
			Metadata: map[string]interface{}{
				"reason": string(change.Reason),
			},
		})
	}
	if len(updates) == 0 {
		return nil
	}

	if _, err := l.nk.WalletsUpdate(ctx, updates, true); err != nil {
		return fmt.Errorf("wallets update: %w", err)
	}
	return nil
}
