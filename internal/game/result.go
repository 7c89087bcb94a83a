package game

import "liargame/internal/domain"

// Points awarded when a round settles.
const (
	civilianWinPoints     = 1
	liarWinPoints         = 1
	liarKeywordBonusPoint = 1
)

// ResultInput carries everything needed to settle one round.
type ResultInput struct {
	// Votes in submission order.
	Votes []domain.Vote
	// Players is the full participant roster; non-liar members score on a
	// civilian win even if nobody voted for them.
	Players []string
	LiarID  string
	// Nicknames is optional display metadata passed through to callers.
	Nicknames map[string]string
	// PrevScores is optional; NewScore in each change is prev + delta.
	PrevScores map[string]int
	// LiarGuessedKeyword is whether the liar separately guessed the secret
	// keyword correctly.
	LiarGuessedKeyword bool
}

// CalculateResult aggregates votes, resolves the most-voted player and
// computes winner plus per-player score deltas.
//
// The leader scan walks votes in submission order and replaces the leader
// only when a count strictly exceeds the current maximum, so equal top
// counts resolve to whichever target got there first, never by id order.
// An empty vote set means nobody was caught: the liar wins and
// MostVotedID stays empty.
func CalculateResult(in ResultInput) domain.GameResult {
	counts := make(map[string]int, len(in.Votes))
	mostVoted := ""
	maxVotes := 0
	for _, v := range in.Votes {
		counts[v.TargetID]++
		if counts[v.TargetID] > maxVotes {
			maxVotes = counts[v.TargetID]
			mostVoted = v.TargetID
		}
	}

	liarCaught := mostVoted != "" && mostVoted == in.LiarID

	winner := domain.RoleLiar
	if liarCaught && !in.LiarGuessedKeyword {
		winner = domain.RoleCivilian
	}

	result := domain.GameResult{
		Winner:      winner,
		LiarID:      in.LiarID,
		MostVotedID: mostVoted,
		VoteCounts:  counts,
	}

	if winner == domain.RoleCivilian {
		for _, id := range in.Players {
			if id == in.LiarID {
				continue
			}
			result.ScoreChanges = append(result.ScoreChanges, domain.ScoreChange{
				UserID:   id,
				Delta:    civilianWinPoints,
				Reason:   domain.ReasonCivilianWin,
				NewScore: in.PrevScores[id] + civilianWinPoints,
			})
		}
		return result
	}

	liarTotal := liarWinPoints
	result.ScoreChanges = append(result.ScoreChanges, domain.ScoreChange{
		UserID:   in.LiarID,
		Delta:    liarWinPoints,
		Reason:   domain.ReasonLiarWin,
		NewScore: in.PrevScores[in.LiarID] + liarTotal,
	})
	if in.LiarGuessedKeyword {
		liarTotal += liarKeywordBonusPoint
		result.ScoreChanges = append(result.ScoreChanges, domain.ScoreChange{
			UserID:   in.LiarID,
			Delta:    liarKeywordBonusPoint,
			Reason:   domain.ReasonLiarKeywordBonus,
			NewScore: in.PrevScores[in.LiarID] + liarTotal,
		})
	}
	return result
}
