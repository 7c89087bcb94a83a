package domain

// ScoreReason tags why a player's score moved.
type ScoreReason string

const (
	// ReasonCivilianWin is awarded to every civilian when the liar is caught.
	ReasonCivilianWin ScoreReason = "civilian_win"
	// ReasonLiarWin is awarded to the liar when they escape the vote.
	ReasonLiarWin ScoreReason = "liar_win"
	// ReasonLiarKeywordBonus is the extra point for a correct keyword guess.
	ReasonLiarKeywordBonus ScoreReason = "liar_keyword_bonus"
)

// ScoreChange is one player's score delta from a settled round.
type ScoreChange struct {
	UserID   string      `json:"user_id"`
	Delta    int         `json:"delta"`
	Reason   ScoreReason `json:"reason"`
	NewScore int         `json:"new_score"`
}

// GameResult is the immutable outcome of one round. MostVotedID is empty
// when no votes were cast.
type GameResult struct {
	Winner       Role
	LiarID       string
	MostVotedID  string
	VoteCounts   map[string]int
	ScoreChanges []ScoreChange
}
