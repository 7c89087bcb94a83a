package game

import (
	"testing"

	"liargame/internal/domain"
)

func votesFor(targets ...string) []domain.Vote {
	votes := make([]domain.Vote, len(targets))
	for i, target := range targets {
		votes[i] = domain.Vote{RoomID: "r1", VoterID: "voter", TargetID: target}
	}
	return votes
}

func TestTieResolvesToFirstVotedTarget(t *testing.T) {
	result := CalculateResult(ResultInput{
		Votes:   votesFor("u4", "u2", "u4", "u2"),
		Players: []string{"u1", "u2", "u3", "u4"},
		LiarID:  "u3",
	})
	if result.MostVotedID != "u4" {
		t.Fatalf("most voted = %s, want u4 (voted first)", result.MostVotedID)
	}

	// Reversed submission order flips the winner of the tie.
	result = CalculateResult(ResultInput{
		Votes:   votesFor("u2", "u4", "u2", "u4"),
		Players: []string{"u1", "u2", "u3", "u4"},
		LiarID:  "u3",
	})
	if result.MostVotedID != "u2" {
		t.Fatalf("most voted = %s, want u2 (voted first)", result.MostVotedID)
	}
}

func TestCiviliansWinWhenLiarCaught(t *testing.T) {
	result := CalculateResult(ResultInput{
		Votes:   votesFor("u3", "u3"),
		Players: []string{"u1", "u2", "u3"},
		LiarID:  "u3",
	})
	if result.Winner != domain.RoleCivilian {
		t.Fatalf("winner = %s, want civilian", result.Winner)
	}
	if len(result.ScoreChanges) != 2 {
		t.Fatalf("score changes = %d, want 2", len(result.ScoreChanges))
	}
	for _, ch := range result.ScoreChanges {
		if ch.UserID == "u3" {
			t.Fatalf("liar received a civilian-win score change")
		}
		if ch.Delta != 1 || ch.Reason != domain.ReasonCivilianWin {
			t.Fatalf("change = %+v, want +1 civilian_win", ch)
		}
	}
}

func TestLiarWinsWhenNotCaught(t *testing.T) {
	result := CalculateResult(ResultInput{
		Votes:   votesFor("u2", "u2"),
		Players: []string{"u1", "u2", "u3"},
		LiarID:  "u3",
	})
	if result.Winner != domain.RoleLiar {
		t.Fatalf("winner = %s, want liar", result.Winner)
	}
	if len(result.ScoreChanges) != 1 {
		t.Fatalf("score changes = %d, want 1", len(result.ScoreChanges))
	}
	ch := result.ScoreChanges[0]
	if ch.UserID != "u3" || ch.Delta != 1 || ch.Reason != domain.ReasonLiarWin {
		t.Fatalf("change = %+v, want liar +1 liar_win", ch)
	}
}

func TestCaughtLiarStillWinsWithKeywordGuess(t *testing.T) {
	result := CalculateResult(ResultInput{
		Votes:              votesFor("u3", "u3"),
		Players:            []string{"u1", "u2", "u3"},
		LiarID:             "u3",
		LiarGuessedKeyword: true,
		PrevScores:         map[string]int{"u3": 5},
	})
	if result.Winner != domain.RoleLiar {
		t.Fatalf("winner = %s, want liar (keyword guessed)", result.Winner)
	}
	if len(result.ScoreChanges) != 2 {
		t.Fatalf("score changes = %d, want 2 (win + bonus)", len(result.ScoreChanges))
	}
	if result.ScoreChanges[1].Reason != domain.ReasonLiarKeywordBonus {
		t.Fatalf("second change reason = %s, want liar_keyword_bonus", result.ScoreChanges[1].Reason)
	}
	if result.ScoreChanges[1].NewScore != 7 {
		t.Fatalf("final score = %d, want 7", result.ScoreChanges[1].NewScore)
	}
}

func TestEmptyVoteSetMeansLiarEscapes(t *testing.T) {
	result := CalculateResult(ResultInput{
		Players: []string{"u1", "u2", "u3"},
		LiarID:  "u3",
	})
	if result.MostVotedID != "" {
		t.Fatalf("most voted = %q, want empty", result.MostVotedID)
	}
	if len(result.VoteCounts) != 0 {
		t.Fatalf("vote counts = %v, want empty", result.VoteCounts)
	}
	if result.Winner != domain.RoleLiar {
		t.Fatalf("winner = %s, want liar", result.Winner)
	}
}
