package game

import (
	"errors"
	"testing"
)

func TestSubmitRejectsDuplicateVote(t *testing.T) {
	tally := NewVoteTally()

	if _, err := tally.Submit("r1", "u1", "u2"); err != nil {
		t.Fatalf("first vote error: %v", err)
	}
	_, err := tally.Submit("r1", "u1", "u3")
	if !errors.Is(err, ErrDuplicateVote) {
		t.Fatalf("second vote error = %v, want ErrDuplicateVote", err)
	}
	if got := tally.Count("r1"); got != 1 {
		t.Fatalf("count = %d after rejected duplicate, want 1", got)
	}
}

func TestSubmitRejectsSelfVote(t *testing.T) {
	tally := NewVoteTally()

	_, err := tally.Submit("r1", "u1", "u1")
	if !errors.Is(err, ErrSelfVote) {
		t.Fatalf("self vote error = %v, want ErrSelfVote", err)
	}
	if tally.HasVoted("r1", "u1") {
		t.Fatalf("rejected self vote was recorded")
	}
}

func TestSameVoterAcrossRooms(t *testing.T) {
	tally := NewVoteTally()

	if _, err := tally.Submit("r1", "u1", "u2"); err != nil {
		t.Fatalf("vote in r1 error: %v", err)
	}
	if _, err := tally.Submit("r2", "u1", "u2"); err != nil {
		t.Fatalf("vote in r2 error: %v", err)
	}
}

func TestVotingProgress(t *testing.T) {
	tally := NewVoteTally()
	tally.Submit("r1", "u1", "u4")
	tally.Submit("r1", "u2", "u4")
	tally.Submit("r1", "u3", "u4")

	if got := tally.Progress("r1", 8); got != 37.5 {
		t.Fatalf("progress = %v, want 37.5", got)
	}
	if got := tally.Progress("r1", 0); got != 0 {
		t.Fatalf("progress with zero players = %v, want 0", got)
	}
}

func TestVotesPreserveSubmissionOrder(t *testing.T) {
	tally := NewVoteTally()
	tally.Submit("r1", "u1", "u4")
	tally.Submit("r1", "u2", "u2x")
	tally.Submit("r1", "u3", "u4")

	votes := tally.Votes("r1")
	if len(votes) != 3 {
		t.Fatalf("votes = %d, want 3", len(votes))
	}
	wantTargets := []string{"u4", "u2x", "u4"}
	for i, v := range votes {
		if v.TargetID != wantTargets[i] {
			t.Fatalf("vote %d target = %s, want %s", i, v.TargetID, wantTargets[i])
		}
	}
}

func TestClearResetsRoom(t *testing.T) {
	tally := NewVoteTally()
	tally.Submit("r1", "u1", "u2")
	tally.Submit("r2", "u1", "u2")

	tally.Clear("r1")
	if got := tally.Count("r1"); got != 0 {
		t.Fatalf("count = %d after clear, want 0", got)
	}
	if tally.HasVoted("r1", "u1") {
		t.Fatalf("voter still marked after clear")
	}
	if got := tally.Count("r2"); got != 1 {
		t.Fatalf("clearing r1 touched r2: count = %d", got)
	}
}
