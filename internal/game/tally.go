package game

import (
	"errors"
	"sync"
	"time"

	"liargame/internal/domain"
)

var (
	// ErrDuplicateVote is returned when a voter already voted in the room.
	ErrDuplicateVote = errors.New("voter already voted in this room")
	// ErrSelfVote is returned when a voter targets themselves.
	ErrSelfVote = errors.New("cannot vote for yourself")
)

// VoteTally records one vote per player per room, in submission order.
// Submission order is load-bearing: the result calculation breaks ties in
// favor of the target that reached the top count first.
type VoteTally struct {
	mu     sync.Mutex
	votes  map[string][]domain.Vote
	voters map[string]map[string]bool

	now func() time.Time
}

// NewVoteTally constructs an empty tally.
func NewVoteTally() *VoteTally {
	return &VoteTally{
		votes:  make(map[string][]domain.Vote),
		voters: make(map[string]map[string]bool),
		now:    time.Now,
	}
}

// Submit records a vote. Duplicate votes by the same voter and self-votes
// are rejected. Target existence is not checked here; the orchestrator
// validates the roster before calling.
func (t *VoteTally) Submit(roomID, voterID, targetID string) (domain.Vote, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if voterID == targetID {
		return domain.Vote{}, ErrSelfVote
	}
	if t.voters[roomID][voterID] {
		return domain.Vote{}, ErrDuplicateVote
	}

	vote := domain.Vote{
		RoomID:   roomID,
		VoterID:  voterID,
		TargetID: targetID,
		CastAt:   t.now(),
	}
	t.votes[roomID] = append(t.votes[roomID], vote)
	if t.voters[roomID] == nil {
		t.voters[roomID] = make(map[string]bool)
	}
	t.voters[roomID][voterID] = true
	return vote, nil
}

// HasVoted reports whether the voter already voted in the room.
func (t *VoteTally) HasVoted(roomID, voterID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.voters[roomID][voterID]
}

// Count returns the number of votes cast in the room.
func (t *VoteTally) Count(roomID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.votes[roomID])
}

// Progress returns votes cast over totalPlayers as a percentage, or 0 when
// totalPlayers is zero.
func (t *VoteTally) Progress(roomID string, totalPlayers int) float64 {
	if totalPlayers == 0 {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(len(t.votes[roomID])) / float64(totalPlayers) * 100
}

// Votes returns a copy of the room's votes in submission order.
func (t *VoteTally) Votes(roomID string) []domain.Vote {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Vote(nil), t.votes[roomID]...)
}

// Clear removes all votes for the room, used on room reset.
func (t *VoteTally) Clear(roomID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.votes, roomID)
	delete(t.voters, roomID)
}
