package game

import (
	"math/rand"
	"time"
)

const (
	// DefaultTurnDuration is how long each speaking turn lasts.
	DefaultTurnDuration = 30 * time.Second
	// DefaultTotalRounds is how many full passes over the turn order a
	// discussion phase runs.
	DefaultTotalRounds = 1
)

// TurnCycle holds the randomized speaking order for one room and tracks the
// current turn, round and turn deadline. Each room owns exactly one
// instance; instances share no state.
type TurnCycle struct {
	roomID       string
	order        []string
	idx          int
	round        int
	totalRounds  int
	turnDuration time.Duration
	startedAt    time.Time

	now func() time.Time
}

// NewTurnCycle shuffles the given player ids into a turn order. A zero or
// negative duration/rounds falls back to the defaults; a nil rng gets a
// time-seeded one.
func NewTurnCycle(roomID string, playerIDs []string, turnDuration time.Duration, totalRounds int, rng *rand.Rand) *TurnCycle {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if turnDuration <= 0 {
		turnDuration = DefaultTurnDuration
	}
	if totalRounds <= 0 {
		totalRounds = DefaultTotalRounds
	}

	order := append([]string(nil), playerIDs...)
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	return &TurnCycle{
		roomID:       roomID,
		order:        order,
		round:        1,
		totalRounds:  totalRounds,
		turnDuration: turnDuration,
		startedAt:    time.Now(),
		now:          time.Now,
	}
}

// RoomID returns the owning room id.
func (c *TurnCycle) RoomID() string { return c.roomID }

// TurnOrder returns a copy of the shuffled speaking order.
func (c *TurnCycle) TurnOrder() []string {
	return append([]string(nil), c.order...)
}

// NextTurn advances to the next speaker. Wrapping past the end of the order
// increments the round and resets the index. It reports whether further
// turns remain.
func (c *TurnCycle) NextTurn() bool {
	c.idx++
	if c.idx >= len(c.order) {
		c.idx = 0
		c.round++
	}
	c.startedAt = c.now()
	return c.round <= c.totalRounds
}

// SkipTurn advances past the given player's turn, used when a player
// disconnects mid-turn. It is equivalent to NextTurn.
func (c *TurnCycle) SkipTurn(playerID string) bool {
	return c.NextTurn()
}

// CurrentPlayer returns the id of the player whose turn it is.
func (c *TurnCycle) CurrentPlayer() string {
	if len(c.order) == 0 {
		return ""
	}
	return c.order[c.idx]
}

// RemainingTime returns the time left in the current turn, floored at zero.
func (c *TurnCycle) RemainingTime() time.Duration {
	remaining := c.turnDuration - c.now().Sub(c.startedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AllTurnsCompleted reports whether every round of turns has been used up.
func (c *TurnCycle) AllTurnsCompleted() bool {
	return c.round > c.totalRounds
}

// CurrentRound returns the 1-indexed round number.
func (c *TurnCycle) CurrentRound() int { return c.round }

// CurrentTurnNumber returns the 1-indexed absolute turn count across rounds.
func (c *TurnCycle) CurrentTurnNumber() int {
	return (c.round-1)*len(c.order) + c.idx + 1
}
