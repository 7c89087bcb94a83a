package domain

import "time"

// Vote is a single ballot cast during the voting phase. At most one Vote
// exists per (room, voter), and a voter can never target themselves.
type Vote struct {
	RoomID   string
	VoterID  string
	TargetID string
	CastAt   time.Time
}
