package domain

// RoomStatus is the coarse lifecycle state of a room.
type RoomStatus string

const (
	// StatusWaiting means the room is in the lobby, accepting players.
	StatusWaiting RoomStatus = "waiting"
	// StatusPlaying means a round is in progress.
	StatusPlaying RoomStatus = "playing"
	// StatusFinished means the round concluded and results are visible.
	StatusFinished RoomStatus = "finished"
)

// GamePhase is the fine-grained sub-state nested under RoomStatus.
type GamePhase string

const (
	// PhaseLobby is the pre-game phase where players ready up.
	PhaseLobby GamePhase = "lobby"
	// PhaseDiscussion is the speaking phase driven by the turn cycle.
	PhaseDiscussion GamePhase = "discussion"
	// PhaseVoting is the phase where players vote for the suspected liar.
	PhaseVoting GamePhase = "voting"
	// PhaseResult is the post-round phase showing the outcome.
	PhaseResult GamePhase = "result"
)

// Room holds authoritative metadata for a single game room.
type Room struct {
	ID         string
	Code       string
	Status     RoomStatus
	Phase      GamePhase
	MinPlayers int
	MaxPlayers int
	HostID     string
}

// PhaseConsistent reports whether phase is a legal sub-state of status.
func PhaseConsistent(status RoomStatus, phase GamePhase) bool {
	switch status {
	case StatusWaiting:
		return phase == PhaseLobby
	case StatusPlaying:
		return phase == PhaseDiscussion || phase == PhaseVoting
	case StatusFinished:
		return phase == PhaseResult
	}
	return false
}
