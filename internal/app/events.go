package app

import "liargame/internal/domain"

// EventKind identifies emitted session events for transport dispatch.
type EventKind string

const (
	EventPlayerJoined    EventKind = "player_joined"
	EventPlayerLeft      EventKind = "player_left"
	EventPlayerReady     EventKind = "player_ready"
	EventGameStarted     EventKind = "game_started"
	EventRoleAssigned    EventKind = "role_assigned"
	EventTurnChanged     EventKind = "turn_changed"
	EventSpeechSubmitted EventKind = "speech_submitted"
	EventVotingStarted   EventKind = "voting_started"
	EventVoteSubmitted   EventKind = "vote_submitted"
	EventGameEnded       EventKind = "game_ended"
	EventRoomReset       EventKind = "room_reset"
)

// Event is a session event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

// RoomPayload is the public view of a room.
type RoomPayload struct {
	ID          string            `json:"id"`
	Code        string            `json:"code"`
	Status      domain.RoomStatus `json:"status"`
	Phase       domain.GamePhase  `json:"phase"`
	MinPlayers  int               `json:"min_players"`
	MaxPlayers  int               `json:"max_players"`
	PlayerCount int               `json:"player_count"`
	HostID      string            `json:"host_id"`
}

// PlayerPayload is the public view of a player; roles are never included.
type PlayerPayload struct {
	UserID    string              `json:"user_id"`
	Nickname  string              `json:"nickname"`
	Status    domain.PlayerStatus `json:"status"`
	IsHost    bool                `json:"is_host"`
	HasVoted  bool                `json:"has_voted"`
	JoinOrder int                 `json:"join_order"`
}

type PlayerJoinedPayload struct {
	Player PlayerPayload `json:"player"`
	Room   RoomPayload   `json:"room"`
}

type PlayerLeftPayload struct {
	UserID    string `json:"user_id"`
	NewHostID string `json:"new_host_id,omitempty"`
}

type PlayerReadyPayload struct {
	UserID string `json:"user_id"`
	Ready  bool   `json:"ready"`
}

type GameStartedPayload struct {
	Room    RoomPayload     `json:"room"`
	Players []PlayerPayload `json:"players"`
}

// RoleAssignedPayload is always targeted at exactly one connection. The
// keyword is present for civilians only; the liar sees the category alone.
type RoleAssignedPayload struct {
	Role       domain.Role `json:"role"`
	Keyword    string      `json:"keyword,omitempty"`
	Category   string      `json:"category"`
	Commitment string      `json:"commitment"`
}

type TurnChangedPayload struct {
	CurrentPlayer    string   `json:"current_player"`
	TurnOrder        []string `json:"turn_order"`
	TurnNumber       int      `json:"turn_number"`
	Round            int      `json:"round"`
	RemainingSeconds int      `json:"remaining_seconds"`
}

type SpeechSubmittedPayload struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Content  string `json:"content"`
}

type VotingStartedPayload struct {
	DurationSeconds int      `json:"duration_seconds"`
	Candidates      []string `json:"candidates"`
}

type VoteSubmittedPayload struct {
	VoterID       string `json:"voter_id"`
	TotalVotes    int    `json:"total_votes"`
	RequiredVotes int    `json:"required_votes"`
}

type GameEndedPayload struct {
	Winner       domain.Role            `json:"winner,omitempty"`
	LiarID       string                 `json:"liar_id"`
	MostVotedID  string                 `json:"most_voted_id,omitempty"`
	Roles        map[string]domain.Role `json:"roles"`
	VoteResults  map[string]int         `json:"vote_results"`
	ScoreChanges []domain.ScoreChange   `json:"score_changes"`
	Aborted      bool                   `json:"aborted,omitempty"`
}

type RoomResetPayload struct {
	Room    RoomPayload     `json:"room"`
	Players []PlayerPayload `json:"players"`
}
