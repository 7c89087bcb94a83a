package domain

// PlayerStatus tracks a player's standing within a room.
type PlayerStatus string

const (
	// PlayerReady means the player confirmed readiness in the lobby.
	PlayerReady PlayerStatus = "ready"
	// PlayerNotReady means the player is in the lobby but not ready.
	PlayerNotReady PlayerStatus = "not_ready"
	// PlayerPlaying means the player is part of the running round.
	PlayerPlaying PlayerStatus = "playing"
	// PlayerDisconnected means the player dropped mid-round; their turn is
	// skipped and they are excluded from the required-vote count.
	PlayerDisconnected PlayerStatus = "disconnected"
)

// Player holds per-room state for a participant. One Player exists per
// (room, user) pair.
type Player struct {
	RoomID    string
	UserID    string
	Nickname  string
	Status    PlayerStatus
	IsHost    bool
	IsBot     bool
	HasVoted  bool
	Role      Role // RoleUnassigned until roles are dealt
	JoinOrder int
}

// Active reports whether the player still participates in the running round.
func (p *Player) Active() bool {
	return p.Status == PlayerPlaying
}
