package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create an
	// open room.
	RpcQuickMatch = "quick_match"
	// RpcJoinGrant is the Nakama RPC id clients call for a short-lived join
	// token bound to one room and one user.
	RpcJoinGrant = "join_grant"

	// MatchNameLiarGame is the authoritative match handler name registered
	// with Nakama.
	MatchNameLiarGame = "liargame_match"

	// labelGameValue identifies this module's matches in label queries.
	labelGameValue = "liargame"

	// quickMatchQuery selects joinable lobbies: this game, still in the
	// lobby phase, with at least one open seat.
	quickMatchQuery = "+label.game:" + labelGameValue + " +label.phase:lobby +label.open:>=1"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame    int64 = 1
	OpSubmitSpeech int64 = 2
	OpSubmitVote   int64 = 3
	OpSubmitGuess  int64 = 4
	OpEndGame      int64 = 5
	OpRestartGame  int64 = 6
	OpSetReady     int64 = 7

	// Server -> Client events
	OpMatchSnapshot   int64 = 100
	OpPlayerJoined    int64 = 101
	OpPlayerLeft      int64 = 102
	OpPlayerReady     int64 = 103
	OpGameStarted     int64 = 104
	OpRoleAssigned    int64 = 105 // sent privately
	OpTurnChanged     int64 = 106
	OpSpeechSubmitted int64 = 107
	OpVotingStarted   int64 = 108
	OpVoteSubmitted   int64 = 109
	OpGameEnded       int64 = 110
	OpRoomReset       int64 = 111
	OpGameError       int64 = 199
)
