package app

import (
	"errors"

	"liargame/internal/game"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomExists     = errors.New("room already exists")
	ErrRoomFull       = errors.New("room is full")
	ErrPlayerNotFound = errors.New("player not found in room")
	ErrTargetNotFound = errors.New("vote target not found in room")
	ErrNotHost        = errors.New("actor is not the room host")
	ErrNotLiar        = errors.New("actor is not the liar")
	ErrNotYourTurn    = errors.New("not the actor's turn")
	ErrNotInLobby     = errors.New("room is not in the lobby")
	ErrNotPlaying     = errors.New("room is not in a running round")
	ErrNotFinished    = errors.New("room round has not finished")
	ErrWrongPhase     = errors.New("action not allowed in the current phase")
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrEmptySpeech    = errors.New("speech content is empty")
	ErrSpeechTooLong  = errors.New("speech content is too long")
	ErrGuessUsed      = errors.New("keyword guess already used")
)

// Kind classifies an error per the engine's error taxonomy. Transports map
// kinds to their own status codes.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation covers malformed input rejected before any mutation.
	KindValidation
	// KindConflict covers actions incompatible with the current room state.
	KindConflict
	// KindUnauthorized covers host-only or role-only actions by the wrong
	// actor.
	KindUnauthorized
	// KindNotFound covers references to unknown rooms or players.
	KindNotFound
)

// Classify maps an engine error to its taxonomy kind.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrPlayerNotFound),
		errors.Is(err, ErrTargetNotFound):
		return KindNotFound
	case errors.Is(err, ErrNotHost),
		errors.Is(err, ErrNotLiar):
		return KindUnauthorized
	case errors.Is(err, ErrNotInLobby),
		errors.Is(err, ErrNotPlaying),
		errors.Is(err, ErrNotFinished),
		errors.Is(err, ErrWrongPhase),
		errors.Is(err, ErrNotYourTurn),
		errors.Is(err, ErrRoomExists),
		errors.Is(err, ErrGuessUsed),
		errors.Is(err, game.ErrDuplicateVote):
		return KindConflict
	case errors.Is(err, ErrRoomFull),
		errors.Is(err, ErrTooFewPlayers),
		errors.Is(err, ErrEmptySpeech),
		errors.Is(err, ErrSpeechTooLong),
		errors.Is(err, game.ErrSelfVote),
		errors.Is(err, game.ErrLiarCount),
		errors.Is(err, game.ErrTooFewForRoles):
		return KindValidation
	}
	return KindUnknown
}
