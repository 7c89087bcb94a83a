package app

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"liargame/internal/config"
	"liargame/internal/domain"
	"liargame/internal/game"
	"liargame/internal/ports"
)

// Service is the session orchestrator: it owns the authoritative state
// machine for every room in this process and sequences the engine
// subsystems (role assignment, turn cycle, timers, vote tally, result
// calculation, score settlement).
//
// All per-room state is keyed by room id and serialized by a per-session
// mutex, so transport calls and timer callbacks for one room never
// interleave, while different rooms proceed independently.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session

	cfg      config.Game
	timers   *game.TimerManager
	tally    *game.VoteTally
	assigner *game.Assigner
	keywords *game.KeywordPool
	ledger   ports.ScoreLedger
	log      game.Logger
	rng      *rand.Rand
}

// session is the authoritative state for one room.
type session struct {
	mu sync.Mutex

	room    domain.Room
	players map[string]*domain.Player
	joinSeq int

	roles        map[string]domain.RoleAssignment
	liarIDs      []string
	keyword      game.KeywordEntry
	guessUsed    bool
	guessCorrect bool
	cycle        *game.TurnCycle

	// outbox holds events produced by timer callbacks, drained by the
	// transport loop.
	outbox []Event
}

// NewService constructs the orchestrator. ledger and log must be non-nil;
// keywords and rng may be nil for the defaults.
func NewService(cfg config.Game, ledger ports.ScoreLedger, keywords *game.KeywordPool, log game.Logger, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if keywords == nil {
		keywords = game.NewKeywordPool(nil, rng)
	}
	return &Service{
		sessions: make(map[string]*session),
		cfg:      cfg,
		timers:   game.NewTimerManager(log),
		tally:    game.NewVoteTally(),
		assigner: game.NewAssigner(rng),
		keywords: keywords,
		ledger:   ledger,
		log:      log,
		rng:      rng,
	}
}

// Timers exposes the timer subsystem for read-only progress queries.
func (s *Service) Timers() *game.TimerManager { return s.timers }

// CreateSession registers a new room in the lobby state.
func (s *Service) CreateSession(roomID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[roomID]; ok {
		return fmt.Errorf("%w: %s", ErrRoomExists, roomID)
	}
	s.sessions[roomID] = &session{
		room: domain.Room{
			ID:         roomID,
			Code:       code,
			Status:     domain.StatusWaiting,
			Phase:      domain.PhaseLobby,
			MinPlayers: s.cfg.MinPlayers,
			MaxPlayers: s.cfg.MaxPlayers,
		},
		players: make(map[string]*domain.Player),
	}
	return nil
}

// CloseSession tears the room down: timers stopped, votes cleared, state
// dropped. Other rooms are untouched.
func (s *Service) CloseSession(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[roomID]; !ok {
		return
	}
	s.timers.Stop(roomID)
	s.tally.Clear(roomID)
	delete(s.sessions, roomID)
}

func (s *Service) get(roomID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return sess, nil
}

// PlayerJoined adds a player to the lobby roster. The first player becomes
// host.
func (s *Service) PlayerJoined(roomID, userID, nickname string, isBot bool) ([]Event, error) {
	sess, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.room.Status != domain.StatusWaiting {
		return nil, ErrNotInLobby
	}
	if _, ok := sess.players[userID]; ok {
		// Rejoin with unchanged state.
		return nil, nil
	}
	if len(sess.players) >= sess.room.MaxPlayers {
		return nil, ErrRoomFull
	}

	isHost := sess.room.HostID == ""
	if isHost {
		sess.room.HostID = userID
	}
	sess.joinSeq++
	player := &domain.Player{
		RoomID:    roomID,
		UserID:    userID,
		Nickname:  nickname,
		Status:    domain.PlayerNotReady,
		IsHost:    isHost,
		IsBot:     isBot,
		JoinOrder: sess.joinSeq,
	}
	sess.players[userID] = player

	return []Event{{
		Kind: EventPlayerJoined,
		Payload: PlayerJoinedPayload{
			Player: playerPayload(player),
			Room:   roomPayload(sess),
		},
	}}, nil
}

// PlayerLeft handles a disconnect. In the lobby the player is removed and
// the host seat migrates to the earliest-joined survivor. Mid-round the
// player is marked disconnected instead: their turn is skipped and they
// stop counting toward the required votes, but the room's timer keeps
// running.
func (s *Service) PlayerLeft(ctx context.Context, roomID, userID string) ([]Event, error) {
	sess, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	player, ok := sess.players[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, userID)
	}

	events := []Event{}
	newHost := ""
	if sess.room.Status == domain.StatusPlaying {
		player.Status = domain.PlayerDisconnected
	} else {
		delete(sess.players, userID)
	}
	if sess.room.HostID == userID {
		player.IsHost = false
		newHost = s.migrateHost(sess, userID)
	}
	events = append(events, Event{
		Kind:    EventPlayerLeft,
		Payload: PlayerLeftPayload{UserID: userID, NewHostID: newHost},
	})

	if sess.room.Status != domain.StatusPlaying {
		return events, nil
	}

	switch sess.room.Phase {
	case domain.PhaseDiscussion:
		if sess.cycle != nil && sess.cycle.CurrentPlayer() == userID {
			sess.cycle.SkipTurn(userID)
			if sess.cycle.AllTurnsCompleted() {
				events = append(events, s.beginVoting(sess)...)
			} else {
				s.armTurnTimer(sess)
				events = append(events, turnChangedEvent(sess))
			}
		}
	case domain.PhaseVoting:
		// The departed player may have been the last missing ballot.
		if s.allActiveVoted(sess) {
			settled, err := s.finalize(ctx, sess, false)
			if err != nil {
				s.log.Error("settlement after disconnect failed for room %s: %v", roomID, err)
				return events, nil
			}
			events = append(events, settled...)
		}
	}
	return events, nil
}

// migrateHost hands the host seat to the earliest-joined remaining human.
// Returns the new host id or "" when the room emptied out.
func (s *Service) migrateHost(sess *session, leavingID string) string {
	candidates := make([]*domain.Player, 0, len(sess.players))
	for id, p := range sess.players {
		if id == leavingID || p.Status == domain.PlayerDisconnected || p.IsBot {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		sess.room.HostID = ""
		return ""
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].JoinOrder < candidates[j].JoinOrder })
	next := candidates[0]
	next.IsHost = true
	sess.room.HostID = next.UserID
	return next.UserID
}

// SetReady toggles a player's lobby ready flag.
func (s *Service) SetReady(roomID, userID string, ready bool) ([]Event, error) {
	sess, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.room.Status != domain.StatusWaiting {
		return nil, ErrNotInLobby
	}
	player, ok := sess.players[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, userID)
	}
	if ready {
		player.Status = domain.PlayerReady
	} else {
		player.Status = domain.PlayerNotReady
	}
	return []Event{{
		Kind:    EventPlayerReady,
		Payload: PlayerReadyPayload{UserID: userID, Ready: ready},
	}}, nil
}

// StartGame runs the LOBBY -> DISCUSSION transition: role assignment, turn
// cycle creation and the first turn timer. Every guard is checked before
// any state mutates, so a rejected start leaves the room untouched.
func (s *Service) StartGame(roomID, actorID string) ([]Event, error) {
	sess, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	actor, ok := sess.players[actorID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, actorID)
	}
	if !actor.IsHost {
		return nil, ErrNotHost
	}
	if sess.room.Status != domain.StatusWaiting {
		return nil, ErrNotInLobby
	}
	if len(sess.players) < sess.room.MinPlayers {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrTooFewPlayers, len(sess.players), sess.room.MinPlayers)
	}

	ids := playerIDsInJoinOrder(sess)
	assignments, err := s.assigner.Assign(ids, s.cfg.LiarCount)
	if err != nil {
		return nil, err
	}

	entry := s.keywords.Pick()
	sess.roles = assignments
	sess.keyword = entry
	sess.guessUsed = false
	sess.guessCorrect = false
	sess.liarIDs = sess.liarIDs[:0]
	for _, id := range ids {
		asg := assignments[id]
		player := sess.players[id]
		player.Status = domain.PlayerPlaying
		player.HasVoted = false
		player.Role = asg.Role
		if asg.Role == domain.RoleLiar {
			sess.liarIDs = append(sess.liarIDs, id)
		}
	}

	sess.room.Status = domain.StatusPlaying
	sess.room.Phase = domain.PhaseDiscussion
	sess.cycle = game.NewTurnCycle(roomID, ids, time.Duration(s.cfg.TurnSeconds)*time.Second, s.cfg.Rounds, s.rng)
	s.armTurnTimer(sess)

	events := []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			Room:    roomPayload(sess),
			Players: playerPayloads(sess),
		},
	}}
	for _, id := range ids {
		asg := assignments[id]
		payload := RoleAssignedPayload{
			Role:       asg.Role,
			Category:   entry.Category,
			Commitment: asg.Commitment,
		}
		if asg.Role == domain.RoleCivilian {
			payload.Keyword = entry.Keyword
		}
		events = append(events, Event{
			Kind:       EventRoleAssigned,
			Payload:    payload,
			Recipients: []string{id},
		})
	}
	events = append(events, turnChangedEvent(sess))
	return events, nil
}

// SubmitSpeech records the current speaker's statement and advances the
// turn cycle.
func (s *Service) SubmitSpeech(roomID, userID, content string) ([]Event, error) {
	sess, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	player, ok := sess.players[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, userID)
	}
	if sess.room.Phase != domain.PhaseDiscussion {
		return nil, ErrWrongPhase
	}
	if sess.cycle == nil || sess.cycle.CurrentPlayer() != userID {
		return nil, ErrNotYourTurn
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptySpeech
	}
	if len(content) > MaxSpeechLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrSpeechTooLong, len(content))
	}

	events := []Event{{
		Kind: EventSpeechSubmitted,
		Payload: SpeechSubmittedPayload{
			UserID:   userID,
			Nickname: player.Nickname,
			Content:  content,
		},
	}}

	if sess.cycle.NextTurn() {
		s.armTurnTimer(sess)
		events = append(events, turnChangedEvent(sess))
	} else {
		events = append(events, s.beginVoting(sess)...)
	}
	return events, nil
}

// CastVote records a ballot and settles the round once every active player
// has voted. When the last ballot arrives but settlement fails, the vote
// itself stands and the room stays in VOTING; the returned events cover
// what did happen and the error carries why the round did not close.
func (s *Service) CastVote(ctx context.Context, roomID, voterID, targetID string) ([]Event, error) {
	sess, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	voter, ok := sess.players[voterID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, voterID)
	}
	if sess.room.Phase != domain.PhaseVoting {
		return nil, ErrWrongPhase
	}
	if !voter.Active() {
		return nil, ErrWrongPhase
	}
	target, ok := sess.players[targetID]
	if !ok || !target.Active() {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, targetID)
	}

	if _, err := s.tally.Submit(roomID, voterID, targetID); err != nil {
		return nil, err
	}
	voter.HasVoted = true

	required := len(activeIDs(sess))
	events := []Event{{
		Kind: EventVoteSubmitted,
		Payload: VoteSubmittedPayload{
			VoterID:       voterID,
			TotalVotes:    s.tally.Count(roomID),
			RequiredVotes: required,
		},
	}}

	if s.allActiveVoted(sess) {
		settled, err := s.finalize(ctx, sess, false)
		if err != nil {
			return events, err
		}
		events = append(events, settled...)
	}
	return events, nil
}

// SubmitGuess lets the liar attempt the secret keyword once, during the
// voting phase. The outcome is folded into settlement and never broadcast
// early.
func (s *Service) SubmitGuess(roomID, userID, guess string) error {
	sess, err := s.get(roomID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	player, ok := sess.players[userID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, userID)
	}
	if sess.room.Phase != domain.PhaseVoting {
		return ErrWrongPhase
	}
	if player.Role != domain.RoleLiar {
		return ErrNotLiar
	}
	if sess.guessUsed {
		return ErrGuessUsed
	}
	guess = strings.TrimSpace(guess)
	if guess == "" || len(guess) > MaxGuessLength {
		return ErrEmptySpeech
	}

	sess.guessUsed = true
	sess.guessCorrect = strings.EqualFold(guess, sess.keyword.Keyword)
	return nil
}

// EndGame is the host's abort switch: the round stops immediately, roles
// are revealed, and no scores move.
func (s *Service) EndGame(roomID, actorID string) ([]Event, error) {
	sess, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	actor, ok := sess.players[actorID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, actorID)
	}
	if !actor.IsHost {
		return nil, ErrNotHost
	}
	if sess.room.Status != domain.StatusPlaying {
		return nil, ErrNotPlaying
	}
	return s.finalize(context.Background(), sess, true)
}

// RestartGame is host-only and resets a finished room back to the lobby.
func (s *Service) RestartGame(roomID, actorID string) ([]Event, error) {
	sess, err := s.get(roomID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	actor, ok := sess.players[actorID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, actorID)
	}
	if !actor.IsHost {
		return nil, ErrNotHost
	}
	if sess.room.Status != domain.StatusFinished {
		return nil, ErrNotFinished
	}

	for id, p := range sess.players {
		if p.Status == domain.PlayerDisconnected {
			delete(sess.players, id)
			continue
		}
		p.Status = domain.PlayerNotReady
		p.HasVoted = false
		p.Role = domain.RoleUnassigned
	}
	sess.roles = nil
	sess.liarIDs = nil
	sess.keyword = game.KeywordEntry{}
	sess.guessUsed = false
	sess.guessCorrect = false
	sess.cycle = nil
	s.tally.Clear(roomID)
	sess.room.Status = domain.StatusWaiting
	sess.room.Phase = domain.PhaseLobby

	return []Event{{
		Kind: EventRoomReset,
		Payload: RoomResetPayload{
			Room:    roomPayload(sess),
			Players: playerPayloads(sess),
		},
	}}, nil
}

// DrainEvents pops events produced by timer callbacks since the last call.
func (s *Service) DrainEvents(roomID string) []Event {
	sess, err := s.get(roomID)
	if err != nil {
		return nil
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	events := sess.outbox
	sess.outbox = nil
	return events
}

/* ---- timer-driven transitions ---- */

// armTurnTimer starts (or replaces) the room's turn countdown. Start wipes
// callback registrations, so the timeout hook is re-registered every turn.
// The callback captures the turn it was armed for: a timeout that fires
// just as a speech advances the cycle must not advance it a second time.
func (s *Service) armTurnTimer(sess *session) {
	roomID := sess.room.ID
	turn := sess.cycle.CurrentTurnNumber()
	s.timers.Start(roomID, s.cfg.TurnSeconds)
	s.timers.OnTimeout(roomID, func() { s.turnTimedOut(roomID, turn) })
}

func (s *Service) armVotingTimer(sess *session) {
	roomID := sess.room.ID
	s.timers.Start(roomID, s.cfg.VotingSeconds)
	s.timers.OnTimeout(roomID, func() { s.votingTimedOut(roomID) })
}

// turnTimedOut advances past a speaker who ran out the clock.
func (s *Service) turnTimedOut(roomID string, turn int) {
	sess, err := s.get(roomID)
	if err != nil {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.room.Phase != domain.PhaseDiscussion || sess.cycle == nil {
		return
	}
	if sess.cycle.CurrentTurnNumber() != turn {
		// A speech landed before the lock was taken; the timer has
		// already been re-armed for the new turn.
		return
	}
	s.log.Debug("turn timed out for %s in room %s", sess.cycle.CurrentPlayer(), roomID)
	if sess.cycle.NextTurn() {
		s.armTurnTimer(sess)
		sess.outbox = append(sess.outbox, turnChangedEvent(sess))
	} else {
		sess.outbox = append(sess.outbox, s.beginVoting(sess)...)
	}
}

// votingTimedOut settles the round with whatever ballots arrived. A ledger
// failure keeps the room in VOTING and re-arms the timer for another
// attempt.
func (s *Service) votingTimedOut(roomID string) {
	sess, err := s.get(roomID)
	if err != nil {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.room.Phase != domain.PhaseVoting {
		return
	}
	events, err := s.finalize(context.Background(), sess, false)
	if err != nil {
		s.log.Error("settlement on voting timeout failed for room %s: %v", roomID, err)
		s.armVotingTimer(sess)
		return
	}
	sess.outbox = append(sess.outbox, events...)
}

// beginVoting runs the DISCUSSION -> VOTING transition. Caller holds the
// session lock.
func (s *Service) beginVoting(sess *session) []Event {
	sess.room.Phase = domain.PhaseVoting
	s.armVotingTimer(sess)
	return []Event{{
		Kind: EventVotingStarted,
		Payload: VotingStartedPayload{
			DurationSeconds: s.cfg.VotingSeconds,
			Candidates:      activeIDs(sess),
		},
	}}
}

// finalize runs the transition into RESULT. Scores are committed before
// the room leaves VOTING: if the ledger rejects the batch the room state
// is unchanged and the error surfaces to the caller. Caller holds the
// session lock.
func (s *Service) finalize(ctx context.Context, sess *session, aborted bool) ([]Event, error) {
	roomID := sess.room.ID

	payload := GameEndedPayload{
		Roles:   make(map[string]domain.Role, len(sess.roles)),
		Aborted: aborted,
	}
	for id, asg := range sess.roles {
		payload.Roles[id] = asg.Role
	}

	if !aborted {
		liarID := ""
		if len(sess.liarIDs) > 0 {
			liarID = sess.liarIDs[0]
		}
		result := game.CalculateResult(game.ResultInput{
			Votes:              s.tally.Votes(roomID),
			Players:            playerIDsInJoinOrder(sess),
			LiarID:             liarID,
			Nicknames:          nicknames(sess),
			LiarGuessedKeyword: sess.guessCorrect,
		})
		if err := s.ledger.BulkUpdateScores(ctx, result.ScoreChanges); err != nil {
			return nil, fmt.Errorf("commit score batch: %w", err)
		}
		payload.Winner = result.Winner
		payload.LiarID = result.LiarID
		payload.MostVotedID = result.MostVotedID
		payload.VoteResults = result.VoteCounts
		payload.ScoreChanges = result.ScoreChanges
	} else if len(sess.liarIDs) > 0 {
		payload.LiarID = sess.liarIDs[0]
	}

	s.timers.Stop(roomID)
	s.tally.Clear(roomID)
	sess.cycle = nil
	sess.room.Status = domain.StatusFinished
	sess.room.Phase = domain.PhaseResult

	return []Event{{Kind: EventGameEnded, Payload: payload}}, nil
}

/* ---- read models ---- */

// Snapshot is a point-in-time public view of a session.
type Snapshot struct {
	Room          RoomPayload     `json:"room"`
	Players       []PlayerPayload `json:"players"`
	CurrentPlayer string          `json:"current_player,omitempty"`
	PendingVoters []string        `json:"pending_voters,omitempty"`
}

// Snapshot returns the public view of the room.
func (s *Service) Snapshot(roomID string) (Snapshot, error) {
	sess, err := s.get(roomID)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	snap := Snapshot{
		Room:    roomPayload(sess),
		Players: playerPayloads(sess),
	}
	if sess.room.Phase == domain.PhaseDiscussion && sess.cycle != nil {
		snap.CurrentPlayer = sess.cycle.CurrentPlayer()
	}
	if sess.room.Phase == domain.PhaseVoting {
		for _, id := range activeIDs(sess) {
			if !sess.players[id].HasVoted {
				snap.PendingVoters = append(snap.PendingVoters, id)
			}
		}
	}
	return snap, nil
}

// BotView is the private view a bot agent needs to act: whether it speaks
// now, what it knows about the keyword, and whom it could vote for.
type BotView struct {
	Phase            domain.GamePhase
	IsCurrentSpeaker bool
	KnowsKeyword     bool
	Keyword          string
	Category         string
	Candidates       []string
	HasVoted         bool
}

// BotView returns the acting view for one (bot) player.
func (s *Service) BotView(roomID, userID string) (BotView, error) {
	sess, err := s.get(roomID)
	if err != nil {
		return BotView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	player, ok := sess.players[userID]
	if !ok {
		return BotView{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, userID)
	}

	view := BotView{
		Phase:    sess.room.Phase,
		Category: sess.keyword.Category,
		HasVoted: player.HasVoted,
	}
	if player.Role == domain.RoleCivilian {
		view.KnowsKeyword = true
		view.Keyword = sess.keyword.Keyword
	}
	if sess.room.Phase == domain.PhaseDiscussion && sess.cycle != nil {
		view.IsCurrentSpeaker = sess.cycle.CurrentPlayer() == userID
	}
	for _, id := range activeIDs(sess) {
		if id != userID {
			view.Candidates = append(view.Candidates, id)
		}
	}
	return view, nil
}

/* ---- session helpers (caller holds the session lock) ---- */

func (s *Service) allActiveVoted(sess *session) bool {
	active := activeIDs(sess)
	if len(active) == 0 {
		return false
	}
	for _, id := range active {
		if !sess.players[id].HasVoted {
			return false
		}
	}
	return true
}

func turnChangedEvent(sess *session) Event {
	return Event{
		Kind: EventTurnChanged,
		Payload: TurnChangedPayload{
			CurrentPlayer:    sess.cycle.CurrentPlayer(),
			TurnOrder:        sess.cycle.TurnOrder(),
			TurnNumber:       sess.cycle.CurrentTurnNumber(),
			Round:            sess.cycle.CurrentRound(),
			RemainingSeconds: int(sess.cycle.RemainingTime() / time.Second),
		},
	}
}

func roomPayload(sess *session) RoomPayload {
	return RoomPayload{
		ID:          sess.room.ID,
		Code:        sess.room.Code,
		Status:      sess.room.Status,
		Phase:       sess.room.Phase,
		MinPlayers:  sess.room.MinPlayers,
		MaxPlayers:  sess.room.MaxPlayers,
		PlayerCount: len(sess.players),
		HostID:      sess.room.HostID,
	}
}

func playerPayload(p *domain.Player) PlayerPayload {
	return PlayerPayload{
		UserID:    p.UserID,
		Nickname:  p.Nickname,
		Status:    p.Status,
		IsHost:    p.IsHost,
		HasVoted:  p.HasVoted,
		JoinOrder: p.JoinOrder,
	}
}

func playerPayloads(sess *session) []PlayerPayload {
	out := make([]PlayerPayload, 0, len(sess.players))
	for _, id := range playerIDsInJoinOrder(sess) {
		out = append(out, playerPayload(sess.players[id]))
	}
	return out
}

func playerIDsInJoinOrder(sess *session) []string {
	ids := make([]string, 0, len(sess.players))
	for id := range sess.players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return sess.players[ids[i]].JoinOrder < sess.players[ids[j]].JoinOrder
	})
	return ids
}

func activeIDs(sess *session) []string {
	ids := make([]string, 0, len(sess.players))
	for _, id := range playerIDsInJoinOrder(sess) {
		if sess.players[id].Active() {
			ids = append(ids, id)
		}
	}
	return ids
}

func nicknames(sess *session) map[string]string {
	out := make(map[string]string, len(sess.players))
	for id, p := range sess.players {
		out[id] = p.Nickname
	}
	return out
}
