package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strings"
	"time"

	"liargame/internal/app"
	"liargame/internal/bot"
	"liargame/internal/config"
	"liargame/internal/domain"
	"liargame/internal/game"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

// matchLabel is the JSON label Nakama indexes for match listing queries.
type matchLabel struct {
	Game  string `json:"game"`
	Phase string `json:"phase"`
	Open  int    `json:"open"`
	Code  string `json:"code"`
}

// MatchState holds the authoritative runtime state for one Nakama match.
// The game itself lives inside the app service; this layer keeps only
// transport concerns: presences, bot pacing and the last published label.
type MatchState struct {
	RoomID    string
	Code      string
	Tick      int64
	Presences map[string]runtime.Presence
	App       *app.Service
	Cfg       config.Game
	Grants    *app.GrantService

	Bots                map[string]*bot.Agent
	BotSpeechWaitUntil  int64
	BotVoteWaitUntil    map[string]int64
	LastSingleHumanTick int64

	LastLabel string
	Rng       *rand.Rand
}

// HumanCount returns the number of connected human players.
func (ms *MatchState) HumanCount() int {
	count := 0
	for id := range ms.Presences {
		if !bot.IsBot(id) {
			count++
		}
	}
	return count
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// Inbound message payloads, JSON-encoded by clients.
type speechRequest struct {
	Content string `json:"content"`
}

type voteRequest struct {
	TargetID string `json:"target_user_id"`
}

type guessRequest struct {
	Keyword string `json:"keyword"`
}

type readyRequest struct {
	Ready bool `json:"ready"`
}

type errorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	cfg, err := config.Load("data/game_config.json")
	if err != nil {
		logger.Warn("MatchInit: Could not load game config, using defaults: %v", err)
		cfg = config.Default()
	}
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		cfg.ApplyEnvMap(env)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("MatchInit: Invalid game config: %v", err)
		return nil, 0, ""
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	keywords, err := game.LoadKeywordPool("data/keywords.json", rng)
	if err != nil {
		logger.Warn("MatchInit: Could not load keyword pool, using built-in entries: %v", err)
		keywords = game.NewKeywordPool(nil, rng)
	}

	roomID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	if roomID == "" {
		roomID = uuid.NewString()
	}
	code, _ := params["code"].(string)
	if code == "" {
		code = strings.ToUpper(uuid.NewString()[:6])
	}

	state := &MatchState{
		RoomID:           roomID,
		Code:             code,
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(cfg, NewWalletLedger(nk), keywords, logger, rng),
		Cfg:              cfg,
		Bots:             make(map[string]*bot.Agent),
		BotVoteWaitUntil: make(map[string]int64),
		Rng:              rng,
	}
	if cfg.GrantSecret != "" {
		state.Grants = app.NewGrantService(cfg.GrantSecret, "liargame", time.Duration(cfg.GrantTTLSeconds)*time.Second)
	}

	if err := state.App.CreateSession(roomID, code); err != nil {
		logger.Error("MatchInit: Failed to create session: %v", err)
		return nil, 0, ""
	}

	label := matchLabel{Game: labelGameValue, Phase: string(domain.PhaseLobby), Open: cfg.MaxPlayers, Code: code}
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.LastLabel = string(labelBytes)

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	snap, err := matchState.App.Snapshot(matchState.RoomID)
	if err != nil {
		return matchState, false, "room unavailable"
	}
	if snap.Room.Status != domain.StatusWaiting {
		return matchState, false, "game in progress"
	}
	if snap.Room.PlayerCount >= snap.Room.MaxPlayers {
		return matchState, false, "match full"
	}

	// Grant-protected rooms require a valid token in the join metadata.
	// Tokens bind to both the room and the joining user.
	if matchState.Grants != nil {
		if err := matchState.Grants.Verify(metadata["grant"], matchState.RoomID, presence.GetUserId()); err != nil {
			logger.Warn("MatchJoinAttempt: Rejecting %s, invalid join grant: %v", presence.GetUserId(), err)
			return matchState, false, "invalid join grant"
		}
	}

	return matchState, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		events, err := matchState.App.PlayerJoined(matchState.RoomID, p.GetUserId(), p.GetUsername(), false)
		if err != nil {
			logger.Warn("MatchJoin: Could not seat %s: %v", p.GetUserId(), err)
			continue
		}
		mh.broadcastEvents(matchState, dispatcher, logger, events)
		mh.sendSnapshot(matchState, dispatcher, logger, p)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		events, err := matchState.App.PlayerLeft(ctx, matchState.RoomID, p.GetUserId())
		if err != nil {
			logger.Warn("MatchLeave: %s: %v", p.GetUserId(), err)
			continue
		}
		mh.broadcastEvents(matchState, dispatcher, logger, events)
	}

	if matchState.HumanCount() == 0 {
		logger.Info("MatchLeave: Terminating match with no humans.")
		matchState.App.CloseSession(matchState.RoomID)
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg)
	}

	// Timer callbacks (turn timeouts, voting timeouts) run on their own
	// goroutines and park their events in the session outbox; publish them
	// from the match loop so all dispatcher use stays on this thread.
	if drained := matchState.App.DrainEvents(matchState.RoomID); len(drained) > 0 {
		mh.broadcastEvents(matchState, dispatcher, logger, drained)
	}

	if matchState.Cfg.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) handleMessage(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var events []app.Event
	var err error

	switch msg.GetOpCode() {
	case OpStartGame:
		events, err = state.App.StartGame(state.RoomID, senderID)
	case OpSubmitSpeech:
		var req speechRequest
		if err = json.Unmarshal(msg.GetData(), &req); err == nil {
			events, err = state.App.SubmitSpeech(state.RoomID, senderID, req.Content)
		}
	case OpSubmitVote:
		var req voteRequest
		if err = json.Unmarshal(msg.GetData(), &req); err == nil {
			events, err = state.App.CastVote(ctx, state.RoomID, senderID, req.TargetID)
		}
	case OpSubmitGuess:
		var req guessRequest
		if err = json.Unmarshal(msg.GetData(), &req); err == nil {
			err = state.App.SubmitGuess(state.RoomID, senderID, req.Keyword)
		}
	case OpEndGame:
		events, err = state.App.EndGame(state.RoomID, senderID)
	case OpRestartGame:
		events, err = state.App.RestartGame(state.RoomID, senderID)
	case OpSetReady:
		var req readyRequest
		if err = json.Unmarshal(msg.GetData(), &req); err == nil {
			events, err = state.App.SetReady(state.RoomID, senderID, req.Ready)
		}
	default:
		logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		return
	}

	// Events that arrived before the failure (e.g. the last ballot when
	// settlement is down) still go out.
	mh.broadcastEvents(state, dispatcher, logger, events)
	if err != nil {
		logger.Warn("MatchLoop: Op %d from %s failed: %v", msg.GetOpCode(), senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
	}
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	snap, err := state.App.Snapshot(state.RoomID)
	if err != nil {
		return
	}

	switch snap.Room.Status {
	case domain.StatusWaiting:
		mh.autoFillLobby(state, dispatcher, logger, snap)
	case domain.StatusPlaying:
		if snap.Room.Phase == domain.PhaseDiscussion {
			mh.botSpeech(state, dispatcher, logger, snap)
		}
		if snap.Room.Phase == domain.PhaseVoting {
			mh.botVotes(ctx, state, dispatcher, logger, snap)
		}
	}
}

// autoFillLobby adds bots up to the minimum player count when a lone human
// has been waiting long enough.
func (mh *matchHandler) autoFillLobby(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, snap app.Snapshot) {
	if state.HumanCount() != 1 || snap.Room.PlayerCount >= state.Cfg.MinPlayers {
		state.LastSingleHumanTick = 0
		return
	}
	if state.LastSingleHumanTick == 0 {
		state.LastSingleHumanTick = state.Tick
		logger.Debug("processBots: Single player detected, starting auto-fill timer.")
		return
	}
	if state.Tick-state.LastSingleHumanTick < int64(state.Cfg.BotAutoFillDelaySeconds) {
		return
	}

	for i := snap.Room.PlayerCount; i < state.Cfg.MinPlayers; i++ {
		identity := bot.GetBotIdentity(i)
		events, err := state.App.PlayerJoined(state.RoomID, identity.UserID, identity.DisplayName, true)
		if err != nil {
			logger.Error("processBots: Failed to seat bot %s: %v", identity.UserID, err)
			break
		}
		state.Bots[identity.UserID] = bot.NewAgent(identity.UserID, identity.DisplayName, state.Rng)
		logger.Info("processBots: Added bot %s (%s)", identity.DisplayName, identity.UserID)
		mh.broadcastEvents(state, dispatcher, logger, events)
	}
	state.LastSingleHumanTick = 0
}

// botSpeech submits a statement for a bot speaker after a short random
// delay so bot turns read at a human pace.
func (mh *matchHandler) botSpeech(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, snap app.Snapshot) {
	agent, ok := state.Bots[snap.CurrentPlayer]
	if !ok {
		state.BotSpeechWaitUntil = 0
		return
	}

	if state.BotSpeechWaitUntil == 0 {
		delay := state.Rng.Intn(state.Cfg.BotMaxDelaySeconds-state.Cfg.BotMinDelaySeconds+1) + state.Cfg.BotMinDelaySeconds
		state.BotSpeechWaitUntil = state.Tick + int64(delay)
		return
	}
	if state.Tick < state.BotSpeechWaitUntil {
		return
	}
	state.BotSpeechWaitUntil = 0

	view, err := state.App.BotView(state.RoomID, agent.ID)
	if err != nil {
		logger.Error("processBots: No view for bot %s: %v", agent.ID, err)
		return
	}
	events, err := state.App.SubmitSpeech(state.RoomID, agent.ID, agent.Speech(view.Category, view.KnowsKeyword))
	if err != nil {
		logger.Warn("processBots: Bot %s speech rejected: %v", agent.ID, err)
		return
	}
	mh.broadcastEvents(state, dispatcher, logger, events)
}

// botVotes casts ballots for bots that have not voted yet, each after its
// own random delay.
func (mh *matchHandler) botVotes(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, snap app.Snapshot) {
	for _, id := range snap.PendingVoters {
		agent, ok := state.Bots[id]
		if !ok {
			continue
		}

		waitUntil, armed := state.BotVoteWaitUntil[id]
		if !armed {
			delay := state.Rng.Intn(state.Cfg.BotMaxDelaySeconds-state.Cfg.BotMinDelaySeconds+1) + state.Cfg.BotMinDelaySeconds
			state.BotVoteWaitUntil[id] = state.Tick + int64(delay)
			continue
		}
		if state.Tick < waitUntil {
			continue
		}
		delete(state.BotVoteWaitUntil, id)

		view, err := state.App.BotView(state.RoomID, id)
		if err != nil || view.HasVoted {
			continue
		}
		target := agent.Vote(view.Candidates)
		if target == "" {
			continue
		}
		events, err := state.App.CastVote(ctx, state.RoomID, id, target)
		if err != nil {
			logger.Warn("processBots: Bot %s vote rejected: %v", id, err)
		}
		mh.broadcastEvents(state, dispatcher, logger, events)
	}
}

// eventOpCodes maps session events to wire opcodes.
var eventOpCodes = map[app.EventKind]int64{
	app.EventPlayerJoined:    OpPlayerJoined,
	app.EventPlayerLeft:      OpPlayerLeft,
	app.EventPlayerReady:     OpPlayerReady,
	app.EventGameStarted:     OpGameStarted,
	app.EventRoleAssigned:    OpRoleAssigned,
	app.EventTurnChanged:     OpTurnChanged,
	app.EventSpeechSubmitted: OpSpeechSubmitted,
	app.EventVotingStarted:   OpVotingStarted,
	app.EventVoteSubmitted:   OpVoteSubmitted,
	app.EventGameEnded:       OpGameEnded,
	app.EventRoomReset:       OpRoomReset,
}

func (mh *matchHandler) broadcastEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

// broadcastEvent publishes one session event. Targeted events reach only
// their named recipients; a targeted event whose recipients are all bots
// (no connected presence) is dropped, never widened to a broadcast.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := eventOpCodes[ev.Kind]
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// sendSnapshot delivers the current room view to a single presence.
func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, presence runtime.Presence) {
	snap, err := state.App.Snapshot(state.RoomID)
	if err != nil {
		logger.Error("Failed to snapshot room %s: %v", state.RoomID, err)
		return
	}
	bytes, err := json.Marshal(snap)
	if err != nil {
		logger.Error("Failed to marshal snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpMatchSnapshot, bytes, []runtime.Presence{presence}, nil, true)
}

// sendError delivers a classified error to the offending user only.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, cause error) {
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}

	payload := errorEvent{Code: errorCode(cause), Message: cause.Error()}
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal error event: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func errorCode(err error) int {
	switch app.Classify(err) {
	case app.KindValidation:
		return 400
	case app.KindUnauthorized:
		return 403
	case app.KindNotFound:
		return 404
	case app.KindConflict:
		return 409
	default:
		return 500
	}
}

// updateLabel republishes the match label when the open seat count or
// phase changed since the last publish.
func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	snap, err := state.App.Snapshot(state.RoomID)
	if err != nil {
		return
	}

	label := matchLabel{
		Game:  labelGameValue,
		Phase: string(snap.Room.Phase),
		Open:  snap.Room.MaxPlayers - snap.Room.PlayerCount,
		Code:  state.Code,
	}
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if string(labelBytes) == state.LastLabel {
		return
	}

	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.LastLabel = string(labelBytes)
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	if matchState, ok := state.(*MatchState); ok {
		matchState.App.CloseSession(matchState.RoomID)
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
