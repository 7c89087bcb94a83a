package nakama

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"

	"liargame/internal/app"
	"liargame/internal/bot"
	"liargame/internal/config"
	"liargame/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy
// the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type broadcast struct {
	opCode     int64
	data       []byte
	recipients []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcasts   []broadcast
	labelUpdates int
	lastLabel    string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcasts = append(md.broadcasts, broadcast{
		opCode:     opCode,
		data:       append([]byte(nil), data...),
		recipients: presences,
	})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = label
	return nil
}

func (md *mockDispatcher) countOp(opCode int64) int {
	count := 0
	for _, b := range md.broadcasts {
		if b.opCode == opCode {
			count++
		}
	}
	return count
}

func (md *mockDispatcher) lastOp(opCode int64) (broadcast, bool) {
	for i := len(md.broadcasts) - 1; i >= 0; i-- {
		if md.broadcasts[i].opCode == opCode {
			return md.broadcasts[i], true
		}
	}
	return broadcast{}, false
}

// mockPresence is a minimal runtime.Presence for tests.
type mockPresence struct {
	userID   string
	username string
}

func (p mockPresence) GetUserId() string                 { return p.userID }
func (p mockPresence) GetSessionId() string              { return "session-" + p.userID }
func (p mockPresence) GetNodeId() string                 { return "node" }
func (p mockPresence) GetHidden() bool                   { return false }
func (p mockPresence) GetPersistence() bool              { return true }
func (p mockPresence) GetUsername() string               { return p.username }
func (p mockPresence) GetStatus() string                 { return "" }
func (p mockPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonJoin }

// mockMatchData wraps a presence with an opcode and payload.
type mockMatchData struct {
	mockPresence
	opCode int64
	data   []byte
}

func (m mockMatchData) GetOpCode() int64      { return m.opCode }
func (m mockMatchData) GetData() []byte       { return m.data }
func (m mockMatchData) GetReliable() bool     { return true }
func (m mockMatchData) GetReceiveTime() int64 { return 0 }

type fakeLedger struct {
	batches [][]domain.ScoreChange
}

func (f *fakeLedger) BulkUpdateScores(_ context.Context, changes []domain.ScoreChange) error {
	f.batches = append(f.batches, changes)
	return nil
}

func newTestState(t *testing.T, ledger *fakeLedger) *MatchState {
	t.Helper()
	cfg := config.Default()
	cfg.BotsEnabled = false
	cfg.TurnSeconds = 60
	cfg.VotingSeconds = 60

	svc := app.NewService(cfg, ledger, nil, noopLogger{}, rand.New(rand.NewSource(1)))
	if err := svc.CreateSession("m1", "ABCD"); err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	return &MatchState{
		RoomID:           "m1",
		Code:             "ABCD",
		Presences:        make(map[string]runtime.Presence),
		App:              svc,
		Cfg:              cfg,
		Bots:             make(map[string]*bot.Agent),
		BotVoteWaitUntil: make(map[string]int64),
		Rng:              rand.New(rand.NewSource(1)),
	}
}

func joinPresences(state *MatchState, dispatcher *mockDispatcher, ids ...string) {
	mh := &matchHandler{}
	presences := make([]runtime.Presence, 0, len(ids))
	for _, id := range ids {
		presences = append(presences, mockPresence{userID: id, username: "nick-" + id})
	}
	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, presences)
}

func TestMatchJoinSeatsPlayersAndBroadcasts(t *testing.T) {
	state := newTestState(t, &fakeLedger{})
	dispatcher := &mockDispatcher{}
	joinPresences(state, dispatcher, "u1", "u2")

	if got := dispatcher.countOp(OpPlayerJoined); got != 2 {
		t.Fatalf("player_joined broadcasts = %d, want 2", got)
	}
	// Each joiner receives a private snapshot.
	if got := dispatcher.countOp(OpMatchSnapshot); got != 2 {
		t.Fatalf("snapshot messages = %d, want 2", got)
	}
	if dispatcher.labelUpdates == 0 {
		t.Fatalf("expected a label update after join")
	}

	b, _ := dispatcher.lastOp(OpPlayerJoined)
	var payload app.PlayerJoinedPayload
	if err := json.Unmarshal(b.data, &payload); err != nil {
		t.Fatalf("unmarshal player_joined: %v", err)
	}
	if payload.Room.PlayerCount != 2 {
		t.Fatalf("player count = %d, want 2", payload.Room.PlayerCount)
	}
}

func TestMatchJoinAttemptRejectsWhilePlaying(t *testing.T) {
	state := newTestState(t, &fakeLedger{})
	dispatcher := &mockDispatcher{}
	joinPresences(state, dispatcher, "u1", "u2", "u3")

	mh := &matchHandler{}
	mh.handleMessage(context.Background(), state, dispatcher, noopLogger{},
		mockMatchData{mockPresence: mockPresence{userID: "u1"}, opCode: OpStartGame})

	_, allowed, reason := mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state,
		mockPresence{userID: "u4"}, nil)
	if allowed {
		t.Fatalf("join allowed during a running game")
	}
	if reason != "game in progress" {
		t.Fatalf("reason = %q, want game in progress", reason)
	}
}

func TestHandleStartGameBroadcastsRolesPrivately(t *testing.T) {
	state := newTestState(t, &fakeLedger{})
	dispatcher := &mockDispatcher{}
	joinPresences(state, dispatcher, "u1", "u2", "u3")

	mh := &matchHandler{}
	mh.handleMessage(context.Background(), state, dispatcher, noopLogger{},
		mockMatchData{mockPresence: mockPresence{userID: "u1"}, opCode: OpStartGame})

	if got := dispatcher.countOp(OpGameStarted); got != 1 {
		t.Fatalf("game_started broadcasts = %d, want 1", got)
	}
	if got := dispatcher.countOp(OpTurnChanged); got != 1 {
		t.Fatalf("turn_changed broadcasts = %d, want 1", got)
	}

	roleMessages := 0
	for _, b := range dispatcher.broadcasts {
		if b.opCode != OpRoleAssigned {
			continue
		}
		roleMessages++
		if len(b.recipients) != 1 {
			t.Fatalf("role message recipients = %d, want 1", len(b.recipients))
		}
		var payload app.RoleAssignedPayload
		if err := json.Unmarshal(b.data, &payload); err != nil {
			t.Fatalf("unmarshal role payload: %v", err)
		}
		if payload.Role == domain.RoleLiar && payload.Keyword != "" {
			t.Fatalf("liar role message carries the keyword")
		}
	}
	if roleMessages != 3 {
		t.Fatalf("role messages = %d, want 3", roleMessages)
	}
}

func TestHandleMessageSendsClassifiedErrors(t *testing.T) {
	state := newTestState(t, &fakeLedger{})
	dispatcher := &mockDispatcher{}
	joinPresences(state, dispatcher, "u1", "u2", "u3")

	mh := &matchHandler{}
	// Non-host tries to start.
	mh.handleMessage(context.Background(), state, dispatcher, noopLogger{},
		mockMatchData{mockPresence: mockPresence{userID: "u2"}, opCode: OpStartGame})

	b, ok := dispatcher.lastOp(OpGameError)
	if !ok {
		t.Fatalf("no error message sent")
	}
	if len(b.recipients) != 1 || b.recipients[0].GetUserId() != "u2" {
		t.Fatalf("error not targeted at the offender")
	}
	var payload errorEvent
	if err := json.Unmarshal(b.data, &payload); err != nil {
		t.Fatalf("unmarshal error payload: %v", err)
	}
	if payload.Code != 403 {
		t.Fatalf("error code = %d, want 403", payload.Code)
	}
}

func TestErrorCodeMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{app.ErrEmptySpeech, 400},
		{app.ErrNotHost, 403},
		{app.ErrRoomNotFound, 404},
		{app.ErrRoomExists, 409},
		{context.Canceled, 500},
	}
	for _, test := range tests {
		if got := errorCode(test.err); got != test.want {
			t.Fatalf("errorCode(%v) = %d, want %d", test.err, got, test.want)
		}
	}
}

func TestProcessBotsAutoFillsSoloLobby(t *testing.T) {
	state := newTestState(t, &fakeLedger{})
	state.Cfg.BotsEnabled = true
	state.Cfg.BotAutoFillDelaySeconds = 2
	dispatcher := &mockDispatcher{}
	joinPresences(state, dispatcher, "u1")

	mh := &matchHandler{}
	state.Tick = 10
	mh.processBots(context.Background(), state, dispatcher, noopLogger{})
	if state.LastSingleHumanTick != 10 {
		t.Fatalf("auto-fill timer not armed, tick = %d", state.LastSingleHumanTick)
	}

	state.Tick = 13
	mh.processBots(context.Background(), state, dispatcher, noopLogger{})

	snap, err := state.App.Snapshot(state.RoomID)
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if snap.Room.PlayerCount != state.Cfg.MinPlayers {
		t.Fatalf("player count after auto-fill = %d, want %d", snap.Room.PlayerCount, state.Cfg.MinPlayers)
	}
	if len(state.Bots) != state.Cfg.MinPlayers-1 {
		t.Fatalf("bot agents = %d, want %d", len(state.Bots), state.Cfg.MinPlayers-1)
	}
	if state.LastSingleHumanTick != 0 {
		t.Fatalf("auto-fill timer not reset after filling")
	}
}

func TestMatchLeaveTerminatesWithoutHumans(t *testing.T) {
	state := newTestState(t, &fakeLedger{})
	dispatcher := &mockDispatcher{}
	joinPresences(state, dispatcher, "u1", "u2")

	mh := &matchHandler{}
	out := mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 5, state,
		[]runtime.Presence{mockPresence{userID: "u1"}})
	if out == nil {
		t.Fatalf("match terminated while a human remained")
	}

	out = mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 6, state,
		[]runtime.Presence{mockPresence{userID: "u2"}})
	if out != nil {
		t.Fatalf("match kept running with no humans")
	}
}

func TestTargetedEventToBotIsDropped(t *testing.T) {
	state := newTestState(t, &fakeLedger{})
	dispatcher := &mockDispatcher{}
	joinPresences(state, dispatcher, "u1", "u2")
	before := len(dispatcher.broadcasts)

	mh := &matchHandler{}
	mh.broadcastEvent(state, dispatcher, noopLogger{}, app.Event{
		Kind:       app.EventRoleAssigned,
		Payload:    app.RoleAssignedPayload{Role: domain.RoleLiar},
		Recipients: []string{"bot-0"},
	})

	if len(dispatcher.broadcasts) != before {
		t.Fatalf("targeted bot event was broadcast")
	}
}
