package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"liargame/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting an
// open room.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// JoinGrantRequest asks for a join token bound to one match.
type JoinGrantRequest struct {
	MatchID string `json:"match_id"`
}

// JoinGrantResponse carries the signed join token.
type JoinGrantResponse struct {
	Token string `json:"token"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcJoinGrant, rpcJoinGrant)
}

// rpcQuickMatch finds an open lobby for this game, creating one when none
// exists. Seat assignment stays server-authoritative in MatchJoin.
func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	limit := 10
	authoritative := true

	// Room capacity is config-driven, so no size bounds here; the label's
	// open-seat count already filters out full rooms.
	matches, err := nk.MatchList(ctx, limit, authoritative, "", nil, nil, quickMatchQuery)
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", err
	}

	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameLiarGame, map[string]interface{}{})
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}

	resp := QuickMatchResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}

// rpcJoinGrant issues a short-lived token the caller presents in the join
// metadata under the "grant" key. Requires LIARGAME_GRANT_SECRET in the
// runtime environment.
func rpcJoinGrant(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", errors.New("no user in context")
	}

	var req JoinGrantRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.MatchID == "" {
		return "", errors.New("invalid join grant request")
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	secret := env["LIARGAME_GRANT_SECRET"]
	if secret == "" {
		return "", errors.New("join grants not configured")
	}
	ttl := 5 * time.Minute

	grants := app.NewGrantService(secret, "liargame", ttl)
	token, err := grants.Issue(req.MatchID, userID)
	if err != nil {
		logger.Error("rpcJoinGrant [User:%s]: Failed to issue token: %v", userID, err)
		return "", err
	}

	b, _ := json.Marshal(JoinGrantResponse{Token: token})
	return string(b), nil
}
