package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// Game holds the tunable rules for liar-game rooms.
type Game struct {
	MinPlayers    int `json:"min_players" env:"LIARGAME_MIN_PLAYERS"`
	MaxPlayers    int `json:"max_players" env:"LIARGAME_MAX_PLAYERS"`
	LiarCount     int `json:"liar_count" env:"LIARGAME_LIAR_COUNT"`
	TurnSeconds   int `json:"turn_seconds" env:"LIARGAME_TURN_SECONDS"`
	VotingSeconds int `json:"voting_seconds" env:"LIARGAME_VOTING_SECONDS"`
	Rounds        int `json:"rounds" env:"LIARGAME_ROUNDS"`

	BotsEnabled             bool `json:"bots_enabled" env:"LIARGAME_BOTS_ENABLED"`
	BotAutoFillDelaySeconds int  `json:"bot_auto_fill_delay_seconds" env:"LIARGAME_BOT_AUTO_FILL_DELAY_SEC"`
	BotMinDelaySeconds      int  `json:"bot_min_delay_seconds" env:"LIARGAME_BOT_MIN_DELAY_SEC"`
	BotMaxDelaySeconds      int  `json:"bot_max_delay_seconds" env:"LIARGAME_BOT_MAX_DELAY_SEC"`

	GrantSecret     string `json:"-" env:"LIARGAME_GRANT_SECRET"`
	GrantTTLSeconds int    `json:"grant_ttl_seconds" env:"LIARGAME_GRANT_TTL_SEC"`
}

// Default returns the stock rules.
func Default() Game {
	return Game{
		MinPlayers:              3,
		MaxPlayers:              8,
		LiarCount:               1,
		TurnSeconds:             30,
		VotingSeconds:           30,
		Rounds:                  1,
		BotAutoFillDelaySeconds: 5,
		BotMinDelaySeconds:      1,
		BotMaxDelaySeconds:      3,
		GrantTTLSeconds:         300,
	}
}

// Load reads rules from a JSON file layered over the defaults.
func Load(path string) (Game, error) {
	g := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return g, fmt.Errorf("failed to read game config: %w", err)
	}
	if err := json.Unmarshal(data, &g); err != nil {
		return g, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	return g, nil
}

// FromEnv reads rules from process environment variables layered over the
// defaults.
func FromEnv() (Game, error) {
	g := Default()
	if err := env.Parse(&g); err != nil {
		return g, fmt.Errorf("failed to parse game config from env: %w", err)
	}
	return g, nil
}

// ApplyEnvMap overrides rules from a runtime-provided env map, for hosts
// that expose configuration through a context value rather than the process
// environment. Unparseable values are ignored.
func (g *Game) ApplyEnvMap(vars map[string]string) {
	setInt := func(key string, dst *int) {
		if val, ok := vars[key]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				*dst = i
			}
		}
	}
	setInt("LIARGAME_MIN_PLAYERS", &g.MinPlayers)
	setInt("LIARGAME_MAX_PLAYERS", &g.MaxPlayers)
	setInt("LIARGAME_LIAR_COUNT", &g.LiarCount)
	setInt("LIARGAME_TURN_SECONDS", &g.TurnSeconds)
	setInt("LIARGAME_VOTING_SECONDS", &g.VotingSeconds)
	setInt("LIARGAME_ROUNDS", &g.Rounds)
	setInt("LIARGAME_BOT_AUTO_FILL_DELAY_SEC", &g.BotAutoFillDelaySeconds)
	setInt("LIARGAME_BOT_MIN_DELAY_SEC", &g.BotMinDelaySeconds)
	setInt("LIARGAME_BOT_MAX_DELAY_SEC", &g.BotMaxDelaySeconds)
	setInt("LIARGAME_GRANT_TTL_SEC", &g.GrantTTLSeconds)
	if val, ok := vars["LIARGAME_BOTS_ENABLED"]; ok {
		g.BotsEnabled = val == "true"
	}
	if val, ok := vars["LIARGAME_GRANT_SECRET"]; ok {
		g.GrantSecret = val
	}
}

// Validate rejects rule combinations the engine cannot run with.
func (g Game) Validate() error {
	if g.MinPlayers < 2 {
		return fmt.Errorf("min_players must be at least 2, got %d", g.MinPlayers)
	}
	if g.MaxPlayers < g.MinPlayers {
		return fmt.Errorf("max_players %d is below min_players %d", g.MaxPlayers, g.MinPlayers)
	}
	if g.LiarCount < 1 || g.LiarCount >= g.MinPlayers {
		return fmt.Errorf("liar_count must be in [1, min_players), got %d", g.LiarCount)
	}
	if g.TurnSeconds < 5 || g.TurnSeconds > 600 {
		return fmt.Errorf("turn_seconds must be in [5, 600], got %d", g.TurnSeconds)
	}
	if g.VotingSeconds < 5 || g.VotingSeconds > 600 {
		return fmt.Errorf("voting_seconds must be in [5, 600], got %d", g.VotingSeconds)
	}
	if g.Rounds < 1 || g.Rounds > 10 {
		return fmt.Errorf("rounds must be in [1, 10], got %d", g.Rounds)
	}
	if g.BotMaxDelaySeconds < g.BotMinDelaySeconds {
		return fmt.Errorf("bot_max_delay_seconds %d is below bot_min_delay_seconds %d", g.BotMaxDelaySeconds, g.BotMinDelaySeconds)
	}
	return nil
}
