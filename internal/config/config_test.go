package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game_config.json")
	content := `{"min_players": 4, "turn_seconds": 45}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if g.MinPlayers != 4 {
		t.Fatalf("MinPlayers = %d, want 4", g.MinPlayers)
	}
	if g.TurnSeconds != 45 {
		t.Fatalf("TurnSeconds = %d, want 45", g.TurnSeconds)
	}
	// Untouched keys keep their defaults.
	if g.MaxPlayers != 8 || g.LiarCount != 1 {
		t.Fatalf("defaults not preserved: %+v", g)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	g, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatalf("Load of missing file succeeded")
	}
	if g.MinPlayers != 3 {
		t.Fatalf("missing file did not fall back to defaults: %+v", g)
	}
}

func TestApplyEnvMap(t *testing.T) {
	g := Default()
	g.ApplyEnvMap(map[string]string{
		"LIARGAME_LIAR_COUNT":   "2",
		"LIARGAME_MIN_PLAYERS":  "5",
		"LIARGAME_BOTS_ENABLED": "true",
		"LIARGAME_GRANT_SECRET": "s3cret",
		"LIARGAME_ROUNDS":       "not-a-number",
	})

	if g.LiarCount != 2 || g.MinPlayers != 5 {
		t.Fatalf("env overrides not applied: %+v", g)
	}
	if !g.BotsEnabled {
		t.Fatalf("BotsEnabled = false, want true")
	}
	if g.GrantSecret != "s3cret" {
		t.Fatalf("GrantSecret = %q", g.GrantSecret)
	}
	if g.Rounds != 1 {
		t.Fatalf("unparseable value changed Rounds to %d", g.Rounds)
	}
}

func TestValidateRejectsBadRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Game)
	}{
		{"TooFewPlayers", func(g *Game) { g.MinPlayers = 1 }},
		{"MaxBelowMin", func(g *Game) { g.MaxPlayers = 2 }},
		{"NoLiar", func(g *Game) { g.LiarCount = 0 }},
		{"AllLiars", func(g *Game) { g.LiarCount = 3 }},
		{"TurnTooShort", func(g *Game) { g.TurnSeconds = 1 }},
		{"VotingTooLong", func(g *Game) { g.VotingSeconds = 1000 }},
		{"ZeroRounds", func(g *Game) { g.Rounds = 0 }},
		{"BotDelayInverted", func(g *Game) { g.BotMinDelaySeconds = 5 }},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			g := Default()
			test.mutate(&g)
			if err := g.Validate(); err == nil {
				t.Fatalf("Validate() accepted bad config: %+v", g)
			}
		})
	}
}
