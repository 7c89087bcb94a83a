package bot

import (
	"math/rand"
	"testing"
)

func TestAgentSpeechNeverEmpty(t *testing.T) {
	agent := NewAgent("bot-0", "AI Player 0", rand.New(rand.NewSource(1)))

	for i := 0; i < 20; i++ {
		if s := agent.Speech("animals", true); s == "" {
			t.Fatalf("keyword speech was empty")
		}
		if s := agent.Speech("animals", false); s == "" {
			t.Fatalf("bluff speech was empty")
		}
		if s := agent.Speech("", false); s == "" {
			t.Fatalf("bluff speech without category was empty")
		}
	}
}

func TestAgentVotePicksCandidate(t *testing.T) {
	agent := NewAgent("bot-0", "AI Player 0", rand.New(rand.NewSource(1)))
	candidates := []string{"u1", "u2", "u3"}

	for i := 0; i < 50; i++ {
		target := agent.Vote(candidates)
		found := false
		for _, c := range candidates {
			if c == target {
				found = true
			}
		}
		if !found {
			t.Fatalf("Vote() = %q, not in candidates %v", target, candidates)
		}
	}

	if target := agent.Vote(nil); target != "" {
		t.Fatalf("Vote(nil) = %q, want empty", target)
	}
}

func TestIsBotPrefixFallback(t *testing.T) {
	if !IsBot("bot-3") {
		t.Fatalf("IsBot(bot-3) = false, want true")
	}
	if IsBot("user-1") {
		t.Fatalf("IsBot(user-1) = true, want false")
	}
}
