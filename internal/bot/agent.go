// Package bot provides simple autonomous players used to fill undersized
// lobbies. Civilians hint at the keyword they hold; the liar bluffs off the
// category alone.
package bot

import (
	"fmt"
	"math/rand"
	"time"
)

// Agent is one autonomous bot player.
type Agent struct {
	ID   string
	Name string

	rng *rand.Rand
}

// NewAgent creates an agent for the given bot id. A nil rng gets a
// time-seeded one.
func NewAgent(id, name string, rng *rand.Rand) *Agent {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Agent{ID: id, Name: name, rng: rng}
}

var keywordLines = []string{
	"I use this pretty often, honestly.",
	"Mine is the kind you'd see every week.",
	"It reminds me of something from my childhood.",
	"I think most people here would recognize it right away.",
	"Not going to say too much, but it's a common one.",
}

var bluffLines = []string{
	"It's hard to describe without giving it away.",
	"I'll keep it vague, you all know how this goes.",
	"Let's just say it fits the theme pretty well.",
	"Honestly, mine is nothing special.",
	"I had to think about this one for a while.",
}

// Speech produces a one-line statement for the bot's turn. Bots that know
// the keyword drop a soft hint; the liar leans on category talk.
func (a *Agent) Speech(category string, knowsKeyword bool) string {
	if knowsKeyword {
		return keywordLines[a.rng.Intn(len(keywordLines))]
	}
	if category != "" && a.rng.Intn(2) == 0 {
		return fmt.Sprintf("Something about %s always comes to mind for me.", category)
	}
	return bluffLines[a.rng.Intn(len(bluffLines))]
}

// Vote picks a target uniformly from the candidates, which must exclude the
// bot itself. Returns "" when no candidate exists.
func (a *Agent) Vote(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[a.rng.Intn(len(candidates))]
}
