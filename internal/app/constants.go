package app

// Input limits enforced before any state mutation. Keep these centralized
// so tests or local runs can adjust the rule without touching call sites.
const (
	// MaxSpeechLength caps a single discussion speech.
	MaxSpeechLength = 500
	// MaxGuessLength caps the liar's keyword guess.
	MaxGuessLength = 100
)
