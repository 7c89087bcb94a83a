package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// BotIdentity is a pre-provisioned bot profile.
type BotIdentity struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

var (
	botIdentities []BotIdentity
	botIDMap      map[string]bool
	botDisplayMap map[string]string
	loadOnce      sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from the given path. Safe to call
// more than once; only the first call reads the file.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("read bot identities: %w", err)
			return
		}
		if err := json.Unmarshal(data, &botIdentities); err != nil {
			loadErr = fmt.Errorf("unmarshal bot identities: %w", err)
			return
		}

		botIDMap = make(map[string]bool)
		botDisplayMap = make(map[string]string)
		for _, identity := range botIdentities {
			if identity.UserID == "" {
				continue
			}
			botIDMap[identity.UserID] = true
			botDisplayMap[identity.UserID] = identity.DisplayName
		}
	})
	return loadErr
}

// GetBotIdentity returns an identity for a bot by index (mod pool size).
// Falls back to a generated identity when no roster was loaded.
func GetBotIdentity(index int) BotIdentity {
	if len(botIdentities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			Username:    fmt.Sprintf("bot_%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
		}
	}
	return botIdentities[index%len(botIdentities)]
}

// GetBotDisplayName returns the display name for a bot ID, or an empty
// string when the id is not a bot.
func GetBotDisplayName(userID string) string {
	if botDisplayMap == nil {
		return ""
	}
	return botDisplayMap[userID]
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	if botIDMap != nil && botIDMap[userID] {
		return true
	}
	return strings.HasPrefix(userID, "bot-")
}
