package game

import (
	crand "crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"liargame/internal/domain"
)

var (
	// ErrTooFewForRoles is returned when fewer than two players are dealt in.
	ErrTooFewForRoles = errors.New("need at least two players to assign roles")
	// ErrLiarCount is returned when the liar count is not in [1, players).
	ErrLiarCount = errors.New("liar count must be at least 1 and less than the player count")
)

const commitmentSaltBytes = 16

// Assigner partitions a player set into liars and civilians and issues a
// tamper-evident commitment token per player.
type Assigner struct {
	rng *rand.Rand
}

// NewAssigner constructs an Assigner with the provided rng or a time-seeded
// default.
func NewAssigner(rng *rand.Rand) *Assigner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Assigner{rng: rng}
}

// Assign shuffles the player ids and marks the first liarCount of them as
// liars, the rest as civilians. It has no side effects beyond the returned
// map; persisting the assignment is the caller's job.
func (a *Assigner) Assign(playerIDs []string, liarCount int) (map[string]domain.RoleAssignment, error) {
	if len(playerIDs) < 2 {
		return nil, ErrTooFewForRoles
	}
	if liarCount < 1 || liarCount >= len(playerIDs) {
		return nil, fmt.Errorf("%w: liars=%d players=%d", ErrLiarCount, liarCount, len(playerIDs))
	}

	shuffled := append([]string(nil), playerIDs...)
	a.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	assignments := make(map[string]domain.RoleAssignment, len(shuffled))
	for i, id := range shuffled {
		role := domain.RoleCivilian
		if i < liarCount {
			role = domain.RoleLiar
		}
		token, err := newCommitment(role, id)
		if err != nil {
			return nil, err
		}
		assignments[id] = domain.RoleAssignment{
			UserID:     id,
			Role:       role,
			Commitment: token,
		}
	}
	return assignments, nil
}

// newCommitment produces "salt.hash" where hash = SHA-256(salt || "role:playerID").
// The token verifies a role claim but cannot be reversed into the role.
func newCommitment(role domain.Role, playerID string) (string, error) {
	salt := make([]byte, commitmentSaltBytes)
	if _, err := crand.Read(salt); err != nil {
		return "", fmt.Errorf("read commitment salt: %w", err)
	}
	return hex.EncodeToString(salt) + "." + commitmentHash(salt, role, playerID), nil
}

// VerifyCommitment checks a role claim against a commitment token. The
// caller must already know the claimed role and player id; the token only
// proves the claim matches what was committed at deal time.
func VerifyCommitment(token string, role domain.Role, playerID string) bool {
	var saltHex, sum string
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			saltHex, sum = token[:i], token[i+1:]
			break
		}
	}
	if saltHex == "" || sum == "" {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	want := commitmentHash(salt, role, playerID)
	return subtle.ConstantTimeCompare([]byte(want), []byte(sum)) == 1
}

func commitmentHash(salt []byte, role domain.Role, playerID string) string {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(string(role) + ":" + playerID))
	return hex.EncodeToString(h.Sum(nil))
}
