package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

// GrantService issues and verifies signed join grants for rooms. A grant
// binds a user to a room for a limited time; the transport layer checks it
// on join attempts for grant-protected rooms.
type GrantService struct {
	secret string
	issuer string
	ttl    time.Duration
}

// NewGrantService constructs a grant service. ttl <= 0 defaults to five
// minutes.
func NewGrantService(secret, issuer string, ttl time.Duration) *GrantService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &GrantService{secret: secret, issuer: issuer, ttl: ttl}
}

// Issue signs a join grant for the given room and user.
func (s *GrantService) Issue(roomID, userID string) (string, error) {
	if s == nil || s.secret == "" {
		return "", fmt.Errorf("grant service is not configured")
	}
	if roomID == "" || userID == "" {
		return "", fmt.Errorf("room and user are required")
	}

	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  userID,
		"exp":  time.Now().Add(s.ttl).Unix(),
		"jti":  uuid.NewString(),
		"room": roomID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks a grant's signature, expiry and room/user binding.
func (s *GrantService) Verify(tokenString, roomID, userID string) error {
	if s == nil || s.secret == "" {
		return fmt.Errorf("grant service is not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return fmt.Errorf("invalid join grant: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid join grant claims")
	}
	if got, _ := claims["room"].(string); got != roomID {
		return fmt.Errorf("join grant is for another room")
	}
	if got, _ := claims["sub"].(string); got != userID {
		return fmt.Errorf("join grant is for another user")
	}
	return nil
}
