package app

import (
	"testing"
	"time"
)

func TestGrantIssueVerifyRoundTrip(t *testing.T) {
	grants := NewGrantService("test-secret", "liargame", time.Minute)

	token, err := grants.Issue("room-1", "u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if err := grants.Verify(token, "room-1", "u1"); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
}

func TestGrantBindings(t *testing.T) {
	grants := NewGrantService("test-secret", "liargame", time.Minute)
	token, err := grants.Issue("room-1", "u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if err := grants.Verify(token, "room-2", "u1"); err == nil {
		t.Fatalf("grant accepted for another room")
	}
	if err := grants.Verify(token, "room-1", "u2"); err == nil {
		t.Fatalf("grant accepted for another user")
	}

	other := NewGrantService("other-secret", "liargame", time.Minute)
	if err := other.Verify(token, "room-1", "u1"); err == nil {
		t.Fatalf("grant accepted across secrets")
	}
}

func TestGrantExpiry(t *testing.T) {
	grants := NewGrantService("test-secret", "liargame", time.Nanosecond)
	token, err := grants.Issue("room-1", "u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Expiry has one-second granularity in the token claims.
	time.Sleep(1100 * time.Millisecond)
	if err := grants.Verify(token, "room-1", "u1"); err == nil {
		t.Fatalf("expired grant accepted")
	}
}

func TestGrantRequiresConfiguration(t *testing.T) {
	grants := NewGrantService("", "liargame", time.Minute)
	if _, err := grants.Issue("room-1", "u1"); err == nil {
		t.Fatalf("unconfigured service issued a grant")
	}
	if _, err := NewGrantService("s", "liargame", time.Minute).Issue("", "u1"); err == nil {
		t.Fatalf("grant issued without a room")
	}
}
