package auth

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func signedToken(s *HMACStrategy, payload string) string {
	return tokenEncoding.EncodeToString([]byte(payload)) + "." + s.sign(payload)
}

func TestNewHMACStrategy_TTL(t *testing.T) {
	if ttl := NewHMACStrategy("secret", Options{}).ttl; ttl != 24*time.Hour {
		t.Fatalf("unexpected default ttl: %s", ttl)
	}
	if ttl := NewHMACStrategy("secret", Options{TTL: 2 * time.Hour}).ttl; ttl != 2*time.Hour {
		t.Fatalf("unexpected custom ttl: %s", ttl)
	}
}

func TestHMACStrategy_IssueAndParse(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if strings.Count(token, ".") != 1 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	userID, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if userID != 42 {
		t.Fatalf("unexpected user id: %d", userID)
	}
}

func TestHMACStrategy_ParseRejects(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	valid, err := strategy.IssueToken(7)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	future := time.Now().Add(time.Minute).Unix()

	cases := map[string]string{
		"no separator":   "abc",
		"bad encoding":   "%%%." + strategy.sign("x"),
		"tampered":       valid[:strings.Index(valid, ".")] + ".tampered",
		"other secret":   signedToken(NewHMACStrategy("other", Options{}), fmt.Sprintf("7:%d", future)),
		"missing expiry": signedToken(strategy, "7"),
		"bad user id":    signedToken(strategy, fmt.Sprintf("abc:%d", future)),
		"bad expiry":     signedToken(strategy, "7:not-a-number"),
		"expired":        signedToken(strategy, fmt.Sprintf("7:%d", time.Now().Add(-time.Minute).Unix())),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHMACStrategy_UsesClock(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Hour})
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	strategy.now = func() time.Time { return issued }
	token, err := strategy.IssueToken(3)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	strategy.now = func() time.Time { return issued.Add(59 * time.Minute) }
	if _, err := strategy.ParseToken(token); err != nil {
		t.Fatalf("expected token to be valid, got %v", err)
	}
	strategy.now = func() time.Time { return issued.Add(time.Hour) }
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expiry at ttl, got %v", err)
	}
}

func TestHMACStrategy_Name(t *testing.T) {
	if NewHMACStrategy("secret", Options{}).Name() != "hmac" {
		t.Fatal("unexpected name")
	}
}
