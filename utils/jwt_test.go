package utils

import (
	"testing"
	"time"

	"dencare/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken("user-1", "admin", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	id, role, err := ExtractIdentityFromToken(token)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if id != "user-1" || role != "admin" {
		t.Fatalf("unexpected identity: %s %s", id, role)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken("user-1", "user", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := ExtractIdentityFromToken(token); err == nil {
		t.Fatal("expired token should be rejected")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken("user-1", "user", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	config.AppConfig.JWTSecret = "other-secret"
	if _, _, err := ExtractIdentityFromToken(token); err == nil {
		t.Fatal("token signed with a different secret should be rejected")
	}
	config.AppConfig.JWTSecret = "test-secret"
}
