package auth_test

import (
	"testing"
	"time"

	"github.com/cardlet/cardlet-invites/pkg/auth"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := auth.NewAccessToken("alice", "Alice Park", "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	claims, err := auth.Parse(token, "secret")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Username != "alice" || claims.Name != "Alice Park" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Subject != "alice" {
		t.Errorf("subject = %q", claims.Subject)
	}
}

func TestParseWrongSecret(t *testing.T) {
	token, err := auth.NewAccessToken("alice", "Alice Park", "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := auth.Parse(token, "other-secret"); err == nil {
		t.Fatal("token accepted with wrong secret")
	}
}

func TestParseExpired(t *testing.T) {
	token, err := auth.NewAccessToken("alice", "Alice Park", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := auth.Parse(token, "secret"); err == nil {
		t.Fatal("expired token accepted")
	}
}
