package utils

import (
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 42, "SALES", 15)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	id, err := ParseAccessToken("s3cret", tok.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id.UserID != 42 || id.Role != "SALES" {
		t.Fatalf("identity: %+v", id)
	}
}

func TestAccessTokenRejected(t *testing.T) {
	tok, _ := NewAccessToken("s3cret", 1, "CUSTOMER", 15)
	if _, err := ParseAccessToken("other", tok.Token); err == nil {
		t.Fatalf("wrong secret accepted")
	}
	expired, _ := NewAccessToken("s3cret", 1, "CUSTOMER", -1)
	if _, err := ParseAccessToken("s3cret", expired.Token); err == nil {
		t.Fatalf("expired token accepted")
	}
	if _, err := ParseAccessToken("s3cret", "not.a.jwt"); err == nil {
		t.Fatalf("garbage accepted")
	}
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	b, _ := NewRefreshToken(7)
	if len(a.Raw) != 96 || a.Raw == b.Raw {
		t.Fatalf("raw tokens: len=%d distinct=%v", len(a.Raw), a.Raw != b.Raw)
	}
	if HashRefreshRaw(a.Raw) != HashRefreshRaw(a.Raw) || HashRefreshRaw(a.Raw) == a.Raw {
		t.Fatalf("hash is not a stable digest")
	}
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("hunter22", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(h, "hunter22") || VerifyPassword(h, "hunter23") {
		t.Fatalf("verify mismatch")
	}
}
