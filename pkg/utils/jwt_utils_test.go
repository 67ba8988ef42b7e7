package utils

import (
	"strings"
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "warehouse", "Staff")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user ID = %d, want 42", claims.UserID)
	}
	if claims.Username != "warehouse" {
		t.Errorf("username = %q, want %q", claims.Username, "warehouse")
	}
	if claims.Role != "Staff" {
		t.Errorf("role = %q, want %q", claims.Role, "Staff")
	}
	if claims.Subject != "42" {
		t.Errorf("subject = %q, want %q", claims.Subject, "42")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("user ID = %d, want 7", claims.UserID)
	}
	if claims.Subject != "7" {
		t.Errorf("subject = %q, want %q", claims.Subject, "7")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}

	token, err := GenerateAccessToken(1, "user", "Admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error: %v", err)
	}
	tampered := token[:strings.LastIndex(token, ".")+1] + "AAAA"
	if _, err := ValidateToken(tampered); err == nil {
		t.Error("expected error for tampered signature")
	}
}
