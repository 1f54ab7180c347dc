package service

import (
	"testing"

	"github.com/wavecast/wavecast/internal/config"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	if hashed == "password123" {
		t.Fatal("hash should not equal plaintext")
	}
	if !VerifyPassword("password123", hashed) {
		t.Fatal("correct password should verify")
	}
	if VerifyPassword("password124", hashed) {
		t.Fatal("wrong password should not verify")
	}
}

func TestValidatePasswordPolicy(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:     8,
		RequireLetter: true,
		RequireNumber: true,
	}

	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"ok", "password123", false},
		{"too short", "pass1", true},
		{"no number", "passwordonly", true},
		{"no letter", "1234567890", true},
		{"unicode counted by runes", "密码密码密码密1a", false},
	}
	for _, tc := range cases {
		err := validatePassword(policy, tc.password)
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error, got nil", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestRandomNumericCode(t *testing.T) {
	code, err := randomNumericCode(6)
	if err != nil {
		t.Fatalf("generate code failed: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6 digits, got: %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("expected digits only, got: %q", code)
		}
	}
}

func TestRandomResetToken(t *testing.T) {
	a, err := randomResetToken()
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	b, err := randomResetToken()
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if len(a) != resetTokenByteLen*2 {
		t.Fatalf("unexpected token length: %d", len(a))
	}
	if a == b {
		t.Fatal("tokens should be unique")
	}
}
