package auth

import (
	"errors"
	"testing"
	"time"

	"clinic-appointment-api/internal/model"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Fatal("wrong password accepted")
	}
}

func testPrincipal() *model.Principal {
	return &model.Principal{
		ID:     "3f9c9b2e-6f3a-4e6e-9a5e-000000000001",
		Role:   model.RolePatient,
		Handle: "ada",
		Email:  "ada@example.com",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	p := testPrincipal()
	raw, err := MakeAccessToken(p, "access-secret", time.Minute)
	if err != nil {
		t.Fatalf("MakeAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(raw, "access-secret")
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.PrincipalID != p.ID {
		t.Errorf("principal id = %q, want %q", claims.PrincipalID, p.ID)
	}
	if claims.Role != string(model.RolePatient) {
		t.Errorf("role = %q, want %q", claims.Role, model.RolePatient)
	}
	if claims.Email != p.Email {
		t.Errorf("email = %q, want %q", claims.Email, p.Email)
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	p := testPrincipal()
	good, err := MakeAccessToken(p, "access-secret", time.Minute)
	if err != nil {
		t.Fatalf("MakeAccessToken: %v", err)
	}
	expired, err := MakeAccessToken(p, "access-secret", -time.Minute)
	if err != nil {
		t.Fatalf("MakeAccessToken: %v", err)
	}

	cases := []struct {
		name   string
		raw    string
		secret string
	}{
		{"wrong secret", good, "other-secret"},
		{"garbage", "not.a.token", "access-secret"},
		{"empty", "", "access-secret"},
		{"expired", expired, "access-secret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseAccessToken(tc.raw, tc.secret); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("got %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestRefreshTokensNeverRepeat(t *testing.T) {
	p := testPrincipal()
	// mints landing in the same wall-clock second share iat/exp; the jti
	// must still make each token distinct
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		raw, err := MakeRefreshToken(p, "refresh-secret", time.Hour)
		if err != nil {
			t.Fatalf("MakeRefreshToken: %v", err)
		}
		if seen[raw] {
			t.Fatal("two mints produced the same refresh token")
		}
		seen[raw] = true
	}
}

func TestRefreshTokenSecretsAreIndependent(t *testing.T) {
	p := testPrincipal()
	refresh, err := MakeRefreshToken(p, "refresh-secret", time.Hour)
	if err != nil {
		t.Fatalf("MakeRefreshToken: %v", err)
	}

	// a refresh token must not verify as an access token
	if _, err := ParseAccessToken(refresh, "access-secret"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token accepted as access token: %v", err)
	}

	claims, err := ParseRefreshToken(refresh, "refresh-secret")
	if err != nil {
		t.Fatalf("ParseRefreshToken: %v", err)
	}
	if claims.PrincipalID != p.ID {
		t.Errorf("principal id = %q, want %q", claims.PrincipalID, p.ID)
	}
}
