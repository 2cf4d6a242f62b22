package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"clinic-appointment-api/internal/auth"
	"clinic-appointment-api/internal/model"
	"clinic-appointment-api/internal/store/memory"
)

func newService(t *testing.T) (*auth.TokenService, *memory.Store, *model.User) {
	t.Helper()
	st := memory.New()
	u := &model.User{
		ID:           uuid.NewString(),
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: "x",
	}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	svc := auth.NewTokenService(st, auth.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	return svc, st, u
}

func TestIssueAndVerifyAccess(t *testing.T) {
	svc, st, u := newService(t)
	ctx := context.Background()

	pair, err := svc.Issue(ctx, u.Principal())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatal("Issue returned an empty token")
	}

	id, err := svc.VerifyAccess(ctx, pair.Access)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if id.ID != u.ID || id.Role != model.RolePatient {
		t.Errorf("identity = %+v, want id %q role patient", id, u.ID)
	}

	// the refresh token must be persisted on the principal
	p, err := st.PrincipalByID(ctx, model.RolePatient, u.ID)
	if err != nil {
		t.Fatalf("PrincipalByID: %v", err)
	}
	if p.RefreshToken != pair.Refresh {
		t.Error("stored refresh token does not match the issued one")
	}
}

func TestRotateDetectsReplay(t *testing.T) {
	svc, _, u := newService(t)
	ctx := context.Background()

	first, err := svc.Issue(ctx, u.Principal())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	second, err := svc.Rotate(ctx, first.Refresh)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if second.Refresh == first.Refresh {
		t.Fatal("rotation must mint a new refresh token")
	}

	// replaying the superseded token is the attack signal
	if _, err := svc.Rotate(ctx, first.Refresh); !errors.Is(err, auth.ErrTokenReused) {
		t.Errorf("replay: got %v, want ErrTokenReused", err)
	}

	// the current token still rotates
	if _, err := svc.Rotate(ctx, second.Refresh); err != nil {
		t.Errorf("current token rejected: %v", err)
	}
}

func TestRotateWithinSameSecond(t *testing.T) {
	svc, _, u := newService(t)
	ctx := context.Background()

	// issue and rotate back to back so both mints share iat/exp; the
	// rotation must still supersede the first token
	first, err := svc.Issue(ctx, u.Principal())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	second, err := svc.Rotate(ctx, first.Refresh)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if second.Refresh == first.Refresh {
		t.Fatal("rotation returned the token it was supposed to replace")
	}
	if _, err := svc.Rotate(ctx, first.Refresh); !errors.Is(err, auth.ErrTokenReused) {
		t.Errorf("superseded token: got %v, want ErrTokenReused", err)
	}
}

func TestRotateUnknownPrincipal(t *testing.T) {
	svc, _, _ := newService(t)
	ghost := &model.Principal{ID: uuid.NewString(), Role: model.RolePatient}
	raw, err := auth.MakeRefreshToken(ghost, "refresh-secret", time.Hour)
	if err != nil {
		t.Fatalf("MakeRefreshToken: %v", err)
	}
	if _, err := svc.Rotate(context.Background(), raw); !errors.Is(err, auth.ErrPrincipalNotFound) {
		t.Errorf("got %v, want ErrPrincipalNotFound", err)
	}
}

func TestVerifyAccessExpired(t *testing.T) {
	svc, _, u := newService(t)
	raw, err := auth.MakeAccessToken(u.Principal(), "access-secret", -time.Minute)
	if err != nil {
		t.Fatalf("MakeAccessToken: %v", err)
	}
	if _, err := svc.VerifyAccess(context.Background(), raw); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestRevokeEndsSession(t *testing.T) {
	svc, _, u := newService(t)
	ctx := context.Background()

	pair, err := svc.Issue(ctx, u.Principal())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := svc.Revoke(ctx, auth.Identity{ID: u.ID, Role: model.RolePatient}); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	// a revoked token no longer matches the (cleared) stored token
	if _, err := svc.Rotate(ctx, pair.Refresh); !errors.Is(err, auth.ErrTokenReused) {
		t.Errorf("got %v, want ErrTokenReused", err)
	}
}
