package auth

import (
	"context"
	"time"

	"clinic-appointment-api/internal/model"
)

// PrincipalStore is the slice of the data layer the token lifecycle needs.
// PrincipalByID returns (nil, nil) when the id does not resolve.
type PrincipalStore interface {
	PrincipalByID(ctx context.Context, role model.Role, id string) (*model.Principal, error)
	SetRefreshToken(ctx context.Context, role model.Role, id, token string, expiresAt time.Time) error
}

// Config holds the secret material and expiry policy. Access and refresh
// tokens are signed with distinct secrets so compromise of one does not
// compromise the other.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type TokenPair struct {
	Access  string
	Refresh string
}

type Identity struct {
	ID   string
	Role model.Role
}

// TokenService mints, verifies and rotates the access/refresh pair.
// Exactly one refresh token is live per principal: every Issue overwrites
// the stored token, so a superseded token presented later is detectable
// as a replay.
type TokenService struct {
	store PrincipalStore
	cfg   Config
}

func NewTokenService(store PrincipalStore, cfg Config) *TokenService {
	return &TokenService{store: store, cfg: cfg}
}

// Issue mints a fresh pair and persists the refresh token on the
// principal, invalidating any previous one.
func (s *TokenService) Issue(ctx context.Context, p *model.Principal) (TokenPair, error) {
	access, err := MakeAccessToken(p, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := MakeRefreshToken(p, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	expires := time.Now().Add(s.cfg.RefreshTTL)
	if err := s.store.SetRefreshToken(ctx, p.Role, p.ID, refresh, expires); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// VerifyAccess resolves a bearer token to a live principal identity.
func (s *TokenService) VerifyAccess(ctx context.Context, raw string) (Identity, error) {
	claims, err := ParseAccessToken(raw, s.cfg.AccessSecret)
	if err != nil {
		return Identity{}, err
	}
	role := model.Role(claims.Role)
	p, err := s.store.PrincipalByID(ctx, role, claims.PrincipalID)
	if err != nil {
		return Identity{}, err
	}
	if p == nil {
		return Identity{}, ErrPrincipalNotFound
	}
	return Identity{ID: p.ID, Role: p.Role}, nil
}

// Rotate exchanges a refresh token for a new pair. A token that parses but
// no longer byte-matches the stored one has been superseded; that is the
// replay signal and the session must end.
func (s *TokenService) Rotate(ctx context.Context, raw string) (TokenPair, error) {
	claims, err := ParseRefreshToken(raw, s.cfg.RefreshSecret)
	if err != nil {
		return TokenPair{}, err
	}
	role := model.Role(claims.Role)
	p, err := s.store.PrincipalByID(ctx, role, claims.PrincipalID)
	if err != nil {
		return TokenPair{}, err
	}
	if p == nil {
		return TokenPair{}, ErrPrincipalNotFound
	}
	if p.RefreshToken == "" || p.RefreshToken != raw {
		return TokenPair{}, ErrTokenReused
	}
	return s.Issue(ctx, p)
}

// Revoke clears the stored refresh token, ending the session.
func (s *TokenService) Revoke(ctx context.Context, id Identity) error {
	return s.store.SetRefreshToken(ctx, id.Role, id.ID, "", time.Time{})
}
