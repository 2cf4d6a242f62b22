package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"clinic-appointment-api/internal/model"
)

func (s *Postgres) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, profile_photo)
		 VALUES ($1,$2,$3,$4,$5)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.ProfilePhoto,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *Postgres) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.scanUser(s.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, profile_photo,
		        refresh_token, refresh_expires_at, created_at, updated_at
		 FROM users WHERE email = $1`, email))
}

func (s *Postgres) UserByID(ctx context.Context, id string) (*model.User, error) {
	return s.scanUser(s.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, profile_photo,
		        refresh_token, refresh_expires_at, created_at, updated_at
		 FROM users WHERE id = $1`, id))
}

func (s *Postgres) scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ProfilePhoto,
		&u.RefreshToken, &u.RefreshExpiresAt, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Postgres) PrincipalByID(ctx context.Context, role model.Role, id string) (*model.Principal, error) {
	switch role {
	case model.RoleAdmin:
		a := &model.Admin{}
		err := s.db.QueryRow(ctx,
			`SELECT id, admin_id, email, refresh_token FROM admins WHERE id = $1`, id,
		).Scan(&a.ID, &a.AdminID, &a.Email, &a.RefreshToken)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return a.Principal(), nil
	default:
		u := &model.User{}
		err := s.db.QueryRow(ctx,
			`SELECT id, username, email, profile_photo, refresh_token FROM users WHERE id = $1`, id,
		).Scan(&u.ID, &u.Username, &u.Email, &u.ProfilePhoto, &u.RefreshToken)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return u.Principal(), nil
	}
}

// SetRefreshToken overwrites the principal's refresh token. An empty token
// revokes the session; expiry is persisted so the sweeper can clear dead
// tokens without parsing them.
func (s *Postgres) SetRefreshToken(ctx context.Context, role model.Role, id, token string, expiresAt time.Time) error {
	table := "users"
	if role == model.RoleAdmin {
		table = "admins"
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE `+table+` SET refresh_token = $1, refresh_expires_at = $2 WHERE id = $3`,
		token, expiresAt, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) UpdatePassword(ctx context.Context, role model.Role, id, hash string) error {
	table := "users"
	if role == model.RoleAdmin {
		table = "admins"
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE `+table+` SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) UpdateEmail(ctx context.Context, id, email string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET email = $1, updated_at = NOW() WHERE id = $2`, email, id)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) UpdateProfilePhoto(ctx context.Context, id, url string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET profile_photo = $1, updated_at = NOW() WHERE id = $2`, url, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	for _, table := range []string{"users", "admins"} {
		tag, err := s.db.Exec(ctx,
			`UPDATE `+table+` SET refresh_token = ''
			 WHERE refresh_token <> '' AND refresh_expires_at < $1`, now)
		if err != nil {
			return total, err
		}
		total += tag.RowsAffected()
	}
	return total, nil
}
