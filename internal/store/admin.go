package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"clinic-appointment-api/internal/model"
)

func (s *Postgres) CreateAdmin(ctx context.Context, a *model.Admin) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO admins (id, admin_id, email, password_hash) VALUES ($1,$2,$3,$4)`,
		a.ID, a.AdminID, a.Email, a.PasswordHash,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *Postgres) AdminByHandle(ctx context.Context, adminID string) (*model.Admin, error) {
	a := &model.Admin{}
	err := s.db.QueryRow(ctx,
		`SELECT id, admin_id, email, password_hash, refresh_token, refresh_expires_at, created_at
		 FROM admins WHERE admin_id = $1`, adminID,
	).Scan(&a.ID, &a.AdminID, &a.Email, &a.PasswordHash, &a.RefreshToken, &a.RefreshExpiresAt, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
