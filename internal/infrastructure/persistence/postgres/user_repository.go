package postgres

import (
	"context"
	"errors"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	userColumns        = `id, name, email, image_url, google_access_token, google_refresh_token, google_token_expiry, google_sub, created_at, updated_at`
	insertUserSQL      = `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	updateProfileSQL   = `UPDATE users SET name = $2, image_url = $3, google_sub = $4, updated_at = $5 WHERE id = $1`
	setGoogleTokensSQL = `UPDATE users SET google_access_token = $2, google_refresh_token = $3, google_token_expiry = $4, updated_at = NOW() WHERE id = $1`
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.pool.Exec(ctx, insertUserSQL, u.ID, u.Name, u.Email, u.ImageURL,
		u.Google.AccessToken, u.Google.RefreshToken, u.Google.ExpiresAt, u.GoogleSub, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	_, err := r.pool.Exec(ctx, updateProfileSQL, u.ID, u.Name, u.ImageURL, u.GoogleSub, u.UpdatedAt)
	return err
}

func (r *UserRepository) SetGoogleTokens(ctx context.Context, userID string, t domain.GoogleTokens) error {
	_, err := r.pool.Exec(ctx, setGoogleTokensSQL, userID, t.AccessToken, t.RefreshToken, t.ExpiresAt)
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.ImageURL, &u.Google.AccessToken, &u.Google.RefreshToken,
		&u.Google.ExpiresAt, &u.GoogleSub, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
