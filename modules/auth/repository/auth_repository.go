package repository

import (
	"context"

	"wellness-planner/core/database"
	"wellness-planner/core/logger"
	"wellness-planner/modules/auth/entity"

	"github.com/google/uuid"
)

type AuthRepositoryInterface interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	UpdateUser(ctx context.Context, user *entity.User) error
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type AuthRepository struct {
	db database.Database
}

func NewAuthRepository(db database.Database) AuthRepositoryInterface {
	return &AuthRepository{db: db}
}

const userColumns = `id, email, username, password, full_name, avatar_url, timezone, is_active, google_id, created_at, updated_at`

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (email, username, password, full_name, avatar_url, timezone, is_active, google_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		user.Email, user.Username, user.Password, user.FullName,
		user.AvatarURL, user.Timezone, user.IsActive, user.GoogleID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		logger.Error("AuthRepository:CreateUser:Error:", err)
		return nil, err
	}
	return user, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var user entity.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByIdentifier matches the identifier against email and username
func (r *AuthRepository) GetUserByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = LOWER($1) OR LOWER(username) = LOWER($1)
	`
	var user entity.User
	if err := r.db.GetContext(ctx, &user, query, identifier); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	var user entity.User
	if err := r.db.GetContext(ctx, &user, query, googleID); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) UpdateUser(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET email = $1, username = $2, password = $3, full_name = $4,
		    avatar_url = $5, timezone = $6, is_active = $7, google_id = $8, updated_at = NOW()
		WHERE id = $9
	`
	return r.db.ExecContext(ctx, query,
		user.Email, user.Username, user.Password, user.FullName,
		user.AvatarURL, user.Timezone, user.IsActive, user.GoogleID, user.ID,
	)
}

func (r *AuthRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE ($1 != '' AND LOWER(email) = LOWER($1)) OR ($2 != '' AND LOWER(username) = LOWER($2))
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListActiveUserIDs feeds the background jobs that fan out per user
func (r *AuthRepository) ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM users WHERE is_active = true`
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		logger.Error("AuthRepository:ListActiveUserIDs:Error:", err)
		return nil, err
	}
	return ids, nil
}
