package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Upsert creates the user on first sight and refreshes email and name
	// when the identity provider sends them.
	Upsert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct{}

// NewUserRepository creates a new user repository.
func NewUserRepository() UserRepository {
	return &userRepository{}
}

var _ UserRepository = (*userRepository)(nil)

func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	q, err := conn(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	query := `
		INSERT INTO users (id, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (id) DO UPDATE
		SET email = COALESCE(EXCLUDED.email, users.email),
		    name = COALESCE(EXCLUDED.name, users.name),
		    updated_at = EXCLUDED.updated_at
		RETURNING email, name, created_at, updated_at`

	var email, name *string
	err = q.QueryRow(ctx, query, user.ID, models.StringPtr(user.Email), models.StringPtr(user.Name), now).
		Scan(&email, &name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	user.Email = derefString(email)
	user.Name = derefString(name)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	q, err := conn(ctx)
	if err != nil {
		return nil, err
	}

	var user models.User
	var email, name *string
	err = q.QueryRow(ctx, `SELECT id, email, name, created_at, updated_at FROM users WHERE id = $1`, id).
		Scan(&user.ID, &email, &name, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.Email = derefString(email)
	user.Name = derefString(name)
	return &user, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
