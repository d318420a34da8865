package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	var u entity.User
	err := q(ctx, r.db).QueryRowContext(ctx, `
		SELECT id, name, email, role, is_active, created_at, updated_at
		FROM users WHERE id = $1`,
		userID,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return &u, nil
}

func (r *userRepository) ListByRoles(ctx context.Context, roles ...entity.Role) ([]entity.User, error) {
	roleStrings := make([]string, len(roles))
	for i, role := range roles {
		roleStrings[i] = string(role)
	}

	rows, err := q(ctx, r.db).QueryContext(ctx, `
		SELECT id, name, email, role, is_active, created_at, updated_at
		FROM users WHERE role = ANY($1) AND is_active = TRUE`,
		pq.Array(roleStrings),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by roles: %w", err)
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsActive,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return users, nil
}

func (r *userRepository) UpdateRating(ctx context.Context, userID string, average float64, count int) error {
	_, err := q(ctx, r.db).ExecContext(ctx, `
		UPDATE users SET rating_average = $2, rating_count = $3, updated_at = now()
		WHERE id = $1`,
		userID, average, count,
	)
	if err != nil {
		return fmt.Errorf("failed to update rating for user %s: %w", userID, err)
	}
	return nil
}
