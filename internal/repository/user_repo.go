package repository

import (
	"context"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
)

type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*entity.User, error)
	ListByRoles(ctx context.Context, roles ...entity.Role) ([]entity.User, error)
	UpdateRating(ctx context.Context, userID string, average float64, count int) error
}
