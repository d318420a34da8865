package service

import (
	"errors"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
