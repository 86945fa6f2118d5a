package service

import (
	"errors"
	"fmt"

	"houserent-service/internal/repository"

	"gorm.io/gorm"
)

// Error kinds surfaced to the HTTP boundary. Handlers match them with
// errors.Is; anything else is a persistence failure and becomes a generic
// 500 response.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("operation not allowed for this user")
	ErrConflict     = errors.New("conflicting state")
)

// translate maps storage-layer errors to the service error kinds.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case errors.Is(err, repository.ErrUserHasRents), errors.Is(err, repository.ErrCategoryInUse):
		return fmt.Errorf("%w: %s", ErrConflict, err)
	default:
		return err
	}
}
