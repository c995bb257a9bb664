package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tair/catalog-admin/pkg/apperror"
)

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation
}

// translate maps driver errors onto apperror kinds. Anything unrecognized is wrapped as is
func translate(err error, resource string, key interface{}) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(resource, key)
	case isUniqueViolation(err):
		return apperror.Conflict(fmt.Sprintf("%s already exists", resource))
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return fmt.Errorf("%s repository: %w", resource, err)
}
