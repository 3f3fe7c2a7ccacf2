package service

import (
	"errors"
	"fmt"

	app_errors "inkflow/backend/internal/errors"
	"inkflow/backend/internal/repository"
)

// storeError translates repository-layer errors into domain-level sentinels.
// Anything the repository does not classify is reported as transient: every
// mutation is transaction-scoped, so an unclassified store failure left no
// partial effects and the caller may retry.
func storeError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return app_errors.ErrNotFound
	case errors.Is(err, repository.ErrActiveCheckpoint):
		return fmt.Errorf("%w: cannot delete the active checkpoint without a replacement", app_errors.ErrConflict)
	default:
		return fmt.Errorf("%w: %v", app_errors.ErrTransient, err)
	}
}
