package errors

import (
	"errors"
	"fmt"
)

var (
	ErrFunctionNotInCatalog = errors.New("function not in catalog")
	ErrNoEditSession        = errors.New("no edit session open")
	ErrUnknownField         = errors.New("unknown function field")
	ErrInvalidFieldValue    = errors.New("invalid field value")

	ErrSnapshotNotFound = errors.New("snapshot not found")

	ErrUnsupportedFormat = errors.New("unsupported manifest format")
)

func WithDetails(err error, details string) error {
	return fmt.Errorf("%s: %w", details, err)
}

func AsOperationError(err error, operation string, id int) error {
	return fmt.Errorf("%s failed for function %d: %w", operation, id, err)
}

func IsFunctionNotInCatalog(err error) bool {
	return errors.Is(err, ErrFunctionNotInCatalog)
}

func IsNoEditSession(err error) bool {
	return errors.Is(err, ErrNoEditSession)
}

func IsSnapshotNotFound(err error) bool {
	return errors.Is(err, ErrSnapshotNotFound)
}
