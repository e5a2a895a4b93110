package service

import (
	"errors"
	"fmt"
	"strings"

	"waterlife-backoffice/internal/pricing"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// InsufficientStockError lists every raw material that cannot cover a sale.
type InsufficientStockError struct {
	Shortages []pricing.Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		parts[i] = s.String()
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrConflict
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func conflictError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// notFoundOr maps gorm's record-not-found to ErrNotFound and passes other errors through.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}
