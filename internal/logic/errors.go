package logic

import (
	"errors"
	"fmt"
)

var (
	ErrPlayerNotFound        = errors.New("player not found")
	ErrInvalidStatSelector   = errors.New("invalid stat type")
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrDataSourceUnavailable = errors.New("data source unavailable")
)

func invalidParam(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// sourceError marks a data access failure. Not-found passes through untouched
// so callers can still tell the two apart.
func sourceError(op string, err error) error {
	if errors.Is(err, ErrPlayerNotFound) || errors.Is(err, ErrDataSourceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrDataSourceUnavailable, op, err)
}
