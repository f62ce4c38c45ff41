package filterq

import (
	"errors"
	"fmt"

	"github.com/hupe1980/filterq/filter"
)

var (
	// ErrNoFinder is returned by Find/Count when no backend is configured.
	ErrNoFinder = errors.New("no finder configured")

	// ErrConflict is the unified sentinel for conflicting field constraints.
	// The underlying *filter.ConflictError carries the field name and can be
	// recovered via errors.As.
	ErrConflict = errors.New("conflicting field constraint")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ce *filter.ConflictError
	if errors.As(err, &ce) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}

	return err
}
