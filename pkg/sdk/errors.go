package memorialdex

import "github.com/kailas-cloud/memorialdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput       = domain.ErrInvalidInput
	ErrMissingCoordinates = domain.ErrMissingCoordinates
	ErrStoreUnavailable   = domain.ErrStoreUnavailable
	ErrNotFound           = domain.ErrNotFound
)
