package reservation

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidRange    = errors.New("invalid date range")
	ErrDateUnavailable = errors.New("dates not available")
	ErrOverlapConflict = errors.New("conflicts with an approved reservation or blocked date")
	ErrInvalidAmount   = errors.New("invalid paid amount")
	ErrNotFound        = errors.New("reservation not found")
)
