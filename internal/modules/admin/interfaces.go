package admin

import (
	"context"
	"time"

	"guesthouse/internal/domain"
)

// ReservationStore is the slice of the store the operator works against.
type ReservationStore interface {
	Reservations() []domain.Reservation
	BlockedDates() []time.Time
	UpdateReservationStatus(ctx context.Context, id string, status domain.ReservationStatus) (*domain.Reservation, error)
	UpdatePaymentStatus(ctx context.Context, id string, paidAmount float64) (*domain.Reservation, error)
	AddBlockedDate(ctx context.Context, date time.Time) error
	RemoveBlockedDate(ctx context.Context, date time.Time) error
}
