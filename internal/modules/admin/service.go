package admin

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"guesthouse/internal/domain"
)

// OperatorRole is the role claim carried by operator session tokens.
const OperatorRole = "operator"

type tokenIssuer interface {
	GenerateToken(email, role string) (string, error)
}

// Service implements the operator side of the widget: the login gate and
// the reservation/blocked-date mutations behind it. There is exactly one
// operator, configured by email and bcrypt password hash.
type Service struct {
	store        ReservationStore
	tokens       tokenIssuer
	email        string
	passwordHash string
}

func NewService(store ReservationStore, tokens tokenIssuer, email, passwordHash string) *Service {
	return &Service{
		store:        store,
		tokens:       tokens,
		email:        email,
		passwordHash: passwordHash,
	}
}

func (s *Service) Login(email, password string) (string, error) {
	if email != s.email {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.GenerateToken(email, OperatorRole)
}

func (s *Service) ListReservations() []domain.Reservation {
	return s.store.Reservations()
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domain.Reservation, error) {
	return s.store.UpdateReservationStatus(ctx, id, domain.ReservationStatus(status))
}

func (s *Service) UpdatePayment(ctx context.Context, id string, paidAmount float64) (*domain.Reservation, error) {
	return s.store.UpdatePaymentStatus(ctx, id, paidAmount)
}

func (s *Service) ListBlockedDates() []time.Time {
	return s.store.BlockedDates()
}

func (s *Service) BlockDate(ctx context.Context, date time.Time) error {
	return s.store.AddBlockedDate(ctx, date)
}

func (s *Service) UnblockDate(ctx context.Context, date time.Time) error {
	return s.store.RemoveBlockedDate(ctx, date)
}
