package reservation

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"guesthouse/internal/domain"
	"guesthouse/internal/modules/pricing"
	"guesthouse/internal/pkg/clock"
)

// SnapshotRepository is the persistence boundary. The store mutates state
// in memory and writes the full snapshot through it after every mutation.
type SnapshotRepository interface {
	Load(ctx context.Context) (*domain.State, error)
	Save(ctx context.Context, st *domain.State) error
}

// Store owns all widget state: reservations, blocked dates and the
// discount offer singleton. It is constructed explicitly and injected
// wherever needed; there is no ambient global instance.
type Store struct {
	mu        sync.RWMutex
	state     domain.State
	snapshots SnapshotRepository
	clock     clock.Clock
	lastID    int64
}

// NewStore loads the persisted snapshot and rehydrates it. Blocked dates
// are re-normalized to day keys on load so snapshots written with
// time-of-day components still compare correctly.
func NewStore(ctx context.Context, snapshots SnapshotRepository, clk clock.Clock) (*Store, error) {
	st, err := snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range st.BlockedDates {
		st.BlockedDates[i] = domain.DayKey(st.BlockedDates[i])
	}

	s := &Store{
		state:     *st,
		snapshots: snapshots,
		clock:     clk,
	}
	for _, r := range st.Reservations {
		if id, err := strconv.ParseInt(r.ID, 10, 64); err == nil && id > s.lastID {
			s.lastID = id
		}
	}
	return s, nil
}

// NewReservation is the visitor submission. BasePrice is the undiscounted
// price the caller computed for the stay; the store applies the discount
// itself from live offer state.
type NewReservation struct {
	StartDate     time.Time
	EndDate       time.Time
	GuestCount    int
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	BasePrice     float64
}

// AddReservation creates a pending reservation. The discount offer state is
// read once, at this instant: an active unexpired offer marks the record
// DiscountApplied and prices it at basePrice × (1 − DiscountRate). Both
// fields are frozen afterwards.
func (s *Store) AddReservation(ctx context.Context, in NewReservation) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, ErrInvalidRange
	}
	start := domain.DayKey(in.StartDate)
	end := domain.DayKey(in.EndDate)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	if in.GuestCount <= 0 ||
		strings.TrimSpace(in.CustomerName) == "" ||
		strings.TrimSpace(in.CustomerEmail) == "" ||
		strings.TrimSpace(in.CustomerPhone) == "" {
		return nil, ErrValidation
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !s.dayAvailable(day) {
			return nil, ErrDateUnavailable
		}
	}

	applied := s.state.Discount.Active(s.clock.Now())

	r := domain.Reservation{
		ID:              s.nextID(),
		StartDate:       start,
		EndDate:         end,
		GuestCount:      in.GuestCount,
		Status:          domain.ReservationPending,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		TotalPrice:      pricing.EffectivePrice(in.BasePrice, applied),
		DiscountApplied: applied,
		PaymentStatus:   domain.PaymentPending,
		PaidAmount:      0,
	}

	s.state.Reservations = append(s.state.Reservations, r)
	if err := s.persist(ctx); err != nil {
		s.state.Reservations = s.state.Reservations[:len(s.state.Reservations)-1]
		return nil, err
	}
	return &r, nil
}

// UpdateReservationStatus moves a reservation through its lifecycle.
// Approving a reservation that overlaps another approved stay or a blocked
// date is rejected, closing the double-booking gap of the original design.
func (s *Store) UpdateReservationStatus(ctx context.Context, id string, status domain.ReservationStatus) (*domain.Reservation, error) {
	if !status.Valid() {
		return nil, ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	r := s.state.Reservations[idx]

	if status == domain.ReservationApproved {
		if s.approvedConflict(r) {
			return nil, ErrOverlapConflict
		}
	}

	prev := r.Status
	s.state.Reservations[idx].Status = status
	if err := s.persist(ctx); err != nil {
		s.state.Reservations[idx].Status = prev
		return nil, err
	}
	out := s.state.Reservations[idx]
	return &out, nil
}

// UpdatePaymentStatus records a payment and re-derives the payment state
// from paidAmount against the frozen total: 0 is pending, anything below
// the total is partial, the total or more is completed.
func (s *Store) UpdatePaymentStatus(ctx context.Context, id string, paidAmount float64) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	r := s.state.Reservations[idx]

	if paidAmount < 0 || paidAmount > r.TotalPrice {
		return nil, ErrInvalidAmount
	}

	prevAmount, prevStatus := r.PaidAmount, r.PaymentStatus
	s.state.Reservations[idx].PaidAmount = paidAmount
	s.state.Reservations[idx].PaymentStatus = ClassifyPayment(paidAmount, r.TotalPrice)
	if err := s.persist(ctx); err != nil {
		s.state.Reservations[idx].PaidAmount = prevAmount
		s.state.Reservations[idx].PaymentStatus = prevStatus
		return nil, err
	}
	out := s.state.Reservations[idx]
	return &out, nil
}

// ClassifyPayment derives the payment state from an amount against a total.
func ClassifyPayment(paid, total float64) domain.PaymentStatus {
	switch {
	case paid <= 0:
		return domain.PaymentPending
	case paid >= total:
		return domain.PaymentCompleted
	default:
		return domain.PaymentPartial
	}
}

// AddBlockedDate marks a day unavailable. Adding an already blocked day is
// a no-op.
func (s *Store) AddBlockedDate(ctx context.Context, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := domain.DayKey(date)
	for _, d := range s.state.BlockedDates {
		if d.Equal(day) {
			return nil
		}
	}

	s.state.BlockedDates = append(s.state.BlockedDates, day)
	if err := s.persist(ctx); err != nil {
		s.state.BlockedDates = s.state.BlockedDates[:len(s.state.BlockedDates)-1]
		return err
	}
	return nil
}

func (s *Store) RemoveBlockedDate(ctx context.Context, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := domain.DayKey(date)
	for i, d := range s.state.BlockedDates {
		if d.Equal(day) {
			removed := d
			s.state.BlockedDates = append(s.state.BlockedDates[:i], s.state.BlockedDates[i+1:]...)
			if err := s.persist(ctx); err != nil {
				s.state.BlockedDates = append(s.state.BlockedDates, removed)
				return err
			}
			return nil
		}
	}
	return ErrNotFound
}

// IsDateAvailable reports whether a day may be selected for a new stay:
// not operator-blocked and not inside any approved reservation's inclusive
// interval. Pending and rejected reservations do not block dates.
func (s *Store) IsDateAvailable(date time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dayAvailable(domain.DayKey(date))
}

func (s *Store) dayAvailable(day time.Time) bool {
	for _, d := range s.state.BlockedDates {
		if d.Equal(day) {
			return false
		}
	}
	for _, r := range s.state.Reservations {
		if r.Status == domain.ReservationApproved && r.CoversDay(day) {
			return false
		}
	}
	return true
}

// approvedConflict reports whether r clashes with another approved
// reservation or a blocked day. Caller holds the lock.
func (s *Store) approvedConflict(r domain.Reservation) bool {
	start := domain.DayKey(r.StartDate)
	end := domain.DayKey(r.EndDate)

	for _, d := range s.state.BlockedDates {
		if !d.Before(start) && !d.After(end) {
			return true
		}
	}
	for _, other := range s.state.Reservations {
		if other.ID == r.ID || other.Status != domain.ReservationApproved {
			continue
		}
		oStart := domain.DayKey(other.StartDate)
		oEnd := domain.DayKey(other.EndDate)
		if !start.After(oEnd) && !oStart.After(end) {
			return true
		}
	}
	return false
}

func (s *Store) Reservations() []domain.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Reservation, len(s.state.Reservations))
	copy(out, s.state.Reservations)
	return out
}

func (s *Store) BlockedDates() []time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]time.Time, len(s.state.BlockedDates))
	copy(out, s.state.BlockedDates)
	return out
}

func (s *Store) DiscountState() domain.DiscountState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Discount
}

// DiscountActive reports whether the offer is visible and unexpired at now.
func (s *Store) DiscountActive(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Discount.Active(now)
}

// Raw discount setters used by the offer engine, which owns the offer
// state machine's invariants.

func (s *Store) SetShowDiscount(ctx context.Context, show bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Discount.ShowDiscount = show
	return s.persist(ctx)
}

func (s *Store) SetDiscountEndTime(ctx context.Context, end *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Discount.EndTime = end
	return s.persist(ctx)
}

func (s *Store) SetDiscountNotificationShown(ctx context.Context, shown bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Discount.NotificationShown = shown
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	return s.snapshots.Save(ctx, &s.state)
}

func (s *Store) indexOf(id string) int {
	for i, r := range s.state.Reservations {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// nextID is a unix-millisecond timestamp, bumped past the last issued id
// when two submissions land in the same millisecond.
func (s *Store) nextID() string {
	id := s.clock.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}
