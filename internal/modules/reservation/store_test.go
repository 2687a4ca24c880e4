package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse/internal/domain"
	"guesthouse/internal/pkg/clock"
)

type fakeSnapshots struct {
	saves int
	last  *domain.State
}

func (f *fakeSnapshots) Load(ctx context.Context) (*domain.State, error) {
	if f.last != nil {
		return f.last, nil
	}
	return &domain.State{
		Reservations: []domain.Reservation{},
		BlockedDates: []time.Time{},
	}, nil
}

func (f *fakeSnapshots) Save(ctx context.Context, st *domain.State) error {
	f.saves++
	cp := domain.State{
		Reservations: append([]domain.Reservation(nil), st.Reservations...),
		BlockedDates: append([]time.Time(nil), st.BlockedDates...),
		Discount:     st.Discount,
	}
	f.last = &cp
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestStore(t *testing.T) (*Store, *fakeSnapshots, *clock.Fake) {
	t.Helper()
	snaps := &fakeSnapshots{}
	clk := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	store, err := NewStore(context.Background(), snaps, clk)
	require.NoError(t, err)
	return store, snaps, clk
}

func submission(start, end time.Time) NewReservation {
	return NewReservation{
		StartDate:     start,
		EndDate:       end,
		GuestCount:    2,
		CustomerName:  "Ada Guest",
		CustomerEmail: "ada@example.com",
		CustomerPhone: "+90 555 111 2233",
		BasePrice:     10000,
	}
}

func TestAddReservationDefaults(t *testing.T) {
	store, snaps, _ := newTestStore(t)

	r, err := store.AddReservation(context.Background(), submission(day(2024, 6, 1), day(2024, 6, 3)))
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, domain.ReservationPending, r.Status)
	assert.Equal(t, domain.PaymentPending, r.PaymentStatus)
	assert.Equal(t, 0.0, r.PaidAmount)
	assert.False(t, r.DiscountApplied)
	assert.Equal(t, 10000.0, r.TotalPrice)
	assert.Equal(t, 1, snaps.saves)
}

func TestAddReservationValidation(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddReservation(ctx, submission(day(2024, 6, 3), day(2024, 6, 1)))
	assert.ErrorIs(t, err, ErrInvalidRange)

	in := submission(day(2024, 6, 1), day(2024, 6, 3))
	in.GuestCount = 0
	_, err = store.AddReservation(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)

	in = submission(day(2024, 6, 1), day(2024, 6, 3))
	in.CustomerEmail = "  "
	_, err = store.AddReservation(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDiscountSnapshotIsImmutable(t *testing.T) {
	store, _, clk := newTestStore(t)
	ctx := context.Background()

	end := clk.Now().Add(4 * time.Minute)
	require.NoError(t, store.SetDiscountEndTime(ctx, &end))
	require.NoError(t, store.SetShowDiscount(ctx, true))

	r, err := store.AddReservation(ctx, submission(day(2024, 6, 1), day(2024, 6, 3)))
	require.NoError(t, err)
	assert.True(t, r.DiscountApplied)
	assert.InDelta(t, 9500.0, r.TotalPrice, 1e-9)

	// offer expires; the stored reservation must not change
	clk.Advance(5 * time.Minute)

	later, err := store.AddReservation(ctx, submission(day(2024, 7, 1), day(2024, 7, 3)))
	require.NoError(t, err)
	assert.False(t, later.DiscountApplied)
	assert.Equal(t, 10000.0, later.TotalPrice)

	stored := store.Reservations()[0]
	assert.True(t, stored.DiscountApplied)
	assert.InDelta(t, 9500.0, stored.TotalPrice, 1e-9)
}

func TestAvailabilityRules(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	free := day(2024, 6, 20)
	assert.True(t, store.IsDateAvailable(free))

	blocked := day(2024, 6, 10)
	require.NoError(t, store.AddBlockedDate(ctx, blocked))
	assert.False(t, store.IsDateAvailable(blocked))

	r, err := store.AddReservation(ctx, submission(day(2024, 6, 1), day(2024, 6, 3)))
	require.NoError(t, err)

	// pending reservations do not block dates
	assert.True(t, store.IsDateAvailable(day(2024, 6, 2)))

	_, err = store.UpdateReservationStatus(ctx, r.ID, domain.ReservationApproved)
	require.NoError(t, err)

	assert.False(t, store.IsDateAvailable(day(2024, 6, 1)))
	assert.False(t, store.IsDateAvailable(day(2024, 6, 2)))
	assert.False(t, store.IsDateAvailable(day(2024, 6, 3)))
	assert.True(t, store.IsDateAvailable(day(2024, 6, 4)))
}

func TestAvailabilityIgnoresTimeOfDay(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddBlockedDate(ctx, time.Date(2024, 6, 10, 15, 45, 0, 0, time.UTC)))
	assert.False(t, store.IsDateAvailable(time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)))
}

func TestAddReservationOnUnavailableDates(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddBlockedDate(ctx, day(2024, 6, 2)))

	_, err := store.AddReservation(ctx, submission(day(2024, 6, 1), day(2024, 6, 3)))
	assert.ErrorIs(t, err, ErrDateUnavailable)
}

func TestApproveOverlapConflict(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.AddReservation(ctx, submission(day(2024, 6, 1), day(2024, 6, 3)))
	require.NoError(t, err)
	second, err := store.AddReservation(ctx, submission(day(2024, 6, 3), day(2024, 6, 5)))
	require.NoError(t, err)

	_, err = store.UpdateReservationStatus(ctx, first.ID, domain.ReservationApproved)
	require.NoError(t, err)

	_, err = store.UpdateReservationStatus(ctx, second.ID, domain.ReservationApproved)
	assert.ErrorIs(t, err, ErrOverlapConflict)

	// rejecting it is still fine
	r, err := store.UpdateReservationStatus(ctx, second.ID, domain.ReservationRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationRejected, r.Status)
}

func TestApproveConflictsWithBlockedDate(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	r, err := store.AddReservation(ctx, submission(day(2024, 6, 1), day(2024, 6, 3)))
	require.NoError(t, err)

	// operator blocks a day inside the pending stay before approving
	require.NoError(t, store.AddBlockedDate(ctx, day(2024, 6, 2)))

	_, err = store.UpdateReservationStatus(ctx, r.ID, domain.ReservationApproved)
	assert.ErrorIs(t, err, ErrOverlapConflict)
}

func TestPaymentClassification(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	r, err := store.AddReservation(ctx, submission(day(2024, 6, 1), day(2024, 6, 3)))
	require.NoError(t, err)
	require.Equal(t, 10000.0, r.TotalPrice)

	upd, err := store.UpdatePaymentStatus(ctx, r.ID, 4000)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPartial, upd.PaymentStatus)
	assert.Equal(t, 4000.0, upd.PaidAmount)

	upd, err = store.UpdatePaymentStatus(ctx, r.ID, 10000)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, upd.PaymentStatus)

	upd, err = store.UpdatePaymentStatus(ctx, r.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, upd.PaymentStatus)
}

func TestPaymentAmountBounds(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	r, err := store.AddReservation(ctx, submission(day(2024, 6, 1), day(2024, 6, 3)))
	require.NoError(t, err)

	_, err = store.UpdatePaymentStatus(ctx, r.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = store.UpdatePaymentStatus(ctx, r.ID, r.TotalPrice+1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestClassifyPayment(t *testing.T) {
	assert.Equal(t, domain.PaymentPending, ClassifyPayment(0, 10000))
	assert.Equal(t, domain.PaymentPartial, ClassifyPayment(4000, 10000))
	assert.Equal(t, domain.PaymentCompleted, ClassifyPayment(10000, 10000))
	assert.Equal(t, domain.PaymentCompleted, ClassifyPayment(12000, 10000))
}

func TestUpdateUnknownReservation(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.UpdateReservationStatus(ctx, "12345", domain.ReservationApproved)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.UpdatePaymentStatus(ctx, "12345", 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.UpdateReservationStatus(context.Background(), "12345", domain.ReservationStatus("archived"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBlockedDateToggleIsItsOwnInverse(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	d := day(2024, 7, 1)
	before := store.IsDateAvailable(d)

	require.NoError(t, store.AddBlockedDate(ctx, d))
	require.NoError(t, store.RemoveBlockedDate(ctx, d))

	assert.Equal(t, before, store.IsDateAvailable(d))
	assert.ErrorIs(t, store.RemoveBlockedDate(ctx, d), ErrNotFound)
}

func TestBlockedDateAddIsIdempotent(t *testing.T) {
	store, snaps, _ := newTestStore(t)
	ctx := context.Background()

	d := day(2024, 7, 1)
	require.NoError(t, store.AddBlockedDate(ctx, d))
	savesAfterFirst := snaps.saves
	require.NoError(t, store.AddBlockedDate(ctx, d))

	assert.Equal(t, savesAfterFirst, snaps.saves)
	assert.Len(t, store.BlockedDates(), 1)
}

func TestEveryMutationPersists(t *testing.T) {
	store, snaps, _ := newTestStore(t)
	ctx := context.Background()

	r, err := store.AddReservation(ctx, submission(day(2024, 6, 1), day(2024, 6, 3)))
	require.NoError(t, err)
	_, err = store.UpdateReservationStatus(ctx, r.ID, domain.ReservationApproved)
	require.NoError(t, err)
	_, err = store.UpdatePaymentStatus(ctx, r.ID, 500)
	require.NoError(t, err)
	require.NoError(t, store.AddBlockedDate(ctx, day(2024, 8, 1)))
	require.NoError(t, store.SetShowDiscount(ctx, true))

	assert.Equal(t, 5, snaps.saves)
	require.NotNil(t, snaps.last)
	assert.Len(t, snaps.last.Reservations, 1)
	assert.Equal(t, domain.PaymentPartial, snaps.last.Reservations[0].PaymentStatus)
}

func TestStoreReloadsPersistedState(t *testing.T) {
	snaps := &fakeSnapshots{}
	clk := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	store, err := NewStore(context.Background(), snaps, clk)
	require.NoError(t, err)

	r, err := store.AddReservation(context.Background(), submission(day(2024, 6, 1), day(2024, 6, 3)))
	require.NoError(t, err)
	_, err = store.UpdateReservationStatus(context.Background(), r.ID, domain.ReservationApproved)
	require.NoError(t, err)

	reloaded, err := NewStore(context.Background(), snaps, clk)
	require.NoError(t, err)

	assert.False(t, reloaded.IsDateAvailable(day(2024, 6, 2)))
	assert.Len(t, reloaded.Reservations(), 1)
}

func TestReservationIDsAreMonotonic(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	// clock does not advance between submissions
	a, err := store.AddReservation(ctx, submission(day(2024, 6, 1), day(2024, 6, 3)))
	require.NoError(t, err)
	b, err := store.AddReservation(ctx, submission(day(2024, 7, 1), day(2024, 7, 3)))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Greater(t, b.ID, a.ID)
}
