package domain

import "time"

type ReservationStatus string

const (
	ReservationPending  ReservationStatus = "pending"
	ReservationApproved ReservationStatus = "approved"
	ReservationRejected ReservationStatus = "rejected"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationApproved, ReservationRejected:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPartial   PaymentStatus = "partial"
	PaymentCompleted PaymentStatus = "completed"
)

// Reservation is a guest's request for a stay over an inclusive date range.
// TotalPrice and DiscountApplied are frozen at creation time and never
// recomputed, even if the rate or the discount offer changes afterwards.
type Reservation struct {
	ID              string            `json:"id"`
	StartDate       time.Time         `json:"startDate"`
	EndDate         time.Time         `json:"endDate"`
	GuestCount      int               `json:"guestCount"`
	Status          ReservationStatus `json:"status"`
	CustomerName    string            `json:"customerName"`
	CustomerEmail   string            `json:"customerEmail"`
	CustomerPhone   string            `json:"customerPhone"`
	TotalPrice      float64           `json:"totalPrice"`
	DiscountApplied bool              `json:"discountApplied"`
	PaymentStatus   PaymentStatus     `json:"paymentStatus"`
	PaidAmount      float64           `json:"paidAmount"`
}

// CoversDay reports whether day falls inside the reservation's stay,
// endpoints included. day must already be a DayKey value.
func (r Reservation) CoversDay(day time.Time) bool {
	start := DayKey(r.StartDate)
	end := DayKey(r.EndDate)
	return !day.Before(start) && !day.After(end)
}

// DiscountState is the process-wide promotional offer singleton. EndTime is
// nil while no offer window is open. NotificationShown latches once the
// one-shot arming timer has fired and survives reloads, so the offer is
// armed at most once per persisted session.
type DiscountState struct {
	ShowDiscount      bool       `json:"showDiscount"`
	EndTime           *time.Time `json:"discountEndTime"`
	NotificationShown bool       `json:"discountNotificationShown"`
}

// Active reports whether the offer is visible and unexpired at now.
func (d DiscountState) Active(now time.Time) bool {
	return d.ShowDiscount && d.EndTime != nil && d.EndTime.After(now)
}

// State is everything the widget persists: reservations, operator-blocked
// dates and the discount offer singleton.
type State struct {
	Reservations []Reservation
	BlockedDates []time.Time
	Discount     DiscountState
}

// DayKey normalizes a calendar date to midnight UTC. All day-granular
// comparisons (blocked dates, stay intervals) go through this, replacing
// the exact-timestamp equality the original contract relied on.
func DayKey(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
