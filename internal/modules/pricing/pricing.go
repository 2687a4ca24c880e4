package pricing

import (
	"time"

	"guesthouse/internal/domain"
	"guesthouse/internal/pkg/clock"
)

const (
	// DailyRate is the nightly rate for the unit, in currency units.
	DailyRate = 3500.0

	// DiscountRate is the promotional reduction applied while the
	// time-boxed offer is active.
	DiscountRate = 0.05
)

// TotalDays counts whole days in the stay, both endpoints included:
// a one-day stay is 1, day 1 through day 3 is 3. Missing endpoints or a
// reversed range count as zero days.
func TotalDays(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	s := domain.DayKey(start)
	e := domain.DayKey(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s)/(24*time.Hour)) + 1
}

func BasePrice(days int, dailyRate float64) float64 {
	if days <= 0 {
		return 0
	}
	return float64(days) * dailyRate
}

func EffectivePrice(basePrice float64, discountActive bool) float64 {
	if discountActive {
		return basePrice * (1 - DiscountRate)
	}
	return basePrice
}

// DiscountSource reports whether the promotional offer is live at a given
// instant. The reservation store satisfies it.
type DiscountSource interface {
	DiscountActive(now time.Time) bool
}

type Quote struct {
	Days           int     `json:"days"`
	DailyRate      float64 `json:"dailyRate"`
	BasePrice      float64 `json:"basePrice"`
	DiscountActive bool    `json:"discountActive"`
	TotalPrice     float64 `json:"totalPrice"`
}

// Quoter derives a displayable price from a date range and live discount
// state. Discount eligibility is evaluated at query time, never cached, so
// the quoted price can change between calls if the offer expires.
type Quoter struct {
	discounts DiscountSource
	clock     clock.Clock
}

func NewQuoter(discounts DiscountSource, clk clock.Clock) *Quoter {
	return &Quoter{discounts: discounts, clock: clk}
}

func (q *Quoter) Quote(start, end time.Time) Quote {
	days := TotalDays(start, end)
	base := BasePrice(days, DailyRate)
	active := q.discounts.DiscountActive(q.clock.Now())

	return Quote{
		Days:           days,
		DailyRate:      DailyRate,
		BasePrice:      base,
		DiscountActive: active,
		TotalPrice:     EffectivePrice(base, active),
	}
}
