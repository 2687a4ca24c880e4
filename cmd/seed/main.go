package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"guesthouse/internal/database"
	"guesthouse/internal/domain"
	"guesthouse/internal/modules/pricing"
	"guesthouse/internal/modules/reservation"
	"guesthouse/internal/pkg/clock"
	"guesthouse/internal/repository"
)

// Seeds the local store with demo data and, when ADMIN_PASSWORD is set,
// prints the bcrypt hash to put in ADMIN_PASSWORD_HASH.
func main() {
	_ = godotenv.Load()

	if pw := os.Getenv("ADMIN_PASSWORD"); pw != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("hash admin password:", err)
		}
		log.Printf("ADMIN_PASSWORD_HASH=%s", hash)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "guesthouse.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}

	ctx := context.Background()
	store, err := reservation.NewStore(ctx, repository.NewSnapshotRepository(db), clock.New())
	if err != nil {
		log.Fatal(err)
	}

	nextMonth := time.Now().UTC().AddDate(0, 1, 0)

	// a maintenance day blocked by the operator
	blocked := domain.DayKey(nextMonth)
	if err := store.AddBlockedDate(ctx, blocked); err != nil {
		log.Fatal(err)
	}
	log.Println("blocked date:", blocked.Format(reservation.DateFormat))

	// a demo stay, approved so it shows up on the calendar
	start := domain.DayKey(nextMonth.AddDate(0, 0, 7))
	end := start.AddDate(0, 0, 2)
	days := pricing.TotalDays(start, end)

	r, err := store.AddReservation(ctx, reservation.NewReservation{
		StartDate:     start,
		EndDate:       end,
		GuestCount:    2,
		CustomerName:  "Demo Guest",
		CustomerEmail: "guest@example.com",
		CustomerPhone: "+90 555 000 0000",
		BasePrice:     pricing.BasePrice(days, pricing.DailyRate),
	})
	if err != nil {
		log.Fatal(err)
	}
	if _, err := store.UpdateReservationStatus(ctx, r.ID, domain.ReservationApproved); err != nil {
		log.Fatal(err)
	}
	log.Printf("seeded reservation %s (%s to %s, total %.0f)",
		r.ID, start.Format(reservation.DateFormat), end.Format(reservation.DateFormat), r.TotalPrice)
}
