package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"guesthouse/internal/domain"
)

// SnapshotKey is the fixed namespace the widget persists under. The whole
// widget state lives in a single row keyed by it.
const SnapshotKey = "guesthouse-reservations"

const snapshotVersion = 1

type snapshotModel struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (snapshotModel) TableName() string { return "snapshots" }

// envelope is the persisted layout: a version wrapper around the state
// object. Dates travel as ISO-8601 strings and are rehydrated to time.Time
// on load, before any comparison logic runs.
type envelope struct {
	Version int           `json:"version"`
	State   snapshotState `json:"state"`
}

type snapshotState struct {
	Reservations              []domain.Reservation `json:"reservations"`
	BlockedDates              []time.Time          `json:"blockedDates"`
	ShowDiscount              bool                 `json:"showDiscount"`
	DiscountEndTime           *time.Time           `json:"discountEndTime"`
	DiscountNotificationShown bool                 `json:"discountNotificationShown"`
}

type SnapshotRepository struct {
	db  *gorm.DB
	key string
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db, key: SnapshotKey}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&snapshotModel{})
}

// Load reads the persisted snapshot. A missing or malformed row degrades
// to the empty initial state rather than failing the widget.
func (r *SnapshotRepository) Load(ctx context.Context) (*domain.State, error) {
	var m snapshotModel
	err := r.db.WithContext(ctx).First(&m, "key = ?", r.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return emptyState(), nil
	}
	if err != nil {
		return nil, err
	}

	st, err := decodeState([]byte(m.Value))
	if err != nil {
		log.Printf("snapshot %q is malformed, starting from empty state: %v", r.key, err)
		return emptyState(), nil
	}
	return st, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, st *domain.State) error {
	payload, err := encodeState(st)
	if err != nil {
		return err
	}

	m := snapshotModel{Key: r.key, Value: string(payload), UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&m).Error
}

func emptyState() *domain.State {
	return &domain.State{
		Reservations: []domain.Reservation{},
		BlockedDates: []time.Time{},
	}
}

func encodeState(st *domain.State) ([]byte, error) {
	env := envelope{
		Version: snapshotVersion,
		State: snapshotState{
			Reservations:              st.Reservations,
			BlockedDates:              st.BlockedDates,
			ShowDiscount:              st.Discount.ShowDiscount,
			DiscountEndTime:           st.Discount.EndTime,
			DiscountNotificationShown: st.Discount.NotificationShown,
		},
	}
	return json.Marshal(env)
}

func decodeState(raw []byte) (*domain.State, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}

	st := &domain.State{
		Reservations: env.State.Reservations,
		BlockedDates: env.State.BlockedDates,
		Discount: domain.DiscountState{
			ShowDiscount:      env.State.ShowDiscount,
			EndTime:           env.State.DiscountEndTime,
			NotificationShown: env.State.DiscountNotificationShown,
		},
	}
	if st.Reservations == nil {
		st.Reservations = []domain.Reservation{}
	}
	if st.BlockedDates == nil {
		st.BlockedDates = []time.Time{}
	}
	return st, nil
}
