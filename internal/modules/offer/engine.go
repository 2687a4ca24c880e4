package offer

import (
	"context"
	"log"
	"sync"
	"time"

	"guesthouse/internal/domain"
	"guesthouse/internal/pkg/clock"
)

// Store is the slice of the reservation store the engine drives. The
// setters are raw; the engine owns the offer invariants.
type Store interface {
	DiscountState() domain.DiscountState
	SetShowDiscount(ctx context.Context, show bool) error
	SetDiscountEndTime(ctx context.Context, end *time.Time) error
	SetDiscountNotificationShown(ctx context.Context, shown bool) error
}

type Config struct {
	ArmDelay  time.Duration // dwell before the offer fires, once per session
	Window    time.Duration // how long the offer stays open
	TickEvery time.Duration // countdown granularity
}

func DefaultConfig() Config {
	return Config{
		ArmDelay:  120 * time.Second,
		Window:    240 * time.Second,
		TickEvery: time.Second,
	}
}

// Engine is the time-boxed discount offer state machine: Idle until the
// arming delay fires, Active while the window counts down, Resolved after
// expiry or dismissal. The NotificationShown latch persists, so the offer
// arms at most once per persisted session even across restarts.
type Engine struct {
	store Store
	clock clock.Clock
	cfg   Config
	hub   *Hub

	mu        sync.Mutex
	minimized bool
}

func NewEngine(store Store, clk clock.Clock, cfg Config, hub *Hub) *Engine {
	return &Engine{store: store, clock: clk, cfg: cfg, hub: hub}
}

// Start drives the machine until ctx is cancelled or the offer resolves
// for this session. The arming timer only exists while the latch is unset.
func (e *Engine) Start(ctx context.Context) {
	var armC <-chan time.Time
	if !e.store.DiscountState().NotificationShown {
		armTimer := time.NewTimer(e.cfg.ArmDelay)
		defer armTimer.Stop()
		armC = armTimer.C
	}

	ticker := time.NewTicker(e.cfg.TickEvery)
	defer ticker.Stop()

	log.Println("discount offer engine started")

	for {
		select {
		case <-ctx.Done():
			log.Println("discount offer engine stopped")
			return
		case <-armC:
			armC = nil
			e.Arm(ctx)
		case <-ticker.C:
			e.Tick(ctx)
			if armC == nil && e.resolved() {
				log.Println("discount offer resolved, engine done for this session")
				return
			}
		}
	}
}

// Arm opens the offer window: end time first, then visibility, then the
// latch. A set latch makes this a no-op, whoever calls it.
func (e *Engine) Arm(ctx context.Context) {
	if e.store.DiscountState().NotificationShown {
		return
	}

	end := e.clock.Now().Add(e.cfg.Window)
	if err := e.store.SetDiscountEndTime(ctx, &end); err != nil {
		log.Printf("arm offer: %v", err)
		return
	}
	if err := e.store.SetShowDiscount(ctx, true); err != nil {
		log.Printf("arm offer: %v", err)
		return
	}
	if err := e.store.SetDiscountNotificationShown(ctx, true); err != nil {
		log.Printf("arm offer: %v", err)
	}
	e.broadcast()
}

// Tick re-evaluates the countdown. Once the window is exhausted the offer
// is forced closed and the end time cleared.
func (e *Engine) Tick(ctx context.Context) {
	st := e.store.DiscountState()
	if st.EndTime == nil {
		return
	}

	if st.EndTime.After(e.clock.Now()) {
		e.broadcast()
		return
	}

	if err := e.store.SetShowDiscount(ctx, false); err != nil {
		log.Printf("expire offer: %v", err)
		return
	}
	if err := e.store.SetDiscountEndTime(ctx, nil); err != nil {
		log.Printf("expire offer: %v", err)
	}
	e.broadcast()
}

// Dismiss closes the offer immediately on the visitor's request. The latch
// stays set, so the arming timer cannot refire afterwards.
func (e *Engine) Dismiss(ctx context.Context) error {
	if err := e.store.SetShowDiscount(ctx, false); err != nil {
		return err
	}
	if err := e.store.SetDiscountEndTime(ctx, nil); err != nil {
		return err
	}

	e.mu.Lock()
	e.minimized = false
	e.mu.Unlock()

	e.broadcast()
	return nil
}

// Accept collapses the notification to its compact form. Purely
// presentational: it neither consumes nor extends the window.
func (e *Engine) Accept() {
	e.mu.Lock()
	e.minimized = true
	e.mu.Unlock()
	e.broadcast()
}

// Remaining is the time left in the open window, zero when none is open.
func (e *Engine) Remaining() time.Duration {
	st := e.store.DiscountState()
	if st.EndTime == nil {
		return 0
	}
	rem := st.EndTime.Sub(e.clock.Now())
	if rem < 0 {
		return 0
	}
	return rem
}

type View struct {
	ShowDiscount     bool  `json:"showDiscount"`
	RemainingSeconds int64 `json:"remainingSeconds"`
	Minimized        bool  `json:"minimized"`
}

// View is what the notification renders. Visibility is evaluated against
// now, so an expired window reads as hidden even before the expiry tick
// lands.
func (e *Engine) View() View {
	st := e.store.DiscountState()

	e.mu.Lock()
	minimized := e.minimized
	e.mu.Unlock()

	return View{
		ShowDiscount:     st.Active(e.clock.Now()),
		RemainingSeconds: int64(e.Remaining() / time.Second),
		Minimized:        minimized,
	}
}

func (e *Engine) resolved() bool {
	st := e.store.DiscountState()
	return st.NotificationShown && !st.ShowDiscount && st.EndTime == nil
}

func (e *Engine) broadcast() {
	if e.hub != nil {
		e.hub.Broadcast(e.View())
	}
}
