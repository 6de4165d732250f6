package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pizzeria-next/internal/logger"
	"github.com/pizzeria-next/internal/models"

	"github.com/shopspring/decimal"
)

// Location is an optional delivery pin attached to the session.
type Location struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Link string  `json:"link,omitempty"`
}

// UserRef identifies an authenticated customer attached to the session.
type UserRef struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// OrderSummary is one entry of the session's local order history.
type OrderSummary struct {
	OrderNo   string       `json:"order_no"`
	Total     models.Money `json:"total"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// persistedState is the subset of the session state that survives restarts.
// Transient UI flags (open panels, in-flight spinners) are deliberately not
// part of it.
type persistedState struct {
	Items        []models.OrderLineItem `json:"items"`
	DeliveryType string                 `json:"delivery_type"`
	Address      string                 `json:"address"`
	Phone        string                 `json:"phone"`
	UserName     string                 `json:"user_name"`
	Email        string                 `json:"email"`
	Location     *Location              `json:"location,omitempty"`
	Language     string                 `json:"language"`
	User         *UserRef               `json:"user,omitempty"`
	Orders       []OrderSummary         `json:"orders"`
}

// Options configures a session store.
type Options struct {
	KeyVersion   string
	HistoryLimit int
	TTL          time.Duration
}

// Store holds one customer session: the cart, contact details and a bounded
// local order history. Every mutation recomputes the total and persists the
// durable subset. Persistence failures are logged and swallowed so the
// in-memory session keeps working.
type Store struct {
	mu sync.Mutex

	sessionID string
	persister Persister
	opts      Options

	items        []models.OrderLineItem
	total        models.Money
	deliveryType string
	address      string
	phone        string
	userName     string
	email        string
	location     *Location
	language     string
	user         *UserRef
	orders       []OrderSummary

	hydrateOnce sync.Once
	hydrated    chan struct{}
}

// New creates an empty store for a session. Call Hydrate before reading to
// restore any persisted state.
func New(sessionID string, persister Persister, opts Options) *Store {
	if opts.KeyVersion == "" {
		opts.KeyVersion = "v2"
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}
	return &Store{
		sessionID: sessionID,
		persister: persister,
		opts:      opts,
		hydrated:  make(chan struct{}),
	}
}

func (s *Store) key() string {
	return fmt.Sprintf("cart:%s:%s", s.opts.KeyVersion, s.sessionID)
}

// Hydrate restores persisted state. It runs at most once per store, later
// calls return immediately. A missing or unreadable snapshot leaves the store
// empty.
func (s *Store) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() {
		defer close(s.hydrated)
		if s.persister == nil {
			return
		}
		data, ok, err := s.persister.Load(ctx, s.key())
		if err != nil {
			logger.Warnw("cart_hydrate_failed", "session", s.sessionID, "error", err)
			return
		}
		if !ok {
			return
		}
		var state persistedState
		if err := json.Unmarshal(data, &state); err != nil {
			logger.Warnw("cart_hydrate_corrupt", "session", s.sessionID, "error", err)
			return
		}
		s.mu.Lock()
		s.items = state.Items
		s.deliveryType = state.DeliveryType
		s.address = state.Address
		s.phone = state.Phone
		s.userName = state.UserName
		s.email = state.Email
		s.location = state.Location
		s.language = state.Language
		s.user = state.User
		s.orders = state.Orders
		s.recomputeTotalLocked()
		s.mu.Unlock()
	})
}

// Hydrated reports whether Hydrate has completed.
func (s *Store) Hydrated() bool {
	select {
	case <-s.hydrated:
		return true
	default:
		return false
	}
}

// AwaitHydration blocks until Hydrate completes or the context is done.
func (s *Store) AwaitHydration(ctx context.Context) error {
	select {
	case <-s.hydrated:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddItem puts a line in the cart. An item with the same ID bumps the
// existing quantity instead of adding a duplicate line.
func (s *Store) AddItem(ctx context.Context, item models.OrderLineItem) {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		item.Quantity = 1
		s.items = append(s.items, item)
	}
	s.recomputeTotalLocked()
	s.mu.Unlock()
	s.persist(ctx)
}

// RemoveItem drops every line with the given ID. A hydrated snapshot may
// carry duplicate lines, all of them go. Unknown IDs are a no-op.
func (s *Store) RemoveItem(ctx context.Context, itemID string) {
	s.mu.Lock()
	changed := false
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID == itemID {
			changed = true
			continue
		}
		kept = append(kept, item)
	}
	if changed {
		s.items = kept
		s.recomputeTotalLocked()
	}
	s.mu.Unlock()
	if changed {
		s.persist(ctx)
	}
}

// UpdateQuantity adjusts a line's quantity by delta. Quantities that reach
// zero or below remove the line. Unknown IDs are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, delta int) {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items[i].Quantity += delta
			if s.items[i].Quantity <= 0 {
				s.items = append(s.items[:i], s.items[i+1:]...)
			}
			changed = true
			break
		}
	}
	if changed {
		s.recomputeTotalLocked()
	}
	s.mu.Unlock()
	if changed {
		s.persist(ctx)
	}
}

// ClearCart empties the cart lines. Order history and contact details stay.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.recomputeTotalLocked()
	s.mu.Unlock()
	s.persist(ctx)
}

// SetCustomer updates all contact details used at checkout in one go.
func (s *Store) SetCustomer(ctx context.Context, name, phone, email string) {
	s.mu.Lock()
	s.userName = name
	s.phone = phone
	s.email = email
	s.mu.Unlock()
	s.persist(ctx)
}

// SetUserName updates the customer name, leaving the other details alone.
func (s *Store) SetUserName(ctx context.Context, name string) {
	s.mu.Lock()
	s.userName = name
	s.mu.Unlock()
	s.persist(ctx)
}

// SetPhoneNumber updates the contact phone number.
func (s *Store) SetPhoneNumber(ctx context.Context, phone string) {
	s.mu.Lock()
	s.phone = phone
	s.mu.Unlock()
	s.persist(ctx)
}

// SetEmail updates the contact email.
func (s *Store) SetEmail(ctx context.Context, email string) {
	s.mu.Lock()
	s.email = email
	s.mu.Unlock()
	s.persist(ctx)
}

// SetDelivery updates delivery type, address and optional location pin in
// one go.
func (s *Store) SetDelivery(ctx context.Context, deliveryType, address string, loc *Location) {
	s.mu.Lock()
	s.deliveryType = deliveryType
	s.address = address
	s.location = loc
	s.mu.Unlock()
	s.persist(ctx)
}

// SetDeliveryType updates the delivery mode, keeping address and location.
func (s *Store) SetDeliveryType(ctx context.Context, deliveryType string) {
	s.mu.Lock()
	s.deliveryType = deliveryType
	s.mu.Unlock()
	s.persist(ctx)
}

// SetAddress updates the delivery address.
func (s *Store) SetAddress(ctx context.Context, address string) {
	s.mu.Lock()
	s.address = address
	s.mu.Unlock()
	s.persist(ctx)
}

// SetLocation updates or clears the delivery map pin.
func (s *Store) SetLocation(ctx context.Context, loc *Location) {
	s.mu.Lock()
	s.location = loc
	s.mu.Unlock()
	s.persist(ctx)
}

// SetLanguage updates the session locale.
func (s *Store) SetLanguage(ctx context.Context, language string) {
	s.mu.Lock()
	s.language = language
	s.mu.Unlock()
	s.persist(ctx)
}

// SetUser attaches or detaches an authenticated customer.
func (s *Store) SetUser(ctx context.Context, user *UserRef) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.persist(ctx)
}

// RecordOrder prepends an order to the session history, trimming the oldest
// entries past the configured limit.
func (s *Store) RecordOrder(ctx context.Context, summary OrderSummary) {
	s.mu.Lock()
	s.orders = append([]OrderSummary{summary}, s.orders...)
	if len(s.orders) > s.opts.HistoryLimit {
		s.orders = s.orders[:s.opts.HistoryLimit]
	}
	s.mu.Unlock()
	s.persist(ctx)
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Items        []models.OrderLineItem
	Total        models.Money
	DeliveryType string
	Address      string
	Phone        string
	UserName     string
	Email        string
	Location     *Location
	Language     string
	User         *UserRef
	Orders       []OrderSummary
}

// Snapshot returns a consistent copy of the session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Items:        make([]models.OrderLineItem, len(s.items)),
		Total:        s.total,
		DeliveryType: s.deliveryType,
		Address:      s.address,
		Phone:        s.phone,
		UserName:     s.userName,
		Email:        s.email,
		Language:     s.language,
		Orders:       make([]OrderSummary, len(s.orders)),
	}
	copy(snap.Items, s.items)
	copy(snap.Orders, s.orders)
	if s.location != nil {
		loc := *s.location
		snap.Location = &loc
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Total returns the current cart total.
func (s *Store) Total() models.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// ItemCount returns the number of units across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.items {
		n += s.items[i].Quantity
	}
	return n
}

// recomputeTotalLocked derives the total from scratch. A line's unit price is
// its customized total price when present, its base price otherwise.
func (s *Store) recomputeTotalLocked() {
	sum := decimal.Zero
	for i := range s.items {
		unit := s.items[i].Price.Decimal
		if s.items[i].TotalPrice != nil {
			unit = s.items[i].TotalPrice.Decimal
		}
		sum = sum.Add(unit.Mul(decimal.NewFromInt(int64(s.items[i].Quantity))))
	}
	s.total = models.NewMoneyFromDecimal(sum)
}

// persist writes the durable subset. Failures never surface to the caller.
func (s *Store) persist(ctx context.Context) {
	if s.persister == nil {
		return
	}
	s.mu.Lock()
	state := persistedState{
		Items:        s.items,
		DeliveryType: s.deliveryType,
		Address:      s.address,
		Phone:        s.phone,
		UserName:     s.userName,
		Email:        s.email,
		Location:     s.location,
		Language:     s.language,
		User:         s.user,
		Orders:       s.orders,
	}
	s.mu.Unlock()

	data, err := json.Marshal(state)
	if err != nil {
		logger.Warnw("cart_persist_marshal_failed", "session", s.sessionID, "error", err)
		return
	}
	if err := s.persister.Save(ctx, s.key(), data, s.opts.TTL); err != nil {
		logger.Warnw("cart_persist_failed", "session", s.sessionID, "error", err)
	}
}
