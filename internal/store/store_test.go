package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pizzeria-next/internal/models"
)

type memoryPersister struct {
	mu   sync.Mutex
	data map[string][]byte
	fail bool
}

func newMemoryPersister() *memoryPersister {
	return &memoryPersister{data: make(map[string][]byte)}
}

func (p *memoryPersister) Save(_ context.Context, key string, data []byte, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("save failed")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	p.data[key] = cp
	return nil
}

func (p *memoryPersister) Load(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.data[key]
	return d, ok, nil
}

func (p *memoryPersister) Delete(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, key)
	return nil
}

func lineItem(id string, price float64) models.OrderLineItem {
	return models.OrderLineItem{
		ID:    id,
		Name:  "item " + id,
		Price: models.NewMoneyFromFloat(price),
	}
}

func newHydrated(t *testing.T, p Persister) *Store {
	t.Helper()
	s := New("sess-1", p, Options{HistoryLimit: 3})
	s.Hydrate(context.Background())
	return s
}

func TestAddItemSameIDIncrementsQuantity(t *testing.T) {
	s := newHydrated(t, newMemoryPersister())
	ctx := context.Background()

	s.AddItem(ctx, lineItem("margherita", 8.50))
	s.AddItem(ctx, lineItem("margherita", 8.50))

	snap := s.Snapshot()
	if len(snap.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(snap.Items))
	}
	if snap.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", snap.Items[0].Quantity)
	}
	if got := snap.Total.String(); got != "17.00" {
		t.Fatalf("expected total 17.00, got %s", got)
	}
}

func TestUpdateQuantityBelowZeroRemovesLine(t *testing.T) {
	s := newHydrated(t, newMemoryPersister())
	ctx := context.Background()

	s.AddItem(ctx, lineItem("pepperoni", 10))
	s.AddItem(ctx, lineItem("pepperoni", 10))
	s.UpdateQuantity(ctx, "pepperoni", -5)

	snap := s.Snapshot()
	if len(snap.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(snap.Items))
	}
	if got := snap.Total.String(); got != "0.00" {
		t.Fatalf("expected total 0.00, got %s", got)
	}
}

func TestRemoveUnknownItemIsNoop(t *testing.T) {
	s := newHydrated(t, newMemoryPersister())
	ctx := context.Background()

	s.AddItem(ctx, lineItem("hawaiana", 9))
	s.RemoveItem(ctx, "does-not-exist")
	s.UpdateQuantity(ctx, "does-not-exist", 3)

	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Quantity != 1 {
		t.Fatalf("unexpected cart state: %+v", snap.Items)
	}
}

func TestRemoveItemDropsDuplicateLines(t *testing.T) {
	p := newMemoryPersister()
	ctx := context.Background()
	p.data["cart:v2:sess-1"] = []byte(`{"items":[
		{"id":"margherita","name":"a","price":"8.50","quantity":1},
		{"id":"margherita","name":"b","price":"8.50","quantity":2},
		{"id":"refresco","name":"c","price":"2.00","quantity":1}]}`)

	s := newHydrated(t, p)
	s.RemoveItem(ctx, "margherita")

	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "refresco" {
		t.Fatalf("expected only refresco left, got %+v", snap.Items)
	}
	if got := snap.Total.String(); got != "2.00" {
		t.Fatalf("expected total 2.00, got %s", got)
	}
}

func TestPerFieldSettersKeepSiblingFields(t *testing.T) {
	s := newHydrated(t, newMemoryPersister())
	ctx := context.Background()

	s.SetCustomer(ctx, "Ana", "+584121234567", "ana@example.com")
	s.SetDelivery(ctx, "delivery", "Av. Principal 123", &Location{Lat: 10.5, Lng: -66.9})

	s.SetDeliveryType(ctx, "pickup")
	s.SetPhoneNumber(ctx, "+584125550000")

	snap := s.Snapshot()
	if snap.DeliveryType != "pickup" || snap.Phone != "+584125550000" {
		t.Fatalf("updates not applied: %+v", snap)
	}
	if snap.Address != "Av. Principal 123" || snap.Location == nil || snap.Location.Lat != 10.5 {
		t.Fatalf("delivery details clobbered: %+v", snap)
	}
	if snap.UserName != "Ana" || snap.Email != "ana@example.com" {
		t.Fatalf("contact details clobbered: %+v", snap)
	}

	s.SetUserName(ctx, "María")
	s.SetEmail(ctx, "maria@example.com")
	s.SetAddress(ctx, "Calle 5 con Av. 3")
	s.SetLocation(ctx, nil)

	snap = s.Snapshot()
	if snap.UserName != "María" || snap.Email != "maria@example.com" || snap.Address != "Calle 5 con Av. 3" {
		t.Fatalf("updates not applied: %+v", snap)
	}
	if snap.Location != nil {
		t.Fatalf("location should clear, got %+v", snap.Location)
	}
	if snap.Phone != "+584125550000" || snap.DeliveryType != "pickup" {
		t.Fatalf("sibling fields clobbered: %+v", snap)
	}
}

func TestTotalPrefersCustomizedPrice(t *testing.T) {
	s := newHydrated(t, newMemoryPersister())
	ctx := context.Background()

	custom := models.NewMoneyFromFloat(12.50)
	item := lineItem("margherita-familiar", 8.50)
	item.TotalPrice = &custom
	s.AddItem(ctx, item)
	s.AddItem(ctx, item)
	s.AddItem(ctx, lineItem("refresco", 2))

	if got := s.Total().String(); got != "27.00" {
		t.Fatalf("expected total 27.00, got %s", got)
	}
}

func TestClearCartKeepsOrderHistory(t *testing.T) {
	s := newHydrated(t, newMemoryPersister())
	ctx := context.Background()

	s.AddItem(ctx, lineItem("4-quesos", 11))
	s.RecordOrder(ctx, OrderSummary{OrderNo: "PZ-1", Total: models.NewMoneyFromFloat(11), Status: "pending", CreatedAt: time.Now()})
	s.ClearCart(ctx)

	snap := s.Snapshot()
	if len(snap.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(snap.Items))
	}
	if len(snap.Orders) != 1 || snap.Orders[0].OrderNo != "PZ-1" {
		t.Fatalf("order history lost: %+v", snap.Orders)
	}
}

func TestOrderHistoryTrimsOldestPastLimit(t *testing.T) {
	s := newHydrated(t, newMemoryPersister())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		s.RecordOrder(ctx, OrderSummary{OrderNo: string(rune('A' + i)), CreatedAt: time.Now()})
	}

	snap := s.Snapshot()
	if len(snap.Orders) != 3 {
		t.Fatalf("expected history capped at 3, got %d", len(snap.Orders))
	}
	if snap.Orders[0].OrderNo != "E" || snap.Orders[2].OrderNo != "C" {
		t.Fatalf("expected newest-first E,D,C, got %+v", snap.Orders)
	}
}

func TestPersistAndHydrateRoundTrip(t *testing.T) {
	p := newMemoryPersister()
	ctx := context.Background()

	s := newHydrated(t, p)
	s.AddItem(ctx, lineItem("margherita", 8.50))
	s.SetCustomer(ctx, "Ana", "+584121234567", "ana@example.com")
	s.SetDelivery(ctx, "delivery", "Av. Principal 123", &Location{Lat: 10.5, Lng: -66.9})
	s.SetLanguage(ctx, "es")

	restored := New("sess-1", p, Options{HistoryLimit: 3})
	restored.Hydrate(ctx)

	snap := restored.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "margherita" {
		t.Fatalf("items not restored: %+v", snap.Items)
	}
	if got := snap.Total.String(); got != "8.50" {
		t.Fatalf("total not recomputed on hydrate, got %s", got)
	}
	if snap.UserName != "Ana" || snap.Address != "Av. Principal 123" || snap.Language != "es" {
		t.Fatalf("contact details not restored: %+v", snap)
	}
	if snap.Location == nil || snap.Location.Lat != 10.5 {
		t.Fatalf("location not restored: %+v", snap.Location)
	}
}

func TestHydrateRunsOnce(t *testing.T) {
	p := newMemoryPersister()
	ctx := context.Background()

	s := newHydrated(t, p)
	s.AddItem(ctx, lineItem("margherita", 8.50))

	// A second hydrate must not reset in-memory state.
	s.Hydrate(ctx)
	if s.ItemCount() != 1 {
		t.Fatalf("second hydrate clobbered state")
	}
	if !s.Hydrated() {
		t.Fatalf("expected hydrated")
	}
	if err := s.AwaitHydration(ctx); err != nil {
		t.Fatalf("await: %v", err)
	}
}

func TestPersistFailureDoesNotBreakSession(t *testing.T) {
	p := newMemoryPersister()
	p.fail = true
	ctx := context.Background()

	s := newHydrated(t, p)
	s.AddItem(ctx, lineItem("margherita", 8.50))
	s.AddItem(ctx, lineItem("pepperoni", 10))

	if got := s.Total().String(); got != "18.50" {
		t.Fatalf("in-memory state should survive persist failures, got total %s", got)
	}
}

func TestCorruptSnapshotLeavesStoreEmpty(t *testing.T) {
	p := newMemoryPersister()
	ctx := context.Background()
	p.data["cart:v2:sess-1"] = []byte("not json")

	s := New("sess-1", p, Options{})
	s.Hydrate(ctx)

	if s.ItemCount() != 0 {
		t.Fatalf("corrupt snapshot should hydrate to empty store")
	}
}

func TestManagerReturnsSameStorePerSession(t *testing.T) {
	m := NewManager(newMemoryPersister(), Options{})
	ctx := context.Background()

	a := m.Get(ctx, "s1")
	b := m.Get(ctx, "s1")
	c := m.Get(ctx, "s2")

	if a != b {
		t.Fatalf("same session must share one store")
	}
	if a == c {
		t.Fatalf("distinct sessions must not share a store")
	}

	m.Drop(ctx, "s1")
	if _, ok := m.Peek("s1"); ok {
		t.Fatalf("dropped session still present")
	}
}
