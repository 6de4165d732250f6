package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/pizzeria-next/internal/config"
	"github.com/pizzeria-next/internal/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type memoryQueueStore struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

func (s *memoryQueueStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.set = true
	return nil
}

func (s *memoryQueueStore) Load(_ context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, s.set, nil
}

// endpoint is a fake webhook receiver. failFn decides per POST (by sequence
// number, 0-based) whether to answer 502.
type endpoint struct {
	mu     sync.Mutex
	posts  []Payload
	seq    int
	failFn func(seq int) bool
}

func (e *endpoint) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		seq := e.seq
		e.seq++
		if e.failFn != nil && e.failFn(seq) {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var p Payload
		_ = json.NewDecoder(r.Body).Decode(&p)
		e.posts = append(e.posts, p)
		w.WriteHeader(http.StatusOK)
	}
}

func (e *endpoint) setFailFn(fn func(seq int) bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failFn = fn
	e.seq = 0
}

func (e *endpoint) received() []Payload {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Payload, len(e.posts))
	copy(out, e.posts)
	return out
}

func failAlways(int) bool { return true }

func newTestDispatcher(url string, capacity int, store QueueStore) *Dispatcher {
	return NewDispatcher(
		config.WebhookConfig{
			URL:             url,
			Source:          "pizzeria-next-test",
			TimeoutMS:       2000,
			BeaconTimeoutMS: 500,
			QueueCapacity:   capacity,
			ProbeTimeoutMS:  500,
		},
		config.AppConfig{Name: "pizzeria-next", Version: "test", Environment: "test"},
		store,
	)
}

func TestSendEventWithoutURLIsNoop(t *testing.T) {
	d := newTestDispatcher("", 50, &memoryQueueStore{})

	d.SendEvent(context.Background(), "ORDER_CREATED", map[string]string{"order_no": "PZ-1"}, Meta{})

	if d.QueueLen() != 0 {
		t.Fatalf("disabled dispatcher must not queue, got %d", d.QueueLen())
	}
	if err := d.FlushQueue(context.Background()); err != nil {
		t.Fatalf("flush on disabled dispatcher: %v", err)
	}
}

func TestSendEventDelivers(t *testing.T) {
	ep := &endpoint{}
	srv := httptest.NewServer(ep.handler())
	defer srv.Close()

	d := newTestDispatcher(srv.URL, 50, &memoryQueueStore{})
	d.SendEvent(context.Background(), "ORDER_CREATED", map[string]string{"order_no": "PZ-1"}, Meta{PageURL: "/checkout"})

	got := ep.received()
	if len(got) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(got))
	}
	if got[0].Event != "ORDER_CREATED" || got[0].Source != "pizzeria-next-test" {
		t.Fatalf("unexpected payload: %+v", got[0])
	}
	if got[0].ID == "" || got[0].Timestamp == "" {
		t.Fatalf("payload missing id/timestamp: %+v", got[0])
	}
	if d.QueueLen() != 0 {
		t.Fatalf("successful send must not queue")
	}
}

func TestSendEventFailureQueues(t *testing.T) {
	ep := &endpoint{failFn: failAlways}
	srv := httptest.NewServer(ep.handler())
	defer srv.Close()

	store := &memoryQueueStore{}
	d := newTestDispatcher(srv.URL, 50, store)
	d.SendEvent(context.Background(), "STATUS_UPDATED", map[string]string{"status": "preparing"}, Meta{})

	if d.QueueLen() != 1 {
		t.Fatalf("failed send must queue, got %d", d.QueueLen())
	}

	// The queue must round-trip through the store as a JSON array.
	data, ok, err := store.Load(context.Background())
	if err != nil || !ok {
		t.Fatalf("queue not persisted: ok=%v err=%v", ok, err)
	}
	var persisted []Payload
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("persisted queue is not a JSON array: %v", err)
	}
	if len(persisted) != 1 || persisted[0].Event != "STATUS_UPDATED" {
		t.Fatalf("unexpected persisted queue: %+v", persisted)
	}
}

func TestFlushStopsAtFirstFailureKeepingOrder(t *testing.T) {
	ep := &endpoint{failFn: failAlways}
	srv := httptest.NewServer(ep.handler())
	defer srv.Close()

	d := newTestDispatcher(srv.URL, 50, &memoryQueueStore{})
	ctx := context.Background()
	d.SendEvent(ctx, "EV_1", nil, Meta{})
	d.SendEvent(ctx, "EV_2", nil, Meta{})
	d.SendEvent(ctx, "EV_3", nil, Meta{})
	if d.QueueLen() != 3 {
		t.Fatalf("expected 3 queued, got %d", d.QueueLen())
	}

	// First flush delivery succeeds, the second fails, the pass aborts.
	ep.setFailFn(func(seq int) bool { return seq == 1 })
	if err := d.FlushQueue(ctx); err == nil {
		t.Fatalf("expected flush to report the aborting failure")
	}
	if d.QueueLen() != 2 {
		t.Fatalf("expected 2 payloads left after abort, got %d", d.QueueLen())
	}

	// Recover and finish, order must be preserved end to end.
	ep.setFailFn(nil)
	if err := d.FlushQueue(ctx); err != nil {
		t.Fatalf("second flush: %v", err)
	}
	if d.QueueLen() != 0 {
		t.Fatalf("queue not drained, %d left", d.QueueLen())
	}

	var events []string
	for _, p := range ep.received() {
		events = append(events, p.Event)
	}
	want := []string{"EV_1", "EV_2", "EV_3"}
	if len(events) != len(want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("order broken: expected %v, got %v", want, events)
		}
	}
}

func TestSendEventWithoutURLLogsWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	prev := logger.L
	logger.L = zap.New(core)
	defer func() { logger.L = prev }()

	d := newTestDispatcher("", 50, &memoryQueueStore{})
	d.SendEvent(context.Background(), "ORDER_CREATED", nil, Meta{})

	if logs.FilterMessage("webhook_disabled").Len() != 1 {
		t.Fatalf("expected a webhook_disabled warning, got %v", logs.All())
	}
}

func TestFlushDropsDeliveredByID(t *testing.T) {
	ep := &endpoint{failFn: failAlways}
	srv := httptest.NewServer(ep.handler())
	defer srv.Close()

	d := newTestDispatcher(srv.URL, 2, &memoryQueueStore{})
	ctx := context.Background()
	d.SendEvent(ctx, "EV_1", nil, Meta{})
	d.SendEvent(ctx, "EV_2", nil, Meta{})

	// While the first redelivery is in flight a fresh failure evicts the
	// queue head, then the second redelivery aborts the pass. The entry
	// removed for the delivered payload must be that payload, not whatever
	// sits at the head by then.
	ep.setFailFn(func(seq int) bool {
		if seq == 0 {
			d.enqueue(ctx, Payload{ID: "late", Event: "EV_3"})
			return false
		}
		return true
	})
	if err := d.FlushQueue(ctx); err == nil {
		t.Fatalf("expected flush to report the aborting failure")
	}

	d.mu.Lock()
	var events []string
	for _, p := range d.queue {
		events = append(events, p.Event)
	}
	d.mu.Unlock()
	if len(events) != 2 || events[0] != "EV_2" || events[1] != "EV_3" {
		t.Fatalf("undelivered payload lost, queue is %v", events)
	}
}

func TestFlushEmptyQueueIsNoop(t *testing.T) {
	ep := &endpoint{}
	srv := httptest.NewServer(ep.handler())
	defer srv.Close()

	d := newTestDispatcher(srv.URL, 50, &memoryQueueStore{})
	if err := d.FlushQueue(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(ep.received()) != 0 {
		t.Fatalf("empty flush must not POST")
	}
}

func TestQueueEvictsOldestPastCapacity(t *testing.T) {
	ep := &endpoint{failFn: failAlways}
	srv := httptest.NewServer(ep.handler())
	defer srv.Close()

	d := newTestDispatcher(srv.URL, 2, &memoryQueueStore{})
	ctx := context.Background()
	d.SendEvent(ctx, "EV_1", nil, Meta{})
	d.SendEvent(ctx, "EV_2", nil, Meta{})
	d.SendEvent(ctx, "EV_3", nil, Meta{})

	if d.QueueLen() != 2 {
		t.Fatalf("expected capacity 2, got %d", d.QueueLen())
	}
	d.mu.Lock()
	first, second := d.queue[0].Event, d.queue[1].Event
	d.mu.Unlock()
	if first != "EV_2" || second != "EV_3" {
		t.Fatalf("expected oldest evicted, queue is %s,%s", first, second)
	}
}

func TestRestoreQueueIgnoresNonArray(t *testing.T) {
	store := &memoryQueueStore{}
	_ = store.Save(context.Background(), []byte(`{"not":"an array"}`))

	d := newTestDispatcher("http://127.0.0.1:0/hook", 50, store)
	if d.QueueLen() != 0 {
		t.Fatalf("non-array snapshot must read as empty, got %d", d.QueueLen())
	}
}

func TestRestoreQueueFromArray(t *testing.T) {
	store := &memoryQueueStore{}
	_ = store.Save(context.Background(), []byte(`[{"id":"a","event":"EV_1","timestamp":"2026-08-28T00:00:00Z","source":"s","app":{}}]`))

	d := newTestDispatcher("http://127.0.0.1:0/hook", 50, store)
	if d.QueueLen() != 1 {
		t.Fatalf("expected restored queue of 1, got %d", d.QueueLen())
	}
}
