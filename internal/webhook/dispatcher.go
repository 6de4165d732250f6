package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pizzeria-next/internal/config"
	"github.com/pizzeria-next/internal/logger"

	"github.com/google/uuid"
)

// sourceHeader names the sender on the fallback delivery path. The fast
// first attempt carries no custom headers so it can never trip a CORS-style
// preflight on the receiver.
const sourceHeader = "X-Webhook-Source"

var errDeliveryFailed = errors.New("webhook delivery failed")

// Dispatcher sends event notifications to a single configured endpoint.
// Deliveries that fail land in a bounded FIFO queue that is persisted and
// retried later. With no endpoint configured every call is a logged no-op.
type Dispatcher struct {
	cfg config.WebhookConfig
	app config.AppConfig

	beaconClient *http.Client
	postClient   *http.Client
	probeClient  *http.Client

	store QueueStore

	mu     sync.Mutex
	queue  []Payload
	online bool
}

// NewDispatcher creates a dispatcher and restores any persisted queue.
func NewDispatcher(cfg config.WebhookConfig, app config.AppConfig, store QueueStore) *Dispatcher {
	d := &Dispatcher{
		cfg:          cfg,
		app:          app,
		beaconClient: &http.Client{Timeout: msOrDefault(cfg.BeaconTimeoutMS, 1500)},
		postClient:   &http.Client{Timeout: msOrDefault(cfg.TimeoutMS, 6000)},
		probeClient:  &http.Client{Timeout: msOrDefault(cfg.ProbeTimeoutMS, 2000)},
		store:        store,
		online:       true,
	}
	d.restoreQueue(context.Background())
	return d
}

func msOrDefault(ms, def int) time.Duration {
	if ms <= 0 {
		ms = def
	}
	return time.Duration(ms) * time.Millisecond
}

// Enabled reports whether an endpoint is configured.
func (d *Dispatcher) Enabled() bool {
	return d.cfg.URL != ""
}

// SendEvent delivers one event. A fast header-less attempt runs first, the
// timed fallback POST second. If both fail the payload is queued for a later
// flush. SendEvent itself never returns an error to its caller.
func (d *Dispatcher) SendEvent(ctx context.Context, event string, data interface{}, meta Meta) {
	if !d.Enabled() {
		logger.Warnw("webhook_disabled", "event", event)
		return
	}

	// Data is sanitized up front so the payload stays encodable when it
	// later sits in the persisted queue.
	payload := Payload{
		ID:        uuid.NewString(),
		Event:     event,
		Data:      Sanitize(data),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Source:    d.cfg.Source,
		UserAgent: meta.UserAgent,
		PageURL:   meta.PageURL,
		App: AppInfo{
			Name:        d.app.Name,
			Version:     d.app.Version,
			Environment: d.app.Environment,
		},
	}

	body, err := MarshalSafe(payload)
	if err != nil {
		logger.Warnw("webhook_marshal_failed", "event", event, "error", err)
		return
	}

	if err := d.sendBeacon(ctx, body); err == nil {
		d.markOnline(true)
		return
	}
	if err := d.deliver(ctx, body); err == nil {
		d.markOnline(true)
		return
	}

	d.markOnline(false)
	logger.Warnw("webhook_send_failed_queued", "event", event, "id", payload.ID)
	d.enqueue(ctx, payload)
}

// sendBeacon is the fast first attempt: no custom headers, short timeout,
// success means the request was fully sent and answered 2xx.
func (d *Dispatcher) sendBeacon(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain;charset=UTF-8")
	resp, err := d.beaconClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: beacon status %d", errDeliveryFailed, resp.StatusCode)
	}
	return nil
}

// deliver is the timed fallback POST with full headers.
func (d *Dispatcher) deliver(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(sourceHeader, d.cfg.Source)
	resp, err := d.postClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", errDeliveryFailed, resp.StatusCode)
	}
	return nil
}

// FlushQueue redelivers queued payloads in FIFO order. The first failure puts
// the payload back at the head and aborts the pass, preserving order. An
// empty queue or an offline endpoint is a no-op.
func (d *Dispatcher) FlushQueue(ctx context.Context) error {
	if !d.Enabled() {
		return nil
	}

	d.mu.Lock()
	if len(d.queue) == 0 {
		d.mu.Unlock()
		return nil
	}
	pending := make([]Payload, len(d.queue))
	copy(pending, d.queue)
	d.mu.Unlock()

	if !d.ProbeOnline(ctx) {
		return nil
	}

	delivered := make([]string, 0, len(pending))
	for _, payload := range pending {
		body, err := MarshalSafe(payload)
		if err != nil {
			// Undeliverable forever, drop it rather than wedge the queue.
			logger.Warnw("webhook_flush_drop_unmarshalable", "id", payload.ID, "error", err)
			delivered = append(delivered, payload.ID)
			continue
		}
		if err := d.deliver(ctx, body); err != nil {
			d.markOnline(false)
			d.dropDelivered(ctx, delivered)
			logger.Warnw("webhook_flush_aborted",
				"delivered", len(delivered),
				"remaining", len(pending)-len(delivered),
				"error", err,
			)
			return err
		}
		delivered = append(delivered, payload.ID)
	}

	d.dropDelivered(ctx, delivered)
	logger.Infow("webhook_flush_done", "delivered", len(delivered))
	return nil
}

// QueueLen returns the number of queued payloads.
func (d *Dispatcher) QueueLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// ProbeOnline checks reachability of the endpoint origin and records the
// result.
func (d *Dispatcher) ProbeOnline(ctx context.Context) bool {
	if !d.Enabled() {
		return false
	}
	origin, err := originOf(d.cfg.URL)
	if err != nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, origin, nil)
	if err != nil {
		return false
	}
	resp, err := d.probeClient.Do(req)
	if err != nil {
		d.markOnline(false)
		return false
	}
	resp.Body.Close()
	d.markOnline(true)
	return true
}

// WentOnline reports an offline-to-online transition since the last call and
// resets the edge. The worker uses it to flush immediately on reconnect.
func (d *Dispatcher) WentOnline(ctx context.Context) bool {
	d.mu.Lock()
	wasOnline := d.online
	d.mu.Unlock()
	if wasOnline {
		// Still (believed) online, nothing to detect.
		d.ProbeOnline(ctx)
		return false
	}
	return d.ProbeOnline(ctx)
}

func originOf(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("webhook url %q has no origin", raw)
	}
	return u.Scheme + "://" + u.Host + "/", nil
}

func (d *Dispatcher) markOnline(online bool) {
	d.mu.Lock()
	d.online = online
	d.mu.Unlock()
}

// enqueue appends a payload, evicting the oldest entries past capacity, and
// persists the queue.
func (d *Dispatcher) enqueue(ctx context.Context, payload Payload) {
	capacity := d.cfg.QueueCapacity
	if capacity <= 0 {
		capacity = 50
	}
	d.mu.Lock()
	d.queue = append(d.queue, payload)
	if over := len(d.queue) - capacity; over > 0 {
		evicted := make([]string, 0, over)
		for _, p := range d.queue[:over] {
			evicted = append(evicted, p.ID)
		}
		d.queue = d.queue[over:]
		logger.Warnw("webhook_queue_evicted_oldest", "evicted", evicted)
	}
	d.mu.Unlock()
	d.persistQueue(ctx)
}

// dropDelivered removes the named payloads after a flush pass and persists
// what remains. Matching by ID keeps a concurrent capacity eviction from
// costing an undelivered payload its slot.
func (d *Dispatcher) dropDelivered(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	done := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		done[id] = struct{}{}
	}
	d.mu.Lock()
	remaining := d.queue[:0]
	for _, p := range d.queue {
		if _, ok := done[p.ID]; !ok {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == 0 {
		d.queue = nil
	} else {
		d.queue = remaining
	}
	d.mu.Unlock()
	d.persistQueue(ctx)
}

// persistQueue writes the queue as a JSON array. Failures are logged and
// swallowed, the in-memory queue stays authoritative.
func (d *Dispatcher) persistQueue(ctx context.Context) {
	if d.store == nil {
		return
	}
	d.mu.Lock()
	queue := d.queue
	if queue == nil {
		queue = []Payload{}
	}
	data, err := json.Marshal(queue)
	d.mu.Unlock()
	if err != nil {
		logger.Warnw("webhook_queue_persist_marshal_failed", "error", err)
		return
	}
	if err := d.store.Save(ctx, data); err != nil {
		logger.Warnw("webhook_queue_persist_failed", "error", err)
	}
}

// restoreQueue loads the persisted queue. Anything that is not a JSON array
// of payloads reads as an empty queue.
func (d *Dispatcher) restoreQueue(ctx context.Context) {
	if d.store == nil {
		return
	}
	data, ok, err := d.store.Load(ctx)
	if err != nil {
		logger.Warnw("webhook_queue_restore_failed", "error", err)
		return
	}
	if !ok {
		return
	}
	var queue []Payload
	if err := json.Unmarshal(data, &queue); err != nil {
		logger.Warnw("webhook_queue_restore_not_array", "error", err)
		return
	}
	d.mu.Lock()
	d.queue = queue
	d.mu.Unlock()
}
