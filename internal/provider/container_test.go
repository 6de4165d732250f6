package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pizzeria-next/internal/config"
	"github.com/pizzeria-next/internal/webhook"
)

func TestNotifyInlineFallbackDoesNotBlockCaller(t *testing.T) {
	// A slow endpoint that eventually refuses. Without the queue the
	// notifier dispatches inline, and that dispatch must never stall the
	// request that produced the event.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1 * time.Second)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := webhook.NewDispatcher(config.WebhookConfig{
		URL:             srv.URL,
		Source:          "pizzeria-next-test",
		TimeoutMS:       2000,
		BeaconTimeoutMS: 2000,
		QueueCapacity:   10,
	}, config.AppConfig{Name: "pizzeria-next", Environment: "test"}, nil)
	n := newNotifier(nil, d)

	start := time.Now()
	n.Notify(context.Background(), "ORDER_CREATED", map[string]string{"order_no": "PZ-1"}, webhook.Meta{})
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Notify blocked its caller for %s", elapsed)
	}

	// The detached dispatch still runs to completion and queues the payload
	// after both attempts fail.
	deadline := time.Now().Add(10 * time.Second)
	for d.QueueLen() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("detached dispatch never queued the payload")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
