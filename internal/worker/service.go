package worker

import (
	"context"
	"errors"
	"time"

	"github.com/pizzeria-next/internal/config"
	"github.com/pizzeria-next/internal/logger"
	"github.com/pizzeria-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Service runs the asynq consumer plus the periodic webhook flush loop.
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the worker service.
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name service name
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the consumer. The flush loop runs alongside it.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.Dispatcher != nil {
		go s.runFlushLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the consumer down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runFlushLoop retries queued webhook deliveries on a ticker and immediately
// when the endpoint comes back after an outage.
func (s *Service) runFlushLoop(ctx context.Context) {
	dispatcher := s.consumer.Dispatcher
	interval := time.Duration(s.consumer.Config.Webhook.FlushIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}

	flush := func() {
		if err := dispatcher.FlushQueue(ctx); err != nil {
			logger.Warnw("worker_webhook_flush_failed", "error", err)
		}
	}
	flush()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dispatcher.QueueLen() > 0 && dispatcher.WentOnline(ctx) {
				logger.Infow("worker_webhook_endpoint_back_online")
			}
			flush()
		}
	}
}
