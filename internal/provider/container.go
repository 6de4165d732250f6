package provider

import (
	"context"
	"time"

	"github.com/pizzeria-next/internal/cache"
	"github.com/pizzeria-next/internal/checkout"
	"github.com/pizzeria-next/internal/config"
	"github.com/pizzeria-next/internal/currency"
	"github.com/pizzeria-next/internal/logger"
	"github.com/pizzeria-next/internal/models"
	"github.com/pizzeria-next/internal/queue"
	"github.com/pizzeria-next/internal/repository"
	"github.com/pizzeria-next/internal/service"
	"github.com/pizzeria-next/internal/store"
	"github.com/pizzeria-next/internal/webhook"
)

// Container dependency injection container
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo    repository.AdminRepository
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	OrderRepo    repository.OrderRepository
	ProfileRepo  repository.ProfileRepository
	ReviewRepo   repository.ReviewRepository

	// Services
	AuthService     *service.AuthService
	CaptchaService  *service.CaptchaService
	CategoryService *service.CategoryService
	ProductService  *service.ProductService
	OrderService    *service.OrderService
	ReviewService   *service.ReviewService
	UploadService   *service.UploadService

	// Domain plumbing
	Dispatcher      *webhook.Dispatcher
	Notifier        service.Notifier
	CurrencyService *currency.Service
	Composer        *checkout.Composer
	StoreManager    *store.Manager
}

// NewContainer wires the whole dependency graph.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initDomain()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ProfileRepo = repository.NewProfileRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
}

func (c *Container) initDomain() {
	cfg := c.Config

	var queueStore webhook.QueueStore
	if cache.Enabled() {
		queueStore = webhook.NewRedisQueueStore()
	} else {
		queueStore = webhook.NewFileQueueStore(cfg.Cart.FileDir)
	}
	c.Dispatcher = webhook.NewDispatcher(cfg.Webhook, cfg.App, queueStore)
	c.Notifier = newNotifier(c.QueueClient, c.Dispatcher)

	c.CurrencyService = currency.NewService(cfg.Currency)
	c.Composer = checkout.NewComposer(cfg.WhatsApp)

	var persister store.Persister
	if cache.Enabled() {
		persister = store.NewRedisPersister()
	} else {
		persister = store.NewFilePersister(cfg.Cart.FileDir)
	}
	c.StoreManager = store.NewManager(persister, store.Options{
		KeyVersion:   cfg.Cart.KeyVersion,
		HistoryLimit: cfg.Cart.HistoryLimit,
		TTL:          time.Duration(cfg.Cart.TTLHours) * time.Hour,
	})
}

func (c *Container) initServices() {
	cfg := c.Config
	c.AuthService = service.NewAuthService(cfg, c.AdminRepo)
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProfileRepo, c.Notifier)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo)
	c.UploadService = service.NewUploadService(cfg)
}

// notifier prefers the task queue and falls back to inline dispatch when the
// queue is disabled.
type notifier struct {
	queueClient *queue.Client
	dispatcher  *webhook.Dispatcher
}

func newNotifier(queueClient *queue.Client, dispatcher *webhook.Dispatcher) *notifier {
	return &notifier{queueClient: queueClient, dispatcher: dispatcher}
}

// Notify publishes one event.
func (n *notifier) Notify(ctx context.Context, event string, data interface{}, meta webhook.Meta) {
	if n.queueClient.Enabled() {
		err := n.queueClient.EnqueueWebhookEvent(queue.WebhookEventPayload{
			Event:     event,
			Data:      webhook.Sanitize(data),
			UserAgent: meta.UserAgent,
			PageURL:   meta.PageURL,
		})
		if err == nil {
			return
		}
		logger.Warnw("notifier_enqueue_failed_fallback_inline", "event", event, "error", err)
	}
	if n.dispatcher != nil {
		// Inline dispatch runs detached so the caller never waits on the
		// endpoint, and outlives the request that triggered it.
		go n.dispatcher.SendEvent(context.WithoutCancel(ctx), event, data, meta)
	}
}
