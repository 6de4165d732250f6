package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/pizzeria-next/internal/constants"
	"github.com/pizzeria-next/internal/currency"
	"github.com/pizzeria-next/internal/logger"
	"github.com/pizzeria-next/internal/models"
	"github.com/pizzeria-next/internal/repository"
	"github.com/pizzeria-next/internal/webhook"
)

// Notifier publishes outbound event notifications. The worker path enqueues
// a task, the fallback path dispatches inline; services never care which.
type Notifier interface {
	Notify(ctx context.Context, event string, data interface{}, meta webhook.Meta)
}

// OrderService order business service
type OrderService struct {
	repo        repository.OrderRepository
	profileRepo repository.ProfileRepository
	notifier    Notifier
}

// NewOrderService creates an order service.
func NewOrderService(repo repository.OrderRepository, profileRepo repository.ProfileRepository, notifier Notifier) *OrderService {
	return &OrderService{repo: repo, profileRepo: profileRepo, notifier: notifier}
}

// CreateOrderInput everything needed to persist an order from a cart
// snapshot.
type CreateOrderInput struct {
	UserID        string
	CustomerName  string
	Items         []models.OrderLineItem
	Total         models.Money
	Rate          *models.Money
	DeliveryType  string
	Address       string
	Phone         string
	PaymentMethod string
	Locale        string
	Meta          webhook.Meta
}

// Create persists an order and announces it. The line items become an
// immutable snapshot, the local-currency total is frozen at creation time
// when a rate is available.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrCartEmpty
	}
	deliveryType := input.DeliveryType
	if !constants.IsValidDeliveryType(deliveryType) {
		deliveryType = constants.DeliveryTypePickup
	}
	locale := input.Locale
	if !constants.IsValidLocale(locale) {
		locale = constants.LocaleES
	}

	order := models.Order{
		OrderNo:       generateOrderNo(),
		UserID:        input.UserID,
		CustomerName:  input.CustomerName,
		Items:         models.OrderItems(input.Items),
		Total:         input.Total,
		TotalLocal:    currency.Convert(input.Total, input.Rate),
		DeliveryType:  deliveryType,
		Address:       input.Address,
		Phone:         input.Phone,
		PaymentMethod: input.PaymentMethod,
		Status:        constants.OrderStatusPending,
		Locale:        locale,
	}
	if err := s.repo.Create(&order); err != nil {
		return nil, err
	}

	if input.UserID != "" {
		err := s.profileRepo.Upsert(&models.Profile{
			ID:       input.UserID,
			FullName: input.CustomerName,
			Phone:    input.Phone,
			Address:  input.Address,
		})
		if err != nil {
			logger.Warnw("order_profile_upsert_failed", "order_no", order.OrderNo, "error", err)
		}
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, constants.EventOrderCreated, order, input.Meta)
	}
	return &order, nil
}

// Get returns one order by id.
func (s *OrderService) Get(id uint) (*models.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// GetByOrderNo returns one order by its number.
func (s *OrderService) GetByOrderNo(orderNo string) (*models.Order, error) {
	order, err := s.repo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// ListAdmin lists orders for the back office.
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.repo.ListAdmin(filter)
}

// ListByUser lists a customer's own orders.
func (s *OrderService) ListByUser(userID string, page, pageSize int) ([]models.Order, int64, error) {
	return s.repo.ListByUser(repository.OrderListFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}

// ChangeFeed orders changed after the given cursor plus the next cursor to
// poll from.
type ChangeFeed struct {
	Orders []models.Order `json:"orders"`
	Cursor time.Time      `json:"cursor"`
}

// ChangedSince returns orders touched after the cursor. The back office
// polls this to keep its board live.
func (s *OrderService) ChangedSince(since time.Time, limit int) (*ChangeFeed, error) {
	orders, err := s.repo.ListUpdatedSince(since, limit)
	if err != nil {
		return nil, err
	}
	cursor := since
	for _, o := range orders {
		if o.UpdatedAt.After(cursor) {
			cursor = o.UpdatedAt
		}
	}
	if len(orders) == 0 {
		cursor = time.Now()
	}
	return &ChangeFeed{Orders: orders, Cursor: cursor}, nil
}

// UpdateStatus moves an order to a new status and announces the change.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !constants.IsValidOrderStatus(status) {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if order.Status == status {
		return order, nil
	}

	if err := s.repo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	order.Status = status
	order.UpdatedAt = time.Now()

	if s.notifier != nil {
		s.notifier.Notify(ctx, constants.EventStatusUpdated, map[string]interface{}{
			"order_no": order.OrderNo,
			"status":   status,
		}, webhook.Meta{})
	}
	return order, nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("PZ%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
