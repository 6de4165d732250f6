package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pizzeria-next/internal/constants"
	"github.com/pizzeria-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) *GormOrderRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}); err != nil {
		t.Fatalf("migrate order failed: %v", err)
	}
	return NewOrderRepository(db)
}

func createOrder(t *testing.T, repo *GormOrderRepository, orderNo, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:      orderNo,
		CustomerName: "Ana",
		Items: models.OrderItems{
			{ID: "margarita", Name: "Margarita", Price: models.NewMoneyFromFloat(6.50), Quantity: 1},
		},
		Total:        models.NewMoneyFromFloat(6.50),
		DeliveryType: constants.DeliveryTypePickup,
		Phone:        "0412-5550000",
		Status:       status,
		Locale:       constants.LocaleES,
	}
	if err := repo.Create(order); err != nil {
		t.Fatalf("create order %s failed: %v", orderNo, err)
	}
	return order
}

func TestGetByOrderNoMissingReturnsNil(t *testing.T) {
	repo := setupOrderRepositoryTest(t)

	order, err := repo.GetByOrderNo("PZ00000000000000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Fatalf("missing order should be nil, got %+v", order)
	}
}

func TestListAdminFiltersByStatus(t *testing.T) {
	repo := setupOrderRepositoryTest(t)
	createOrder(t, repo, "PZ-1", constants.OrderStatusPending)
	createOrder(t, repo, "PZ-2", constants.OrderStatusDelivered)
	createOrder(t, repo, "PZ-3", constants.OrderStatusPending)

	orders, total, err := repo.ListAdmin(OrderListFilter{Status: constants.OrderStatusPending, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("want 2 pending orders, got total=%d len=%d", total, len(orders))
	}
	// Newest first.
	if orders[0].OrderNo != "PZ-3" || orders[1].OrderNo != "PZ-1" {
		t.Fatalf("unexpected order: %s, %s", orders[0].OrderNo, orders[1].OrderNo)
	}
}

func TestListAdminFiltersByOrderNo(t *testing.T) {
	repo := setupOrderRepositoryTest(t)
	createOrder(t, repo, "PZ-1", constants.OrderStatusPending)
	createOrder(t, repo, "PZ-2", constants.OrderStatusPending)

	orders, total, err := repo.ListAdmin(OrderListFilter{OrderNo: "PZ-2", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].OrderNo != "PZ-2" {
		t.Fatalf("want only PZ-2, got total=%d len=%d", total, len(orders))
	}
}

func TestUpdateStatusTouchesUpdatedAt(t *testing.T) {
	repo := setupOrderRepositoryTest(t)
	order := createOrder(t, repo, "PZ-1", constants.OrderStatusPending)

	before := order.UpdatedAt
	time.Sleep(10 * time.Millisecond)
	if err := repo.UpdateStatus(order.ID, constants.OrderStatusConfirmed); err != nil {
		t.Fatalf("update status failed: %v", err)
	}

	reloaded, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusConfirmed {
		t.Fatalf("status want confirmed got %s", reloaded.Status)
	}
	if !reloaded.UpdatedAt.After(before) {
		t.Fatalf("updated_at should advance on status change")
	}
}

func TestListUpdatedSinceReturnsOldestFirst(t *testing.T) {
	repo := setupOrderRepositoryTest(t)
	first := createOrder(t, repo, "PZ-1", constants.OrderStatusPending)
	time.Sleep(10 * time.Millisecond)
	second := createOrder(t, repo, "PZ-2", constants.OrderStatusPending)

	changed, err := repo.ListUpdatedSince(time.Time{}, 10)
	if err != nil {
		t.Fatalf("list updated failed: %v", err)
	}
	if len(changed) != 2 {
		t.Fatalf("want 2 changed orders got %d", len(changed))
	}
	if changed[0].OrderNo != first.OrderNo || changed[1].OrderNo != second.OrderNo {
		t.Fatalf("want oldest first, got %s, %s", changed[0].OrderNo, changed[1].OrderNo)
	}

	// A cursor past the first order only returns the second.
	changed, err = repo.ListUpdatedSince(first.UpdatedAt, 10)
	if err != nil {
		t.Fatalf("list updated with cursor failed: %v", err)
	}
	if len(changed) != 1 || changed[0].OrderNo != second.OrderNo {
		t.Fatalf("want only %s after cursor, got %d entries", second.OrderNo, len(changed))
	}
}
