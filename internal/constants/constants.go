package constants

// Delivery modes
const (
	DeliveryTypePickup   = "pickup"
	DeliveryTypeDelivery = "delivery"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusOnTheWay  = "on_the_way"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
)

// Supported locales
const (
	LocaleES = "es"
	LocaleEN = "en"
)

// Webhook event kinds
const (
	EventOrderCreated  = "ORDER_CREATED"
	EventStatusUpdated = "STATUS_UPDATED"
	EventCartOpened    = "CART_OPENED"
)

// Queue names
const (
	QueueDefault = "default"
)

// Asynq task type names
const (
	TaskWebhookEvent = "webhook:event"
	TaskWebhookFlush = "webhook:flush"
)

// OrderStatuses lists every valid order status in lifecycle order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusOnTheWay,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

// IsValidOrderStatus reports whether status is a known order status.
func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidDeliveryType reports whether t is a known delivery mode.
func IsValidDeliveryType(t string) bool {
	return t == DeliveryTypePickup || t == DeliveryTypeDelivery
}

// IsValidLocale reports whether locale is supported.
func IsValidLocale(locale string) bool {
	return locale == LocaleES || locale == LocaleEN
}
