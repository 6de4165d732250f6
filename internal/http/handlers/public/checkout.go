package public

import (
	"strings"

	"github.com/pizzeria-next/internal/http/response"
	"github.com/pizzeria-next/internal/models"
	"github.com/pizzeria-next/internal/service"
	"github.com/pizzeria-next/internal/store"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	UserID        string `json:"user_id"`
	PaymentMethod string `json:"payment_method"`
}

type checkoutResponse struct {
	Order   *models.Order `json:"order"`
	Message string        `json:"message"`
	URL     string        `json:"url"`
}

// Checkout turns the session cart into a persisted order and a WhatsApp
// hand-off link, then clears the cart. The exchange rate is fetched fresh so
// the local-currency total is frozen on the order; a failed fetch just omits
// it.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	ctx := c.Request.Context()
	s := h.sessionStore(c)
	snap := s.Snapshot()

	// Validate the snapshot up front, before anything is persisted.
	if _, err := h.Composer.Compose(snap, "", nil, snap.Language); err != nil {
		respondCheckoutError(c, err)
		return
	}

	rate := h.CurrencyService.FetchRate(ctx)

	order, err := h.OrderService.Create(ctx, service.CreateOrderInput{
		UserID:        strings.TrimSpace(req.UserID),
		CustomerName:  snap.UserName,
		Items:         snap.Items,
		Total:         snap.Total,
		Rate:          rate,
		DeliveryType:  snap.DeliveryType,
		Address:       snap.Address,
		Phone:         snap.Phone,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Locale:        snap.Language,
		Meta:          requestMeta(c),
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	result, err := h.Composer.Compose(snap, order.OrderNo, rate, order.Locale)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	s.RecordOrder(ctx, store.OrderSummary{
		OrderNo:   order.OrderNo,
		Total:     order.Total,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	})
	s.ClearCart(ctx)

	response.Success(c, checkoutResponse{
		Order:   order,
		Message: result.Message,
		URL:     result.URL,
	})
}
