package public

import (
	"fmt"
	"strings"

	"github.com/pizzeria-next/internal/constants"
	"github.com/pizzeria-next/internal/http/response"
	"github.com/pizzeria-next/internal/models"
	"github.com/pizzeria-next/internal/store"
	"github.com/pizzeria-next/internal/webhook"

	"github.com/gin-gonic/gin"
)

func sessionID(c *gin.Context) string {
	if value, ok := c.Get("session_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}

func (h *Handler) sessionStore(c *gin.Context) *store.Store {
	return h.StoreManager.Get(c.Request.Context(), sessionID(c))
}

func requestMeta(c *gin.Context) webhook.Meta {
	return webhook.Meta{
		UserAgent: c.GetHeader("User-Agent"),
		PageURL:   c.GetHeader("Referer"),
	}
}

// GetCart returns the full session snapshot: cart lines, contact details
// and the local order history.
func (h *Handler) GetCart(c *gin.Context) {
	snap := h.sessionStore(c).Snapshot()
	response.Success(c, snap)
}

// OpenCart announces that the customer opened the cart panel.
func (h *Handler) OpenCart(c *gin.Context) {
	snap := h.sessionStore(c).Snapshot()
	h.Notifier.Notify(c.Request.Context(), constants.EventCartOpened, gin.H{
		"session_id": sessionID(c),
		"item_count": len(snap.Items),
		"total":      snap.Total,
	}, requestMeta(c))
	response.Success(c, nil)
}

type addItemRequest struct {
	ProductSlug string   `json:"product_slug" binding:"required"`
	Variant     string   `json:"variant"`
	Extras      []string `json:"extras"`
}

// AddItem resolves a product (and optional variant) into a cart line.
// Adding the same line twice bumps its quantity.
func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	product, err := h.ProductService.GetBySlug(strings.TrimSpace(req.ProductSlug))
	if err != nil {
		respondMenuError(c, err)
		return
	}
	if !product.IsAvailable {
		respondError(c, response.CodeBadRequest, "error.product_not_available", nil)
		return
	}

	item := models.OrderLineItem{
		ID:     product.Slug,
		Name:   product.Name,
		Price:  product.Price,
		Extras: req.Extras,
	}
	if variant := strings.TrimSpace(req.Variant); variant != "" {
		matched := false
		for _, v := range product.Variants {
			if strings.EqualFold(v.Name, variant) {
				price := v.Price
				item.ID = fmt.Sprintf("%s#%s", product.Slug, strings.ToLower(v.Name))
				item.Name = fmt.Sprintf("%s (%s)", product.Name, v.Name)
				item.TotalPrice = &price
				matched = true
				break
			}
		}
		if !matched {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
	}

	s := h.sessionStore(c)
	s.AddItem(c.Request.Context(), item)
	response.Success(c, s.Snapshot())
}

type updateQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// UpdateItemQuantity adjusts one cart line by a delta. Hitting zero removes
// the line.
func (h *Handler) UpdateItemQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	s := h.sessionStore(c)
	s.UpdateQuantity(c.Request.Context(), c.Param("item_id"), req.Delta)
	response.Success(c, s.Snapshot())
}

// RemoveItem drops one cart line.
func (h *Handler) RemoveItem(c *gin.Context) {
	s := h.sessionStore(c)
	s.RemoveItem(c.Request.Context(), c.Param("item_id"))
	response.Success(c, s.Snapshot())
}

// ClearCart empties the cart, keeping contact details and order history.
func (h *Handler) ClearCart(c *gin.Context) {
	s := h.sessionStore(c)
	s.ClearCart(c.Request.Context())
	response.Success(c, s.Snapshot())
}

type customerRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// SetCustomer stores checkout contact details on the session. Fields absent
// from the request keep their current value.
func (h *Handler) SetCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	ctx := c.Request.Context()
	s := h.sessionStore(c)
	if req.Name != nil {
		s.SetUserName(ctx, strings.TrimSpace(*req.Name))
	}
	if req.Phone != nil {
		s.SetPhoneNumber(ctx, strings.TrimSpace(*req.Phone))
	}
	if req.Email != nil {
		s.SetEmail(ctx, strings.TrimSpace(*req.Email))
	}
	response.Success(c, s.Snapshot())
}

type deliveryRequest struct {
	DeliveryType string          `json:"delivery_type" binding:"required"`
	Address      *string         `json:"address"`
	Location     *store.Location `json:"location"`
}

// SetDelivery stores the delivery mode, and the address and map pin when the
// request carries them. A mode-only update leaves the saved address alone.
func (h *Handler) SetDelivery(c *gin.Context) {
	var req deliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if !constants.IsValidDeliveryType(req.DeliveryType) {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	ctx := c.Request.Context()
	s := h.sessionStore(c)
	s.SetDeliveryType(ctx, req.DeliveryType)
	if req.Address != nil {
		s.SetAddress(ctx, strings.TrimSpace(*req.Address))
	}
	if req.Location != nil {
		s.SetLocation(ctx, req.Location)
	}
	response.Success(c, s.Snapshot())
}

type languageRequest struct {
	Language string `json:"language" binding:"required"`
}

// SetLanguage stores the session locale.
func (h *Handler) SetLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil || !constants.IsValidLocale(req.Language) {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	s := h.sessionStore(c)
	s.SetLanguage(c.Request.Context(), req.Language)
	response.Success(c, s.Snapshot())
}

// ListSessionOrders returns the session's local order history, newest first.
func (h *Handler) ListSessionOrders(c *gin.Context) {
	snap := h.sessionStore(c).Snapshot()
	response.Success(c, snap.Orders)
}
