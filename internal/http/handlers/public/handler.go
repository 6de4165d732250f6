package public

import "github.com/pizzeria-next/internal/provider"

// Handler storefront API handler. Serves guests and customers only, the
// back office lives in the admin handler.
type Handler struct {
	*provider.Container
}

// New creates the storefront handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
