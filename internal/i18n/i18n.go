package i18n

import (
	"fmt"
	"strings"

	"github.com/pizzeria-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// messages holds per-locale message catalogs. Spanish is the storefront
// default; English covers the admin side and the en storefront.
var messages = map[string]map[string]string{
	constants.LocaleES: {
		"error.bad_request":              "Solicitud inválida",
		"error.not_found":                "No encontrado",
		"error.unauthorized":             "No autorizado",
		"error.internal":                 "Error interno, intenta de nuevo",
		"error.login_failed":             "Usuario o contraseña incorrectos",
		"error.login_too_many":           "Demasiados intentos, espera %d segundos",
		"error.rate_limited":             "Demasiadas solicitudes, espera %d segundos",
		"error.rate_limit_unavailable":   "Servicio no disponible, intenta de nuevo",
		"error.captcha_invalid":          "Código captcha incorrecto",
		"error.slug_exists":              "El identificador ya existe",
		"error.category_in_use":          "La categoría tiene productos asociados",
		"error.category_not_found":       "Categoría no encontrada",
		"error.product_not_found":        "Producto no encontrado",
		"error.product_not_available":    "Producto no disponible",
		"error.order_not_found":          "Pedido no encontrado",
		"error.order_status_invalid":     "Estado de pedido inválido",
		"error.review_invalid":           "Reseña inválida",
		"error.cart_empty":               "El carrito está vacío",
		"error.checkout_missing_name":    "Indica tu nombre para completar el pedido",
		"error.checkout_missing_phone":   "Indica tu teléfono para completar el pedido",
		"error.checkout_missing_address": "Indica la dirección de entrega",
		"error.upload_too_large":         "La imagen supera el tamaño permitido",
		"error.upload_type_invalid":      "Tipo de imagen no permitido",
	},
	constants.LocaleEN: {
		"error.bad_request":              "Invalid request",
		"error.not_found":                "Not found",
		"error.unauthorized":             "Unauthorized",
		"error.internal":                 "Internal error, please retry",
		"error.login_failed":             "Invalid username or password",
		"error.login_too_many":           "Too many attempts, wait %d seconds",
		"error.rate_limited":             "Too many requests, wait %d seconds",
		"error.rate_limit_unavailable":   "Service unavailable, please retry",
		"error.captcha_invalid":          "Captcha code incorrect",
		"error.slug_exists":              "Identifier already exists",
		"error.category_in_use":          "Category still has products",
		"error.category_not_found":       "Category not found",
		"error.product_not_found":        "Product not found",
		"error.product_not_available":    "Product not available",
		"error.order_not_found":          "Order not found",
		"error.order_status_invalid":     "Invalid order status",
		"error.review_invalid":           "Invalid review",
		"error.cart_empty":               "Cart is empty",
		"error.checkout_missing_name":    "Name is required to place the order",
		"error.checkout_missing_phone":   "Phone number is required to place the order",
		"error.checkout_missing_address": "Delivery address is required",
		"error.upload_too_large":         "Image exceeds the allowed size",
		"error.upload_type_invalid":      "Image type not allowed",
	},
}

// T resolves a message key for a locale, falling back to Spanish and then to
// the key itself so missing translations stay visible instead of blank.
func T(locale, key string) string {
	if catalog, ok := messages[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[constants.LocaleES][key]; ok {
		return msg
	}
	return key
}

// Sprintf resolves a message key and formats it with args.
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// ResolveLocale picks the request locale from the lang query parameter or the
// Accept-Language header. Defaults to Spanish.
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return constants.LocaleES
	}
	if lang := strings.TrimSpace(c.Query("lang")); constants.IsValidLocale(lang) {
		return lang
	}
	accept := strings.ToLower(c.GetHeader("Accept-Language"))
	if strings.HasPrefix(accept, "en") {
		return constants.LocaleEN
	}
	return constants.LocaleES
}
