package public

import (
	"errors"

	"github.com/pizzeria-next/internal/checkout"
	"github.com/pizzeria-next/internal/http/response"
	"github.com/pizzeria-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps one business error onto an API response.
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var menuErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrReviewInvalid, code: response.CodeBadRequest, key: "error.review_invalid"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: checkout.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: checkout.ErrMissingName, code: response.CodeBadRequest, key: "error.checkout_missing_name"},
	{target: checkout.ErrMissingPhone, code: response.CodeBadRequest, key: "error.checkout_missing_phone"},
	{target: checkout.ErrMissingAddress, code: response.CodeBadRequest, key: "error.checkout_missing_address"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
}

func respondMenuError(c *gin.Context, err error) {
	respondWithMappedError(c, err, menuErrorRules, response.CodeInternal, "error.internal")
}

func respondReviewError(c *gin.Context, err error) {
	respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.internal")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.internal")
}
