package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto localized
// API responses with errors.Is.
var (
	ErrNotFound            = errors.New("record not found")
	ErrSlugExists          = errors.New("slug already exists")
	ErrCategoryInUse       = errors.New("category still has products")
	ErrProductNotAvailable = errors.New("product not available")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrCaptchaInvalid      = errors.New("captcha verification failed")
	ErrOrderStatusInvalid  = errors.New("invalid order status")
	ErrReviewInvalid       = errors.New("invalid review")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrUploadTooLarge      = errors.New("upload exceeds size limit")
	ErrUploadTypeInvalid   = errors.New("upload type not allowed")
)
