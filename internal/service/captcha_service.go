package service

import (
	"time"

	"github.com/pizzeria-next/internal/config"

	"github.com/mojocn/base64Captcha"
)

// CaptchaChallenge is one image challenge handed to the login page.
type CaptchaChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService issues and verifies image captchas for the admin login.
// Disabled config makes Verify always pass so the login flow needs no
// branching.
type CaptchaService struct {
	cfg   config.CaptchaConfig
	store base64Captcha.Store
}

// NewCaptchaService creates a captcha service with an in-memory store.
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	expire := time.Duration(cfg.ExpireSeconds) * time.Second
	if expire <= 0 {
		expire = 5 * time.Minute
	}
	return &CaptchaService{
		cfg:   cfg,
		store: base64Captcha.NewMemoryStore(base64Captcha.GCLimitNumber, expire),
	}
}

// Enabled reports whether login requires a captcha.
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// Generate creates a new digit challenge.
func (s *CaptchaService) Generate() (*CaptchaChallenge, error) {
	length := s.cfg.Length
	if length <= 0 {
		length = 5
	}
	width := s.cfg.Width
	if width <= 0 {
		width = 240
	}
	height := s.cfg.Height
	if height <= 0 {
		height = 80
	}

	driver := base64Captcha.NewDriverDigit(height, width, length, 0.7, s.cfg.NoiseCount)
	captcha := base64Captcha.NewCaptcha(driver, s.store)
	id, b64, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaChallenge{CaptchaID: id, ImageBase64: b64}, nil
}

// Verify checks an answer, consuming the challenge. With captcha disabled it
// always succeeds.
func (s *CaptchaService) Verify(id, answer string) error {
	if !s.Enabled() {
		return nil
	}
	if id == "" || answer == "" {
		return ErrCaptchaInvalid
	}
	if !s.store.Verify(id, answer, true) {
		return ErrCaptchaInvalid
	}
	return nil
}
