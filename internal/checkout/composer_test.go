package checkout

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/pizzeria-next/internal/config"
	"github.com/pizzeria-next/internal/constants"
	"github.com/pizzeria-next/internal/models"
	"github.com/pizzeria-next/internal/store"
)

func validSnapshot() store.Snapshot {
	custom := models.NewMoneyFromFloat(12.50)
	return store.Snapshot{
		Items: []models.OrderLineItem{
			{ID: "margherita", Name: "Margherita", Price: models.NewMoneyFromFloat(8.50), Quantity: 2},
			{ID: "margherita-fam", Name: "Margherita Familiar", Price: models.NewMoneyFromFloat(8.50), TotalPrice: &custom, Quantity: 1, Extras: []string{"extra queso"}},
		},
		Total:        models.NewMoneyFromFloat(29.50),
		DeliveryType: constants.DeliveryTypeDelivery,
		Address:      "Av. Principal 123",
		Phone:        "+584121234567",
		UserName:     "Ana",
	}
}

func newTestComposer() *Composer {
	return NewComposer(config.WhatsAppConfig{
		Phone:       "584120000000",
		URLTemplate: "https://wa.me/%s?text=%s",
	})
}

func TestComposeValidation(t *testing.T) {
	c := newTestComposer()

	empty := validSnapshot()
	empty.Items = nil
	if _, err := c.Compose(empty, "PZ-1", nil, "es"); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}

	noName := validSnapshot()
	noName.UserName = "  "
	if _, err := c.Compose(noName, "PZ-1", nil, "es"); !errors.Is(err, ErrMissingName) {
		t.Fatalf("expected ErrMissingName, got %v", err)
	}

	noPhone := validSnapshot()
	noPhone.Phone = ""
	if _, err := c.Compose(noPhone, "PZ-1", nil, "es"); !errors.Is(err, ErrMissingPhone) {
		t.Fatalf("expected ErrMissingPhone, got %v", err)
	}

	noAddress := validSnapshot()
	noAddress.Address = ""
	if _, err := c.Compose(noAddress, "PZ-1", nil, "es"); !errors.Is(err, ErrMissingAddress) {
		t.Fatalf("expected ErrMissingAddress, got %v", err)
	}

	// Pickup orders need no address.
	pickup := validSnapshot()
	pickup.DeliveryType = constants.DeliveryTypePickup
	pickup.Address = ""
	if _, err := c.Compose(pickup, "PZ-1", nil, "es"); err != nil {
		t.Fatalf("pickup without address should compose: %v", err)
	}
}

func TestComposeSpanishMessage(t *testing.T) {
	rate := models.NewMoneyFromFloat(36.50)
	res, err := newTestComposer().Compose(validSnapshot(), "PZ-42", &rate, "es")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	for _, want := range []string{
		"*Nuevo pedido*",
		"Pedido: PZ-42",
		"Cliente: Ana",
		"2x Margherita - $8.50",
		"1x Margherita Familiar - $12.50",
		"   + extra queso",
		"Entrega a domicilio",
		"Dirección: Av. Principal 123",
		"Total: $29.50",
		"Total Bs: 1076.75",
	} {
		if !strings.Contains(res.Message, want) {
			t.Fatalf("message missing %q:\n%s", want, res.Message)
		}
	}
}

func TestComposeEnglishMessage(t *testing.T) {
	res, err := newTestComposer().Compose(validSnapshot(), "PZ-42", nil, "en")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !strings.Contains(res.Message, "*New order*") || !strings.Contains(res.Message, "Home delivery") {
		t.Fatalf("english labels missing:\n%s", res.Message)
	}
	if strings.Contains(res.Message, "Total Bs") {
		t.Fatalf("no rate given, local total must be absent:\n%s", res.Message)
	}
}

func TestComposeUnknownLocaleFallsBackToSpanish(t *testing.T) {
	res, err := newTestComposer().Compose(validSnapshot(), "PZ-1", nil, "fr")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !strings.Contains(res.Message, "*Nuevo pedido*") {
		t.Fatalf("expected spanish fallback:\n%s", res.Message)
	}
}

func TestComposeDeepLink(t *testing.T) {
	res, err := newTestComposer().Compose(validSnapshot(), "PZ-1", nil, "es")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !strings.HasPrefix(res.URL, "https://wa.me/584120000000?text=") {
		t.Fatalf("unexpected link: %s", res.URL)
	}
	encoded := strings.TrimPrefix(res.URL, "https://wa.me/584120000000?text=")
	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		t.Fatalf("unescape: %v", err)
	}
	if decoded != res.Message {
		t.Fatalf("link text does not round-trip to the message")
	}
}

func TestComposeWithoutPhoneOmitsLink(t *testing.T) {
	c := NewComposer(config.WhatsAppConfig{})
	res, err := c.Compose(validSnapshot(), "PZ-1", nil, "es")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if res.URL != "" {
		t.Fatalf("no phone configured, link must be empty: %s", res.URL)
	}
	if res.Message == "" {
		t.Fatalf("message must still compose")
	}
}
