package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pizzeria-next/internal/config"
	"github.com/pizzeria-next/internal/constants"
	"github.com/pizzeria-next/internal/currency"
	"github.com/pizzeria-next/internal/models"
	"github.com/pizzeria-next/internal/store"
)

var (
	ErrCartEmpty      = errors.New("cart is empty")
	ErrMissingName    = errors.New("customer name is required")
	ErrMissingPhone   = errors.New("customer phone is required")
	ErrMissingAddress = errors.New("delivery address is required")
)

// Result is a composed order hand-off: the human-readable summary and the
// chat deep link that carries it.
type Result struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Composer turns a session snapshot into a WhatsApp hand-off message.
type Composer struct {
	cfg config.WhatsAppConfig
}

// NewComposer creates a composer.
func NewComposer(cfg config.WhatsAppConfig) *Composer {
	return &Composer{cfg: cfg}
}

// Compose validates the snapshot and builds the order message plus deep
// link. orderNo is the persisted order number, rate converts the USD total to
// local currency when present.
func (c *Composer) Compose(snap store.Snapshot, orderNo string, rate *models.Money, locale string) (Result, error) {
	if len(snap.Items) == 0 {
		return Result{}, ErrCartEmpty
	}
	if strings.TrimSpace(snap.UserName) == "" {
		return Result{}, ErrMissingName
	}
	if strings.TrimSpace(snap.Phone) == "" {
		return Result{}, ErrMissingPhone
	}
	if snap.DeliveryType == constants.DeliveryTypeDelivery && strings.TrimSpace(snap.Address) == "" {
		return Result{}, ErrMissingAddress
	}
	if !constants.IsValidLocale(locale) {
		locale = constants.LocaleES
	}

	message := c.buildMessage(snap, orderNo, rate, locale)
	link := ""
	if c.cfg.Phone != "" {
		template := c.cfg.URLTemplate
		if template == "" {
			template = "https://wa.me/%s?text=%s"
		}
		link = fmt.Sprintf(template, c.cfg.Phone, url.QueryEscape(message))
	}
	return Result{Message: message, URL: link}, nil
}

type labels struct {
	title    string
	order    string
	customer string
	phone    string
	delivery string
	pickup   string
	address  string
	location string
	total    string
	localCcy string
	thanks   string
}

var messageLabels = map[string]labels{
	constants.LocaleES: {
		title:    "*Nuevo pedido*",
		order:    "Pedido",
		customer: "Cliente",
		phone:    "Teléfono",
		delivery: "Entrega a domicilio",
		pickup:   "Retiro en tienda",
		address:  "Dirección",
		location: "Ubicación",
		total:    "Total",
		localCcy: "Total Bs",
		thanks:   "¡Gracias!",
	},
	constants.LocaleEN: {
		title:    "*New order*",
		order:    "Order",
		customer: "Customer",
		phone:    "Phone",
		delivery: "Home delivery",
		pickup:   "Pickup at store",
		address:  "Address",
		location: "Location",
		total:    "Total",
		localCcy: "Total Bs",
		thanks:   "Thank you!",
	},
}

func (c *Composer) buildMessage(snap store.Snapshot, orderNo string, rate *models.Money, locale string) string {
	l := messageLabels[locale]

	var b strings.Builder
	b.WriteString(l.title + "\n")
	if orderNo != "" {
		b.WriteString(fmt.Sprintf("%s: %s\n", l.order, orderNo))
	}
	b.WriteString(fmt.Sprintf("%s: %s\n", l.customer, snap.UserName))
	b.WriteString(fmt.Sprintf("%s: %s\n", l.phone, snap.Phone))
	b.WriteString("\n")

	for _, item := range snap.Items {
		unit := item.Price
		if item.TotalPrice != nil {
			unit = *item.TotalPrice
		}
		b.WriteString(fmt.Sprintf("%dx %s - $%s\n", item.Quantity, item.Name, unit.String()))
		for _, extra := range item.Extras {
			b.WriteString(fmt.Sprintf("   + %s\n", extra))
		}
	}
	b.WriteString("\n")

	if snap.DeliveryType == constants.DeliveryTypeDelivery {
		b.WriteString(l.delivery + "\n")
		b.WriteString(fmt.Sprintf("%s: %s\n", l.address, snap.Address))
		if snap.Location != nil && snap.Location.Link != "" {
			b.WriteString(fmt.Sprintf("%s: %s\n", l.location, snap.Location.Link))
		}
	} else {
		b.WriteString(l.pickup + "\n")
	}

	b.WriteString(fmt.Sprintf("\n%s: $%s\n", l.total, snap.Total.String()))
	if local := currency.Convert(snap.Total, rate); local != nil {
		b.WriteString(fmt.Sprintf("%s: %s\n", l.localCcy, local.String()))
	}
	b.WriteString("\n" + l.thanks)
	return b.String()
}
