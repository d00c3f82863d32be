// Package checkout turns a cart into the handoff formats used in place of
// an order system: a WhatsApp message link and a UPI payment intent.
package checkout

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"

	"axm-storefront/internal/cart"
	"axm-storefront/internal/model"
)

// OrderIDPrefix starts every generated order id.
const OrderIDPrefix = "AXM-"

// NewOrderID returns a fresh, time-ordered order id.
func NewOrderID() string {
	return OrderIDPrefix + ulid.Make().String()
}

// Config contains the merchant details for the handoff links.
type Config struct {
	WhatsAppNumber string // international format, digits only after cleanup
	UPIPayee       string // VPA, e.g. axm@okicici
	UPIPayeeName   string
	Pricing        cart.Pricing
	NewID          func() string // defaults to NewOrderID
}

// Handoff formats carts for checkout.
type Handoff struct {
	cfg Config
}

// Links is everything a client needs to finish an order.
type Links struct {
	OrderID     string      `json:"order_id"`
	Summary     string      `json:"summary"`
	WhatsAppURL string      `json:"whatsapp_url"`
	UPIURL      string      `json:"upi_url,omitempty"`
	Totals      cart.Totals `json:"totals"`
}

// New creates a Handoff.
func New(cfg Config) *Handoff {
	if cfg.NewID == nil {
		cfg.NewID = NewOrderID
	}
	if cfg.Pricing == (cart.Pricing{}) {
		cfg.Pricing = cart.DefaultPricing()
	}
	if cfg.UPIPayeeName == "" {
		cfg.UPIPayeeName = "AXM"
	}
	cfg.WhatsAppNumber = digits(cfg.WhatsAppNumber)
	return &Handoff{cfg: cfg}
}

// OrderSummary renders the order as plain text for a chat message.
func (h *Handoff) OrderSummary(s cart.State, orderID string) string {
	t := s.Totals(h.cfg.Pricing)

	var b strings.Builder
	fmt.Fprintf(&b, "New order %s\n\n", orderID)
	for i, l := range s.Items {
		fmt.Fprintf(&b, "%d. %s", i+1, l.Name)
		if opts := lineOptions(l); opts != "" {
			fmt.Fprintf(&b, " (%s)", opts)
		}
		fmt.Fprintf(&b, " x%d - %s\n", l.Quantity, l.LineTotal().Rupees())
	}

	shipping := "FREE"
	if t.Shipping > 0 {
		shipping = t.Shipping.Rupees()
	}
	fmt.Fprintf(&b, "\nItems: %d\n", t.ItemCount)
	fmt.Fprintf(&b, "Subtotal: %s\n", t.Subtotal.Rupees())
	fmt.Fprintf(&b, "Shipping: %s\n", shipping)
	fmt.Fprintf(&b, "GST (%s%%): %s\n", percent(h.cfg.Pricing.TaxRateBPS), t.Tax.Rupees())
	fmt.Fprintf(&b, "Total: %s", t.Total.Rupees())
	return b.String()
}

// WhatsAppURL returns a wa.me link that opens a chat prefilled with the
// order summary. Without a configured number the user picks the contact.
func (h *Handoff) WhatsAppURL(s cart.State, orderID string) string {
	return "https://wa.me/" + h.cfg.WhatsAppNumber + "?text=" + escape(h.OrderSummary(s, orderID))
}

// UPIURL returns a upi://pay intent for the cart total.
func (h *Handoff) UPIURL(s cart.State, orderID string) (string, error) {
	if h.cfg.UPIPayee == "" {
		return "", fmt.Errorf("upi payee: %w", model.ErrNotConfigured)
	}
	t := s.Totals(h.cfg.Pricing)

	params := []string{
		"pa=" + escape(h.cfg.UPIPayee),
		"pn=" + escape(h.cfg.UPIPayeeName),
		"am=" + t.Total.Major(),
		"cu=" + model.DefaultCurrency,
		"tr=" + escape(orderID),
		"tn=" + escape("Order "+orderID),
	}
	return "upi://pay?" + strings.Join(params, "&"), nil
}

// Links generates an order id and both handoff links. Empty carts are
// rejected. The UPI link is omitted when no payee is configured.
func (h *Handoff) Links(s cart.State) (*Links, error) {
	if s.Empty() {
		return nil, model.NewValidationError("cart", "cart is empty")
	}

	id := h.cfg.NewID()
	links := &Links{
		OrderID:     id,
		Summary:     h.OrderSummary(s, id),
		WhatsAppURL: h.WhatsAppURL(s, id),
		Totals:      s.Totals(h.cfg.Pricing),
	}
	if upi, err := h.UPIURL(s, id); err == nil {
		links.UPIURL = upi
	}
	return links, nil
}

func lineOptions(l cart.LineItem) string {
	var opts []string
	if l.Size != "" {
		opts = append(opts, "Size: "+l.Size)
	}
	if l.Color != "" {
		opts = append(opts, "Color: "+l.Color)
	}
	return strings.Join(opts, ", ")
}

// escape is url.QueryEscape with %20 for spaces.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func percent(bps int64) string {
	if bps%100 == 0 {
		return strconv.FormatInt(bps/100, 10)
	}
	return strconv.FormatFloat(float64(bps)/100, 'f', 2, 64)
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
