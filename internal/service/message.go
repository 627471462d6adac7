package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sabordecasa/api/internal/database"
	"github.com/sabordecasa/api/internal/enum"
	"github.com/shopspring/decimal"
)

// OutboundMessage is the WhatsApp hand-off: the human-readable summary
// and the wa.me deep link with the text pre-filled. The storefront
// opens the URL as a full-page navigation.
type OutboundMessage struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// BuildOrderMessage formats the order summary and its deep link.
func BuildOrderMessage(storeName, storePhone string, o database.Order, items []database.OrderItem) OutboundMessage {
	var b strings.Builder

	fmt.Fprintf(&b, "*Pedido #%s — %s*\n\n", o.ShortID, storeName)

	for _, it := range items {
		line := fmt.Sprintf("%dx %s", it.Quantity, it.ProductName)
		if it.OptionsLabel.Valid {
			line += " (" + it.OptionsLabel.String + ")"
		}
		fmt.Fprintf(&b, "%s — %s\n", line, FormatBRL(int64(it.Quantity)*it.UnitPriceCents))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", FormatBRL(o.SubtotalCents))
	if o.IsPickup {
		b.WriteString("Entrega: retirada no local\n")
	} else if o.DeliveryFeeCents == 0 {
		b.WriteString("Entrega: grátis\n")
	} else {
		fmt.Fprintf(&b, "Entrega: %s\n", FormatBRL(o.DeliveryFeeCents))
	}
	fmt.Fprintf(&b, "*Total: %s*\n\n", FormatBRL(o.TotalCents))

	fmt.Fprintf(&b, "Pagamento: %s\n", paymentLabel(o.PaymentMethod))

	if o.IsPickup {
		fmt.Fprintf(&b, "Retirada: %s\n", o.ScheduledTime.String)
	} else {
		addr := o.Street.String + ", " + o.Number.String
		if o.Complement.Valid {
			addr += " (" + o.Complement.String + ")"
		}
		if o.Neighborhood.Valid {
			addr += " — " + o.Neighborhood.String
		}
		if o.City.Valid {
			addr += ", " + o.City.String
		}
		fmt.Fprintf(&b, "Endereço: %s\n", addr)
	}

	fmt.Fprintf(&b, "Cliente: %s — %s\n", o.CustomerName, o.CustomerPhone)

	if o.Observation.Valid {
		fmt.Fprintf(&b, "Obs: %s\n", o.Observation.String)
	}

	text := b.String()
	return OutboundMessage{
		Text: text,
		URL:  "https://wa.me/" + storePhone + "?text=" + url.QueryEscape(text),
	}
}

// FormatBRL renders cents as Brazilian currency, e.g. 7550 -> "R$ 75,50".
func FormatBRL(cents int64) string {
	d := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
	return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}

func paymentLabel(method string) string {
	switch method {
	case enum.PaymentMethodPix:
		return "Pix"
	case enum.PaymentMethodDinheiro:
		return "Dinheiro"
	case enum.PaymentMethodCartao:
		return "Cartão na entrega"
	}
	return method
}
