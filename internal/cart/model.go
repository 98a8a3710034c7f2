package cart

import "github.com/noah-isme/backend-loja/internal/pricing"

// Line is a cart entry holding a snapshot of the product at the time it
// was added. Snapshots keep carts stable while the catalog file changes.
type Line struct {
	ProductID int64         `json:"productId"`
	Name      string        `json:"name"`
	Category  string        `json:"category"`
	Price     pricing.Cents `json:"price"`
	Image     string        `json:"image,omitempty"`
	Qty       int           `json:"quantity"`
	IsDigital bool          `json:"isDigital,omitempty"`
	WidthCM   float64       `json:"widthCm,omitempty"`
	HeightCM  float64       `json:"heightCm,omitempty"`
	LengthCM  float64       `json:"lengthCm,omitempty"`
	WeightKG  float64       `json:"weightKg,omitempty"`
}

// Quote is a shipping option priced for the cart's destination.
type Quote struct {
	Service string        `json:"service"`
	Carrier string        `json:"carrier"`
	Logo    string        `json:"logo,omitempty"`
	Price   pricing.Cents `json:"price"`
	Days    int           `json:"days"`
	Source  string        `json:"source"`
}

// Meta carries per-cart checkout state outside the item collections.
type Meta struct {
	CouponCode      string  `json:"couponCode,omitempty"`
	DiscountPercent int     `json:"discountPercent,omitempty"`
	CouponMessage   string  `json:"couponMessage,omitempty"`
	PostalCode      string  `json:"postalCode,omitempty"`
	Quotes          []Quote `json:"quotes,omitempty"`
	SelectedService string  `json:"selectedService,omitempty"`
}

// State is the full persisted cart.
type State struct {
	Active []Line `json:"active"`
	Saved  []Line `json:"saved"`
	Meta   Meta   `json:"meta"`
}

// SelectedQuote returns the quote matching the selected service, if any.
func (s State) SelectedQuote() (Quote, bool) {
	for _, q := range s.Meta.Quotes {
		if q.Service == s.Meta.SelectedService {
			return q, true
		}
	}
	return Quote{}, false
}

// View is the API representation of a cart including computed totals.
type View struct {
	ID     string          `json:"id"`
	Active []Line          `json:"active"`
	Saved  []Line          `json:"saved"`
	Meta   Meta            `json:"meta"`
	Totals pricing.Summary `json:"totals"`
}
