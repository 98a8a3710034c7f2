package pricing

// Item describes a line item used for totals calculation.
type Item struct {
	Qty       int
	UnitPrice Cents
}

// Summary aggregates the computed order components.
type Summary struct {
	Subtotal Cents `json:"subtotal"`
	Discount Cents `json:"discount"`
	Shipping Cents `json:"shipping"`
	Total    Cents `json:"total"`
}

// Compute calculates order totals for the given lines, discount percentage
// and shipping amount. The discount never exceeds the subtotal and the
// resulting total is never negative.
func Compute(items []Item, discountPercent int, shipping Cents) Summary {
	var subtotal Cents
	for _, it := range items {
		if it.Qty <= 0 || it.UnitPrice < 0 {
			continue
		}
		subtotal += Cents(it.Qty) * it.UnitPrice
	}
	if discountPercent < 0 {
		discountPercent = 0
	}
	if discountPercent > 100 {
		discountPercent = 100
	}
	discount := subtotal * Cents(discountPercent) / 100
	if discount > subtotal {
		discount = subtotal
	}
	if shipping < 0 {
		shipping = 0
	}
	total := subtotal - discount + shipping
	if total < 0 {
		total = 0
	}
	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Total:    total,
	}
}
