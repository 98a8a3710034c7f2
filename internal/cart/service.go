package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/common"
	"github.com/noah-isme/backend-loja/internal/coupon"
	"github.com/noah-isme/backend-loja/internal/obs"
	"github.com/noah-isme/backend-loja/internal/pricing"
)

// ItemSource resolves catalog items when lines are added to a cart.
type ItemSource interface {
	Get(ctx context.Context, id int64) (catalog.Item, error)
}

// Service implements cart operations. All mutations load the full
// state, transform it, and persist the whole collection back.
type Service struct {
	Store   Store
	Catalog ItemSource
	Logger  zerolog.Logger
}

// Create allocates a new cart identifier.
func (s *Service) Create(ctx context.Context) string {
	id := uuid.NewString()
	s.Store.Save(ctx, id, State{})
	return id
}

// Get returns the cart view with computed totals.
func (s *Service) Get(ctx context.Context, cartID string) View {
	return s.view(cartID, s.Store.Load(ctx, cartID))
}

// AddItem puts one unit of the product in the active cart, merging into
// an existing line when the product is already there.
func (s *Service) AddItem(ctx context.Context, cartID string, productID int64) (View, error) {
	item, err := s.Catalog.Get(ctx, productID)
	if err != nil {
		return View{}, err
	}
	state := s.Store.Load(ctx, cartID)
	merged := false
	for i := range state.Active {
		if state.Active[i].ProductID == productID {
			state.Active[i].Qty++
			merged = true
			break
		}
	}
	if !merged {
		state.Active = append(state.Active, lineFromItem(item))
	}
	s.persist(ctx, cartID, state, "add_item")
	return s.view(cartID, state), nil
}

// RemoveItem drops the product's line from the active cart. Removing a
// product that is not there is a no-op.
func (s *Service) RemoveItem(ctx context.Context, cartID string, productID int64) View {
	state := s.Store.Load(ctx, cartID)
	state.Active = dropLine(state.Active, productID)
	s.persist(ctx, cartID, state, "remove_item")
	return s.view(cartID, state)
}

// MoveToSaved moves an active line to the saved list. When the product
// is already saved the active line is simply dropped so the saved list
// never holds duplicates.
func (s *Service) MoveToSaved(ctx context.Context, cartID string, productID int64) View {
	state := s.Store.Load(ctx, cartID)
	line, ok := findLine(state.Active, productID)
	if !ok {
		return s.view(cartID, state)
	}
	state.Active = dropLine(state.Active, productID)
	if _, dup := findLine(state.Saved, productID); !dup {
		state.Saved = append(state.Saved, line)
	}
	s.persist(ctx, cartID, state, "move_to_saved")
	return s.view(cartID, state)
}

// MoveToCart moves a saved line back to the active cart, summing
// quantities when the product is already active.
func (s *Service) MoveToCart(ctx context.Context, cartID string, productID int64) View {
	state := s.Store.Load(ctx, cartID)
	line, ok := findLine(state.Saved, productID)
	if !ok {
		return s.view(cartID, state)
	}
	state.Saved = dropLine(state.Saved, productID)
	merged := false
	for i := range state.Active {
		if state.Active[i].ProductID == productID {
			state.Active[i].Qty += line.Qty
			merged = true
			break
		}
	}
	if !merged {
		state.Active = append(state.Active, line)
	}
	s.persist(ctx, cartID, state, "move_to_cart")
	return s.view(cartID, state)
}

// ApplyCoupon evaluates the code and records the outcome on the cart.
// Unknown codes clear any previous discount without raising an error.
func (s *Service) ApplyCoupon(ctx context.Context, cartID, code string) View {
	result := coupon.Apply(code)
	state := s.Store.Load(ctx, cartID)
	state.Meta.CouponCode = result.Code
	state.Meta.DiscountPercent = result.Percent
	state.Meta.CouponMessage = result.Message

	outcome := "unknown"
	switch {
	case result.Applied:
		outcome = "applied"
	case result.Disabled:
		outcome = "disabled"
	}
	if obs.CouponApplyTotal != nil {
		obs.CouponApplyTotal.WithLabelValues(outcome).Inc()
	}
	s.persist(ctx, cartID, state, "apply_coupon")
	return s.view(cartID, state)
}

// SetShipping records the destination, resolved quotes, and selection.
func (s *Service) SetShipping(ctx context.Context, cartID, postalCode string, quotes []Quote, selected string) View {
	state := s.Store.Load(ctx, cartID)
	state.Meta.PostalCode = postalCode
	state.Meta.Quotes = quotes
	state.Meta.SelectedService = selected
	s.persist(ctx, cartID, state, "set_shipping")
	return s.view(cartID, state)
}

// SelectQuote switches the selected shipping service among resolved quotes.
func (s *Service) SelectQuote(ctx context.Context, cartID, service string) (View, error) {
	state := s.Store.Load(ctx, cartID)
	service = strings.TrimSpace(service)
	found := false
	for _, q := range state.Meta.Quotes {
		if strings.EqualFold(q.Service, service) {
			state.Meta.SelectedService = q.Service
			found = true
			break
		}
	}
	if !found {
		return View{}, common.NewAppError("QUOTE_NOT_FOUND", "opção de frete indisponível", http.StatusUnprocessableEntity, nil)
	}
	s.persist(ctx, cartID, state, "select_quote")
	return s.view(cartID, state), nil
}

// Clear removes the cart entirely.
func (s *Service) Clear(ctx context.Context, cartID string) {
	s.Store.Delete(ctx, cartID)
	if obs.CartMutationTotal != nil {
		obs.CartMutationTotal.WithLabelValues("clear").Inc()
	}
}

func (s *Service) persist(ctx context.Context, cartID string, state State, op string) {
	s.Store.Save(ctx, cartID, state)
	if obs.CartMutationTotal != nil {
		obs.CartMutationTotal.WithLabelValues(op).Inc()
	}
}

func (s *Service) view(cartID string, state State) View {
	items := make([]pricing.Item, 0, len(state.Active))
	for _, l := range state.Active {
		items = append(items, pricing.Item{Qty: l.Qty, UnitPrice: l.Price})
	}
	var shippingCost pricing.Cents
	if q, ok := state.SelectedQuote(); ok {
		shippingCost = q.Price
	}
	return View{
		ID:     cartID,
		Active: emptyIfNil(state.Active),
		Saved:  emptyIfNil(state.Saved),
		Meta:   state.Meta,
		Totals: pricing.Compute(items, state.Meta.DiscountPercent, shippingCost),
	}
}

func lineFromItem(item catalog.Item) Line {
	line := Line{
		ProductID: item.ID,
		Name:      item.Name,
		Category:  item.Category,
		Price:     item.Price,
		Image:     item.Image,
		Qty:       1,
		IsDigital: item.IsDigital,
	}
	if d := item.Dimensions; d != nil {
		line.WidthCM = d.Width
		line.HeightCM = d.Height
		line.LengthCM = d.Length
		line.WeightKG = d.Weight
	}
	return line
}

func findLine(lines []Line, productID int64) (Line, bool) {
	for _, l := range lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

func dropLine(lines []Line, productID int64) []Line {
	out := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	return out
}

func emptyIfNil(lines []Line) []Line {
	if lines == nil {
		return []Line{}
	}
	return lines
}
