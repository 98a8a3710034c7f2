package checkout

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-loja/internal/cart"
	"github.com/noah-isme/backend-loja/internal/common"
	"github.com/noah-isme/backend-loja/internal/obs"
	"github.com/noah-isme/backend-loja/internal/pricing"
)

// Service builds the provider payload from the cart and hands the buyer
// off to the hosted checkout.
type Service struct {
	Carts  *cart.Service
	Client PreferenceClient
	Logger zerolog.Logger

	// IncludeDiscount applies the cart coupon to the per-line prices sent
	// to the provider. Off by default: the provider then charges the
	// undiscounted subtotal and the discount stays presentational.
	IncludeDiscount bool
}

// Session is the API response for a started checkout.
type Session struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirectUrl"`
}

// Start validates the cart and creates a payment preference. The cart
// is cleared as soon as the provider confirms the session; on provider
// failure the cart is left untouched so the buyer can retry.
func (s *Service) Start(ctx context.Context, cartID string) (Session, error) {
	view := s.Carts.Get(ctx, cartID)
	if len(view.Active) == 0 {
		return Session{}, common.NewAppError("CART_EMPTY",
			"Seu carrinho está vazio.", http.StatusUnprocessableEntity, nil)
	}

	req := PreferenceRequest{Items: make([]PreferenceItem, 0, len(view.Active))}
	for _, line := range view.Active {
		price := line.Price
		if s.IncludeDiscount && view.Meta.DiscountPercent > 0 {
			price = price * pricing.Cents(100-view.Meta.DiscountPercent) / 100
		}
		req.Items = append(req.Items, PreferenceItem{
			Name:     line.Name,
			Quantity: line.Qty,
			Price:    price.Float(),
		})
	}
	req.ShippingCost = view.Totals.Shipping.Float()

	pref, err := s.Client.CreatePreference(ctx, req)
	if err != nil {
		s.Logger.Error().Err(err).Str("cart_id", cartID).Msg("payment preference failed")
		s.count("error")
		return Session{}, common.NewAppError("PAYMENT_UNAVAILABLE",
			"Não foi possível iniciar o pagamento no Mercado Pago. Tente novamente.", http.StatusBadGateway, err)
	}

	// The buyer is leaving for the hosted checkout; clear optimistically
	// so they never come back to an already-paid cart.
	s.Carts.Clear(ctx, cartID)
	s.count("ok")
	return Session{ID: pref.ID, RedirectURL: pref.InitPoint}, nil
}

func (s *Service) count(result string) {
	if obs.CheckoutTotal != nil {
		obs.CheckoutTotal.WithLabelValues(result).Inc()
	}
}
