package shipping

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-loja/internal/cart"
	"github.com/noah-isme/backend-loja/internal/common"
	"github.com/noah-isme/backend-loja/internal/obs"
	"github.com/noah-isme/backend-loja/internal/postal"
)

// RateSource prices a shipment for a destination.
type RateSource interface {
	Enabled() bool
	Calculate(ctx context.Context, destCEP string, lines []cart.Line) ([]cart.Quote, error)
}

// AddressSource validates destination postal codes.
type AddressSource interface {
	Lookup(ctx context.Context, cep string) (postal.Address, error)
}

// Service resolves shipping quotes for a cart and persists the outcome
// on the cart meta. Concurrent resolutions for the same cart are
// serialised by a generation counter so a slow earlier request can
// never overwrite the result of a later one.
type Service struct {
	Carts  *cart.Service
	Postal AddressSource
	Rates  RateSource
	Logger zerolog.Logger

	mu   sync.Mutex
	gens map[string]uint64
}

// Resolve validates the destination and attaches priced quotes to the
// cart. An empty code clears any previous quotes without error.
func (s *Service) Resolve(ctx context.Context, cartID, rawPostal string) (cart.View, error) {
	normalized := postal.Normalize(rawPostal)
	if normalized == "" {
		return s.Carts.SetShipping(ctx, cartID, "", nil, ""), nil
	}
	if !postal.Valid(normalized) {
		s.Carts.SetShipping(ctx, cartID, "", nil, "")
		return cart.View{}, common.NewAppError("CEP_INVALID",
			"Por favor, insira um CEP válido com 8 dígitos.", http.StatusUnprocessableEntity, nil)
	}

	gen := s.begin(cartID)

	if _, err := s.Postal.Lookup(ctx, normalized); err != nil {
		var appErr *common.AppError
		// Clearing the destination is itself a write, so a slow failed
		// lookup must not wipe what a newer resolution just attached.
		if errors.As(err, &appErr) && appErr.Code == "CEP_NOT_FOUND" && s.current(cartID, gen) {
			s.Carts.SetShipping(ctx, cartID, "", nil, "")
		}
		s.count("none", "error")
		return cart.View{}, err
	}

	state := s.Carts.Get(ctx, cartID)
	quotes, source := s.price(ctx, normalized, state.Active)
	if len(quotes) == 0 {
		quotes = Estimate(normalized)
		source = SourceFallback
	}

	if !s.current(cartID, gen) {
		// A newer resolution started while this one was in flight. Drop
		// this result and report whatever is now on the cart.
		s.count(source, "stale")
		return s.Carts.Get(ctx, cartID), nil
	}

	selected := quotes[0].Service
	view := s.Carts.SetShipping(ctx, cartID, normalized, quotes, selected)
	s.count(source, "ok")
	return view, nil
}

func (s *Service) price(ctx context.Context, cep string, lines []cart.Line) ([]cart.Quote, string) {
	if s.Rates == nil || !s.Rates.Enabled() {
		return Estimate(cep), SourceFallback
	}
	quotes, err := s.Rates.Calculate(ctx, cep, lines)
	if err != nil {
		s.Logger.Warn().Err(err).Str("cep", cep).Msg("carrier quote failed, using estimator")
		return Estimate(cep), SourceFallback
	}
	return quotes, SourceRemote
}

func (s *Service) begin(cartID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens == nil {
		s.gens = make(map[string]uint64)
	}
	s.gens[cartID]++
	return s.gens[cartID]
}

func (s *Service) current(cartID string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[cartID] == gen
}

func (s *Service) count(source, result string) {
	if obs.ShippingQuoteTotal != nil {
		obs.ShippingQuoteTotal.WithLabelValues(source, result).Inc()
	}
}
