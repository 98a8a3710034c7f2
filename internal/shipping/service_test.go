package shipping

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-loja/internal/cart"
	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/common"
	"github.com/noah-isme/backend-loja/internal/postal"
	"github.com/noah-isme/backend-loja/internal/pricing"
)

type stubPostal struct {
	err error
}

func (s stubPostal) Lookup(ctx context.Context, cep string) (postal.Address, error) {
	if s.err != nil {
		return postal.Address{}, s.err
	}
	return postal.Address{CEP: cep, City: "São Paulo"}, nil
}

type stubRates struct {
	enabled bool
	quotes  []cart.Quote
	err     error
	calls   int
}

func (s *stubRates) Enabled() bool { return s.enabled }

func (s *stubRates) Calculate(ctx context.Context, destCEP string, lines []cart.Line) ([]cart.Quote, error) {
	s.calls++
	return s.quotes, s.err
}

type stubCatalog struct{}

func (stubCatalog) Get(ctx context.Context, id int64) (catalog.Item, error) {
	return catalog.Item{ID: id, Name: "Bíblia", Category: "Bíblias", Price: 18990}, nil
}

func newCartService() *cart.Service {
	return &cart.Service{Store: cart.NewMemoryStore(), Catalog: stubCatalog{}, Logger: zerolog.Nop()}
}

func TestEstimateIsDeterministic(t *testing.T) {
	quotes := Estimate("01001007")
	require.Len(t, quotes, 2)

	require.Equal(t, "PAC", quotes[0].Service)
	require.Equal(t, pricing.Cents(2690), quotes[0].Price)
	require.Equal(t, 6, quotes[0].Days)

	require.Equal(t, "SEDEX", quotes[1].Service)
	require.Equal(t, pricing.Cents(4282), quotes[1].Price)
	require.Equal(t, 3, quotes[1].Days)

	require.Equal(t, correiosLogoURL, quotes[0].Logo)
	require.Equal(t, correiosLogoURL, quotes[1].Logo)

	require.Equal(t, quotes, Estimate("01001007"))
}

func TestEstimateNonNumericSuffixUsesZeroSeed(t *testing.T) {
	quotes := Estimate("")
	require.Equal(t, pricing.Cents(1990), quotes[0].Price)
	require.Equal(t, 5, quotes[0].Days)
	require.Equal(t, pricing.Cents(3582), quotes[1].Price)
	require.Equal(t, 2, quotes[1].Days)
}

func TestResolveEmptyCodeClearsQuotes(t *testing.T) {
	carts := newCartService()
	ctx := context.Background()
	id := carts.Create(ctx)
	carts.SetShipping(ctx, id, "01001000", Estimate("01001000"), "PAC")

	svc := &Service{Carts: carts, Postal: stubPostal{}, Logger: zerolog.Nop()}
	view, err := svc.Resolve(ctx, id, "")
	require.NoError(t, err)
	require.Empty(t, view.Meta.Quotes)
	require.Empty(t, view.Meta.PostalCode)
}

func TestResolveShortCodeIsValidationError(t *testing.T) {
	carts := newCartService()
	ctx := context.Background()
	id := carts.Create(ctx)

	svc := &Service{Carts: carts, Postal: stubPostal{}, Logger: zerolog.Nop()}
	_, err := svc.Resolve(ctx, id, "0100")

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "CEP_INVALID", appErr.Code)
	require.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
	require.Empty(t, carts.Get(ctx, id).Meta.PostalCode)
}

func TestResolveFallsBackWhenCarrierFails(t *testing.T) {
	carts := newCartService()
	ctx := context.Background()
	id := carts.Create(ctx)
	_, err := carts.AddItem(ctx, id, 1)
	require.NoError(t, err)

	rates := &stubRates{enabled: true, err: errors.New("boom")}
	svc := &Service{Carts: carts, Postal: stubPostal{}, Rates: rates, Logger: zerolog.Nop()}

	view, err := svc.Resolve(ctx, id, "01001-007")
	require.NoError(t, err)
	require.Equal(t, 1, rates.calls)
	require.Len(t, view.Meta.Quotes, 2)
	require.Equal(t, SourceFallback, view.Meta.Quotes[0].Source)
	require.Equal(t, "PAC", view.Meta.SelectedService)
	require.Equal(t, pricing.Cents(2690), view.Totals.Shipping)
}

func TestResolveUsesRemoteQuotesAndAutoSelectsFirst(t *testing.T) {
	carts := newCartService()
	ctx := context.Background()
	id := carts.Create(ctx)
	_, err := carts.AddItem(ctx, id, 1)
	require.NoError(t, err)

	rates := &stubRates{enabled: true, quotes: []cart.Quote{
		{Service: "SEDEX", Carrier: "Correios", Price: 3299, Days: 2, Source: SourceRemote},
		{Service: "PAC", Carrier: "Correios", Price: 1890, Days: 6, Source: SourceRemote},
	}}
	svc := &Service{Carts: carts, Postal: stubPostal{}, Rates: rates, Logger: zerolog.Nop()}

	view, err := svc.Resolve(ctx, id, "01001000")
	require.NoError(t, err)
	require.Equal(t, "SEDEX", view.Meta.SelectedService)
	require.Equal(t, pricing.Cents(3299), view.Totals.Shipping)
}

func TestResolveNotFoundClearsDestination(t *testing.T) {
	carts := newCartService()
	ctx := context.Background()
	id := carts.Create(ctx)
	carts.SetShipping(ctx, id, "01001000", Estimate("01001000"), "PAC")

	lookupErr := common.NewAppError("CEP_NOT_FOUND", "CEP não encontrado. Verifique e tente novamente.", http.StatusUnprocessableEntity, nil)
	svc := &Service{Carts: carts, Postal: stubPostal{err: lookupErr}, Logger: zerolog.Nop()}

	_, err := svc.Resolve(ctx, id, "99999999")
	require.ErrorIs(t, err, lookupErr)
	require.Empty(t, carts.Get(ctx, id).Meta.PostalCode)
	require.Empty(t, carts.Get(ctx, id).Meta.Quotes)
}

// racingRates blocks the first carrier call until released so a newer
// resolution can finish first.
type racingRates struct {
	started chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (r *racingRates) Enabled() bool { return true }

func (r *racingRates) Calculate(ctx context.Context, destCEP string, lines []cart.Line) ([]cart.Quote, error) {
	r.mu.Lock()
	r.calls++
	first := r.calls == 1
	r.mu.Unlock()
	if first {
		close(r.started)
		<-r.release
		return []cart.Quote{{Service: "PAC", Carrier: "Correios", Price: 1111, Days: 9, Source: SourceRemote}}, nil
	}
	return []cart.Quote{{Service: "SEDEX", Carrier: "Correios", Price: 2222, Days: 2, Source: SourceRemote}}, nil
}

func TestStaleResolutionIsDiscarded(t *testing.T) {
	carts := newCartService()
	ctx := context.Background()
	id := carts.Create(ctx)
	_, err := carts.AddItem(ctx, id, 1)
	require.NoError(t, err)

	rates := &racingRates{started: make(chan struct{}), release: make(chan struct{})}
	svc := &Service{Carts: carts, Postal: stubPostal{}, Rates: rates, Logger: zerolog.Nop()}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Resolve(ctx, id, "01001000")
	}()

	<-rates.started
	_, err = svc.Resolve(ctx, id, "01001001")
	require.NoError(t, err)

	close(rates.release)
	<-done

	got := carts.Get(ctx, id)
	require.Equal(t, "01001001", got.Meta.PostalCode)
	require.Equal(t, "SEDEX", got.Meta.SelectedService)
	require.Equal(t, pricing.Cents(2222), got.Meta.Quotes[0].Price)
}

// racingPostal blocks the first lookup until released so a newer
// resolution can finish first.
type racingPostal struct {
	started chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (p *racingPostal) Lookup(ctx context.Context, cep string) (postal.Address, error) {
	p.mu.Lock()
	p.calls++
	first := p.calls == 1
	p.mu.Unlock()
	if first {
		close(p.started)
		<-p.release
		return postal.Address{}, common.NewAppError("CEP_NOT_FOUND",
			"CEP não encontrado. Verifique e tente novamente.", http.StatusUnprocessableEntity, nil)
	}
	return postal.Address{CEP: cep, City: "São Paulo"}, nil
}

func TestStaleNotFoundDoesNotClearNewerQuotes(t *testing.T) {
	carts := newCartService()
	ctx := context.Background()
	id := carts.Create(ctx)
	_, err := carts.AddItem(ctx, id, 1)
	require.NoError(t, err)

	lookups := &racingPostal{started: make(chan struct{}), release: make(chan struct{})}
	svc := &Service{Carts: carts, Postal: lookups, Logger: zerolog.Nop()}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Resolve(ctx, id, "99999999")
	}()

	<-lookups.started
	_, err = svc.Resolve(ctx, id, "01001000")
	require.NoError(t, err)

	close(lookups.release)
	<-done

	got := carts.Get(ctx, id)
	require.Equal(t, "01001000", got.Meta.PostalCode)
	require.NotEmpty(t, got.Meta.Quotes)
	require.Equal(t, "PAC", got.Meta.SelectedService)
}
