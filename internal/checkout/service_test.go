package checkout

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-loja/internal/cart"
	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/common"
	"github.com/noah-isme/backend-loja/internal/pricing"
)

type fakeClient struct {
	calls []PreferenceRequest
	pref  Preference
	err   error
}

func (f *fakeClient) CreatePreference(ctx context.Context, req PreferenceRequest) (Preference, error) {
	f.calls = append(f.calls, req)
	return f.pref, f.err
}

type stubCatalog struct{}

func (stubCatalog) Get(ctx context.Context, id int64) (catalog.Item, error) {
	return catalog.Item{ID: id, Name: "Bíblia de Estudo", Category: "Bíblias", Price: 10000}, nil
}

func newCarts() *cart.Service {
	return &cart.Service{Store: cart.NewMemoryStore(), Catalog: stubCatalog{}, Logger: zerolog.Nop()}
}

func TestStartRefusesEmptyCartBeforeProviderCall(t *testing.T) {
	carts := newCarts()
	client := &fakeClient{}
	svc := &Service{Carts: carts, Client: client, Logger: zerolog.Nop()}

	_, err := svc.Start(context.Background(), carts.Create(context.Background()))

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "CART_EMPTY", appErr.Code)
	require.Empty(t, client.calls)
}

func TestStartClearsCartOnSuccess(t *testing.T) {
	carts := newCarts()
	ctx := context.Background()
	id := carts.Create(ctx)
	_, err := carts.AddItem(ctx, id, 1)
	require.NoError(t, err)
	carts.SetShipping(ctx, id, "01001000", []cart.Quote{{Service: "PAC", Price: 1990, Days: 5}}, "PAC")

	client := &fakeClient{pref: Preference{ID: "pref-1", InitPoint: "https://mp.example/init"}}
	svc := &Service{Carts: carts, Client: client, Logger: zerolog.Nop()}

	session, err := svc.Start(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "pref-1", session.ID)
	require.Equal(t, "https://mp.example/init", session.RedirectURL)

	require.Len(t, client.calls, 1)
	require.Equal(t, 100.0, client.calls[0].Items[0].Price)
	require.Equal(t, 19.90, client.calls[0].ShippingCost)

	require.Empty(t, carts.Get(ctx, id).Active)
}

func TestStartPreservesCartOnProviderFailure(t *testing.T) {
	carts := newCarts()
	ctx := context.Background()
	id := carts.Create(ctx)
	_, err := carts.AddItem(ctx, id, 1)
	require.NoError(t, err)

	client := &fakeClient{err: errors.New("sidecar down")}
	svc := &Service{Carts: carts, Client: client, Logger: zerolog.Nop()}

	_, err = svc.Start(ctx, id)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "PAYMENT_UNAVAILABLE", appErr.Code)
	require.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)

	require.Len(t, carts.Get(ctx, id).Active, 1)
}

func TestStartSendsPreDiscountPricesByDefault(t *testing.T) {
	carts := newCarts()
	ctx := context.Background()
	id := carts.Create(ctx)
	_, err := carts.AddItem(ctx, id, 1)
	require.NoError(t, err)
	carts.ApplyCoupon(ctx, id, "SHALOM10")

	client := &fakeClient{pref: Preference{ID: "p", InitPoint: "https://mp.example"}}
	svc := &Service{Carts: carts, Client: client, Logger: zerolog.Nop()}

	_, err = svc.Start(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 100.0, client.calls[0].Items[0].Price)
}

func TestStartAppliesDiscountWhenConfigured(t *testing.T) {
	carts := newCarts()
	ctx := context.Background()
	id := carts.Create(ctx)
	_, err := carts.AddItem(ctx, id, 1)
	require.NoError(t, err)
	carts.ApplyCoupon(ctx, id, "SHALOM10")

	client := &fakeClient{pref: Preference{ID: "p", InitPoint: "https://mp.example"}}
	svc := &Service{Carts: carts, Client: client, Logger: zerolog.Nop(), IncludeDiscount: true}

	_, err = svc.Start(ctx, id)
	require.NoError(t, err)
	require.Equal(t, pricing.Cents(9000).Float(), client.calls[0].Items[0].Price)
}
