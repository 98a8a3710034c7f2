package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/pricing"
)

type fakeCatalog map[int64]catalog.Item

func (f fakeCatalog) Get(ctx context.Context, id int64) (catalog.Item, error) {
	it, ok := f[id]
	if !ok {
		return catalog.Item{}, errNotFound
	}
	return it, nil
}

var errNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "produto não encontrado" }

func newTestService(t *testing.T) *Service {
	t.Helper()
	return &Service{
		Store: NewMemoryStore(),
		Catalog: fakeCatalog{
			1: {ID: 1, Name: "Bíblia de Estudo", Category: "Bíblias", Price: pricing.Cents(18990)},
			2: {ID: 2, Name: "Harpa Cristã", Category: "Livros", Price: pricing.Cents(4590)},
		},
		Logger: zerolog.Nop(),
	}
}

func TestAddItemMergesQuantity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	id := svc.Create(ctx)

	_, err := svc.AddItem(ctx, id, 1)
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, id, 1)
	require.NoError(t, err)

	require.Len(t, view.Active, 1)
	require.Equal(t, 2, view.Active[0].Qty)
	require.Equal(t, pricing.Cents(37980), view.Totals.Subtotal)
}

func TestRemoveMissingItemIsNoop(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	id := svc.Create(ctx)
	_, err := svc.AddItem(ctx, id, 1)
	require.NoError(t, err)

	view := svc.RemoveItem(ctx, id, 99)
	require.Len(t, view.Active, 1)
}

func TestMoveToSavedSuppressesDuplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	id := svc.Create(ctx)

	_, err := svc.AddItem(ctx, id, 1)
	require.NoError(t, err)
	svc.MoveToSaved(ctx, id, 1)

	// Put the product back in the active cart, then save it again. The
	// saved list must keep a single entry and the active line must go.
	_, err = svc.AddItem(ctx, id, 1)
	require.NoError(t, err)
	view := svc.MoveToSaved(ctx, id, 1)

	require.Empty(t, view.Active)
	require.Len(t, view.Saved, 1)
}

func TestMoveToCartMergesQuantities(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	id := svc.Create(ctx)

	_, err := svc.AddItem(ctx, id, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, id, 1)
	require.NoError(t, err)
	svc.MoveToSaved(ctx, id, 1)

	_, err = svc.AddItem(ctx, id, 1)
	require.NoError(t, err)
	view := svc.MoveToCart(ctx, id, 1)

	require.Empty(t, view.Saved)
	require.Len(t, view.Active, 1)
	require.Equal(t, 3, view.Active[0].Qty)
}

func TestApplyCouponComputesDiscountedTotal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	id := svc.Create(ctx)

	_, err := svc.AddItem(ctx, id, 2)
	require.NoError(t, err)
	view := svc.ApplyCoupon(ctx, id, "shalom10")

	require.Equal(t, 10, view.Meta.DiscountPercent)
	require.Equal(t, pricing.Cents(459), view.Totals.Discount)
	require.Equal(t, pricing.Cents(4131), view.Totals.Total)
}

func TestUnknownCouponClearsDiscount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	id := svc.Create(ctx)

	svc.ApplyCoupon(ctx, id, "SHALOM10")
	view := svc.ApplyCoupon(ctx, id, "NADA")

	require.Equal(t, 0, view.Meta.DiscountPercent)
}

func TestSelectQuoteRejectsUnknownService(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	id := svc.Create(ctx)
	svc.SetShipping(ctx, id, "01001000", []Quote{{Service: "PAC", Price: 1990, Days: 5}}, "PAC")

	_, err := svc.SelectQuote(ctx, id, "TRANSPORTADORA")
	require.Error(t, err)

	view, err := svc.SelectQuote(ctx, id, "pac")
	require.NoError(t, err)
	require.Equal(t, "PAC", view.Meta.SelectedService)
	require.Equal(t, pricing.Cents(1990), view.Totals.Shipping)
}

func TestRedisStoreTreatsCorruptPayloadAsEmpty(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := &RedisStore{Client: client, Logger: zerolog.Nop()}
	require.NoError(t, mr.Set("cart:abc:active", "{definitely-not-json"))

	state := store.Load(context.Background(), "abc")
	require.Empty(t, state.Active)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := &RedisStore{Client: client, Logger: zerolog.Nop()}
	ctx := context.Background()
	store.Save(ctx, "abc", State{
		Active: []Line{{ProductID: 1, Name: "Bíblia", Price: 18990, Qty: 2}},
		Meta:   Meta{CouponCode: "SHALOM10", DiscountPercent: 10},
	})

	got := store.Load(ctx, "abc")
	require.Len(t, got.Active, 1)
	require.Equal(t, 2, got.Active[0].Qty)
	require.Equal(t, 10, got.Meta.DiscountPercent)

	store.Delete(ctx, "abc")
	require.Empty(t, store.Load(ctx, "abc").Active)
}
