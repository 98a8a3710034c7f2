package catalog

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-loja/internal/common"
	"github.com/noah-isme/backend-loja/internal/pricing"
)

func writeCatalog(t *testing.T, items []Item) FileStore {
	t.Helper()
	dir := t.TempDir()
	store := FileStore{Path: filepath.Join(dir, "products.json")}
	require.NoError(t, store.WriteAll(items))
	return store
}

func testService(t *testing.T, items []Item) *Service {
	t.Helper()
	return &Service{Store: writeCatalog(t, items), Logger: zerolog.Nop()}
}

func TestListFiltersByCategoryCaseInsensitive(t *testing.T) {
	svc := testService(t, []Item{
		{ID: 1, Name: "Bíblia de Estudo", Category: "Bíblias", Price: pricing.Cents(18990)},
		{ID: 2, Name: "Harpa Cristã", Category: "Livros", Price: pricing.Cents(4590)},
	})

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	got, err := svc.List(context.Background(), "bíblias")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(1), got[0].ID)
}

func TestGetReturnsNotFound(t *testing.T) {
	svc := testService(t, []Item{{ID: 1, Name: "Bíblia", Category: "Bíblias", Price: 18990}})

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "NOT_FOUND", appErr.Code)
	require.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
}

func TestCategoriesAreDistinctAndSorted(t *testing.T) {
	svc := testService(t, []Item{
		{ID: 1, Category: "Livros"},
		{ID: 2, Category: "Bíblias"},
		{ID: 3, Category: "Livros"},
		{ID: 4, Category: ""},
	})

	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Bíblias", "Livros"}, cats)
}

func TestWriteAllSortsByIDAndRoundTrips(t *testing.T) {
	store := writeCatalog(t, []Item{
		{ID: 3, Name: "c"},
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b"},
	})
	items, err := store.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, []int64{items[0].ID, items[1].ID, items[2].ID})
	require.Equal(t, int64(4), NextID(items))
}

func TestReadAllRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := FileStore{Path: path}.ReadAll()
	require.Error(t, err)
}
