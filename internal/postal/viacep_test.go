package postal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-loja/internal/common"
	"github.com/noah-isme/backend-loja/internal/resilience"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, "01001000", Normalize("01001-000"))
	require.Equal(t, "01001000", Normalize(" 01.001 000 "))
	require.Equal(t, "", Normalize("abc"))
	require.True(t, Valid("01001000"))
	require.False(t, Valid("0100100"))
}

func newClient(url string) *Client {
	return &Client{
		BaseURL: url,
		HTTP: &resilience.HTTPClient{
			Client:      &http.Client{Timeout: time.Second},
			MaxAttempts: 1,
		},
	}
}

func TestLookupFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ws/01001000/json/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cep":"01001-000","logradouro":"Praça da Sé","localidade":"São Paulo","uf":"SP"}`))
	}))
	defer srv.Close()

	addr, err := newClient(srv.URL).Lookup(context.Background(), "01001000")
	require.NoError(t, err)
	require.Equal(t, "São Paulo", addr.City)
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"erro": true}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Lookup(context.Background(), "99999999")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "CEP_NOT_FOUND", appErr.Code)
}

func TestLookupUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Lookup(context.Background(), "01001000")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "CEP_LOOKUP_FAILED", appErr.Code)
}
