package shipping

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-loja/internal/cart"
	"github.com/noah-isme/backend-loja/internal/pricing"
	"github.com/noah-isme/backend-loja/internal/resilience"
)

func TestCalculateFiltersErroredOptionsAndKeepsOrder(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/shipment/calculate", r.URL.Path)
		require.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"name":"SEDEX","custom_price":"32.99","custom_delivery_time":2,"company":{"name":"Correios","picture":"https://cdn.melhorenvio.com.br/correios.png"}},
			{"name":"Mini Envios","error":"dimensions exceeded","company":{"name":"Correios"}},
			{"name":"PAC","custom_price":"18.90","custom_delivery_time":6,"company":{"name":"Correios"}}
		]`))
	}))
	defer srv.Close()

	client := &MelhorEnvio{
		BaseURL:      srv.URL,
		Token:        "token-123",
		OriginCEP:    "01001000",
		ContactEmail: "contato@shalomadonai.com.br",
		HTTP:         &resilience.HTTPClient{Client: &http.Client{Timeout: time.Second}, MaxAttempts: 1},
	}
	require.True(t, client.Enabled())

	quotes, err := client.Calculate(context.Background(), "04567000", []cart.Line{
		{ProductID: 1, Name: "Bíblia", Price: 18990, Qty: 2},
	})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	require.Equal(t, "SEDEX", quotes[0].Service)
	require.Equal(t, pricing.Cents(3299), quotes[0].Price)
	require.Equal(t, "https://cdn.melhorenvio.com.br/correios.png", quotes[0].Logo)
	require.Equal(t, "PAC", quotes[1].Service)
	require.Equal(t, 6, quotes[1].Days)
	require.Empty(t, quotes[1].Logo)

	// Missing dimensions fall back to the standard small parcel.
	products := gotBody["products"].([]any)
	first := products[0].(map[string]any)
	require.Equal(t, float64(10), first["width"])
	require.Equal(t, 0.5, first["weight"])
	require.Equal(t, 189.90, first["insurance_value"])
	require.Equal(t, float64(2), first["quantity"])
}

func TestCalculateDisabledWithoutCredentials(t *testing.T) {
	require.False(t, (&MelhorEnvio{}).Enabled())
	require.False(t, (&MelhorEnvio{Token: "x"}).Enabled())
	var nilClient *MelhorEnvio
	require.False(t, nilClient.Enabled())
}
