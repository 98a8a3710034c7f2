package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/noah-isme/backend-loja/internal/resilience"
)

// MercadoPago talks to the payment sidecar that owns the Mercado Pago
// credentials and preference creation.
type MercadoPago struct {
	BaseURL string
	HTTP    *resilience.HTTPClient
}

// CreatePreference posts the cart summary to the sidecar and returns
// the hosted checkout session.
func (c *MercadoPago) CreatePreference(ctx context.Context, reqBody PreferenceRequest) (Preference, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Preference{}, err
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/checkout"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Preference{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return Preference{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Preference{}, fmt.Errorf("payment sidecar status %d", resp.StatusCode)
	}
	var pref Preference
	if err := json.NewDecoder(resp.Body).Decode(&pref); err != nil {
		return Preference{}, fmt.Errorf("payment sidecar payload: %w", err)
	}
	if pref.InitPoint == "" {
		return Preference{}, fmt.Errorf("payment sidecar returned empty init point")
	}
	return pref, nil
}
