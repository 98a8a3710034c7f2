package checkout

import "context"

// PreferenceItem is a line sent to the payment provider, priced in reais.
type PreferenceItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// PreferenceRequest is the hand-off payload for the payment provider.
type PreferenceRequest struct {
	Items        []PreferenceItem `json:"items"`
	ShippingCost float64          `json:"shippingCost"`
}

// Preference is the provider's hosted checkout session.
type Preference struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// PreferenceClient creates hosted checkout preferences.
type PreferenceClient interface {
	CreatePreference(ctx context.Context, req PreferenceRequest) (Preference, error)
}
