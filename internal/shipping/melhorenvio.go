package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/noah-isme/backend-loja/internal/cart"
	"github.com/noah-isme/backend-loja/internal/pricing"
	"github.com/noah-isme/backend-loja/internal/resilience"
)

const (
	defaultDimensionCM = 10
	defaultWeightKG    = 0.5
)

// MelhorEnvio prices shipments through the Melhor Envio calculate API.
type MelhorEnvio struct {
	BaseURL      string
	Token        string
	OriginCEP    string
	ContactEmail string
	HTTP         *resilience.HTTPClient
}

// Enabled reports whether credentials are configured.
func (c *MelhorEnvio) Enabled() bool {
	return c != nil && strings.TrimSpace(c.Token) != "" && strings.TrimSpace(c.OriginCEP) != ""
}

type calcProduct struct {
	ID             string  `json:"id"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	Length         float64 `json:"length"`
	Weight         float64 `json:"weight"`
	InsuranceValue float64 `json:"insurance_value"`
	Quantity       int     `json:"quantity"`
}

type calcRequest struct {
	From     struct{ PostalCode string `json:"postal_code"` } `json:"from"`
	To       struct{ PostalCode string `json:"postal_code"` } `json:"to"`
	Products []calcProduct                                    `json:"products"`
	Options  struct {
		Receipt bool `json:"receipt"`
		OwnHand bool `json:"own_hand"`
	} `json:"options"`
}

type calcOption struct {
	Name    string        `json:"name"`
	Price   pricing.Cents `json:"custom_price"`
	Days    int           `json:"custom_delivery_time"`
	Company struct {
		Name    string `json:"name"`
		Picture string `json:"picture"`
	} `json:"company"`
	Error string `json:"error"`
}

// Calculate quotes the cart lines for the destination. Options the API
// marks as errored are dropped, the remaining order is preserved.
func (c *MelhorEnvio) Calculate(ctx context.Context, destCEP string, lines []cart.Line) ([]cart.Quote, error) {
	body := calcRequest{}
	body.From.PostalCode = c.OriginCEP
	body.To.PostalCode = destCEP
	body.Products = make([]calcProduct, 0, len(lines))
	for _, l := range lines {
		p := calcProduct{
			ID:             fmt.Sprintf("%d", l.ProductID),
			Width:          l.WidthCM,
			Height:         l.HeightCM,
			Length:         l.LengthCM,
			Weight:         l.WeightKG,
			InsuranceValue: l.Price.Float(),
			Quantity:       l.Qty,
		}
		if p.Width <= 0 {
			p.Width = defaultDimensionCM
		}
		if p.Height <= 0 {
			p.Height = defaultDimensionCM
		}
		if p.Length <= 0 {
			p.Length = defaultDimensionCM
		}
		if p.Weight <= 0 {
			p.Weight = defaultWeightKG
		}
		body.Products = append(body.Products, p)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/shipment/calculate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("User-Agent", fmt.Sprintf("Aplicação %s", c.ContactEmail))

	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("melhor envio status %d", resp.StatusCode)
	}

	var options []calcOption
	if err := json.NewDecoder(resp.Body).Decode(&options); err != nil {
		return nil, fmt.Errorf("melhor envio payload: %w", err)
	}
	quotes := make([]cart.Quote, 0, len(options))
	for _, opt := range options {
		if opt.Error != "" {
			continue
		}
		quotes = append(quotes, cart.Quote{
			Service: opt.Name,
			Carrier: opt.Company.Name,
			Logo:    opt.Company.Picture,
			Price:   opt.Price,
			Days:    opt.Days,
			Source:  SourceRemote,
		})
	}
	return quotes, nil
}
