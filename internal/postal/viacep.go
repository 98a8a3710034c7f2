package postal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/noah-isme/backend-loja/internal/common"
	"github.com/noah-isme/backend-loja/internal/resilience"
)

// Address is the subset of the ViaCEP payload the storefront uses.
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	Erro         bool   `json:"erro"`
}

// Normalize strips every non-digit character from a postal code.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether the normalized code has exactly eight digits.
func Valid(normalized string) bool {
	return len(normalized) == 8
}

// Client queries the ViaCEP public API to validate destination codes.
type Client struct {
	BaseURL string
	HTTP    *resilience.HTTPClient
}

// Lookup validates the postal code against ViaCEP. The code must
// already be normalized to eight digits.
func (c *Client) Lookup(ctx context.Context, cep string) (Address, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", strings.TrimRight(c.BaseURL, "/"), cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Address{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return Address{}, common.NewAppError("CEP_LOOKUP_FAILED",
			"Não foi possível validar o CEP. Tente novamente.", http.StatusBadGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Address{}, common.NewAppError("CEP_LOOKUP_FAILED",
			"Não foi possível validar o CEP. Tente novamente.", http.StatusBadGateway,
			fmt.Errorf("viacep status %d", resp.StatusCode))
	}
	var addr Address
	if err := json.NewDecoder(resp.Body).Decode(&addr); err != nil {
		return Address{}, common.NewAppError("CEP_LOOKUP_FAILED",
			"Não foi possível validar o CEP. Tente novamente.", http.StatusBadGateway, err)
	}
	if addr.Erro {
		return Address{}, common.NewAppError("CEP_NOT_FOUND",
			"CEP não encontrado. Verifique e tente novamente.", http.StatusUnprocessableEntity, nil)
	}
	return addr, nil
}
