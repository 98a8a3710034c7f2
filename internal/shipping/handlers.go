package shipping

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-loja/internal/common"
)

// Handler exposes the quote endpoint.
type Handler struct {
	Service *Service
}

type quoteRequest struct {
	PostalCode string `json:"postalCode"`
}

// Quote handles POST /api/v1/carts/{id}/quote/shipping.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "corpo da requisição inválido", nil)
		return
	}
	view, err := h.Service.Resolve(r.Context(), chi.URLParam(r, "id"), req.PostalCode)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}
