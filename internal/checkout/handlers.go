package checkout

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-loja/internal/common"
)

// Handler exposes the checkout endpoint.
type Handler struct {
	Service  *Service
	Validate *validator.Validate
}

type startRequest struct {
	CartID string `json:"cartId" validate:"required,uuid4"`
}

// Start handles POST /api/v1/checkout.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "corpo da requisição inválido", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "corpo da requisição inválido", err.Error())
			return
		}
	}
	session, err := h.Service.Start(r.Context(), req.CartID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, session)
}
