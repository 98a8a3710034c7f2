package cart

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/common"
)

// Handler exposes cart endpoints.
type Handler struct {
	Service  *Service
	Validate *validator.Validate
}

type addItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

type couponRequest struct {
	Code string `json:"code" validate:"required,max=40"`
}

type selectQuoteRequest struct {
	Service string `json:"service" validate:"required,max=40"`
}

// Create handles POST /api/v1/carts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id := h.Service.Create(r.Context())
	common.JSONData(w, http.StatusCreated, map[string]string{"id": id})
}

// Get handles GET /api/v1/carts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	common.JSONData(w, http.StatusOK, h.Service.Get(r.Context(), chi.URLParam(r, "id")))
}

// AddItem handles POST /api/v1/carts/{id}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.Service.AddItem(r.Context(), chi.URLParam(r, "id"), req.ProductID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// RemoveItem handles DELETE /api/v1/carts/{id}/items/{productId}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := catalog.ParseID(chi.URLParam(r, "productId"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, h.Service.RemoveItem(r.Context(), chi.URLParam(r, "id"), productID))
}

// SaveForLater handles POST /api/v1/carts/{id}/items/{productId}/save.
func (h *Handler) SaveForLater(w http.ResponseWriter, r *http.Request) {
	productID, err := catalog.ParseID(chi.URLParam(r, "productId"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, h.Service.MoveToSaved(r.Context(), chi.URLParam(r, "id"), productID))
}

// Activate handles POST /api/v1/carts/{id}/items/{productId}/activate.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	productID, err := catalog.ParseID(chi.URLParam(r, "productId"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, h.Service.MoveToCart(r.Context(), chi.URLParam(r, "id"), productID))
}

// ApplyCoupon handles POST /api/v1/carts/{id}/coupon.
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if !h.decode(w, r, &req) {
		return
	}
	common.JSONData(w, http.StatusOK, h.Service.ApplyCoupon(r.Context(), chi.URLParam(r, "id"), req.Code))
}

// SelectShipping handles POST /api/v1/carts/{id}/shipping/select.
func (h *Handler) SelectShipping(w http.ResponseWriter, r *http.Request) {
	var req selectQuoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.Service.SelectQuote(r.Context(), chi.URLParam(r, "id"), req.Service)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "corpo da requisição inválido", nil)
		return false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(dst); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "corpo da requisição inválido", err.Error())
			return false
		}
	}
	return true
}
