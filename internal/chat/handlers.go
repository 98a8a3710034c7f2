package chat

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-loja/internal/common"
)

// Handler exposes the chat widget endpoint.
type Handler struct {
	Service  *Service
	Validate *validator.Validate
}

type chatRequest struct {
	History []Message `json:"history" validate:"max=50,dive"`
	Message string    `json:"message" validate:"required,max=2000"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Post handles POST /api/v1/chat.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "corpo da requisição inválido", nil)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "corpo da requisição inválido", err.Error())
			return
		}
	}
	reply := h.Service.Reply(r.Context(), req.History, req.Message)
	common.JSONData(w, http.StatusOK, chatResponse{Reply: reply})
}
