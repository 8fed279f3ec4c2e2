package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
	"github.com/habuli/go-shop-backend.git/internal/payment"
)

type PaymentsHandler struct {
	Gateway payment.Gateway
	KeyID   string
}

func (h *PaymentsHandler) Register(r chi.Router, a *Authenticator) {
	r.With(a.Authenticate).Post("/payment/process", handle(h.process))
	r.With(a.Authenticate).Get("/razorpayapikey", handle(h.apiKey))
}

func (h *PaymentsHandler) process(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		TotalAmount float64 `json:"totalAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TotalAmount <= 0 {
		return apperr.New(apperr.Validation, "totalAmount is required")
	}
	intent, err := h.Gateway.CreateIntent(r.Context(), req.TotalAmount, "order_receipt_"+CurrentUser(r).ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   intent,
	})
	return nil
}

func (h *PaymentsHandler) apiKey(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]any{"razorpay_key": h.KeyID})
	return nil
}
