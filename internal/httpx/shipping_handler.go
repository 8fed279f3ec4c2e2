package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
	"github.com/habuli/go-shop-backend.git/internal/shipping"
)

type ShippingHandler struct {
	Repo *shipping.Repo
}

func (h *ShippingHandler) Register(r chi.Router, a *Authenticator) {
	r.With(a.Authenticate).Post("/shippinginfo/add", handle(h.add))
	r.With(a.Authenticate).Get("/shippinginfo", handle(h.list))
	r.With(a.Authenticate).Delete("/shippinginfo/{id}", handle(h.delete))
}

func (h *ShippingHandler) add(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Address          string  `json:"address"`
		City             string  `json:"city"`
		State            string  `json:"state"`
		Country          string  `json:"country"`
		PinCode          string  `json:"pinCode"`
		PhoneNo          string  `json:"phoneNo"`
		AlternatePhoneNo *string `json:"alternatePhoneNo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid json")
	}
	if req.Address == "" || req.City == "" || req.Country == "" || req.PinCode == "" || req.PhoneNo == "" {
		return apperr.New(apperr.Validation, "Please enter all fields")
	}
	_, err := h.Repo.Add(r.Context(), shipping.Info{
		UserID:           CurrentUser(r).ID,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		Country:          req.Country,
		PinCode:          req.PinCode,
		PhoneNo:          req.PhoneNo,
		AlternatePhoneNo: req.AlternatePhoneNo,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
	return nil
}

func (h *ShippingHandler) list(w http.ResponseWriter, r *http.Request) error {
	list, err := h.Repo.ListByUser(r.Context(), CurrentUser(r).ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"shippingInfo": list,
	})
	return nil
}

func (h *ShippingHandler) delete(w http.ResponseWriter, r *http.Request) error {
	if err := h.Repo.Delete(r.Context(), chi.URLParam(r, "id"), CurrentUser(r).ID); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Address deleted successfully",
	})
	return nil
}
