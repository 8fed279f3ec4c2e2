package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
	"github.com/habuli/go-shop-backend.git/internal/auth"
	"github.com/habuli/go-shop-backend.git/internal/mail"
	"github.com/habuli/go-shop-backend.git/internal/users"
)

// ResetTokenStore issues and invalidates password-reset tokens.
type ResetTokenStore interface {
	Issue(ctx context.Context, userID string) (string, error)
	Consume(ctx context.Context, token string) (string, error)
	Clear(ctx context.Context, token string)
}

type UsersHandler struct {
	Repo   *users.Repo
	Tokens *auth.Tokens
	Reset  ResetTokenStore
	Mailer mail.Mailer

	CookieExpire time.Duration
	FrontendURL  string
}

func (h *UsersHandler) Register(r chi.Router, a *Authenticator) {
	r.Post("/register", handle(h.register))
	r.Post("/login", handle(h.login))
	r.Get("/logout", handle(h.logout))
	r.Post("/password/forgot", handle(h.forgotPassword))
	r.Put("/password/reset/{token}", handle(h.resetPassword))

	r.With(a.Authenticate).Get("/me", handle(h.me))
	r.With(a.Authenticate).Put("/password/update", handle(h.updatePassword))
	r.With(a.Authenticate).Put("/profile/update", handle(h.updateProfile))

	r.With(a.Authenticate, RequireAdmin).Get("/admin/users", handle(h.listUsers))
	r.With(a.Authenticate, RequireAdmin).Get("/admin/user/{id}", handle(h.getUser))
	r.With(a.Authenticate, RequireAdmin).Put("/admin/user/{id}", handle(h.updateRole))
	r.With(a.Authenticate, RequireAdmin).Delete("/admin/user/{id}", handle(h.deleteUser))
}

func (h *UsersHandler) register(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid json")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperr.New(apperr.Validation, "Please enter all fields")
	}
	if len(req.Name) < 3 || len(req.Name) > 30 {
		return apperr.New(apperr.Validation, "Name must be between 3 and 30 characters")
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	u, err := h.Repo.Create(r.Context(), req.Name, req.Email, hash)
	if err != nil {
		return err
	}
	return h.sendToken(w, u, "Registered successfully", http.StatusCreated)
}

func (h *UsersHandler) login(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid json")
	}
	if req.Email == "" || req.Password == "" {
		return apperr.New(apperr.Validation, "Please enter all fields")
	}
	u, err := h.Repo.ByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		return apperr.New(apperr.Auth, "Incorrect email or password")
	}
	return h.sendToken(w, u, fmt.Sprintf("Welcome back %s", u.Name), http.StatusOK)
}

func (h *UsersHandler) logout(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Expires:  time.Now(),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully!",
	})
	return nil
}

func (h *UsersHandler) forgotPassword(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		return apperr.New(apperr.Validation, "Please enter your email address to reset password")
	}
	u, err := h.Repo.ByEmail(r.Context(), req.Email)
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			return apperr.New(apperr.NotFound, "No user associated with this email address")
		}
		return err
	}
	if err := h.sendResetEmail(r.Context(), u); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Email sent to %s successfully", u.Email),
	})
	return nil
}

// sendResetEmail issues a token and mails the reset link. When the mail
// cannot be delivered the token is cleared, so a link the user never received
// cannot validate later.
func (h *UsersHandler) sendResetEmail(ctx context.Context, u users.User) error {
	token, err := h.Reset.Issue(ctx, u.ID)
	if err != nil {
		return err
	}
	resetURL := fmt.Sprintf("%s/auth/password/reset/%s", h.FrontendURL, token)
	msg := fmt.Sprintf("Your password reset token is :- \n\n %s \n\nIf you have not requested this email then please ignore it", resetURL)
	if err := h.Mailer.Send(ctx, mail.Message{
		To:      u.Email,
		Subject: "Reset Habuli Password",
		Body:    msg,
	}); err != nil {
		h.Reset.Clear(ctx, token)
		return err
	}
	return nil
}

func (h *UsersHandler) resetPassword(w http.ResponseWriter, r *http.Request) error {
	token := chi.URLParam(r, "token")
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		return apperr.New(apperr.Validation, "Please enter password")
	}
	userID, err := h.Reset.Consume(r.Context(), token)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	if err := h.Repo.UpdatePassword(r.Context(), userID, hash); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password changed successfully.",
	})
	return nil
}

func (h *UsersHandler) me(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    CurrentUser(r),
	})
	return nil
}

func (h *UsersHandler) updatePassword(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid json")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return apperr.New(apperr.Validation, "Please fill all fields")
	}
	u := CurrentUser(r)
	if !auth.CheckPassword(u.PasswordHash, req.OldPassword) {
		return apperr.New(apperr.Validation, "Incorrect old password")
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := h.Repo.UpdatePassword(r.Context(), u.ID, hash); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password updated successfully",
	})
	return nil
}

func (h *UsersHandler) updateProfile(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid json")
	}
	if req.Name == "" && req.Email == "" {
		return apperr.New(apperr.Validation, "Please enter name or email")
	}
	if err := h.Repo.UpdateProfile(r.Context(), CurrentUser(r).ID, req.Name, req.Email); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Profile updated successfully",
	})
	return nil
}

func (h *UsersHandler) listUsers(w http.ResponseWriter, r *http.Request) error {
	list, err := h.Repo.List(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   list,
	})
	return nil
}

func (h *UsersHandler) getUser(w http.ResponseWriter, r *http.Request) error {
	u, err := h.Repo.ByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    u,
	})
	return nil
}

func (h *UsersHandler) updateRole(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Role == "" {
		return apperr.New(apperr.Validation, "Enter Role")
	}
	if req.Role != users.RoleUser && req.Role != users.RoleAdmin {
		return apperr.Newf(apperr.Validation, "unknown role %q", req.Role)
	}
	if err := h.Repo.UpdateRole(r.Context(), chi.URLParam(r, "id"), req.Role); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Role updated successfully",
	})
	return nil
}

func (h *UsersHandler) deleteUser(w http.ResponseWriter, r *http.Request) error {
	u, err := h.Repo.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("%s's account has deleted successfully", u.Name),
	})
	return nil
}

func (h *UsersHandler) sendToken(w http.ResponseWriter, u users.User, message string, code int) error {
	token, err := h.Tokens.Issue(u.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.CookieExpire),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	writeJSON(w, code, map[string]any{
		"success": true,
		"message": message,
		"user":    u,
	})
	return nil
}
