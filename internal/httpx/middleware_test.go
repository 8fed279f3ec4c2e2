package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
	"github.com/habuli/go-shop-backend.git/internal/auth"
	"github.com/habuli/go-shop-backend.git/internal/users"
)

type fakeUsers struct {
	byID map[string]users.User
}

func (f *fakeUsers) ByID(_ context.Context, id string) (users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return users.User{}, apperr.New(apperr.NotFound, "User not found")
	}
	return u, nil
}

func testAuthenticator(t *testing.T, us ...users.User) (*Authenticator, *auth.Tokens) {
	t.Helper()
	tokens := &auth.Tokens{Secret: []byte("test-secret"), Expire: time.Hour}
	f := &fakeUsers{byID: map[string]users.User{}}
	for _, u := range us {
		f.byID[u.ID] = u
	}
	return &Authenticator{Tokens: tokens, Users: f}, tokens
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Success {
		t.Error("error body reports success=true")
	}
	return body.Error
}

func TestAuthenticateNoCookie(t *testing.T) {
	a, _ := testAuthenticator(t)
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler reached without a session")
	})

	rec := httptest.NewRecorder()
	a.Authenticate(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeError(t, rec); got != "Not Logged In!" {
		t.Errorf("error = %q", got)
	}
}

func TestAuthenticateBadToken(t *testing.T) {
	a, _ := testAuthenticator(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "not.a.jwt"})
	rec := httptest.NewRecorder()
	a.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeError(t, rec); got != "Json Web Token is invalid, try again" {
		t.Errorf("error = %q", got)
	}
}

func TestAuthenticateDeletedAccount(t *testing.T) {
	a, tokens := testAuthenticator(t)
	token, err := tokens.Issue("ghost")
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()
	a.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeError(t, rec); got != "Not Logged In!" {
		t.Errorf("error = %q", got)
	}
}

func TestAuthenticateLoadsCurrentUser(t *testing.T) {
	u := users.User{ID: "u1", Name: "Rama", Email: "rama@example.com", Role: users.RoleUser}
	a, tokens := testAuthenticator(t, u)
	token, err := tokens.Issue(u.ID)
	if err != nil {
		t.Fatal(err)
	}

	var seen users.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CurrentUser(r)
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()
	a.Authenticate(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if seen.ID != u.ID || seen.Email != u.Email {
		t.Errorf("CurrentUser = %+v, want %+v", seen, u)
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("plain user rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
		ctx := context.WithValue(req.Context(), userKey, users.User{ID: "u1", Role: users.RoleUser})
		rec := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rec, req.WithContext(ctx))

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		if got := decodeError(t, rec); got != "User is not allowed to access this resource" {
			t.Errorf("error = %q", got)
		}
	})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
		ctx := context.WithValue(req.Context(), userKey, users.User{ID: "a1", Role: users.RoleAdmin})
		rec := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rec, req.WithContext(ctx))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
	})
}
