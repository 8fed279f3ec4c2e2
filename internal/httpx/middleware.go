package httpx

import (
	"context"
	"net/http"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
	"github.com/habuli/go-shop-backend.git/internal/auth"
	"github.com/habuli/go-shop-backend.git/internal/users"
)

type ctxKey int

const userKey ctxKey = iota

// UserSource resolves the authenticated user id to its account.
type UserSource interface {
	ByID(ctx context.Context, id string) (users.User, error)
}

// Authenticator verifies the "token" cookie and loads the current user.
type Authenticator struct {
	Tokens *auth.Tokens
	Users  UserSource
}

func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("token")
		if err != nil || cookie.Value == "" {
			writeError(w, apperr.New(apperr.Auth, "Not Logged In!"))
			return
		}
		id, err := a.Tokens.Verify(cookie.Value)
		if err != nil {
			writeError(w, err)
			return
		}
		u, err := a.Users.ByID(r.Context(), id)
		if err != nil {
			// account may have been deleted since the token was issued
			if apperr.KindOf(err) == apperr.NotFound {
				err = apperr.New(apperr.Auth, "Not Logged In!")
			}
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

// RequireAdmin gates admin routes; the plain User role is rejected.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := CurrentUser(r)
		if !u.IsAdmin() {
			writeError(w, apperr.Newf(apperr.Forbidden,
				"%s is not allowed to access this resource", u.Role))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the user set by Authenticate; zero value outside it.
func CurrentUser(r *http.Request) users.User {
	u, _ := r.Context().Value(userKey).(users.User)
	return u
}
