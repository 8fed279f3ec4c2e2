package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
	"github.com/habuli/go-shop-backend.git/internal/mail"
	"github.com/habuli/go-shop-backend.git/internal/users"
)

type fakeResetStore struct {
	issued  string
	cleared []string
}

func (f *fakeResetStore) Issue(context.Context, string) (string, error) {
	f.issued = "tok-123"
	return f.issued, nil
}

func (f *fakeResetStore) Consume(context.Context, string) (string, error) {
	return "", apperr.New(apperr.Conflict, "Token is invalid or has expired!")
}

func (f *fakeResetStore) Clear(_ context.Context, token string) {
	f.cleared = append(f.cleared, token)
}

type fakeMailer struct {
	err  error
	sent []mail.Message
}

func (f *fakeMailer) Send(_ context.Context, m mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func TestSendResetEmailClearsTokenOnMailFailure(t *testing.T) {
	store := &fakeResetStore{}
	h := &UsersHandler{
		Reset:       store,
		Mailer:      &fakeMailer{err: apperr.Wrap(apperr.Upstream, "failed to send email", errors.New("dial tcp"))},
		FrontendURL: "http://localhost:3000",
	}

	err := h.sendResetEmail(context.Background(), users.User{ID: "u1", Email: "rama@example.com"})
	if apperr.KindOf(err) != apperr.Upstream {
		t.Fatalf("kind = %v, want Upstream", apperr.KindOf(err))
	}
	if len(store.cleared) != 1 || store.cleared[0] != store.issued {
		t.Errorf("cleared = %v, want the issued token %q", store.cleared, store.issued)
	}
}

func TestSendResetEmailDelivery(t *testing.T) {
	store := &fakeResetStore{}
	mailer := &fakeMailer{}
	h := &UsersHandler{Reset: store, Mailer: mailer, FrontendURL: "http://localhost:3000"}

	if err := h.sendResetEmail(context.Background(), users.User{ID: "u1", Email: "rama@example.com"}); err != nil {
		t.Fatalf("sendResetEmail: %v", err)
	}
	if len(store.cleared) != 0 {
		t.Errorf("token cleared on success: %v", store.cleared)
	}
	if len(mailer.sent) != 1 || !strings.Contains(mailer.sent[0].Body, "/auth/password/reset/"+store.issued) {
		t.Errorf("mail = %+v, want body carrying the reset link", mailer.sent)
	}
}

func TestRegisterNameLength(t *testing.T) {
	h := &UsersHandler{}
	for _, name := range []string{"ab", strings.Repeat("x", 31)} {
		body := `{"name":"` + name + `","email":"a@b.c","password":"hunter22"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(body))
		handle(h.register)(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("name %q: status = %d, want 400", name, rec.Code)
		}
		if got := decodeError(t, rec); got != "Name must be between 3 and 30 characters" {
			t.Errorf("name %q: error = %q", name, got)
		}
	}
}
