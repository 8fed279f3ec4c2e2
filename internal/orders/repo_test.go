package orders

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
)

func TestStockConflict(t *testing.T) {
	checkErr := fmt.Errorf("exec: %w", &pgconn.PgError{
		Code:           "23514",
		ConstraintName: "products_stock_check",
	})
	err := stockConflict(checkErr, "p1")
	if apperr.KindOf(err) != apperr.Conflict {
		t.Fatalf("kind = %v, want Conflict", apperr.KindOf(err))
	}
	if got := apperr.Message(err); got != "insufficient stock for product p1" {
		t.Errorf("message = %q", got)
	}

	// anything but the CHECK violation passes through untouched
	plain := errors.New("connection reset")
	if got := stockConflict(plain, "p1"); got != plain {
		t.Errorf("got %v, want passthrough", got)
	}
	other := &pgconn.PgError{Code: "23505"}
	if got := stockConflict(other, "p1"); !errors.Is(got, error(other)) {
		t.Errorf("got %v, want passthrough", got)
	}
}
