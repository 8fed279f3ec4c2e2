package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
)

// handlerFunc lets handlers return errors; handle funnels every failure
// through the single boundary below.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			writeError(w, err)
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError normalizes every failure into {success:false, error:msg}.
// Malformed identifiers surface from postgres as 22P02 and map to 400;
// anything unclassified is logged and reported as a 500.
func writeError(w http.ResponseWriter, err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		writeError(w, apperr.New(apperr.Validation, "Resource not found. Invalid id"))
		return
	}
	if apperr.KindOf(err) == apperr.Unknown {
		log.Printf("internal error: %v", err)
	}
	writeJSON(w, apperr.Status(err), map[string]any{
		"success": false,
		"error":   apperr.Message(err),
	})
}
