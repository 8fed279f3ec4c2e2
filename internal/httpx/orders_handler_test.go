package httpx

import (
	"encoding/json"
	"testing"

	"github.com/habuli/go-shop-backend.git/internal/orders"
)

// The status endpoint serves the cached value verbatim on a hit, so the
// cache body must stay interchangeable with the fallback body.
func TestStatusCacheBody(t *testing.T) {
	for _, st := range []orders.Status{orders.StatusProcessing, orders.StatusShipped, orders.StatusDelivered} {
		var got struct {
			Status orders.Status `json:"status"`
		}
		if err := json.Unmarshal([]byte(statusCacheBody(st)), &got); err != nil {
			t.Fatalf("%s: body is not valid JSON: %v", st, err)
		}
		if got.Status != st {
			t.Errorf("body status = %q, want %q", got.Status, st)
		}
	}
}
