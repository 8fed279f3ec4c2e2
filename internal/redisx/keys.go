package redisx

import "time"

const (
	// Password reset: pwdreset:{sha256(token)} -> user_id
	KeyPasswordReset = "pwdreset:%s"

	// Cache order status: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLPasswordReset = 15 * time.Minute
	TTLStatusCache   = 5 * time.Minute
	TTLDedup         = 48 * time.Hour
)
