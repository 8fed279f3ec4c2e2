package orders

import "github.com/habuli/go-shop-backend.git/internal/apperr"

type Status string

const (
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
)

// rank orders the lifecycle; transitions must strictly increase it.
// Skipping Shipped (Processing -> Delivered) is allowed.
var rank = map[Status]int{
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

// ParseStatus validates a client-supplied status string against the closed
// set. Free-form values are rejected rather than stored verbatim.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := rank[st]; !ok {
		return "", apperr.Newf(apperr.Validation, "unknown order status %q", s)
	}
	return st, nil
}

// CanTransition reports whether an order may move from one status to another.
// Status never moves backward and never repeats.
func CanTransition(from, to Status) bool {
	return rank[to] > rank[from]
}

// StockDecrement is one product adjustment owed by a transition into Shipped.
type StockDecrement struct {
	ProductID string
	Quantity  int
}

// TransitionPlan is the side-effect set a legal transition commits atomically:
// the new status, the delivery timestamp, and per-item stock decrements.
type TransitionPlan struct {
	To             Status
	SetDeliveredAt bool
	Decrements     []StockDecrement
}

// PlanTransition decides whether target is legal from current and, if so,
// which side effects apply. Stock is decremented exactly once, at the
// transition into Shipped; Delivered stamps the delivery time.
func PlanTransition(current, target Status, items []OrderItem) (TransitionPlan, error) {
	if current == StatusDelivered {
		return TransitionPlan{}, apperr.New(apperr.Conflict, "You have already delivered this order")
	}
	if !CanTransition(current, target) {
		return TransitionPlan{}, apperr.Newf(apperr.Conflict, "order cannot move from %s to %s", current, target)
	}
	plan := TransitionPlan{To: target}
	switch target {
	case StatusShipped:
		for _, it := range items {
			plan.Decrements = append(plan.Decrements, StockDecrement{ProductID: it.ProductID, Quantity: it.Quantity})
		}
	case StatusDelivered:
		plan.SetDeliveredAt = true
	}
	return plan, nil
}
