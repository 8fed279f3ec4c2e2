package orders

import (
	"testing"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"Processing", "Shipped", "Delivered"} {
		if _, err := ParseStatus(s); err != nil {
			t.Errorf("ParseStatus(%q) = %v, want nil", s, err)
		}
	}
	for _, s := range []string{"", "processing", "SHIPPED", "Cancelled", "Delivered "} {
		_, err := ParseStatus(s)
		if err == nil {
			t.Errorf("ParseStatus(%q) accepted, want rejection", s)
			continue
		}
		if apperr.KindOf(err) != apperr.Validation {
			t.Errorf("ParseStatus(%q) kind = %v, want Validation", s, apperr.KindOf(err))
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusDelivered, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusProcessing, false},
		{StatusDelivered, StatusShipped, false},
		{StatusDelivered, StatusProcessing, false},
		{StatusProcessing, StatusProcessing, false},
		{StatusShipped, StatusShipped, false},
		{StatusDelivered, StatusDelivered, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPlanTransitionShippedDecrementsStock(t *testing.T) {
	items := []OrderItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}
	plan, err := PlanTransition(StatusProcessing, StatusShipped, items)
	if err != nil {
		t.Fatalf("PlanTransition: %v", err)
	}
	if plan.To != StatusShipped || plan.SetDeliveredAt {
		t.Errorf("plan = %+v, want To=Shipped without delivery stamp", plan)
	}
	if len(plan.Decrements) != 2 {
		t.Fatalf("got %d decrements, want 2", len(plan.Decrements))
	}

	// applying the plan to a stock ledger drains exactly the ordered quantities
	stock := map[string]int{"p1": 5, "p2": 3}
	for _, d := range plan.Decrements {
		stock[d.ProductID] -= d.Quantity
	}
	if stock["p1"] != 3 || stock["p2"] != 2 {
		t.Errorf("stock after plan = %v, want p1=3 p2=2", stock)
	}
}

func TestPlanTransitionDelivered(t *testing.T) {
	items := []OrderItem{{ProductID: "p1", Quantity: 2}}

	plan, err := PlanTransition(StatusShipped, StatusDelivered, items)
	if err != nil {
		t.Fatalf("PlanTransition: %v", err)
	}
	if !plan.SetDeliveredAt {
		t.Error("Delivered transition must stamp the delivery time")
	}
	if len(plan.Decrements) != 0 {
		t.Errorf("Delivered transition decremented stock again: %+v", plan.Decrements)
	}

	// skipping Shipped entirely also skips the stock decrement
	plan, err = PlanTransition(StatusProcessing, StatusDelivered, items)
	if err != nil {
		t.Fatalf("PlanTransition: %v", err)
	}
	if !plan.SetDeliveredAt || len(plan.Decrements) != 0 {
		t.Errorf("plan = %+v, want delivery stamp and no decrements", plan)
	}
}

func TestPlanTransitionRejectsIllegalMoves(t *testing.T) {
	cases := []struct {
		name     string
		from, to Status
	}{
		{"terminal delivered", StatusDelivered, StatusShipped},
		{"delivered again", StatusDelivered, StatusDelivered},
		{"backward", StatusShipped, StatusProcessing},
		{"same state", StatusProcessing, StatusProcessing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PlanTransition(tc.from, tc.to, nil)
			if err == nil {
				t.Fatalf("PlanTransition(%s, %s) accepted", tc.from, tc.to)
			}
			if apperr.KindOf(err) != apperr.Conflict {
				t.Errorf("kind = %v, want Conflict", apperr.KindOf(err))
			}
		})
	}
}

func TestPlanTransitionDeliveredMessage(t *testing.T) {
	_, err := PlanTransition(StatusDelivered, StatusShipped, nil)
	if got := apperr.Message(err); got != "You have already delivered this order" {
		t.Errorf("message = %q", got)
	}
}
