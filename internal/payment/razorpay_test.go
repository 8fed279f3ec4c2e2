package payment

import "testing"

func TestToPaise(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{1999.99, 199999},
		{2089, 208900},
		{0.05, 5},
		{1260.5, 126050},
		{0, 0},
	}
	for _, tc := range cases {
		if got := toPaise(tc.amount); got != tc.want {
			t.Errorf("toPaise(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}
