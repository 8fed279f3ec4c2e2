package catalog

import "testing"

func TestAggregateRatings(t *testing.T) {
	cases := []struct {
		name      string
		ratings   []int
		wantMean  float64
		wantCount int
	}{
		{"empty", nil, 0, 0},
		{"single", []int{4}, 4, 1},
		{"mixed", []int{5, 3, 4}, 4, 3},
		{"after removing a review", []int{5, 4}, 4.5, 2},
		{"fractional mean", []int{5, 5, 4}, 14.0 / 3.0, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mean, count := AggregateRatings(tc.ratings)
			if mean != tc.wantMean || count != tc.wantCount {
				t.Errorf("AggregateRatings(%v) = (%v, %d), want (%v, %d)",
					tc.ratings, mean, count, tc.wantMean, tc.wantCount)
			}
		})
	}
}
