package catalog

import "time"

type Product struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Category     string    `json:"category"`
	Stock        int       `json:"stock"`
	Images       []Image   `json:"images"`
	Reviews      []Review  `json:"reviews,omitempty"`
	Ratings      float64   `json:"ratings"`
	NumOfReviews int       `json:"numOfReviews"`
	CreatedBy    string    `json:"user"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Image struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

type Review struct {
	UserID   string `json:"user"`
	UserName string `json:"name"` // denormalized at write time
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// AggregateRatings returns the arithmetic mean of ratings and their count.
// An empty list aggregates to 0.
func AggregateRatings(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings)), len(ratings)
}
