package types

import (
	"time"

	"github.com/google/uuid"
)

// RatingSummary is the denormalized review aggregate on a product.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Review is a single customer review persisted inside the product's
// JSONB review list.
type Review struct {
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Reviews is the JSONB-persisted review list.
type Reviews []Review

// Summarize recomputes the aggregate from the raw reviews.
func (rs Reviews) Summarize() RatingSummary {
	if len(rs) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, r := range rs {
		sum += r.Rating
	}
	return RatingSummary{
		Average: float64(sum) / float64(len(rs)),
		Count:   len(rs),
	}
}
