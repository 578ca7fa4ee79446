package pricing

import (
	"context"
	"errors"
)

// ErrPricingUnavailable means the estimation call failed or timed out.
// Pricing is enrichment, not a hard dependency: callers continue with an
// empty estimate.
var ErrPricingUnavailable = errors.New("pricing estimate unavailable")

// Estimate is the best-effort enrichment for one cropped sub-image.
// Both fields may be empty.
type Estimate struct {
	Price       string `json:"price"`
	Description string `json:"description"`
}

// Pricer is the external price/description estimation capability.
type Pricer interface {
	Estimate(ctx context.Context, imageURL string) (*Estimate, error)
}
