package gateway

import (
	"context"
	"fmt"

	"tripplanner/internal/domain"
)

type fitRequest struct {
	Candidate   fitCandidate       `json:"candidate"`
	Preferences domain.Preferences `json:"preferences"`
}

type fitCandidate struct {
	Name        string          `json:"name"`
	Category    domain.Category `json:"category"`
	Rating      float64         `json:"rating"`
	Votes       int             `json:"user_ratings_total"`
	PriceLevel  int             `json:"price_level"`
	DurationMin int             `json:"duration_min"`
	Types       []string        `json:"types,omitempty"`
}

// PreferenceFit asks the affinity service how well c suits p, in [0,1].
func (c *Client) PreferenceFit(ctx context.Context, cand domain.Candidate, p domain.Preferences) (float64, error) {
	req := fitRequest{
		Candidate: fitCandidate{
			Name:        cand.Name,
			Category:    cand.Category,
			Rating:      cand.Rating,
			Votes:       cand.Votes,
			PriceLevel:  cand.PriceLevel,
			DurationMin: cand.DurationMin,
			Types:       cand.Types,
		},
		Preferences: p,
	}
	var out struct {
		Score *float64 `json:"score"`
	}
	if err := c.post(ctx, "preference_fit", c.base+"/v1/preference:fit", req, nil, &out); err != nil {
		return 0, err
	}
	if out.Score == nil {
		return 0, fmt.Errorf("preference_fit: missing score")
	}
	return min(max(*out.Score, 0), 1), nil
}
