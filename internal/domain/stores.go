package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LLMClient is a text-generation provider. Replies are returned raw; callers
// decide whether they are usable.
type LLMClient interface {
	ScoreReview(ctx context.Context, sc *ScoringContext, references []ReferenceReview) (string, error)
	SummarizeReviews(ctx context.Context, restaurantName string, reviews []ReviewDigest) (string, error)
}

type ScoreListOpts struct {
	RestaurantName string
	Limit          int
}

type ScoreStore interface {
	Create(ctx context.Context, r *ScoreRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*ScoreRecord, error)
	ListRecent(ctx context.Context, opts ScoreListOpts) ([]ScoreRecord, error)
	// DeleteOlderThan removes records created before cutoff and returns how
	// many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Ping(ctx context.Context) error
}
