package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tastechain/reviewscore/internal/domain"
)

// Scorer produces a confidence score for a derived scoring context.
type Scorer interface {
	Score(ctx context.Context, sc *domain.ScoringContext) (int, error)
}

// RemoteScorer asks the language model for a score. Every failure other than a
// configuration problem is wrapped in domain.ErrRemoteScoringUnavailable.
type RemoteScorer struct {
	client     domain.LLMClient
	references []domain.ReferenceReview
}

func NewRemoteScorer(client domain.LLMClient, references []domain.ReferenceReview) *RemoteScorer {
	return &RemoteScorer{client: client, references: references}
}

func (s *RemoteScorer) Score(ctx context.Context, sc *domain.ScoringContext) (int, error) {
	reply, err := s.client.ScoreReview(ctx, sc, s.references)
	if err != nil {
		if domain.IsConfiguration(err) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", domain.ErrRemoteScoringUnavailable, err)
	}

	score, ok := domain.ParseLeadingInt(reply)
	if !ok {
		return 0, fmt.Errorf("%w: unparseable reply %q", domain.ErrRemoteScoringUnavailable, reply)
	}
	if !domain.ValidScore(score) {
		return 0, fmt.Errorf("%w: reply %d out of range", domain.ErrRemoteScoringUnavailable, score)
	}
	return score, nil
}

// Heuristic points per component.
const (
	ContextDishMatchPoints    = 50
	ContextFoodMentionPoints  = 30
	ContextNoMatchPoints      = 10
	DetailVeryDetailedPoints  = 35
	DetailMediumPoints        = 25
	DetailBasicPoints         = 15
	DetailShortPoints         = 5
	SpendingAbovePoints       = 8
	SpendingExpectedPoints    = 5
	SpendingBelowPoints       = 2
	PreferenceMatchPoints     = 8
	ConsistencyHighPoints     = 8
	ConsistencyMediumPoints   = 5
	ConsistencyLowPoints      = 2
	consistencyHighVariance   = 1.0
	consistencyMediumVariance = 2.0
)

// Dishes checked against both the order and the review, in priority order.
var matchedDishes = []string{"pizza", "sushi", "pasta", "burger"}

var foodMentions = []string{"food", "meal", "dish"}

// HeuristicPoints is the per-component result of the local heuristic.
type HeuristicPoints struct {
	Context     int
	Detail      int
	Spending    int
	Preference  int
	Consistency int
}

func (p HeuristicPoints) Total() int {
	return domain.ClampScore(p.Context + p.Detail + p.Spending + p.Preference + p.Consistency)
}

// ScoreHeuristic applies the local scoring rules. It is deterministic.
func ScoreHeuristic(sc *domain.ScoringContext) HeuristicPoints {
	return HeuristicPoints{
		Context:     contextPoints(sc.OrderItems, sc.ReviewText),
		Detail:      detailPoints(domain.ComputeDetailLevel(sc.CharacterCount())),
		Spending:    spendingPoints(domain.ComputeSpendingBucket(sc.SpendingRatio)),
		Preference:  preferencePoints(sc.CuisineMatch),
		Consistency: consistencyPoints(sc.RatingVariance()),
	}
}

func contextPoints(orderItems, review string) int {
	items := strings.ToLower(orderItems)
	text := strings.ToLower(review)
	for _, dish := range matchedDishes {
		if strings.Contains(items, dish) && strings.Contains(text, dish) {
			return ContextDishMatchPoints
		}
	}
	for _, word := range foodMentions {
		if strings.Contains(text, word) {
			return ContextFoodMentionPoints
		}
	}
	return ContextNoMatchPoints
}

func detailPoints(level domain.DetailLevel) int {
	switch level {
	case domain.DetailVeryDetailed:
		return DetailVeryDetailedPoints
	case domain.DetailMedium:
		return DetailMediumPoints
	case domain.DetailBasic:
		return DetailBasicPoints
	default:
		return DetailShortPoints
	}
}

func spendingPoints(bucket domain.SpendingBucket) int {
	switch bucket {
	case domain.SpendingAbove:
		return SpendingAbovePoints
	case domain.SpendingExpected:
		return SpendingExpectedPoints
	default:
		return SpendingBelowPoints
	}
}

func preferencePoints(matched bool) int {
	if matched {
		return PreferenceMatchPoints
	}
	return 0
}

func consistencyPoints(variance float64) int {
	switch {
	case variance <= consistencyHighVariance:
		return ConsistencyHighPoints
	case variance <= consistencyMediumVariance:
		return ConsistencyMediumPoints
	default:
		return ConsistencyLowPoints
	}
}

// HeuristicScorer is the local fallback. It never fails.
type HeuristicScorer struct{}

func (HeuristicScorer) Score(ctx context.Context, sc *domain.ScoringContext) (int, error) {
	return ScoreHeuristic(sc).Total(), nil
}
