package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinConfidenceScore = 0
	MaxConfidenceScore = 100
)

// ScoreSource records which branch produced a confidence score.
type ScoreSource string

const (
	SourceModel     ScoreSource = "model"
	SourceHeuristic ScoreSource = "heuristic"
)

type DetailLevel string

const (
	DetailVeryDetailed DetailLevel = "Very Detailed"
	DetailMedium       DetailLevel = "Medium"
	DetailBasic        DetailLevel = "Basic"
	DetailShort        DetailLevel = "Short"
)

// Review length thresholds, inclusive lower bounds.
const (
	VeryDetailedMinChars = 100
	MediumMinChars       = 50
	BasicMinChars        = 20
)

func ComputeDetailLevel(chars int) DetailLevel {
	switch {
	case chars >= VeryDetailedMinChars:
		return DetailVeryDetailed
	case chars >= MediumMinChars:
		return DetailMedium
	case chars >= BasicMinChars:
		return DetailBasic
	default:
		return DetailShort
	}
}

type SpendingBucket string

const (
	SpendingAbove    SpendingBucket = "Above Expected"
	SpendingExpected SpendingBucket = "Expected Range"
	SpendingBelow    SpendingBucket = "Below Expected"
)

var (
	spendingUpperRatio = decimal.RequireFromString("1.2")
	spendingLowerRatio = decimal.RequireFromString("0.8")
)

// ComputeSpendingBucket classifies a spending ratio. Both 0.8 and 1.2 fall in
// the expected range.
func ComputeSpendingBucket(ratio decimal.Decimal) SpendingBucket {
	switch {
	case ratio.GreaterThan(spendingUpperRatio):
		return SpendingAbove
	case ratio.GreaterThanOrEqual(spendingLowerRatio):
		return SpendingExpected
	default:
		return SpendingBelow
	}
}

type MatchQuality string

const (
	MatchHigh    MatchQuality = "High"
	MatchPartial MatchQuality = "Partial"
)

// ScoringContext holds the facts derived once from a ScoreRequest and shared by
// the model prompt, the heuristic and the breakdown.
type ScoringContext struct {
	ReviewText  string
	Rating      int
	FoodQuality int
	Service     int
	Atmosphere  int
	Value       int

	OrderItems        string
	RestaurantName    string
	RestaurantCuisine string
	UserPreferences   []string

	ExpectedSpending int64
	ActualSpending   decimal.Decimal
	SpendingRatio    decimal.Decimal
	CuisineMatch     bool
}

// NewScoringContext validates req and derives the scoring facts from it.
func NewScoringContext(req *ScoreRequest) (*ScoringContext, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rv := req.ReviewData
	expected := req.RestaurantData.PriceRange.ExpectedSpending()
	actual := *req.OrderData.Total
	prefs := req.UserData.CuisinePreferences()

	return &ScoringContext{
		ReviewText:        rv.Review,
		Rating:            *rv.Rating,
		FoodQuality:       *rv.FoodQuality,
		Service:           *rv.Service,
		Atmosphere:        *rv.Atmosphere,
		Value:             *rv.Value,
		OrderItems:        req.OrderData.ItemNames(),
		RestaurantName:    req.RestaurantData.Name,
		RestaurantCuisine: req.RestaurantData.Cuisine,
		UserPreferences:   append([]string(nil), prefs...),
		ExpectedSpending:  expected,
		ActualSpending:    actual,
		SpendingRatio:     actual.Div(decimal.NewFromInt(expected)),
		CuisineMatch:      cuisineMatches(prefs, req.RestaurantData.Cuisine),
	}, nil
}

func cuisineMatches(prefs []string, cuisine string) bool {
	for _, p := range prefs {
		if strings.EqualFold(p, cuisine) {
			return true
		}
	}
	return false
}

// CharacterCount is the review length in characters.
func (c *ScoringContext) CharacterCount() int {
	return utf8.RuneCountInString(c.ReviewText)
}

// SubRatings returns the four category ratings used for consistency checks.
func (c *ScoringContext) SubRatings() [4]int {
	return [4]int{c.FoodQuality, c.Service, c.Atmosphere, c.Value}
}

// RatingVariance is the population variance of the sub-ratings.
func (c *ScoringContext) RatingVariance() float64 {
	ratings := c.SubRatings()
	var sum float64
	for _, r := range ratings {
		sum += float64(r)
	}
	mean := sum / float64(len(ratings))

	var sq float64
	for _, r := range ratings {
		d := float64(r) - mean
		sq += d * d
	}
	return sq / float64(len(ratings))
}

// MatchQuality only looks at pizza, even though the heuristic checks several
// dishes. The label is informational.
func (c *ScoringContext) MatchQuality() MatchQuality {
	if mentions(c.OrderItems, "pizza") && mentions(c.ReviewText, "pizza") {
		return MatchHigh
	}
	return MatchPartial
}

func mentions(s, keyword string) bool {
	return strings.Contains(strings.ToLower(s), keyword)
}

type ConfidenceResult struct {
	ID              *uuid.UUID  `json:"id,omitempty"`
	ConfidenceScore int         `json:"confidenceScore"`
	Source          ScoreSource `json:"source"`
	Breakdown       Breakdown   `json:"breakdown"`
}

type Breakdown struct {
	ScoringSystem     ScoringSystem       `json:"scoringSystem"`
	ContextMatch      ContextMatch        `json:"contextMatch"`
	DetailLevel       DetailBreakdown     `json:"detailLevel"`
	SpendingContext   SpendingBreakdown   `json:"spendingContext"`
	PreferenceMatch   PreferenceBreakdown `json:"preferenceMatch"`
	RatingConsistency RatingBreakdown     `json:"ratingConsistency"`
}

type ScoringSystem struct {
	Core struct {
		ContextMatching string `json:"contextMatching"`
		DetailLevel     string `json:"detailLevel"`
	} `json:"core"`
	Bonus struct {
		SpendingContext   string `json:"spendingContext"`
		PreferenceMatch   string `json:"preferenceMatch"`
		RatingConsistency string `json:"ratingConsistency"`
	} `json:"bonus"`
}

func DefaultScoringSystem() ScoringSystem {
	var s ScoringSystem
	s.Core.ContextMatching = "0-60 points (60% of base score)"
	s.Core.DetailLevel = "0-40 points (40% of base score)"
	s.Bonus.SpendingContext = "0-15 bonus points"
	s.Bonus.PreferenceMatch = "0-10 bonus points"
	s.Bonus.RatingConsistency = "0-10 bonus points"
	return s
}

type ContextMatch struct {
	OrderItems   string       `json:"orderItems"`
	ReviewText   string       `json:"reviewText"`
	MatchQuality MatchQuality `json:"matchQuality"`
}

type DetailBreakdown struct {
	CharacterCount int         `json:"characterCount"`
	Level          DetailLevel `json:"level"`
}

type SpendingBreakdown struct {
	Expected int64          `json:"expected"`
	Actual   float64        `json:"actual"`
	Ratio    float64        `json:"ratio"`
	Bonus    SpendingBucket `json:"bonus"`
}

type PreferenceBreakdown struct {
	Matched           bool   `json:"matched"`
	UserPreferences   string `json:"userPreferences"`
	RestaurantCuisine string `json:"restaurantCuisine"`
}

type RatingBreakdown struct {
	Overall     int `json:"overall"`
	FoodQuality int `json:"foodQuality"`
	Service     int `json:"service"`
	Atmosphere  int `json:"atmosphere"`
	Value       int `json:"value"`
}

// NewBreakdown describes the facts behind a score. It does not depend on which
// branch produced the score.
func NewBreakdown(c *ScoringContext) Breakdown {
	chars := c.CharacterCount()
	return Breakdown{
		ScoringSystem: DefaultScoringSystem(),
		ContextMatch: ContextMatch{
			OrderItems:   c.OrderItems,
			ReviewText:   c.ReviewText,
			MatchQuality: c.MatchQuality(),
		},
		DetailLevel: DetailBreakdown{
			CharacterCount: chars,
			Level:          ComputeDetailLevel(chars),
		},
		SpendingContext: SpendingBreakdown{
			Expected: c.ExpectedSpending,
			Actual:   c.ActualSpending.InexactFloat64(),
			Ratio:    c.SpendingRatio.InexactFloat64(),
			Bonus:    ComputeSpendingBucket(c.SpendingRatio),
		},
		PreferenceMatch: PreferenceBreakdown{
			Matched:           c.CuisineMatch,
			UserPreferences:   strings.Join(c.UserPreferences, ", "),
			RestaurantCuisine: c.RestaurantCuisine,
		},
		RatingConsistency: RatingBreakdown{
			Overall:     c.Rating,
			FoodQuality: c.FoodQuality,
			Service:     c.Service,
			Atmosphere:  c.Atmosphere,
			Value:       c.Value,
		},
	}
}

// ScoreRecord is an audit entry for one computed score.
type ScoreRecord struct {
	ID              uuid.UUID   `json:"id"`
	RestaurantName  string      `json:"restaurant_name"`
	Cuisine         string      `json:"cuisine"`
	ConfidenceScore int         `json:"confidence_score"`
	Source          ScoreSource `json:"source"`
	Breakdown       Breakdown   `json:"breakdown"`
	CreatedAt       time.Time   `json:"created_at"`
}
