package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ReviewInput is a review as submitted by a diner. Ratings are pointers so a
// missing rating can be told apart from a zero.
type ReviewInput struct {
	Review      string `json:"review" yaml:"review"`
	Rating      *int   `json:"rating" yaml:"rating"`
	FoodQuality *int   `json:"foodQuality" yaml:"foodQuality"`
	Service     *int   `json:"service" yaml:"service"`
	Atmosphere  *int   `json:"atmosphere" yaml:"atmosphere"`
	Value       *int   `json:"value" yaml:"value"`
}

type OrderItem struct {
	Name     string          `json:"name" yaml:"name"`
	Quantity int             `json:"quantity,omitempty" yaml:"quantity"`
	Price    decimal.Decimal `json:"price" yaml:"price"`
}

type OrderContext struct {
	Items []OrderItem      `json:"items" yaml:"items"`
	Total *decimal.Decimal `json:"total" yaml:"total"`
}

// ItemNames joins the ordered item names the same way they are shown to the model.
func (o *OrderContext) ItemNames() string {
	names := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		names = append(names, item.Name)
	}
	return strings.Join(names, ", ")
}

type UserContext struct {
	SelectedCategories []string `json:"selectedCategories,omitempty" yaml:"selectedCategories"`
	Preferences        []string `json:"preferences,omitempty" yaml:"preferences"`
}

// CuisinePreferences returns selectedCategories, or preferences when the first is empty.
func (u *UserContext) CuisinePreferences() []string {
	if len(u.SelectedCategories) > 0 {
		return u.SelectedCategories
	}
	return u.Preferences
}

type RestaurantContext struct {
	Name       string     `json:"name,omitempty" yaml:"name"`
	Cuisine    string     `json:"cuisine" yaml:"cuisine"`
	PriceRange PriceRange `json:"priceRange" yaml:"priceRange"`
}

// PriceRange is a restaurant price tier, either a word token or a dollar symbol.
type PriceRange string

const (
	PriceBudget   PriceRange = "budget"
	PriceModerate PriceRange = "moderate"
	PricePremium  PriceRange = "premium"
	PriceLuxury   PriceRange = "luxury"

	DefaultExpectedSpending = 20
)

var expectedSpending = map[PriceRange]int64{
	PriceBudget:   10,
	"$":           10,
	PriceModerate: 20,
	"$$":          20,
	PricePremium:  35,
	"$$$":         35,
}

// ExpectedSpending returns the per-person USD baseline for the tier.
// Luxury and unrecognised tiers use the default baseline.
func (p PriceRange) ExpectedSpending() int64 {
	if v, ok := expectedSpending[PriceRange(strings.ToLower(strings.TrimSpace(string(p))))]; ok {
		return v
	}
	return DefaultExpectedSpending
}

// ScoreRequest is the full input of a confidence calculation.
type ScoreRequest struct {
	ReviewData     *ReviewInput       `json:"reviewData" yaml:"reviewData"`
	OrderData      *OrderContext      `json:"orderData" yaml:"orderData"`
	UserData       *UserContext       `json:"userData" yaml:"userData"`
	RestaurantData *RestaurantContext `json:"restaurantData" yaml:"restaurantData"`
}

// Validate returns an *InvalidInputError naming the first missing or malformed field.
func (r *ScoreRequest) Validate() error {
	switch {
	case r.ReviewData == nil:
		return missingField("reviewData")
	case r.OrderData == nil:
		return missingField("orderData")
	case r.UserData == nil:
		return missingField("userData")
	case r.RestaurantData == nil:
		return missingField("restaurantData")
	}

	if strings.TrimSpace(r.ReviewData.Review) == "" {
		return missingField("review")
	}

	ratings := []struct {
		field string
		value *int
	}{
		{"rating", r.ReviewData.Rating},
		{"foodQuality", r.ReviewData.FoodQuality},
		{"service", r.ReviewData.Service},
		{"atmosphere", r.ReviewData.Atmosphere},
		{"value", r.ReviewData.Value},
	}
	for _, rt := range ratings {
		if rt.value == nil {
			return missingField(rt.field)
		}
		if *rt.value < MinRating || *rt.value > MaxRating {
			return &InvalidInputError{Field: rt.field, Reason: "must be between 1 and 5"}
		}
	}

	if r.OrderData.Total == nil {
		return missingField("total")
	}
	return nil
}
