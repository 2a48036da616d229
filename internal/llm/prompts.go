package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tastechain/reviewscore/internal/domain"
)

// completion is a provider-neutral chat request.
type completion struct {
	system      string
	prompt      string
	temperature float32
	maxTokens   int
}

const (
	scoringTemperature = 0.1
	scoringMaxTokens   = 10
	summaryTemperature = 0.7
	summaryMaxTokens   = 500
)

const scoringSystemPrompt = `You are an expert food review analyst. Calculate confidence scores based on the given criteria. Respond with only the final score number.`

const scoringPrompt = `You are an expert food review analyst. Calculate a confidence score (0-100) for this food review based on the following criteria:

REVIEW DATA:
- Review Text: "%s"
- Overall Rating: %d/5
- Food Quality: %d/5
- Service: %d/5
- Atmosphere: %d/5
- Value: %d/5

ORDER CONTEXT:
- Ordered Items: %s
- Restaurant Cuisine: %s
- User Preferences: %s
- Expected Spending: $%d
- Actual Spending: $%s
- Spending Ratio: %s

CONFIDENCE SCORING CRITERIA:

CORE SCORING (Base 100 points):
1. CONTEXT MATCHING (60%% of base score = 60 points):
   - Does the review text match the ordered items? (0-60 points)
   - If reviewing pizza but ordered sushi, deduct heavily (0-20 points)
   - If reviewing the actual ordered items, give high points (40-60 points)
   - Partial context match gets medium points (20-40 points)

2. DETAIL LEVEL (40%% of base score = 40 points):
   - More detailed reviews get higher confidence (0-40 points)
   - Reference these examples for scoring:
%s
   - Very detailed reviews (100+ chars): 30-40 points
   - Medium detail (50-100 chars): 20-30 points
   - Basic reviews (20-50 chars): 10-20 points
   - Very short reviews (<20 chars): 0-10 points

BONUS POINTS (Additional to base 100):
3. SPENDING CONTEXT (Bonus: +0 to +15 points):
   - If spending is above expected (ratio > 1.2), add 5-10 points
   - If spending matches expected (0.8-1.2), add 2-5 points
   - If spending is below expected (ratio < 0.8), add 0-2 points

4. PREFERENCE MATCH (Bonus: +0 to +10 points):
   - If user preferences match restaurant cuisine, add 5-10 points
   - If no match, no penalty (0 points)

5. RATING CONSISTENCY (Bonus: +0 to +10 points):
   - Check if individual ratings align with overall rating
   - If all ratings are similar, add 5-10 points
   - If ratings are inconsistent, add 0-5 points

CALCULATION:
- Base score = Context Matching (0-60) + Detail Level (0-40)
- Bonus points = Spending Context (0-15) + Preference Match (0-10) + Rating Consistency (0-10)
- Final score = Base score + Bonus points (capped at 100)
- Round to nearest integer

Provide ONLY the final confidence score as a number (0-100), no explanation needed.`

const summarySystemPrompt = `You are a helpful food review analyst. Analyze customer reviews and provide clear, balanced summaries that help potential customers understand what to expect from a restaurant.`

const summaryPrompt = `Analyze the following customer reviews for %s and provide a concise, helpful summary that gives potential customers a clear understanding of what to expect. Focus on:

1. Overall performance and strengths
2. Common themes in customer feedback
3. What customers consistently praise
4. Any areas that could be improved
5. Value for money assessment
6. Atmosphere and service quality
7. Food quality highlights

Reviews data:
%s

Please provide a 1 paragraph summary that is:
- Informative but not too long
- Balanced and fair
- Helpful for decision-making
- Written in a friendly, conversational tone
- Focused on what customers can expect

Format the response as a clean summary without any markdown formatting or bullet points.`

func scoringCompletion(sc *domain.ScoringContext, refs []domain.ReferenceReview) completion {
	if len(refs) > domain.MaxPromptReferences {
		refs = refs[:domain.MaxPromptReferences]
	}

	var sb strings.Builder
	for i, r := range refs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("   - %q (Score: %d)", r.Text, r.Score))
	}

	prompt := fmt.Sprintf(scoringPrompt,
		sc.ReviewText,
		sc.Rating, sc.FoodQuality, sc.Service, sc.Atmosphere, sc.Value,
		sc.OrderItems,
		sc.RestaurantCuisine,
		strings.Join(sc.UserPreferences, ", "),
		sc.ExpectedSpending,
		sc.ActualSpending.String(),
		sc.SpendingRatio.StringFixed(2),
		sb.String(),
	)

	return completion{
		system:      scoringSystemPrompt,
		prompt:      prompt,
		temperature: scoringTemperature,
		maxTokens:   scoringMaxTokens,
	}
}

func summaryCompletion(restaurantName string, reviews []domain.ReviewDigest) (completion, error) {
	data, err := json.MarshalIndent(reviews, "", "  ")
	if err != nil {
		return completion{}, fmt.Errorf("marshal reviews: %w", err)
	}

	return completion{
		system:      summarySystemPrompt,
		prompt:      fmt.Sprintf(summaryPrompt, restaurantName, string(data)),
		temperature: summaryTemperature,
		maxTokens:   summaryMaxTokens,
	}, nil
}
