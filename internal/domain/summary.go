package domain

import "fmt"

// ReviewDigest is the slice of a stored review that goes into a summary.
type ReviewDigest struct {
	Rating          int     `json:"rating" yaml:"rating"`
	Review          string  `json:"review" yaml:"review"`
	FoodQuality     int     `json:"foodQuality" yaml:"foodQuality"`
	Service         int     `json:"service" yaml:"service"`
	Atmosphere      int     `json:"atmosphere" yaml:"atmosphere"`
	Value           int     `json:"value" yaml:"value"`
	OrderTotal      float64 `json:"orderTotal" yaml:"orderTotal"`
	ConfidenceScore int     `json:"confidenceScore" yaml:"confidenceScore"`
}

type ReviewSummary struct {
	Summary       string      `json:"summary"`
	ReviewCount   int         `json:"reviewCount"`
	AverageRating string      `json:"averageRating"`
	Source        ScoreSource `json:"source"`
}

// AverageRating formats the mean overall rating with one decimal place.
func AverageRating(reviews []ReviewDigest) string {
	if len(reviews) == 0 {
		return "0.0"
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(reviews)))
}
