package domain

// ReferenceReview is an exemplar review with the score a reviewer assigned it.
// Exemplars only anchor the model prompt; the heuristic never reads them.
type ReferenceReview struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// MaxPromptReferences caps how many exemplars are embedded in a prompt.
const MaxPromptReferences = 20
