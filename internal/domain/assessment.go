package domain

// Recommendation is the analyzer's verdict on a token.
type Recommendation string

const (
	RecommendBuy  Recommendation = "BUY"
	RecommendSkip Recommendation = "SKIP"
)

// Assessment is the structured result of a model analysis of one token.
type Assessment struct {
	Mint           string
	Score          int // 0-100
	Recommendation Recommendation
	Rationale      string
}
