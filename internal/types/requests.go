package types

// RecommendationRequest is the request body for a one-shot recommendation or a choices listing
type RecommendationRequest struct {
	Query       string   `json:"query" binding:"required"`
	Ingredients []string `json:"ingredients"`
}

// SelectChoiceRequest picks one of the recipes stored in a choice session
type SelectChoiceRequest struct {
	Index *int `json:"index" binding:"required"`
}
