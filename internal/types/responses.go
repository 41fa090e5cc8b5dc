package types

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	Dependency string `json:"dependency,omitempty"`
}

// ChoiceSummary is one ranked recipe offered for selection
type ChoiceSummary struct {
	Index int     `json:"index"`
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	URL   string  `json:"url"`
	Score float64 `json:"score"`
	Boost int     `json:"boost"`
}

// ChoicesResponse is returned when ranked choices are stored for later selection
type ChoicesResponse struct {
	SessionID string          `json:"session_id"`
	Query     string          `json:"query"`
	Choices   []ChoiceSummary `json:"choices"`
}

// HealthResponse reports the liveness of the API and its stores
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}
