package entity

// AIResponse is what a provider adapter hands back to the planner.
type AIResponse struct {
	Content    string `json:"content"`
	Model      string `json:"model"`
	TokenCount int    `json:"token_count"`
	Latency    int64  `json:"latency_ms"`
}

// GenerationResponse is the envelope returned to the caller.
type GenerationResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
}

// ErrorResponse is returned for failures that are not provider reply
// problems: undecodable bodies and transport errors.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
