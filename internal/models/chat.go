package models

// ChatRequest is a message to the assistant with optional page context
type ChatRequest struct {
	Message string         `json:"message" validate:"required"`
	Context map[string]any `json:"context,omitempty"`
}

// ChatResponse is the assistant's reply
type ChatResponse struct {
	Success      bool    `json:"success"`
	Response     string  `json:"response"`
	Agent        string  `json:"agent"`
	Warning      string  `json:"warning"`
	Timestamp    float64 `json:"timestamp"` // unix seconds
	PoweredBy    string  `json:"powered_by"`
	ContextAware bool    `json:"context_aware"`
}
