package xai

import (
	"fmt"
	"strings"
)

// DefaultModel is the model used for X searches. Only the reasoning variants
// of grok-4 accept the x_search tool; the plain (non-reasoning) variants
// reject it, so this must stay a reasoning model.
const DefaultModel = "grok-4-1-fast-reasoning"

// DefaultBaseURL is the public xAI API root.
const DefaultBaseURL = "https://api.x.ai/v1"

// ToolXSearch is the provider's built-in X search tool type.
const ToolXSearch = "x_search"

// Tool declares a provider-side tool capability.
type Tool struct {
	Type string `json:"type"`
}

// Request is the body of a POST /responses call.
type Request struct {
	Model       string  `json:"model"`
	Input       string  `json:"input"`
	Tools       []Tool  `json:"tools"`
	Temperature float64 `json:"temperature"`
}

// BuildRequest assembles a minimal Responses API request for query. The
// prompt is a single directive with no system message since every extra
// instruction is billed as input tokens. maxResults is only a hint to the
// model; the extractor enforces the real limit.
func BuildRequest(query string, maxResults int, model string) Request {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	return Request{
		Model:       model,
		Input:       fmt.Sprintf("Search X for: %s. Return up to %d posts.", strings.TrimSpace(query), maxResults),
		Tools:       []Tool{{Type: ToolXSearch}},
		Temperature: 0,
	}
}
