package result

import (
	"errors"
	"fmt"

	"github.com/hyperifyio/xsearch/internal/extract"
	"github.com/hyperifyio/xsearch/internal/usage"
	"github.com/hyperifyio/xsearch/internal/xai"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	// maxBodyInMessage bounds how much of a provider error body is echoed.
	maxBodyInMessage = 200
)

// SearchResult is the envelope returned for every query.
type SearchResult struct {
	Status     string         `json:"status"`
	Query      string         `json:"query"`
	Tweets     []extract.Post `json:"tweets"`
	ModelUsed  string         `json:"model_used"`
	Usage      usage.Usage    `json:"usage"`
	CostReport string         `json:"cost_report,omitempty"`
	Analysis   string         `json:"analysis,omitempty"`
	Message    string         `json:"message,omitempty"`
}

// Success builds the envelope of a completed search.
func Success(query, model string, posts []extract.Post, rep usage.Report) SearchResult {
	if posts == nil {
		posts = []extract.Post{}
	}
	return SearchResult{
		Status:     StatusSuccess,
		Query:      query,
		Tweets:     posts,
		ModelUsed:  model,
		Usage:      rep.Usage,
		CostReport: rep.Text,
	}
}

// Failure converts err into an error envelope. It is the only place where
// failures become messages.
func Failure(query, model string, err error) SearchResult {
	return SearchResult{
		Status:    StatusError,
		Query:     query,
		Tweets:    []extract.Post{},
		ModelUsed: model,
		Message:   Message(err),
	}
}

// Message renders a short diagnostic for err.
func Message(err error) string {
	var te *xai.TransportError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &te) && te.Kind == xai.KindHTTPStatus:
		return fmt.Sprintf("API error: %d - %s", te.StatusCode, extract.Truncate(te.Body, maxBodyInMessage))
	case errors.As(err, &te):
		return fmt.Sprintf("network/proxy error: %v", te.Err)
	default:
		return fmt.Sprintf("unexpected error: %v", err)
	}
}
